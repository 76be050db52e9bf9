package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/projectdesk/api/internal/application/dto"
	"github.com/projectdesk/api/internal/application/session"
)

// WorkspaceHandler maneja las familias locales de la sesión que no tienen
// persistencia remota: reuniones y leads, más el directorio de usuarios.
type WorkspaceHandler struct {
	sessions *session.Manager
}

// NewWorkspaceHandler construye el handler.
func NewWorkspaceHandler(sessions *session.Manager) *WorkspaceHandler {
	return &WorkspaceHandler{sessions: sessions}
}

// ListMeetings reuniones agendadas en la sesión.
// @Summary      Listar reuniones
// @Tags         workspace
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.MeetingResponse
// @Router       /api/meetings [get]
func (h *WorkspaceHandler) ListMeetings(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	return c.JSON(dto.ToMeetingResponses(sess.Meetings()))
}

// ScheduleMeeting agenda una reunión.
// @Summary      Agendar reunión
// @Tags         workspace
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.ScheduleMeetingRequest  true  "Reunión"
// @Success      201
// @Router       /api/meetings [post]
func (h *WorkspaceHandler) ScheduleMeeting(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	var in dto.ScheduleMeetingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if _, err := sess.ScheduleMeeting(in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// ListLeads leads de la sesión (solo manager).
// @Summary      Listar leads
// @Tags         workspace
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LeadResponse
// @Router       /api/leads [get]
func (h *WorkspaceHandler) ListLeads(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	return c.JSON(dto.ToLeadResponses(sess.Leads()))
}

// CreateLead alta de lead.
// @Summary      Crear lead
// @Tags         workspace
// @Security     Bearer
// @Accept       json
// @Success      201
// @Router       /api/leads [post]
func (h *WorkspaceHandler) CreateLead(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	var in dto.CreateLeadRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if _, err := sess.CreateLead(in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// UpdateLead patch parcial del lead.
// @Summary      Actualizar lead
// @Tags         workspace
// @Security     Bearer
// @Accept       json
// @Param        id  path  string  true  "ID del lead"
// @Success      204
// @Router       /api/leads/{id} [put]
func (h *WorkspaceHandler) UpdateLead(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	var in dto.UpdateLeadRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if _, err := sess.UpdateLead(c.Params("id"), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteLead elimina el lead.
// @Summary      Eliminar lead
// @Tags         workspace
// @Security     Bearer
// @Param        id  path  string  true  "ID del lead"
// @Success      204
// @Router       /api/leads/{id} [delete]
func (h *WorkspaceHandler) DeleteLead(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	if err := sess.DeleteLead(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListUsers directorio de perfiles.
// @Summary      Listar usuarios
// @Tags         workspace
// @Security     Bearer
// @Produce      json
// @Param        role  query  string  false  "Filtrar por rol (employee)"
// @Success      200  {array}  dto.UserResponse
// @Router       /api/users [get]
func (h *WorkspaceHandler) ListUsers(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	if c.Query("role") == "employee" {
		return c.JSON(dto.ToUserResponses(sess.Users().Employees()))
	}
	return c.JSON(dto.ToUserResponses(sess.Users().Items()))
}
