package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/projectdesk/api/internal/application/dto"
	"github.com/projectdesk/api/internal/application/session"
)

// ProjectHandler maneja proyectos y sus resúmenes (protegido).
type ProjectHandler struct {
	sessions *session.Manager
}

// NewProjectHandler construye el handler.
func NewProjectHandler(sessions *session.Manager) *ProjectHandler {
	return &ProjectHandler{sessions: sessions}
}

// List godoc
// @Summary      Listar proyectos visibles para el actor
// @Tags         projects
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProjectResponse
// @Router       /api/projects [get]
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	return c.JSON(dto.ToProjectResponses(sess.Projects().Items()))
}

// Create godoc
// @Summary      Crear proyecto (solo manager)
// @Tags         projects
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProjectRequest  true  "Datos del proyecto"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/projects [post]
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	var in dto.CreateProjectRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	id, err := sess.CreateProject(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// Update godoc
// @Summary      Actualizar proyecto (solo manager)
// @Tags         projects
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID del proyecto"
// @Param        body  body  dto.UpdateProjectRequest  true  "Campos a actualizar"
// @Success      204
// @Router       /api/projects/{id} [put]
func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	id := c.Params("id")
	var in dto.UpdateProjectRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := sess.Projects().Update(c.Context(), sess.Actor(), id, in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary      Eliminar proyecto (solo manager)
// @Tags         projects
// @Security     Bearer
// @Param        id  path  string  true  "ID del proyecto"
// @Success      204
// @Router       /api/projects/{id} [delete]
func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	if err := sess.DeleteProject(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetOverview godoc
// @Summary      Resumen del proyecto
// @Tags         projects
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del proyecto"
// @Success      200  {object}  dto.OverviewResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/overview [get]
func (h *ProjectHandler) GetOverview(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	o, ok := sess.Overviews().ForProject(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "el proyecto no tiene resumen"})
	}
	return c.JSON(dto.ToOverviewResponse(o))
}

// SaveOverview godoc
// @Summary      Guardar el resumen del proyecto (upsert)
// @Tags         projects
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID del proyecto"
// @Param        body  body  dto.SaveOverviewRequest  true  "Contenido"
// @Success      204
// @Router       /api/projects/{id}/overview [put]
func (h *ProjectHandler) SaveOverview(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	var in dto.SaveOverviewRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := sess.Overviews().Save(c.Context(), sess.Actor(), sess.Scope(), c.Params("id"), in.Content); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
