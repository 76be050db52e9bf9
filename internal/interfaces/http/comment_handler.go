package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/projectdesk/api/internal/application/dto"
	"github.com/projectdesk/api/internal/application/session"
)

// CommentHandler maneja comentarios globales de proyecto (protegido).
type CommentHandler struct {
	sessions *session.Manager
}

// NewCommentHandler construye el handler.
func NewCommentHandler(sessions *session.Manager) *CommentHandler {
	return &CommentHandler{sessions: sessions}
}

// ListByProject godoc
// @Summary      Comentarios de un proyecto
// @Tags         comments
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del proyecto"
// @Success      200  {array}  dto.CommentResponse
// @Router       /api/projects/{id}/comments [get]
func (h *CommentHandler) ListByProject(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	return c.JSON(dto.ToCommentResponses(sess.Comments().ForProject(c.Params("id"))))
}

// Add godoc
// @Summary      Agregar comentario a un proyecto
// @Tags         comments
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID del proyecto"
// @Param        body  body  dto.AddCommentRequest  true  "Comentario"
// @Success      201
// @Router       /api/projects/{id}/comments [post]
func (h *CommentHandler) Add(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	var in dto.AddCommentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	in.ProjectID = c.Params("id")
	if err := sess.Comments().Add(c.Context(), sess.Actor(), sess.Scope(), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// Update godoc
// @Summary      Editar comentario (autor o manager)
// @Tags         comments
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID del comentario"
// @Param        body  body  dto.UpdateCommentRequest  true  "Texto"
// @Success      204
// @Router       /api/comments/{id} [put]
func (h *CommentHandler) Update(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	var in dto.UpdateCommentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := sess.Comments().Update(c.Context(), sess.Actor(), sess.Scope(), c.Params("id"), in.Text); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary      Eliminar comentario (autor o manager)
// @Tags         comments
// @Security     Bearer
// @Param        id  path  string  true  "ID del comentario"
// @Success      204
// @Router       /api/comments/{id} [delete]
func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	if err := sess.Comments().Delete(c.Context(), sess.Actor(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
