package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/projectdesk/api/internal/application/dto"
	"github.com/projectdesk/api/internal/application/session"
	"github.com/projectdesk/api/internal/domain/entity"
)

// StageHandler maneja etapas y sus comentarios accionables (protegido).
type StageHandler struct {
	sessions *session.Manager
}

// NewStageHandler construye el handler.
func NewStageHandler(sessions *session.Manager) *StageHandler {
	return &StageHandler{sessions: sessions}
}

// List godoc
// @Summary      Listar etapas de los proyectos en alcance
// @Tags         stages
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StageResponse
// @Router       /api/stages [get]
func (h *StageHandler) List(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	return c.JSON(dto.ToStageResponses(sess.Stages().Items()))
}

// UpdateProgress godoc
// @Summary      Actualizar avance de etapa (employee o manager)
// @Tags         stages
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID de la etapa"
// @Param        body  body  dto.UpdateStageProgressRequest  true  "Avance"
// @Success      204
// @Router       /api/stages/{id}/progress [put]
func (h *StageHandler) UpdateProgress(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	var in dto.UpdateStageProgressRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := sess.Stages().UpdateProgress(c.Context(), sess.Actor(), sess.Scope(), c.Params("id"), in.Progress); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateApproval godoc
// @Summary      Aprobar o rechazar una etapa
// @Tags         stages
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID de la etapa"
// @Param        body  body  dto.UpdateStageApprovalRequest  true  "Decisión"
// @Success      204
// @Router       /api/stages/{id}/approval [put]
func (h *StageHandler) UpdateApproval(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	var in dto.UpdateStageApprovalRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := sess.Stages().UpdateApproval(c.Context(), sess.Actor(), sess.Scope(), c.Params("id"), entity.ApprovalStatus(in.Status)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListCommentTasks godoc
// @Summary      Comentarios accionables de una etapa
// @Tags         stages
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la etapa"
// @Success      200  {array}  dto.CommentTaskResponse
// @Router       /api/stages/{id}/comments [get]
func (h *StageHandler) ListCommentTasks(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	return c.JSON(dto.ToCommentTaskResponses(sess.CommentTasks().ForStage(c.Params("id"))))
}

// AddCommentTask godoc
// @Summary      Agregar comentario accionable a una etapa
// @Tags         stages
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID de la etapa"
// @Param        body  body  dto.AddCommentTaskRequest  true  "Comentario"
// @Success      201
// @Router       /api/stages/{id}/comments [post]
func (h *StageHandler) AddCommentTask(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	var in dto.AddCommentTaskRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	in.StageID = c.Params("id")
	if err := sess.CommentTasks().Add(c.Context(), sess.Actor(), sess.Scope(), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// UpdateCommentTaskStatus cambia el estado del comentario accionable.
// @Summary      Cambiar estado del comentario accionable
// @Tags         stages
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID del comentario"
// @Param        body  body  dto.UpdateTaskStatusRequest  true  "Estado"
// @Success      204
// @Router       /api/comment-tasks/{id}/status [put]
func (h *StageHandler) UpdateCommentTaskStatus(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	var in dto.UpdateTaskStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := sess.CommentTasks().UpdateStatus(c.Context(), sess.Actor(), sess.Scope(), c.Params("id"), entity.TaskStatus(in.Status)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateCommentTask edita el texto del comentario accionable (autor o manager).
// @Summary      Editar comentario accionable
// @Tags         stages
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID del comentario"
// @Param        body  body  dto.UpdateCommentTaskRequest  true  "Texto"
// @Success      204
// @Router       /api/comment-tasks/{id} [put]
func (h *StageHandler) UpdateCommentTask(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	var in dto.UpdateCommentTaskRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := sess.CommentTasks().Update(c.Context(), sess.Actor(), sess.Scope(), c.Params("id"), in.Text); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AssignCommentTask asigna el comentario accionable a un empleado.
// @Summary      Asignar comentario accionable
// @Tags         stages
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID del comentario"
// @Param        body  body  dto.AssignCommentTaskRequest  true  "Asignación"
// @Success      204
// @Router       /api/comment-tasks/{id}/assign [put]
func (h *StageHandler) AssignCommentTask(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	var in dto.AssignCommentTaskRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := sess.CommentTasks().Assign(c.Context(), sess.Actor(), sess.Scope(), c.Params("id"), in.AssignedTo, in.Deadline); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteCommentTask elimina el comentario accionable (autor o manager).
// @Summary      Eliminar comentario accionable
// @Tags         stages
// @Security     Bearer
// @Param        id  path  string  true  "ID del comentario"
// @Success      204
// @Router       /api/comment-tasks/{id} [delete]
func (h *StageHandler) DeleteCommentTask(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	if err := sess.CommentTasks().Delete(c.Context(), sess.Actor(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
