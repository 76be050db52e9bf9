package http

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/projectdesk/api/internal/application/dto"
	"github.com/projectdesk/api/internal/application/ingest"
	"github.com/projectdesk/api/internal/application/session"
	"github.com/projectdesk/api/internal/domain/entity"
	"github.com/projectdesk/api/internal/domain/storage"
)

// BrochureHandler maneja el flujo de brochures: proyectos, páginas con
// candado de edición, aprobaciones y comentarios de página (protegido).
type BrochureHandler struct {
	sessions *session.Manager
	pipeline *ingest.Pipeline
}

// NewBrochureHandler construye el handler.
func NewBrochureHandler(sessions *session.Manager, pipeline *ingest.Pipeline) *BrochureHandler {
	return &BrochureHandler{sessions: sessions, pipeline: pipeline}
}

// List brochures visibles en la sesión.
// @Summary      Listar brochures
// @Tags         brochures
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.BrochureProjectResponse
// @Router       /api/brochures [get]
func (h *BrochureHandler) List(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	if c.QueryBool("review") {
		return c.JSON(dto.ToBrochureProjectResponses(sess.BrochureProjectsForReview()))
	}
	return c.JSON(dto.ToBrochureProjectResponses(sess.BrochureProjects()))
}

// Create alta de brochure para un proyecto en alcance.
// @Summary      Crear brochure
// @Tags         brochures
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBrochureProjectRequest  true  "Datos"
// @Success      201  {object}  dto.BrochureProjectResponse
// @Router       /api/brochures [post]
func (h *BrochureHandler) Create(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	var in dto.CreateBrochureProjectRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := sess.CreateBrochureProject(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToBrochureProjectResponse(out))
}

// UpdateStatus avanza el flujo del brochure.
// @Summary      Cambiar estado del brochure
// @Tags         brochures
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID del brochure"
// @Param        body  body  dto.UpdateBrochureProjectRequest  true  "Estado"
// @Success      200  {object}  dto.BrochureProjectResponse
// @Router       /api/brochures/{id}/status [put]
func (h *BrochureHandler) UpdateStatus(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	var in dto.UpdateBrochureProjectRequest
	if err := c.BodyParser(&in); err != nil || in.Status == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "status requerido"})
	}
	out, err := sess.UpdateBrochureStatus(c.Params("id"), entity.BrochureStatus(*in.Status))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToBrochureProjectResponse(out))
}

// ListPages páginas de un proyecto ordenadas por número.
// @Summary      Páginas del brochure de un proyecto
// @Tags         brochures
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del proyecto"
// @Success      200  {array}  dto.BrochurePageResponse
// @Router       /api/projects/{id}/brochure-pages [get]
func (h *BrochureHandler) ListPages(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	return c.JSON(dto.ToBrochurePageResponses(sess.BrochurePages(c.Params("id"))))
}

// SavePage crea o reemplaza una página; exige el candado si otro lo tiene.
// @Summary      Guardar página del brochure
// @Tags         brochures
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SavePageRequest  true  "Página"
// @Success      200  {object}  dto.BrochurePageResponse
// @Failure      423  {object}  dto.ErrorResponse
// @Router       /api/brochure-pages [put]
func (h *BrochureHandler) SavePage(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	var in dto.SavePageRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := sess.SavePage(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToBrochurePageResponse(out))
}

// LockPage adquisición condicional del candado de edición.
// @Summary      Bloquear página para edición
// @Tags         brochures
// @Security     Bearer
// @Param        id  path  string  true  "ID de la página"
// @Success      200  {object}  dto.BrochurePageResponse
// @Failure      423  {object}  dto.ErrorResponse
// @Router       /api/brochure-pages/{id}/lock [post]
func (h *BrochureHandler) LockPage(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	out, err := sess.LockPage(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToBrochurePageResponse(out))
}

// UnlockPage libera el candado (portador, o manager que fuerza).
// @Summary      Liberar candado de una página
// @Tags         brochures
// @Security     Bearer
// @Param        id  path  string  true  "ID de la página"
// @Success      200  {object}  dto.BrochurePageResponse
// @Router       /api/brochure-pages/{id}/lock [delete]
func (h *BrochureHandler) UnlockPage(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	out, err := sess.UnlockPage(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToBrochurePageResponse(out))
}

// DeletePage elimina la página y sus comentarios.
// @Summary      Eliminar página de brochure
// @Tags         brochures
// @Security     Bearer
// @Param        id  path  string  true  "ID de la página"
// @Success      204
// @Failure      423  {object}  dto.ErrorResponse
// @Router       /api/brochure-pages/{id} [delete]
func (h *BrochureHandler) DeletePage(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	if err := sess.DeletePage(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ApprovePage decisión del revisor sobre una página.
// @Summary      Aprobar o rechazar una página
// @Tags         brochures
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID de la página"
// @Param        body  body  dto.ApprovePageRequest  true  "Decisión"
// @Success      200  {object}  dto.BrochurePageResponse
// @Router       /api/brochure-pages/{id}/approval [put]
func (h *BrochureHandler) ApprovePage(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	var in dto.ApprovePageRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := sess.ApprovePage(c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToBrochurePageResponse(out))
}

// ListPageComments comentarios de una página.
// @Summary      Comentarios de una página
// @Tags         brochures
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la página"
// @Success      200  {array}  dto.PageCommentResponse
// @Router       /api/brochure-pages/{id}/comments [get]
func (h *BrochureHandler) ListPageComments(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	return c.JSON(dto.ToPageCommentResponses(sess.PageComments(c.Params("id"))))
}

// AddPageComment comentario nuevo sobre una página.
// @Summary      Comentar una página
// @Tags         brochures
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID de la página"
// @Param        body  body  dto.AddPageCommentRequest  true  "Comentario"
// @Success      201
// @Router       /api/brochure-pages/{id}/comments [post]
func (h *BrochureHandler) AddPageComment(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	var in dto.AddPageCommentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	in.PageID = c.Params("id")
	if _, err := sess.AddPageComment(in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// MarkPageCommentDone marca el comentario como atendido.
// @Summary      Marcar comentario de página como atendido
// @Tags         brochures
// @Security     Bearer
// @Param        id  path  string  true  "ID del comentario"
// @Success      204
// @Router       /api/page-comments/{id}/done [put]
func (h *BrochureHandler) MarkPageCommentDone(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	if err := sess.MarkPageCommentDone(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadPageImage sube una imagen de página y devuelve su URL visible.
// @Summary      Subir imagen de página (multipart)
// @Tags         brochures
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file        formData  file    true  "Imagen"
// @Param        project_id  formData  string  true  "ID del proyecto"
// @Success      201  {object}  map[string]string
// @Router       /api/brochure-pages/images [post]
func (h *BrochureHandler) UploadPageImage(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "archivo requerido (campo file)"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "no se pudo leer el archivo"})
	}
	defer src.Close()
	content, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "no se pudo leer el archivo"})
	}
	url, err := h.pipeline.UploadPageImage(c.Context(), sess.Actor(), c.FormValue("project_id"), storage.Blob{
		Filename: fh.Filename,
		MIMEType: fh.Header.Get("Content-Type"),
		Size:     fh.Size,
		Content:  content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"image_url": url})
}
