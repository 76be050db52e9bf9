package http

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/projectdesk/api/internal/application/dto"
	"github.com/projectdesk/api/internal/application/ingest"
	"github.com/projectdesk/api/internal/application/session"
	"github.com/projectdesk/api/internal/domain/storage"
)

// FileHandler maneja archivos: listado, subida en dos fases, metadatos,
// descargas y borrado (protegido).
type FileHandler struct {
	sessions *session.Manager
	pipeline *ingest.Pipeline
}

// NewFileHandler construye el handler.
func NewFileHandler(sessions *session.Manager, pipeline *ingest.Pipeline) *FileHandler {
	return &FileHandler{sessions: sessions, pipeline: pipeline}
}

// List godoc
// @Summary      Listar archivos de los proyectos en alcance
// @Tags         files
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.FileResponse
// @Router       /api/files [get]
func (h *FileHandler) List(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	return c.JSON(dto.ToFileResponses(sess.Files().Items()))
}

// Upload godoc
// @Summary      Subir archivo (multipart)
// @Tags         files
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file         formData  file    true   "Archivo"
// @Param        project_id   formData  string  true   "ID del proyecto"
// @Param        stage_id     formData  string  false  "ID de la etapa"
// @Param        category     formData  string  false  "Categoría"
// @Param        description  formData  string  false  "Descripción"
// @Success      201  {object}  dto.FileResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/files [post]
func (h *FileHandler) Upload(c *fiber.Ctx) error {
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

	out, err := h.pipeline.Upload(c.Context(), sess.Actor(), sess.Files(), ingest.UploadRequest{
		ProjectID: c.FormValue("project_id"),
		StageID:   c.FormValue("stage_id"),
		Blob: storage.Blob{
			Filename: fh.Filename,
			MIMEType: fh.Header.Get("Content-Type"),
			Size:     fh.Size,
			Content:  content,
		},
		Category:    c.FormValue("category"),
		Description: c.FormValue("description"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToFileResponse(out))
}

// UpdateMetadata godoc
// @Summary      Actualizar metadatos del archivo
// @Tags         files
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID del archivo"
// @Param        body  body  dto.UpdateFileMetadataRequest  true  "Metadatos"
// @Success      204
// @Router       /api/files/{id} [put]
func (h *FileHandler) UpdateMetadata(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	var in dto.UpdateFileMetadataRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := sess.Files().UpdateMetadata(c.Context(), sess.Actor(), sess.Scope(), c.Params("id"), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RecordDownload godoc
// @Summary      Registrar una descarga del archivo
// @Tags         files
// @Security     Bearer
// @Param        id  path  string  true  "ID del archivo"
// @Success      204
// @Router       /api/files/{id}/download [post]
func (h *FileHandler) RecordDownload(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	if err := sess.RecordDownload(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DownloadHistory godoc
// @Summary      Historial de descargas de la sesión
// @Tags         files
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.DownloadEntryResponse
// @Router       /api/files/downloads [get]
func (h *FileHandler) DownloadHistory(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	return c.JSON(dto.ToDownloadEntryResponses(sess.DownloadHistory()))
}

// ListExternal godoc
// @Summary      Listar objetos del store externo de un proyecto (conciliación)
// @Tags         files
// @Security     Bearer
// @Produce      json
// @Param        project_id  query  string  true  "ID del proyecto"
// @Success      200  {array}  dto.ExternalEntryResponse
// @Router       /api/files/external [get]
func (h *FileHandler) ListExternal(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	projectID := c.Query("project_id")
	if projectID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "project_id requerido"})
	}
	entries, err := h.pipeline.ListExternal(c.Context(), sess.Actor(), projectID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToExternalEntryResponses(entries))
}

// Delete godoc
// @Summary      Eliminar archivo (blob a mejor esfuerzo, metadato obligatorio)
// @Tags         files
// @Security     Bearer
// @Param        id  path  string  true  "ID del archivo"
// @Success      204
// @Router       /api/files/{id} [delete]
func (h *FileHandler) Delete(c *fiber.Ctx) error {
	sess := sessionFor(c, h.sessions)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no disponible"})
	}
	if err := h.pipeline.Delete(c.Context(), sess.Actor(), sess.Files(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
