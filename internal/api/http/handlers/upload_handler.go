package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/PUZZ-INC/puzzle/internal/api/dto"
	"github.com/PUZZ-INC/puzzle/internal/storage"
	util "github.com/PUZZ-INC/puzzle/pkg/util"
)

const imageMaxBytes = 10 << 20

var imageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// UploadHandler stores puzzle images posted by browser clients on other
// origins, so it answers CORS preflights itself.
type UploadHandler struct {
	blobs  storage.BlobStore
	logger *zap.Logger
}

// NewUploadHandler constructs handler.
func NewUploadHandler(blobs storage.BlobStore, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{blobs: blobs, logger: logger}
}

// Preflight handles OPTIONS /api/upload-image.
func (h *UploadHandler) Preflight(c *fiber.Ctx) error {
	h.setCORSHeaders(c)
	c.Set(fiber.HeaderAccessControlAllowMethods, "POST, OPTIONS")
	c.Set(fiber.HeaderAccessControlAllowHeaders, "Content-Type")
	return c.SendStatus(http.StatusNoContent)
}

// Upload handles POST /api/upload-image.
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	h.setCORSHeaders(c)

	file, err := c.FormFile("image")
	if err != nil {
		return util.NewValidationError("image file required", nil)
	}
	if file.Size > imageMaxBytes {
		return util.NewValidationError("image exceeds 10MB limit",
			map[string]any{"size": file.Size})
	}
	contentType := file.Header.Get(fiber.HeaderContentType)
	if !imageContentTypes[contentType] {
		return util.NewValidationError("image must be JPEG, PNG, GIF or WebP",
			map[string]any{"content_type": contentType})
	}

	src, err := file.Open()
	if err != nil {
		return util.NewInternalError(err)
	}
	defer src.Close()

	key := storage.NewObjectKey("game_images", file.Filename, contentType)
	url, err := h.blobs.Save(c.UserContext(), key, contentType, src, file.Size)
	if err != nil {
		return util.NewInternalError(err)
	}

	h.logger.Info("image stored",
		zap.String("key", key),
		zap.Int64("size", file.Size))
	return c.JSON(dto.UploadResponse{
		Success:  true,
		ImageURL: url,
		Filename: filepath.Base(key),
	})
}

// setCORSHeaders echoes the caller's origin with credentials allowed; the
// session cookie must survive cross-origin fetches from the game client.
func (h *UploadHandler) setCORSHeaders(c *fiber.Ctx) {
	origin := c.Get(fiber.HeaderOrigin)
	if origin == "" {
		return
	}
	c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
	c.Set(fiber.HeaderAccessControlAllowCredentials, "true")
	c.Set(fiber.HeaderVary, fiber.HeaderOrigin)
}
