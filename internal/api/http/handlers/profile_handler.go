package handlers

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/PUZZ-INC/puzzle/internal/api/dto"
	"github.com/PUZZ-INC/puzzle/internal/service"
	"github.com/PUZZ-INC/puzzle/internal/storage"
	util "github.com/PUZZ-INC/puzzle/pkg/util"
)

const avatarMaxBytes = 5 << 20

var avatarContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// ProfileHandler exposes the signed-in profile view and editor.
type ProfileHandler struct {
	profiles *service.ProfileService
	blobs    storage.BlobStore
}

// NewProfileHandler constructs handler.
func NewProfileHandler(profiles *service.ProfileService, blobs storage.BlobStore) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, blobs: blobs}
}

// Get handles GET /api/profile.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	sess := SessionFrom(c)
	account, err := h.profiles.Get(c.UserContext(), sess.AccountID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAccountResponse(account)})
}

// Update handles PUT /api/profile as a multipart form. The avatar file is
// optional; omitting it keeps the current one.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	sess := SessionFrom(c)

	in := service.ProfileUpdateInput{
		FirstName: c.FormValue("first_name"),
		LastName:  c.FormValue("last_name"),
		Bio:       c.FormValue("bio"),
		Phone:     c.FormValue("phone"),
		City:      c.FormValue("city"),
		BirthDate: c.FormValue("birth_date"),
	}

	if file, err := c.FormFile("avatar"); err == nil && file != nil {
		url, err := h.storeAvatar(c, file)
		if err != nil {
			return err
		}
		in.AvatarURL = &url
	}

	account, err := h.profiles.Update(c.UserContext(), sess.AccountID, in, requestMeta(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAccountResponse(account)})
}

func (h *ProfileHandler) storeAvatar(c *fiber.Ctx, file *multipart.FileHeader) (string, error) {
	if file.Size > avatarMaxBytes {
		return "", util.NewValidationError("avatar exceeds 5MB limit",
			map[string]any{"size": file.Size})
	}
	contentType := file.Header.Get(fiber.HeaderContentType)
	if !avatarContentTypes[contentType] {
		return "", util.NewValidationError("avatar must be JPEG, PNG or GIF",
			map[string]any{"content_type": contentType})
	}

	src, err := file.Open()
	if err != nil {
		return "", util.NewInternalError(err)
	}
	defer src.Close()

	key := storage.NewObjectKey("avatars", file.Filename, contentType)
	url, err := h.blobs.Save(c.UserContext(), key, contentType, src, file.Size)
	if err != nil {
		return "", util.NewInternalError(err)
	}
	return url, nil
}
