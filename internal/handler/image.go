package handler

import (
	"io"
	"net/http"

	"github.com/skyward/accountd/internal/apperr"
	"github.com/skyward/accountd/internal/ctxkeys"
	"github.com/skyward/accountd/internal/service"
)

// maxImageSize caps multipart uploads at 5MB.
const maxImageSize = 5 << 20

type ImageHandler struct {
	imageService *service.ImageService
}

func NewImageHandler(imageService *service.ImageService) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
	}
}

// Upload handles POST /v1/user/self/pic with a multipart field named "image".
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := r.ParseMultipartForm(maxImageSize)
	if err != nil {
		WriteError(w, apperr.Validation("no image file provided"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		WriteError(w, apperr.Validation("no image file provided"))
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize))
	if err != nil {
		WriteError(w, apperr.Upstream("read upload", err))
		return
	}

	view, err := h.imageService.Upload(user.ID, data, header.Header.Get("Content-Type"), header.Filename)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, view)
}

// Get handles GET /v1/user/self/pic
func (h *ImageHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	view, err := h.imageService.Get(user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, view)
}

// Delete handles DELETE /v1/user/self/pic
func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.imageService.Delete(user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteNoContent(w, http.StatusNoContent)
}
