package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/skyward/accountd/internal/apperr"
	"github.com/skyward/accountd/internal/ctxkeys"
	"github.com/skyward/accountd/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Create handles POST /v1/user. DisallowUnknownFields rejects any attempt to
// supply system-managed fields (id, timestamps, verification state).
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateUserInput
	err := decodeStrict(r.Body, &in)
	if err != nil {
		WriteError(w, err)
		return
	}

	view, err := h.userService.Create(in)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, view)
}

// Verify handles GET /v1/user/verify?email=...&token=...
func (h *UserHandler) Verify(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	token := r.URL.Query().Get("token")
	if email == "" || token == "" {
		WriteError(w, apperr.Validation("email and token are required"))
		return
	}

	err := h.userService.Verify(email, token)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "email verified"})
}

// Self handles GET /v1/user/self
func (h *UserHandler) Self(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	view, err := h.userService.Self(user.Email)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, view)
}

// UpdateSelf handles PUT /v1/user/self
func (h *UserHandler) UpdateSelf(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var patch service.UpdateUserInput
	err := decodeStrict(r.Body, &patch)
	if err != nil {
		WriteError(w, err)
		return
	}

	err = h.userService.UpdateSelf(user.Email, patch)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteNoContent(w, http.StatusNoContent)
}

// decodeStrict decodes a JSON body rejecting unknown fields, so callers
// cannot smuggle fields outside the documented contract.
func decodeStrict(body io.Reader, dst any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if errors.Is(err, io.EOF) {
		return apperr.Validation("request body is empty")
	}
	if err != nil {
		return apperr.Validation("invalid request body: " + err.Error())
	}
	return nil
}
