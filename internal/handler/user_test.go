package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/skyward/accountd/internal/ctxkeys"
	"github.com/skyward/accountd/internal/model"
	"github.com/skyward/accountd/internal/repository"
	"github.com/skyward/accountd/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserRepo struct {
	createFn  func(*model.User) error
	byIDFn    func(string) (*model.User, error)
	byEmailFn func(string) (*model.User, error)
	updateFn  func(*model.User) error
	markFn    func(string, string) (bool, error)
}

func (s *stubUserRepo) Create(user *model.User) error {
	if s.createFn != nil {
		return s.createFn(user)
	}
	return nil
}

func (s *stubUserRepo) ByID(id string) (*model.User, error) {
	if s.byIDFn != nil {
		return s.byIDFn(id)
	}
	return nil, repository.ErrUserNotFound
}

func (s *stubUserRepo) ByEmail(email string) (*model.User, error) {
	if s.byEmailFn != nil {
		return s.byEmailFn(email)
	}
	return nil, repository.ErrUserNotFound
}

func (s *stubUserRepo) UpdateProfile(user *model.User) error {
	if s.updateFn != nil {
		return s.updateFn(user)
	}
	return nil
}

func (s *stubUserRepo) MarkVerified(id, token string) (bool, error) {
	if s.markFn != nil {
		return s.markFn(id, token)
	}
	return true, nil
}

type stubMailer struct{}

func (stubMailer) SendVerificationEmail(email, link, firstName string) error { return nil }

func newUserHandler(repo *stubUserRepo) *UserHandler {
	svc := service.NewUserService(repo, stubMailer{}, "http://localhost:8080", 2*time.Minute)
	return NewUserHandler(svc)
}

func TestCreateReturnsStrippedBody(t *testing.T) {
	h := newUserHandler(&stubUserRepo{})

	body := `{"email":"a@example.com","password":"pw123","firstName":"Jane","lastName":"Doe"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/user", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "a@example.com", got["email"])
	assert.Equal(t, "Jane", got["firstName"])
	assert.NotEmpty(t, got["id"])

	// Secrets and verification internals never leave the service.
	raw := rec.Body.String()
	assert.NotContains(t, raw, "password")
	assert.NotContains(t, raw, "pw123")
	assert.NotContains(t, raw, "verification")
	assert.NotContains(t, raw, "token")
}

func TestCreateRejectsUnknownFields(t *testing.T) {
	h := newUserHandler(&stubUserRepo{})

	body := `{"email":"a@example.com","password":"pw123","firstName":"Jane","lastName":"Doe","is_verified":true}`
	req := httptest.NewRequest(http.MethodPost, "/v1/user", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateEmptyBody(t *testing.T) {
	h := newUserHandler(&stubUserRepo{})

	req := httptest.NewRequest(http.MethodPost, "/v1/user", strings.NewReader(""))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "request body is empty")
}

func TestCreateDuplicateEmailConflict(t *testing.T) {
	repo := &stubUserRepo{
		byEmailFn: func(string) (*model.User, error) {
			return &model.User{ID: "u1", Email: "a@example.com"}, nil
		},
	}
	h := newUserHandler(repo)

	body := `{"email":"a@example.com","password":"pw123","firstName":"Jane","lastName":"Doe"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/user", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestVerifyRequiresParams(t *testing.T) {
	h := newUserHandler(&stubUserRepo{})

	for _, target := range []string{
		"/v1/user/verify",
		"/v1/user/verify?email=a@example.com",
		"/v1/user/verify?token=abc",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()

		h.Verify(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestVerifySuccess(t *testing.T) {
	token := "abc123"
	expiry := time.Now().Add(time.Minute)
	repo := &stubUserRepo{
		byEmailFn: func(string) (*model.User, error) {
			return &model.User{
				ID:                "u1",
				Email:             "a@example.com",
				VerificationToken: &token,
				TokenExpiration:   &expiry,
			}, nil
		},
	}
	h := newUserHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/v1/user/verify?email=a@example.com&token=abc123", nil)
	rec := httptest.NewRecorder()

	h.Verify(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "email verified")
}

func TestSelfReturnsView(t *testing.T) {
	repo := &stubUserRepo{
		byEmailFn: func(string) (*model.User, error) {
			return &model.User{
				ID:        "u1",
				Email:     "a@example.com",
				Password:  "$2a$10$hash",
				FirstName: "Jane",
				LastName:  "Doe",
			}, nil
		},
	}
	h := newUserHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/v1/user/self", nil)
	req = req.WithContext(ctxkeys.WithUser(req.Context(), &model.User{ID: "u1", Email: "a@example.com"}))
	rec := httptest.NewRecorder()

	h.Self(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "$2a$10$hash")
}

func TestUpdateSelfPartialPatch(t *testing.T) {
	h := newUserHandler(&stubUserRepo{})

	body := `{"firstName":"Jane"}`
	req := httptest.NewRequest(http.MethodPut, "/v1/user/self", strings.NewReader(body))
	req = req.WithContext(ctxkeys.WithUser(req.Context(), &model.User{ID: "u1", Email: "a@example.com"}))
	rec := httptest.NewRecorder()

	h.UpdateSelf(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateSelfSuccessNoContent(t *testing.T) {
	repo := &stubUserRepo{
		byEmailFn: func(string) (*model.User, error) {
			return &model.User{ID: "u1", Email: "a@example.com", IsVerified: true}, nil
		},
	}
	h := newUserHandler(repo)

	body := `{"firstName":"Jane","lastName":"Smith","password":"newpw","email":"a@example.com"}`
	req := httptest.NewRequest(http.MethodPut, "/v1/user/self", strings.NewReader(body))
	req = req.WithContext(ctxkeys.WithUser(req.Context(), &model.User{ID: "u1", Email: "a@example.com"}))
	rec := httptest.NewRecorder()

	h.UpdateSelf(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
