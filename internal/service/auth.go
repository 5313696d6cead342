package service

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/skyward/accountd/internal/apperr"
	"github.com/skyward/accountd/internal/model"
	"github.com/skyward/accountd/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// AuthService resolves a Basic credential header into an authenticated
// principal. There are no sessions: every request re-authenticates.
type AuthService struct {
	userRepository repository.UserRepository
	// verifyBypass lets unverified accounts through. Set only via the
	// AUTH_VERIFY_BYPASS config toggle for integration test runs.
	verifyBypass bool
}

func NewAuthService(userRepository repository.UserRepository, verifyBypass bool) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		verifyBypass:   verifyBypass,
	}
}

// Authenticate validates the Authorization header value and returns the
// matching account. Unknown email and wrong password produce the same error,
// so callers cannot learn which accounts exist.
func (s *AuthService) Authenticate(authHeader string) (*model.User, error) {
	if authHeader == "" {
		return nil, apperr.AuthFormat("missing authorization header")
	}

	scheme, payload, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Basic") {
		return nil, apperr.AuthFormat("authorization scheme must be Basic")
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, apperr.AuthFormat("malformed basic credentials")
	}

	email, password, found := strings.Cut(string(decoded), ":")
	if !found {
		return nil, apperr.AuthFormat("credentials must be email:password")
	}

	if email == "" || password == "" {
		return nil, apperr.Validation("email and password are required")
	}

	user, err := s.userRepository.ByEmail(email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperr.InvalidCredentials()
	}
	if err != nil {
		return nil, apperr.Upstream("user lookup", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	if err != nil {
		return nil, apperr.InvalidCredentials()
	}

	if !user.IsVerified && !s.verifyBypass {
		return nil, apperr.Forbidden("not verified")
	}

	return user, nil
}
