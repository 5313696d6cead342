package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/skyward/accountd/internal/apperr"
	"github.com/skyward/accountd/internal/model"
	"github.com/skyward/accountd/internal/repository"
	"github.com/skyward/accountd/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

// UserService owns the account lifecycle: creation, verification-token
// issuance and consumption, and self-service profile updates.
type UserService struct {
	userRepository repository.UserRepository
	mailer         Mailer
	appURL         string
	tokenExpiry    time.Duration
	now            func() time.Time
}

func NewUserService(userRepository repository.UserRepository, mailer Mailer, appURL string, tokenExpiry time.Duration) *UserService {
	return &UserService{
		userRepository: userRepository,
		mailer:         mailer,
		appURL:         appURL,
		tokenExpiry:    tokenExpiry,
		now:            time.Now,
	}
}

type CreateUserInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UpdateUserInput is the self-update patch. The contract is a full
// replacement of the mutable field set: all four fields must be present, and
// email must equal the authenticated account's email.
type UpdateUserInput struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Password  *string `json:"password"`
	Email     *string `json:"email"`
}

// Create persists a new unverified account and kicks off verification email
// delivery in the background. The returned view never contains the password
// or any verification-internal field.
func (s *UserService) Create(in CreateUserInput) (*model.UserView, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if err := validation.ValidateName(in.FirstName); err != nil {
		return nil, apperr.Validation("firstName: " + err.Error())
	}
	if err := validation.ValidateName(in.LastName); err != nil {
		return nil, apperr.Validation("lastName: " + err.Error())
	}

	// Fast path; the unique constraint on users.email is the real guard.
	_, err := s.userRepository.ByEmail(in.Email)
	if err == nil {
		return nil, apperr.Conflict("user with this email already exists")
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperr.Upstream("user lookup", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Upstream("password hash", err)
	}

	token, err := generateToken()
	if err != nil {
		return nil, apperr.Upstream("token generation", err)
	}

	now := s.now()
	expiry := now.Add(s.tokenExpiry)
	link := s.verificationLink(in.Email, token)

	user := &model.User{
		ID:                uuid.New().String(),
		Email:             in.Email,
		Password:          string(hashed),
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		IsVerified:        false,
		VerificationToken: &token,
		TokenExpiration:   &expiry,
		VerificationLink:  &link,
		AccountCreated:    now,
		AccountUpdated:    now,
	}

	err = s.userRepository.Create(user)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, apperr.Conflict("user with this email already exists")
	}
	if err != nil {
		return nil, apperr.Upstream("user create", err)
	}

	// Fire-and-forget: verification delivery must not block or fail creation.
	go func() {
		sendErr := s.mailer.SendVerificationEmail(user.Email, link, user.FirstName)
		if sendErr != nil {
			slog.Warn("failed to send verification email", "error", sendErr, "user_id", user.ID)
		}
	}()

	slog.Info("user created", "user_id", user.ID)
	return user.View(), nil
}

// Verify consumes the verification token. Verifying an already-verified
// account succeeds as a no-op, so the call is safe to retry.
func (s *UserService) Verify(email, token string) error {
	user, err := s.userRepository.ByEmail(email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return apperr.NotFound("user not found")
	}
	if err != nil {
		return apperr.Upstream("user lookup", err)
	}

	if user.IsVerified {
		return nil
	}

	if user.VerificationToken == nil || *user.VerificationToken != token {
		return apperr.Validation("invalid token")
	}

	// Expiry is exclusive: a token presented exactly at its expiration
	// timestamp is still valid.
	if user.TokenExpiration == nil || s.now().After(*user.TokenExpiration) {
		return apperr.Validation("token expired")
	}

	ok, err := s.userRepository.MarkVerified(user.ID, token)
	if err != nil {
		return apperr.Upstream("verify update", err)
	}
	if !ok {
		// Lost a race with a concurrent verify. If the account is verified
		// now, report the same idempotent success.
		current, readErr := s.userRepository.ByID(user.ID)
		if readErr == nil && current.IsVerified {
			return nil
		}
		return apperr.Validation("invalid token")
	}

	slog.Info("user verified", "user_id", user.ID)
	return nil
}

// UpdateSelf applies the full-replacement patch to the authenticated account.
func (s *UserService) UpdateSelf(email string, patch UpdateUserInput) error {
	if patch.FirstName == nil && patch.LastName == nil && patch.Password == nil && patch.Email == nil {
		return apperr.Validation("request body is empty")
	}
	if patch.FirstName == nil || patch.LastName == nil || patch.Password == nil || patch.Email == nil {
		return apperr.Validation("update requires firstName, lastName, password and email")
	}
	if *patch.Email != email {
		return apperr.Validation("email change not allowed")
	}
	if err := validation.ValidateName(*patch.FirstName); err != nil {
		return apperr.Validation("firstName: " + err.Error())
	}
	if err := validation.ValidateName(*patch.LastName); err != nil {
		return apperr.Validation("lastName: " + err.Error())
	}
	if err := validation.ValidatePassword(*patch.Password); err != nil {
		return apperr.Validation(err.Error())
	}

	user, err := s.userRepository.ByEmail(email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return apperr.NotFound("user not found")
	}
	if err != nil {
		return apperr.Upstream("user lookup", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Upstream("password hash", err)
	}

	user.Password = string(hashed)
	user.FirstName = *patch.FirstName
	user.LastName = *patch.LastName
	user.AccountUpdated = s.now()

	err = s.userRepository.UpdateProfile(user)
	if errors.Is(err, repository.ErrUserNotFound) {
		return apperr.NotFound("user not found")
	}
	if err != nil {
		return apperr.Upstream("user update", err)
	}

	return nil
}

// Self returns the stripped account view for the authenticated user.
func (s *UserService) Self(email string) (*model.UserView, error) {
	user, err := s.userRepository.ByEmail(email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Upstream("user lookup", err)
	}

	return user.View(), nil
}

func (s *UserService) verificationLink(email, token string) string {
	return s.appURL + "/v1/user/verify?email=" + url.QueryEscape(email) + "&token=" + url.QueryEscape(token)
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
