package validation

import (
	"errors"
)

// ValidatePassword checks a plaintext password before hashing.
// bcrypt silently truncates input beyond 72 bytes, so longer values are rejected.
func ValidatePassword(password string) error {
	if password == "" {
		return errors.New("password is required")
	}

	if len(password) > 72 {
		return errors.New("password must not exceed 72 characters")
	}

	return nil
}
