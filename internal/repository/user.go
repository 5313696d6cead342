package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/skyward/accountd/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

type UserRepository interface {
	Create(user *model.User) error
	ByID(id string) (*model.User, error)
	ByEmail(email string) (*model.User, error)
	UpdateProfile(user *model.User) error
	// MarkVerified flips is_verified and clears the verification fields in a
	// single conditional write. Returns false when the stored token no longer
	// equals token, i.e. a concurrent verify already consumed it.
	MarkVerified(id, token string) (bool, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	query := `INSERT INTO users (id, email, password, first_name, last_name, is_verified, verification_token, token_expiration, verification_link, account_created, account_updated)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(query,
		user.ID,
		user.Email,
		user.Password,
		user.FirstName,
		user.LastName,
		user.IsVerified,
		user.VerificationToken,
		user.TokenExpiration,
		user.VerificationLink,
		user.AccountCreated,
		user.AccountUpdated,
	)
	if err != nil {
		// Unique constraint violation message differs between SQLite and PostgreSQL
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrDuplicateEmail
		}
		return err
	}

	return nil
}

func (r *userRepository) ByID(id string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.Get(user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) ByEmail(email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE email = $1`

	err := r.db.Get(user, query, email)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) UpdateProfile(user *model.User) error {
	query := `UPDATE users SET password = $1, first_name = $2, last_name = $3, account_updated = $4 WHERE id = $5`

	result, err := r.db.Exec(query, user.Password, user.FirstName, user.LastName, user.AccountUpdated, user.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *userRepository) MarkVerified(id, token string) (bool, error) {
	query := `UPDATE users SET is_verified = TRUE, verification_token = NULL, token_expiration = NULL, verification_link = NULL
	          WHERE id = $1 AND verification_token = $2`

	result, err := r.db.Exec(query, id, token)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}
