package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/skyward/accountd/internal/model"
)

var (
	ErrImageNotFound  = errors.New("image not found")
	ErrDuplicateImage = errors.New("user already has a profile image")
)

type ImageRepository interface {
	Create(image *model.Image) error
	ByUserID(userID string) (*model.Image, error)
	Delete(id string) error
}

type imageRepository struct {
	db *sqlx.DB
}

func NewImageRepository(db *sqlx.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) Create(image *model.Image) error {
	query := `INSERT INTO images (id, user_id, file_name, url, upload_date) VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query, image.ID, image.UserID, image.FileName, image.URL, image.UploadDate)
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrDuplicateImage
		}
		return err
	}

	return nil
}

func (r *imageRepository) ByUserID(userID string) (*model.Image, error) {
	image := &model.Image{}
	query := `SELECT * FROM images WHERE user_id = $1`

	err := r.db.Get(image, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrImageNotFound
	}

	return image, err
}

func (r *imageRepository) Delete(id string) error {
	query := `DELETE FROM images WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrImageNotFound
	}

	return nil
}
