package model

import "time"

// Image is the single profile image bound to an account. The user_id column
// carries a unique constraint, which is the authoritative guard for the
// one-image-per-account invariant.
type Image struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	FileName   string    `db:"file_name"` // object-store key
	URL        string    `db:"url"`
	UploadDate time.Time `db:"upload_date"`
}

type ImageView struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	FileName   string    `json:"file_name"`
	URL        string    `json:"url"`
	UploadDate time.Time `json:"upload_date"`
}

func (i *Image) View() *ImageView {
	return &ImageView{
		ID:         i.ID,
		UserID:     i.UserID,
		FileName:   i.FileName,
		URL:        i.URL,
		UploadDate: i.UploadDate,
	}
}
