package service

import (
	"errors"
	"io"
	"testing"

	"github.com/skyward/accountd/internal/apperr"
	"github.com/skyward/accountd/internal/model"
	"github.com/skyward/accountd/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngBytes is a minimal payload carrying the PNG signature, enough for
// http.DetectContentType to report image/png.
var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}

// ---- fakes ----

type fakeImageRepo struct {
	createFn   func(*model.Image) error
	byUserIDFn func(string) (*model.Image, error)
	deleteFn   func(string) error
}

func (f *fakeImageRepo) Create(img *model.Image) error {
	if f.createFn != nil {
		return f.createFn(img)
	}
	return nil
}

func (f *fakeImageRepo) ByUserID(userID string) (*model.Image, error) {
	if f.byUserIDFn != nil {
		return f.byUserIDFn(userID)
	}
	return nil, repository.ErrImageNotFound
}

func (f *fakeImageRepo) Delete(id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(id)
	}
	return nil
}

type fakeStorage struct {
	saveErr   error
	deleteErr error

	saved   []string
	deleted []string
}

func (f *fakeStorage) Save(key string, body io.Reader, contentType string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, key)
	return nil
}

func (f *fakeStorage) Delete(key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStorage) URL(key string) string {
	return "https://bucket.example.com/" + key
}

// ---- upload ----

func TestUploadSuccess(t *testing.T) {
	var created *model.Image
	repo := &fakeImageRepo{
		createFn: func(img *model.Image) error {
			created = img
			return nil
		},
	}
	store := &fakeStorage{}
	svc := NewImageService(repo, store)

	view, err := svc.Upload("u1", pngBytes, "image/png", "me.png")
	require.NoError(t, err)

	assert.Equal(t, "user-u1-me.png", view.FileName)
	assert.Equal(t, "https://bucket.example.com/user-u1-me.png", view.URL)
	assert.Equal(t, "u1", view.UserID)

	require.NotNil(t, created)
	assert.Equal(t, []string{"user-u1-me.png"}, store.saved)
	assert.Empty(t, store.deleted)
}

func TestUploadValidation(t *testing.T) {
	store := &fakeStorage{}
	svc := NewImageService(&fakeImageRepo{}, store)

	cases := []struct {
		name     string
		data     []byte
		mimeType string
		fileName string
	}{
		{"empty bytes", nil, "image/png", "me.png"},
		{"bad mime type", pngBytes, "image/gif", "me.gif"},
		{"content mismatch", []byte("plain text pretending"), "image/png", "me.png"},
		{"missing file name", pngBytes, "image/png", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Upload("u1", tc.data, tc.mimeType, tc.fileName)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}

	// Nothing reached the object store
	assert.Empty(t, store.saved)
}

func TestUploadConflictWhenImageExists(t *testing.T) {
	repo := &fakeImageRepo{
		byUserIDFn: func(string) (*model.Image, error) {
			return &model.Image{ID: "img1", UserID: "u1"}, nil
		},
	}
	store := &fakeStorage{}
	svc := NewImageService(repo, store)

	_, err := svc.Upload("u1", pngBytes, "image/png", "me.png")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Empty(t, store.saved)
}

func TestUploadConstraintRaceCompensatesBlob(t *testing.T) {
	// Two concurrent uploads both pass the fast-path check; the loser hits
	// the unique constraint and must remove the blob it just wrote.
	repo := &fakeImageRepo{
		createFn: func(*model.Image) error { return repository.ErrDuplicateImage },
	}
	store := &fakeStorage{}
	svc := NewImageService(repo, store)

	_, err := svc.Upload("u1", pngBytes, "image/png", "me.png")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, []string{"user-u1-me.png"}, store.deleted)
}

func TestUploadMetadataFailureCompensatesBlob(t *testing.T) {
	repo := &fakeImageRepo{
		createFn: func(*model.Image) error { return errors.New("db down") },
	}
	store := &fakeStorage{}
	svc := NewImageService(repo, store)

	_, err := svc.Upload("u1", pngBytes, "image/png", "me.png")
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
	assert.Equal(t, []string{"user-u1-me.png"}, store.deleted)
}

func TestUploadBlobWriteFailure(t *testing.T) {
	store := &fakeStorage{saveErr: errors.New("s3 down")}
	svc := NewImageService(&fakeImageRepo{}, store)

	_, err := svc.Upload("u1", pngBytes, "image/png", "me.png")
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
}

// ---- get ----

func TestGetNotFound(t *testing.T) {
	svc := NewImageService(&fakeImageRepo{}, &fakeStorage{})

	_, err := svc.Get("u1")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestGetReturnsView(t *testing.T) {
	repo := &fakeImageRepo{
		byUserIDFn: func(string) (*model.Image, error) {
			return &model.Image{ID: "img1", UserID: "u1", FileName: "user-u1-me.png", URL: "https://bucket.example.com/user-u1-me.png"}, nil
		},
	}
	svc := NewImageService(repo, &fakeStorage{})

	view, err := svc.Get("u1")
	require.NoError(t, err)
	assert.Equal(t, "user-u1-me.png", view.FileName)
}

// ---- delete ----

func TestDeleteNotFound(t *testing.T) {
	svc := NewImageService(&fakeImageRepo{}, &fakeStorage{})

	err := svc.Delete("u1")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteBlobFailureRetainsMetadata(t *testing.T) {
	metadataDeleted := false
	repo := &fakeImageRepo{
		byUserIDFn: func(string) (*model.Image, error) {
			return &model.Image{ID: "img1", UserID: "u1", FileName: "user-u1-me.png"}, nil
		},
		deleteFn: func(string) error {
			metadataDeleted = true
			return nil
		},
	}
	store := &fakeStorage{deleteErr: errors.New("s3 down")}
	svc := NewImageService(repo, store)

	err := svc.Delete("u1")
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
	assert.False(t, metadataDeleted, "metadata must be retained when the blob delete fails")
}

func TestDeleteRemovesBlobThenMetadata(t *testing.T) {
	var deletedID string
	repo := &fakeImageRepo{
		byUserIDFn: func(string) (*model.Image, error) {
			return &model.Image{ID: "img1", UserID: "u1", FileName: "user-u1-me.png"}, nil
		},
		deleteFn: func(id string) error {
			deletedID = id
			return nil
		},
	}
	store := &fakeStorage{}
	svc := NewImageService(repo, store)

	require.NoError(t, svc.Delete("u1"))
	assert.Equal(t, []string{"user-u1-me.png"}, store.deleted)
	assert.Equal(t, "img1", deletedID)
}
