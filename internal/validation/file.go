package validation

import (
	"errors"
	"fmt"
	"net/http"
)

// allowedImageTypes is the whitelist for profile image uploads.
// Only JPEG and PNG files are accepted.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

// sniffedImageTypes are the content types http.DetectContentType can report
// for an acceptable upload.
var sniffedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// ValidateImage validates profile image bytes against the declared MIME type.
// The declared type must be in the whitelist and the file content must sniff
// to a matching type, so renaming a file cannot bypass the check.
func ValidateImage(data []byte, mimeType string) error {
	if len(data) == 0 {
		return errors.New("no image file provided")
	}

	if !allowedImageTypes[mimeType] {
		return fmt.Errorf("invalid file type %q: only JPEG and PNG files are allowed", mimeType)
	}

	// http.DetectContentType reads at most 512 bytes
	n := len(data)
	if n > 512 {
		n = 512
	}
	detected := http.DetectContentType(data[:n])
	if !sniffedImageTypes[detected] {
		return fmt.Errorf("invalid file content (detected: %s)", detected)
	}

	return nil
}
