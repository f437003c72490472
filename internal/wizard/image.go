package wizard

import (
	"encoding/base64"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	apperrors "github.com/getmentor/mentor-application-api/pkg/errors"
)

var (
	// ErrImageTooLarge is returned when the file exceeds the configured cap
	ErrImageTooLarge = fmt.Errorf("profile image is too large: %w", apperrors.ErrInvalidInput)

	// ErrUnsupportedImageType is returned for files that are not an accepted image format
	ErrUnsupportedImageType = fmt.Errorf("profile image type is not supported: %w", apperrors.ErrInvalidInput)

	// ErrEmptyImage is returned for zero-byte files
	ErrEmptyImage = fmt.Errorf("profile image is empty: %w", apperrors.ErrInvalidInput)
)

// AllowedImageTypes lists the content types accepted for profile images
var AllowedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// ReadImage opens a picked file, reads at most maxBytes of it and returns it
// as a base64 data URL. The file is always closed before returning.
func ReadImage(open func() (io.ReadCloser, error), maxBytes int64) (string, error) {
	f, err := open()
	if err != nil {
		return "", fmt.Errorf("failed to open profile image: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read profile image: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return "", fmt.Errorf("limit is %d bytes: %w", maxBytes, ErrImageTooLarge)
	}
	if len(data) == 0 {
		return "", ErrEmptyImage
	}

	contentType, ok := detectImageType(data)
	if !ok {
		return "", fmt.Errorf("detected %s: %w", mimetype.Detect(data).String(), ErrUnsupportedImageType)
	}

	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func detectImageType(data []byte) (string, bool) {
	detected := mimetype.Detect(data)
	for _, allowed := range AllowedImageTypes {
		if detected.Is(allowed) {
			return allowed, true
		}
	}
	return "", false
}
