// Package photo prepares local image files for upload.
package photo

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"github.com/h2non/filetype"
)

// ErrNotImage is returned when the file content is not a recognized image.
var ErrNotImage = errors.New("file is not an image")

// MaxFileSize caps uploads at 10 MiB before base64 expansion.
const MaxFileSize = 10 << 20

// EncodeFile reads an image file, verifies it really is an image by
// sniffing its magic bytes, and returns the base64 payload the upload
// endpoint expects.
func EncodeFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > MaxFileSize {
		return "", fmt.Errorf("file %s is %d bytes, max %d", path, info.Size(), MaxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	if !filetype.IsImage(data) {
		return "", fmt.Errorf("%s: %w", path, ErrNotImage)
	}

	return base64.StdEncoding.EncodeToString(data), nil
}
