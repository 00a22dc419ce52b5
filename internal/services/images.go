package services

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// Size limits for embedded images.
const (
	MaxProductImageBytes = 200 * 1024
	MaxAvatarBytes       = 150 * 1024
)

var (
	ErrNotImage      = errors.New("file must be an image")
	ErrImageTooLarge = errors.New("image too large, choose a smaller file")
)

// ReadImageDataURL reads an image file and returns it as a base64 data URL.
// An empty path returns "".
func ReadImageDataURL(path string, maxBytes int64) (string, error) {
	if path == "" {
		return "", nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("unable to read image: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("unable to read image: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return "", ErrImageTooLarge
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotImage, mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
