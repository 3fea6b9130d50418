package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/LoayAhmed23/recipe-app-api/pkg/config"
)

// handlerConfig holds the settings handlers need at request time
type handlerConfig struct {
	MediaRoot         string
	TokenLifetime     time.Duration
	PasswordMinLength int
}

var cfg handlerConfig

// Init initializes the handler package with configuration
func Init(appConfig *config.Config) {
	cfg = handlerConfig{
		MediaRoot:         appConfig.Media.Root,
		TokenLifetime:     appConfig.Auth.TokenLifetime,
		PasswordMinLength: appConfig.Auth.PasswordMinLength,
	}
}

// saveImage validates that the uploaded file really is an image and
// writes it under the media root at the path built by pathFunc.
// Returns the stored relative path.
func saveImage(file *multipart.FileHeader, pathFunc func(string) string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// Sniff the content type from the first bytes, never trust the extension
	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		return "", err
	}
	contentType := http.DetectContentType(head[:n])
	if len(contentType) < 6 || contentType[:6] != "image/" {
		return "", errNotAnImage
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	relPath := pathFunc(file.Filename)
	fullPath := filepath.Join(cfg.MediaRoot, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", err
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return relPath, nil
}
