// Package uploads stores admin-uploaded media on local disk under a
// random filename, keeping the original extension. Only known image and
// video types are accepted.
package uploads

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

const (
	// MaxFileSize bounds project media uploads (images and videos).
	MaxFileSize = 50 << 20
	// MaxImageSize bounds image-only uploads like the hero portrait.
	MaxImageSize = 5 << 20
)

var imageExtensions = map[string]bool{
	".jpeg": true, ".jpg": true, ".png": true, ".gif": true, ".webp": true,
}

var videoExtensions = map[string]bool{
	".mp4": true, ".webm": true, ".mov": true, ".avi": true,
}

// Result describes a stored upload.
type Result struct {
	URL  string `json:"url"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// ValidationError marks an upload rejected for size or type; handlers
// translate it into a 422 instead of a 500.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// SaveFile stores an image or video upload under dir and returns its
// public URL path.
func SaveFile(file *multipart.FileHeader, dir, urlPrefix string) (*Result, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	isImage := imageExtensions[ext]
	isVideo := videoExtensions[ext]

	if !isImage && !isVideo {
		return nil, &ValidationError{Message: fmt.Sprintf("unsupported file type %q", ext)}
	}
	if file.Size > MaxFileSize {
		return nil, &ValidationError{Message: "file exceeds the 50MB limit"}
	}

	kind := "image"
	subdir := "images"
	if isVideo {
		kind = "video"
		subdir = "videos"
	}

	storedName, err := store(file, filepath.Join(dir, subdir), ext)
	if err != nil {
		return nil, err
	}

	return &Result{
		URL:  strings.TrimRight(urlPrefix, "/") + "/" + subdir + "/" + storedName,
		Type: kind,
		Name: file.Filename,
	}, nil
}

// SaveImage stores an image-only upload (smaller size cap) and returns
// its public URL path.
func SaveImage(file *multipart.FileHeader, dir, urlPrefix string) (*Result, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExtensions[ext] {
		return nil, &ValidationError{Message: fmt.Sprintf("unsupported image type %q", ext)}
	}
	if file.Size > MaxImageSize {
		return nil, &ValidationError{Message: "image exceeds the 5MB limit"}
	}

	storedName, err := store(file, dir, ext)
	if err != nil {
		return nil, err
	}

	return &Result{
		URL:  strings.TrimRight(urlPrefix, "/") + "/" + storedName,
		Type: "image",
		Name: file.Filename,
	}, nil
}

func store(file *multipart.FileHeader, dir, ext string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := randomName() + ext
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	return name, nil
}

func randomName() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(err) // crypto/rand does not fail on supported platforms
	}
	return hex.EncodeToString(buf)
}
