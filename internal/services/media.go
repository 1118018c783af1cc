package services

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const UploadsPrefix = "/uploads/"

// UploadStore keeps case images as flat files under Dir.
type UploadStore struct {
	Dir string
}

func (u UploadStore) EnsureDir() error {
	return os.MkdirAll(u.Dir, 0o755)
}

// Save writes body under a fresh uuid-based name and returns the public
// image path (/uploads/<name>).
func (u UploadStore) Save(originalName string, body io.Reader) (string, error) {
	if err := u.EnsureDir(); err != nil {
		return "", err
	}
	storedName := uuid.NewString() + cleanExtension(originalName)
	targetPath := filepath.Join(u.Dir, storedName)

	file, err := os.Create(targetPath)
	if err != nil {
		return "", err
	}
	size, err := io.Copy(file, body)
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(targetPath)
		return "", err
	}
	if size == 0 {
		_ = os.Remove(targetPath)
		return "", ErrBadRequest("Image file is empty: " + filepath.Base(originalName))
	}
	return UploadsPrefix + storedName, nil
}

// Remove deletes the file behind a public image path. Missing files are ignored.
func (u UploadStore) Remove(imagePath string) {
	name := strings.TrimPrefix(imagePath, UploadsPrefix)
	if !validFilename(name) {
		return
	}
	_ = os.Remove(filepath.Join(u.Dir, name))
}

// Resolve maps a requested file name to its location on disk. It fails for
// names that could escape Dir.
func (u UploadStore) Resolve(filename string) (string, error) {
	if !validFilename(filename) {
		return "", ErrNotFound("File not found")
	}
	return filepath.Join(u.Dir, filename), nil
}

// ContentTypeFor infers an image content type from the file extension;
// anything that is not png or gif is served as jpeg.
func ContentTypeFor(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".gif"):
		return "image/gif"
	default:
		return "image/jpeg"
	}
}

func validFilename(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return false
	}
	return true
}

func cleanExtension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if len(ext) < 2 || len(ext) > 6 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
