package upload

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"event-manager-backend/model"

	"github.com/google/uuid"
)

type Config struct {
	MaxSizeBytes     int64
	AllowedMimeTypes []string
	BasePath         string
	BaseURL          string
}

var (
	ImageMimeTypes = []string{
		"image/jpeg",
		"image/png",
		"image/gif",
		"image/webp",
	}

	DocumentMimeTypes = []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"text/plain",
	}
)

// DefaultConfig accepts images and documents up to 5MB.
func DefaultConfig(basePath, baseURL string, maxSize int64) Config {
	return Config{
		MaxSizeBytes:     maxSize,
		AllowedMimeTypes: append(append([]string{}, ImageMimeTypes...), DocumentMimeTypes...),
		BasePath:         basePath,
		BaseURL:          strings.TrimRight(baseURL, "/"),
	}
}

var knownTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".png":  "image/png",
	".webp": "image/webp",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain",
}

// TypeByExtension resolves the mime type of a file name or URL, ignoring any query string.
func TypeByExtension(name string) string {
	name = strings.SplitN(name, "?", 2)[0]
	ext := strings.ToLower(path.Ext(name))
	if t, ok := knownTypes[ext]; ok {
		return t
	}
	return strings.SplitN(mime.TypeByExtension(ext), ";", 2)[0]
}

// storedExtensions names the extension a sniffed type is saved under when the
// client's extension does not match it.
var storedExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
	"text/plain":      ".txt",
}

// extensionFor keeps the client's extension only when it names the sniffed type.
func extensionFor(filename, mimeType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != "" && TypeByExtension(ext) == mimeType {
		return ext
	}
	if known, ok := storedExtensions[mimeType]; ok {
		return known
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

// IsImage reports whether the mime type is an image.
func IsImage(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}

// Save stores one uploaded part under BasePath/<yyyy>/<mm>/<uuid><ext>.
func Save(fileHeader *multipart.FileHeader, config Config, now time.Time) (*model.UploadedFile, error) {
	if config.MaxSizeBytes > 0 && fileHeader.Size > config.MaxSizeBytes {
		return nil, fmt.Errorf("file size exceeds maximum limit of %d MB", config.MaxSizeBytes/(1024*1024))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		return nil, err
	}
	mimeType := strings.SplitN(http.DetectContentType(buffer[:n]), ";", 2)[0]

	allowed := false
	for _, t := range config.AllowedMimeTypes {
		if mimeType == t {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("invalid file type. Allowed types: %v", config.AllowedMimeTypes)
	}

	sub := filepath.Join(now.Format("2006"), now.Format("01"))
	dir := filepath.Join(config.BasePath, sub)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, err
	}

	ext := extensionFor(fileHeader.Filename, mimeType)
	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	full := filepath.Join(dir, filename)

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	dst, err := os.Create(full)
	if err != nil {
		return nil, err
	}
	defer dst.Close()
	size, err := io.Copy(dst, src)
	if err != nil {
		return nil, err
	}

	return &model.UploadedFile{
		URL:       config.BaseURL + "/" + filepath.ToSlash(filepath.Join(sub, filename)),
		File:      full,
		Type:      mimeType,
		Extension: strings.TrimPrefix(ext, "."),
		Name:      fileHeader.Filename,
		Size:      size,
	}, nil
}

func Delete(filePath string) error {
	return os.Remove(filePath)
}
