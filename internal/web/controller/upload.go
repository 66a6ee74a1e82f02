package controller

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"campuscms/internal/attachment"
	"campuscms/internal/models"
)

// multipartOverhead is the room left in a request body for the multipart
// framing around the file.
const multipartOverhead = 64 << 10

// Uploader writes uploaded files under Dir and records them as attachments.
type Uploader struct {
	Dir         string
	MaxBytes    int64
	Attachments *attachment.Repository
}

// Save stores the multipart file in field. With imagesOnly, files whose
// content is not an image are rejected. The request body is capped at
// MaxBytes plus the multipart framing.
func (u *Uploader) Save(w http.ResponseWriter, r *http.Request, field string, imagesOnly bool) (models.Attachment, error) {
	r.Body = http.MaxBytesReader(w, r.Body, u.MaxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(u.MaxBytes); err != nil {
		return models.Attachment{}, invalid("the uploaded file is too big or malformed")
	}

	file, handler, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return models.Attachment{}, invalid("%s is required", field)
	}
	if err != nil {
		return models.Attachment{}, fmt.Errorf("error retrieving the file: %w", err)
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(io.LimitReader(file, u.MaxBytes+1))
	if err != nil {
		return models.Attachment{}, fmt.Errorf("error reading the file: %w", err)
	}
	if int64(len(fileBytes)) > u.MaxBytes {
		return models.Attachment{}, invalid("the uploaded file is too big")
	}

	mimeType := http.DetectContentType(fileBytes)
	if imagesOnly && !strings.HasPrefix(mimeType, "image/") {
		return models.Attachment{}, invalid("%s must be an image", field)
	}

	hash := sha256.Sum256(fileBytes)
	uniqueFilename := fmt.Sprintf("%s-%d%s",
		hex.EncodeToString(hash[:16]),
		time.Now().Unix(),
		strings.ToLower(filepath.Ext(handler.Filename)))

	if err := os.MkdirAll(u.Dir, 0755); err != nil {
		return models.Attachment{}, fmt.Errorf("error creating upload directory: %w", err)
	}
	path := filepath.Join(u.Dir, uniqueFilename)
	if err := os.WriteFile(path, fileBytes, 0644); err != nil {
		return models.Attachment{}, fmt.Errorf("error saving the file: %w", err)
	}

	a := models.Attachment{
		Filename:       handler.Filename,
		UniqueFilename: uniqueFilename,
		MimeType:       mimeType,
		Size:           int64(len(fileBytes)),
	}
	if err := u.Attachments.Create(r.Context(), &a); err != nil {
		os.Remove(path)
		return models.Attachment{}, err
	}
	return a, nil
}

// URL is the public URL of an uploaded file.
func uploadURL(a models.Attachment) string {
	return "/uploads/" + a.UniqueFilename
}

// uploadPath maps a public upload URL back to a path under dir. Anything
// that is not a plain file name below /uploads/ is rejected.
func uploadPath(dir, url string) (string, bool) {
	name := strings.TrimPrefix(url, "/uploads/")
	if name == url || name == "" || strings.ContainsAny(name, `/\`) || name == ".." {
		return "", false
	}
	return filepath.Join(dir, name), true
}
