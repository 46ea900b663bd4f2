package api

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/registrylabs/content-registry/pkg/registry"
	"github.com/registrylabs/content-registry/pkg/registry/objectkey"
)

// DefaultMaxUploadBytes caps uploaded file size at 5MB.
const DefaultMaxUploadBytes = 5 * 1024 * 1024

// uploadFieldName is the multipart field uploads arrive in.
const uploadFieldName = "file"

var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".txt":  true,
	".pptx": true,
}

const invalidFileTypeMessage = "Invalid file type. Only JPEG, PNG, GIF, PDF, DOC, DOCX, PPTX and TXT files are allowed."

// uploader validates incoming multipart files and writes them to the
// blob store before the content record exists.
type uploader struct {
	store    registry.BlobStore
	keys     objectkey.Generator
	maxBytes int64
}

func newUploader(store registry.BlobStore, keys objectkey.Generator, maxBytes int64) *uploader {
	if keys == nil {
		keys = objectkey.NewShardedGenerator()
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &uploader{store: store, keys: keys, maxBytes: maxBytes}
}

// readUpload extracts the file field from a multipart request, validates
// it, and stores the blob. It returns (nil, nil) when the request carries
// no file at all; the handler decides whether that is an error.
//
// The request must already have been parsed with parseMultipart.
func (u *uploader) readUpload(r *http.Request) (*registry.BlobDescriptor, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[uploadFieldName]) == 0 {
		return nil, nil
	}

	header := r.MultipartForm.File[uploadFieldName][0]

	if header.Size > u.maxBytes {
		return nil, &registry.ValidationError{
			Field:   uploadFieldName,
			Message: fmt.Sprintf("File size too large. Maximum allowed size is %dMB", u.maxBytes/(1024*1024)),
		}
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return nil, &registry.ValidationError{Field: uploadFieldName, Message: invalidFileTypeMessage}
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file: %w", err)
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	key := u.keys.GenerateKey(uuid.New(), header.Filename)

	if err := u.store.Upload(r.Context(), key, file, mimeType); err != nil {
		return nil, err
	}

	url, err := u.store.URL(r.Context(), key)
	if err != nil {
		// The blob landed but is unaddressable; remove it rather than leak it.
		_ = u.store.Delete(r.Context(), key)
		return nil, err
	}

	return &registry.BlobDescriptor{
		Key:      key,
		URL:      url,
		FileName: header.Filename,
		MimeType: mimeType,
		Size:     header.Size,
	}, nil
}

// parseMultipart parses the request body with the upload size cap applied
// to the whole request.
func (u *uploader) parseMultipart(w http.ResponseWriter, r *http.Request) error {
	// Headroom for the non-file fields alongside the capped file.
	r.Body = http.MaxBytesReader(w, r.Body, u.maxBytes+1024*1024)
	if err := r.ParseMultipartForm(u.maxBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			return &registry.ValidationError{
				Field:   uploadFieldName,
				Message: fmt.Sprintf("File size too large. Maximum allowed size is %dMB", u.maxBytes/(1024*1024)),
			}
		}
		return &registry.ValidationError{Message: "Invalid multipart form data"}
	}
	return nil
}
