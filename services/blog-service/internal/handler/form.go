package handler

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"regexp"

	"github.com/go-playground/form"

	"github.com/vasapolrittideah/strive-blog/shared/media"
)

const (
	maxMultipartMemory = 8 << 20
	maxUploadBodySize  = media.MaxFileSize + 1<<20
)

var (
	formDecoder = form.NewDecoder()
	// bracketField matches the readTime[value] spelling browsers send for nested fields.
	bracketField = regexp.MustCompile(`\[([A-Za-z_][A-Za-z0-9_]*)\]`)
)

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// parseMultipart bounds and parses a multipart body. The caller must call
// r.MultipartForm.RemoveAll once done.
func parseMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBodySize)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return err
		}
		return &requestError{err: fmt.Errorf("invalid multipart form: %w", err)}
	}

	return nil
}

// decodeForm decodes form values into v, accepting both readTime.value and
// readTime[value]. Empty values are ignored.
func decodeForm(values url.Values, v any) error {
	normalized := make(url.Values, len(values))
	for key, vals := range values {
		if len(vals) == 0 || vals[0] == "" {
			continue
		}
		normalized[bracketField.ReplaceAllString(key, ".$1")] = vals
	}

	if err := formDecoder.Decode(v, normalized); err != nil {
		return &requestError{err: fmt.Errorf("invalid form body: %w", err)}
	}

	return nil
}

// formFile returns the uploaded file of field, or nil when the field is absent. The
// returned func closes the file.
func formFile(r *http.Request, field string) (*media.File, func(), error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, &requestError{err: fmt.Errorf("invalid multipart form: %w", err)}
	}

	return &media.File{
		Reader:   file,
		Size:     header.Size,
		Filename: header.Filename,
	}, func() { _ = file.Close() }, nil
}

// uploadedFile parses a single-file multipart request and returns the file of field.
func uploadedFile(w http.ResponseWriter, r *http.Request, field string) (*media.File, func(), error) {
	if !isMultipart(r) {
		return nil, func() {}, &requestError{err: errors.New("expected a multipart/form-data body")}
	}
	if err := parseMultipart(w, r); err != nil {
		return nil, func() {}, err
	}

	file, closeFile, err := formFile(r, field)
	return file, func() {
		closeFile()
		_ = r.MultipartForm.RemoveAll()
	}, err
}
