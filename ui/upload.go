package ui

import (
	stderrors "errors"
	"io"
	"net/http"

	"sickstat/internal/errors"
)

// errNoUpload marks a request without a file part
var errNoUpload = errors.InvalidInput("a data file is required in the \"file\" form field")

// readUpload reads the multipart file field, enforcing the upload limit
func readUpload(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, string, error) {
	if r.ContentLength > limit {
		return nil, "", errors.PayloadTooLarge(limit)
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	file, header, err := r.FormFile(fieldFile)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case stderrors.As(err, &tooLarge):
			return nil, "", errors.PayloadTooLarge(limit)
		case stderrors.Is(err, http.ErrMissingFile), stderrors.Is(err, http.ErrNotMultipart):
			return nil, "", errNoUpload
		}
		return nil, "", errors.Wrap(errors.InvalidInput(err.Error()), "failed to read upload")
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, "", errors.Wrap(errors.InvalidInput(err.Error()), "failed to read upload")
	}
	return raw, header.Filename, nil
}
