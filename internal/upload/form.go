package upload

import (
	"mime/multipart"
	"net/http"
)

// FormFiles returns the parsed multipart file headers for a form field.
// Callers must have run ParseMultipartForm first.
func FormFiles(r *http.Request, field string) []*multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	return r.MultipartForm.File[field]
}

// FormValues returns the repeated values of a multipart form field.
func FormValues(r *http.Request, field string) []string {
	if r.MultipartForm == nil {
		return nil
	}
	return r.MultipartForm.Value[field]
}
