// Package upload implements the upload-then-record workflow shared by every
// asset-backed entity: validate incoming files, stream them to object storage
// as one batch, and roll the batch back if anything later in the request fails.
package upload

import (
	"errors"
	"mime/multipart"
	"strings"
)

// Size and count ceilings applied before any storage write.
const (
	MaxImageSize     = 5 << 20  // per image
	MaxCatalogueSize = 10 << 20 // per catalogue PDF
	MaxBatchFiles    = 10
)

// RejectError is a request-rejection error carrying the user-facing message.
// The HTTP layer maps every RejectError to 400.
type RejectError struct {
	msg string
}

func (e *RejectError) Error() string { return e.msg }

var (
	ErrImageType     = &RejectError{msg: "Only image files are allowed for product images."}
	ErrCatalogueType = &RejectError{msg: "Only PDF files are allowed for catalogues."}
	ErrFileTooLarge  = &RejectError{msg: "File too large. Please check the size limits."}
	ErrTooManyFiles  = &RejectError{msg: "Too many files uploaded. Maximum is 10 images."}
)

// IsReject reports whether err is a request-rejection (HTTP 400) error.
func IsReject(err error) bool {
	var re *RejectError
	return errors.As(err, &re)
}

// Rules is the per-entity upload policy: which declared content types are
// accepted and how large each file may be.
type Rules struct {
	accept  func(contentType string) bool
	typeErr *RejectError
	maxSize int64
}

// ImageRules accepts any image/* content type up to MaxImageSize.
var ImageRules = Rules{
	accept:  func(ct string) bool { return strings.HasPrefix(ct, "image/") },
	typeErr: ErrImageType,
	maxSize: MaxImageSize,
}

// CatalogueRules accepts only application/pdf up to MaxCatalogueSize.
var CatalogueRules = Rules{
	accept:  func(ct string) bool { return ct == "application/pdf" },
	typeErr: ErrCatalogueType,
	maxSize: MaxCatalogueSize,
}

// Check validates a single file's declared content type and size.
func (r Rules) Check(fh *multipart.FileHeader) error {
	if !r.accept(fh.Header.Get("Content-Type")) {
		return r.typeErr
	}
	if fh.Size > r.maxSize {
		return ErrFileTooLarge
	}
	return nil
}

// CheckBatch validates a multi-file request against the batch ceiling and
// every per-file rule.
func (r Rules) CheckBatch(files []*multipart.FileHeader) error {
	if len(files) > MaxBatchFiles {
		return ErrTooManyFiles
	}
	for _, fh := range files {
		if err := r.Check(fh); err != nil {
			return err
		}
	}
	return nil
}
