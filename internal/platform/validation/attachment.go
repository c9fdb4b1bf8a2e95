package validation

import (
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxAttachmentSize is the largest voucher the API accepts (5 MB)
const MaxAttachmentSize = 5 * 1024 * 1024

// AcceptedMIMETypes are the voucher formats the API accepts
var AcceptedMIMETypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/webp",
	"application/pdf",
}

// File is an uploaded attachment as received from a form
type File struct {
	Filename    string
	ContentType string
	Size        int64
	Content     []byte
}

// Attachment checks an optional file. A nil file passes.
// The declared content type must be accepted; when the content is available its
// sniffed type must be accepted as well, so a renamed executable is still rejected.
func Attachment(errs *Errors, field string, f *File) {
	if f == nil {
		return
	}

	size := f.Size
	if size == 0 {
		size = int64(len(f.Content))
	}
	if size > MaxAttachmentSize {
		errs.Add(field, "file must be 5 MB or smaller")
		return
	}

	if !acceptedMIME(f.ContentType) {
		errs.Add(field, "file must be a JPEG, PNG, WEBP or PDF")
		return
	}

	if len(f.Content) > 0 {
		detected := mimetype.Detect(f.Content)
		if !acceptedMIME(detected.String()) {
			errs.Add(field, "file content does not match an accepted type")
		}
	}
}

func acceptedMIME(contentType string) bool {
	// strip parameters such as "; charset=binary"
	mt, _, _ := strings.Cut(contentType, ";")
	return slices.Contains(AcceptedMIMETypes, strings.ToLower(strings.TrimSpace(mt)))
}
