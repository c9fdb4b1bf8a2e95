package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kislikjeka/finboard/internal/platform/validation"
	apperrors "github.com/kislikjeka/finboard/internal/shared/errors"
)

const (
	// maxFormBody bounds JSON and urlencoded submissions
	maxFormBody = 1 << 20
	// maxUploadBody leaves room for the other multipart fields next to the attachment
	maxUploadBody = validation.MaxAttachmentSize + 1<<20

	fileField = "file"
)

// rawForm is a submission flattened to field -> string, whatever its encoding
type rawForm map[string]string

// readForm flattens a JSON object, urlencoded or multipart body. JSON numbers and
// booleans are kept in their textual form so every field goes through the same
// validators.
func readForm(w http.ResponseWriter, r *http.Request) (rawForm, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		r.Body = http.MaxBytesReader(w, r.Body, maxFormBody)
		return readJSONForm(r.Body)
	case "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
		if err := r.ParseMultipartForm(maxUploadBody); err != nil {
			return nil, uploadError(err)
		}
		return flatten(r.MultipartForm.Value), nil
	default:
		r.Body = http.MaxBytesReader(w, r.Body, maxFormBody)
		if err := r.ParseForm(); err != nil {
			return nil, apperrors.BadRequest("invalid form body")
		}
		return flatten(r.PostForm), nil
	}
}

func readJSONForm(body io.Reader) (rawForm, error) {
	var raw map[string]any
	dec := json.NewDecoder(body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, apperrors.BadRequest("invalid request body")
	}

	form := make(rawForm, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case nil:
		case string:
			form[k] = v
		case json.Number:
			form[k] = v.String()
		case bool:
			form[k] = strconv.FormatBool(v)
		default:
			return nil, apperrors.BadRequest(fmt.Sprintf("field %q must be a scalar", k))
		}
	}
	return form, nil
}

func flatten(values map[string][]string) rawForm {
	form := make(rawForm, len(values))
	for k, v := range values {
		if len(v) > 0 {
			form[k] = v[0]
		}
	}
	return form
}

// decode copies the flattened fields into a form struct through its json tags
func (f rawForm) decode(dst any) error {
	b, err := json.Marshal(f)
	if err != nil {
		return apperrors.Internal("failed to encode form", err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return apperrors.BadRequest("invalid form body")
	}
	return nil
}

// without returns a copy of the form minus secret fields, for echoing back
func (f rawForm) without(fields ...string) map[string]string {
	out := make(map[string]string, len(f))
	for k, v := range f {
		out[k] = v
	}
	for _, k := range fields {
		delete(out, k)
	}
	return out
}

// readAttachment returns the optional uploaded file of a parsed multipart request
func readAttachment(r *http.Request) (*validation.File, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := r.FormFile(fileField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, uploadError(err)
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, validation.MaxAttachmentSize+1))
	if err != nil {
		return nil, uploadError(err)
	}

	return &validation.File{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     content,
	}, nil
}

// uploadError reports an oversized body as a field error on the attachment
func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "too large") {
		var errs validation.Errors
		errs.Add(fileField, "file must be 5 MB or smaller")
		return errs
	}
	return apperrors.BadRequest("invalid multipart body")
}

// pathID parses a positive integer route parameter
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.BadRequest(fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}
