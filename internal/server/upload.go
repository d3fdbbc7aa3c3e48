package server

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/leapstack-labs/leapdoi/internal/workbook"
)

// badRequestError reports a malformed request, as opposed to bad workbook content.
type badRequestError struct{ msg string }

func (e *badRequestError) Error() string { return e.msg }

// upload is a parsed multipart request. Workbooks opened from it are closed
// with it.
type upload struct {
	form   *multipart.Form
	opened []*workbook.Workbook
}

func (h *Handlers) parseUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, &badRequestError{msg: fmt.Sprintf("expected a multipart upload: %v", err)}
	}
	return &upload{form: r.MultipartForm}, nil
}

// workbook opens the xlsx uploaded under field. A missing optional field
// yields nil.
func (u *upload) workbook(field string, required bool) (*workbook.Workbook, error) {
	files := u.form.File[field]
	if len(files) == 0 {
		if required {
			return nil, &badRequestError{msg: fmt.Sprintf("missing %q file", field)}
		}
		return nil, nil
	}
	fh := files[0]
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload %q: %w", fh.Filename, err)
	}
	defer f.Close()

	wb, err := workbook.OpenReader(fh.Filename, f)
	if err != nil {
		return nil, &badRequestError{msg: fmt.Sprintf("%s: not a readable xlsx workbook", fh.Filename)}
	}
	u.opened = append(u.opened, wb)
	return wb, nil
}

// Close closes opened workbooks and removes temporary upload files.
func (u *upload) Close() {
	for _, wb := range u.opened {
		_ = wb.Close()
	}
	_ = u.form.RemoveAll()
}
