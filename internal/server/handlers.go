package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/leapstack-labs/leapdoi/internal/engine"
	"github.com/leapstack-labs/leapdoi/internal/workbook"
	"github.com/leapstack-labs/leapdoi/pkg/core"
)

// Form fields of the upload endpoints.
const (
	FieldCombined = "combined"
	FieldSchedule = "schedule"
)

// Response headers set on report downloads.
const (
	HeaderRunID    = "X-Leapdoi-Run-Id"
	HeaderWarning  = "X-Leapdoi-Warning"
	HeaderWarnings = "X-Leapdoi-Warnings"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handlers provides the HTTP handlers.
type Handlers struct {
	engine    *engine.Engine
	maxUpload int64
	logger    *slog.Logger
}

func newHandlers(eng *engine.Engine, maxUpload int64, logger *slog.Logger) *Handlers {
	return &Handlers{engine: eng, maxUpload: maxUpload, logger: logger}
}

// Index renders the upload form.
func (h *Handlers) Index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, indexData{MaxUploadMB: h.maxUpload >> 20}); err != nil {
		h.logger.Error("failed to render index", "error", err)
	}
}

// Healthz reports liveness.
func (h *Handlers) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Preview summarises an uploaded Combined workbook and optional schedule.
func (h *Handlers) Preview(w http.ResponseWriter, r *http.Request) {
	up, err := h.parseUpload(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer up.Close()

	combined, err := up.workbook(FieldCombined, true)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var schedule workbook.Source
	if wb, err := up.workbook(FieldSchedule, false); err != nil {
		h.writeError(w, r, err)
		return
	} else if wb != nil {
		schedule = wb
	}

	p, err := h.engine.Preview(r.Context(), combined, schedule)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// TractReport builds and downloads a Tract-Based Ownership workbook.
func (h *Handlers) TractReport(w http.ResponseWriter, r *http.Request) {
	h.report(w, r, core.ReportTractBased)
}

// UnitReport builds and downloads a Unit-Based DOI workbook.
func (h *Handlers) UnitReport(w http.ResponseWriter, r *http.Request) {
	h.report(w, r, core.ReportUnitBased)
}

func (h *Handlers) report(w http.ResponseWriter, r *http.Request, kind core.ReportKind) {
	up, err := h.parseUpload(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer up.Close()

	req := engine.Request{Kind: kind, RunID: uuid.NewString()}
	if req.Combined, err = up.workbook(FieldCombined, true); err != nil {
		h.writeError(w, r, err)
		return
	}
	if kind == core.ReportUnitBased {
		if req.Schedule, err = up.workbook(FieldSchedule, true); err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	res, err := h.engine.Build(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.engine.Write(&buf, res); err != nil {
		h.writeError(w, r, err)
		return
	}

	hdr := w.Header()
	hdr.Set("Content-Type", xlsxContentType)
	hdr.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", kind.DefaultFileName()))
	hdr.Set(HeaderRunID, res.RunID())
	hdr.Set(HeaderWarnings, fmt.Sprint(len(res.Report.Warnings)))
	if res.Reconciliation != nil {
		hdr.Set(HeaderWarning, headerSafe(res.Reconciliation.Error()))
		h.logger.Warn("report does not reconcile",
			"run_id", res.RunID(),
			"request_id", middleware.GetReqID(r.Context()),
			"error", res.Reconciliation)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// errorResponse is the JSON body of a failed request.
type errorResponse struct {
	Error   string        `json:"error"`
	Kind    string        `json:"kind"`
	Details []errorDetail `json:"details,omitempty"`
}

type errorDetail struct {
	Kind    string   `json:"kind"`
	Message string   `json:"message"`
	File    string   `json:"file,omitempty"`
	Sheet   string   `json:"sheet,omitempty"`
	Row     int      `json:"row,omitempty"`
	Column  string   `json:"column,omitempty"`
	Tract   string   `json:"tract,omitempty"`
	Columns []string `json:"columns,omitempty"`
}

// Error kinds that are not validation kinds.
const (
	kindBadRequest = "bad_request"
	kindTooLarge   = "too_large"
	kindInternal   = "internal"
)

func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if verrs := core.ValidationErrors(err); len(verrs) > 0 {
		resp := errorResponse{Error: firstLine(err.Error()), Kind: string(verrs[0].Kind)}
		if len(verrs) > 1 {
			resp.Error = fmt.Sprintf("%d problems found in the uploaded workbooks", len(verrs))
		}
		for _, v := range verrs {
			resp.Details = append(resp.Details, errorDetail{
				Kind:    string(v.Kind),
				Message: v.Error(),
				File:    v.File,
				Sheet:   v.Sheet,
				Row:     v.Row,
				Column:  v.Column,
				Tract:   v.Tract,
				Columns: v.Columns,
			})
		}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	var tooLarge *http.MaxBytesError
	var bad *badRequestError
	switch {
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
			Error: fmt.Sprintf("upload exceeds %d MB", h.maxUpload>>20),
			Kind:  kindTooLarge,
		})
	case errors.As(err, &bad):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: bad.Error(), Kind: kindBadRequest})
	default:
		h.logger.Error("request failed",
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error(), Kind: kindInternal})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// headerSafe strips characters that cannot appear in a header value.
func headerSafe(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return ' '
		}
		if r < 0x20 || r > 0x7e {
			return '?'
		}
		return r
	}, s)
}
