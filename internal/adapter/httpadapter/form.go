package httpadapter

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/couchcryptid/blood-demand-predictor/internal/domain"
	"github.com/couchcryptid/blood-demand-predictor/internal/form"
)

// AlertMarkupRejected prefixes the labels of fields whose values contain markup.
const AlertMarkupRejected = "Remove markup from: "

// maxFormBytes bounds the size of a submitted form body.
const maxFormBytes = 64 << 10

//go:embed templates/form.html
var templateFS embed.FS

var formTemplate = template.Must(template.ParseFS(templateFS, "templates/form.html"))

// Submitter sends a completed form for prediction.
type Submitter interface {
	Submit(ctx context.Context, state domain.State) form.Outcome
}

// FormHandler renders the prediction form and handles its submission.
type FormHandler struct {
	fields    []domain.FieldDescriptor
	submitter Submitter
	logger    *slog.Logger
}

// NewFormHandler creates a FormHandler for the given field catalog.
func NewFormHandler(fields []domain.FieldDescriptor, submitter Submitter, logger *slog.Logger) *FormHandler {
	return &FormHandler{
		fields:    fields,
		submitter: submitter,
		logger:    logger,
	}
}

// Show renders an empty form.
func (h *FormHandler) Show(w http.ResponseWriter, _ *http.Request) {
	h.render(w, http.StatusOK, form.BuildView(h.fields, domain.NewState(h.fields)))
}

// Submit reads the posted fields into a fresh state and submits it. The page
// is re-rendered with the submitted values so the form stays usable:
//
//	200 with the result on success
//	422 when required fields are empty or contain markup (no prediction request is made)
//	502 when the prediction failed
func (h *FormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.logger.Warn("invalid form submission", "error", err)
		v := form.BuildView(h.fields, domain.NewState(h.fields))
		v.Alert = "Invalid form submission"
		h.render(w, http.StatusBadRequest, v)
		return
	}

	state := domain.NewState(h.fields)
	var rejected []string
	for _, f := range h.fields {
		value, ok := sanitizeValue(r.PostForm.Get(f.Name))
		if !ok {
			rejected = append(rejected, f.DisplayLabel())
		}
		state = state.With(f.Name, value)
	}
	if len(rejected) > 0 {
		h.logger.Info("submission rejected", "reason", "markup in values", "fields", strings.Join(rejected, ","))
		v := form.BuildView(h.fields, state)
		v.Alert = AlertMarkupRejected + strings.Join(rejected, ", ")
		h.render(w, http.StatusUnprocessableEntity, v)
		return
	}

	out := h.submitter.Submit(r.Context(), state)

	status := http.StatusOK
	switch {
	case len(out.Missing) > 0:
		status = http.StatusUnprocessableEntity
	case out.Alert != "":
		status = http.StatusBadGateway
	}
	h.render(w, status, form.ViewFor(h.fields, out))
}

func (h *FormHandler) render(w http.ResponseWriter, status int, v form.View) {
	var buf bytes.Buffer
	if err := formTemplate.Execute(&buf, v); err != nil {
		h.logger.Error("render form", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
