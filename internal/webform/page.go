package webform

import (
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"codeberg.org/snonux/translingo/internal/apperr"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

const (
	defaultSource = "English"
	defaultTarget = "Hindi"
)

type pageData struct {
	Languages   []string
	Text        string
	Source      string
	Target      string
	Translation string
	Error       string
}

func (h *Handler) form(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, pageData{
		Languages: h.langs.Names(),
		Source:    defaultSource,
		Target:    defaultTarget,
	})
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	data := pageData{
		Languages: h.langs.Names(),
		Text:      r.PostFormValue("text"),
		Source:    r.PostFormValue("source"),
		Target:    r.PostFormValue("target"),
	}

	status := http.StatusOK
	out, err := h.Translate(r.Context(), data.Text, data.Source, data.Target)
	if err != nil {
		status = statusFor(err)
		data.Error = apperr.UserMessage(err)
	} else {
		data.Translation = out
	}
	h.render(w, status, data)
}

func (h *Handler) render(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		h.log.Error("failed to render page", zap.Error(err))
	}
}
