package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
)

// PageHandler serves the chat page shell. Templates are parsed once at
// startup (expensive) and reused per request (cheap); the actual chat state
// lives entirely in the browser and talks to the JSON API.
type PageHandler struct {
	templates *template.Template
	logger    *slog.Logger
}

// NewPageHandler parses the HTML templates from templateDir.
//
// base.html defines the overall page structure with a {{template "content" .}}
// placeholder; chat.html fills it via {{define "content"}}. This is Go's
// template composition model — similar to "extends" in Jinja2.
func NewPageHandler(templateDir string, logger *slog.Logger) (*PageHandler, error) {
	tmpl, err := template.ParseFiles(
		filepath.Join(templateDir, "base.html"),
		filepath.Join(templateDir, "chat.html"),
	)
	if err != nil {
		return nil, err
	}

	return &PageHandler{
		templates: tmpl,
		logger:    logger,
	}, nil
}

// HandleChatPage serves the chat page.
func (h *PageHandler) HandleChatPage(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"Title": "Gossip.",
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := h.templates.ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error("failed to render template",
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
