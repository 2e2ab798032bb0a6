package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"

	"github.com/vasapolrittideah/strive-blog/services/web-service/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"home", "post", "create", "register", "login", "author", "forgot", "reset"}

// page is the data every template receives. Data holds the view specific values.
type page struct {
	Session *session.State
	Flash   string
	APIURL  string
	Data    any
}

func loadTemplates() (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006")
		},
		"excerpt": func(s string, n int) string {
			runes := []rune(s)
			if len(runes) <= n {
				return s
			}
			return string(runes[:n]) + "…"
		},
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(
			templateFS,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		pages[name] = t
	}

	return pages, nil
}

func (h *webHandler) render(w http.ResponseWriter, r *http.Request, status int, name, flash string, data any) {
	var buf bytes.Buffer
	err := h.pages[name].ExecuteTemplate(&buf, "layout", page{
		Session: session.FromContext(r.Context()),
		Flash:   flash,
		APIURL:  h.cfg.PublicAPIURL,
		Data:    data,
	})
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("template", name).Msg("failed to render page")
		http.Error(w, "something went wrong", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
