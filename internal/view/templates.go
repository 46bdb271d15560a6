package view

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stockdesk/stockdesk/internal/notify"
	"github.com/stockdesk/stockdesk/internal/render"
	"github.com/stockdesk/stockdesk/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	Subtitle    string
	CSRFToken   string
	Toasts      []ToastView
	CurrentPage string
	CurrentPath string
	Data        any
}

// ToastView is a toast with its timing resolved for the page being rendered.
type ToastView struct {
	notify.Toast
	Phase       notify.Phase
	RemainingMS int64
}

// ToastViews resolves the lifecycle phase of each toast at now.
func ToastViews(toasts []notify.Toast, now time.Time) []ToastView {
	out := make([]ToastView, 0, len(toasts))
	for _, t := range toasts {
		out = append(out, ToastView{Toast: t, Phase: t.Phase(now), RemainingMS: t.Remaining(now).Milliseconds()})
	}
	return out
}

// NewEngine parses templates at build-time.
func NewEngine() (*Engine, error) {
	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02 Jan 2006 15:04")
		},
		"price":      func(v decimal.Decimal) string { return render.Price(v) },
		"money":      func(v decimal.Decimal) string { return render.Money(v) },
		"count":      func(n int64) string { return render.Count(n) },
		"oneDecimal": render.OneDecimal,
		"lower":      strings.ToLower,
		"add":        func(a, b int) int { return a + b },
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates, "templates/layouts/*.html", "templates/partials/*.html", "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template with TemplateData.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	return e.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus is Render with an explicit response status.
func (e *Engine) RenderStatus(w http.ResponseWriter, status int, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	var buf strings.Builder
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write([]byte(buf.String()))
	return err
}
