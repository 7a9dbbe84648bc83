package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/target/bizportal/internal/domain/dashboard"
	"github.com/target/bizportal/internal/domain/notify"
)

// Deps holds optional dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
	// Locale is a BCP 47 tag used by formatNumber. Empty or invalid tags use English.
	Locale string
}

// Funcs returns a template.FuncMap containing helpers that are broadly useful across templates.
func Funcs(deps Deps) template.FuncMap {
	printer := NewPrinter(deps.Locale)
	funcs := template.FuncMap{
		"sectionTmpl":    deps.ContentTemplateFor,
		"add":            func(a, b int) int { return a + b },
		"contains":       strings.Contains,
		"formatNumber":   func(v any) string { return FormatNumber(printer, v) },
		"severityClass":  severityClass,
		"headingClasses": headingClasses,
	}

	addRenderFuncs(funcs, deps)
	return funcs
}

func addRenderFuncs(funcs template.FuncMap, deps Deps) {
	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - produced by our own html/template set, already escaped.
		return template.HTML(buf.String()), nil
	}

	funcs["toJSON"] = func(v any) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

// NewPrinter returns a message printer for the locale tag.
func NewPrinter(locale string) *message.Printer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag)
}

// FormatNumber renders integers with the locale's digit grouping, e.g. 1.234 for vi.
func FormatNumber(p *message.Printer, v any) string {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return p.Sprintf("%d", v)
	case float32, float64:
		return p.Sprintf("%.1f", v)
	default:
		return p.Sprint(v)
	}
}

func severityClass(s notify.Severity) string {
	switch s {
	case notify.SeverityError:
		return "toast toast-error"
	case notify.SeveritySuccess:
		return "toast toast-success"
	case notify.SeverityLoading:
		return "toast toast-loading"
	default:
		return "toast toast-info"
	}
}

// headingClasses lets templates build a heading inline: {{headingClasses "lg" false}}.
func headingClasses(size string, noMargin bool) string {
	return dashboard.Heading{Size: dashboard.HeadingSize(size), NoMargin: noMargin}.Classes()
}
