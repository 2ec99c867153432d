package email

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"conferenceportal/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

func money(v float64) string { return fmt.Sprintf("$%.2f", v) }

// Both sets are parsed once from the embedded folder. Subjects are plain text
// and live in the text set as <name>_subject.txt.
var (
	htmlTemplates = parseHTML("templates/*.html")
	textTemplates = parseText("templates/*.txt")
)

func parseHTML(pattern string) *htmltemplate.Template {
	t := htmltemplate.New("").Funcs(htmltemplate.FuncMap{"money": money})
	return htmltemplate.Must(t.ParseFS(templateFS, pattern))
}

func parseText(pattern string) *texttemplate.Template {
	t := texttemplate.New("").Funcs(texttemplate.FuncMap{"money": money})
	return texttemplate.Must(t.ParseFS(templateFS, pattern))
}

type templateRenderer struct{}

// NewTemplateRenderer returns the renderer for the notice templates embedded in this package.
func NewTemplateRenderer() domain.EmailTemplateRenderer {
	return templateRenderer{}
}

// Render runs the subject, html, and text templates registered under name.
func (templateRenderer) Render(name string, data any) (subject, htmlBody, textBody string, err error) {
	var buf bytes.Buffer
	if err = textTemplates.ExecuteTemplate(&buf, name+"_subject.txt", data); err != nil {
		return "", "", "", fmt.Errorf("render %s subject: %w", name, err)
	}
	subject = strings.TrimSpace(buf.String())

	buf.Reset()
	if err = htmlTemplates.ExecuteTemplate(&buf, name+".html", data); err != nil {
		return "", "", "", fmt.Errorf("render %s html: %w", name, err)
	}
	htmlBody = buf.String()

	buf.Reset()
	if err = textTemplates.ExecuteTemplate(&buf, name+".txt", data); err != nil {
		return "", "", "", fmt.Errorf("render %s text: %w", name, err)
	}
	return subject, htmlBody, buf.String(), nil
}
