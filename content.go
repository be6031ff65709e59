package sitekit

import (
	"context"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
)

// Body blobs are opaque to the core but are sanitized before they reach a
// surface, since they originate from the admin form.
var bodyPolicy = bluemonday.UGCPolicy()

// SanitizeHTML strips markup that the UGC policy does not allow.
func SanitizeHTML(s string) string {
	return bodyPolicy.Sanitize(s)
}

// BodyHTML returns the display markup for a record body: the sanitized HTML
// blob when present, otherwise the plain content escaped and wrapped in a
// paragraph with newlines as line breaks.
func BodyHTML(htmlBlob, content string) string {
	if strings.TrimSpace(htmlBlob) != "" {
		return SanitizeHTML(htmlBlob)
	}
	if content == "" {
		return "<p>[No content]</p>"
	}
	escaped := html.EscapeString(content)
	return "<p>" + strings.ReplaceAll(escaped, "\n", "<br>") + "</p>"
}

// Body wraps BodyHTML as a templ component for use inside views.
func Body(htmlBlob, content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, BodyHTML(htmlBlob, content))
		return err
	})
}
