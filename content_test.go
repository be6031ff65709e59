package sitekit

import (
	"context"
	"strings"
	"testing"
)

func TestBodyHTMLFromContent(t *testing.T) {
	got := BodyHTML("", "line one\nline two")
	if got != "<p>line one<br>line two</p>" {
		t.Errorf("got %q", got)
	}
}

func TestBodyHTMLEscapesContent(t *testing.T) {
	got := BodyHTML("", "<script>alert(1)</script>")
	if strings.Contains(got, "<script>") {
		t.Errorf("content not escaped: %q", got)
	}
}

func TestBodyHTMLSanitizesBlob(t *testing.T) {
	got := BodyHTML("<p onclick=\"x()\">hi</p><script>alert(1)</script>", "fallback")
	if strings.Contains(got, "script") || strings.Contains(got, "onclick") {
		t.Errorf("blob not sanitized: %q", got)
	}
	if !strings.Contains(got, "hi") {
		t.Errorf("sanitizer dropped safe markup: %q", got)
	}
}

func TestBodyHTMLEmpty(t *testing.T) {
	if got := BodyHTML("", ""); got != "<p>[No content]</p>" {
		t.Errorf("got %q", got)
	}
	if got := BodyHTML("   ", ""); got != "<p>[No content]</p>" {
		t.Errorf("whitespace blob: got %q", got)
	}
}

func TestBodyComponent(t *testing.T) {
	var w captureWriter
	if err := Body("", "hello").Render(context.Background(), &w); err != nil {
		t.Fatalf("render: %v", err)
	}
	if w.String() != "<p>hello</p>" {
		t.Errorf("rendered %q", w.String())
	}
}
