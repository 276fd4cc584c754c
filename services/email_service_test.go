package services

import (
	"strings"
	"testing"
)

func TestBuildFormalEmailHTMLEscapesContent(t *testing.T) {
	html := buildFormalEmailHTML("Subject <b>", "Asha & Co", "Line one\nLine <two>")

	if strings.Contains(html, "<b>") {
		t.Fatalf("subject was not escaped: %s", html)
	}
	if !strings.Contains(html, "Dear Asha &amp; Co,") {
		t.Fatalf("greeting missing or unescaped: %s", html)
	}
	if !strings.Contains(html, "Line one<br />Line &lt;two&gt;") {
		t.Fatalf("message newlines/escapes wrong: %s", html)
	}
}

func TestBuildFormalEmailHTMLFallbackGreeting(t *testing.T) {
	html := buildFormalEmailHTML("Subject", "   ", "Body")
	if !strings.Contains(html, "Dear Participant,") {
		t.Fatalf("expected fallback greeting, got: %s", html)
	}
}
