package render

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestRenderMarkdown(t *testing.T) {
	html := string(RenderMarkdown("# Heading\n\nSome **bold** text."))

	if !strings.Contains(html, "<h1") || !strings.Contains(html, "Heading") {
		t.Errorf("markdown heading not rendered: %q", html)
	}
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("markdown bold not rendered: %q", html)
	}
}

func TestRenderMarkdownSanitizesScripts(t *testing.T) {
	html := string(RenderMarkdown(`hello <script>alert("xss")</script> world`))

	if strings.Contains(html, "<script") {
		t.Errorf("script tag survived sanitization: %q", html)
	}
	if !strings.Contains(html, "hello") || !strings.Contains(html, "world") {
		t.Errorf("surrounding text lost: %q", html)
	}
}

func TestGravatarURL(t *testing.T) {
	// Hash must be of the lowercased, trimmed email.
	a := GravatarURL("Reader@Example.com ")
	b := GravatarURL("reader@example.com")
	if a != b {
		t.Errorf("gravatar URL should normalize email: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, "https://www.gravatar.com/avatar/") {
		t.Errorf("unexpected URL: %q", a)
	}
	if !strings.Contains(a, "d=retro") {
		t.Errorf("missing default avatar parameter: %q", a)
	}
}

func TestNewParsesPageTemplates(t *testing.T) {
	templatesFS := fstest.MapFS{
		"layouts/base.html": &fstest.MapFile{
			Data: []byte(`{{define "base"}}<html><body>{{template "content" .}}</body></html>{{end}}`),
		},
		"pages/index.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}<h1>{{.Title}}</h1>{{end}}`),
		},
	}

	r, err := New(Config{TemplatesFS: templatesFS})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, ok := r.templates["index"]; !ok {
		t.Error("index template should be parsed")
	}
}
