package conversion

import (
	"strings"
	"testing"
)

func TestConvert_BasicMarkdown(t *testing.T) {
	c := DefaultConverter()

	html, err := c.Convert("# Prayer for Relief\n\nThe petitioner **respectfully** prays.")
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if !strings.Contains(html, "<h1") {
		t.Error("heading not rendered")
	}
	if !strings.Contains(html, "<strong>respectfully</strong>") {
		t.Error("bold not rendered")
	}
}

func TestConvert_SanitizesScripts(t *testing.T) {
	c := DefaultConverter()

	html, err := c.Convert("safe text\n\n<script>alert('xss')</script>")
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if strings.Contains(html, "<script>") {
		t.Error("script tag survived sanitization")
	}
	if !strings.Contains(html, "safe text") {
		t.Error("benign content stripped")
	}
}

func TestConvert_SanitizesEventHandlers(t *testing.T) {
	c := DefaultConverter()

	html, err := c.Convert(`<a href="#" onclick="steal()">click</a>`)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if strings.Contains(html, "onclick") {
		t.Error("event handler attribute survived sanitization")
	}
}

func TestConvert_WithoutSanitizer(t *testing.T) {
	c := NewConverter()

	html, err := c.Convert("plain *emphasis*")
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !strings.Contains(html, "<em>emphasis</em>") {
		t.Errorf("html = %q", html)
	}
}

func TestConvertToSafeHTML(t *testing.T) {
	c := DefaultConverter()

	out := c.ConvertToSafeHTML("just text")
	if !strings.Contains(out, "just text") {
		t.Errorf("output = %q", out)
	}
}

func TestEscapeHTML(t *testing.T) {
	got := EscapeHTML(`<a href="x">&'`)
	want := "&lt;a href=&quot;x&quot;&gt;&amp;&#39;"
	if got != want {
		t.Errorf("EscapeHTML = %q, want %q", got, want)
	}
}

func TestConvert_GFMTable(t *testing.T) {
	c := DefaultConverter()

	html, err := c.Convert("| Check | Status |\n|---|---|\n| citations | pass |")
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !strings.Contains(html, "<table>") {
		t.Error("GFM table not rendered")
	}
}
