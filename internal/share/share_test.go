package share

import (
	"net/url"
	"strings"
	"testing"
)

func TestBuildEncodesTargets(t *testing.T) {
	pageURL := "https://shop.example.com/products/42?ref=home"
	text := "Oppo A3x & more"

	links := Build(pageURL, text)

	tests := []struct {
		name string
		link string
		host string
	}{
		{"facebook", links.Facebook, "www.facebook.com"},
		{"x", links.X, "twitter.com"},
		{"whatsapp", links.WhatsApp, "wa.me"},
		{"telegram", links.Telegram, "t.me"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := url.Parse(tt.link)
			if err != nil {
				t.Fatalf("link is not a valid URL: %v", err)
			}
			if parsed.Host != tt.host {
				t.Errorf("host = %q, want %q", parsed.Host, tt.host)
			}
			if parsed.Scheme != "https" {
				t.Errorf("scheme = %q, want https", parsed.Scheme)
			}

			// The raw page URL must never leak unescaped into the query.
			if strings.Contains(parsed.RawQuery, "?ref=home") {
				t.Error("page URL query was not escaped")
			}
		})
	}
}

func TestBuildRoundTripsPageURL(t *testing.T) {
	pageURL := "https://shop.example.com/products/42?ref=home&utm=x"
	text := "Check this out"

	links := Build(pageURL, text)

	fb, err := url.Parse(links.Facebook)
	if err != nil {
		t.Fatalf("facebook link is not a valid URL: %v", err)
	}
	if got := fb.Query().Get("u"); got != pageURL {
		t.Errorf("facebook u param = %q, want %q", got, pageURL)
	}

	x, err := url.Parse(links.X)
	if err != nil {
		t.Fatalf("x link is not a valid URL: %v", err)
	}
	if got := x.Query().Get("url"); got != pageURL {
		t.Errorf("x url param = %q, want %q", got, pageURL)
	}
	if got := x.Query().Get("text"); got != text {
		t.Errorf("x text param = %q, want %q", got, text)
	}

	wa, err := url.Parse(links.WhatsApp)
	if err != nil {
		t.Fatalf("whatsapp link is not a valid URL: %v", err)
	}
	if got := wa.Query().Get("text"); got != text+" "+pageURL {
		t.Errorf("whatsapp text param = %q, want text and URL combined", got)
	}

	tg, err := url.Parse(links.Telegram)
	if err != nil {
		t.Fatalf("telegram link is not a valid URL: %v", err)
	}
	if got := tg.Query().Get("url"); got != pageURL {
		t.Errorf("telegram url param = %q, want %q", got, pageURL)
	}
}
