// Package share builds outbound deep links to social and messaging
// platforms. The links are plain unauthenticated GETs; nothing here talks
// to the network.
package share

import (
	"fmt"
	"net/url"
)

// Links holds the share URLs for one page.
type Links struct {
	Facebook string `json:"facebook"`
	X        string `json:"x"`
	WhatsApp string `json:"whatsapp"`
	Telegram string `json:"telegram"`
}

// Build constructs share links for a page URL with an accompanying text.
func Build(pageURL, text string) Links {
	return Links{
		Facebook: "https://www.facebook.com/sharer/sharer.php?" + url.Values{
			"u": {pageURL},
		}.Encode(),
		X: "https://twitter.com/intent/tweet?" + url.Values{
			"url":  {pageURL},
			"text": {text},
		}.Encode(),
		WhatsApp: "https://wa.me/?" + url.Values{
			"text": {fmt.Sprintf("%s %s", text, pageURL)},
		}.Encode(),
		Telegram: "https://t.me/share/url?" + url.Values{
			"url":  {pageURL},
			"text": {text},
		}.Encode(),
	}
}
