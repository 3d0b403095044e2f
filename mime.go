package main

import "strings"

type contentTypeRule struct {
	suffix      string
	contentType string
	binary      bool
}

// Checked in order against the full relative path; first match wins.
var contentTypeRules = []contentTypeRule{
	{".css", "text/css; charset=utf-8", false},
	{".html", contentTypeHTML, false},
	{".js", "application/javascript; charset=utf-8", false},
	{".jpg", "image/jpeg", true},
	{".jpeg", "image/jpeg", true},
	{".png", "image/png", true},
	{".ico", "image/x-icon", true},
	{".heic", "image/heic", true},
}

const contentTypeDefault = "application/octet-stream"

// ContentTypeFor maps a file path to its content type and whether it is
// read as raw bytes. Unknown suffixes are served as binary octet streams.
func ContentTypeFor(name string) (string, bool) {
	for _, r := range contentTypeRules {
		if strings.HasSuffix(name, r.suffix) {
			return r.contentType, r.binary
		}
	}
	return contentTypeDefault, true
}
