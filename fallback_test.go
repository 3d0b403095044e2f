package main

import "testing"

func TestNextNotFoundSource(t *testing.T) {
	tests := []struct {
		name   string
		target Target
		prev   notFoundSource
		want   notFoundSource
	}{
		{"binary read failed", Target{Name: "logo.png", Binary: true}, sourceNone, sourcePlainText},
		{"text read failed", Target{Name: "app.js"}, sourceNone, sourcePage},
		{"page was the target", Target{Name: "404.html"}, sourceNone, sourcePageMissing},
		{"page retry failed", Target{Name: "app.js"}, sourcePage, sourcePageUnreadable},
		{"inline is terminal", Target{Name: "app.js"}, sourcePageUnreadable, sourcePageUnreadable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextNotFoundSource(tt.target, "404.html", tt.prev)
			if got != tt.want {
				t.Errorf("Got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInlineBody(t *testing.T) {
	if _, _, ok := sourcePage.inlineBody(); ok {
		t.Error("sourcePage has no inline body")
	}
	ct, body, ok := sourcePlainText.inlineBody()
	if !ok {
		t.Fatal("sourcePlainText should be inline")
	}
	ExpectEqual(t, "text/plain", ct)
	ExpectEqual(t, "404 Not Found", string(body))

	ct, body, _ = sourcePageMissing.inlineBody()
	ExpectEqual(t, contentTypeHTML, ct)
	ExpectEqual(t, inlinePageMissing, string(body))
}
