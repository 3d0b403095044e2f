package main

// notFoundSource says where the body of a 404 comes from once reading the
// resolved target has failed.
type notFoundSource int

const (
	sourceNone notFoundSource = iota
	// the not-found page on disk
	sourcePage
	// inline HTML: the target failed, then so did the not-found page
	sourcePageUnreadable
	// inline HTML: the target was the not-found page
	sourcePageMissing
	// inline plain text: a binary target failed
	sourcePlainText
)

const (
	inlinePageUnreadable = "<html><head><title>404 Not Found</title></head><body><h1>404 Not Found</h1><p>The requested resource was not found, and the 404.html error page is also missing or unreadable.</p></body></html>"
	inlinePageMissing    = "<html><head><title>404 Not Found</title></head><body><h1>404 Not Found</h1><p>The 404.html error page is missing or unreadable.</p></body></html>"
	inlinePlainText      = "404 Not Found"
)

var sourceNames = map[notFoundSource]string{
	sourceNone:           "none",
	sourcePage:           "not-found page",
	sourcePageUnreadable: "inline html (page unreadable)",
	sourcePageMissing:    "inline html (page missing)",
	sourcePlainText:      "inline text",
}

func (s notFoundSource) String() string {
	return sourceNames[s]
}

// nextNotFoundSource picks the next source after prev failed to produce a
// body for t. Only sourcePage can fail; the inline sources always succeed.
func nextNotFoundSource(t Target, notFoundPage string, prev notFoundSource) notFoundSource {
	switch prev {
	case sourceNone:
		if t.Binary {
			return sourcePlainText
		}
		if t.Name == notFoundPage {
			return sourcePageMissing
		}
		return sourcePage
	case sourcePage:
		return sourcePageUnreadable
	}
	return prev
}

// inlineBody returns the fixed content type and body of an inline source.
func (s notFoundSource) inlineBody() (string, []byte, bool) {
	switch s {
	case sourcePageUnreadable:
		return contentTypeHTML, []byte(inlinePageUnreadable), true
	case sourcePageMissing:
		return contentTypeHTML, []byte(inlinePageMissing), true
	case sourcePlainText:
		return contentTypePlain, []byte(inlinePlainText), true
	}
	return "", nil, false
}
