package analyzer

import (
	"net/url"
	"strings"
)

const invalidURLMessage = "Invalid URL format"

// ValidateURL checks that raw parses as an absolute http(s) URL with a
// resolved host and returns the parsed form. No network access happens
// here; all downstream link classification compares against the returned
// URL's host.
func ValidateURL(raw string) (*url.URL, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, &AnalysisError{Kind: KindInvalidURL, Message: invalidURLMessage, Cause: err}
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, &AnalysisError{Kind: KindInvalidURL, Message: invalidURLMessage}
	}
	if parsed.Host == "" {
		return nil, &AnalysisError{Kind: KindInvalidURL, Message: invalidURLMessage}
	}

	return parsed, nil
}
