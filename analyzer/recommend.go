package analyzer

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

const (
	titleMinLength       = 30
	titleMaxLength       = 60
	descriptionMaxLength = 160
)

const noIssuesMessage = "Great! No major SEO issues detected."

// Recommendations evaluates a flat rule list in a fixed order against the
// parsed document and raw HTML. Each rule appends at most one message; the
// title and H1 rules are mutually exclusive internally (first truthy
// branch wins). The output is deterministic for identical HTML.
func Recommendations(doc *goquery.Document, html string) []string {
	var recs []string

	title, hasTitle := pageTitle(doc)
	switch {
	case !hasTitle:
		recs = append(recs, "Add a title tag to your page")
	case len(title) > titleMaxLength:
		recs = append(recs, "Title tag is too long (should be 30-60 characters)")
	case len(title) < titleMinLength:
		recs = append(recs, "Title tag is too short (should be 30-60 characters)")
	}

	desc, hasDesc := metaDescription(doc)
	if !hasDesc {
		recs = append(recs, "Add a meta description")
	} else if len(desc) > descriptionMaxLength {
		recs = append(recs, "Meta description is too long (should be under 160 characters)")
	}

	h1Count := doc.Find("h1").Length()
	if h1Count == 0 {
		recs = append(recs, "Add an H1 heading")
	} else if h1Count > 1 {
		recs = append(recs, "Multiple H1 headings found - consider using only one")
	}

	if images := AnalyzeImages(doc); images.ImagesWithoutAlt > 0 {
		recs = append(recs, fmt.Sprintf("Add alt text to %d image(s) missing it", images.ImagesWithoutAlt))
	}

	if !HasStructuredData(html) {
		recs = append(recs, "Add structured data (JSON-LD or Schema.org markup) to help search engines understand your content")
	}

	if len(recs) == 0 {
		recs = append(recs, noIssuesMessage)
	}

	return recs
}
