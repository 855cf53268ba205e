package analyzer

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Sentinels returned when a singular field has no usable match.
const (
	NoTitleFound           = "No title found"
	NoMetaDescriptionFound = "No meta description found"
)

const maxH1Samples = 5

var (
	scriptRe = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	tagRe    = regexp.MustCompile(`(?s)<[^>]*>`)
	wordRe   = regexp.MustCompile(`\w+`)
)

// pageTitle returns the first <title> element's inner text, trimmed, and
// whether the page carries a non-empty title at all.
func pageTitle(doc *goquery.Document) (string, bool) {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	return title, title != ""
}

// ExtractTitle returns the page title or the NoTitleFound sentinel.
func ExtractTitle(doc *goquery.Document) string {
	title, ok := pageTitle(doc)
	if !ok {
		return NoTitleFound
	}
	return title
}

// metaDescription returns the content of the first meta element whose name
// attribute equals "description" (case-insensitive) and that carries a
// content attribute, plus whether that content is non-empty.
func metaDescription(doc *goquery.Document) (string, bool) {
	var desc string
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name, _ := s.Attr("name")
		if !strings.EqualFold(name, "description") {
			return true
		}
		content, ok := s.Attr("content")
		if !ok {
			return true
		}
		desc = content
		return false
	})
	return desc, desc != ""
}

// ExtractMetaDescription returns the meta description or the
// NoMetaDescriptionFound sentinel.
func ExtractMetaDescription(doc *goquery.Document) string {
	desc, ok := metaDescription(doc)
	if !ok {
		return NoMetaDescriptionFound
	}
	return desc
}

// AnalyzeHeadings counts h1-h3 elements and samples the inner text of up
// to the first five h1 elements in document order.
func AnalyzeHeadings(doc *goquery.Document) HeadingStats {
	stats := HeadingStats{
		H1Count: doc.Find("h1").Length(),
		H2Count: doc.Find("h2").Length(),
		H3Count: doc.Find("h3").Length(),
		H1Tags:  []string{},
	}

	doc.Find("h1").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= maxH1Samples {
			return false
		}
		stats.H1Tags = append(stats.H1Tags, strings.TrimSpace(s.Text()))
		return true
	})

	return stats
}

// AnalyzeImages counts all img elements. An image has alt text only when
// its alt attribute is present with a non-empty value.
func AnalyzeImages(doc *goquery.Document) ImageStats {
	var stats ImageStats
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		stats.TotalImages++
		if alt, ok := s.Attr("alt"); ok && alt != "" {
			stats.ImagesWithAlt++
		}
	})
	stats.ImagesWithoutAlt = stats.TotalImages - stats.ImagesWithAlt
	return stats
}

// ClassifyLinks resolves every anchor href against the page base URL and
// classifies it as internal when the resolved host matches the base host.
// Hrefs that fail to resolve count toward the total only.
func ClassifyLinks(doc *goquery.Document, base *url.URL) LinkStats {
	var stats LinkStats
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		stats.TotalLinks++

		href, _ := s.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}

		resolved := base.ResolveReference(ref)
		if strings.EqualFold(resolved.Host, base.Host) {
			stats.InternalLinks++
		} else {
			stats.ExternalLinks++
		}
	})
	return stats
}

// CountWords strips script and style blocks, removes the remaining markup,
// and counts maximal runs of word characters.
func CountWords(html string) int {
	text := scriptRe.ReplaceAllString(html, " ")
	text = styleRe.ReplaceAllString(text, " ")
	text = tagRe.ReplaceAllString(text, " ")
	return len(wordRe.FindAllStringIndex(text, -1))
}

// DetectOpenGraph checks the presence, not the content, of the core Open
// Graph meta properties.
func DetectOpenGraph(doc *goquery.Document) OpenGraphStats {
	var stats OpenGraphStats
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		prop, ok := s.Attr("property")
		if !ok {
			return
		}
		switch {
		case strings.EqualFold(prop, "og:title"):
			stats.HasOgTitle = true
		case strings.EqualFold(prop, "og:description"):
			stats.HasOgDescription = true
		case strings.EqualFold(prop, "og:image"):
			stats.HasOgImage = true
		}
	})
	return stats
}

// HasStructuredData reports whether the page embeds JSON-LD or Schema.org
// microdata markup. This is a coarse substring check, not a parser.
func HasStructuredData(html string) bool {
	lower := strings.ToLower(html)
	return strings.Contains(lower, "application/ld+json") ||
		strings.Contains(lower, "itemtype=")
}
