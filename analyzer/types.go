package analyzer

// AnalysisResult is the complete on-page SEO report for a single URL.
type AnalysisResult struct {
	URL             string         `json:"url"`
	StatusCode      int            `json:"statusCode"`
	Title           string         `json:"title"`
	MetaDescription string         `json:"metaDescription"`
	Headings        HeadingStats   `json:"headings"`
	Images          ImageStats     `json:"images"`
	Links           LinkStats      `json:"links"`
	ContentLength   int            `json:"contentLength"`
	WordCount       int            `json:"wordCount"`
	OpenGraphTags   OpenGraphStats `json:"openGraphTags"`
	StructuredData  bool           `json:"structuredData"`
	Recommendations []string       `json:"recommendations"`
}

// HeadingStats covers the h1-h3 structure of the page. H1Tags holds the
// inner text of up to the first five h1 elements in document order.
type HeadingStats struct {
	H1Count int      `json:"h1Count"`
	H2Count int      `json:"h2Count"`
	H3Count int      `json:"h3Count"`
	H1Tags  []string `json:"h1Tags"`
}

// ImageStats counts images and their alt-text coverage.
// ImagesWithAlt + ImagesWithoutAlt always equals TotalImages.
type ImageStats struct {
	TotalImages      int `json:"totalImages"`
	ImagesWithAlt    int `json:"imagesWithAlt"`
	ImagesWithoutAlt int `json:"imagesWithoutAlt"`
}

// LinkStats classifies anchors by resolved host. Hrefs that fail to
// resolve count toward TotalLinks only, so
// InternalLinks + ExternalLinks <= TotalLinks.
type LinkStats struct {
	TotalLinks    int `json:"totalLinks"`
	InternalLinks int `json:"internalLinks"`
	ExternalLinks int `json:"externalLinks"`
}

// OpenGraphStats records the presence of the core Open Graph meta
// properties used by social platforms for link previews.
type OpenGraphStats struct {
	HasOgTitle       bool `json:"hasOgTitle"`
	HasOgDescription bool `json:"hasOgDescription"`
	HasOgImage       bool `json:"hasOgImage"`
}

// FetchedPage is the raw outcome of a successful page fetch, scoped to a
// single invocation.
type FetchedPage struct {
	HTML       string
	StatusCode int
}

// ErrorResult is the failure half of the operation's result union. Exactly
// one of AnalysisResult or ErrorResult is produced per invocation.
type ErrorResult struct {
	Error string `json:"error"`
}
