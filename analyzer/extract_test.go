package analyzer

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "uppercase tag with padding",
			html: "<TITLE>  Hello  </TITLE>",
			want: "Hello",
		},
		{
			name: "title spanning line breaks",
			html: "<title>\n  Multi\nLine Title\n</title>",
			want: "Multi\nLine Title",
		},
		{
			name: "first occurrence wins",
			html: "<title>First</title><title>Second</title>",
			want: "First",
		},
		{
			name: "missing title",
			html: "<html><body><p>no head</p></body></html>",
			want: NoTitleFound,
		},
		{
			name: "empty title",
			html: "<title>   </title>",
			want: NoTitleFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTitle(mustDoc(t, tt.html)))
		})
	}
}

func TestExtractMetaDescription(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "double quotes",
			html: `<meta name="description" content="A fine page">`,
			want: "A fine page",
		},
		{
			name: "single quotes",
			html: `<meta name='description' content='Single quoted'>`,
			want: "Single quoted",
		},
		{
			name: "case-insensitive attribute value",
			html: `<META NAME="Description" CONTENT="Mixed case">`,
			want: "Mixed case",
		},
		{
			name: "other meta tags ignored",
			html: `<meta name="keywords" content="a,b"><meta name="description" content="Found it">`,
			want: "Found it",
		},
		{
			name: "missing description",
			html: `<meta name="keywords" content="a,b">`,
			want: NoMetaDescriptionFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractMetaDescription(mustDoc(t, tt.html)))
		})
	}
}

func TestAnalyzeHeadings(t *testing.T) {
	html := `<body>
		<h1 class="hero">  First  </h1>
		<h2>Sub one</h2>
		<h1>Second</h1>
		<h3>Deep</h3>
		<h2>Sub two</h2>
	</body>`

	stats := AnalyzeHeadings(mustDoc(t, html))

	assert.Equal(t, 2, stats.H1Count)
	assert.Equal(t, 2, stats.H2Count)
	assert.Equal(t, 1, stats.H3Count)
	assert.Equal(t, []string{"First", "Second"}, stats.H1Tags)
}

func TestAnalyzeHeadingsCapsH1Samples(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 8; i++ {
		sb.WriteString("<h1>again</h1>")
	}

	stats := AnalyzeHeadings(mustDoc(t, sb.String()))

	assert.Equal(t, 8, stats.H1Count)
	assert.Len(t, stats.H1Tags, 5)
}

func TestAnalyzeImages(t *testing.T) {
	html := `<body>
		<img src="a.png" alt="described">
		<img src="b.png" alt="">
		<img src="c.png">
	</body>`

	stats := AnalyzeImages(mustDoc(t, html))

	assert.Equal(t, 3, stats.TotalImages)
	assert.Equal(t, 1, stats.ImagesWithAlt)
	assert.Equal(t, 2, stats.ImagesWithoutAlt)
	assert.Equal(t, stats.TotalImages, stats.ImagesWithAlt+stats.ImagesWithoutAlt)
}

func TestClassifyLinks(t *testing.T) {
	base, err := url.Parse("https://example.com/articles/")
	require.NoError(t, err)

	html := `<body>
		<a href="/about">About</a>
		<a href="relative-page">Relative</a>
		<a href="https://other.com/page">Elsewhere</a>
		<a href="HTTPS://EXAMPLE.COM/upper">Shouty</a>
		<a href="://broken">Bad</a>
	</body>`

	stats := ClassifyLinks(mustDoc(t, html), base)

	assert.Equal(t, 5, stats.TotalLinks)
	assert.Equal(t, 3, stats.InternalLinks)
	assert.Equal(t, 1, stats.ExternalLinks)
	assert.LessOrEqual(t, stats.InternalLinks+stats.ExternalLinks, stats.TotalLinks)
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		name string
		html string
		want int
	}{
		{
			name: "script content excluded",
			html: "<script>alert(1)</script><p>hello world</p>",
			want: 2,
		},
		{
			name: "style content excluded",
			html: "<style>body { color: red }</style><p>one two three</p>",
			want: 3,
		},
		{
			name: "case-insensitive multiline blocks",
			html: "<SCRIPT>\nvar x = 1;\n</SCRIPT><div>counted words here</div>",
			want: 3,
		},
		{
			name: "tags stripped",
			html: "<div>split<span>words</span>apart</div>",
			want: 3,
		},
		{
			name: "empty page",
			html: "",
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountWords(tt.html))
		})
	}
}

func TestDetectOpenGraph(t *testing.T) {
	html := `<head>
		<meta property="og:title" content="A Title">
		<meta property="OG:IMAGE" content="https://example.com/img.png">
		<meta property="og:type" content="article">
	</head>`

	stats := DetectOpenGraph(mustDoc(t, html))

	assert.True(t, stats.HasOgTitle)
	assert.False(t, stats.HasOgDescription)
	assert.True(t, stats.HasOgImage)
}

func TestHasStructuredData(t *testing.T) {
	assert.True(t, HasStructuredData(`<script type="application/ld+json">{}</script>`))
	assert.True(t, HasStructuredData(`<div itemscope itemtype="https://schema.org/Person">`))
	assert.True(t, HasStructuredData(`<SCRIPT TYPE="APPLICATION/LD+JSON">{}</SCRIPT>`))
	assert.False(t, HasStructuredData(`<p>plain page</p>`))
}
