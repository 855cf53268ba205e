package analyzer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const userAgent = "OpalSEOTool/1.0"

// Analyzer runs the single-page analysis pipeline: URL validation, HTTP
// fetch, metric extraction, recommendation synthesis, result assembly.
// The only state it holds is a pooled HTTP client, so concurrent
// invocations are fully independent.
type Analyzer struct {
	client *http.Client
}

// New returns an Analyzer backed by an HTTP client with connection
// pooling and a 15 second request timeout. The pipeline itself enforces
// no timeout beyond the transport's.
func New() *Analyzer {
	return NewWithClient(&http.Client{
		Timeout: 15 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	})
}

// NewWithClient returns an Analyzer using the given HTTP client. Intended
// for tests and hosts that manage their own transport.
func NewWithClient(client *http.Client) *Analyzer {
	return &Analyzer{client: client}
}

// Analyze runs the full pipeline for the given URL.
func (a *Analyzer) Analyze(url string) (*AnalysisResult, error) {
	return a.AnalyzeWithContext(context.Background(), url)
}

// AnalyzeWithContext runs the full pipeline for the given URL. The context
// covers only the network fetch; all remaining work is CPU-bound and
// non-blocking. Failures are returned as *AnalysisError.
func (a *Analyzer) AnalyzeWithContext(ctx context.Context, rawURL string) (*AnalysisResult, error) {
	base, err := ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}

	page, err := a.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return nil, &AnalysisError{Kind: KindUnexpected, Message: "Failed to parse the page HTML", Cause: err}
	}

	return &AnalysisResult{
		URL:             rawURL,
		StatusCode:      page.StatusCode,
		Title:           ExtractTitle(doc),
		MetaDescription: ExtractMetaDescription(doc),
		Headings:        AnalyzeHeadings(doc),
		Images:          AnalyzeImages(doc),
		Links:           ClassifyLinks(doc, base),
		ContentLength:   len(page.HTML),
		WordCount:       CountWords(page.HTML),
		OpenGraphTags:   DetectOpenGraph(doc),
		StructuredData:  HasStructuredData(page.HTML),
		Recommendations: Recommendations(doc, page.HTML),
	}, nil
}

// fetch performs a single GET request. A non-2xx response is a fetch
// failure, never a successful fetch with an error status. The body is
// decoded best-effort as text.
func (a *Analyzer) fetch(ctx context.Context, url string) (*FetchedPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &AnalysisError{Kind: KindFetchFailed, Message: "Failed to fetch URL", Cause: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &AnalysisError{Kind: KindFetchFailed, Message: "Failed to fetch URL", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &AnalysisError{
			Kind:    KindFetchFailed,
			Message: fmt.Sprintf("Failed to fetch URL: HTTP status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &AnalysisError{Kind: KindFetchFailed, Message: "Failed to read response body", Cause: err}
	}

	return &FetchedPage{HTML: string(body), StatusCode: resp.StatusCode}, nil
}
