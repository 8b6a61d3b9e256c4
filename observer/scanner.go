package observer

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// ProcessedAttr marks an <img> that has already been looked at.
const ProcessedAttr = "data-processed"

type Fetcher interface {
	FetchAltText(ctx context.Context, file string) (string, error)
}

// Scanner fills blank alt attributes of <img> elements through a Fetcher.
// Each image is looked at once; fetches run independently of each other.
type Scanner struct {
	fetcher Fetcher
	logger  *zap.Logger

	// mu guards the document: fetch goroutines write alt attributes concurrently.
	mu sync.Mutex
	wg sync.WaitGroup
}

func NewScanner(fetcher Fetcher, logger *zap.Logger) *Scanner {
	return &Scanner{fetcher: fetcher, logger: logger}
}

// Scan marks every unprocessed <img> under root and starts one fetch per
// image with a blank alt. It returns the number of fetches started.
func (s *Scanner) Scan(ctx context.Context, root *goquery.Selection) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	started := 0
	root.Find("img").Each(func(_ int, img *goquery.Selection) {
		if _, done := img.Attr(ProcessedAttr); done {
			return
		}
		img.SetAttr(ProcessedAttr, "true")

		alt, _ := img.Attr("alt")
		if strings.TrimSpace(alt) != "" {
			return
		}
		src, _ := img.Attr("src")
		file := FileName(src)
		if file == "" {
			return
		}

		started++
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.fetch(ctx, img, file)
		}()
	})
	return started
}

func (s *Scanner) fetch(ctx context.Context, img *goquery.Selection, file string) {
	text, err := s.fetcher.FetchAltText(ctx, file)
	if err != nil {
		s.logger.Error("Error fetching alt text", zap.String("file", file), zap.Error(err))
		return
	}

	s.mu.Lock()
	img.SetAttr("alt", text)
	s.mu.Unlock()
}

// Wait blocks until every started fetch has finished.
func (s *Scanner) Wait() {
	s.wg.Wait()
}

// Do runs fn while holding the document lock, for callers that change the tree.
func (s *Scanner) Do(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// FileName returns the final path segment of an image src.
func FileName(src string) string {
	p := src
	if u, err := url.Parse(src); err == nil {
		p = u.Path
	}
	return p[strings.LastIndex(p, "/")+1:]
}
