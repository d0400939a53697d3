// Package scraper harvests agricultural advisory pages into raw documents
// for the ingest pipeline.
package scraper

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Sundramrai3691/Farm-Guru/internal/models"
)

type Config struct {
	MaxPages       int
	MaxDepth       int
	RequestTimeout time.Duration
	RateLimit      rate.Limit
	UserAgent      string

	// IgnorePatterns are path substrings to skip; AllowedExtensions is the
	// whitelist of URL path suffixes worth fetching.
	IgnorePatterns    []string
	AllowedExtensions []string
}

type Scraper struct {
	config  Config
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

func New(config Config, log *zap.Logger) *Scraper {
	if config.MaxPages == 0 {
		config.MaxPages = 25
	}
	if config.MaxDepth == 0 {
		config.MaxDepth = 2
	}
	if config.RequestTimeout == 0 {
		config.RequestTimeout = 15 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = rate.Limit(1)
	}
	if config.UserAgent == "" {
		config.UserAgent = "farm-guru-ingest/1.0"
	}
	if len(config.IgnorePatterns) == 0 {
		config.IgnorePatterns = []string{"/login", "/signup", "/cart", "/search"}
	}
	if len(config.AllowedExtensions) == 0 {
		config.AllowedExtensions = []string{".html", ".htm", "/", ""}
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Scraper{
		config:  config,
		client:  &http.Client{Timeout: config.RequestTimeout},
		limiter: rate.NewLimiter(config.RateLimit, 1),
		logger:  log,
	}
}

type queueItem struct {
	url   string
	depth int
}

// Harvest crawls from the start URL, staying on the same host, and
// returns one raw document per page with extractable content. Page
// failures are logged and skipped.
func (s *Scraper) Harvest(ctx context.Context, startURL string) ([]models.Document, error) {
	start, err := url.Parse(startURL)
	if err != nil {
		return nil, fmt.Errorf("invalid start URL: %w", err)
	}

	visited := make(map[string]bool)
	queue := []queueItem{{url: start.String(), depth: 0}}
	var docs []models.Document

	for len(queue) > 0 && len(docs) < s.config.MaxPages {
		item := queue[0]
		queue = queue[1:]

		if visited[item.url] {
			continue
		}
		visited[item.url] = true

		if err := s.limiter.Wait(ctx); err != nil {
			return docs, err
		}

		doc, links, err := s.fetchPage(ctx, item.url)
		if err != nil {
			s.logger.Warn("failed to fetch page", zap.String("url", item.url), zap.Error(err))
			continue
		}

		if doc != nil {
			docs = append(docs, *doc)
		}

		if item.depth < s.config.MaxDepth {
			for _, link := range links {
				if s.shouldProcessURL(start, link) && !visited[link] {
					queue = append(queue, queueItem{url: link, depth: item.depth + 1})
				}
			}
		}
	}

	s.logger.Info("harvest complete",
		zap.Int("pages_visited", len(visited)),
		zap.Int("documents", len(docs)))
	return docs, nil
}

func (s *Scraper) fetchPage(ctx context.Context, pageURL string) (*models.Document, []string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("User-Agent", s.config.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	page, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	links := s.extractLinks(page, pageURL)

	title := strings.TrimSpace(page.Find("title").First().Text())
	content := s.extractMainContent(page)
	if content == "" {
		return nil, links, nil
	}

	doc := &models.Document{
		ID:      urlID(pageURL),
		Title:   title,
		Content: content,
		URL:     pageURL,
	}
	return doc, links, nil
}

// extractMainContent prefers semantic content containers and falls back
// to the body, with navigation chrome removed.
func (s *Scraper) extractMainContent(page *goquery.Document) string {
	page.Find("script, style, nav, header, footer, aside").Remove()

	for _, selector := range []string{"main", "article", "[role=main]", ".content", "#content"} {
		if sel := page.Find(selector).First(); sel.Length() > 0 {
			if text := strings.TrimSpace(sel.Text()); text != "" {
				return text
			}
		}
	}
	return strings.TrimSpace(page.Find("body").Text())
}

func (s *Scraper) extractLinks(page *goquery.Document, base string) []string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil
	}

	var links []string
	page.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		resolved, err := baseURL.Parse(href)
		if err != nil {
			return
		}
		resolved.Fragment = ""
		links = append(links, resolved.String())
	})
	return links
}

// shouldProcessURL keeps the crawl on the start host and restricts it to
// content-like paths.
func (s *Scraper) shouldProcessURL(start *url.URL, candidate string) bool {
	u, err := url.Parse(candidate)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if u.Host != start.Host {
		return false
	}

	lower := strings.ToLower(u.Path)
	for _, pattern := range s.config.IgnorePatterns {
		if strings.Contains(lower, pattern) {
			return false
		}
	}

	ext := strings.ToLower(path.Ext(lower))
	for _, allowed := range s.config.AllowedExtensions {
		if ext == allowed {
			return true
		}
		if allowed == "/" && strings.HasSuffix(lower, "/") {
			return true
		}
	}
	return false
}

func urlID(pageURL string) string {
	sum := sha256.Sum256([]byte(pageURL))
	return hex.EncodeToString(sum[:8])
}
