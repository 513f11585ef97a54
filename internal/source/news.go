package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/seenimoa/litescan/pkg/models"
)

// DefaultNewsAPIURL is the public NewsAPI v2 base.
const DefaultNewsAPIURL = "https://newsapi.org/v2"

// DefaultNewsFeeds lists crypto news RSS feeds used when no NewsAPI key
// is configured.
var DefaultNewsFeeds = []string{
	"https://cointelegraph.com/rss",
	"https://www.coindesk.com/arc/outboundfeeds/rss/",
	"https://decrypt.co/feed",
}

// News fetches headlines. With an API key it queries NewsAPI; without
// one it falls back to RSS feeds.
type News struct {
	BaseURL string
	APIKey  string
	Query   string
	Feeds   []string
	cache   *Cache
	limiter *RateLimiter
	parser  *gofeed.Parser
}

// NewNews creates a news source searching for the given topic.
func NewNews(query, apiKey string) *News {
	return &News{
		BaseURL: DefaultNewsAPIURL,
		APIKey:  apiKey,
		Query:   query,
		Feeds:   DefaultNewsFeeds,
		cache:   NewCache(10 * time.Minute),
		limiter: NewRateLimiter(2, time.Second),
		parser:  gofeed.NewParser(),
	}
}

// Name returns the source name.
func (n *News) Name() string { return "News" }

// Ping verifies the fallback feed is reachable. NewsAPI has no free
// health endpoint, so a configured key is taken at face value.
func (n *News) Ping(ctx context.Context) error {
	if n.APIKey != "" {
		return nil
	}
	if len(n.Feeds) == 0 {
		return fmt.Errorf("no news feeds configured")
	}
	_, err := n.parser.ParseURLWithContext(n.Feeds[0], ctx)
	return err
}

// --- Raw response types ---

type newsAPIResponse struct {
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
	PublishedAt time.Time `json:"publishedAt"`
}

// --- Public methods ---

// GetHeadlines returns up to limit recent articles matching the topic.
func (n *News) GetHeadlines(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	cacheKey := fmt.Sprintf("news:%s:%d", n.Query, limit)
	if cached, ok := n.cache.Get(cacheKey); ok {
		return cached.([]models.NewsArticle), nil
	}

	var articles []models.NewsArticle
	var err error
	if n.APIKey != "" {
		articles, err = n.fetchNewsAPI(ctx)
	} else {
		articles, err = n.fetchFeeds(ctx)
	}
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}

	n.cache.Set(cacheKey, articles)
	return articles, nil
}

// --- Internal helpers ---

func (n *News) fetchNewsAPI(ctx context.Context) ([]models.NewsArticle, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/everything?q=%s&sortBy=publishedAt&apiKey=%s",
		n.BaseURL, url.QueryEscape(n.Query), url.QueryEscape(n.APIKey))

	var resp newsAPIResponse
	if err := fetchJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("newsapi: %w", err)
	}

	articles := make([]models.NewsArticle, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		articles = append(articles, models.NewsArticle{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
		})
	}
	return articles, nil
}

// fetchFeeds parses the configured RSS feeds, skipping the ones that
// fail, and keeps only items mentioning the topic.
func (n *News) fetchFeeds(ctx context.Context) ([]models.NewsArticle, error) {
	topic := strings.ToLower(n.Query)
	var articles []models.NewsArticle

	for _, feedURL := range n.Feeds {
		if err := n.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		feed, err := n.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			// Non-critical: skip failed feeds.
			continue
		}

		for _, item := range feed.Items {
			summary := cleanHTML(item.Description)
			if topic != "" && !strings.Contains(strings.ToLower(item.Title+" "+summary), topic) {
				continue
			}
			a := models.NewsArticle{
				Title:       item.Title,
				Description: summary,
				URL:         item.Link,
				Source:      feed.Title,
			}
			if item.PublishedParsed != nil {
				a.PublishedAt = *item.PublishedParsed
			}
			articles = append(articles, a)
		}
	}

	sortArticlesByDate(articles)
	return articles, nil
}

// cleanHTML strips HTML tags from a string using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

// sortArticlesByDate sorts articles by published date (newest first).
func sortArticlesByDate(articles []models.NewsArticle) {
	for i := 1; i < len(articles); i++ {
		key := articles[i]
		j := i - 1
		for j >= 0 && articles[j].PublishedAt.Before(key.PublishedAt) {
			articles[j+1] = articles[j]
			j--
		}
		articles[j+1] = key
	}
}
