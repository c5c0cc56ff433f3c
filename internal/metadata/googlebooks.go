// Package metadata implements clients for the external book-metadata
// providers and the enrichment that fills missing book fields from them.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// BookResult is a single candidate record from a metadata provider.
type BookResult struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	PublishedYear int      `json:"published_year,omitempty"`
	PageCount     int      `json:"page_count,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	ISBN          string   `json:"isbn,omitempty"`
	CoverURL      string   `json:"cover_url,omitempty"`
	Description   string   `json:"description,omitempty"`
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

func (r *rateLimiter) wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	since := time.Since(r.lastCall)
	if since < r.interval {
		time.Sleep(r.interval - since)
	}
	r.lastCall = time.Now()
}

// GoogleBooksClient fetches book metadata from the Google Books volumes API.
type GoogleBooksClient struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rateLimiter
}

// NewGoogleBooksClient creates a new Google Books client with rate limiting.
// An empty baseURL falls back to the public API endpoint.
func NewGoogleBooksClient(baseURL string, timeout time.Duration) *GoogleBooksClient {
	if baseURL == "" {
		baseURL = "https://www.googleapis.com/books/v1"
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &GoogleBooksClient{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		rateLimiter: newRateLimiter(200 * time.Millisecond),
	}
}

// Search runs a raw volumes query and returns up to maxResults candidates.
// Results are restricted to English, matching the library's audience.
func (c *GoogleBooksClient) Search(ctx context.Context, query string, maxResults int) ([]BookResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is required")
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	c.rateLimiter.wait()

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("langRestrict", "en")

	searchURL := fmt.Sprintf("%s/volumes?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search volumes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]BookResult, 0, len(result.Items))
	for i := range result.Items {
		results = append(results, convertVolume(&result.Items[i]))
	}
	return results, nil
}

// SearchByAuthor queries works by an author name.
func (c *GoogleBooksClient) SearchByAuthor(ctx context.Context, author string, maxResults int) ([]BookResult, error) {
	return c.Search(ctx, fmt.Sprintf(`inauthor:"%s"`, author), maxResults)
}

// SearchBySubject queries works in a subject/genre.
func (c *GoogleBooksClient) SearchBySubject(ctx context.Context, subject string, maxResults int) ([]BookResult, error) {
	return c.Search(ctx, fmt.Sprintf(`subject:"%s"`, subject), maxResults)
}

// SearchByISBN looks up a single volume by ISBN, nil when nothing matches.
func (c *GoogleBooksClient) SearchByISBN(ctx context.Context, isbn string) (*BookResult, error) {
	isbn = normalizeISBN(isbn)
	if isbn == "" {
		return nil, fmt.Errorf("invalid ISBN")
	}
	results, err := c.Search(ctx, "isbn:"+isbn, 1)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

// SearchByTitle queries volumes by title, optionally narrowed by author.
func (c *GoogleBooksClient) SearchByTitle(ctx context.Context, title, author string, maxResults int) ([]BookResult, error) {
	query := fmt.Sprintf(`intitle:"%s"`, title)
	if author != "" {
		query += fmt.Sprintf(` inauthor:"%s"`, author)
	}
	return c.Search(ctx, query, maxResults)
}

func convertVolume(item *volumeItem) BookResult {
	info := item.VolumeInfo
	result := BookResult{
		Title:       info.Title,
		Authors:     info.Authors,
		Publisher:   info.Publisher,
		PageCount:   info.PageCount,
		Description: info.Description,
	}

	if info.PublishedDate != "" {
		result.PublishedYear = extractYear(info.PublishedDate)
	}

	// Categories arrive as slash-joined paths ("Fiction / Science Fiction");
	// split them into individual names.
	for _, c := range info.Categories {
		for _, part := range strings.Split(c, "/") {
			if p := strings.TrimSpace(part); p != "" {
				result.Categories = append(result.Categories, p)
			}
		}
	}

	// Prefer ISBN-13, fall back to ISBN-10.
	var isbn10 string
	for _, id := range info.IndustryIdentifiers {
		switch id.Type {
		case "ISBN_13":
			result.ISBN = id.Identifier
		case "ISBN_10":
			isbn10 = id.Identifier
		}
	}
	if result.ISBN == "" {
		result.ISBN = isbn10
	}

	result.CoverURL = pickCoverURL(info.ImageLinks)

	return result
}

// pickCoverURL prefers the larger image sizes and upgrades plain-http
// links to https.
func pickCoverURL(links *imageLinks) string {
	if links == nil {
		return ""
	}
	for _, candidate := range []string{links.Large, links.Medium, links.Thumbnail, links.SmallThumbnail} {
		if candidate != "" {
			return strings.Replace(candidate, "http://", "https://", 1)
		}
	}
	return ""
}

// Google Books API response types (internal)

type volumesResponse struct {
	TotalItems int          `json:"totalItems"`
	Items      []volumeItem `json:"items"`
}

type volumeItem struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title               string               `json:"title"`
	Authors             []string             `json:"authors"`
	Publisher           string               `json:"publisher"`
	PublishedDate       string               `json:"publishedDate"`
	Description         string               `json:"description"`
	PageCount           int                  `json:"pageCount"`
	Categories          []string             `json:"categories"`
	IndustryIdentifiers []industryIdentifier `json:"industryIdentifiers"`
	ImageLinks          *imageLinks          `json:"imageLinks"`
}

type industryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

type imageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
	Medium         string `json:"medium"`
	Large          string `json:"large"`
}
