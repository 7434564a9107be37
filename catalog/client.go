package catalog //import "github.com/hondana-dev/hondana/catalog"

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/hondana-dev/hondana/apperr"
	"github.com/hondana-dev/hondana/model"
	"github.com/hondana-dev/hondana/util"
)

// Client talks to the external book catalog. Requests are rate limited and
// transient failures (429, 5xx, transport errors) retried with exponential
// backoff before a NetworkError surfaces.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
}

func NewClient(baseURL string, rps int, maxRetries int) *Client {
	if rps <= 0 {
		rps = 1
	}
	// At least one attempt, or Search would "succeed" without a request.
	if maxRetries <= 0 {
		maxRetries = 1
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		maxRetries: maxRetries,
	}
}

// searchResponse matches the catalog volumes endpoint.
type searchResponse struct {
	TotalItems int          `json:"totalItems"`
	Items      []searchItem `json:"items"`
}

type searchItem struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title               string   `json:"title"`
	Authors             []string `json:"authors"`
	Publisher           string   `json:"publisher"`
	Description         string   `json:"description"`
	IndustryIdentifiers []struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	} `json:"industryIdentifiers"`
	ImageLinks struct {
		Thumbnail string `json:"thumbnail"`
	} `json:"imageLinks"`
	SeriesInfo struct {
		DisplayNumber string `json:"bookDisplayNumber"`
		SeriesID      string `json:"seriesId"`
	} `json:"seriesInfo"`
	CanonicalVolumeLink string `json:"canonicalVolumeLink"`
}

// Search runs a text query and maps the hits into the catalog-independent
// result shape. Missing title/author/description become explicit "unknown"
// placeholders.
func (c *Client) Search(ctx context.Context, query string) ([]model.BookSearchResult, error) {
	u := fmt.Sprintf("%s/volumes?q=%s", c.baseURL, url.QueryEscape(query))

	var res searchResponse
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}

	results := make([]model.BookSearchResult, 0, len(res.Items))
	for _, item := range res.Items {
		results = append(results, mapSearchItem(item))
	}
	return results, nil
}

func mapSearchItem(item searchItem) model.BookSearchResult {
	info := item.VolumeInfo
	result := model.BookSearchResult{
		ExternalID:  item.ID,
		Title:       model.UnknownTitle,
		Author:      model.UnknownAuthor,
		Publisher:   info.Publisher,
		Description: model.UnknownDescription,
		TargetURL:   info.CanonicalVolumeLink,
	}

	if title := util.SanitizeText(info.Title); title != "" {
		result.Title = title
	}
	if len(info.Authors) > 0 {
		if author := util.SanitizeText(info.Authors[0]); author != "" {
			result.Author = author
		}
	}
	if info.Description != "" {
		result.Description = info.Description
	}
	for _, ident := range info.IndustryIdentifiers {
		if ident.Type == "ISBN_13" || ident.Type == "ISBN_10" {
			isbn := ident.Identifier
			result.ISBN = &isbn
			break
		}
	}
	if info.ImageLinks.Thumbnail != "" {
		thumb := info.ImageLinks.Thumbnail
		result.ImageURL = &thumb
	}
	if info.SeriesInfo.SeriesID != "" {
		seriesID := info.SeriesInfo.SeriesID
		result.SeriesID = &seriesID
	}

	// Volume number from the series display number, falling back to a
	// trailing marker in the title ("Sample Manga 5").
	if n := parseDisplayNumber(info.SeriesInfo.DisplayNumber); n != nil {
		result.Volume = n
	} else if n := util.ParseTrailingVolume(result.Title); n != nil {
		result.Volume = n
	}

	return result
}

func parseDisplayNumber(s string) *int {
	if s == "" {
		return nil
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return nil
		}
		n = n*10 + int(r-'0')
	}
	if n <= 0 {
		return nil
	}
	return &n
}

func (c *Client) get(ctx context.Context, url string, target any) error {
	return util.Retry(ctx, c.maxRetries, time.Second, func() (bool, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return false, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return false, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return true, &apperr.NetworkError{Op: "catalog search", Err: err, Retryable: true}
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return true, &apperr.NetworkError{Op: "catalog search", Err: err, Retryable: true}
			}
			return false, &apperr.NetworkError{Op: "catalog search", Err: err, Retryable: false}
		}

		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return false, err
		}
		return false, nil
	})
}
