package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"sebodigital/internal/catalog"
)

// ISBNClient resolves book metadata from an Open Library compatible API.
type ISBNClient struct {
	baseURL string
	http    *http.Client
}

func NewISBNClient(baseURL string, timeout time.Duration) *ISBNClient {
	return &ISBNClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Lookup fetches metadata for the given ISBN.
func (c *ISBNClient) Lookup(ctx context.Context, isbn string) (*catalog.Metadata, error) {
	url := fmt.Sprintf("%s/isbn/%s.json", c.baseURL, isbn)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("isbn %s not found", isbn)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var payload struct {
		Title   string `json:"title"`
		Authors []struct {
			Name string `json:"name"`
		} `json:"authors"`
		Publishers    []string `json:"publishers"`
		PublishDate   string   `json:"publish_date"`
		NumberOfPages int      `json:"number_of_pages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	meta := &catalog.Metadata{
		ISBN:  isbn,
		Title: payload.Title,
		Pages: payload.NumberOfPages,
	}
	if len(payload.Authors) > 0 {
		names := make([]string, 0, len(payload.Authors))
		for _, a := range payload.Authors {
			names = append(names, a.Name)
		}
		meta.Author = strings.Join(names, ", ")
	}
	if len(payload.Publishers) > 0 {
		meta.Publisher = payload.Publishers[0]
	}
	if year := parseYear(payload.PublishDate); year > 0 {
		meta.PublishedYear = year
	}
	return meta, nil
}

// parseYear pulls a four-digit year out of loosely formatted publish dates
// like "1998", "May 1998" or "1998-05-01".
func parseYear(s string) int {
	for i := 0; i+4 <= len(s); i++ {
		year := 0
		ok := true
		for _, r := range s[i : i+4] {
			if r < '0' || r > '9' {
				ok = false
				break
			}
			year = year*10 + int(r-'0')
		}
		if ok && year >= 1000 && year <= 2999 {
			if i+4 == len(s) || s[i+4] < '0' || s[i+4] > '9' {
				return year
			}
		}
	}
	return 0
}
