// Package collector gathers job postings from the Adzuna search API and
// normalizes them into corpus postings.
package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/jonathan/techcareer-analyzer/internal/corpus"
	"github.com/jonathan/techcareer-analyzer/internal/extract"
)

const (
	defaultBaseURL = "https://api.adzuna.com/v1/api/jobs"
	defaultCountry = "us"
	defaultTimeout = 30 * time.Second

	// SourceName tags every collected posting in storage.
	SourceName = "adzuna"

	resultsPerPage = 50
)

// Config holds Adzuna API credentials and endpoint settings.
type Config struct {
	AppID   string
	AppKey  string
	Country string
	BaseURL string
}

// LoadConfig reads collector credentials from the environment.
func LoadConfig() (Config, error) {
	cfg := Config{
		AppID:   os.Getenv("ADZUNA_APP_ID"),
		AppKey:  os.Getenv("ADZUNA_API_KEY"),
		Country: defaultCountry,
		BaseURL: defaultBaseURL,
	}
	if cfg.AppID == "" || cfg.AppKey == "" {
		return Config{}, fmt.Errorf("ADZUNA_APP_ID and ADZUNA_API_KEY environment variables are required")
	}
	return cfg, nil
}

// Client queries the Adzuna API and tags each posting's skills.
type Client struct {
	cfg       Config
	http      *http.Client
	extractor extract.Extractor
}

// New creates a collector client. The extractor tags skills on each
// collected posting from its title and description.
func New(cfg Config, extractor extract.Extractor) *Client {
	if cfg.Country == "" {
		cfg.Country = defaultCountry
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &Client{
		cfg:       cfg,
		http:      &http.Client{Timeout: defaultTimeout},
		extractor: extractor,
	}
}

// adzunaResponse mirrors the fields of the search API we consume.
type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
}

type adzunaResult struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	SalaryMin   float64 `json:"salary_min"`
	SalaryMax   float64 `json:"salary_max"`
	Created     string  `json:"created"`
	Location    struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
}

// SearchPage fetches one page of search results. Pages are 1-based.
func (c *Client) SearchPage(ctx context.Context, query, location string, page int) ([]corpus.Posting, error) {
	if page < 1 {
		return nil, fmt.Errorf("page must be at least 1, got %d", page)
	}

	params := url.Values{}
	params.Set("app_id", c.cfg.AppID)
	params.Set("app_key", c.cfg.AppKey)
	params.Set("results_per_page", fmt.Sprintf("%d", resultsPerPage))
	params.Set("what", query)
	if location != "" {
		params.Set("where", location)
	}
	params.Set("content-type", "application/json")

	endpoint := fmt.Sprintf("%s/%s/search/%d?%s", c.cfg.BaseURL, c.cfg.Country, page, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("adzuna request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("adzuna returned status %d", resp.StatusCode)
	}

	var body adzunaResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode adzuna response: %w", err)
	}

	postings := make([]corpus.Posting, 0, len(body.Results))
	for _, r := range body.Results {
		p, err := c.mapResult(ctx, r)
		if err != nil {
			continue
		}
		postings = append(postings, p)
	}
	return postings, nil
}

// Collect fetches up to maxPages of results and concatenates them. A short
// page ends collection early.
func (c *Client) Collect(ctx context.Context, query, location string, maxPages int) ([]corpus.Posting, error) {
	var all []corpus.Posting
	for page := 1; page <= maxPages; page++ {
		postings, err := c.SearchPage(ctx, query, location, page)
		if err != nil {
			if len(all) > 0 {
				return all, nil
			}
			return nil, err
		}
		all = append(all, postings...)
		if len(postings) < resultsPerPage {
			break
		}
	}
	return all, nil
}

// mapResult converts one API result into a posting. Posting IDs are derived
// from the Adzuna ID so re-collecting the same posting never duplicates it.
func (c *Client) mapResult(ctx context.Context, r adzunaResult) (corpus.Posting, error) {
	if r.Title == "" {
		return corpus.Posting{}, fmt.Errorf("result %s has no title", r.ID)
	}

	postedAt, err := time.Parse(time.RFC3339, r.Created)
	if err != nil {
		postedAt = time.Now().UTC()
	}

	description := StripHTML(r.Description)
	skills, err := c.extractor.Extract(ctx, r.Title+"\n"+description)
	if err != nil {
		return corpus.Posting{}, fmt.Errorf("failed to tag skills for %s: %w", r.ID, err)
	}
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.Name)
	}

	salary := 0.0
	if r.SalaryMin > 0 || r.SalaryMax > 0 {
		salary = (r.SalaryMin + r.SalaryMax) / 2
		if r.SalaryMin == 0 {
			salary = r.SalaryMax
		} else if r.SalaryMax == 0 {
			salary = r.SalaryMin
		}
	}

	return corpus.Posting{
		ID:       uuid.NewSHA1(uuid.NameSpaceURL, []byte(SourceName+":"+r.ID)),
		RoleName: r.Title,
		Skills:   names,
		Salary:   salary,
		Location: r.Location.DisplayName,
		PostedAt: postedAt.UTC(),
		Source:   SourceName,
	}, nil
}

// StripHTML flattens posting descriptions to plain text. Adzuna descriptions
// arrive as HTML fragments.
func StripHTML(html string) string {
	if html == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	doc.Find("script, style, noscript").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}
