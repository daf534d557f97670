package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/olehsv/kinobot/internal/config"
	"github.com/olehsv/kinobot/internal/domain"
)

// movieSites is the allow-list of trusted movie/anime domains. Results from
// anywhere else are discarded. Policy data, not logic.
var movieSites = []string{
	"imdb.com", "myanimelist.net", "anidb.net", "anime-planet.com",
	"anilist.co", "animego.org", "shikimori.one", "anime-news-network.com",
	"kinoukr.com", "film.ua", "kino-teatr.ua", "novyny.live", "telekritika.ua",
}

// blockedDomains are substrings that disqualify a link even when an allowed
// site appears elsewhere in the URL.
var blockedDomains = []string{
	"pinterest.", "facebook.com", "tiktok.com", "vk.com",
}

type SearchResult struct {
	Title   string
	Link    string
	Snippet string
}

// SearchService queries Google Custom Search for movie-intent messages and
// keeps only results from trusted domains.
type SearchService struct {
	client   *resty.Client
	apiKey   string
	engineID string
}

func NewSearchService(apiKey, engineID string) *SearchService {
	client := resty.New().
		SetBaseURL("https://www.googleapis.com/customsearch/v1").
		SetTimeout(config.SearchTimeout)
	return &SearchService{client: client, apiKey: apiKey, engineID: engineID}
}

// SetBaseURL overrides the API endpoint, for tests.
func (s *SearchService) SetBaseURL(url string) {
	s.client.SetBaseURL(url)
}

// Enabled reports whether search credentials were configured. Without them
// movie replies simply skip the search section.
func (s *SearchService) Enabled() bool {
	return s.apiKey != "" && s.engineID != ""
}

type searchResponse struct {
	Items []struct {
		Title       string `json:"title"`
		Link        string `json:"link"`
		Snippet     string `json:"snippet"`
		HTMLSnippet string `json:"htmlSnippet"`
	} `json:"items"`
}

// Search runs the query restricted to the trusted sites and returns up to
// limit filtered results.
func (s *SearchService) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	sites := make([]string, len(movieSites))
	for i, site := range movieSites {
		sites[i] = "site:" + site
	}
	scoped := fmt.Sprintf("%s (%s)", query, strings.Join(sites, " OR "))

	var result searchResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":   scoped,
			"key": s.apiKey,
			"cx":  s.engineID,
		}).
		SetResult(&result).
		Get("")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: search status %d", domain.ErrBackendUnavailable, resp.StatusCode())
	}

	results := make([]SearchResult, 0, limit)
	for _, item := range result.Items {
		if !allowedLink(item.Link) {
			continue
		}
		snippet := item.Snippet
		if item.HTMLSnippet != "" {
			snippet = stripMarkup(item.HTMLSnippet)
		}
		results = append(results, SearchResult{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: snippet,
		})
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}

func allowedLink(link string) bool {
	for _, blocked := range blockedDomains {
		if strings.Contains(link, blocked) {
			return false
		}
	}
	for _, site := range movieSites {
		if strings.Contains(link, site) {
			return true
		}
	}
	return false
}

// stripMarkup flattens the highlighted HTML snippet Google returns into
// plain text.
func stripMarkup(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	return strings.TrimSpace(doc.Text())
}

var nonQueryChars = regexp.MustCompile(`[^a-zA-Zа-яА-ЯіїєґІЇЄҐ0-9\s]`)

// MovieSearchQuery strips punctuation from the combined query and appends
// domain terms that steer the engine toward film pages.
func MovieSearchQuery(fullQuery string) string {
	clean := nonQueryChars.ReplaceAllString(fullQuery, "")
	return strings.TrimSpace(clean) + " фільм серіал аніме опис сюжету"
}

// FormatResults renders search results for the reply footer.
func FormatResults(results []SearchResult) string {
	if len(results) == 0 {
		return "🔍 Нічого не знайдено на кіно-сайтах 😔"
	}
	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, r.Title+"\n"+r.Link)
	}
	return strings.Join(parts, "\n\n")
}
