package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUpstream covers any non-OK answer or transport failure from the
// metadata provider. Calls are never retried.
var ErrUpstream = errors.New("metadata provider request failed")

var movieCategories = map[string]bool{
	"popular":     true,
	"top_rated":   true,
	"upcoming":    true,
	"now_playing": true,
}

var tvCategories = map[string]bool{
	"popular":      true,
	"top_rated":    true,
	"on_the_air":   true,
	"airing_today": true,
}

func IsMovieCategory(c string) bool { return movieCategories[c] }
func IsTVCategory(c string) bool    { return tvCategories[c] }

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func New(apiKey, baseURL string, timeout time.Duration) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dst any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d for %s", ErrUpstream, resp.StatusCode, path)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrUpstream, err)
	}
	return nil
}

func pageQuery(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{"page": []string{fmt.Sprint(page)}}
}

// TrendingMovies fetches the daily trending movie page.
func (c *Client) TrendingMovies(ctx context.Context, page int) (*MoviePage, error) {
	var out MoviePage
	if err := c.get(ctx, "/trending/movie/day", pageQuery(page), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MoviesByCategory fetches one of the provider's fixed movie catalogs
// (popular, top_rated, upcoming, now_playing).
func (c *Client) MoviesByCategory(ctx context.Context, category string, page int) (*MoviePage, error) {
	var out MoviePage
	if err := c.get(ctx, "/movie/"+url.PathEscape(category), pageQuery(page), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*MoviePage, error) {
	q := pageQuery(page)
	q.Set("query", query)
	var out MoviePage
	if err := c.get(ctx, "/search/movie", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MovieByID(ctx context.Context, movieID int64) (*MovieDetails, error) {
	var out MovieDetails
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", movieID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MovieCredits(ctx context.Context, movieID int64) (*Credits, error) {
	var out Credits
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/credits", movieID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SimilarMovies(ctx context.Context, movieID int64) (*MoviePage, error) {
	var out MoviePage
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/similar", movieID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MovieVideos returns the official YouTube trailers for a movie, preferring
// the ones literally titled "official trailer". Falls back to any official
// trailer when none match.
func (c *Client) MovieVideos(ctx context.Context, movieID int64) (*VideoPage, error) {
	var out VideoPage
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/videos", movieID), nil, &out); err != nil {
		return nil, err
	}
	out.Results = filterTrailers(out.Results)
	return &out, nil
}

func filterTrailers(videos []Video) []Video {
	official := make([]Video, 0, len(videos))
	named := make([]Video, 0, len(videos))
	for _, v := range videos {
		if v.Site != "YouTube" || v.Type != "Trailer" || !v.Official {
			continue
		}
		official = append(official, v)
		if strings.Contains(strings.ToLower(v.Name), "official trailer") {
			named = append(named, v)
		}
	}
	if len(named) > 0 {
		return named
	}
	return official
}

// TrendingTV fetches the daily trending TV page.
func (c *Client) TrendingTV(ctx context.Context, page int) (*TVPage, error) {
	var out TVPage
	if err := c.get(ctx, "/trending/tv/day", pageQuery(page), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TVByCategory(ctx context.Context, category string, page int) (*TVPage, error) {
	var out TVPage
	if err := c.get(ctx, "/tv/"+url.PathEscape(category), pageQuery(page), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TVByID(ctx context.Context, seriesID int64) (*TVDetails, error) {
	var out TVDetails
	if err := c.get(ctx, fmt.Sprintf("/tv/%d", seriesID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SimilarTV(ctx context.Context, seriesID int64) (*TVPage, error) {
	var out TVPage
	if err := c.get(ctx, fmt.Sprintf("/tv/%d/similar", seriesID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TVCredits(ctx context.Context, seriesID int64) (*Credits, error) {
	var out Credits
	if err := c.get(ctx, fmt.Sprintf("/tv/%d/credits", seriesID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TVSeason(ctx context.Context, seriesID int64, seasonNumber int) (*Season, error) {
	var out Season
	if err := c.get(ctx, fmt.Sprintf("/tv/%d/season/%d", seriesID, seasonNumber), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TVEpisode(ctx context.Context, seriesID int64, seasonNumber, episodeNumber int) (*Episode, error) {
	var out Episode
	if err := c.get(ctx, fmt.Sprintf("/tv/%d/season/%d/episode/%d", seriesID, seasonNumber, episodeNumber), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
