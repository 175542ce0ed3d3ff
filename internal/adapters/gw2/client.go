// Package gw2 is a minimal client for the Guild Wars 2 v2 API plus the
// third-party emblem renderer. It owns transport only; scoring never
// touches the network.
package gw2

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/albrektsson/gw2-guild-leaderboard/internal/domain/model"
)

// Default endpoints and transport settings.
const (
	defaultBaseURL   = "https://api.guildwars2.com"
	defaultEmblemURL = "https://guilds.gw2w2w.com"
	defaultTimeout   = 15 * time.Second
)

// GuildInfo is the subset of /v2/guild/:id the pipeline keeps.
type GuildInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Tag  string `json:"tag"`
}

// Member is one row of /v2/guild/:id/members.
type Member struct {
	Name   string `json:"name"`
	Rank   string `json:"rank,omitempty"`
	Joined string `json:"joined,omitempty"`
}

// CommercePrice is one row of /v2/commerce/prices.
type CommercePrice struct {
	ID    int `json:"id"`
	Sells struct {
		UnitPrice int `json:"unit_price"`
	} `json:"sells"`
}

// Item is the subset of /v2/items the pricing oracle needs.
type Item struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	VendorValue int    `json:"vendor_value"`
}

// Client calls the GW2 v2 API for a single guild.
type Client struct {
	baseURL    string
	emblemURL  string
	guildID    string
	apiKey     string
	httpClient *http.Client
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimSuffix(u, "/")
		}
	}
}

// WithEmblemBaseURL overrides the emblem renderer base URL.
func WithEmblemBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.emblemURL = strings.TrimSuffix(u, "/")
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient creates a client for one guild. The API key is only required
// for the authenticated guild endpoints (log, members, guild info).
func NewClient(guildID, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		emblemURL:  defaultEmblemURL,
		guildID:    guildID,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Log fetches guild log entries. A positive since is passed as a cursor so
// only entries newer than that id are returned.
func (c *Client) Log(ctx context.Context, since int64) ([]model.LogEntry, error) {
	q := url.Values{}
	if since > 0 {
		q.Set("since", strconv.FormatInt(since, 10))
	}
	var entries []model.LogEntry
	if err := c.get(ctx, "/v2/guild/"+c.guildID+"/log", q, true, &entries); err != nil {
		return nil, fmt.Errorf("fetch guild log: %w", err)
	}
	return entries, nil
}

// Members fetches the current member list.
func (c *Client) Members(ctx context.Context) ([]Member, error) {
	var members []Member
	if err := c.get(ctx, "/v2/guild/"+c.guildID+"/members", nil, true, &members); err != nil {
		return nil, fmt.Errorf("fetch guild members: %w", err)
	}
	return members, nil
}

// Guild fetches guild name and tag.
func (c *Client) Guild(ctx context.Context) (GuildInfo, error) {
	var info GuildInfo
	if err := c.get(ctx, "/v2/guild/"+c.guildID, nil, true, &info); err != nil {
		return GuildInfo{}, fmt.Errorf("fetch guild info: %w", err)
	}
	return info, nil
}

// CommercePrices fetches trading post sell prices for the given item ids.
// The endpoint 404s when none of the ids are tradeable; that is an empty
// result, not an error.
func (c *Client) CommercePrices(ctx context.Context, ids []int) ([]CommercePrice, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := url.Values{"ids": []string{joinIDs(ids)}}
	var prices []CommercePrice
	err := c.get(ctx, "/v2/commerce/prices", q, false, &prices)
	if isStatus(err, http.StatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch commerce prices: %w", err)
	}
	return prices, nil
}

// Items fetches item metadata (names and vendor values) for the given ids.
func (c *Client) Items(ctx context.Context, ids []int) ([]Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := url.Values{"ids": []string{joinIDs(ids)}}
	var items []Item
	err := c.get(ctx, "/v2/items", q, false, &items)
	if isStatus(err, http.StatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch items: %w", err)
	}
	return items, nil
}

// EmblemSVG fetches the guild emblem from the third-party renderer.
func (c *Client) EmblemSVG(ctx context.Context, guildName string) ([]byte, error) {
	u := c.emblemURL + "/guilds/" + url.PathEscape(guildName) + ".svg"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build emblem request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch emblem: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode)
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "svg") {
		return nil, ErrNotSVG
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read emblem body: %w", err)
	}
	return body, nil
}

// get performs one API request and decodes the JSON response into v.
func (c *Client) get(ctx context.Context, path string, q url.Values, auth bool, v any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if auth && c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// joinIDs renders ids as the comma-separated bulk query parameter.
func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
