package steam

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	v1 "github.com/steamopera/steamsync/internal/api/v1"
	coreerrors "github.com/steamopera/steamsync/internal/core/errors"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	DefaultAPIBaseURL   = "https://api.steampowered.com"
	DefaultStoreBaseURL = "https://store.steampowered.com"

	// GetPlayerSummaries accepts at most 100 ids per call.
	maxSummaryIDs = 100

	maxErrorBody = 512
)

// Config configures a Client.
type Config struct {
	APIKey       string
	APIBaseURL   string
	StoreBaseURL string
	// RequestDelay is the minimum spacing between two requests.
	RequestDelay time.Duration
	Timeout      time.Duration
	CountryCode  string
	Language     string
}

// Client reads player and catalog data from the Steam Web API and store.
// Every method performs a single attempt and classifies failures as
// coreerrors.ErrTransient or coreerrors.ErrPermanent.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	catalog singleflight.Group
}

// NewHTTPClient returns an http.Client with pooling and bounded timeouts.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	transport := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}

// New returns a Client. A nil httpClient uses NewHTTPClient.
func New(cfg Config, httpClient *http.Client) *Client {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.StoreBaseURL == "" {
		cfg.StoreBaseURL = DefaultStoreBaseURL
	}
	if cfg.CountryCode == "" {
		cfg.CountryCode = "us"
	}
	if cfg.Language == "" {
		cfg.Language = "english"
	}
	if httpClient == nil {
		httpClient = NewHTTPClient(cfg.Timeout)
	}

	limit := rate.Inf
	if cfg.RequestDelay > 0 {
		limit = rate.Every(cfg.RequestDelay)
	}

	return &Client{
		cfg:     cfg,
		http:    httpClient,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// FetchProfiles returns the summaries of steamIDs. Ids unknown to Steam are
// simply absent from the result.
func (c *Client) FetchProfiles(ctx context.Context, steamIDs []string) ([]v1.Profile, error) {
	var out []v1.Profile
	for start := 0; start < len(steamIDs); start += maxSummaryIDs {
		end := min(start+maxSummaryIDs, len(steamIDs))

		var resp playerSummariesResponse
		err := c.getJSON(ctx, "fetch_profiles", c.cfg.APIBaseURL+"/ISteamUser/GetPlayerSummaries/v0002/", url.Values{
			"key":      {c.cfg.APIKey},
			"steamids": {strings.Join(steamIDs[start:end], ",")},
		}, &resp)
		if err != nil {
			return nil, err
		}
		for _, p := range resp.Response.Players {
			out = append(out, p.toProfile())
		}
	}
	if len(steamIDs) > 0 && len(out) == 0 {
		return nil, fmt.Errorf("fetch_profiles: no players returned: %w", coreerrors.ErrPermanent)
	}
	return out, nil
}

// FetchFriends returns the friend list of steamID in Steam's order.
// Private profiles answer 401 and classify as permanent.
func (c *Client) FetchFriends(ctx context.Context, steamID string) ([]v1.Friend, error) {
	var resp friendListResponse
	err := c.getJSON(ctx, "fetch_friends", c.cfg.APIBaseURL+"/ISteamUser/GetFriendList/v0001/", url.Values{
		"key":          {c.cfg.APIKey},
		"steamid":      {steamID},
		"relationship": {"friend"},
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.FriendsList == nil {
		return nil, fmt.Errorf("fetch_friends %s: empty payload: %w", steamID, coreerrors.ErrPermanent)
	}

	friends := make([]v1.Friend, 0, len(resp.FriendsList.Friends))
	for _, f := range resp.FriendsList.Friends {
		friends = append(friends, f.toFriend())
	}
	return friends, nil
}

// FetchPlaytime returns the owned games of steamID with accumulated minutes.
func (c *Client) FetchPlaytime(ctx context.Context, steamID string) ([]v1.PlaytimeItem, error) {
	var resp ownedGamesResponse
	err := c.getJSON(ctx, "fetch_playtime", c.cfg.APIBaseURL+"/IPlayerService/GetOwnedGames/v0001/", url.Values{
		"key":                       {c.cfg.APIKey},
		"steamid":                   {steamID},
		"include_played_free_games": {"1"},
		"format":                    {"json"},
	}, &resp)
	if err != nil {
		return nil, err
	}
	// A private library answers {"response":{}}.
	if resp.Response.GameCount == nil {
		return nil, fmt.Errorf("fetch_playtime %s: empty payload: %w", steamID, coreerrors.ErrPermanent)
	}

	items := make([]v1.PlaytimeItem, 0, len(resp.Response.Games))
	for _, g := range resp.Response.Games {
		items = append(items, g.toItem())
	}
	return items, nil
}

// FetchCatalogEntry returns the store page of appID. Concurrent calls for the
// same app share one request.
func (c *Client) FetchCatalogEntry(ctx context.Context, appID string) (*v1.CatalogEntry, error) {
	v, err, _ := c.catalog.Do(appID, func() (interface{}, error) {
		var resp map[string]appDetailsEnvelope
		err := c.getJSON(ctx, "fetch_catalog_entry", c.cfg.StoreBaseURL+"/api/appdetails", url.Values{
			"appids": {appID},
			"cc":     {c.cfg.CountryCode},
			"l":      {c.cfg.Language},
		}, &resp)
		if err != nil {
			return nil, err
		}
		env, ok := resp[appID]
		if !ok || !env.Success || env.Data == nil {
			return nil, fmt.Errorf("fetch_catalog_entry %s: not available: %w", appID, coreerrors.ErrPermanent)
		}
		entry := env.Data.toCatalogEntry(appID)
		return &entry, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*v1.CatalogEntry), nil
}

// getJSON performs one rate-limited GET and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, op, endpoint string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: rate limiter: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w: %w", op, coreerrors.ErrPermanent, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", op, ctxErr)
		}
		return fmt.Errorf("%s: %w: %s", op, coreerrors.ErrTransient, redact(err, c.cfg.APIKey))
	}
	defer resp.Body.Close()

	if err := classifyStatus(op, resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%s: read body: %w: %v", op, coreerrors.ErrTransient, err)
		}
		return fmt.Errorf("%s: decode body: %w: %v", op, coreerrors.ErrPermanent, err)
	}
	return nil
}

// classifyStatus maps a non-2xx status to a source error. Only 429 is worth
// retrying; every other error status is permanent.
func classifyStatus(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	class := coreerrors.ErrPermanent
	if resp.StatusCode == http.StatusTooManyRequests {
		class = coreerrors.ErrTransient
	}

	slog.Debug("[Steam] Non-success response",
		"operation", op,
		"status", resp.StatusCode,
		"body", strings.TrimSpace(string(body)))
	return fmt.Errorf("%s: status %d: %w", op, resp.StatusCode, class)
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// redact keeps the API key out of error messages. url.Error embeds the full URL.
func redact(err error, key string) string {
	msg := err.Error()
	if key == "" {
		return msg
	}
	return strings.ReplaceAll(msg, key, "***")
}
