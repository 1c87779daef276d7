package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const webAPIBaseURL = "https://api.steampowered.com"

// PlayerSummary is the public identity Steam reports for an account.
type PlayerSummary struct {
	SteamID string `json:"steamid"`
	Name    string `json:"personaname"`
	Avatar  string `json:"avatarmedium"`
}

// PlayerSummaryClient fetches public identities from the Steam Web
// API. Used by the login callback to refresh name/avatar after the
// OpenID handshake has verified the account id.
type PlayerSummaryClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewPlayerSummaryClient creates a client for the given Web API key.
func NewPlayerSummaryClient(apiKey string) *PlayerSummaryClient {
	return &PlayerSummaryClient{
		httpClient: newHTTPClient(),
		baseURL:    webAPIBaseURL,
		apiKey:     apiKey,
	}
}

// GetPlayerSummary returns the summary for one account, or an error
// when the account is unknown.
func (c *PlayerSummaryClient) GetPlayerSummary(ctx context.Context, steamID string) (*PlayerSummary, error) {
	endpoint := fmt.Sprintf("%s/ISteamUser/GetPlayerSummaries/v2/?key=%s&steamids=%s",
		c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(steamID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build summary request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("summary fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("summary fetch returned status %d", resp.StatusCode)
	}

	var payload struct {
		Response struct {
			Players []PlayerSummary `json:"players"`
		} `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode summary: %w", err)
	}

	if len(payload.Response.Players) == 0 {
		return nil, fmt.Errorf("no summary for steamid %s", steamID)
	}
	return &payload.Response.Players[0], nil
}
