package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"tradehub-api/internal/model"
)

// InventoryProvider returns the bot account's current inventory.
// Every reconciliation fetches a fresh snapshot; implementations must
// not cache across calls. A failed or indeterminate fetch is an error,
// never a partial snapshot.
type InventoryProvider interface {
	GetSnapshot(ctx context.Context) ([]model.InventoryItem, error)
}

const (
	communityBaseURL = "https://steamcommunity.com"
	iconBaseURL      = "https://community.akamai.steamstatic.com/economy/image/"
)

// InventoryClient fetches the bot account's public inventory from the
// Steam community endpoint. The bot session lifecycle (login, 2FA,
// cookies) lives outside this process boundary; only the snapshot
// read crosses it.
type InventoryClient struct {
	httpClient *http.Client
	baseURL    string
	botSteamID string
	appID      int
	contextID  int
}

// NewInventoryClient creates a snapshot client for the given bot
// account and game app/context.
func NewInventoryClient(botSteamID string, appID, contextID int) *InventoryClient {
	return &InventoryClient{
		httpClient: newHTTPClient(),
		baseURL:    communityBaseURL,
		botSteamID: botSteamID,
		appID:      appID,
		contextID:  contextID,
	}
}

// inventoryResponse mirrors the community inventory endpoint payload.
type inventoryResponse struct {
	Assets []struct {
		AssetID    string `json:"assetid"`
		ClassID    string `json:"classid"`
		InstanceID string `json:"instanceid"`
	} `json:"assets"`
	Descriptions []itemDescription `json:"descriptions"`
	Success      int               `json:"success"`
}

type itemDescription struct {
	ClassID      string `json:"classid"`
	InstanceID   string `json:"instanceid"`
	MarketName   string `json:"market_name"`
	IconURL      string `json:"icon_url"`
	Descriptions []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"descriptions"`
	Tags []struct {
		Name  string `json:"localized_tag_name"`
		Color string `json:"color"`
	} `json:"tags"`
}

// GetSnapshot fetches and decodes the full current inventory.
func (c *InventoryClient) GetSnapshot(ctx context.Context) ([]model.InventoryItem, error) {
	url := fmt.Sprintf("%s/inventory/%s/%d/%d?l=english&count=5000",
		c.baseURL, c.botSteamID, c.appID, c.contextID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build inventory request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inventory fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inventory fetch returned status %d", resp.StatusCode)
	}

	var payload inventoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode inventory: %w", err)
	}
	if payload.Success != 1 {
		return nil, fmt.Errorf("inventory endpoint reported failure (success=%d)", payload.Success)
	}

	// Descriptions are keyed by classid+instanceid, shared across assets.
	descIndex := make(map[string]*itemDescription, len(payload.Descriptions))
	for i := range payload.Descriptions {
		d := &payload.Descriptions[i]
		descIndex[d.ClassID+"_"+d.InstanceID] = d
	}

	items := make([]model.InventoryItem, 0, len(payload.Assets))
	for i, asset := range payload.Assets {
		desc, ok := descIndex[asset.ClassID+"_"+asset.InstanceID]
		if !ok {
			// An asset without a description cannot be displayed;
			// skip it rather than fail the snapshot.
			continue
		}

		item := model.InventoryItem{
			Index:   i + 1,
			AssetID: asset.AssetID,
			Name:    desc.MarketName,
			IconURL: iconBaseURL + desc.IconURL + "/200x200",
		}

		// The second classification tag carries the rarity label.
		if len(desc.Tags) > 1 {
			item.Rarity = desc.Tags[1].Name
			item.Color = desc.Tags[1].Color
		}

		for _, d := range desc.Descriptions {
			item.Descriptions = append(item.Descriptions, model.Description{
				Type:  d.Type,
				Value: d.Value,
			})
		}

		items = append(items, item)
	}

	return items, nil
}
