package model

// Description is a single description line attached to an inventory
// item, as delivered by the Steam community inventory endpoint.
type Description struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// InventoryItem is one item from the bot account's inventory snapshot.
// Snapshots are fetched fresh per request and never persisted; AssetID
// is the join key against Offer.Items.
type InventoryItem struct {
	Index        int           `json:"index"`
	AssetID      string        `json:"assetid"`
	Name         string        `json:"name"`
	IconURL      string        `json:"icon_url"`
	Rarity       string        `json:"rarity"`
	Color        string        `json:"color"`
	Descriptions []Description `json:"descriptions"`
}
