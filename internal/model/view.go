package model

// OfferView is the per-viewer row produced by reconciliation.
// IsMine and IsBuyer are computed independently; both are true when
// the viewer is on both sides of the offer. Owner always carries the
// seller's identity regardless of viewer role, and is omitted when the
// seller is missing from the directory.
type OfferView struct {
	ID      string          `json:"id"`
	IsMine  bool            `json:"is_mine"`
	IsBuyer bool            `json:"is_buyer"`
	Owner   *PublicIdentity `json:"owner,omitempty"`
	BuyerID string          `json:"buyer_id"`
	TradeID string          `json:"trade_id"`
	Price   int64           `json:"price"`
	Items   []InventoryItem `json:"items"`
	Date    string          `json:"date"`
	Status  int             `json:"status"`
}

// Profile is the authenticated viewer's own account view.
type Profile struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Credit int64  `json:"credit"`
}
