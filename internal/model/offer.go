package model

// Offer status values. The status is assigned by the trade lifecycle
// subsystem and must round-trip through this API unchanged; the
// constants exist for readability, not validation.
const (
	OfferStatusPending   = 0
	OfferStatusActive    = 1
	OfferStatusCompleted = 2
	OfferStatusCancelled = 3
)

// Offer is a ledger record for a marketplace trade offer.
// Items holds asset ids referencing the bot inventory snapshot; the
// snapshot owns the items, the offer only references them.
type Offer struct {
	ID      string   `json:"id" bson:"id"`
	TradeID string   `json:"trade_id" bson:"trade_id"`
	OwnerID string   `json:"owner_id" bson:"owner_id"`
	BuyerID string   `json:"buyer_id" bson:"buyer_id"`
	Items   []string `json:"items" bson:"items"`
	Price   int64    `json:"price" bson:"price"`
	Date    string   `json:"date" bson:"date"`
	Status  int      `json:"status" bson:"status"`
}
