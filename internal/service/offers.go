package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"tradehub-api/internal/model"
	"tradehub-api/internal/repository"
	"tradehub-api/internal/steam"

	"golang.org/x/sync/errgroup"
)

// Role selects which side of an offer the viewer must be on.
type Role int

const (
	// RoleSeller filters offers listed by the viewer.
	RoleSeller Role = iota
	// RoleBuyer filters offers the viewer is buying.
	RoleBuyer
)

// ErrProviderUnavailable means the snapshot fetch failed and the whole
// reconciliation was aborted. No partial rows are ever returned: item
// resolution for every offer depends on the one snapshot.
var ErrProviderUnavailable = errors.New("inventory provider unavailable")

// noDescriptions is the synthetic entry substituted for an empty
// description list so clients never render a zero-length list.
var noDescriptions = []model.Description{{Type: "html", Value: "No Descriptions"}}

// OfferService joins the offer ledger, the bot inventory snapshot and
// the user directory into per-viewer offer views.
type OfferService struct {
	offers          repository.OfferRepository
	users           repository.UserRepository
	provider        steam.InventoryProvider
	snapshotTimeout time.Duration
}

// NewOfferService creates the reconciliation service.
func NewOfferService(
	offers repository.OfferRepository,
	users repository.UserRepository,
	provider steam.InventoryProvider,
	snapshotTimeout time.Duration,
) *OfferService {
	return &OfferService{
		offers:          offers,
		users:           users,
		provider:        provider,
		snapshotTimeout: snapshotTimeout,
	}
}

// Reconcile returns the viewer's offers for the given role, in ledger
// insertion order, with items resolved against a fresh snapshot and
// the seller's identity attached to every row.
func (s *OfferService) Reconcile(ctx context.Context, viewerID string, role Role) ([]model.OfferView, error) {
	var (
		offers    []model.Offer
		snapshot  []model.InventoryItem
		directory []model.User
	)

	// The three reads are independent; only item resolution depends
	// on the snapshot having returned.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		switch role {
		case RoleBuyer:
			offers, err = s.offers.FindOffersByBuyer(gctx, viewerID)
		default:
			offers, err = s.offers.FindOffersBySeller(gctx, viewerID)
		}
		if err != nil {
			return fmt.Errorf("ledger query failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		sctx, cancel := context.WithTimeout(gctx, s.snapshotTimeout)
		defer cancel()

		var err error
		snapshot, err = s.provider.GetSnapshot(sctx)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		directory, err = s.users.FindAllUsers(gctx)
		if err != nil {
			return fmt.Errorf("directory query failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	snapshot = normalizeSnapshot(snapshot)
	index := model.BuildUserIndex(directory)

	views := make([]model.OfferView, 0, len(offers))
	for _, offer := range offers {
		items := resolveItems(offer.Items, snapshot)
		if len(items) < len(offer.Items) {
			log.Printf("[OfferService] integrity anomaly: offer %s has %d unresolved items",
				offer.ID, len(offer.Items)-len(items))
		}

		view := model.OfferView{
			ID:      offer.ID,
			IsMine:  offer.OwnerID == viewerID,
			IsBuyer: offer.BuyerID == viewerID,
			BuyerID: offer.BuyerID,
			TradeID: offer.TradeID,
			Price:   offer.Price,
			Items:   items,
			Date:    offer.Date,
			Status:  offer.Status,
		}

		// The view surfaces the seller's identity for both roles.
		if owner, ok := index[offer.OwnerID]; ok {
			view.Owner = &owner
		} else {
			log.Printf("[OfferService] integrity anomaly: offer %s references unknown seller %s",
				offer.ID, offer.OwnerID)
		}

		views = append(views, view)
	}

	return views, nil
}

// normalizeSnapshot substitutes the synthetic description entry for
// items the provider delivered without one.
func normalizeSnapshot(items []model.InventoryItem) []model.InventoryItem {
	for i := range items {
		if len(items[i].Descriptions) == 0 {
			items[i].Descriptions = noDescriptions
		}
	}
	return items
}

// resolveItems intersects an offer's stored asset ids with the
// snapshot, in snapshot order. Stale ids are dropped silently; a
// temporarily unresolvable item never fails the offer.
func resolveItems(assetIDs []string, snapshot []model.InventoryItem) []model.InventoryItem {
	wanted := make(map[string]bool, len(assetIDs))
	for _, id := range assetIDs {
		wanted[id] = true
	}

	resolved := make([]model.InventoryItem, 0, len(assetIDs))
	for _, item := range snapshot {
		if wanted[item.AssetID] {
			resolved = append(resolved, item)
		}
	}
	return resolved
}
