package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sapbridge/backend/internal/domain/sap"
	"github.com/sapbridge/backend/internal/domain/storefront"
	"github.com/sapbridge/backend/internal/infrastructure/logger"
)

// AvailableStock is the sellable quantity across warehouses. Commitments
// are subtracted per warehouse and negative balances do not eat into other
// warehouses' availability.
func AvailableStock(warehouses []sap.WarehouseInfo) int {
	total := decimal.Zero
	for _, wh := range warehouses {
		available := wh.InStock.Sub(wh.Committed)
		if available.IsPositive() {
			total = total.Add(available)
		}
	}
	return int(total.IntPart())
}

// StockSyncer pushes warehouse availability from the ERP into the catalog,
// in bulk and per item for realtime checks.
type StockSyncer struct {
	items   ItemSource
	catalog storefront.CatalogStore
	options storefront.OptionStore
	journal storefront.SyncLogStore
	logger  *zap.Logger
}

// NewStockSyncer creates a StockSyncer.
func NewStockSyncer(
	items ItemSource,
	catalog storefront.CatalogStore,
	options storefront.OptionStore,
	journal storefront.SyncLogStore,
	logger *zap.Logger,
) *StockSyncer {
	return &StockSyncer{
		items:   items,
		catalog: catalog,
		options: options,
		journal: journal,
		logger:  logger,
	}
}

// SyncAll refreshes stock for every web item. Items without a storefront
// product are skipped.
func (s *StockSyncer) SyncAll(ctx context.Context) (*Result, error) {
	s.log(ctx, storefront.LogTypeStock, "starting stock sync", nil)

	items, err := s.items.WebItemsStock(ctx)
	if err != nil {
		s.log(ctx, storefront.LogTypeError, "failed to get stock: "+err.Error(), nil)
		return nil, err
	}

	result := newResult(len(items))
	for _, item := range items {
		err := s.SyncItem(ctx, item.ItemCode, item.Warehouses)
		switch {
		case errors.Is(err, storefront.ErrNotFound):
			result.skipped()
		case err != nil:
			result.failed(item.ItemCode, err)
			s.log(ctx, storefront.LogTypeError, "failed to sync stock for "+item.ItemCode+": "+err.Error(), nil)
		default:
			result.synced()
		}
	}

	if err := s.options.SetOption(ctx, storefront.OptionLastStockSync, time.Now().Format(time.DateTime)); err != nil {
		s.ctxLogger(ctx).Warn("failed to save stock sync checkpoint", zap.Error(err))
	}

	s.log(ctx, storefront.LogTypeStock, "stock sync completed", map[string]any{
		"total":   result.TotalCount,
		"synced":  result.SyncedCount,
		"skipped": result.SkippedCount,
		"errors":  result.FailedCount,
	})
	return result.finalize(), nil
}

// SyncItem writes one item's availability and stock detail metadata.
// Returns ErrNotFound when the item has no storefront product.
func (s *StockSyncer) SyncItem(ctx context.Context, itemCode string, warehouses []sap.WarehouseInfo) error {
	id, err := s.catalog.FindBySKU(ctx, itemCode)
	if err != nil {
		return err
	}

	available := AvailableStock(warehouses)
	if err := s.catalog.SetStockLevel(ctx, id, available, available > 0); err != nil {
		return fmt.Errorf("set stock %s: %w", itemCode, err)
	}
	if err := s.saveStockDetails(ctx, id, warehouses); err != nil {
		return fmt.Errorf("save stock details %s: %w", itemCode, err)
	}

	s.ctxLogger(ctx).Debug("stock updated",
		zap.String("item_code", itemCode),
		zap.Int("available", available),
	)
	return nil
}

// RealtimeAvailable asks the ERP for an item's current availability,
// bypassing the storefront's last-synced figures.
func (s *StockSyncer) RealtimeAvailable(ctx context.Context, itemCode string) (int, error) {
	item, err := s.items.ItemStock(ctx, itemCode)
	if err != nil {
		return 0, err
	}
	return AvailableStock(item.Warehouses), nil
}

// RealtimeCheckEnabled reports whether checkout paths should consult the
// ERP directly.
func (s *StockSyncer) RealtimeCheckEnabled(ctx context.Context) bool {
	return s.options.GetOption(ctx, storefront.OptionRealtimeStockCheck, "no") == "yes"
}

func (s *StockSyncer) saveStockDetails(ctx context.Context, id uuid.UUID, warehouses []sap.WarehouseInfo) error {
	inStock := decimal.Zero
	ordered := decimal.Zero
	committed := decimal.Zero
	for _, wh := range warehouses {
		inStock = inStock.Add(wh.InStock)
		ordered = ordered.Add(wh.Ordered)
		committed = committed.Add(wh.Committed)
	}

	meta := map[string]string{
		storefront.MetaStockInStock:   inStock.String(),
		storefront.MetaStockOrdered:   ordered.String(),
		storefront.MetaStockCommitted: committed.String(),
		storefront.MetaStockAvailable: inStock.Sub(committed).String(),
		storefront.MetaStockUpdated:   time.Now().Format(time.DateTime),
	}
	for key, value := range meta {
		if err := s.catalog.SetMetadata(ctx, id, key, value); err != nil {
			return err
		}
	}
	return nil
}

func (s *StockSyncer) log(ctx context.Context, typ storefront.LogType, message string, logCtx map[string]any) {
	if err := s.journal.Append(ctx, typ, message, logCtx); err != nil {
		s.ctxLogger(ctx).Warn("failed to append sync log", zap.Error(err))
	}
}

// ctxLogger returns the logger attached to ctx by the sync executor, or the
// syncer's own logger when the call did not come through a scheduled run.
func (s *StockSyncer) ctxLogger(ctx context.Context) *zap.Logger {
	return logger.FromContextOr(ctx, s.logger)
}
