package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sapbridge/backend/internal/domain/sap"
	"github.com/sapbridge/backend/internal/domain/storefront"
	"github.com/sapbridge/backend/internal/infrastructure/logger"
)

// retailPriceList is the ERP price list products are priced from.
const retailPriceList = 1

// checkpointLayout formats sync checkpoints; the ERP filters on whole days.
const checkpointLayout = "2006-01-02"

// attributeSpec binds an ERP user-defined field to a display attribute.
// Table names the user table that turns stored codes into display values;
// fields without a table show the raw value.
type attributeSpec struct {
	Field string
	Label string
	Table string
}

// itemAttributes is the display attribute set in declared order.
var itemAttributes = []attributeSpec{
	{Field: "U_Alapanyag", Label: "Alapanyag", Table: "CPH_ALAPANYAG"},
	{Field: "U_Anyagminoseg", Label: "Anyagminőség", Table: "CPH_ANYAGMINOSEG"},
	{Field: "U_Hullamtipus", Label: "Hullámtípus", Table: "CPH_HULLAMTIPUS"},
	{Field: "U_Kivitel", Label: "Kivitel", Table: "CPH_KIVITEL"},
	{Field: "U_ZarasTipus", Label: "Zárás típusa", Table: "CPH_ZARASTIPUS"},
	{Field: "U_PantolasTipusa", Label: "Pántolás típusa", Table: "CPH_PANTTIPUS"},
	{Field: "U_PantszallagTipusa", Label: "Pántszalag típusa", Table: "CPH_PANTSZALAGTIP"},
	{Field: "U_PantolasIranya", Label: "Pántolás iránya", Table: "CPH_PANTIRANY"},
	{Field: "U_Szin", Label: "Szín"},
	{Field: "U_Vastagsag_mm", Label: "Vastagság (mm)"},
	{Field: "U_Vastagsag_my", Label: "Vastagság (my)"},
	{Field: "U_BelsoMeret", Label: "Belső méret (mm)"},
	{Field: "U_KulsoMeret", Label: "Külső méret (mm)"},
	{Field: "U_SzalagSzelesseg", Label: "Szalag szélesség (mm)"},
	{Field: "U_KekercsHosszusag", Label: "Tekercs hosszúság (m)"},
	{Field: "U_FajlagosTomeg", Label: "Fajlagos tömeg (g/m2)"},
}

// ProductSyncer pulls web-flagged items from the ERP into the storefront
// catalog: base fields, price list pricing, stock, category assignment,
// display attributes and the ERP field mirror in metadata.
type ProductSyncer struct {
	items    ItemSource
	catalog  storefront.CatalogStore
	resolver *CategoryResolver
	options  storefront.OptionStore
	journal  storefront.SyncLogStore
	logger   *zap.Logger

	mu     sync.Mutex
	tables map[string]map[string]string
}

// NewProductSyncer creates a ProductSyncer.
func NewProductSyncer(
	items ItemSource,
	catalog storefront.CatalogStore,
	resolver *CategoryResolver,
	options storefront.OptionStore,
	journal storefront.SyncLogStore,
	logger *zap.Logger,
) *ProductSyncer {
	return &ProductSyncer{
		items:    items,
		catalog:  catalog,
		resolver: resolver,
		options:  options,
		journal:  journal,
		logger:   logger,
	}
}

// SyncAll imports every web item updated since the last checkpoint (or all
// of them when since is empty and no checkpoint exists) and advances the
// checkpoint. Per-item failures are collected, not fatal.
func (s *ProductSyncer) SyncAll(ctx context.Context, since string) (*Result, error) {
	if since == "" {
		since = s.options.GetOption(ctx, storefront.OptionLastProductSync, "")
	}

	s.log(ctx, storefront.LogTypeSync, "starting product sync", map[string]any{"since": since})

	if err := s.resolver.Refresh(ctx); err != nil {
		// Products still sync without category assignment.
		s.log(ctx, storefront.LogTypeError, "failed to load hierarchy: "+err.Error(), nil)
	}
	s.loadUserTables(ctx)

	items, err := s.items.WebItems(ctx, since)
	if err != nil {
		s.log(ctx, storefront.LogTypeError, "failed to get items: "+err.Error(), nil)
		return nil, err
	}

	result := newResult(len(items))
	for _, item := range items {
		if err := s.SyncItem(ctx, item); err != nil {
			result.failed(item.ItemCode, err)
			s.log(ctx, storefront.LogTypeError, "failed to sync product "+item.ItemCode+": "+err.Error(), nil)
			continue
		}
		result.synced()
	}

	if err := s.options.SetOption(ctx, storefront.OptionLastProductSync, time.Now().Format(checkpointLayout)); err != nil {
		s.ctxLogger(ctx).Warn("failed to save product sync checkpoint", zap.Error(err))
	}

	s.log(ctx, storefront.LogTypeSync, "product sync completed", map[string]any{
		"total":  result.TotalCount,
		"synced": result.SyncedCount,
		"errors": result.FailedCount,
	})
	return result.finalize(), nil
}

// SyncItem imports one item into the catalog.
func (s *ProductSyncer) SyncItem(ctx context.Context, item sap.Item) error {
	if item.ItemCode == "" {
		return errors.New("item without code")
	}

	id, err := s.catalog.FindBySKU(ctx, item.ItemCode)
	if err != nil && !errors.Is(err, storefront.ErrNotFound) {
		return err
	}

	fields := storefront.ProductFields{
		SKU:  item.ItemCode,
		Name: item.ItemName,
	}
	if price, ok := item.PriceForList(retailPriceList); ok {
		fields.RegularPrice = &price
	}
	if !item.SalesUnitWeight.IsZero() {
		weight := item.SalesUnitWeight
		fields.Weight = &weight
	}

	id, err = s.catalog.Upsert(ctx, id, fields)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", item.ItemCode, err)
	}

	if code := item.HierarchyCode(); code != "" {
		if categoryID, err := s.resolver.Resolve(ctx, code); err != nil {
			s.log(ctx, storefront.LogTypeWarning, "product "+item.ItemCode+" could not be categorized under "+code, nil)
		} else if err := s.catalog.SetCategories(ctx, id, []uuid.UUID{categoryID}); err != nil {
			return fmt.Errorf("categorize %s: %w", item.ItemCode, err)
		}
	}

	available := AvailableStock(item.Warehouses)
	if err := s.catalog.SetStockLevel(ctx, id, available, available > 0); err != nil {
		return fmt.Errorf("set stock %s: %w", item.ItemCode, err)
	}

	if err := s.saveMeta(ctx, id, item); err != nil {
		return fmt.Errorf("save meta %s: %w", item.ItemCode, err)
	}
	if err := s.setAttributes(ctx, id, item); err != nil {
		return fmt.Errorf("set attributes %s: %w", item.ItemCode, err)
	}

	s.log(ctx, storefront.LogTypeProduct, "product synced: "+item.ItemCode, map[string]any{
		"product_id": id.String(),
		"name":       item.ItemName,
	})
	return nil
}

// loadUserTables caches the attribute lookup tables. A table that cannot be
// loaded leaves its attribute values raw.
func (s *ProductSyncer) loadUserTables(ctx context.Context) {
	tables := make(map[string]map[string]string)
	for _, spec := range itemAttributes {
		if spec.Table == "" {
			continue
		}
		if _, done := tables[spec.Table]; done {
			continue
		}
		values, err := s.items.UserTable(ctx, spec.Table)
		if err != nil {
			s.ctxLogger(ctx).Warn("failed to load user table",
				zap.String("table", spec.Table),
				zap.Error(err),
			)
			continue
		}
		tables[spec.Table] = values
	}

	s.mu.Lock()
	s.tables = tables
	s.mu.Unlock()
}

// saveMeta mirrors the ERP-specific fields into product metadata.
func (s *ProductSyncer) saveMeta(ctx context.Context, id uuid.UUID, item sap.Item) error {
	for field, value := range item.CustomFields {
		if value == "" {
			continue
		}
		key := storefront.CustomFieldMetaPrefix + strings.ToLower(field)
		if err := s.catalog.SetMetadata(ctx, id, key, value); err != nil {
			return err
		}
	}

	meta := map[string]string{
		storefront.MetaItemCode:   item.ItemCode,
		storefront.MetaUpdateDate: item.UpdateDate,
		storefront.MetaUpdateTime: item.UpdateTime,
		storefront.MetaSalesUnit:  item.SalesUnit,
	}
	for key, value := range meta {
		if err := s.catalog.SetMetadata(ctx, id, key, value); err != nil {
			return err
		}
	}
	return nil
}

// setAttributes writes the declared display attributes, resolving codes to
// display values through the cached user tables.
func (s *ProductSyncer) setAttributes(ctx context.Context, id uuid.UUID, item sap.Item) error {
	s.mu.Lock()
	tables := s.tables
	s.mu.Unlock()

	var attrs []storefront.ProductAttribute
	position := 0
	for _, spec := range itemAttributes {
		value := item.CustomFields[spec.Field]
		if value == "" {
			continue
		}
		if spec.Table != "" {
			if display, ok := tables[spec.Table][value]; ok {
				value = display
			}
		}
		attrs = append(attrs, storefront.ProductAttribute{
			Name:     spec.Label,
			Value:    value,
			Position: position,
			Visible:  true,
		})
		position++
	}

	if len(attrs) == 0 {
		return nil
	}
	return s.catalog.SetAttributes(ctx, id, attrs)
}

func (s *ProductSyncer) log(ctx context.Context, typ storefront.LogType, message string, logCtx map[string]any) {
	if err := s.journal.Append(ctx, typ, message, logCtx); err != nil {
		s.ctxLogger(ctx).Warn("failed to append sync log", zap.Error(err))
	}
}

// ctxLogger returns the logger attached to ctx by the sync executor, or the
// syncer's own logger when the call did not come through a scheduled run.
func (s *ProductSyncer) ctxLogger(ctx context.Context) *zap.Logger {
	return logger.FromContextOr(ctx, s.logger)
}
