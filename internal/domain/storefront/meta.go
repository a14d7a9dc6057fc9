package storefront

import "context"

// Metadata keys written by the synchronization. The _sap_ prefix groups them
// away from storefront-native metadata.
const (
	MetaCardCode       = "_sap_card_code"
	MetaDocEntry       = "_sap_doc_entry"
	MetaDocNum         = "_sap_doc_num"
	MetaSyncedAt       = "_sap_synced_at"
	MetaTransactionRef = "_sap_simple_id"
	MetaItemCode       = "_sap_item_code"
	MetaUpdateDate     = "_sap_update_date"
	MetaUpdateTime     = "_sap_update_time"
	MetaSalesUnit      = "_sap_sales_unit"
	MetaStockInStock   = "_sap_stock_in_stock"
	MetaStockOrdered   = "_sap_stock_ordered"
	MetaStockCommitted = "_sap_stock_committed"
	MetaStockAvailable = "_sap_stock_available"
	MetaStockUpdated   = "_sap_stock_updated"

	// CustomFieldMetaPrefix prefixes every persisted ERP user-defined field;
	// the original field name follows lower-cased.
	CustomFieldMetaPrefix = "_sap_"
)

// Option keys used by the synchronization through the OptionStore.
const (
	OptionOrderSyncEnabled     = "sap_order_sync_enabled"
	OptionCustomerSyncEnabled  = "sap_customer_sync_enabled"
	OptionRealtimeStockCheck   = "sap_realtime_stock_check"
	OptionLastProductSync      = "sap_last_product_sync"
	OptionLastCustomerSync     = "sap_last_customer_sync"
	OptionLastStockSync        = "sap_last_stock_sync"
)

// OptionStore is the storefront's key/value configuration store. Sync
// checkpoints and feature toggles live here.
type OptionStore interface {
	// GetOption returns the stored value, or def when the key is unset.
	GetOption(ctx context.Context, key, def string) string

	// SetOption upserts a value.
	SetOption(ctx context.Context, key, value string) error
}
