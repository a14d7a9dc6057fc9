package dto

import "time"

// TriggerSyncRequest carries the optional incremental cutoff for a manually
// triggered sync run. Since is a plain date, matching the UpdateDate filter
// the Service Layer queries use.
type TriggerSyncRequest struct {
	Since string `json:"since" binding:"omitempty,datetime=2006-01-02"`
}

// TriggerSyncResponse acknowledges a queued sync job.
type TriggerSyncResponse struct {
	JobType string `json:"job_type"`
	Since   string `json:"since,omitempty"`
	Queued  bool   `json:"queued"`
}

// OrderSyncResponse reports the document created for one storefront order.
type OrderSyncResponse struct {
	OrderID  string `json:"order_id"`
	DocEntry int    `json:"doc_entry"`
}

// TransactionRefRequest updates the payment gateway reference on a synced
// order document.
type TransactionRefRequest struct {
	TransactionRef string `json:"transaction_ref" binding:"required,max=100"`
}

// StockResponse is the realtime availability of a single item.
type StockResponse struct {
	ItemCode  string `json:"item_code"`
	Available int    `json:"available"`
}

// LogListRequest filters the sync log listing.
type LogListRequest struct {
	Type     string `form:"type"`
	Search   string `form:"search"`
	From     string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To       string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=200"`
}

// LogClearRequest selects log entries to delete. Without Before everything
// matching Type goes.
type LogClearRequest struct {
	Type   string `form:"type"`
	Before string `form:"before" binding:"omitempty,datetime=2006-01-02"`
}

// LogEntryResponse is one sync log record.
type LogEntryResponse struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
