package storefront

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LogType classifies sync log entries. Type-per-concern mirrors how the
// entries are filtered on the admin surface.
type LogType string

const (
	LogTypeInfo     LogType = "info"
	LogTypeError    LogType = "error"
	LogTypeWarning  LogType = "warning"
	LogTypeDebug    LogType = "debug"
	LogTypeSync     LogType = "sync"
	LogTypeOrder    LogType = "order"
	LogTypeStock    LogType = "stock"
	LogTypeCustomer LogType = "customer"
	LogTypeProduct  LogType = "product"
)

// LogEntry is one persisted sync log record.
type LogEntry struct {
	ID        uuid.UUID
	Type      LogType
	Message   string
	Context   map[string]any
	CreatedAt time.Time
}

// LogFilter selects entries for Query, Count and Clear. Zero-valued fields
// are not applied.
type LogFilter struct {
	Type   LogType
	From   *time.Time
	To     *time.Time
	Search string
	Limit  int
	Offset int
}

// SyncLogStore is the persisted log sink for sync outcomes. Every skip and
// error of a run lands here with enough context to diagnose without
// reproducing.
type SyncLogStore interface {
	Append(ctx context.Context, typ LogType, message string, logCtx map[string]any) error
	Query(ctx context.Context, filter LogFilter) ([]LogEntry, error)
	Count(ctx context.Context, filter LogFilter) (int64, error)
	Clear(ctx context.Context, filter LogFilter) error
}
