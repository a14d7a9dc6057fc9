package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sapbridge/backend/internal/domain/sap"
	"github.com/sapbridge/backend/internal/domain/storefront"
	"github.com/sapbridge/backend/internal/infrastructure/logger"
)

// categorySlugPrefix namespaces ERP-managed categories away from manually
// created ones.
const categorySlugPrefix = "sap-"

// CategoryResolver maps ERP hierarchy codes onto storefront categories,
// creating missing ones parent-first. The hierarchy table is loaded once
// per Refresh and resolutions are memoized.
type CategoryResolver struct {
	items      ItemSource
	categories storefront.CategoryStore
	logger     *zap.Logger

	mu       sync.Mutex
	nodes    map[string]sap.HierarchyNode
	resolved map[string]uuid.UUID
}

// NewCategoryResolver creates a CategoryResolver.
func NewCategoryResolver(items ItemSource, categories storefront.CategoryStore, logger *zap.Logger) *CategoryResolver {
	return &CategoryResolver{
		items:      items,
		categories: categories,
		logger:     logger,
	}
}

// Refresh reloads the hierarchy table and drops memoized resolutions.
func (r *CategoryResolver) Refresh(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.refreshLocked(ctx); err != nil {
		return err
	}
	r.ctxLogger(ctx).Info("category hierarchy loaded", zap.Int("nodes", len(r.nodes)))
	return nil
}

// Resolve returns the storefront category id for a hierarchy code. Unknown
// and inactive codes report ErrNotFound.
func (r *CategoryResolver) Resolve(ctx context.Context, code string) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nodes == nil {
		if err := r.refreshLocked(ctx); err != nil {
			return uuid.Nil, err
		}
	}
	return r.resolveLocked(ctx, code, make(map[string]bool))
}

func (r *CategoryResolver) refreshLocked(ctx context.Context) error {
	nodes, err := r.items.WebHierarchy(ctx)
	if err != nil {
		return fmt.Errorf("load hierarchy: %w", err)
	}
	r.nodes = make(map[string]sap.HierarchyNode, len(nodes))
	for _, node := range nodes {
		r.nodes[node.Code] = node
	}
	r.resolved = make(map[string]uuid.UUID)
	return nil
}

func (r *CategoryResolver) resolveLocked(ctx context.Context, code string, visited map[string]bool) (uuid.UUID, error) {
	if id, ok := r.resolved[code]; ok {
		return id, nil
	}

	node, ok := r.nodes[code]
	if !ok {
		return uuid.Nil, fmt.Errorf("hierarchy code %s: %w", code, storefront.ErrNotFound)
	}
	if !node.Active() {
		return uuid.Nil, fmt.Errorf("hierarchy code %s is inactive: %w", code, storefront.ErrNotFound)
	}
	if visited[code] {
		return uuid.Nil, fmt.Errorf("hierarchy cycle through %s", code)
	}
	visited[code] = true

	slug := categorySlugPrefix + code
	if id, err := r.categories.FindBySlug(ctx, slug); err == nil {
		r.resolved[code] = id
		return id, nil
	} else if !errors.Is(err, storefront.ErrNotFound) {
		return uuid.Nil, err
	}

	// Resolve the parent first so the tree is created top-down. A broken
	// parent chain demotes the node to a root category instead of failing
	// the product.
	parentID := uuid.Nil
	if node.ParentCode != "" {
		id, err := r.resolveLocked(ctx, node.ParentCode, visited)
		if err != nil {
			r.ctxLogger(ctx).Warn("parent category unresolved, creating at root",
				zap.String("code", code),
				zap.String("parent", node.ParentCode),
				zap.Error(err),
			)
		} else {
			parentID = id
		}
	}

	id, err := r.categories.Create(ctx, node.Name, slug, parentID)
	if err != nil {
		if errors.Is(err, storefront.ErrConflict) {
			// Lost a race, or the name exists under a foreign slug.
			if id, lookupErr := r.categories.FindBySlug(ctx, slug); lookupErr == nil {
				r.resolved[code] = id
				return id, nil
			}
			if id, lookupErr := r.categories.FindByName(ctx, node.Name); lookupErr == nil {
				r.resolved[code] = id
				return id, nil
			}
		}
		return uuid.Nil, fmt.Errorf("create category %s: %w", code, err)
	}

	r.ctxLogger(ctx).Info("category created",
		zap.String("code", code),
		zap.String("name", node.Name),
		zap.String("slug", slug),
	)
	r.resolved[code] = id
	return id, nil
}

// ctxLogger returns the logger attached to ctx by the sync executor, or the
// resolver's own logger when the call did not come through a scheduled run.
func (r *CategoryResolver) ctxLogger(ctx context.Context) *zap.Logger {
	return logger.FromContextOr(ctx, r.logger)
}
