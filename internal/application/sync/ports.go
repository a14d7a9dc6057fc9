package sync

import (
	"context"

	"github.com/sapbridge/backend/internal/domain/sap"
)

// ItemSource reads catalog data from the ERP. *sapclient.Client satisfies it.
type ItemSource interface {
	WebItems(ctx context.Context, since string) ([]sap.Item, error)
	WebItemsStock(ctx context.Context) ([]sap.Item, error)
	ItemStock(ctx context.Context, itemCode string) (*sap.Item, error)
	WebHierarchy(ctx context.Context) ([]sap.HierarchyNode, error)
	UserTable(ctx context.Context, table string) (map[string]string, error)
}

// PartnerDirectory reads and writes business partners in the ERP.
type PartnerDirectory interface {
	Customers(ctx context.Context, since string) ([]sap.BusinessPartner, error)
	CustomerByCardCode(ctx context.Context, cardCode string) (*sap.BusinessPartner, error)
	CustomerByEmail(ctx context.Context, email string) (*sap.BusinessPartner, error)
	CustomerByTaxID(ctx context.Context, taxID string) (*sap.BusinessPartner, error)
	CreateCustomer(ctx context.Context, partner *sap.BusinessPartner) (*sap.BusinessPartner, error)
	UpdateCustomer(ctx context.Context, cardCode string, partner *sap.BusinessPartner) error
}

// DocumentWriter creates and amends sales documents in the ERP.
type DocumentWriter interface {
	CreateOrder(ctx context.Context, doc *sap.SalesDocument) (*sap.CreatedDocument, error)
	UpdateOrder(ctx context.Context, docEntry int, fields map[string]any) error
}
