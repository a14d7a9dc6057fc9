package sync

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sapbridge/backend/internal/domain/sap"
	"github.com/sapbridge/backend/internal/domain/storefront"
	"github.com/sapbridge/backend/internal/infrastructure/logger"
)

// orderDueDays is the payment due offset applied to every sales order.
const orderDueDays = 7

// customerNoteLimit is the ERP field length for the customer note.
const customerNoteLimit = 254

// OrderSyncer pushes storefront orders into the ERP as sales orders. Every
// order is created at most once; the DocEntry cross-reference on the order
// metadata is the dedup key.
type OrderSyncer struct {
	documents DocumentWriter
	orders    storefront.OrderStore
	customers *CustomerSyncer
	options   storefront.OptionStore
	journal   storefront.SyncLogStore
	logger    *zap.Logger
	codes     CodeMaps
}

// NewOrderSyncer creates an OrderSyncer.
func NewOrderSyncer(
	documents DocumentWriter,
	orders storefront.OrderStore,
	customers *CustomerSyncer,
	options storefront.OptionStore,
	journal storefront.SyncLogStore,
	codes CodeMaps,
	logger *zap.Logger,
) *OrderSyncer {
	return &OrderSyncer{
		documents: documents,
		orders:    orders,
		customers: customers,
		options:   options,
		journal:   journal,
		logger:    logger,
		codes:     codes,
	}
}

// Enabled reports whether order synchronization is switched on.
func (s *OrderSyncer) Enabled(ctx context.Context) bool {
	return s.options.GetOption(ctx, storefront.OptionOrderSyncEnabled, "yes") == "yes"
}

// SyncOrder creates the ERP sales order for a storefront order and returns
// its DocEntry. An order that already carries a DocEntry is returned as-is
// without touching the ERP.
func (s *OrderSyncer) SyncOrder(ctx context.Context, orderID uuid.UUID) (int, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return 0, err
	}

	if existing, err := s.orders.Metadata(ctx, orderID, storefront.MetaDocEntry); err != nil {
		return 0, err
	} else if existing != "" {
		docEntry, err := strconv.Atoi(existing)
		if err != nil {
			return 0, fmt.Errorf("order %s carries malformed doc entry %q", order.Number, existing)
		}
		s.ctxLogger(ctx).Debug("order already synced",
			zap.String("order", order.Number),
			zap.Int("doc_entry", docEntry))
		return docEntry, nil
	}

	cardCode, err := s.resolveCardCode(ctx, order)
	if err != nil {
		return 0, s.failOrder(ctx, order, fmt.Errorf("resolve business partner: %w", err))
	}

	doc := s.BuildDocument(order, cardCode)

	created, err := s.documents.CreateOrder(ctx, doc)
	if err != nil {
		return 0, s.failOrder(ctx, order, err)
	}

	if err := s.orders.SetMetadata(ctx, orderID, storefront.MetaDocEntry, strconv.Itoa(created.DocEntry)); err != nil {
		return 0, err
	}
	if err := s.orders.SetMetadata(ctx, orderID, storefront.MetaDocNum, strconv.Itoa(created.DocNum)); err != nil {
		return 0, err
	}
	if err := s.orders.SetMetadata(ctx, orderID, storefront.MetaSyncedAt, time.Now().Format(time.DateTime)); err != nil {
		return 0, err
	}

	note := fmt.Sprintf("SAP rendelés létrehozva - DocEntry: %d, DocNum: %d", created.DocEntry, created.DocNum)
	if err := s.orders.AppendNote(ctx, orderID, note); err != nil {
		s.ctxLogger(ctx).Warn("failed to append order note", zap.Error(err))
	}

	s.log(ctx, storefront.LogTypeOrder, "order synced to ERP", map[string]any{
		"order":     order.Number,
		"card_code": cardCode,
		"doc_entry": created.DocEntry,
		"doc_num":   created.DocNum,
	})
	return created.DocEntry, nil
}

// UpdateTransactionRef writes the payment gateway transaction id onto an
// already synced sales order.
func (s *OrderSyncer) UpdateTransactionRef(ctx context.Context, orderID uuid.UUID, ref string) error {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return err
	}

	existing, err := s.orders.Metadata(ctx, orderID, storefront.MetaDocEntry)
	if err != nil {
		return err
	}
	if existing == "" {
		return fmt.Errorf("order %s: %w", order.Number, storefront.ErrNotFound)
	}
	docEntry, err := strconv.Atoi(existing)
	if err != nil {
		return fmt.Errorf("order %s carries malformed doc entry %q", order.Number, existing)
	}

	if err := s.documents.UpdateOrder(ctx, docEntry, map[string]any{"U_SimpleID": ref}); err != nil {
		s.log(ctx, storefront.LogTypeError, "failed to update transaction id on ERP order: "+err.Error(), map[string]any{
			"order":     order.Number,
			"doc_entry": docEntry,
		})
		return err
	}

	if err := s.orders.SetMetadata(ctx, orderID, storefront.MetaTransactionRef, ref); err != nil {
		return err
	}
	if err := s.orders.AppendNote(ctx, orderID, "SAP tranzakció azonosító frissítve: "+ref); err != nil {
		s.ctxLogger(ctx).Warn("failed to append order note", zap.Error(err))
	}

	s.log(ctx, storefront.LogTypeOrder, "transaction id updated on ERP order", map[string]any{
		"order":     order.Number,
		"doc_entry": docEntry,
	})
	return nil
}

// resolveCardCode finds or creates the business partner for the order.
// Registered accounts go through the customer export; guests are matched by
// billing email before a one-off partner is created for the order.
func (s *OrderSyncer) resolveCardCode(ctx context.Context, order *storefront.Order) (string, error) {
	if order.CustomerID != nil {
		return s.customers.ExportCustomer(ctx, *order.CustomerID, order)
	}

	cardCode, err := s.orders.Metadata(ctx, order.ID, storefront.MetaCardCode)
	if err != nil {
		return "", err
	}
	if cardCode != "" {
		return cardCode, nil
	}

	if order.BillingEmail != "" {
		partner, err := s.customers.FindByEmail(ctx, order.BillingEmail)
		switch {
		case err == nil:
			return partner.CardCode, s.orders.SetMetadata(ctx, order.ID, storefront.MetaCardCode, partner.CardCode)
		case !errors.Is(err, sap.ErrNotFound):
			return "", err
		}
	}

	cardCode, err = s.customers.CreateGuestPartner(ctx, order)
	if err != nil {
		return "", err
	}
	return cardCode, s.orders.SetMetadata(ctx, order.ID, storefront.MetaCardCode, cardCode)
}

// BuildDocument assembles the sales order payload for a storefront order.
func (s *OrderSyncer) BuildDocument(order *storefront.Order, cardCode string) *sap.SalesDocument {
	created := order.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	comments := "Webshop rendelés #" + order.Number
	if order.CustomerNote != "" {
		comments += "\nVevő megjegyzése: " + order.CustomerNote
	}

	paymentCode := s.codes.PaymentCode(order.PaymentMethod)
	doc := &sap.SalesDocument{
		CardCode:         cardCode,
		DocDate:          created.Format("2006-01-02"),
		DocDueDate:       created.AddDate(0, 0, orderDueDays).Format("2006-01-02"),
		Comments:         comments,
		PaymentGroupCode: &paymentCode,
		TransactionRef:   order.TransactionID,
		CustomerNote:     truncate(order.CustomerNote, customerNoteLimit),
	}
	if order.ShippingMethod != "" {
		shippingCode := s.codes.ShippingCode(order.ShippingMethod)
		doc.TransportationCode = &shippingCode
	}

	for _, line := range order.Lines {
		if line.SKU == "" {
			s.logger.Warn("skipping order line without item code",
				zap.String("order", order.Number),
				zap.String("name", line.Name))
			continue
		}
		doc.Lines = append(doc.Lines, buildDocumentLine(line, s.codes))
	}

	if order.ShippingTotal.IsPositive() && s.codes.ShippingItemCode != "" {
		doc.Lines = append(doc.Lines, sap.DocumentLine{
			ItemCode:  s.codes.ShippingItemCode,
			Quantity:  decimal.NewFromInt(1),
			UnitPrice: order.ShippingTotal,
			TaxCode:   s.codes.ShippingTaxCode,
		})
	}
	return doc
}

// buildDocumentLine converts one order line. The difference between subtotal
// and total is expressed as a discount percentage so the ERP keeps the
// undiscounted unit price.
func buildDocumentLine(line storefront.OrderLine, codes CodeMaps) sap.DocumentLine {
	docLine := sap.DocumentLine{
		ItemCode:  line.SKU,
		Quantity:  line.Quantity,
		UnitPrice: line.UnitPrice(),
		TaxCode:   codes.TaxCode(line.TaxClass),
	}
	if line.Subtotal.IsPositive() && line.Total.LessThan(line.Subtotal) {
		discount := line.Subtotal.Sub(line.Total).
			Div(line.Subtotal).
			Mul(decimal.NewFromInt(100))
		docLine.DiscountPercent = &discount
	}
	return docLine
}

// failOrder records the failure on the order and in the journal, then
// returns the original error.
func (s *OrderSyncer) failOrder(ctx context.Context, order *storefront.Order, cause error) error {
	if err := s.orders.AppendNote(ctx, order.ID, "SAP szinkronizálás sikertelen: "+cause.Error()); err != nil {
		s.ctxLogger(ctx).Warn("failed to append order note", zap.Error(err))
	}
	s.log(ctx, storefront.LogTypeError, "failed to sync order "+order.Number+": "+cause.Error(), map[string]any{
		"order": order.Number,
	})
	return cause
}

// truncate cuts a string to at most limit runes.
func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}

func (s *OrderSyncer) log(ctx context.Context, typ storefront.LogType, message string, logCtx map[string]any) {
	if err := s.journal.Append(ctx, typ, message, logCtx); err != nil {
		s.ctxLogger(ctx).Warn("failed to append sync log", zap.Error(err))
	}
}

// ctxLogger returns the logger attached to ctx by the sync executor, or the
// syncer's own logger when the call did not come through a scheduled run.
func (s *OrderSyncer) ctxLogger(ctx context.Context) *zap.Logger {
	return logger.FromContextOr(ctx, s.logger)
}
