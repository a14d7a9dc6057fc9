package sync

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sapbridge/backend/internal/domain/sap"
	"github.com/sapbridge/backend/internal/domain/storefront"
	"github.com/sapbridge/backend/internal/infrastructure/logger"
)

// External key prefixes. Registered accounts and guest checkouts draw from
// disjoint numeric spaces, so the prefixes cannot collide.
const (
	cardCodePrefixCustomer = "WEB"
	cardCodePrefixGuest    = "GUEST"
)

// partnerCurrency is the currency new business partners are created with.
const partnerCurrency = "Ft"

// webContactName labels the contact person the sync maintains on a partner.
const webContactName = "WEB"

// CustomerCardCode derives the ERP key for a registered account.
func CustomerCardCode(accountNo int64) string {
	return fmt.Sprintf("%s%06d", cardCodePrefixCustomer, accountNo)
}

// GuestCardCode derives the ERP key for a guest checkout from the order
// number.
func GuestCardCode(orderNumber string) string {
	if n, err := strconv.ParseInt(orderNumber, 10, 64); err == nil {
		return fmt.Sprintf("%s%06d", cardCodePrefixGuest, n)
	}
	return cardCodePrefixGuest + orderNumber
}

// CustomerSyncer moves customers in both directions: ERP business partners
// into storefront accounts, and storefront accounts into ERP business
// partners keyed by generated card codes.
type CustomerSyncer struct {
	partners  PartnerDirectory
	customers storefront.CustomerStore
	options   storefront.OptionStore
	journal   storefront.SyncLogStore
	logger    *zap.Logger
	codes     CodeMaps
}

// NewCustomerSyncer creates a CustomerSyncer.
func NewCustomerSyncer(
	partners PartnerDirectory,
	customers storefront.CustomerStore,
	options storefront.OptionStore,
	journal storefront.SyncLogStore,
	codes CodeMaps,
	logger *zap.Logger,
) *CustomerSyncer {
	return &CustomerSyncer{
		partners:  partners,
		customers: customers,
		options:   options,
		journal:   journal,
		logger:    logger,
		codes:     codes,
	}
}

// ImportAll pulls customer partners updated since the last checkpoint into
// storefront accounts. Partners without any email address are skipped.
func (s *CustomerSyncer) ImportAll(ctx context.Context, since string) (*Result, error) {
	if since == "" {
		since = s.options.GetOption(ctx, storefront.OptionLastCustomerSync, "")
	}

	s.log(ctx, storefront.LogTypeCustomer, "starting customer sync from ERP", map[string]any{"since": since})

	partners, err := s.partners.Customers(ctx, since)
	if err != nil {
		s.log(ctx, storefront.LogTypeError, "failed to get customers: "+err.Error(), nil)
		return nil, err
	}

	result := newResult(len(partners))
	for _, partner := range partners {
		err := s.importPartner(ctx, partner)
		switch {
		case errors.Is(err, errNoEmail):
			result.skipped()
		case err != nil:
			result.failed(partner.CardCode, err)
			s.log(ctx, storefront.LogTypeError, "failed to import customer "+partner.CardCode+": "+err.Error(), nil)
		default:
			result.synced()
		}
	}

	if err := s.options.SetOption(ctx, storefront.OptionLastCustomerSync, time.Now().Format(checkpointLayout)); err != nil {
		s.ctxLogger(ctx).Warn("failed to save customer sync checkpoint", zap.Error(err))
	}

	s.log(ctx, storefront.LogTypeCustomer, "customer sync completed", map[string]any{
		"total":   result.TotalCount,
		"synced":  result.SyncedCount,
		"skipped": result.SkippedCount,
		"errors":  result.FailedCount,
	})
	return result.finalize(), nil
}

var errNoEmail = errors.New("partner without email")

func (s *CustomerSyncer) importPartner(ctx context.Context, partner sap.BusinessPartner) error {
	email := partner.PrimaryEmail()
	if email == "" {
		s.ctxLogger(ctx).Debug("skipping partner without email", zap.String("card_code", partner.CardCode))
		return errNoEmail
	}

	id, err := s.customers.FindByEmail(ctx, email)
	if errors.Is(err, storefront.ErrNotFound) {
		id, err = s.customers.Create(ctx, email)
	}
	if err != nil {
		return err
	}

	if err := s.customers.SetMetadata(ctx, id, storefront.MetaCardCode, partner.CardCode); err != nil {
		return err
	}

	customer, err := s.customers.Get(ctx, id)
	if err != nil {
		return err
	}
	customer.Company = partner.CardName
	customer.Phone = partner.Phone1
	applyPartnerAddresses(customer, partner.Addresses)
	return s.customers.Update(ctx, customer)
}

// applyPartnerAddresses copies the partner's addresses onto the account by
// address type.
func applyPartnerAddresses(customer *storefront.Customer, addresses []sap.PartnerAddress) {
	for _, addr := range addresses {
		country := addr.Country
		if country == "" {
			country = "HU"
		}
		if addr.AddressType == sap.AddressTypeBillTo {
			customer.BillingStreet = addr.Street
			customer.BillingCity = addr.City
			customer.BillingZip = addr.ZipCode
			customer.BillingCountry = country
		} else {
			customer.ShippingStreet = addr.Street
			customer.ShippingCity = addr.City
			customer.ShippingZip = addr.ZipCode
			customer.ShippingCountry = country
		}
	}
}

// ExportCustomer pushes a registered account to the ERP: a partial contact
// update when a cross-reference exists, a full partner create otherwise.
// Returns the card code either way. Addresses fall back to the triggering
// order when the profile is incomplete; order may be nil.
func (s *CustomerSyncer) ExportCustomer(ctx context.Context, customerID uuid.UUID, order *storefront.Order) (string, error) {
	customer, err := s.customers.Get(ctx, customerID)
	if err != nil {
		return "", err
	}

	cardCode, err := s.customers.Metadata(ctx, customerID, storefront.MetaCardCode)
	if err != nil {
		return "", err
	}

	if cardCode != "" {
		return cardCode, s.updatePartner(ctx, cardCode, customer, order)
	}
	return s.createPartner(ctx, customer, order)
}

// updatePartner refreshes the contact person. Address reconciliation is
// deliberately not attempted; it would duplicate ERP address records.
func (s *CustomerSyncer) updatePartner(ctx context.Context, cardCode string, customer *storefront.Customer, order *storefront.Order) error {
	contact := buildContact(customer, order)
	patch := &sap.BusinessPartner{ContactEmployees: []sap.ContactEmployee{contact}}

	if err := s.partners.UpdateCustomer(ctx, cardCode, patch); err != nil {
		s.log(ctx, storefront.LogTypeError, "failed to update customer in ERP: "+err.Error(), map[string]any{
			"card_code": cardCode,
		})
		return err
	}
	s.log(ctx, storefront.LogTypeCustomer, "customer updated in ERP", map[string]any{"card_code": cardCode})
	return nil
}

func (s *CustomerSyncer) createPartner(ctx context.Context, customer *storefront.Customer, order *storefront.Order) (string, error) {
	cardCode := CustomerCardCode(customer.AccountNo)

	contact := buildContact(customer, order)
	contact.CardCode = cardCode
	contact.Name = webContactName

	partner := &sap.BusinessPartner{
		CardCode:        cardCode,
		CardName:        partnerName(customer.Company, contact.FirstName, contact.LastName),
		CardType:        sap.CardTypeCustomer,
		Phone1:          customer.Phone,
		FederalTaxID:    customer.TaxID,
		Currency:        partnerCurrency,
		PayTermsGrpCode: s.codes.PaymentDefault,
		ShippingType:    s.codes.ShippingDefault,
		ContactEmployees: []sap.ContactEmployee{
			contact,
		},
		Addresses: customerAddresses(customer, order),
	}

	if _, err := s.partners.CreateCustomer(ctx, partner); err != nil {
		s.log(ctx, storefront.LogTypeError, "failed to create customer in ERP: "+err.Error(), map[string]any{
			"customer_id": customer.ID.String(),
		})
		return "", err
	}

	if err := s.customers.SetMetadata(ctx, customer.ID, storefront.MetaCardCode, cardCode); err != nil {
		return "", err
	}

	s.log(ctx, storefront.LogTypeCustomer, "customer created in ERP", map[string]any{
		"customer_id": customer.ID.String(),
		"card_code":   cardCode,
	})
	return cardCode, nil
}

// CreateGuestPartner creates a business partner for a guest checkout, keyed
// by the order number.
func (s *CustomerSyncer) CreateGuestPartner(ctx context.Context, order *storefront.Order) (string, error) {
	cardCode := GuestCardCode(order.Number)

	partner := &sap.BusinessPartner{
		CardCode:        cardCode,
		CardName:        partnerName(order.BillingCompany, order.BillingFirstName, order.BillingLastName),
		CardType:        sap.CardTypeCustomer,
		Phone1:          order.BillingPhone,
		Currency:        partnerCurrency,
		PayTermsGrpCode: s.codes.PaymentDefault,
		ContactEmployees: []sap.ContactEmployee{
			{
				CardCode:    cardCode,
				Name:        webContactName,
				Active:      "tYES",
				FirstName:   order.BillingFirstName,
				LastName:    order.BillingLastName,
				Email:       order.BillingEmail,
				MobilePhone: order.BillingPhone,
			},
		},
		Addresses: []sap.PartnerAddress{
			orderAddress(order, sap.AddressTypeBillTo),
			orderAddress(order, sap.AddressTypeShipTo),
		},
	}

	if _, err := s.partners.CreateCustomer(ctx, partner); err != nil {
		s.log(ctx, storefront.LogTypeError, "failed to create guest customer in ERP: "+err.Error(), map[string]any{
			"order": order.Number,
		})
		return "", err
	}

	s.log(ctx, storefront.LogTypeCustomer, "guest customer created in ERP", map[string]any{
		"order":     order.Number,
		"card_code": cardCode,
	})
	return cardCode, nil
}

// FindByEmail looks up a partner by contact email in the ERP.
func (s *CustomerSyncer) FindByEmail(ctx context.Context, email string) (*sap.BusinessPartner, error) {
	return s.partners.CustomerByEmail(ctx, email)
}

// FindByTaxID looks up a partner by federal tax id in the ERP.
func (s *CustomerSyncer) FindByTaxID(ctx context.Context, taxID string) (*sap.BusinessPartner, error) {
	return s.partners.CustomerByTaxID(ctx, taxID)
}

func buildContact(customer *storefront.Customer, order *storefront.Order) sap.ContactEmployee {
	contact := sap.ContactEmployee{
		Active:      "tYES",
		FirstName:   customer.FirstName,
		LastName:    customer.LastName,
		Email:       customer.Email,
		MobilePhone: customer.Phone,
	}
	if order != nil {
		if contact.FirstName == "" {
			contact.FirstName = order.BillingFirstName
		}
		if contact.LastName == "" {
			contact.LastName = order.BillingLastName
		}
		if contact.Email == "" {
			contact.Email = order.BillingEmail
		}
		if contact.MobilePhone == "" {
			contact.MobilePhone = order.BillingPhone
		}
	}
	return contact
}

// customerAddresses builds the address block from the profile, falling back
// to the order when the profile carries no usable address.
func customerAddresses(customer *storefront.Customer, order *storefront.Order) []sap.PartnerAddress {
	var addresses []sap.PartnerAddress
	if addr, ok := profileAddress(customer, sap.AddressTypeBillTo); ok {
		addresses = append(addresses, addr)
	}
	if addr, ok := profileAddress(customer, sap.AddressTypeShipTo); ok {
		addresses = append(addresses, addr)
	}
	if len(addresses) == 0 && order != nil {
		addresses = append(addresses,
			orderAddress(order, sap.AddressTypeBillTo),
			orderAddress(order, sap.AddressTypeShipTo),
		)
	}
	return addresses
}

func profileAddress(customer *storefront.Customer, addressType string) (sap.PartnerAddress, bool) {
	street, street2 := customer.BillingStreet, customer.BillingStreet2
	city, zip, country := customer.BillingCity, customer.BillingZip, customer.BillingCountry
	if addressType == sap.AddressTypeShipTo {
		street, street2 = customer.ShippingStreet, customer.ShippingStreet2
		city, zip, country = customer.ShippingCity, customer.ShippingZip, customer.ShippingCountry
	}
	if street == "" || city == "" {
		return sap.PartnerAddress{}, false
	}
	return sap.PartnerAddress{
		AddressName: addressName(addressType),
		Street:      joinStreet(street, street2),
		ZipCode:     zip,
		City:        city,
		Country:     defaultCountry(country),
		AddressType: addressType,
	}, true
}

func orderAddress(order *storefront.Order, addressType string) sap.PartnerAddress {
	street, street2 := order.BillingStreet, order.BillingStreet2
	city, zip, country := order.BillingCity, order.BillingZip, order.BillingCountry
	if addressType == sap.AddressTypeShipTo {
		street, street2 = order.ShippingStreet, order.ShippingStreet2
		city, zip, country = order.ShippingCity, order.ShippingZip, order.ShippingCountry
	}
	return sap.PartnerAddress{
		AddressName: addressName(addressType),
		Street:      orDefault(joinStreet(street, street2), "N/A"),
		ZipCode:     orDefault(zip, "N/A"),
		City:        orDefault(city, "N/A"),
		Country:     defaultCountry(country),
		AddressType: addressType,
	}
}

func addressName(addressType string) string {
	if addressType == sap.AddressTypeBillTo {
		return "Számlázási cím"
	}
	return "Szállítási cím"
}

func joinStreet(street, street2 string) string {
	if street2 == "" {
		return street
	}
	return strings.TrimSpace(street + " " + street2)
}

func partnerName(company, firstName, lastName string) string {
	if company != "" {
		return company
	}
	return strings.TrimSpace(firstName + " " + lastName)
}

func defaultCountry(country string) string {
	if country == "" {
		return "HU"
	}
	return country
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

func (s *CustomerSyncer) log(ctx context.Context, typ storefront.LogType, message string, logCtx map[string]any) {
	if err := s.journal.Append(ctx, typ, message, logCtx); err != nil {
		s.ctxLogger(ctx).Warn("failed to append sync log", zap.Error(err))
	}
}

// ctxLogger returns the logger attached to ctx by the sync executor, or the
// syncer's own logger when the call did not come through a scheduled run.
func (s *CustomerSyncer) ctxLogger(ctx context.Context) *zap.Logger {
	return logger.FromContextOr(ctx, s.logger)
}
