package sync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sapbridge/backend/internal/domain/sap"
	"github.com/sapbridge/backend/internal/domain/storefront"
)

func TestCardCodes(t *testing.T) {
	assert.Equal(t, "WEB000042", CustomerCardCode(42))
	assert.Equal(t, "WEB123456", CustomerCardCode(123456))
	assert.Equal(t, "WEB1234567", CustomerCardCode(1234567))
	assert.Equal(t, "GUEST001234", GuestCardCode("1234"))
	assert.Equal(t, "GUESTWC-1234", GuestCardCode("WC-1234"))
}

func newTestCustomerSyncer(partners *fakePartners) (*CustomerSyncer, *fakeCustomers, *fakeOptions, *fakeJournal) {
	customers := newFakeCustomers()
	options := newFakeOptions()
	journal := &fakeJournal{}
	syncer := NewCustomerSyncer(partners, customers, options, journal, DefaultCodeMaps(), zap.NewNop())
	return syncer, customers, options, journal
}

func TestCustomerImportAll(t *testing.T) {
	ctx := context.Background()

	partners := newFakePartners()
	partners.partners = []sap.BusinessPartner{
		{
			CardCode: "WEB000001",
			CardName: "Kovács Kft.",
			Phone1:   "+36 1 234 5678",
			ContactEmployees: []sap.ContactEmployee{
				{Email: "kovacs@example.hu"},
			},
			Addresses: []sap.PartnerAddress{
				{AddressType: sap.AddressTypeBillTo, Street: "Fő utca 1", City: "Budapest", ZipCode: "1011"},
				{AddressType: sap.AddressTypeShipTo, Street: "Raktár köz 2", City: "Vecsés", ZipCode: "2220", Country: "HU"},
			},
		},
		{CardCode: "C0099", CardName: "Email nélkül"},
	}

	syncer, customers, options, _ := newTestCustomerSyncer(partners)

	result, err := syncer.ImportAll(ctx, "")
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, 1, result.SyncedCount)
	assert.Equal(t, 1, result.SkippedCount)

	id, err := customers.FindByEmail(ctx, "kovacs@example.hu")
	require.NoError(t, err)

	cardCode, err := customers.Metadata(ctx, id, storefront.MetaCardCode)
	require.NoError(t, err)
	assert.Equal(t, "WEB000001", cardCode)

	customer, err := customers.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Kovács Kft.", customer.Company)
	assert.Equal(t, "+36 1 234 5678", customer.Phone)
	assert.Equal(t, "Fő utca 1", customer.BillingStreet)
	assert.Equal(t, "HU", customer.BillingCountry)
	assert.Equal(t, "Raktár köz 2", customer.ShippingStreet)
	assert.Equal(t, "2220", customer.ShippingZip)

	assert.NotEmpty(t, options.values[storefront.OptionLastCustomerSync])
}

func TestCustomerImportMatchesExistingAccount(t *testing.T) {
	ctx := context.Background()

	partners := newFakePartners()
	partners.partners = []sap.BusinessPartner{
		{CardCode: "WEB000007", EmailAddress: "megvan@example.hu"},
	}

	syncer, customers, _, _ := newTestCustomerSyncer(partners)
	existing := customers.seed(&storefront.Customer{Email: "megvan@example.hu"})

	result, err := syncer.ImportAll(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, result.SyncedCount)

	assert.Len(t, customers.byID, 1)
	cardCode, _ := customers.Metadata(ctx, existing, storefront.MetaCardCode)
	assert.Equal(t, "WEB000007", cardCode)
}

func TestExportCustomerCreates(t *testing.T) {
	ctx := context.Background()

	partners := newFakePartners()
	syncer, customers, _, _ := newTestCustomerSyncer(partners)

	id := customers.seed(&storefront.Customer{
		AccountNo:      12,
		Email:          "uj@example.hu",
		FirstName:      "Anna",
		LastName:       "Nagy",
		Phone:          "+36 30 111 2222",
		BillingStreet:  "Kossuth tér 5",
		BillingStreet2: "2. emelet",
		BillingCity:    "Szeged",
		BillingZip:     "6720",
	})

	cardCode, err := syncer.ExportCustomer(ctx, id, nil)
	require.NoError(t, err)
	assert.Equal(t, "WEB000012", cardCode)

	require.Len(t, partners.created, 1)
	partner := partners.created[0]
	assert.Equal(t, "WEB000012", partner.CardCode)
	assert.Equal(t, "Anna Nagy", partner.CardName)
	assert.Equal(t, sap.CardTypeCustomer, partner.CardType)
	assert.Equal(t, "Ft", partner.Currency)
	assert.Equal(t, -1, partner.PayTermsGrpCode)

	require.Len(t, partner.ContactEmployees, 1)
	contact := partner.ContactEmployees[0]
	assert.Equal(t, "WEB", contact.Name)
	assert.Equal(t, "tYES", contact.Active)
	assert.Equal(t, "uj@example.hu", contact.Email)

	require.Len(t, partner.Addresses, 1)
	addr := partner.Addresses[0]
	assert.Equal(t, "Számlázási cím", addr.AddressName)
	assert.Equal(t, sap.AddressTypeBillTo, addr.AddressType)
	assert.Equal(t, "Kossuth tér 5 2. emelet", addr.Street)
	assert.Equal(t, "HU", addr.Country)

	saved, _ := customers.Metadata(ctx, id, storefront.MetaCardCode)
	assert.Equal(t, "WEB000012", saved)
}

func TestExportCustomerUpdatesContactOnly(t *testing.T) {
	ctx := context.Background()

	partners := newFakePartners()
	syncer, customers, _, _ := newTestCustomerSyncer(partners)

	id := customers.seed(&storefront.Customer{
		Email:     "regi@example.hu",
		FirstName: "Béla",
		LastName:  "Kiss",
	})
	require.NoError(t, customers.SetMetadata(ctx, id, storefront.MetaCardCode, "WEB000003"))

	cardCode, err := syncer.ExportCustomer(ctx, id, nil)
	require.NoError(t, err)
	assert.Equal(t, "WEB000003", cardCode)

	assert.Empty(t, partners.created)
	patch, ok := partners.updated["WEB000003"]
	require.True(t, ok)
	assert.Empty(t, patch.CardCode)
	assert.Empty(t, patch.Addresses)
	require.Len(t, patch.ContactEmployees, 1)
	assert.Equal(t, "regi@example.hu", patch.ContactEmployees[0].Email)
}

func TestExportCustomerFallsBackToOrder(t *testing.T) {
	ctx := context.Background()

	partners := newFakePartners()
	syncer, customers, _, _ := newTestCustomerSyncer(partners)

	id := customers.seed(&storefront.Customer{AccountNo: 5, Email: "hiányos@example.hu"})
	order := &storefront.Order{
		Number:           "2201",
		BillingFirstName: "Csilla",
		BillingLastName:  "Tóth",
		BillingStreet:    "Váci út 10",
		BillingCity:      "Budapest",
		BillingZip:       "1062",
		ShippingStreet:   "Váci út 10",
		ShippingCity:     "Budapest",
		ShippingZip:      "1062",
	}

	_, err := syncer.ExportCustomer(ctx, id, order)
	require.NoError(t, err)

	require.Len(t, partners.created, 1)
	partner := partners.created[0]
	assert.Equal(t, "Csilla Tóth", partner.CardName)
	require.Len(t, partner.Addresses, 2)
	assert.Equal(t, "Váci út 10", partner.Addresses[0].Street)
	assert.Equal(t, "Szállítási cím", partner.Addresses[1].AddressName)
}

func TestCreateGuestPartner(t *testing.T) {
	ctx := context.Background()

	partners := newFakePartners()
	syncer, _, _, _ := newTestCustomerSyncer(partners)

	order := &storefront.Order{
		Number:           "2205",
		BillingFirstName: "Dénes",
		BillingLastName:  "Varga",
		BillingEmail:     "denes@example.hu",
		BillingCity:      "Pécs",
	}

	cardCode, err := syncer.CreateGuestPartner(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, "GUEST002205", cardCode)

	require.Len(t, partners.created, 1)
	partner := partners.created[0]
	assert.Equal(t, "Dénes Varga", partner.CardName)

	// Incomplete addresses are padded so the ERP accepts the partner.
	require.Len(t, partner.Addresses, 2)
	assert.Equal(t, "N/A", partner.Addresses[0].Street)
	assert.Equal(t, "Pécs", partner.Addresses[0].City)
	assert.Equal(t, "N/A", partner.Addresses[1].City)
}
