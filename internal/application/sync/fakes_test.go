package sync

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sapbridge/backend/internal/domain/sap"
	"github.com/sapbridge/backend/internal/domain/storefront"
)

// In-memory doubles for the storefront and ERP ports. Everything records
// what was written so the tests can assert on the side effects.

type fakeItemSource struct {
	webItems    []sap.Item
	webItemsErr error
	stockItems  []sap.Item
	stockErr    error
	itemStock   map[string]*sap.Item
	hierarchy   []sap.HierarchyNode
	hierErr     error
	tables      map[string]map[string]string
	hierCalls   int
}

func (f *fakeItemSource) WebItems(ctx context.Context, since string) ([]sap.Item, error) {
	return f.webItems, f.webItemsErr
}

func (f *fakeItemSource) WebItemsStock(ctx context.Context) ([]sap.Item, error) {
	return f.stockItems, f.stockErr
}

func (f *fakeItemSource) ItemStock(ctx context.Context, itemCode string) (*sap.Item, error) {
	item, ok := f.itemStock[itemCode]
	if !ok {
		return nil, sap.ErrNotFound
	}
	return item, nil
}

func (f *fakeItemSource) WebHierarchy(ctx context.Context) ([]sap.HierarchyNode, error) {
	f.hierCalls++
	return f.hierarchy, f.hierErr
}

func (f *fakeItemSource) UserTable(ctx context.Context, table string) (map[string]string, error) {
	values, ok := f.tables[table]
	if !ok {
		return nil, fmt.Errorf("table %s: %w", table, sap.ErrNotFound)
	}
	return values, nil
}

type fakeCatalog struct {
	bySKU      map[string]uuid.UUID
	fields     map[uuid.UUID]storefront.ProductFields
	stockQty   map[uuid.UUID]int
	inStock    map[uuid.UUID]bool
	categories map[uuid.UUID][]uuid.UUID
	attrs      map[uuid.UUID][]storefront.ProductAttribute
	meta       map[uuid.UUID]map[string]string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		bySKU:      make(map[string]uuid.UUID),
		fields:     make(map[uuid.UUID]storefront.ProductFields),
		stockQty:   make(map[uuid.UUID]int),
		inStock:    make(map[uuid.UUID]bool),
		categories: make(map[uuid.UUID][]uuid.UUID),
		attrs:      make(map[uuid.UUID][]storefront.ProductAttribute),
		meta:       make(map[uuid.UUID]map[string]string),
	}
}

func (f *fakeCatalog) FindBySKU(ctx context.Context, sku string) (uuid.UUID, error) {
	id, ok := f.bySKU[sku]
	if !ok {
		return uuid.Nil, storefront.ErrNotFound
	}
	return id, nil
}

func (f *fakeCatalog) Upsert(ctx context.Context, id uuid.UUID, fields storefront.ProductFields) (uuid.UUID, error) {
	if id == uuid.Nil {
		id = uuid.New()
	}
	f.bySKU[fields.SKU] = id
	f.fields[id] = fields
	return id, nil
}

func (f *fakeCatalog) SetStockLevel(ctx context.Context, id uuid.UUID, qty int, inStock bool) error {
	f.stockQty[id] = qty
	f.inStock[id] = inStock
	return nil
}

func (f *fakeCatalog) SetCategories(ctx context.Context, id uuid.UUID, categoryIDs []uuid.UUID) error {
	f.categories[id] = categoryIDs
	return nil
}

func (f *fakeCatalog) SetAttributes(ctx context.Context, id uuid.UUID, attrs []storefront.ProductAttribute) error {
	f.attrs[id] = attrs
	return nil
}

func (f *fakeCatalog) SetMetadata(ctx context.Context, id uuid.UUID, key, value string) error {
	if f.meta[id] == nil {
		f.meta[id] = make(map[string]string)
	}
	f.meta[id][key] = value
	return nil
}

type fakeCategoryRecord struct {
	name     string
	slug     string
	parentID uuid.UUID
}

type fakeCategories struct {
	bySlug  map[string]uuid.UUID
	byName  map[string]uuid.UUID
	records map[uuid.UUID]fakeCategoryRecord

	// conflictSlugs makes Create report ErrConflict without creating,
	// simulating a concurrent writer.
	conflictSlugs map[string]bool
	created       []string
}

func newFakeCategories() *fakeCategories {
	return &fakeCategories{
		bySlug:  make(map[string]uuid.UUID),
		byName:  make(map[string]uuid.UUID),
		records: make(map[uuid.UUID]fakeCategoryRecord),
	}
}

func (f *fakeCategories) FindBySlug(ctx context.Context, slug string) (uuid.UUID, error) {
	id, ok := f.bySlug[slug]
	if !ok {
		return uuid.Nil, storefront.ErrNotFound
	}
	return id, nil
}

func (f *fakeCategories) FindByName(ctx context.Context, name string) (uuid.UUID, error) {
	id, ok := f.byName[name]
	if !ok {
		return uuid.Nil, storefront.ErrNotFound
	}
	return id, nil
}

func (f *fakeCategories) Create(ctx context.Context, name, slug string, parentID uuid.UUID) (uuid.UUID, error) {
	if f.conflictSlugs[slug] {
		return uuid.Nil, storefront.ErrConflict
	}
	if _, ok := f.bySlug[slug]; ok {
		return uuid.Nil, storefront.ErrConflict
	}
	if _, ok := f.byName[name]; ok {
		return uuid.Nil, storefront.ErrConflict
	}
	id := uuid.New()
	f.bySlug[slug] = id
	f.byName[name] = id
	f.records[id] = fakeCategoryRecord{name: name, slug: slug, parentID: parentID}
	f.created = append(f.created, slug)
	return id, nil
}

// seed registers an existing category without going through Create.
func (f *fakeCategories) seed(name, slug string) uuid.UUID {
	id := uuid.New()
	f.bySlug[slug] = id
	f.byName[name] = id
	f.records[id] = fakeCategoryRecord{name: name, slug: slug}
	return id
}

type fakeOptions struct {
	values map[string]string
}

func newFakeOptions() *fakeOptions {
	return &fakeOptions{values: make(map[string]string)}
}

func (f *fakeOptions) GetOption(ctx context.Context, key, def string) string {
	if value, ok := f.values[key]; ok {
		return value
	}
	return def
}

func (f *fakeOptions) SetOption(ctx context.Context, key, value string) error {
	f.values[key] = value
	return nil
}

type journalEntry struct {
	typ     storefront.LogType
	message string
	logCtx  map[string]any
}

type fakeJournal struct {
	entries []journalEntry
}

func (f *fakeJournal) Append(ctx context.Context, typ storefront.LogType, message string, logCtx map[string]any) error {
	f.entries = append(f.entries, journalEntry{typ: typ, message: message, logCtx: logCtx})
	return nil
}

func (f *fakeJournal) Query(ctx context.Context, filter storefront.LogFilter) ([]storefront.LogEntry, error) {
	return nil, nil
}

func (f *fakeJournal) Count(ctx context.Context, filter storefront.LogFilter) (int64, error) {
	return int64(len(f.entries)), nil
}

func (f *fakeJournal) Clear(ctx context.Context, filter storefront.LogFilter) error {
	f.entries = nil
	return nil
}

func (f *fakeJournal) messagesOfType(typ storefront.LogType) []string {
	var messages []string
	for _, e := range f.entries {
		if e.typ == typ {
			messages = append(messages, e.message)
		}
	}
	return messages
}

type fakePartners struct {
	partners  []sap.BusinessPartner
	listErr   error
	byCard    map[string]*sap.BusinessPartner
	byEmail   map[string]*sap.BusinessPartner
	byTax     map[string]*sap.BusinessPartner
	created   []*sap.BusinessPartner
	createErr error
	updated   map[string]*sap.BusinessPartner
}

func newFakePartners() *fakePartners {
	return &fakePartners{
		byCard:  make(map[string]*sap.BusinessPartner),
		byEmail: make(map[string]*sap.BusinessPartner),
		byTax:   make(map[string]*sap.BusinessPartner),
		updated: make(map[string]*sap.BusinessPartner),
	}
}

func (f *fakePartners) Customers(ctx context.Context, since string) ([]sap.BusinessPartner, error) {
	return f.partners, f.listErr
}

func (f *fakePartners) CustomerByCardCode(ctx context.Context, cardCode string) (*sap.BusinessPartner, error) {
	partner, ok := f.byCard[cardCode]
	if !ok {
		return nil, sap.ErrNotFound
	}
	return partner, nil
}

func (f *fakePartners) CustomerByEmail(ctx context.Context, email string) (*sap.BusinessPartner, error) {
	partner, ok := f.byEmail[email]
	if !ok {
		return nil, sap.ErrNotFound
	}
	return partner, nil
}

func (f *fakePartners) CustomerByTaxID(ctx context.Context, taxID string) (*sap.BusinessPartner, error) {
	partner, ok := f.byTax[taxID]
	if !ok {
		return nil, sap.ErrNotFound
	}
	return partner, nil
}

func (f *fakePartners) CreateCustomer(ctx context.Context, partner *sap.BusinessPartner) (*sap.BusinessPartner, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, partner)
	f.byCard[partner.CardCode] = partner
	return partner, nil
}

func (f *fakePartners) UpdateCustomer(ctx context.Context, cardCode string, partner *sap.BusinessPartner) error {
	f.updated[cardCode] = partner
	return nil
}

type fakeCustomers struct {
	byID        map[uuid.UUID]*storefront.Customer
	byEmail     map[string]uuid.UUID
	meta        map[uuid.UUID]map[string]string
	nextAccount int64
	updates     []*storefront.Customer
}

func newFakeCustomers() *fakeCustomers {
	return &fakeCustomers{
		byID:    make(map[uuid.UUID]*storefront.Customer),
		byEmail: make(map[string]uuid.UUID),
		meta:    make(map[uuid.UUID]map[string]string),
	}
}

func (f *fakeCustomers) seed(customer *storefront.Customer) uuid.UUID {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	if customer.AccountNo == 0 {
		f.nextAccount++
		customer.AccountNo = f.nextAccount
	} else if customer.AccountNo > f.nextAccount {
		f.nextAccount = customer.AccountNo
	}
	f.byID[customer.ID] = customer
	f.byEmail[customer.Email] = customer.ID
	return customer.ID
}

func (f *fakeCustomers) Get(ctx context.Context, id uuid.UUID) (*storefront.Customer, error) {
	customer, ok := f.byID[id]
	if !ok {
		return nil, storefront.ErrNotFound
	}
	clone := *customer
	return &clone, nil
}

func (f *fakeCustomers) FindByEmail(ctx context.Context, email string) (uuid.UUID, error) {
	id, ok := f.byEmail[email]
	if !ok {
		return uuid.Nil, storefront.ErrNotFound
	}
	return id, nil
}

func (f *fakeCustomers) Create(ctx context.Context, email string) (uuid.UUID, error) {
	return f.seed(&storefront.Customer{Email: email}), nil
}

func (f *fakeCustomers) Update(ctx context.Context, customer *storefront.Customer) error {
	if _, ok := f.byID[customer.ID]; !ok {
		return storefront.ErrNotFound
	}
	clone := *customer
	f.byID[customer.ID] = &clone
	f.updates = append(f.updates, &clone)
	return nil
}

func (f *fakeCustomers) SetMetadata(ctx context.Context, id uuid.UUID, key, value string) error {
	if f.meta[id] == nil {
		f.meta[id] = make(map[string]string)
	}
	f.meta[id][key] = value
	return nil
}

func (f *fakeCustomers) Metadata(ctx context.Context, id uuid.UUID, key string) (string, error) {
	return f.meta[id][key], nil
}

type fakeOrders struct {
	byID  map[uuid.UUID]*storefront.Order
	meta  map[uuid.UUID]map[string]string
	notes map[uuid.UUID][]string
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{
		byID:  make(map[uuid.UUID]*storefront.Order),
		meta:  make(map[uuid.UUID]map[string]string),
		notes: make(map[uuid.UUID][]string),
	}
}

func (f *fakeOrders) seed(order *storefront.Order) uuid.UUID {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	f.byID[order.ID] = order
	return order.ID
}

func (f *fakeOrders) Get(ctx context.Context, id uuid.UUID) (*storefront.Order, error) {
	order, ok := f.byID[id]
	if !ok {
		return nil, storefront.ErrNotFound
	}
	return order, nil
}

func (f *fakeOrders) SetMetadata(ctx context.Context, id uuid.UUID, key, value string) error {
	if f.meta[id] == nil {
		f.meta[id] = make(map[string]string)
	}
	f.meta[id][key] = value
	return nil
}

func (f *fakeOrders) Metadata(ctx context.Context, id uuid.UUID, key string) (string, error) {
	return f.meta[id][key], nil
}

func (f *fakeOrders) AppendNote(ctx context.Context, id uuid.UUID, note string) error {
	f.notes[id] = append(f.notes[id], note)
	return nil
}

type fakeDocuments struct {
	created   []*sap.SalesDocument
	next      sap.CreatedDocument
	createErr error
	updates   map[int]map[string]any
	updateErr error
}

func newFakeDocuments() *fakeDocuments {
	return &fakeDocuments{updates: make(map[int]map[string]any)}
}

func (f *fakeDocuments) CreateOrder(ctx context.Context, doc *sap.SalesDocument) (*sap.CreatedDocument, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, doc)
	created := f.next
	return &created, nil
}

func (f *fakeDocuments) UpdateOrder(ctx context.Context, docEntry int, fields map[string]any) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates[docEntry] = fields
	return nil
}
