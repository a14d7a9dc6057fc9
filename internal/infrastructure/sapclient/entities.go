package sapclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/sapbridge/backend/internal/domain/sap"
)

// customerEmailView is the SQL view exposing contact person e-mail addresses
// for business partner lookup.
const customerEmailView = "view.svc/CPH_TargyalopartnermailB1SLQuery"

// webItemSelect lists the item fields the catalog mappers consume, keeping
// web item pages well under the response size cap.
const webItemSelect = "ItemCode,ItemName,SalesUnit,SalesUnitWeight,UpdateDate,UpdateTime,U_Webhierarchy," +
	"U_AlagutMerete,U_Alapanyag,U_Anyagminoseg,U_AsztalMagassag,U_BelsoMeret," +
	"U_BemelegedesiIdo,U_Benyulas,U_CseveBelsAtmero,U_CseveSuly,U_ElnyujtasMerteke," +
	"U_Energiafelhaszn,U_FajlagosTomeg,U_Feszitoero,U_GepMerete,U_HegesztesiIdo," +
	"U_HegVarratSzellesseg,U_HegesztFoiaVastagsag,SalesLengthUnit,U_Hullamtipus," +
	"U_KapocsMerete,U_Kivitel,U_KulsoMeret,U_KisebbMagassag,SalesHeightUnit," +
	"U_MaxTekercsAtmero,U_MaxCsomagMeret,U_Nyomas,U_PantolasErossege,U_PantolasIranya," +
	"U_PantolasSebessege,U_PantolasTipusa,U_PantszallagTipusa,U_PantszallagVastagsag," +
	"U_RagasztorudAtmero,U_Sebesseg,U_Szakitoszilardsag,U_SzalagSzelesseg,SalesUnitWidth," +
	"U_Szin,U_KekercsHosszusag,U_Vastagsag_mm,U_Vastagsag_my,U_YoutubeVideo,U_ZarasTipus," +
	"ItemPrices,ItemWarehouseInfoCollection"

// WebItems fetches items flagged for web sale, optionally restricted to
// records updated on or after since (formatted YYYY-MM-DD).
func (c *Client) WebItems(ctx context.Context, since string) ([]sap.Item, error) {
	filter := "U_MOS_InSe eq 'Y'"
	if since != "" {
		filter += fmt.Sprintf(" and UpdateDate ge '%sT00:00:00'", since)
	}
	rows, err := c.GetAll(ctx, "Items", map[string]string{
		"$select":  webItemSelect,
		"$filter":  filter,
		"$orderby": "ItemCode",
	}, 0)
	if err != nil {
		return nil, err
	}
	return decodeRows[sap.Item](rows)
}

// WebItemsStock fetches the warehouse rows of every web item in one pass,
// for the bulk stock sync.
func (c *Client) WebItemsStock(ctx context.Context) ([]sap.Item, error) {
	rows, err := c.GetAll(ctx, "Items", map[string]string{
		"$select": "ItemCode,ItemWarehouseInfoCollection",
		"$filter": "U_MOS_InSe eq 'Y'",
	}, 0)
	if err != nil {
		return nil, err
	}
	return decodeRows[sap.Item](rows)
}

// Item fetches a single item by code.
func (c *Client) Item(ctx context.Context, itemCode string) (*sap.Item, error) {
	raw, err := c.Get(ctx, fmt.Sprintf("Items('%s')", url.QueryEscape(itemCode)), nil)
	if err != nil {
		return nil, notFoundOn404(err)
	}
	var item sap.Item
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("%w: item %s: %v", sap.ErrInvalidResponse, itemCode, err)
	}
	return &item, nil
}

// ItemStock fetches only the warehouse rows for an item.
func (c *Client) ItemStock(ctx context.Context, itemCode string) (*sap.Item, error) {
	raw, err := c.Get(ctx, fmt.Sprintf("Items('%s')", url.QueryEscape(itemCode)), map[string]string{
		"$select": "ItemCode,ItemWarehouseInfoCollection",
	})
	if err != nil {
		return nil, notFoundOn404(err)
	}
	var item sap.Item
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("%w: item %s: %v", sap.ErrInvalidResponse, itemCode, err)
	}
	return &item, nil
}

// WebHierarchy fetches the full category hierarchy user table.
func (c *Client) WebHierarchy(ctx context.Context) ([]sap.HierarchyNode, error) {
	rows, err := c.GetAll(ctx, "WEBHIERARCHY", map[string]string{
		"$select":  "Code,Name,U_Level,U_Recipient,U_Status",
		"$orderby": "Code",
	}, 0)
	if err != nil {
		return nil, err
	}
	return decodeRows[sap.HierarchyNode](rows)
}

// UserTable fetches a whole user-defined table as a Code to Name map,
// used for resolving attribute option codes to display values.
func (c *Client) UserTable(ctx context.Context, table string) (map[string]string, error) {
	if !strings.HasPrefix(table, "U_") {
		table = "U_" + table
	}
	rows, err := c.GetAll(ctx, table, map[string]string{
		"$select": "Code,Name",
	}, 0)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, len(rows))
	for _, raw := range rows {
		var row struct {
			Code string `json:"Code"`
			Name string `json:"Name"`
		}
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, fmt.Errorf("%w: table %s: %v", sap.ErrInvalidResponse, table, err)
		}
		values[row.Code] = row.Name
	}
	return values, nil
}

// Customers fetches customer business partners, optionally restricted to
// records updated on or after since (formatted YYYY-MM-DD).
func (c *Client) Customers(ctx context.Context, since string) ([]sap.BusinessPartner, error) {
	filter := "CardType eq 'cCustomer'"
	if since != "" {
		filter += fmt.Sprintf(" and UpdateDate ge '%sT00:00:00'", since)
	}
	rows, err := c.GetAll(ctx, "BusinessPartners", map[string]string{
		"$filter":  filter,
		"$orderby": "CardCode",
	}, 0)
	if err != nil {
		return nil, err
	}
	return decodeRows[sap.BusinessPartner](rows)
}

// CustomerByCardCode fetches one business partner by card code.
func (c *Client) CustomerByCardCode(ctx context.Context, cardCode string) (*sap.BusinessPartner, error) {
	raw, err := c.Get(ctx, fmt.Sprintf("BusinessPartners('%s')", url.QueryEscape(cardCode)), nil)
	if err != nil {
		return nil, notFoundOn404(err)
	}
	var partner sap.BusinessPartner
	if err := json.Unmarshal(raw, &partner); err != nil {
		return nil, fmt.Errorf("%w: partner %s: %v", sap.ErrInvalidResponse, cardCode, err)
	}
	return &partner, nil
}

// CustomerByTaxID finds the first customer partner matching a federal tax ID.
func (c *Client) CustomerByTaxID(ctx context.Context, taxID string) (*sap.BusinessPartner, error) {
	rows, err := c.GetAll(ctx, "BusinessPartners", map[string]string{
		"$filter": fmt.Sprintf("UnifiedFederalTaxID eq '%s' and CardType eq 'cCustomer'", taxID),
		"$top":    "1",
	}, 1)
	if err != nil {
		return nil, err
	}
	return firstPartner(rows)
}

// CustomerByEmail finds a customer partner by contact e-mail address,
// resolved through the e-mail lookup view.
func (c *Client) CustomerByEmail(ctx context.Context, email string) (*sap.BusinessPartner, error) {
	rows, err := c.GetAll(ctx, customerEmailView, map[string]string{
		"$filter": fmt.Sprintf("E_MailL eq '%s'", email),
		"$top":    "1",
	}, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, sap.ErrNotFound
	}
	var row struct {
		CardCode string `json:"CardCode"`
	}
	if err := json.Unmarshal(rows[0], &row); err != nil || row.CardCode == "" {
		return nil, fmt.Errorf("%w: email lookup row", sap.ErrInvalidResponse)
	}
	return c.CustomerByCardCode(ctx, row.CardCode)
}

// CreateCustomer creates a business partner.
func (c *Client) CreateCustomer(ctx context.Context, partner *sap.BusinessPartner) (*sap.BusinessPartner, error) {
	raw, err := c.Post(ctx, "BusinessPartners", partner)
	if err != nil {
		return nil, err
	}
	var created sap.BusinessPartner
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, fmt.Errorf("%w: created partner: %v", sap.ErrInvalidResponse, err)
	}
	return &created, nil
}

// UpdateCustomer patches an existing business partner.
func (c *Client) UpdateCustomer(ctx context.Context, cardCode string, partner *sap.BusinessPartner) error {
	_, err := c.Patch(ctx, fmt.Sprintf("BusinessPartners('%s')", url.QueryEscape(cardCode)), partner)
	return err
}

// CreateOrder posts a sales order and returns its document identifiers.
func (c *Client) CreateOrder(ctx context.Context, doc *sap.SalesDocument) (*sap.CreatedDocument, error) {
	raw, err := c.Post(ctx, "Orders", doc)
	if err != nil {
		return nil, err
	}
	var created sap.CreatedDocument
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, fmt.Errorf("%w: created order: %v", sap.ErrInvalidResponse, err)
	}
	return &created, nil
}

// UpdateOrder patches fields on an existing sales order.
func (c *Client) UpdateOrder(ctx context.Context, docEntry int, fields map[string]any) error {
	_, err := c.Patch(ctx, fmt.Sprintf("Orders(%d)", docEntry), fields)
	return err
}

// Order fetches a sales order by document entry.
func (c *Client) Order(ctx context.Context, docEntry int) (*sap.CreatedDocument, error) {
	raw, err := c.Get(ctx, fmt.Sprintf("Orders(%d)", docEntry), map[string]string{
		"$select": "DocEntry,DocNum",
	})
	if err != nil {
		return nil, notFoundOn404(err)
	}
	var doc sap.CreatedDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: order %d: %v", sap.ErrInvalidResponse, docEntry, err)
	}
	return &doc, nil
}

// PaymentTerms fetches the payment terms group numbers and names.
func (c *Client) PaymentTerms(ctx context.Context) (map[string]string, error) {
	return c.codeNameTable(ctx, "PaymentTermsTypes", "GroupNumber", "PaymentTermsGroupName")
}

// ShippingTypes fetches the shipping type codes and names.
func (c *Client) ShippingTypes(ctx context.Context) (map[string]string, error) {
	return c.codeNameTable(ctx, "ShippingTypes", "Code", "Name")
}

func (c *Client) codeNameTable(ctx context.Context, endpoint, codeField, nameField string) (map[string]string, error) {
	rows, err := c.GetAll(ctx, endpoint, map[string]string{
		"$select": codeField + "," + nameField,
	}, 0)
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(rows))
	for _, raw := range rows {
		var row map[string]any
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, fmt.Errorf("%w: %s row: %v", sap.ErrInvalidResponse, endpoint, err)
		}
		values[fmt.Sprint(row[codeField])] = fmt.Sprint(row[nameField])
	}
	return values, nil
}

func decodeRows[T any](rows []json.RawMessage) ([]T, error) {
	decoded := make([]T, 0, len(rows))
	for _, raw := range rows {
		var value T
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, fmt.Errorf("%w: %v", sap.ErrInvalidResponse, err)
		}
		decoded = append(decoded, value)
	}
	return decoded, nil
}

func firstPartner(rows []json.RawMessage) (*sap.BusinessPartner, error) {
	if len(rows) == 0 {
		return nil, sap.ErrNotFound
	}
	var partner sap.BusinessPartner
	if err := json.Unmarshal(rows[0], &partner); err != nil {
		return nil, fmt.Errorf("%w: partner row: %v", sap.ErrInvalidResponse, err)
	}
	return &partner, nil
}

// notFoundOn404 maps an upstream 404 onto the domain sentinel.
func notFoundOn404(err error) error {
	var apiErr *sap.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == 404 {
		return sap.ErrNotFound
	}
	return err
}
