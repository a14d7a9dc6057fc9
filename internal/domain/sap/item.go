package sap

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Item represents a Service Layer Items entity. Only the fields the
// synchronization needs are modelled; every U_ user-defined field is
// collected into CustomFields so the mappers can persist them as storefront
// metadata without the type having to know each one.
type Item struct {
	ItemCode        string
	ItemName        string
	SalesUnit       string
	SalesUnitWeight decimal.Decimal
	UpdateDate      string
	UpdateTime      string
	ItemPrices      []ItemPrice
	Warehouses      []WarehouseInfo
	CustomFields    map[string]string
}

// ItemPrice is one entry of an item's price list collection.
type ItemPrice struct {
	PriceList int             `json:"PriceList"`
	Price     decimal.Decimal `json:"Price"`
}

// WarehouseInfo is one entry of ItemWarehouseInfoCollection.
type WarehouseInfo struct {
	WarehouseCode string          `json:"WarehouseCode"`
	InStock       decimal.Decimal `json:"InStock"`
	Committed     decimal.Decimal `json:"Committed"`
	Ordered       decimal.Decimal `json:"Ordered"`
}

// HierarchyCode returns the trimmed web hierarchy UDF, or "" when the item
// carries none.
func (i *Item) HierarchyCode() string {
	return strings.TrimSpace(i.CustomFields["U_Webhierarchy"])
}

// PriceForList returns the price belonging to the given price list number.
// Missing entries are not an error; the caller leaves the price unchanged.
func (i *Item) PriceForList(listNo int) (decimal.Decimal, bool) {
	for _, p := range i.ItemPrices {
		if p.PriceList == listNo {
			return p.Price, true
		}
	}
	return decimal.Zero, false
}

// UnmarshalJSON decodes the known fields and sweeps every scalar U_ field
// into CustomFields. Missing or null keys decode to zero values rather than
// failing; the Service Layer omits unselected fields freely.
func (i *Item) UnmarshalJSON(data []byte) error {
	type alias struct {
		ItemCode        string          `json:"ItemCode"`
		ItemName        string          `json:"ItemName"`
		SalesUnit       string          `json:"SalesUnit"`
		SalesUnitWeight decimal.Decimal `json:"SalesUnitWeight"`
		UpdateDate      string          `json:"UpdateDate"`
		UpdateTime      string          `json:"UpdateTime"`
		ItemPrices      []ItemPrice     `json:"ItemPrices"`
		Warehouses      []WarehouseInfo `json:"ItemWarehouseInfoCollection"`
	}

	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("sap: decode item: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("sap: decode item fields: %w", err)
	}

	i.ItemCode = a.ItemCode
	i.ItemName = a.ItemName
	i.SalesUnit = a.SalesUnit
	i.SalesUnitWeight = a.SalesUnitWeight
	i.UpdateDate = a.UpdateDate
	i.UpdateTime = a.UpdateTime
	i.ItemPrices = a.ItemPrices
	i.Warehouses = a.Warehouses
	i.CustomFields = make(map[string]string)

	for key, value := range raw {
		if !strings.HasPrefix(key, "U_") {
			continue
		}
		if s, ok := scalarString(value); ok && s != "" {
			i.CustomFields[key] = s
		}
	}
	return nil
}

// scalarString renders a JSON scalar as its string form. Objects, arrays and
// nulls report false.
func scalarString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		if b {
			return "true", true
		}
		return "false", true
	}
	return "", false
}
