package sap

import "github.com/shopspring/decimal"

// SalesDocument is the payload for creating an Orders document.
// Optional numeric codes use pointers so that an unmapped code is omitted
// from the request instead of being sent as zero.
type SalesDocument struct {
	CardCode           string          `json:"CardCode"`
	DocDate            string          `json:"DocDate"`
	DocDueDate         string          `json:"DocDueDate"`
	Comments           string          `json:"Comments,omitempty"`
	PaymentGroupCode   *int            `json:"PaymentGroupCode,omitempty"`
	TransportationCode *int            `json:"TransportationCode,omitempty"`
	TransactionRef     string          `json:"U_SimpleID,omitempty"`
	CustomerNote       string          `json:"U_CustomerNote,omitempty"`
	Lines              []DocumentLine  `json:"DocumentLines"`
}

// DocumentLine is one line of a sales document.
type DocumentLine struct {
	ItemCode        string           `json:"ItemCode"`
	Quantity        decimal.Decimal  `json:"Quantity"`
	UnitPrice       decimal.Decimal  `json:"UnitPrice"`
	TaxCode         string           `json:"TaxCode,omitempty"`
	DiscountPercent *decimal.Decimal `json:"DiscountPercent,omitempty"`
}

// CreatedDocument is the slice of the Orders creation response the
// synchronization keeps as cross-reference.
type CreatedDocument struct {
	DocEntry int `json:"DocEntry"`
	DocNum   int `json:"DocNum"`
}
