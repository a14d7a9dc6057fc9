package sync

// CodeMaps translates storefront payment, shipping and tax identifiers into
// ERP codes. The tables are injected so deployments can remap methods
// without touching sync logic; zero-valued maps fall back to the defaults.
type CodeMaps struct {
	// Payment maps storefront payment method ids to payment terms group
	// codes. PaymentDefault applies to unmapped methods.
	Payment        map[string]int
	PaymentDefault int

	// Shipping maps storefront shipping method ids to transportation
	// codes. ShippingDefault applies to unmapped methods.
	Shipping        map[string]int
	ShippingDefault int

	// Tax maps storefront tax classes to ERP tax codes. TaxDefault applies
	// to unmapped classes.
	Tax        map[string]string
	TaxDefault string

	// ShippingItemCode is the service item shipping cost is booked on.
	// ShippingTaxCode is the tax code applied to that line.
	ShippingItemCode string
	ShippingTaxCode  string
}

// DefaultCodeMaps returns the mapping tables for the Hungarian deployment.
func DefaultCodeMaps() CodeMaps {
	return CodeMaps{
		Payment: map[string]int{
			"bacs":      1,
			"cod":       2,
			"simplepay": 1,
			"stripe":    1,
			"paypal":    1,
		},
		PaymentDefault: -1,
		Shipping: map[string]int{
			"flat_rate":     3,
			"free_shipping": 3,
			"local_pickup":  1,
		},
		ShippingDefault: 4,
		Tax: map[string]string{
			"":             "K27",
			"reduced-rate": "K5",
			"zero-rate":    "K0",
		},
		TaxDefault:       "K27",
		ShippingItemCode: "SHIPPING",
		ShippingTaxCode:  "K27",
	}
}

// PaymentCode resolves the payment terms group code for a payment method.
func (m CodeMaps) PaymentCode(method string) int {
	if code, ok := m.Payment[method]; ok {
		return code
	}
	return m.PaymentDefault
}

// ShippingCode resolves the transportation code for a shipping method.
func (m CodeMaps) ShippingCode(method string) int {
	if code, ok := m.Shipping[method]; ok {
		return code
	}
	return m.ShippingDefault
}

// TaxCode resolves the ERP tax code for a tax class.
func (m CodeMaps) TaxCode(class string) string {
	if code, ok := m.Tax[class]; ok {
		return code
	}
	return m.TaxDefault
}
