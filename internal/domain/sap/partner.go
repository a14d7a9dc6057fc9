package sap

// CardTypeCustomer is the BusinessPartners CardType value for customers.
const CardTypeCustomer = "cCustomer"

// Address type discriminators used by BPAddresses.
const (
	AddressTypeBillTo = "bo_BillTo"
	AddressTypeShipTo = "bo_ShipTo"
)

// BusinessPartner represents a Service Layer BusinessPartners entity.
type BusinessPartner struct {
	CardCode         string            `json:"CardCode,omitempty"`
	CardName         string            `json:"CardName,omitempty"`
	CardType         string            `json:"CardType,omitempty"`
	Phone1           string            `json:"Phone1,omitempty"`
	EmailAddress     string            `json:"EmailAddress,omitempty"`
	Currency         string            `json:"Currency,omitempty"`
	FederalTaxID     string            `json:"FederalTaxID,omitempty"`
	PayTermsGrpCode  int               `json:"PayTermsGrpCode,omitempty"`
	ShippingType     int               `json:"ShippingType,omitempty"`
	ContactEmployees []ContactEmployee `json:"ContactEmployees,omitempty"`
	Addresses        []PartnerAddress  `json:"BPAddresses,omitempty"`
}

// ContactEmployee is one contact person of a business partner.
type ContactEmployee struct {
	CardCode    string `json:"CardCode,omitempty"`
	Name        string `json:"Name,omitempty"`
	Active      string `json:"Active,omitempty"`
	FirstName   string `json:"FirstName,omitempty"`
	LastName    string `json:"LastName,omitempty"`
	Email       string `json:"E_Mail,omitempty"`
	MobilePhone string `json:"MobilePhone,omitempty"`
}

// PartnerAddress is one entry of BPAddresses.
type PartnerAddress struct {
	AddressName string `json:"AddressName,omitempty"`
	Street      string `json:"Street,omitempty"`
	ZipCode     string `json:"ZipCode,omitempty"`
	City        string `json:"City,omitempty"`
	Country     string `json:"Country,omitempty"`
	AddressType string `json:"AddressType,omitempty"`
}

// PrimaryEmail resolves the partner's email per the import rule: first
// non-empty contact email, else the top-level EmailAddress, else "".
func (p *BusinessPartner) PrimaryEmail() string {
	for _, c := range p.ContactEmployees {
		if c.Email != "" {
			return c.Email
		}
	}
	return p.EmailAddress
}
