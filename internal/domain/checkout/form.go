package checkout

import "strings"

// Form is the flat shape a storefront submits. Card fields travel alongside the
// method and are dropped unless the method is a credit card.
type Form struct {
	FullName      string `json:"fullName"`
	Address1      string `json:"address1"`
	Address2      string `json:"address2,omitempty"`
	City          string `json:"city"`
	PostalCode    string `json:"postalCode"`
	Country       string `json:"country"`
	Phone         string `json:"phone"`
	PaymentMethod string `json:"paymentMethod"`
	CardNumber    string `json:"ccNumber,omitempty"`
	CardExpiry    string `json:"ccExpiry,omitempty"`
	CardCVV       string `json:"ccCvv,omitempty"`
	CardName      string `json:"ccName,omitempty"`
}

// Payload converts the form into its tagged representation.
func (f Form) Payload() Payload {
	return Payload{
		FullName:   f.FullName,
		Address1:   f.Address1,
		Address2:   f.Address2,
		City:       f.City,
		PostalCode: f.PostalCode,
		Country:    f.Country,
		Phone:      f.Phone,
		Payment:    f.payment(),
	}
}

func (f Form) payment() Payment {
	if strings.TrimSpace(f.PaymentMethod) == "" {
		return nil
	}
	method, ok := ParsePaymentMethod(f.PaymentMethod)
	if !ok {
		return unsupportedPayment{raw: f.PaymentMethod}
	}
	switch method {
	case MethodCreditCard:
		return CreditCard{
			Number:     f.CardNumber,
			Expiry:     f.CardExpiry,
			CVV:        f.CardCVV,
			NameOnCard: f.CardName,
		}
	case MethodPayPal:
		return PayPal{}
	default:
		return WalletPay{}
	}
}
