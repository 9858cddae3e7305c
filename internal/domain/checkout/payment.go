package checkout

import "strings"

type PaymentMethod string

const (
	MethodCreditCard PaymentMethod = "creditCard"
	MethodPayPal     PaymentMethod = "payPal"
	MethodWalletPay  PaymentMethod = "walletPay"
)

var canonicalMethods = map[string]PaymentMethod{
	string(MethodCreditCard): MethodCreditCard,
	string(MethodPayPal):     MethodPayPal,
	string(MethodWalletPay):  MethodWalletPay,
}

// legacy spellings still sent by older storefront forms, matched ignoring case
var methodAliases = map[string]PaymentMethod{
	"paypal":  MethodPayPal,
	"dorapay": MethodWalletPay,
}

// ParsePaymentMethod maps a wire value onto a known method. Canonical values
// must match exactly.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	if m, ok := canonicalMethods[s]; ok {
		return m, true
	}
	m, ok := methodAliases[strings.ToLower(s)]
	return m, ok
}

// Payment is the selected payment option. Only the variants in this package implement it,
// so card fields exist only when the method is a credit card.
type Payment interface {
	Method() PaymentMethod
	isPayment()
}

// CreditCard carries the fields that become mandatory in credit card mode.
type CreditCard struct {
	Number     string `json:"number"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
	NameOnCard string `json:"name_on_card"`
}

type PayPal struct{}

type WalletPay struct{}

// unsupportedPayment records a method value that is not one of the known variants.
type unsupportedPayment struct {
	raw string
}

func (CreditCard) Method() PaymentMethod           { return MethodCreditCard }
func (PayPal) Method() PaymentMethod               { return MethodPayPal }
func (WalletPay) Method() PaymentMethod            { return MethodWalletPay }
func (u unsupportedPayment) Method() PaymentMethod { return PaymentMethod(u.raw) }

func (CreditCard) isPayment()         {}
func (PayPal) isPayment()             {}
func (WalletPay) isPayment()          {}
func (unsupportedPayment) isPayment() {}

// Last4 returns the last four digits of the card number, or "" if there are fewer.
func (c CreditCard) Last4() string {
	digits := stripSpaces(c.Number)
	if len(digits) < 4 {
		return ""
	}
	return digits[len(digits)-4:]
}
