package checkout

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var ErrValidationFailed = errors.New("checkout validation failed")

// DefaultCountries are the delivery destinations offered by the storefront.
var DefaultCountries = []string{"Japan", "Future", "USA", "Other"}

var (
	phoneRegex  = regexp.MustCompile(`^\+?[0-9\s\-()]{7,}$`)
	cardRegex   = regexp.MustCompile(`^\d{13,19}$`)
	expiryRegex = regexp.MustCompile(`^(0[1-9]|1[0-2])\s*/\s*\d{2}$`)
	cvvRegex    = regexp.MustCompile(`^\d{3,4}$`)
)

// Field names reported in FieldError.
const (
	FieldFullName      = "fullName"
	FieldAddress1      = "address1"
	FieldCity          = "city"
	FieldPostalCode    = "postalCode"
	FieldCountry       = "country"
	FieldPhone         = "phone"
	FieldPaymentMethod = "paymentMethod"
	FieldCardNumber    = "creditCard.number"
	FieldCardExpiry    = "creditCard.expiry"
	FieldCardCVV       = "creditCard.cvv"
	FieldCardName      = "creditCard.nameOnCard"
)

// Payload is a submitted checkout form. Payment is nil when no method was chosen.
type Payload struct {
	FullName   string
	Address1   string
	Address2   string
	City       string
	PostalCode string
	Country    string
	Phone      string
	Payment    Payment
}

// ValidPayload is a Payload that passed every rule. Only Validate produces one.
type ValidPayload struct {
	Payload
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every violated rule, in rule order.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return fmt.Sprintf("%s: %s", ErrValidationFailed, strings.Join(names, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// Validator checks checkout payloads. It holds no mutable state and is safe for concurrent use.
type Validator struct {
	countries map[string]bool
}

// NewValidator accepts deliveries to the given countries, or DefaultCountries when none are given.
func NewValidator(countries []string) *Validator {
	if len(countries) == 0 {
		countries = DefaultCountries
	}
	allowed := make(map[string]bool, len(countries))
	for _, c := range countries {
		allowed[c] = true
	}
	return &Validator{countries: allowed}
}

var defaultValidator = NewValidator(DefaultCountries)

// Validate checks p against the default country list.
func Validate(p Payload) (ValidPayload, error) {
	return defaultValidator.Validate(p)
}

// Validate evaluates every rule without short-circuiting. Card rules apply only
// when the payment is a CreditCard.
func (v *Validator) Validate(p Payload) (ValidPayload, error) {
	var errs []FieldError
	check := func(ok bool, field, message string) {
		if !ok {
			errs = append(errs, FieldError{Field: field, Message: message})
		}
	}

	check(length(p.FullName) >= 2, FieldFullName, "full name must be at least 2 characters")
	check(length(p.Address1) >= 5, FieldAddress1, "address line 1 must be at least 5 characters")
	check(length(p.City) >= 2, FieldCity, "city must be at least 2 characters")
	check(length(p.PostalCode) >= 3, FieldPostalCode, "postal code must be at least 3 characters")
	check(p.Country != "" && v.countries[p.Country], FieldCountry, "please select a supported country")
	check(length(p.Phone) >= 7 && phoneRegex.MatchString(p.Phone), FieldPhone, "phone number must be at least 7 digits, spaces, +, - or parentheses")

	switch pay := p.Payment.(type) {
	case nil:
		check(false, FieldPaymentMethod, "payment method is required")
	case unsupportedPayment:
		check(false, FieldPaymentMethod, fmt.Sprintf("payment method must be one of %s, %s, %s", MethodCreditCard, MethodPayPal, MethodWalletPay))
	case CreditCard:
		check(cardRegex.MatchString(stripSpaces(pay.Number)), FieldCardNumber, "card number must be 13 to 19 digits")
		check(expiryRegex.MatchString(pay.Expiry), FieldCardExpiry, "expiry must be MM/YY")
		check(cvvRegex.MatchString(pay.CVV), FieldCardCVV, "cvv must be 3 or 4 digits")
		check(length(pay.NameOnCard) >= 2, FieldCardName, "name on card must be at least 2 characters")
	case PayPal, WalletPay:
	}

	if len(errs) > 0 {
		return ValidPayload{}, &ValidationError{Fields: errs}
	}
	return ValidPayload{Payload: p}, nil
}

func length(s string) int {
	return utf8.RuneCountInString(s)
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
