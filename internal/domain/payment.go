package domain

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentBank   PaymentMethod = "bank"
	PaymentMTN    PaymentMethod = "mtn"
	PaymentAirtel PaymentMethod = "airtel"
	PaymentZamtel PaymentMethod = "zamtel"
)

var paymentMethodNames = map[PaymentMethod]string{
	PaymentCash:   "Cash",
	PaymentBank:   "Bank Transfer",
	PaymentMTN:    "MTN Mobile Money",
	PaymentAirtel: "Airtel Money",
	PaymentZamtel: "Zamtel Mobile Money",
}

// Display returns the human-readable name of the payment method.
func (m PaymentMethod) Display() string {
	if name, ok := paymentMethodNames[m]; ok {
		return name
	}
	return "Not specified"
}

// ReceiptDisplay is the variant used on receipts, where an unspecified
// method falls back to the generic payment line.
func (m PaymentMethod) ReceiptDisplay() string {
	if name, ok := paymentMethodNames[m]; ok {
		return name
	}
	return "Cash/Credit Card/Bank Transfer"
}

// Valid reports whether the method is one of the known values. The empty
// string is allowed: the method is optional on a record.
func (m PaymentMethod) Valid() bool {
	if m == "" {
		return true
	}
	_, ok := paymentMethodNames[m]
	return ok
}
