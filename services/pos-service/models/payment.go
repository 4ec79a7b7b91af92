package models

// PaymentMethod identifies a PaymentSelection variant.
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodUPI  PaymentMethod = "upi"
)

// PaymentSelection is one of CashPayment, CardPayment or UPIPayment.
type PaymentSelection interface {
	Method() PaymentMethod
	// Details returns what may be stored with the order.
	Details() *PaymentDetails
}

type CashPayment struct{}

func (CashPayment) Method() PaymentMethod    { return PaymentMethodCash }
func (CashPayment) Details() *PaymentDetails { return nil }

// CardPayment holds the card fields as typed at the terminal. Only the holder,
// the last four digits and the expiry survive into the order.
type CardPayment struct {
	HolderName string `json:"holder_name" validate:"required,max=100"`
	Number     string `json:"number" validate:"required,numeric,len=16"`
	Expiry     string `json:"expiry" validate:"required,card_expiry"`
	CVV        string `json:"cvv" validate:"required,numeric,min=3,max=4"`
}

func (CardPayment) Method() PaymentMethod { return PaymentMethodCard }

func (c CardPayment) Details() *PaymentDetails {
	last4 := c.Number
	if len(last4) > 4 {
		last4 = last4[len(last4)-4:]
	}
	return &PaymentDetails{CardHolder: c.HolderName, CardLast4: last4, CardExpiry: c.Expiry}
}

type UPIPayment struct {
	VPA string `json:"vpa" validate:"required,vpa"`
}

func (UPIPayment) Method() PaymentMethod { return PaymentMethodUPI }

func (u UPIPayment) Details() *PaymentDetails {
	return &PaymentDetails{UPIVPA: u.VPA}
}

// PaymentDetails is the persisted, non-sensitive part of a payment.
type PaymentDetails struct {
	CardHolder string `json:"card_holder,omitempty" bson:"card_holder,omitempty"`
	CardLast4  string `json:"card_last4,omitempty" bson:"card_last4,omitempty"`
	CardExpiry string `json:"card_expiry,omitempty" bson:"card_expiry,omitempty"`
	UPIVPA     string `json:"upi_vpa,omitempty" bson:"upi_vpa,omitempty"`
}

// PaymentRequest is the wire form of a selection.
type PaymentRequest struct {
	Method PaymentMethod `json:"method" binding:"required,oneof=cash card upi"`
	Card   *CardPayment  `json:"card,omitempty"`
	UPI    *UPIPayment   `json:"upi,omitempty"`
}

// Selection converts the request into its variant. A missing variant body
// yields an empty variant so field validation reports the missing fields.
func (r PaymentRequest) Selection() PaymentSelection {
	switch r.Method {
	case PaymentMethodCard:
		if r.Card == nil {
			return CardPayment{}
		}
		return *r.Card
	case PaymentMethodUPI:
		if r.UPI == nil {
			return UPIPayment{}
		}
		return *r.UPI
	default:
		return CashPayment{}
	}
}
