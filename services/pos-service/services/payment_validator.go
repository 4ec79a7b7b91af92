package services

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/common/errors"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/models"
)

// identifier@identifier, e.g. name.surname@okbank
var vpaPattern = regexp.MustCompile(`^[\w.\-]{2,256}@[a-zA-Z][a-zA-Z0-9]{1,64}$`)

// PaymentValidator checks the method-specific fields of a PaymentSelection.
type PaymentValidator struct {
	validate *validator.Validate
	now      func() time.Time
}

func NewPaymentValidator(now func() time.Time) *PaymentValidator {
	if now == nil {
		now = time.Now
	}
	pv := &PaymentValidator{validate: validator.New(), now: now}

	pv.validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = pv.validate.RegisterValidation("vpa", func(fl validator.FieldLevel) bool {
		return vpaPattern.MatchString(fl.Field().String())
	})
	_ = pv.validate.RegisterValidation("card_expiry", func(fl validator.FieldLevel) bool {
		return pv.expiryValid(fl.Field().String())
	})
	return pv
}

// expiryValid accepts MM/YY for the current month or later.
func (pv *PaymentValidator) expiryValid(s string) bool {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return false
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return false
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	now := pv.now()
	year += 2000
	if year != now.Year() {
		return year > now.Year()
	}
	return month >= int(now.Month())
}

// Validate returns a *PaymentFieldError for the first bad field, or nil.
func (pv *PaymentValidator) Validate(sel models.PaymentSelection) error {
	var err error
	switch p := sel.(type) {
	case nil:
		return &apperrors.PaymentFieldError{Field: "method", Reason: "no payment method selected"}
	case models.CashPayment:
		return nil
	case models.CardPayment:
		err = pv.validate.Struct(p)
	case models.UPIPayment:
		err = pv.validate.Struct(p)
	default:
		return &apperrors.PaymentFieldError{Field: "method", Reason: fmt.Sprintf("unsupported method %q", sel.Method())}
	}
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &apperrors.PaymentFieldError{Field: "payment", Reason: err.Error()}
	}
	fe := verrs[0]
	return &apperrors.PaymentFieldError{Field: fe.Field(), Reason: reasonFor(fe)}
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "numeric":
		return "must contain digits only"
	case "len":
		return fmt.Sprintf("must be %s digits", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s digits", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "vpa":
		return "must look like name@bank"
	case "card_expiry":
		return "must be a future MM/YY date"
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}
