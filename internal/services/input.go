package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"budgeter/internal/core"
)

// EntryInput is the raw add-entry form. Only presence is checked here;
// parsing happens in AddEntry.
type EntryInput struct {
	Merchant string `json:"merchant" form:"merchant" validate:"notblank"`
	Amount   string `json:"amount" form:"amount" validate:"notblank"`
	Category string `json:"category" form:"category"`
	Date     string `json:"date" form:"date" validate:"notblank"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkPresence maps the first failing field to its domain error.
func checkPresence(v *validator.Validate, in EntryInput) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	switch verrs[0].Field() {
	case "merchant":
		return core.ErrEmptyMerchant
	case "amount":
		return core.ErrInvalidAmount
	default:
		return core.ErrInvalidDate
	}
}
