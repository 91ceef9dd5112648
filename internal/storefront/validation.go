package storefront

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// FieldErrors maps a field's JSON name to a message. Validation never
// returns an error value.
type FieldErrors map[string]string

// FormValue is user input that may arrive as a JSON string or number.
type FormValue string

func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	*v = FormValue(data)
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func check(form any) FieldErrors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"form": err.Error()}
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = fieldMessage(fe)
		}
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "numeric":
		return fmt.Sprintf("%s must be numeric", fe.Field())
	case "number":
		return fmt.Sprintf("%s must be a whole number", fe.Field())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

// PaymentForm is the payment editor's input before validation.
type PaymentForm struct {
	IDPayment    FormValue `json:"idPayment" validate:"omitempty,number"`
	IDOrder      FormValue `json:"idOrder" validate:"required,number"`
	Amount       FormValue `json:"amount" validate:"required,numeric"`
	Ref          string    `json:"ref" validate:"required"`
	Date         string    `json:"date"`
	IsApproved   bool      `json:"isApproved"`
	CustomerName string    `json:"customerName"`
}

func (f PaymentForm) trimmed() PaymentForm {
	f.IDPayment = FormValue(strings.TrimSpace(string(f.IDPayment)))
	f.IDOrder = FormValue(strings.TrimSpace(string(f.IDOrder)))
	f.Amount = FormValue(strings.TrimSpace(string(f.Amount)))
	f.Ref = strings.TrimSpace(f.Ref)
	f.Date = strings.TrimSpace(f.Date)
	f.CustomerName = strings.TrimSpace(f.CustomerName)
	return f
}

// ValidatePayment checks a form for create (requireID=false) or update.
func ValidatePayment(f PaymentForm, requireID bool) FieldErrors {
	_, fe := f.payment(requireID, time.Now)
	return fe
}

func (f PaymentForm) payment(requireID bool, now func() time.Time) (domain.Payment, FieldErrors) {
	f = f.trimmed()
	fe := check(f)
	if fe == nil {
		fe = FieldErrors{}
	}
	if requireID && f.IDPayment == "" {
		if _, seen := fe["idPayment"]; !seen {
			fe["idPayment"] = "idPayment is required"
		}
	}

	var p domain.Payment
	if _, bad := fe["amount"]; !bad {
		amount, err := decimal.NewFromString(string(f.Amount))
		if err != nil {
			fe["amount"] = "amount must be numeric"
		}
		p.Amount = amount
	}
	if _, bad := fe["idOrder"]; !bad {
		p.IDOrder = wholeNumber(fe, "idOrder", f.IDOrder)
	}
	if _, bad := fe["idPayment"]; !bad && f.IDPayment != "" {
		p.IDPayment = wholeNumber(fe, "idPayment", f.IDPayment)
	}
	if f.Date == "" {
		p.Date = domain.NewTimestamp(now())
	} else if ts, err := domain.ParseTimestamp(f.Date); err != nil {
		fe["date"] = "date must be an ISO-8601 date"
	} else {
		p.Date = ts
	}
	p.Ref = f.Ref
	p.IsApproved = f.IsApproved
	p.CustomerName = f.CustomerName

	if len(fe) > 0 {
		return domain.Payment{}, fe
	}
	return p, nil
}

// ProductForm is the product editor's input before validation.
type ProductForm struct {
	IDProduct   FormValue `json:"idProduct" validate:"omitempty,number"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description"`
	Price       FormValue `json:"price" validate:"required,numeric"`
	Image       string    `json:"image"`
	Stock       FormValue `json:"stock" validate:"omitempty,number"`
	IsActive    *bool     `json:"isActive"`
}

// ValidateProduct checks a form for create (requireID=false) or update.
func ValidateProduct(f ProductForm, requireID bool) FieldErrors {
	_, fe := f.product(requireID)
	return fe
}

func (f ProductForm) product(requireID bool) (domain.Product, FieldErrors) {
	f.IDProduct = FormValue(strings.TrimSpace(string(f.IDProduct)))
	f.Name = strings.TrimSpace(f.Name)
	f.Price = FormValue(strings.TrimSpace(string(f.Price)))
	f.Stock = FormValue(strings.TrimSpace(string(f.Stock)))

	fe := check(f)
	if fe == nil {
		fe = FieldErrors{}
	}
	if requireID && f.IDProduct == "" {
		if _, seen := fe["idProduct"]; !seen {
			fe["idProduct"] = "idProduct is required"
		}
	}

	p := domain.Product{
		Name:        f.Name,
		Description: strings.TrimSpace(f.Description),
		Image:       strings.TrimSpace(f.Image),
		IsActive:    f.IsActive == nil || *f.IsActive,
	}
	if _, bad := fe["price"]; !bad {
		price, err := decimal.NewFromString(string(f.Price))
		switch {
		case err != nil:
			fe["price"] = "price must be numeric"
		case price.IsNegative():
			fe["price"] = "price must not be negative"
		}
		p.Price = price
	}
	if _, bad := fe["stock"]; !bad && f.Stock != "" {
		stock := wholeNumber(fe, "stock", f.Stock)
		if _, bad := fe["stock"]; !bad && stock < 0 {
			fe["stock"] = "stock must not be negative"
		}
		p.Stock = stock
	}
	if _, bad := fe["idProduct"]; !bad && f.IDProduct != "" {
		p.IDProduct = wholeNumber(fe, "idProduct", f.IDProduct)
	}

	if len(fe) > 0 {
		return domain.Product{}, fe
	}
	return p, nil
}

// wholeNumber converts a value already checked by the number tag. Values that
// do not fit an int are recorded as a field error.
func wholeNumber(fe FieldErrors, field string, v FormValue) int {
	n, err := strconv.Atoi(string(v))
	if err != nil {
		fe[field] = fmt.Sprintf("%s is out of range", field)
		return 0
	}
	return n
}
