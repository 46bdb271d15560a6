package console

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/stockdesk/stockdesk/internal/inventory"
)

// MsgRequiredFields is shown when the product form fails local validation.
const MsgRequiredFields = "Please fill in all required fields"

// ValidationError reports a product form rejected before any backend call.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return MsgRequiredFields
}

// IsValidation reports whether err is a local form failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// ProductForm holds the raw product modal fields as submitted.
type ProductForm struct {
	ID          int64  `validate:"gte=0"`
	Name        string `validate:"required"`
	SKU         string `validate:"required"`
	Category    string `validate:"required"`
	Price       string `validate:"required,nonzero_decimal"`
	Stock       string `validate:"required,integer"`
	MinStock    string
	Description string
}

// NewValidator returns a validator with the product form rules registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("nonzero_decimal", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
		return err == nil && !d.IsZero()
	})
	_ = v.RegisterValidation("integer", func(fl validator.FieldLevel) bool {
		_, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
		return err == nil
	})
	return v
}

// FormFromProduct pre-fills the edit form from p.
func FormFromProduct(p inventory.Product) ProductForm {
	return ProductForm{
		ID:          p.ID,
		Name:        p.Name,
		SKU:         p.SKU,
		Category:    p.Category,
		Price:       p.Price.String(),
		Stock:       strconv.Itoa(p.StockQuantity),
		MinStock:    strconv.Itoa(p.MinStockLevel),
		Description: p.Description,
	}
}

// Trim strips surrounding whitespace from every text field.
func (f ProductForm) Trim() ProductForm {
	f.Name = strings.TrimSpace(f.Name)
	f.SKU = strings.TrimSpace(f.SKU)
	f.Category = strings.TrimSpace(f.Category)
	f.Price = strings.TrimSpace(f.Price)
	f.Stock = strings.TrimSpace(f.Stock)
	f.MinStock = strings.TrimSpace(f.MinStock)
	return f
}

// Input validates the form and converts it to a backend payload. A blank or
// unparsable minimum stock level falls back to the backend default.
func (f ProductForm) Input(v *validator.Validate) (inventory.ProductInput, error) {
	f = f.Trim()
	if err := v.Struct(f); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			verr := &ValidationError{}
			for _, fe := range fieldErrs {
				verr.Fields = append(verr.Fields, fe.Field())
			}
			return inventory.ProductInput{}, verr
		}
		return inventory.ProductInput{}, err
	}
	price, _ := decimal.NewFromString(f.Price)
	stock, _ := strconv.Atoi(f.Stock)
	minStock, err := strconv.Atoi(f.MinStock)
	if err != nil {
		minStock = inventory.DefaultMinStockLevel
	}
	return inventory.ProductInput{
		Name:          f.Name,
		SKU:           f.SKU,
		Category:      f.Category,
		Price:         price,
		StockQuantity: stock,
		MinStockLevel: minStock,
		Description:   f.Description,
	}, nil
}
