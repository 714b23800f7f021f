package sales

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dErrors "api_sales/pkg/domain-errors"
)

// maxSaleDateSkew bounds how far in the future a sale date may be.
const maxSaleDateSkew = 24 * time.Hour

// CreateSaleRequest is the input of the create-sale operation.
type CreateSaleRequest struct {
	SaleNumber string              `json:"sale_number" binding:"required,notblank"`
	SaleDate   time.Time           `json:"sale_date" binding:"required,not_after_tomorrow"`
	CustomerID uuid.UUID           `json:"customer_id" binding:"required"`
	BranchID   uuid.UUID           `json:"branch_id" binding:"required"`
	Items      []CreateItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateItemRequest is one requested sale line.
type CreateItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"min=1,max=20"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"positive_decimal"`
}

// RegisterValidators installs the decimal type mapping, the json field
// names and the custom rules used by the request tags.
func RegisterValidators(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return err
	}
	if err := v.RegisterValidation("positive_decimal", positiveDecimal); err != nil {
		return err
	}
	return v.RegisterValidation("not_after_tomorrow", notAfterTomorrow)
}

func positiveDecimal(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && d.IsPositive()
}

func notAfterTomorrow(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	return ok && !t.After(now().Add(maxSaleDateSkew))
}

// NewValidationError folds field failures into one Validation error that
// lists every violated field.
func NewValidationError(errs validator.ValidationErrors) error {
	problems := make([]string, 0, len(errs))
	for _, fe := range errs {
		problems = append(problems, fieldProblem(fe))
	}
	return dErrors.New(dErrors.CodeValidation, strings.Join(problems, "; "))
}

func fieldProblem(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required", "notblank":
		return field + " must not be empty"
	case "min", "max":
		if fe.Field() == "quantity" {
			return fmt.Sprintf("%s: You cannot buy less than 1 or more than %d pieces of the same item.", field, MaxItemQuantity)
		}
		return field + " must not be empty"
	case "positive_decimal":
		return field + " must be greater than 0"
	case "not_after_tomorrow":
		return field + " must not be more than one day in the future"
	}
	return fmt.Sprintf("%s failed on the %q rule", field, fe.Tag())
}

func (r CreateSaleRequest) itemInputs() []ItemInput {
	if r.Items == nil {
		return nil
	}
	inputs := make([]ItemInput, 0, len(r.Items))
	for _, item := range r.Items {
		inputs = append(inputs, ItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return inputs
}
