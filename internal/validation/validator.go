package validation

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"fintrack/internal/finance"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var currencyPattern = regexp.MustCompile(`^[A-Za-z]{3}$`)

// Validator wraps the go-playground validator with custom rules and error formatting
type Validator struct {
	validate *validator.Validate
}

// GetValidate returns the underlying validator.Validate instance for use with Echo
func (v *Validator) GetValidate() *validator.Validate {
	return v.validate
}

var (
	instance *Validator
	once     sync.Once
)

// GetValidator returns the shared validator instance
func GetValidator() *Validator {
	once.Do(func() {
		instance = NewValidator()
	})
	return instance
}

// NewValidator creates a new validator instance with custom rules and configuration
func NewValidator() *Validator {
	v := validator.New()

	// decimal fields are validated as their float value
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

	_ = v.RegisterValidation("money", validateMoney)
	_ = v.RegisterValidation("txtype", validateTransactionType)
	_ = v.RegisterValidation("currency", validateCurrency)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Struct validates a struct against its validate tags.
func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.InexactFloat64()
	}
	return nil
}

// validateMoney accepts positive amounts with at most two decimal places.
func validateMoney(fl validator.FieldLevel) bool {
	var d decimal.Decimal
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		d = decimal.NewFromFloat(fl.Field().Float())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		d = decimal.NewFromInt(fl.Field().Int())
	default:
		return false
	}
	if !d.IsPositive() {
		return false
	}
	return d.Equal(d.Truncate(2))
}

// validateTransactionType accepts income or expense in any casing.
func validateTransactionType(fl validator.FieldLevel) bool {
	_, ok := finance.ParseType(fl.Field().String())
	return ok
}

// validateCurrency accepts three letter codes; the service upper-cases them.
func validateCurrency(fl validator.FieldLevel) bool {
	return currencyPattern.MatchString(fl.Field().String())
}

// FormatErrors turns validator errors into "field: message" details.
func FormatErrors(err error) []string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, fe.Field()+": "+describe(fe))
	}
	return details
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "uuid":
		return "must be a valid id"
	case "money":
		return "must be a positive amount with at most two decimal places"
	case "txtype":
		return "must be income or expense"
	case "currency":
		return "must be a three letter currency code"
	case "hexcolor":
		return "must be a hex color like #aabbcc"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
