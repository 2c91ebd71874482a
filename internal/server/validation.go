package server

import (
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	userdomain "github.com/Apurer/user-management-api/internal/domains/users/domain"
)

var (
	registerOnce sync.Once
	phonePattern = regexp.MustCompile(`^(\d{10}|\d{12})?$`)
)

var fieldLabels = map[string]string{
	"email":       "Email",
	"firstName":   "First name",
	"lastName":    "Last name",
	"birthDate":   "Birth date",
	"address":     "Address",
	"phoneNumber": "Phone number",
}

// registerValidators installs the custom binding rules on gin's validator.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("nonblank", nonBlank)
		_ = v.RegisterValidation("phone", phoneNumber)
		_ = v.RegisterValidation("pastdate", pastDate)
	})
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

func nonBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func phoneNumber(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

// pastDate accepts calendar dates strictly before today in UTC.
func pastDate(fl validator.FieldLevel) bool {
	parsed, err := time.Parse(userdomain.DateLayout, strings.TrimSpace(fl.Field().String()))
	if err != nil {
		return false
	}
	return parsed.Before(userdomain.DateOf(time.Now().UTC()))
}

func fieldErrors(errs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "nonblank", "required":
		return label + " is required"
	case "email":
		return "Invalid email"
	case "datetime":
		return label + " must be in YYYY-MM-DD format"
	case "pastdate":
		return label + " must be in the past"
	case "phone":
		return "Invalid phone number format"
	default:
		return label + " is invalid"
	}
}
