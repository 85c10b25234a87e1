package http

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"authorsite/internal/httpx"
)

var validate *validator.Validate

var langCodeRe = regexp.MustCompile(`^[a-zA-Z]{2,3}$`)

func init() {
	validate = validator.New()

	validate.RegisterValidation("lang_code", validateLangCode)
}

// validateLangCode accepts two- or three-letter language codes as used by
// the upstream search index.
func validateLangCode(fl validator.FieldLevel) bool {
	return langCodeRe.MatchString(fl.Field().String())
}

// ValidateStruct runs the tag validators on s and maps failures to the
// error-detail shape of the response envelope. Returns nil when valid.
func ValidateStruct(s interface{}) []httpx.ErrorDetail {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var details []httpx.ErrorDetail
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		tag := err.Tag()
		param := err.Param()

		var message string
		switch tag {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", field, param)
		case "numeric":
			message = fmt.Sprintf("%s must be numeric", field)
		case "lang_code":
			message = fmt.Sprintf("%s must be a 2-3 letter language code", field)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}

		fieldName := strings.ToLower(field[:1]) + field[1:]
		details = append(details, httpx.ErrorDetail{
			Field:   fieldName,
			Message: message,
		})
	}

	return details
}
