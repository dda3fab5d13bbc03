// Package validation wires go-playground/validator with Brazilian Portuguese messages and the
// custom rules used by the registration form.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	ptbr_translations "github.com/go-playground/validator/v10/translations/pt_BR"

	"github.com/noah-isme/creche-api/pkg/format"
)

// MinPhoneDigits is the minimum number of digits accepted by the phone_digits rule.
const MinPhoneDigits = 10

// Validator couples a validate instance with its translator.
type Validator struct {
	validate *govalidator.Validate
	trans    ut.Translator
}

// New builds a validator that reports JSON field names and Portuguese messages.
func New() *Validator {
	v := govalidator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("phone_digits", phoneDigits)

	locale := pt_BR.New()
	uni := ut.New(locale, locale)
	trans, _ := uni.GetTranslator("pt_BR")
	_ = ptbr_translations.RegisterDefaultTranslations(v, trans)
	registerCustomTranslations(v, trans)

	return &Validator{validate: v, trans: trans}
}

// Struct validates a struct, returning validator.ValidationErrors on failure.
func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

// Translate converts a validation error into field → message. Errors that are not validation
// errors land under "detail".
func (v *Validator) Translate(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fieldPath(fe)] = fe.Translate(v.trans)
		}
		return fields
	}

	fields["detail"] = err.Error()
	return fields
}

// fieldPath drops the root struct name so nested fields read as profile.primaryGuardian.name.
func fieldPath(fe govalidator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func phoneDigits(fl govalidator.FieldLevel) bool {
	return len(format.Digits(fl.Field().String())) >= MinPhoneDigits
}

func registerCustomTranslations(v *govalidator.Validate, trans ut.Translator) {
	custom := map[string]string{
		"phone_digits": "{0} deve ter pelo menos 10 dígitos",
		"datetime":     "{0} deve ser uma data no formato AAAA-MM-DD",
	}
	for tag, text := range custom {
		tag, text := tag, text
		_ = v.RegisterTranslation(tag, trans, func(ut ut.Translator) error {
			return ut.Add(tag, text, true)
		}, func(ut ut.Translator, fe govalidator.FieldError) string {
			msg, err := ut.T(tag, fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		})
	}
}
