package server

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validator checks request structs against their validate tags and
// renders failures as English sentences that name the JSON field.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	en_translations.RegisterDefaultTranslations(v, trans)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v, trans: trans}
}

// Struct validates req and returns a user-facing message on failure.
func (v *Validator) Struct(req any) (string, bool) {
	err := v.validate.Struct(req)
	if err == nil {
		return "", true
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return "Request body is not valid", false
	}

	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Translate(v.trans))
	}
	return strings.Join(msgs, "; "), false
}
