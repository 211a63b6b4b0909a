// Package validate checks request payloads before any network call is made,
// so the user sees a local validation message instead of a round trip.
package validate

import (
	"errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var check *validator.Validate

var translator ut.Translator

func init() {
	check = validator.New()

	translator, _ = ut.New(en.New(), en.New()).GetTranslator("en")
	en_translations.RegisterDefaultTranslations(check, translator)
}

// Check validates the struct tags of val and returns the first failure as a
// translated, user-readable error.
func Check(val any) error {
	err := check.Struct(val)
	if err == nil {
		return nil
	}

	verrors, ok := err.(validator.ValidationErrors)
	if !ok || len(verrors) < 1 {
		return err
	}

	return errors.New(verrors[0].Translate(translator))
}
