// Package validate checks decoded request bodies against their struct tags
// and reports failures as apperr validation errors.
package validate

import (
	"errors"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"coursereview/internal/apperr"
)

var validate *validator.Validate

var translator ut.Translator

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}

	if err := validate.RegisterValidation("capitalized", capitalized); err != nil {
		panic(err)
	}

	translator, _ = ut.New(en.New(), en.New()).GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}

	for _, tag := range []string{"required", "notblank"} {
		if err := validate.RegisterTranslation(tag, translator,
			func(t ut.Translator) error { return t.Add(tag, "{0} is required.", true) },
			func(t ut.Translator, fe validator.FieldError) string {
				msg, _ := t.T(tag, fe.Field())
				return msg
			},
		); err != nil {
			panic(err)
		}
	}

	if err := validate.RegisterTranslation("capitalized", translator,
		func(t ut.Translator) error {
			return t.Add("capitalized", "{0} must start with a capital letter.", true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T("capitalized", fe.Field())
			return msg
		},
	); err != nil {
		panic(err)
	}
}

// capitalized reports whether a string field begins with an upper-case
// letter. Empty strings pass; pair with required when needed.
func capitalized(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

// Check validates val. It returns nil, an *apperr.Error of kind
// InvalidRequest listing every failing field, or the validator's own error
// when val is not a struct.
func Check(val any) error {
	err := validate.Struct(val)
	if err == nil {
		return nil
	}

	var verrors validator.ValidationErrors
	if !errors.As(err, &verrors) {
		return err
	}

	order := make([]string, 0, len(verrors))
	fields := make(map[string]string, len(verrors))
	for _, fe := range verrors {
		name := fieldPath(fe.Namespace())
		if _, seen := fields[name]; seen {
			continue
		}
		msg := fe.Translate(translator)
		if name != fe.Field() && strings.HasPrefix(msg, fe.Field()) {
			msg = name + strings.TrimPrefix(msg, fe.Field())
		}
		if !strings.HasSuffix(msg, ".") {
			msg += "."
		}
		order = append(order, name)
		fields[name] = msg
	}
	return apperr.Validation(order, fields)
}

// fieldPath drops the top-level struct name from a validator namespace,
// leaving "title" or "details.level".
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
