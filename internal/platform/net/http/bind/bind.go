// Package bind decodes and validates request payloads into project errors
package bind

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	perr "bluebird/internal/platform/errors"
	"bluebird/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validator bundles the validator with its english translator
type Validator struct {
	V     *validator.Validate
	Trans ut.Translator
}

// shorter texts than the library defaults; {0} is the json field name
var messages = map[string]string{
	"min":      "{0} must be at least {1}",
	"max":      "{0} must be at most {1}",
	"notblank": "{0} must not be blank",
}

// Get returns the process validator, built on first use
var Get = sync.OnceValue(func() *Validator {
	loc := en.New()
	trans, _ := ut.New(loc, loc).GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	_ = en_translations.RegisterDefaultTranslations(v, trans)
	_ = v.RegisterValidation("notblank", notBlank)

	for tag, text := range messages {
		_ = v.RegisterTranslation(tag, trans,
			func(t ut.Translator) error { return t.Add(tag, text, true) },
			func(t ut.Translator, fe validator.FieldError) string {
				msg, _ := t.T(tag, fe.Field(), fe.Param())
				return msg
			})
	}
	return &Validator{V: v, Trans: trans}
})

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

func notBlank(fl validator.FieldLevel) bool {
	f := fl.Field()
	return f.Kind() != reflect.String || strings.TrimSpace(f.String()) != ""
}

// RegisterValidation adds a custom tag to the process validator
func RegisterValidation(tag string, fn validator.Func) error {
	return Get().V.RegisterValidation(tag, fn)
}

// JSONOptions tunes ParseJSON. The zero value reads any size and tolerates unknown fields
type JSONOptions struct {
	MaxBytes        int64
	DisallowUnknown bool
	AllowEmptyBody  bool
}

// Strict is what handlers get by default: 1MB and no unknown fields
var Strict = JSONOptions{MaxBytes: 1 << 20, DisallowUnknown: true}

// ParseJSON decodes one JSON value into T and validates it. An empty body is
// a JSON error except on GET, HEAD, DELETE and OPTIONS, or when allowed
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	var out T
	o := Strict
	if len(opts) > 0 {
		o = opts[0]
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.Get().Warn().Err(err).Msg("closing request body")
		}
	}()

	var body io.Reader = r.Body
	if o.MaxBytes > 0 {
		body = io.LimitReader(body, o.MaxBytes)
	}
	var peek [1]byte
	n, _ := io.ReadFull(body, peek[:])
	if n == 0 {
		if o.AllowEmptyBody || bodyless(r.Method) {
			return out, nil
		}
		return out, perr.JSONErrf("empty body")
	}

	dec := json.NewDecoder(io.MultiReader(bytes.NewReader(peek[:n]), body))
	if o.DisallowUnknown {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&out); err != nil {
		var zero T
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		var zero T
		return zero, perr.JSONErrf("unexpected trailing data")
	}
	if err := Validate(out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func bodyless(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodDelete, http.MethodOptions:
		return true
	}
	return false
}

// Validate checks v's validate tags. The first failure becomes a Validation
// error naming its field
func Validate(v any) error {
	err := Get().V.Struct(v)
	if err == nil {
		return nil
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		logger.Get().Error().Err(inv).Msg("validate called with a non struct")
		return perr.Internalf("validation error")
	}
	field, msg := FieldAndMessage(err)
	return perr.WithField(perr.New(perr.ErrorCodeValidation, msg), field)
}

// FieldAndMessage is the first failing field and its translated message
func FieldAndMessage(err error) (field, message string) {
	var verrs validator.ValidationErrors
	switch {
	case err == nil:
		return "", ""
	case errors.As(err, &verrs) && len(verrs) > 0:
		return verrs[0].Field(), verrs[0].Translate(Get().Trans)
	}
	return "", err.Error()
}
