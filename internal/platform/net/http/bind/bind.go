// Package bind turns request bodies into validated values. Failures come
// back as perr errors: ErrorCodeJSON for bodies that do not decode and
// ErrorCodeValidation, naming the json field path, for tag failures.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"

	perr "custintel/internal/platform/errors"
	"custintel/internal/platform/logger"
)

// DefaultLimit caps bodies when Options.Limit is zero
const DefaultLimit = 1 << 20

type checker struct {
	v     *validator.Validate
	trans ut.Translator
}

var shared = sync.OnceValue(func() *checker {
	loc := en.New()
	trans, _ := ut.New(loc, loc).GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	_ = entrans.RegisterDefaultTranslations(v, trans)

	c := &checker{v: v, trans: trans}
	c.message("min", "{0} must be at least {1}")
	c.message("max", "{0} must be at most {1}")
	return c
})

func (c *checker) message(tag, text string) {
	_ = c.v.RegisterTranslation(tag, c.trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		})
}

// jsonName reports fields by their json key so messages match the payload
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

// RegisterOneOf adds tag as membership in a closed vocabulary. has decides
// membership, so callers keep their own normalisation; labels only feed the
// failure message. Registering the same tag again replaces it. Register
// before serving; registration races with validation.
func RegisterOneOf(tag string, has func(string) bool, labels []string) error {
	c := shared()
	err := c.v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		return ok && has(s)
	})
	if err != nil {
		return err
	}
	c.message(tag, fmt.Sprintf("{0} must be one of [%s]", strings.Join(labels, " ")))
	return nil
}

// Validate runs the validate tags of v
func Validate(v any) error {
	err := shared().v.Struct(v)
	if err == nil {
		return nil
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		logger.Get().Error().Err(inv).Msg("validator misuse")
		return perr.JSONErrf("body is not an object")
	}
	field, msg := Describe(err)
	return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", msg), field)
}

// Describe returns the field path and english message of the first
// validation failure in err, e.g. leads[2].urgency. Other errors give
// only their text.
func Describe(err error) (field, message string) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		if err == nil {
			return "", ""
		}
		return "", err.Error()
	}
	fe := verrs[0]
	msg := fe.Translate(shared().trans)
	field = fe.Field()
	// the namespace starts with the Go type name
	if _, path, ok := strings.Cut(fe.Namespace(), "."); ok && path != field {
		msg = strings.Replace(msg, field, path, 1)
		field = path
	}
	return field, msg
}

// Options tunes ParseJSON; the zero value is strict
type Options struct {
	Limit        int64 // body cap in bytes; 0 is DefaultLimit, negative is none
	AllowUnknown bool  // ignore keys T does not declare
	Optional     bool  // an empty body yields the zero T
}

// ParseJSON decodes exactly one JSON document from r into T and validates it
func ParseJSON[T any](r *http.Request, opts ...Options) (T, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.C(r.Context()).Warn().Err(err).Msg("close request body")
		}
	}()

	var body io.Reader = r.Body
	switch {
	case o.Limit == 0:
		body = io.LimitReader(body, DefaultLimit)
	case o.Limit > 0:
		body = io.LimitReader(body, o.Limit)
	}
	dec := json.NewDecoder(body)
	if !o.AllowUnknown {
		dec.DisallowUnknownFields()
	}

	var out, zero T
	switch err := dec.Decode(&out); {
	case errors.Is(err, io.EOF) && o.Optional:
		return zero, nil
	case errors.Is(err, io.EOF):
		return zero, perr.JSONErrf("empty body")
	case err != nil:
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		return zero, perr.JSONErrf("unexpected data after the JSON document")
	}
	if err := Validate(out); err != nil {
		return zero, err
	}
	return out, nil
}
