package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/dshills/rehance/internal/value"
)

// tagValidate is the validator instance for tag rules.
// Initialized in init() with the form-specific validations.
var tagValidate *validator.Validate

func init() {
	tagValidate = validator.New()

	// formemail applies the same address pattern as Email.
	_ = tagValidate.RegisterValidation("formemail", validateFormEmail)
}

func validateFormEmail(fl validator.FieldLevel) bool {
	return emailPattern.MatchString(fl.Field().String())
}

// Tag builds a rule from a validator tag expression such as
// "min=3,max=20" or "gte=0,lte=150". Empty values pass. The expression is
// checked when the rule is built; an unknown tag is an error.
func Tag(expr string, msg ...string) (Rule, error) {
	if err := checkTag(expr); err != nil {
		return Rule{}, err
	}
	return Rule{
		Key:     KeyTag,
		Message: message(MsgTag, msg),
		Test: func(v any) bool {
			if value.Empty(v) {
				return true
			}
			return varPasses(v, expr)
		},
	}, nil
}

// MustTag is Tag for expressions known to be valid. It panics on error.
func MustTag(expr string, msg ...string) Rule {
	r, err := Tag(expr, msg...)
	if err != nil {
		panic(err)
	}
	return r
}

// checkTag parses expr by running it once. validator panics on tags it
// cannot parse.
func checkTag(expr string) (err error) {
	if expr == "" {
		return fmt.Errorf("%w: empty expression", ErrInvalidTag)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w %q: %v", ErrInvalidTag, expr, r)
		}
	}()
	_ = tagValidate.Var("", expr)
	return nil
}

// varPasses runs a tag against v. A tag that cannot apply to the value's
// type fails the value.
func varPasses(v any, expr string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	return tagValidate.Var(v, expr) == nil
}
