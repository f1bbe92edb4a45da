package service

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pkordes/tripbook/backend/internal/domain"
)

// validate is shared by every fieldRules; validator caches per-tag parsing
// and is safe for concurrent use.
var validate = validator.New()

// fieldRules accumulates per-field messages while a payload is checked.
// Each helper returns the cleaned value so callers can build the domain
// type in the same pass.
type fieldRules struct {
	errs domain.ValidationError
}

// check runs the validator tag against value and records a message for the
// first failing rule. It reports whether value passed.
func (f *fieldRules) check(field string, value any, tag string) bool {
	err := validate.Var(value, tag)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		f.errs.Add(field, fmt.Sprintf("the %s is invalid", field))
		return false
	}
	f.errs.Add(field, fieldMessage(field, verrs[0]))
	return false
}

// fieldMessage renders a validator failure in the API's wording.
func fieldMessage(field string, fe validator.FieldError) string {
	text := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("the %s field is required", field)
	case "email":
		return fmt.Sprintf("the %s must be a valid email address", field)
	case "min":
		if text {
			return fmt.Sprintf("the %s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("the %s must be at least %s", field, fe.Param())
	case "max":
		if text {
			return fmt.Sprintf("the %s must not be greater than %s characters", field, fe.Param())
		}
		return fmt.Sprintf("the %s must not be greater than %s", field, fe.Param())
	default:
		return fmt.Sprintf("the %s is invalid", field)
	}
}

func (f *fieldRules) required(field, value string) string {
	v := strings.TrimSpace(value)
	f.check(field, v, "required")
	return v
}

func (f *fieldRules) maxLen(field, value string, n int) {
	if f.errs.Has(field) {
		return
	}
	f.check(field, value, "max="+strconv.Itoa(n))
}

// date parses a required date. Both "2006-01-02" and RFC 3339 timestamps are
// accepted; the time of day is dropped.
func (f *fieldRules) date(field, value string) (time.Time, bool) {
	v := f.required(field, value)
	if v == "" {
		return time.Time{}, false
	}
	d, err := parseDate(v)
	if err != nil {
		f.errs.Add(field, fmt.Sprintf("the %s is not a valid date", field))
		return time.Time{}, false
	}
	return d, true
}

func (f *fieldRules) money(field, value string) (domain.Money, bool) {
	v := f.required(field, value)
	if v == "" {
		return 0, false
	}
	m, err := domain.ParseMoney(v)
	if err != nil {
		f.errs.Add(field, fmt.Sprintf("the %s %s", field, err))
		return 0, false
	}
	return m, true
}

// integer parses a required integer and checks it against the validator
// range tag, e.g. "min=1,max=2147483647".
func (f *fieldRules) integer(field, value, rangeTag string) (int, bool) {
	v := f.required(field, value)
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			f.errs.Add(field, fmt.Sprintf("the %s is out of range", field))
		} else {
			f.errs.Add(field, fmt.Sprintf("the %s must be an integer", field))
		}
		return 0, false
	}
	if !f.check(field, n, rangeTag) {
		return 0, false
	}
	return int(n), true
}

func (f *fieldRules) email(field, value string) string {
	v := f.required(field, value)
	if v == "" {
		return v
	}
	f.check(field, v, "email,max=255")
	return v
}

func (f *fieldRules) err() error {
	return f.errs.OrNil()
}

func parseDate(s string) (time.Time, error) {
	if d, err := time.Parse(time.DateOnly, s); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), nil
}
