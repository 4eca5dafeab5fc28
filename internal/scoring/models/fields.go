package models

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Field protocol: each field type owns one per-field rule and exposes it as
// Validate(raw, present). Descriptors are declared once per request type and
// evaluated fresh per incoming request; they hold no state across requests.
//
// Presence checks precede type checks. A required field must be present in
// the input regardless of nullability; a present but semantically empty value
// is rejected unless the field is nullable; an absent optional field yields
// the type's zero value and no further checks run.

// Spec carries the attributes shared by every field descriptor.
type Spec struct {
	Name     string
	Required bool
	Nullable bool
}

// presence applies the shared presence/emptiness rules. done means
// validation short-circuits successfully with the zero value.
func (s Spec) presence(raw any, present bool) (done bool, err error) {
	if !present {
		if s.Required {
			return false, fmt.Errorf("%s is required", s.Name)
		}
		return true, nil
	}
	if isEmpty(raw) {
		if !s.Nullable {
			return false, fmt.Errorf("%s cannot be empty", s.Name)
		}
		return true, nil
	}
	return false, nil
}

func (s Spec) errorf(format string, args ...any) error {
	return fmt.Errorf("%s %s", s.Name, fmt.Sprintf(format, args...))
}

// isEmpty reports semantic emptiness: nil, empty string, empty sequence and
// empty mapping all count as empty. Numbers are never empty, zero included.
func isEmpty(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	default:
		return false
	}
}

// toInt64 coerces JSON-decoded numeric raws to an integer. Floats with a
// fractional part and non-numeric kinds are rejected.
func toInt64(raw any) (int64, bool) {
	switch v := raw.(type) {
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if v == math.Trunc(v) {
			return int64(v), true
		}
	}
	return 0, false
}

// CharField accepts textual values.
type CharField struct{ Spec }

func (f CharField) Validate(raw any, present bool) (string, error) {
	if done, err := f.presence(raw, present); done || err != nil {
		return "", err
	}
	s, ok := raw.(string)
	if !ok {
		return "", f.errorf("must be a string")
	}
	return s, nil
}

// EmailField accepts textual values containing an @.
type EmailField struct{ Spec }

func (f EmailField) Validate(raw any, present bool) (string, error) {
	if done, err := f.presence(raw, present); done || err != nil {
		return "", err
	}
	s, ok := raw.(string)
	if !ok {
		return "", f.errorf("must be a string")
	}
	if !strings.ContainsRune(s, '@') {
		return "", f.errorf("must contain @")
	}
	return s, nil
}

var phonePattern = regexp.MustCompile(`^7\d{10}$`)

// PhoneField accepts a string or an integer; the normalized text must be
// exactly 11 digits starting with 7.
type PhoneField struct{ Spec }

func (f PhoneField) Validate(raw any, present bool) (string, error) {
	if done, err := f.presence(raw, present); done || err != nil {
		return "", err
	}
	var s string
	if v, ok := raw.(string); ok {
		s = v
	} else {
		n, ok := toInt64(raw)
		if !ok {
			return "", f.errorf("must be a string or an integer")
		}
		s = strconv.FormatInt(n, 10)
	}
	if !phonePattern.MatchString(s) {
		return "", f.errorf("must be 11 digits starting with 7")
	}
	return s, nil
}

// DateLayout is the wire format for dates.
const DateLayout = "02.01.2006"

// DateField accepts textual DD.MM.YYYY dates.
type DateField struct{ Spec }

func (f DateField) Validate(raw any, present bool) (time.Time, error) {
	if done, err := f.presence(raw, present); done || err != nil {
		return time.Time{}, err
	}
	s, ok := raw.(string)
	if !ok {
		return time.Time{}, f.errorf("must be a string in format DD.MM.YYYY")
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, f.errorf("must be a valid date in format DD.MM.YYYY")
	}
	return t, nil
}

// BirthDayField is a DateField whose computed age must not exceed MaxAge.
// The boundary is inclusive: exactly MaxAge years old is valid.
type BirthDayField struct {
	Spec
	MaxAge int
}

func (f BirthDayField) Validate(raw any, present bool) (time.Time, error) {
	t, err := DateField{f.Spec}.Validate(raw, present)
	if err != nil || t.IsZero() {
		return t, err
	}
	if yearsSince(t, time.Now()) > f.MaxAge {
		return time.Time{}, f.errorf("must be not more than %d years ago", f.MaxAge)
	}
	return t, nil
}

// yearsSince computes full years between birth and now, accounting for
// whether the anniversary has occurred yet this year.
func yearsSince(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if birth.AddDate(years, 0, 0).After(now) {
		years--
	}
	return years
}

// Gender enumeration values.
const (
	GenderUnknown int64 = 0
	GenderMale    int64 = 1
	GenderFemale  int64 = 2
)

// GenderField accepts an integer restricted to {0, 1, 2}.
type GenderField struct{ Spec }

func (f GenderField) Validate(raw any, present bool) (int64, error) {
	if done, err := f.presence(raw, present); done || err != nil {
		return 0, err
	}
	n, ok := toInt64(raw)
	if !ok || n < GenderUnknown || n > GenderFemale {
		return 0, f.errorf("must be one of 0, 1, 2")
	}
	return n, nil
}

// ClientIDsField accepts a sequence where every element is an integer.
type ClientIDsField struct {
	Spec
	MinLen int
}

func (f ClientIDsField) Validate(raw any, present bool) ([]int64, error) {
	if done, err := f.presence(raw, present); done || err != nil {
		return nil, err
	}
	seq, ok := raw.([]any)
	if !ok {
		return nil, f.errorf("must be a list of integers")
	}
	if len(seq) < f.MinLen {
		return nil, f.errorf("must contain at least %d element(s)", f.MinLen)
	}
	ids := make([]int64, 0, len(seq))
	for _, item := range seq {
		n, ok := toInt64(item)
		if !ok {
			return nil, f.errorf("must contain only integers")
		}
		ids = append(ids, n)
	}
	return ids, nil
}

// ArgumentsField accepts a mapping.
type ArgumentsField struct{ Spec }

func (f ArgumentsField) Validate(raw any, present bool) (map[string]any, error) {
	if done, err := f.presence(raw, present); done || err != nil {
		return map[string]any{}, err
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, f.errorf("must be an object")
	}
	return m, nil
}
