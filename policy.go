package seedpassplugin

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/go-secure-stdlib/parseutil"
)

// maxPasswordLength is the largest accepted password_length.
const maxPasswordLength = 4096

var (
	// ErrMissingField is returned when a required policy field is absent.
	ErrMissingField = errors.New("obligatory field not found")
	// ErrInvalidField is returned when a policy field has the wrong type.
	ErrInvalidField = errors.New("invalid argument conversion")
)

// ParsePolicy builds a Policy from loosely typed data such as a decoded JSON
// document. password_length may be any integer-like value; the remaining
// fields must have their exact types.
func ParsePolicy(raw map[string]interface{}) (*Policy, error) {
	p := &Policy{}

	v, ok := raw["password_length"]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingField, "password_length")
	}
	length, err := parseutil.ParseInt(integral(v))
	if err != nil {
		return nil, fmt.Errorf("%w: password_length: %v", ErrInvalidField, err)
	}
	p.PasswordLength = int(length)

	v, ok = raw["allowed_letters"]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingField, "allowed_letters")
	}
	if p.AllowedLetters, ok = v.(string); !ok {
		return nil, fmt.Errorf("%w: allowed_letters should be a string", ErrInvalidField)
	}

	if v, ok := raw["obligatory_sets"]; ok {
		sets, err := stringList(v)
		if err != nil {
			return nil, fmt.Errorf("%w: obligatory_sets should be a list of strings", ErrInvalidField)
		}
		p.ObligatorySets = sets
	}

	flags := []struct {
		name string
		dst  *bool
	}{
		{"upper_and_lowercase", &p.UpperAndLowercase},
		{"ends_with_letter", &p.EndsWithLetter},
		{"starts_with_letter", &p.StartsWithLetter},
	}
	for _, f := range flags {
		v, ok := raw[f.name]
		if !ok {
			continue
		}
		if *f.dst, ok = v.(bool); !ok {
			return nil, fmt.Errorf("%w: %s should be boolean", ErrInvalidField, f.name)
		}
	}

	return p, nil
}

// ReadPolicy decodes a JSON policy document from r.
func ReadPolicy(r io.Reader) (*Policy, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding policy: %w", err)
	}
	return ParsePolicy(raw)
}

// integral rewrites whole-valued floats and padded numeric strings into forms
// parseutil.ParseInt accepts. Fractional values are left for it to reject.
func integral(v interface{}) interface{} {
	switch n := v.(type) {
	case float64:
		if n == float64(int64(n)) {
			return int64(n)
		}
	case json.Number:
		if _, err := n.Int64(); err == nil {
			return n
		}
		if f, err := n.Float64(); err == nil && f == float64(int64(f)) {
			return int64(f)
		}
	case string:
		return integral(json.Number(strings.TrimSpace(n)))
	}
	return v
}

func stringList(v interface{}) ([]string, error) {
	switch l := v.(type) {
	case []string:
		return l, nil
	case []interface{}:
		out := make([]string, 0, len(l))
		for _, el := range l {
			s, ok := el.(string)
			if !ok {
				return nil, fmt.Errorf("element %v is not a string", el)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%T is not a list", v)
	}
}

// Validate reports every rule that would make the policy impossible to
// satisfy.
func (p *Policy) Validate() error {
	var errs *multierror.Error

	if p.PasswordLength < 1 {
		errs = multierror.Append(errs, fmt.Errorf("password_length must be at least 1, got %d", p.PasswordLength))
	}
	if p.PasswordLength > maxPasswordLength {
		errs = multierror.Append(errs, fmt.Errorf("password_length must be at most %d, got %d", maxPasswordLength, p.PasswordLength))
	}
	if free := p.freeCharacters(); free < 0 {
		errs = multierror.Append(errs, fmt.Errorf("password_length %d is shorter than the %d fixed positions", p.PasswordLength, p.PasswordLength-free))
	}
	for i, set := range p.ObligatorySets {
		if set == "" {
			errs = multierror.Append(errs, fmt.Errorf("obligatory_sets[%d] is empty", i))
		}
	}
	if (p.StartsWithLetter || p.EndsWithLetter) && p.AllowedLetters == "" {
		errs = multierror.Append(errs, errors.New("allowed_letters is empty but a leading or trailing letter is required"))
	}
	if p.freeCharacters() > 0 && len(p.characters()) == 0 {
		errs = multierror.Append(errs, errors.New("no characters available: allowed_letters and obligatory_sets are empty"))
	}

	return errs.ErrorOrNil()
}

// letters is the pool for leading and trailing letters.
func (p *Policy) letters() []rune {
	if !p.UpperAndLowercase {
		return []rune(p.AllowedLetters)
	}
	lower := distinct(strings.Map(unicode.ToLower, p.AllowedLetters))
	upper := distinct(strings.Map(unicode.ToUpper, p.AllowedLetters))
	return append(lower, upper...)
}

// characters is the pool for the free body of the password.
func (p *Policy) characters() []rune {
	return append(p.letters(), []rune(strings.Join(p.ObligatorySets, ""))...)
}

// freeCharacters is the number of body characters drawn from characters().
func (p *Policy) freeCharacters() int {
	n := p.PasswordLength - len(p.ObligatorySets)
	if p.StartsWithLetter {
		n--
	}
	if p.EndsWithLetter {
		n--
	}
	return n
}

// distinct returns the runes of s with duplicates removed, keeping the first
// occurrence of each.
func distinct(s string) []rune {
	seen := make(map[rune]bool)
	var out []rune
	for _, r := range s {
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}
