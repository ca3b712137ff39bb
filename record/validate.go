package record

import (
	"regexp"
	"sort"
)

// Form field names, as used in HTML inputs and in FieldErrors keys.
const (
	FieldName = "name"
	FieldAge  = "age"
)

const (
	MsgName = "Name must contain only letters"
	MsgAge  = "Age must be a number"
)

// FieldErrors maps a field name to the message shown next to it.
type FieldErrors map[string]string

// OK reports whether no field failed.
func (e FieldErrors) OK() bool { return len(e) == 0 }

// Fields returns the failing field names in sorted order.
func (e FieldErrors) Fields() []string {
	names := make([]string, 0, len(e))
	for k := range e {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

type rule struct {
	field   string
	pattern *regexp.Regexp
	message string
	value   func(Record) string
}

// whitespace is the ECMAScript \s class. RE2's \s is ASCII only, and names
// pasted from browsers often carry non-breaking spaces.
const whitespace = `\t\n\v\f\r \x{a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}`

var rules = []rule{
	{
		field:   FieldName,
		pattern: regexp.MustCompile(`^[A-Za-z` + whitespace + `]+$`),
		message: MsgName,
		value:   func(r Record) string { return r.Name },
	},
	{
		field:   FieldAge,
		pattern: regexp.MustCompile(`^\d+$`),
		message: MsgAge,
		value:   func(r Record) string { return string(r.Age) },
	},
}

// Validate checks every rule independently and returns the failures.
// An empty result means the draft may be submitted.
func Validate(r Record) FieldErrors {
	errs := FieldErrors{}
	for _, rl := range rules {
		if !rl.pattern.MatchString(rl.value(r)) {
			errs[rl.field] = rl.message
		}
	}
	return errs
}
