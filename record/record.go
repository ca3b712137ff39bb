// Package record defines the user record shown in the table and the
// validation rules its forms enforce.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Record is one row of the table.
type Record struct {
	ID   int    `json:"id" yaml:"id,omitempty"`
	Name string `json:"name" yaml:"name"`
	Age  Age    `json:"age" yaml:"age"`
}

// Age is kept exactly as the user typed it. Numeric input from JSON or YAML
// is coerced to its decimal text.
type Age string

// AgeOf returns the Age for a whole number of years.
func AgeOf(years int) Age {
	return Age(strconv.Itoa(years))
}

func (a Age) String() string { return string(a) }

func (a *Age) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*a = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Age(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("age: expected string or number, got %s", b)
	}
	*a = Age(n.String())
	return nil
}

func (a *Age) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("age: line %d: expected a scalar", n.Line)
	}
	if n.Tag == "!!null" {
		*a = ""
		return nil
	}
	*a = Age(n.Value)
	return nil
}

// Empty reports whether r is the blank draft a form starts from.
func (r Record) Empty() bool {
	return r.ID == 0 && r.Name == "" && r.Age == ""
}
