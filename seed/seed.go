// Package seed provides the records a new UI session starts with.
package seed

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stevemurr/simple-user-table/record"
	"github.com/stevemurr/simple-user-table/store"
)

// Default returns the built-in seed rows.
func Default() []record.Record {
	return []record.Record{
		{Name: "Jess", Age: record.AgeOf(20)},
		{Name: "John", Age: record.AgeOf(32)},
		{Name: "Verli", Age: record.AgeOf(29)},
		{Name: "Samy", Age: record.AgeOf(5)},
	}
}

// Load reads a YAML (or JSON) list of {name, age} entries from path.
// An empty path yields Default. Ids in the file are ignored; the store
// assigns them on insert.
func Load(path string) ([]record.Record, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes seed entries and rejects any entry the forms would reject.
// Blank input yields an empty list.
func Parse(data []byte) ([]record.Record, error) {
	var rs []record.Record
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rs); err != nil {
		if len(bytes.TrimSpace(data)) == 0 {
			return []record.Record{}, nil
		}
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	for i := range rs {
		rs[i].ID = 0
		if errs := record.Validate(rs[i]); !errs.OK() {
			field := errs.Fields()[0]
			return nil, fmt.Errorf("seed entry %d (%q): %s", i+1, rs[i].Name, errs[field])
		}
	}
	return rs, nil
}

// Apply inserts records into s in order.
func Apply(s store.Store, records []record.Record) error {
	for _, r := range records {
		if _, err := s.Insert(r); err != nil {
			return fmt.Errorf("seed %q: %w", r.Name, err)
		}
	}
	return nil
}
