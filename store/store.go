// Package store defines the record store interface and implementations.
package store

import "github.com/stevemurr/simple-user-table/record"

// Store is an ordered collection of records belonging to one UI session.
//
// Ids are assigned by the store on Insert from a counter that only moves
// forward, so an id is never handed out twice by the same store even after
// deletions.
type Store interface {
	// List returns every record in insertion order.
	List() ([]record.Record, error)

	// Insert assigns the next id to r, appends it and returns the stored record.
	Insert(r record.Record) (record.Record, error)

	// UpdateByID replaces the record with the given id in place. The stored
	// record keeps id regardless of replacement.ID. Returns false if no
	// record matched; that is not an error.
	UpdateByID(id int, replacement record.Record) (bool, error)

	// DeleteByID removes every record with the given id. Returns true if any
	// existed.
	DeleteByID(id int) (bool, error)

	// Close releases resources held by the store.
	Close() error
}
