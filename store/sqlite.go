package store

import (
	"database/sql"
	"sync"

	"github.com/stevemurr/simple-user-table/record"
)

// SqliteStore keeps a session's records in a private in-memory SQLite
// database. Nothing touches disk.
//
// Table:
//
//	users(id, name, age)  id INTEGER PRIMARY KEY AUTOINCREMENT
//
// AUTOINCREMENT never reuses a rowid, and ORDER BY id is insertion order.
type SqliteStore struct {
	mu sync.RWMutex
	db *sql.DB
}

// NewSqliteStore opens a fresh in-memory database. The caller must import a
// driver registered as "sqlite3".
func NewSqliteStore() (*SqliteStore, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, err
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		age TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, err
	}
	return &SqliteStore{db: db}, nil
}

func (s *SqliteStore) Close() error {
	return s.db.Close()
}

func (s *SqliteStore) List() ([]record.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.Query("SELECT id, name, age FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []record.Record
	for rows.Next() {
		var r record.Record
		var age string
		if err := rows.Scan(&r.ID, &r.Name, &age); err != nil {
			return nil, err
		}
		r.Age = record.Age(age)
		result = append(result, r)
	}
	return result, rows.Err()
}

func (s *SqliteStore) Insert(r record.Record) (record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.Exec("INSERT INTO users (name, age) VALUES (?, ?)", r.Name, string(r.Age))
	if err != nil {
		return record.Record{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return record.Record{}, err
	}
	r.ID = int(id)
	return r, nil
}

func (s *SqliteStore) UpdateByID(id int, replacement record.Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.Exec(
		"UPDATE users SET name = ?, age = ? WHERE id = ?",
		replacement.Name, string(replacement.Age), id,
	)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *SqliteStore) DeleteByID(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
