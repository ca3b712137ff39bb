// Package state holds one UI session's application state: the record store,
// the view mode and the two forms. Front ends never mutate it directly; they
// Dispatch actions and render the View snapshot.
package state

import (
	"fmt"
	"slices"
	"sync"

	"github.com/stevemurr/simple-user-table/record"
	"github.com/stevemurr/simple-user-table/store"
)

// Mode selects which form is shown above the table.
type Mode int

const (
	ModeAdding Mode = iota
	ModeEditing
)

func (m Mode) String() string {
	switch m {
	case ModeAdding:
		return "adding"
	case ModeEditing:
		return "editing"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Form is a form's working draft and the errors from its last submission.
type Form struct {
	Draft  record.Record
	Errors record.FieldErrors
}

func (f Form) clone() Form {
	out := Form{Draft: f.Draft}
	if f.Errors != nil {
		out.Errors = make(record.FieldErrors, len(f.Errors))
		for k, v := range f.Errors {
			out.Errors[k] = v
		}
	}
	return out
}

// View is an immutable snapshot for renderers.
type View struct {
	Mode    Mode
	Records []record.Record
	Add     Form
	Edit    Form
}

// Editing reports whether the Edit form replaces the Add form.
func (v View) Editing() bool { return v.Mode == ModeEditing }

// Outcome reports what a dispatched action did.
type Outcome struct {
	// Record is the stored record after a successful insert or update.
	Record record.Record
	// Errors is non-empty when validation rejected the draft.
	Errors record.FieldErrors
	// Changed is true when the store was mutated.
	Changed bool
}

// App is the application state of one UI session. Safe for concurrent use;
// actions are applied one at a time.
type App struct {
	mu    sync.Mutex
	store store.Store
	mode  Mode
	add   Form
	edit  Form
}

// New returns an App in ModeAdding over s.
func New(s store.Store) *App {
	return &App{store: s}
}

// Dispatch applies one action.
func (a *App) Dispatch(act Action) (Outcome, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return act.apply(a)
}

// View returns the current snapshot.
func (a *App) View() (View, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	rs, err := a.store.List()
	if err != nil {
		return View{}, fmt.Errorf("list records: %w", err)
	}
	return View{
		Mode:    a.mode,
		Records: slices.Clone(rs),
		Add:     a.add.clone(),
		Edit:    a.edit.clone(),
	}, nil
}

// Mode returns the current view mode.
func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// Close releases the session's store.
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.Close()
}

// setMode switches forms. Leaving ModeAdding discards the Add form, and
// leaving ModeEditing discards the Edit form.
func (a *App) setMode(m Mode) {
	if a.mode == m {
		return
	}
	switch a.mode {
	case ModeAdding:
		a.add = Form{}
	case ModeEditing:
		a.edit = Form{}
	}
	a.mode = m
}

func (a *App) find(id int) (record.Record, bool, error) {
	rs, err := a.store.List()
	if err != nil {
		return record.Record{}, false, fmt.Errorf("list records: %w", err)
	}
	i := slices.IndexFunc(rs, func(r record.Record) bool { return r.ID == id })
	if i < 0 {
		return record.Record{}, false, nil
	}
	return rs[i], true, nil
}
