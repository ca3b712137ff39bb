package state

import (
	"fmt"

	"github.com/stevemurr/simple-user-table/record"
)

// Action is a state transition. The set is closed; see the types below.
type Action interface {
	apply(a *App) (Outcome, error)
}

// AddUser submits the Add form.
type AddUser struct {
	Draft record.Record
}

func (act AddUser) apply(a *App) (Outcome, error) {
	errs := record.Validate(act.Draft)
	if !errs.OK() {
		a.add = Form{Draft: act.Draft, Errors: errs}
		return Outcome{Errors: errs}, nil
	}
	stored, err := a.store.Insert(act.Draft)
	if err != nil {
		return Outcome{}, fmt.Errorf("insert record: %w", err)
	}
	a.add = Form{}
	return Outcome{Record: stored, Changed: true}, nil
}

// EditUser opens the Edit form on the record with ID. Replaces any edit in
// progress. Unknown ids are ignored.
type EditUser struct {
	ID int
}

func (act EditUser) apply(a *App) (Outcome, error) {
	r, ok, err := a.find(act.ID)
	if err != nil || !ok {
		return Outcome{}, err
	}
	a.setMode(ModeEditing)
	a.edit = Form{Draft: r}
	return Outcome{Record: r}, nil
}

// UpdateUser submits the Edit form for the record with ID.
type UpdateUser struct {
	ID    int
	Draft record.Record
}

func (act UpdateUser) apply(a *App) (Outcome, error) {
	draft := act.Draft
	draft.ID = act.ID
	errs := record.Validate(draft)
	if !errs.OK() {
		a.setMode(ModeEditing)
		a.edit = Form{Draft: draft, Errors: errs}
		return Outcome{Errors: errs}, nil
	}
	found, err := a.store.UpdateByID(act.ID, draft)
	if err != nil {
		return Outcome{}, fmt.Errorf("update record %d: %w", act.ID, err)
	}
	a.setMode(ModeAdding)
	if !found {
		return Outcome{}, nil
	}
	return Outcome{Record: draft, Changed: true}, nil
}

// CancelEdit leaves the Edit form without touching the store.
type CancelEdit struct{}

func (CancelEdit) apply(a *App) (Outcome, error) {
	a.setMode(ModeAdding)
	return Outcome{}, nil
}

// DeleteUser removes the record with ID. Unknown ids are ignored.
type DeleteUser struct {
	ID int
}

func (act DeleteUser) apply(a *App) (Outcome, error) {
	found, err := a.store.DeleteByID(act.ID)
	if err != nil {
		return Outcome{}, fmt.Errorf("delete record %d: %w", act.ID, err)
	}
	return Outcome{Changed: found}, nil
}

// CreateRecord validates and inserts r without touching either form. Used
// by clients that bypass the forms.
type CreateRecord struct {
	Record record.Record
}

func (act CreateRecord) apply(a *App) (Outcome, error) {
	if errs := record.Validate(act.Record); !errs.OK() {
		return Outcome{Errors: errs}, nil
	}
	stored, err := a.store.Insert(act.Record)
	if err != nil {
		return Outcome{}, fmt.Errorf("insert record: %w", err)
	}
	return Outcome{Record: stored, Changed: true}, nil
}

// ReplaceRecord validates r and replaces the record with ID, leaving the
// forms and mode alone.
type ReplaceRecord struct {
	ID     int
	Record record.Record
}

func (act ReplaceRecord) apply(a *App) (Outcome, error) {
	r := act.Record
	r.ID = act.ID
	if errs := record.Validate(r); !errs.OK() {
		return Outcome{Errors: errs}, nil
	}
	found, err := a.store.UpdateByID(act.ID, r)
	if err != nil {
		return Outcome{}, fmt.Errorf("update record %d: %w", act.ID, err)
	}
	if !found {
		return Outcome{}, nil
	}
	return Outcome{Record: r, Changed: true}, nil
}
