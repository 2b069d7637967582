package migrations

import "github.com/yigit/edutrack/internal/pkg/dberrors"

// TableResult is the outcome of one CREATE TABLE statement
type TableResult struct {
	Name string
	Kind dberrors.Kind
	Err  error
}

// Report collects table outcomes in execution order
type Report struct {
	Tables []TableResult
}

func (r *Report) add(name string, kind dberrors.Kind, err error) {
	r.Tables = append(r.Tables, TableResult{Name: name, Kind: kind, Err: err})
}

func (r Report) names(match func(dberrors.Kind) bool) []string {
	var names []string
	for _, t := range r.Tables {
		if match(t.Kind) {
			names = append(names, t.Name)
		}
	}
	return names
}

// Created lists tables whose statement succeeded
func (r Report) Created() []string {
	return r.names(func(k dberrors.Kind) bool { return k == dberrors.None })
}

// Existing lists tables the server reported as already present
func (r Report) Existing() []string {
	return r.names(func(k dberrors.Kind) bool { return k == dberrors.AlreadyExists })
}

// Failed lists tables whose statement returned any other error
func (r Report) Failed() []string {
	return r.names(func(k dberrors.Kind) bool { return k == dberrors.Fatal || k == dberrors.Other })
}

// Available reports whether the named table is usable after the run
func (r Report) Available(name string) bool {
	for _, t := range r.Tables {
		if t.Name == name {
			return t.Kind == dberrors.None || t.Kind == dberrors.AlreadyExists
		}
	}
	return false
}
