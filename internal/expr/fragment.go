// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package expr

import (
	"strings"
)

// Fragment is a chunk of SQL text together with the parameters for the
// placeholders it contains.
type Fragment struct {
	SQL    string
	Params []any
}

// Builder accumulates fragments into a single statement. The fragments are
// kept in the order they were appended.
type Builder struct {
	fragments []Fragment
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Append adds a fragment to the end of the statement. The fragment text is
// separated from the previous one by a single space.
func (b *Builder) Append(sql string, params ...any) *Builder {
	f := Fragment{SQL: sql}
	if len(params) > 0 {
		f.Params = append([]any(nil), params...)
	}
	b.fragments = append(b.fragments, f)
	return b
}

// Fragments returns a copy of the fragments appended so far.
func (b *Builder) Fragments() []Fragment {
	return append([]Fragment(nil), b.fragments...)
}

// Build assembles the fragments into a Statement. It can be called any
// number of times.
func (b *Builder) Build() *Statement {
	var sb strings.Builder
	params := []any{}
	for _, f := range b.fragments {
		sb.WriteString(" ")
		sb.WriteString(f.SQL)
		params = append(params, f.Params...)
	}
	return &Statement{SQL: strings.TrimSpace(sb.String()), Params: params}
}

// Statement is the SQL text and the flattened parameter list that is sent to
// the database.
type Statement struct {
	SQL    string
	Params []any
}

// String returns the statement text.
func (s *Statement) String() string {
	return s.SQL
}
