package status

import (
	"fmt"
	"slices"
)

// Table maps each state to the states it may move to. A state with no entry or
// an empty list is terminal.
type Table[S ~string] map[S][]S

type Machine[S ~string] struct {
	entity string
	table  Table[S]
}

func NewMachine[S ~string](entity string, table Table[S]) *Machine[S] {
	return &Machine[S]{entity: entity, table: table}
}

func (m *Machine[S]) Entity() string {
	return m.entity
}

func (m *Machine[S]) Known(s S) bool {
	_, ok := m.table[s]
	return ok
}

func (m *Machine[S]) CanTransition(from, to S) bool {
	return slices.Contains(m.table[from], to)
}

// Available returns a copy; callers may modify it.
func (m *Machine[S]) Available(from S) []S {
	return slices.Clone(m.table[from])
}

func (m *Machine[S]) Terminal(s S) bool {
	return len(m.table[s]) == 0
}

func (m *Machine[S]) States() []S {
	out := make([]S, 0, len(m.table))
	for s := range m.table {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

func (m *Machine[S]) Validate(from, to S) error {
	if !m.CanTransition(from, to) {
		return fmt.Errorf("%w: %s from %s to %s", ErrInvalidTransition, m.entity, from, to)
	}
	return nil
}
