package status

import (
	"errors"
	"testing"
)

type light string

const (
	red    light = "red"
	green  light = "green"
	yellow light = "yellow"
	off    light = "off"
)

func lightMachine() *Machine[light] {
	return NewMachine("light", Table[light]{
		red:    {green, off},
		green:  {yellow},
		yellow: {red},
		off:    {},
	})
}

func TestMachineTransitions(t *testing.T) {
	m := lightMachine()
	if !m.CanTransition(red, green) {
		t.Fatal("expected red -> green")
	}
	if m.CanTransition(green, red) {
		t.Fatal("expected green -> red to be rejected")
	}
	if m.CanTransition("blue", red) {
		t.Fatal("expected unknown state to have no transitions")
	}
	if !m.Terminal(off) || m.Terminal(red) {
		t.Fatal("unexpected terminal states")
	}
	if !m.Known(off) || m.Known("blue") {
		t.Fatal("unexpected known states")
	}
	if err := m.Validate(green, off); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if got := m.States(); len(got) != 4 || got[0] != green {
		t.Fatalf("expected sorted states, got %v", got)
	}
}

func TestAvailableReturnsCopy(t *testing.T) {
	m := lightMachine()
	next := m.Available(red)
	next[0] = off
	if m.Available(red)[0] != green {
		t.Fatal("Available must not expose the table")
	}
}

func TestCatalogLookupFallsBack(t *testing.T) {
	c := Catalog[light]{red: {Label: "Red", Color: "bg-red-100 text-red-800"}}
	if c.Lookup(red).Label != "Red" {
		t.Fatal("expected known presentation")
	}
	p := c.Lookup("blue")
	if p.Label != "blue" || p.Color != "bg-gray-100 text-gray-800" {
		t.Fatalf("unexpected fallback %+v", p)
	}
	opts := c.Options([]light{red, green})
	if len(opts) != 2 || opts[0].Status != red || opts[1].Label != "green" {
		t.Fatalf("unexpected options %+v", opts)
	}
}
