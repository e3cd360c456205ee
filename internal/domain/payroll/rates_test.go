package payroll

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestLoadRatesEmptyPathReturnsDefaults(t *testing.T) {
	rates, err := LoadRates("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rates.MinimumWage != MinimumWage || rates.UVTValue != UVTValue {
		t.Fatalf("expected default statutory values, got %+v", rates)
	}
	if err := rates.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadRatesOverlaysFile(t *testing.T) {
	rates, err := LoadRates(filepath.Join("testdata", "rates_2025.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rates.MinimumWage != 1423500 {
		t.Fatalf("expected minimum wage from file, got %v", rates.MinimumWage)
	}
	if rates.UVTValue != 49799 {
		t.Fatalf("expected uvt from file, got %v", rates.UVTValue)
	}
	if rates.PeriodDivisor(FrequencyMonthly) != 160 {
		t.Fatalf("expected period hours to keep defaults")
	}
	if len(rates.Withholding) != 4 {
		t.Fatalf("expected 4 withholding bands, got %d", len(rates.Withholding))
	}

	gross := 200 * rates.UVTValue
	want := 10*rates.UVTValue + 50*rates.UVTValue*0.28
	if got := rates.WithholdingFor(gross); !approxEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	gross = 400 * rates.UVTValue
	want = 69*rates.UVTValue + 40*rates.UVTValue*0.33
	if got := rates.WithholdingFor(gross); !approxEqual(got, want) {
		t.Fatalf("expected open band %v, got %v", want, got)
	}
}

func TestLoadRatesRejectsOverlappingBands(t *testing.T) {
	_, err := LoadRates(filepath.Join("testdata", "rates_overlap.yaml"))
	if !errors.Is(err, ErrInvalidRates) {
		t.Fatalf("expected ErrInvalidRates, got %v", err)
	}
}

func TestLoadRatesMissingFile(t *testing.T) {
	_, err := LoadRates(filepath.Join("testdata", "missing.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
	if errors.Is(err, ErrInvalidRates) {
		t.Fatalf("missing file should not be reported as an invalid table")
	}
}

func TestValidateRejectsBadTables(t *testing.T) {
	cases := map[string]func(r *Rates){
		"zero minimum wage": func(r *Rates) { r.MinimumWage = 0 },
		"zero uvt":          func(r *Rates) { r.UVTValue = 0 },
		"missing period":    func(r *Rates) { delete(r.PeriodHours, FrequencyBiweekly) },
		"short arl table":   func(r *Rates) { r.ARLRates = r.ARLRates[:3] },
		"rate above one":    func(r *Rates) { r.EmployerHealthRate = 1.5 },
		"open middle band": func(r *Rates) {
			r.Withholding = []Bracket{{FromUVT: 0}, {FromUVT: 95, ToUVT: 150, Rate: 0.19}}
		},
		"inverted band": func(r *Rates) {
			r.Withholding = []Bracket{{FromUVT: 100, ToUVT: 90, Rate: 0.19}}
		},
	}
	for name, mutate := range cases {
		rates := DefaultRates()
		mutate(&rates)
		if err := rates.Validate(); !errors.Is(err, ErrInvalidRates) {
			t.Fatalf("%s: expected ErrInvalidRates, got %v", name, err)
		}
	}
}

func TestDefaultRatesAreIndependentCopies(t *testing.T) {
	a := DefaultRates()
	a.ARLRates[0] = 1
	a.PeriodHours[FrequencyWeekly] = 1
	b := DefaultRates()
	if b.ARLRates[0] != 0.00522 || b.PeriodHours[FrequencyWeekly] != 40 {
		t.Fatalf("DefaultRates must not share state between calls")
	}
	if DefaultARLRates[0] != 0.00522 {
		t.Fatalf("package ARL table was mutated")
	}
}
