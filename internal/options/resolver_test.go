package options

import (
	"testing"
	"time"

	"github.com/charleira/b3penny/internal/model"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func f(v float64) *float64 { return &v }

func opt(underlying, typ string, strike *float64, expiration string) model.OptionRecord {
	return model.OptionRecord{
		Ticker:     underlying + "X00",
		Underlying: underlying,
		Type:       typ,
		Strike:     strike,
		Expiration: expiration,
	}
}

func TestResolve_NearestPerSide(t *testing.T) {
	snap := &model.DerivativesSnapshot{Options: []model.OptionRecord{
		opt("AAAA3", model.ContractCall, f(5.0), "2026-01-16"),
		opt("AAAA3", model.ContractCall, f(6.0), "2026-02-20"),
		opt("AAAA3", model.ContractPut, f(4.5), "2026-01-16"),
	}}

	got := NewResolver(nil).Resolve("AAAA3", snap, date("2026-01-01"))

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(got), got)
	}
	// Sorted by strike: PUT(4.5) before CALL(5.0).
	if got[0].Type != model.ContractPut || *got[0].Strike != 4.5 {
		t.Errorf("got[0] = %s/%v, want PUT/4.5", got[0].Type, *got[0].Strike)
	}
	if got[1].Type != model.ContractCall || *got[1].Strike != 5.0 {
		t.Errorf("got[1] = %s/%v, want CALL/5.0", got[1].Type, *got[1].Strike)
	}
}

func TestResolve_SidesMayDiffer(t *testing.T) {
	// CALLs expire earlier than PUTs; each side keeps its own nearest date.
	snap := &model.DerivativesSnapshot{Options: []model.OptionRecord{
		opt("TASA4", model.ContractCall, f(8.0), "2026-01-16"),
		opt("TASA4", model.ContractCall, f(9.0), "2026-01-16"),
		opt("TASA4", model.ContractCall, f(8.5), "2026-02-20"),
		opt("TASA4", model.ContractPut, f(7.5), "2026-02-20"),
		opt("TASA4", model.ContractPut, f(7.0), "2026-03-20"),
	}}

	got := NewResolver(nil).Resolve("TASA4", snap, date("2026-01-01"))

	callDates := map[string]bool{}
	putDates := map[string]bool{}
	for _, o := range got {
		switch o.Type {
		case model.ContractCall:
			callDates[o.Expiration] = true
		case model.ContractPut:
			putDates[o.Expiration] = true
		}
	}

	if len(callDates) != 1 || !callDates["2026-01-16"] {
		t.Errorf("call expirations = %v, want only 2026-01-16", callDates)
	}
	if len(putDates) != 1 || !putDates["2026-02-20"] {
		t.Errorf("put expirations = %v, want only 2026-02-20", putDates)
	}
	if len(got) != 3 {
		t.Errorf("len = %d, want 3 (two calls + one put)", len(got))
	}
}

func TestResolve_NeverReturnsPastContracts(t *testing.T) {
	snap := &model.DerivativesSnapshot{Options: []model.OptionRecord{
		opt("AAAA3", model.ContractCall, f(5.0), "2025-12-19"),
		opt("AAAA3", model.ContractPut, f(4.0), "2025-11-21"),
		opt("AAAA3", model.ContractCall, f(5.5), ""),
	}}

	got := NewResolver(nil).Resolve("AAAA3", snap, date("2026-01-01"))
	if len(got) != 0 {
		t.Errorf("len = %d, want 0: %+v", len(got), got)
	}
}

func TestResolve_TodayIsNotPast(t *testing.T) {
	// expirationDate >= today keeps contracts expiring today.
	snap := &model.DerivativesSnapshot{Options: []model.OptionRecord{
		opt("AAAA3", model.ContractCall, f(5.0), "2026-01-16"),
	}}

	got := NewResolver(nil).Resolve("AAAA3", snap, date("2026-01-16"))
	if len(got) != 1 {
		t.Errorf("len = %d, want 1", len(got))
	}
}

func TestResolve_StrikeOrderWithAbsentFirst(t *testing.T) {
	snap := &model.DerivativesSnapshot{Options: []model.OptionRecord{
		opt("AAAA3", model.ContractCall, f(6.0), "2026-01-16"),
		opt("AAAA3", model.ContractCall, nil, "2026-01-16"),
		opt("AAAA3", model.ContractPut, f(4.5), "2026-01-16"),
		opt("AAAA3", model.ContractCall, f(5.0), "2026-01-16"),
	}}

	got := NewResolver(nil).Resolve("AAAA3", snap, date("2026-01-01"))

	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	if got[0].Strike != nil {
		t.Errorf("got[0].Strike = %v, want nil first", *got[0].Strike)
	}
	prev := -1.0
	for _, o := range got[1:] {
		if o.Strike == nil {
			t.Fatal("absent strike after a present one")
		}
		if *o.Strike < prev {
			t.Errorf("strikes not non-decreasing: %v after %v", *o.Strike, prev)
		}
		prev = *o.Strike
	}
}

func TestResolve_MatchesFullTickerNotPrefix(t *testing.T) {
	// TASA3 and TASA4 share the 4-char root; only exact matches count.
	snap := &model.DerivativesSnapshot{Options: []model.OptionRecord{
		opt("TASA3", model.ContractCall, f(5.0), "2026-01-16"),
		opt("TASA4", model.ContractCall, f(6.0), "2026-01-16"),
	}}

	got := NewResolver(nil).Resolve("TASA4", snap, date("2026-01-01"))
	if len(got) != 1 || got[0].Underlying != "TASA4" {
		t.Errorf("got = %+v, want only the TASA4 contract", got)
	}
}

func TestResolve_CaseInsensitiveTicker(t *testing.T) {
	snap := &model.DerivativesSnapshot{Options: []model.OptionRecord{
		opt("AAAA3", model.ContractCall, f(5.0), "2026-01-16"),
	}}

	got := NewResolver(nil).Resolve("aaaa3", snap, date("2026-01-01"))
	if len(got) != 1 {
		t.Errorf("len = %d, want 1 for lower-case input", len(got))
	}
}

func TestResolve_ShortTicker(t *testing.T) {
	// Tickers shorter than the 4-char root are still matched exactly.
	snap := &model.DerivativesSnapshot{Options: []model.OptionRecord{
		opt("AB", model.ContractPut, f(1.0), "2026-01-16"),
	}}

	got := NewResolver(nil).Resolve("ab", snap, date("2026-01-01"))
	if len(got) != 1 {
		t.Errorf("len = %d, want 1 for short ticker", len(got))
	}
}

func TestResolve_AbsentSnapshot(t *testing.T) {
	got := NewResolver(nil).Resolve("AAAA3", nil, date("2026-01-01"))
	if got == nil {
		t.Fatal("Resolve returned nil, want empty slice")
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}
