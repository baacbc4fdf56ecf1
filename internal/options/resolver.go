package options

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/charleira/b3penny/internal/model"
)

const dateLayout = "2006-01-02"

// Resolver computes option sets from the derivatives snapshot.
type Resolver struct {
	logger *slog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{logger: logger}
}

// Resolve returns the contracts on the given underlying at the nearest future
// expiration of each side (CALL, PUT), sorted ascending by strike with
// absent strikes first. The result is empty, never nil and never an error,
// when the snapshot is absent or nothing matches.
func (r *Resolver) Resolve(ticker string, snap *model.DerivativesSnapshot, today time.Time) []model.OptionRecord {
	resolved := []model.OptionRecord{}
	if snap == nil {
		return resolved
	}

	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	todayStr := today.UTC().Format(dateLayout)

	// Matching is by the exact underlying ticker; the 4-char root is the
	// derivative contract's code family, kept for the log line only.
	root := ticker
	if len(root) > 4 {
		root = root[:4]
	}

	calls := sideAtNearestExpiration(snap.Options, ticker, model.ContractCall, todayStr)
	puts := sideAtNearestExpiration(snap.Options, ticker, model.ContractPut, todayStr)

	resolved = append(resolved, calls...)
	resolved = append(resolved, puts...)

	// Ascending strike, absent strike sorts first.
	sort.SliceStable(resolved, func(i, j int) bool {
		si, sj := resolved[i].Strike, resolved[j].Strike
		switch {
		case si == nil:
			return sj != nil
		case sj == nil:
			return false
		default:
			return *si < *sj
		}
	})

	r.logger.Debug("options resolved",
		"ticker", ticker,
		"root", root,
		"calls", len(calls),
		"puts", len(puts),
	)

	return resolved
}

// sideAtNearestExpiration filters one contract type down to the records at
// that side's earliest future expiration. Dates are "2006-01-02" strings, so
// lexicographic comparison is chronological.
func sideAtNearestExpiration(all []model.OptionRecord, ticker, contractType, today string) []model.OptionRecord {
	var nearest string
	var kept []model.OptionRecord

	for _, opt := range all {
		if opt.Type != contractType {
			continue
		}
		if strings.ToUpper(opt.Underlying) != ticker {
			continue
		}
		// Past-dated or undated contracts are never returned.
		if opt.Expiration == "" || opt.Expiration < today {
			continue
		}

		switch {
		case nearest == "" || opt.Expiration < nearest:
			nearest = opt.Expiration
			kept = append(kept[:0], opt)
		case opt.Expiration == nearest:
			kept = append(kept, opt)
		}
	}

	return kept
}
