package report

import (
	"github.com/leapstack-labs/leapdoi/pkg/core"
	"github.com/shopspring/decimal"
)

// loriLookup resolves the lease royalty shown on WI rows. Royalties come from
// the MI rows of the same tract: by lease number, else the tract's first
// royalty.
type loriLookup struct {
	byLease  map[string]map[string]decimal.Decimal
	fallback map[string]decimal.Decimal
}

func newLoriLookup(records []*core.OwnershipRecord) *loriLookup {
	l := &loriLookup{
		byLease:  make(map[string]map[string]decimal.Decimal),
		fallback: make(map[string]decimal.Decimal),
	}
	for _, r := range records {
		if r.Type != core.InterestMI || !r.LeaseRoyalty.Valid {
			continue
		}
		royalty := r.LeaseRoyalty.Decimal
		if r.LeaseNo != "" {
			leases, ok := l.byLease[r.TractKey]
			if !ok {
				leases = make(map[string]decimal.Decimal)
				l.byLease[r.TractKey] = leases
			}
			leases[r.LeaseNo] = royalty
		}
		if _, ok := l.fallback[r.TractKey]; !ok {
			l.fallback[r.TractKey] = royalty
		}
	}
	return l
}

// Royalty returns the royalty for a tract and lease, or zero when the tract
// has no MI royalty at all.
func (l *loriLookup) Royalty(tract, lease string) decimal.Decimal {
	if d, ok := l.byLease[tract][lease]; ok && lease != "" {
		return d
	}
	return l.fallback[tract]
}
