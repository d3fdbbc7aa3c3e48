package report

import (
	"slices"
	"strings"

	"github.com/leapstack-labs/leapdoi/internal/tract"
	"github.com/leapstack-labs/leapdoi/pkg/core"
)

// reportable returns the records of one type that belong on a sheet,
// dropping placeholder owners.
func reportable(ds *core.Dataset, t core.InterestType) []*core.OwnershipRecord {
	var out []*core.OwnershipRecord
	for _, r := range ds.Records {
		if r.Type == t && !core.IsPlaceholderOwner(r.Owner) {
			out = append(out, r)
		}
	}
	return out
}

// groupByTract groups records by tract key. Keys come back in natural order;
// records within a group are sorted by owner name, keeping source order for ties.
func groupByTract(records []*core.OwnershipRecord) ([]string, map[string][]*core.OwnershipRecord) {
	groups := make(map[string][]*core.OwnershipRecord)
	var keys []string
	for _, r := range records {
		if _, ok := groups[r.TractKey]; !ok {
			keys = append(keys, r.TractKey)
		}
		groups[r.TractKey] = append(groups[r.TractKey], r)
	}
	tract.Sort(keys)
	for _, g := range groups {
		slices.SortStableFunc(g, func(a, b *core.OwnershipRecord) int {
			return strings.Compare(a.Owner, b.Owner)
		})
	}
	return keys, groups
}

// groupByOwner groups records by owner name. Owners come back sorted;
// records within a group are in natural tract order.
func groupByOwner(records []*core.OwnershipRecord) ([]string, map[string][]*core.OwnershipRecord) {
	groups := make(map[string][]*core.OwnershipRecord)
	var owners []string
	for _, r := range records {
		if _, ok := groups[r.Owner]; !ok {
			owners = append(owners, r.Owner)
		}
		groups[r.Owner] = append(groups[r.Owner], r)
	}
	slices.Sort(owners)
	for _, g := range groups {
		slices.SortStableFunc(g, func(a, b *core.OwnershipRecord) int {
			return tract.Compare(a.TractKey, b.TractKey)
		})
	}
	return owners, groups
}

// tractInfo is the descriptive data shown in a tract block header.
type tractInfo struct {
	legal string
	gross core.Value
}

// collectTractInfo takes each tract's description from its first record,
// using Tract Gross Acres and falling back to NET ACRES.
func collectTractInfo(ds *core.Dataset) map[string]tractInfo {
	info := make(map[string]tractInfo)
	for _, r := range ds.Records {
		if _, ok := info[r.TractKey]; ok {
			continue
		}
		gross := r.NetAcres
		if r.GrossAcres.Valid {
			gross = r.GrossAcres.Decimal
		}
		info[r.TractKey] = tractInfo{legal: r.LegalDescription, gross: core.Number(gross)}
	}
	return info
}
