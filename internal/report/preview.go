package report

import (
	"strings"

	"github.com/leapstack-labs/leapdoi/internal/tract"
	"github.com/leapstack-labs/leapdoi/pkg/core"
)

// Preview summarises loaded inputs without building a report.
type Preview struct {
	Sheet   string         `json:"sheet"`
	Records int            `json:"records"`
	Tracts  []string       `json:"tracts"`
	Owners  int            `json:"owners"`
	ByType  map[string]int `json:"by_type"`
	// Other counts rows whose TYPE is not a standard interest type
	Other       int                 `json:"other"`
	Allocations []AllocationPreview `json:"allocations,omitempty"`
	// AllocationTotal is the sum of allocation factors, fixed to 8 places
	AllocationTotal string         `json:"allocation_total,omitempty"`
	Warnings        []core.Warning `json:"warnings"`
}

// AllocationPreview is one Tract List entry.
type AllocationPreview struct {
	Tract  string `json:"tract"`
	Legal  string `json:"legal_description,omitempty"`
	Acres  string `json:"acres"`
	Factor string `json:"allocation_factor"`
}

// NewPreview summarises ds and, when given, sched. Placeholder owners are
// not counted.
func NewPreview(ds *core.Dataset, sched *core.Schedule) *Preview {
	p := &Preview{
		Sheet:    ds.SheetName,
		Records:  len(ds.Records),
		Tracts:   tract.Sorted(ds.TractKeys()),
		ByType:   make(map[string]int, len(core.InterestTypes)),
		Other:    len(ds.Other),
		Warnings: append([]core.Warning{}, ds.Warnings...),
	}
	for _, t := range core.InterestTypes {
		p.ByType[string(t)] = 0
	}
	owners := make(map[string]struct{})
	for _, r := range ds.Records {
		p.ByType[string(r.Type)]++
		if !core.IsPlaceholderOwner(r.Owner) {
			owners[strings.TrimSpace(r.Owner)] = struct{}{}
		}
	}
	p.Owners = len(owners)

	if sched == nil {
		return p
	}
	keys := make([]string, 0, len(sched.Allocations))
	for k := range sched.Allocations {
		keys = append(keys, k)
	}
	tract.Sort(keys)
	for _, k := range keys {
		a := sched.Allocations[k]
		p.Allocations = append(p.Allocations, AllocationPreview{
			Tract:  a.Tract,
			Legal:  a.LegalDescription,
			Acres:  a.GrossAcres.String(),
			Factor: a.AllocationFactor.String(),
		})
	}
	p.AllocationTotal = sched.TotalFactor().StringFixed(8)
	p.Warnings = append(p.Warnings, sched.Warnings...)
	return p
}
