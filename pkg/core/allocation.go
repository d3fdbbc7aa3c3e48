package core

import "github.com/shopspring/decimal"

// TractAllocation is one row of a schedule's Tract List.
type TractAllocation struct {
	// Tract is the normalized tract identifier
	Tract            string
	LegalDescription string
	GrossAcres       decimal.Decimal
	// AllocationFactor is the fraction of unit production attributed to the tract (0-1)
	AllocationFactor decimal.Decimal
	// Row is the 1-based row of the Tract List the entry was read from
	Row int
}

// Schedule is the validated content of a Schedule workbook.
type Schedule struct {
	// SheetName is the name of the Tract List sheet as found in the workbook
	SheetName string
	// Allocations is keyed by normalized tract identifier
	Allocations map[string]*TractAllocation
	// TractList holds every cell of the source sheet for passthrough rendering
	TractList [][]Value
	// Warnings collected while loading
	Warnings []Warning
}

// Lookup returns the allocation entry for a normalized tract.
func (s *Schedule) Lookup(tract string) (*TractAllocation, bool) {
	a, ok := s.Allocations[tract]
	return a, ok
}

// TotalFactor returns the sum of all allocation factors.
func (s *Schedule) TotalFactor() decimal.Decimal {
	total := decimal.Zero
	for _, a := range s.Allocations {
		total = total.Add(a.AllocationFactor)
	}
	return total
}
