package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// OwnershipRecord is one row of the Combined ownership table.
// Records are immutable once loaded.
type OwnershipRecord struct {
	// Row is the 1-based spreadsheet row the record was read from
	Row int
	// Owner is the owner name as written in the source
	Owner string
	// Address is the optional owner mailing address
	Address string
	// Type is the parsed interest type
	Type InterestType
	// RawType is the TYPE cell as written (kept for "other" reporting)
	RawType string
	// Tract is the TRACT cell as written
	Tract string
	// TractKey is the normalized tract identifier used for grouping and joins
	TractKey string

	TractNRI        decimal.Decimal
	DecimalInterest decimal.Decimal
	LeaseNo         string
	ReqNo           string
	LeaseRoyalty    decimal.NullDecimal
	NPRIBurden      decimal.NullDecimal
	NetAcres        decimal.Decimal

	// Optional interest-specific columns
	LegalDescription string
	GrossAcres       decimal.NullDecimal
	BurdenedOwners   string
	NPRI             decimal.NullDecimal
	ORI              decimal.NullDecimal
	InterestBurdened decimal.NullDecimal
	ShareOfNPRI      decimal.NullDecimal
	ShareOfORI       decimal.NullDecimal
	AcresBurdened    decimal.NullDecimal
	ORIBurdens       decimal.NullDecimal
	WITract          decimal.NullDecimal
}

// NRI returns the owner's net revenue interest in the tract under the given basis.
func (r *OwnershipRecord) NRI(basis NRIBasis) decimal.Decimal {
	if basis == BasisOwner {
		return r.TractNRI
	}
	return r.TractNRI.Mul(r.DecimalInterest)
}

// BurdenedNRI derives the royalty-burdened NRI of a mineral interest row.
// Returns false when the row carries no lease royalty.
func (r *OwnershipRecord) BurdenedNRI(basis NRIBasis) (decimal.Decimal, bool) {
	if !r.LeaseRoyalty.Valid {
		return decimal.Zero, false
	}
	npri := decimal.Zero
	if r.NPRIBurden.Valid {
		npri = r.NPRIBurden.Decimal
	}
	if basis == BasisOwner {
		return r.DecimalInterest.Mul(r.LeaseRoyalty.Decimal).Sub(npri), true
	}
	return r.TractNRI.Mul(r.DecimalInterest).Mul(r.LeaseRoyalty.Decimal.Sub(npri)), true
}

// Interest returns the type-specific interest column, falling back to DECIMAL INTEREST.
func (r *OwnershipRecord) Interest() decimal.Decimal {
	switch r.Type {
	case InterestNPRI:
		if r.NPRI.Valid {
			return r.NPRI.Decimal
		}
	case InterestORI:
		if r.ORI.Valid {
			return r.ORI.Decimal
		}
	}
	return r.DecimalInterest
}

// placeholderOwners are owner cells that mark "no owner" rows in source data.
var placeholderOwners = map[string]struct{}{
	"":      {},
	"none":  {},
	"none.": {},
	"nan":   {},
}

// IsPlaceholderOwner reports whether an owner cell is a "no owner" marker.
func IsPlaceholderOwner(owner string) bool {
	_, ok := placeholderOwners[strings.ToLower(strings.TrimSpace(owner))]
	return ok
}

// Dataset is the validated content of a Combined workbook.
type Dataset struct {
	// SheetName is the sheet the records were read from
	SheetName string
	// HeaderRow is the 1-based row holding the column headers
	HeaderRow int
	// Records holds every record of a standard interest type, in source order
	Records []*OwnershipRecord
	// Other holds records whose TYPE is not a standard interest type
	Other []*OwnershipRecord
	// Warnings collected while loading
	Warnings []Warning
}

// ByType returns the records of one interest type, in source order.
func (d *Dataset) ByType(t InterestType) []*OwnershipRecord {
	var out []*OwnershipRecord
	for _, r := range d.Records {
		if r.Type == t {
			out = append(out, r)
		}
	}
	return out
}

// TypeCounts returns the number of records per interest type.
func (d *Dataset) TypeCounts() map[InterestType]int {
	counts := make(map[InterestType]int, len(InterestTypes))
	for _, r := range d.Records {
		counts[r.Type]++
	}
	return counts
}

// TractKeys returns the distinct normalized tracts in first-seen order.
func (d *Dataset) TractKeys() []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, r := range d.Records {
		if _, ok := seen[r.TractKey]; ok {
			continue
		}
		seen[r.TractKey] = struct{}{}
		keys = append(keys, r.TractKey)
	}
	return keys
}

// OwnerCount returns the number of distinct owners across standard records.
func (d *Dataset) OwnerCount() int {
	seen := make(map[string]struct{})
	for _, r := range d.Records {
		seen[strings.TrimSpace(r.Owner)] = struct{}{}
	}
	return len(seen)
}
