package core

import "strings"

// InterestType identifies the kind of mineral interest a record describes.
type InterestType string

// Interest type constants.
const (
	InterestMI   InterestType = "MI"
	InterestNPRI InterestType = "NPRI"
	InterestORI  InterestType = "ORI"
	InterestWI   InterestType = "WI"
)

// InterestTypes lists the standard interest types in sheet order.
var InterestTypes = []InterestType{InterestMI, InterestNPRI, InterestORI, InterestWI}

// ParseInterestType converts a raw TYPE cell to an InterestType.
// Returns false for anything outside {MI, NPRI, ORI, WI}.
func ParseInterestType(raw string) (InterestType, bool) {
	switch t := InterestType(strings.ToUpper(strings.TrimSpace(raw))); t {
	case InterestMI, InterestNPRI, InterestORI, InterestWI:
		return t, true
	default:
		return "", false
	}
}

// SheetName returns the output sheet name for the interest type.
// Mineral interests are reported on the LORI sheet.
func (t InterestType) SheetName() string {
	if t == InterestMI {
		return "LORI"
	}
	return string(t)
}

// Title returns the long name used in page headers.
func (t InterestType) Title() string {
	switch t {
	case InterestMI:
		return "Landowner Royalty Interests"
	case InterestNPRI:
		return "Non-Participating Royalty Interests"
	case InterestORI:
		return "Overriding Royalty Interests"
	case InterestWI:
		return "Working Interests"
	default:
		return string(t)
	}
}

// NRIBasis describes what the TRACT NRI column of the source data means.
type NRIBasis string

const (
	// BasisFactor treats TRACT NRI as a tract-level factor; an owner's NRI is
	// TRACT NRI x DECIMAL INTEREST.
	BasisFactor NRIBasis = "factor"
	// BasisOwner treats TRACT NRI as the owner's net interest in the tract.
	BasisOwner NRIBasis = "owner"
)

// ParseNRIBasis converts a config string to an NRIBasis.
func ParseNRIBasis(s string) (NRIBasis, bool) {
	switch NRIBasis(strings.ToLower(strings.TrimSpace(s))) {
	case BasisFactor, "":
		return BasisFactor, true
	case BasisOwner:
		return BasisOwner, true
	default:
		return BasisFactor, false
	}
}
