package loader

import "github.com/leapstack-labs/leapdoi/internal/workbook"

// Combined sheet headers.
const (
	ColOwner            = "OWNER"
	ColType             = "TYPE"
	ColTract            = "TRACT"
	ColTractNRI         = "TRACT NRI"
	ColDecimalInterest  = "DECIMAL INTEREST"
	ColLeaseNo          = "LEASE NO."
	ColReq              = "REQ"
	ColLeaseRoyalty     = "LEASE ROYALTY"
	ColNPRIBurdens      = "NPRI BURDENS"
	ColNetAcres         = "NET ACRES"
	ColAddress          = "ADDRESS"
	ColLegalDescription = "Legal Description"
	ColGrossAcres       = "Tract Gross Acres"
	ColBurdenedOwners   = "Burdened WI Owners"
	ColNPRI             = "NPRI"
	ColORI              = "ORI"
	ColInterestBurdened = "INTEREST BURDENED"
	ColShareOfNPRI      = "SHARE OF NPRI"
	ColShareOfORI       = "SHARE OF ORI"
	ColAcresBurdened    = "ACRES BURDENED"
	ColORIBurdens       = "ORI BURDENS"
	ColWITract          = "WI (TRACT)"
)

// RequiredColumns must all be present in the Combined header row.
var RequiredColumns = []string{ColOwner, ColType, ColTract}

// combinedColumns holds resolved column indexes; -1 marks an absent column.
type combinedColumns struct {
	owner, typ, tract                    int
	tractNRI, decimalInterest            int
	leaseNo, req                         int
	leaseRoyalty, npriBurdens, netAcres  int
	address, legal, grossAcres, burdened int
	npri, ori, interestBurdened          int
	shareOfNPRI, shareOfORI, acresBurden int
	oriBurdens, wiTract                  int
}

func resolveColumns(t *workbook.Table) combinedColumns {
	idx := func(name string) int {
		if i, ok := t.Column(name); ok {
			return i
		}
		return -1
	}
	return combinedColumns{
		owner:            idx(ColOwner),
		typ:              idx(ColType),
		tract:            idx(ColTract),
		tractNRI:         idx(ColTractNRI),
		decimalInterest:  idx(ColDecimalInterest),
		leaseNo:          idx(ColLeaseNo),
		req:              idx(ColReq),
		leaseRoyalty:     idx(ColLeaseRoyalty),
		npriBurdens:      idx(ColNPRIBurdens),
		netAcres:         idx(ColNetAcres),
		address:          idx(ColAddress),
		legal:            idx(ColLegalDescription),
		grossAcres:       idx(ColGrossAcres),
		burdened:         idx(ColBurdenedOwners),
		npri:             idx(ColNPRI),
		ori:              idx(ColORI),
		interestBurdened: idx(ColInterestBurdened),
		shareOfNPRI:      idx(ColShareOfNPRI),
		shareOfORI:       idx(ColShareOfORI),
		acresBurden:      idx(ColAcresBurdened),
		oriBurdens:       idx(ColORIBurdens),
		wiTract:          idx(ColWITract),
	}
}

// text returns the trimmed cell, treating the spreadsheet "nan" marker as blank.
func text(row []string, i int) string {
	s := workbook.Cell(row, i)
	if s == "nan" || s == "NaN" {
		return ""
	}
	return s
}
