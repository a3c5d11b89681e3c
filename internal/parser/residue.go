package parser

import (
	"fmt"
	"strconv"
	"strings"

	"pdbmap-importer/internal/models"
)

// residueFieldCount covers the fields a residue row is read from:
// index 2 (PDB residue token), 4 (UniProt residue token) and 5 (match
// symbol, possibly empty).
const residueFieldCount = 6

// ParseResidueMapping parses one residue correspondence row, e.g.
//
//	1a37	A	M1	1433B_HUMAN	M3	M
//
// Positions come from the residue tokens with the leading residue-type
// letter stripped ("M1" -> 1). alignmentID is the identifier of the
// alignment currently open in the stream.
func ParseResidueMapping(line string, lineNo, alignmentID int) (models.ResidueMapping, error) {
	parts := strings.Split(line, "\t")
	if len(parts) < residueFieldCount {
		return models.ResidueMapping{}, &MalformedResidueLineError{
			Line:    lineNo,
			Content: line,
			Reason:  fmt.Sprintf("want at least %d tab-separated fields, got %d", residueFieldCount, len(parts)),
		}
	}

	pdbPos, err := residuePosition(parts[2])
	if err != nil {
		return models.ResidueMapping{}, &MalformedResidueLineError{
			Line:    lineNo,
			Content: line,
			Reason:  fmt.Sprintf("bad pdb residue token: %v", err),
		}
	}
	uniprotPos, err := residuePosition(parts[4])
	if err != nil {
		return models.ResidueMapping{}, &MalformedResidueLineError{
			Line:    lineNo,
			Content: line,
			Reason:  fmt.Sprintf("bad uniprot residue token: %v", err),
		}
	}

	// An empty match field marks a mismatch/gap and is stored as a space.
	match := byte(' ')
	if parts[5] != "" {
		match = parts[5][0]
	}

	return models.ResidueMapping{
		AlignmentID:     alignmentID,
		PdbPosition:     pdbPos,
		UniprotPosition: uniprotPos,
		MatchSymbol:     match,
	}, nil
}

// residuePosition strips the residue-type letter from a token like "M1"
// and parses the remainder as an integer.
func residuePosition(token string) (int, error) {
	if len(token) < 2 {
		return 0, fmt.Errorf("token %q too short", token)
	}
	n, err := strconv.Atoi(token[1:])
	if err != nil {
		return 0, fmt.Errorf("token %q has non-numeric position", token)
	}
	return n, nil
}
