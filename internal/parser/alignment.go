package parser

import (
	"fmt"
	"strconv"
	"strings"

	"pdbmap-importer/internal/models"
)

// alignmentFieldCount is the number of leading tab-separated fields a
// header line must carry (indices 0-9). Real mapping files append the
// aligned PDB, UniProt and consensus sequences after index 9; those are
// ignored here.
const alignmentFieldCount = 10

// ParseAlignment parses one line already classified as an alignment
// header, e.g.
//
//	>1a37	A	1433B_HUMAN	1	32	3	34	0.000000	29.000000	90.625000
//
// The split keeps trailing empty fields (strings.Split, never
// strings.Fields) so an empty final column is still a column.
// alignmentID is assigned by the caller and is only consumed on
// success, so a malformed header never advances the counter.
func ParseAlignment(line string, lineNo, alignmentID int) (models.AlignmentRecord, error) {
	parts := strings.Split(line, "\t")
	if len(parts) < alignmentFieldCount {
		return models.AlignmentRecord{}, &MalformedAlignmentLineError{
			Line:    lineNo,
			Content: line,
			Reason:  fmt.Sprintf("want at least %d tab-separated fields, got %d", alignmentFieldCount, len(parts)),
		}
	}

	rec := models.AlignmentRecord{
		AlignmentID: alignmentID,
		PdbID:       strings.TrimPrefix(parts[0], ">"),
		Chain:       parts[1],
		UniprotID:   parts[2],
	}

	var err error
	if rec.PdbFrom, err = strconv.Atoi(parts[3]); err != nil {
		return models.AlignmentRecord{}, numericAlignmentError(lineNo, line, "pdb_from", parts[3])
	}
	if rec.PdbTo, err = strconv.Atoi(parts[4]); err != nil {
		return models.AlignmentRecord{}, numericAlignmentError(lineNo, line, "pdb_to", parts[4])
	}
	if rec.UniprotFrom, err = strconv.Atoi(parts[5]); err != nil {
		return models.AlignmentRecord{}, numericAlignmentError(lineNo, line, "uniprot_from", parts[5])
	}
	if rec.UniprotTo, err = strconv.Atoi(parts[6]); err != nil {
		return models.AlignmentRecord{}, numericAlignmentError(lineNo, line, "uniprot_to", parts[6])
	}
	if rec.EValue, err = strconv.ParseFloat(parts[7], 64); err != nil {
		return models.AlignmentRecord{}, numericAlignmentError(lineNo, line, "evalue", parts[7])
	}
	if rec.Identity, err = strconv.ParseFloat(parts[8], 64); err != nil {
		return models.AlignmentRecord{}, numericAlignmentError(lineNo, line, "identity", parts[8])
	}
	if rec.IdentityPercent, err = strconv.ParseFloat(parts[9], 64); err != nil {
		return models.AlignmentRecord{}, numericAlignmentError(lineNo, line, "identity_percent", parts[9])
	}

	return rec, nil
}

func numericAlignmentError(lineNo int, line, field, value string) error {
	return &MalformedAlignmentLineError{
		Line:    lineNo,
		Content: line,
		Reason:  fmt.Sprintf("bad %s value %q", field, value),
	}
}
