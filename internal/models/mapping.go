package models

// AlignmentRecord is one PDB-chain-to-UniProt-entry sequence alignment,
// parsed from a ">" header line of pdb-uniprot-residue-mapping.txt.
// AlignmentID is assigned by the ingestion driver: 1-based, sequential
// and gap-free within one import run.
type AlignmentRecord struct {
	AlignmentID     int
	PdbID           string
	Chain           string
	UniprotID       string
	PdbFrom         int
	PdbTo           int
	UniprotFrom     int
	UniprotTo       int
	EValue          float64
	Identity        float64
	IdentityPercent float64
}

// ResidueMapping is one residue-level correspondence belonging to the
// alignment that most recently preceded it in the file. MatchSymbol is
// the consensus character, or a space when the source field is empty
// (mismatch/gap marker).
type ResidueMapping struct {
	AlignmentID     int
	PdbPosition     int
	UniprotPosition int
	MatchSymbol     byte
}
