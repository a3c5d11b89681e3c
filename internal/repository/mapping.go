package repository

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"pdbmap-importer/internal/models"
)

const defaultBatchSize = 1000

// MappingRepository persists alignment and residue rows into the
// pdb_uniprot_alignment and pdb_uniprot_residue_mapping tables.
//
// With batching enabled, rows are buffered and written with COPY FROM
// STDIN (pq.CopyIn) in one transaction per flush; the buffer also
// drains itself when it reaches batchSize. With batching disabled each
// submit is a single INSERT. Commit failures are never retried: a
// partially applied batch must not be re-sent.
type MappingRepository struct {
	db        *sql.DB
	logger    *zap.Logger
	batchSize int

	batching   bool
	alignments []models.AlignmentRecord
	residues   []models.ResidueMapping
}

// NewMappingRepository creates a new mapping repository. batchSize <= 0
// selects the default.
func NewMappingRepository(db *sql.DB, logger *zap.Logger, batchSize int) *MappingRepository {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &MappingRepository{
		db:        db,
		logger:    logger,
		batchSize: batchSize,
	}
}

// EnableBatching switches the repository into bulk-load mode for the
// rest of the run.
func (r *MappingRepository) EnableBatching() {
	r.batching = true
}

// SubmitAlignment stages or inserts one alignment record.
func (r *MappingRepository) SubmitAlignment(rec models.AlignmentRecord) error {
	if !r.batching {
		return r.insertAlignment(rec)
	}
	r.alignments = append(r.alignments, rec)
	if len(r.alignments) >= r.batchSize {
		return r.flushAlignments()
	}
	return nil
}

// SubmitResidueMapping stages or inserts one residue mapping row.
func (r *MappingRepository) SubmitResidueMapping(row models.ResidueMapping) error {
	if !r.batching {
		return r.insertResidueMapping(row)
	}
	r.residues = append(r.residues, row)
	if len(r.residues) >= r.batchSize {
		// Alignments flush first so the referenced align_id already exists.
		if err := r.flushAlignments(); err != nil {
			return err
		}
		return r.flushResidues()
	}
	return nil
}

// FlushAll commits everything still buffered. This is the durability
// boundary of a run: rows submitted before this call are persisted once
// it returns without error.
func (r *MappingRepository) FlushAll() error {
	if !r.batching {
		return nil
	}
	if err := r.flushAlignments(); err != nil {
		return err
	}
	return r.flushResidues()
}

func (r *MappingRepository) flushAlignments() error {
	if len(r.alignments) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin alignment copy: %w", err)
	}

	stmt, err := tx.Prepare(pq.CopyIn("pdb_uniprot_alignment",
		"align_id", "pdb_id", "chain", "uniprot_id",
		"pdb_from", "pdb_to", "uniprot_from", "uniprot_to",
		"evalue", "identity", "identp",
	))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare alignment copy: %w", err)
	}

	for _, a := range r.alignments {
		if _, err := stmt.Exec(
			a.AlignmentID, a.PdbID, a.Chain, a.UniprotID,
			a.PdbFrom, a.PdbTo, a.UniprotFrom, a.UniprotTo,
			a.EValue, a.Identity, a.IdentityPercent,
		); err != nil {
			stmt.Close()
			tx.Rollback()
			return fmt.Errorf("failed to copy alignment row: %w", err)
		}
	}

	// The empty Exec drains the copy buffer into the server.
	if _, err := stmt.Exec(); err != nil {
		stmt.Close()
		tx.Rollback()
		return fmt.Errorf("failed to finish alignment copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to close alignment copy: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit alignments: %w", err)
	}

	r.logger.Debug("Flushed alignment rows", zap.Int("count", len(r.alignments)))
	r.alignments = r.alignments[:0]
	return nil
}

func (r *MappingRepository) flushResidues() error {
	if len(r.residues) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin residue copy: %w", err)
	}

	stmt, err := tx.Prepare(pq.CopyIn("pdb_uniprot_residue_mapping",
		"align_id", "pdb_position", "uniprot_position", "match",
	))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare residue copy: %w", err)
	}

	for _, m := range r.residues {
		if _, err := stmt.Exec(
			m.AlignmentID, m.PdbPosition, m.UniprotPosition, string(rune(m.MatchSymbol)),
		); err != nil {
			stmt.Close()
			tx.Rollback()
			return fmt.Errorf("failed to copy residue row: %w", err)
		}
	}

	if _, err := stmt.Exec(); err != nil {
		stmt.Close()
		tx.Rollback()
		return fmt.Errorf("failed to finish residue copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to close residue copy: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit residue mappings: %w", err)
	}

	r.logger.Debug("Flushed residue mapping rows", zap.Int("count", len(r.residues)))
	r.residues = r.residues[:0]
	return nil
}

func (r *MappingRepository) insertAlignment(rec models.AlignmentRecord) error {
	query := `
		INSERT INTO pdb_uniprot_alignment (
			align_id, pdb_id, chain, uniprot_id,
			pdb_from, pdb_to, uniprot_from, uniprot_to,
			evalue, identity, identp
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(query,
		rec.AlignmentID, rec.PdbID, rec.Chain, rec.UniprotID,
		rec.PdbFrom, rec.PdbTo, rec.UniprotFrom, rec.UniprotTo,
		rec.EValue, rec.Identity, rec.IdentityPercent,
	)
	if err != nil {
		return fmt.Errorf("failed to insert alignment: %w", err)
	}
	return nil
}

func (r *MappingRepository) insertResidueMapping(row models.ResidueMapping) error {
	query := `
		INSERT INTO pdb_uniprot_residue_mapping (
			align_id, pdb_position, uniprot_position, match
		) VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(query,
		row.AlignmentID, row.PdbPosition, row.UniprotPosition, string(rune(row.MatchSymbol)),
	)
	if err != nil {
		return fmt.Errorf("failed to insert residue mapping: %w", err)
	}
	return nil
}
