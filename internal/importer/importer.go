package importer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"pdbmap-importer/internal/models"
	"pdbmap-importer/internal/parser"
)

// MappingSink receives parsed rows and owns their persistence. Rows
// submitted while batching is enabled are buffered by the sink; only
// FlushAll guarantees they are durable.
type MappingSink interface {
	SubmitAlignment(models.AlignmentRecord) error
	SubmitResidueMapping(models.ResidueMapping) error
	EnableBatching()
	FlushAll() error
}

// ProgressReporter observes raw input lines as they are consumed. Tick
// is called once per line, including blank and comment lines.
type ProgressReporter interface {
	SetTotal(n int)
	Tick()
}

// Summary counts what one run produced.
type Summary struct {
	Lines      int
	Alignments int
	Residues   int
}

// Importer drives a single sequential pass over one mapping file:
// classify each line, parse it, submit the row, flush at end of stream.
type Importer struct {
	sink     MappingSink
	reporter ProgressReporter
	logger   *zap.Logger
}

func New(sink MappingSink, reporter ProgressReporter, logger *zap.Logger) *Importer {
	return &Importer{
		sink:     sink,
		reporter: reporter,
		logger:   logger,
	}
}

// Run ingests the whole stream. The alignment identifier starts at 0
// and is advanced only after a header parses successfully, so the
// counter state after a malformed header is deterministic: it still
// holds the id of the last good header. Any parse, read or sink error
// aborts the run with no final flush; rows already flushed by the sink
// stay persisted, buffered rows do not.
func (im *Importer) Run(ctx context.Context, r io.Reader) (Summary, error) {
	im.sink.EnableBatching()

	sc := bufio.NewScanner(r)
	// Header lines carry the full aligned sequences and can run long.
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var sum Summary
	alignmentID := 0
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		sum.Lines++
		im.reporter.Tick()

		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		switch parser.Classify(line) {
		case parser.LineComment:
			// no record, no state change

		case parser.LineAlignmentHeader:
			rec, err := parser.ParseAlignment(line, sum.Lines, alignmentID+1)
			if err != nil {
				return sum, err
			}
			if err := im.sink.SubmitAlignment(rec); err != nil {
				return sum, fmt.Errorf("line %d: submit alignment: %w", sum.Lines, err)
			}
			alignmentID++
			sum.Alignments++

		case parser.LineResidueRow:
			if alignmentID == 0 {
				return sum, fmt.Errorf("line %d: %w", sum.Lines, parser.ErrNoActiveAlignment)
			}
			row, err := parser.ParseResidueMapping(line, sum.Lines, alignmentID)
			if err != nil {
				return sum, err
			}
			if err := im.sink.SubmitResidueMapping(row); err != nil {
				return sum, fmt.Errorf("line %d: submit residue mapping: %w", sum.Lines, err)
			}
			sum.Residues++
		}
	}
	if err := sc.Err(); err != nil {
		return sum, fmt.Errorf("read mapping stream: %w", err)
	}

	// The single durability boundary of a run.
	if err := im.sink.FlushAll(); err != nil {
		return sum, fmt.Errorf("flush bulk sink: %w", err)
	}

	im.logger.Debug("Import pass finished",
		zap.Int("lines", sum.Lines),
		zap.Int("alignments", sum.Alignments),
		zap.Int("residue_mappings", sum.Residues),
	)
	return sum, nil
}
