package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pdbmap-importer/internal/models"
	"pdbmap-importer/internal/parser"
)

// fakeSink records submissions in memory (unit-test stand-in for the
// Postgres bulk repository).
type fakeSink struct {
	alignments []models.AlignmentRecord
	residues   []models.ResidueMapping
	batching   bool
	flushes    int

	submitAlignmentErr error
	submitResidueErr   error
	flushErr           error
}

func (f *fakeSink) SubmitAlignment(rec models.AlignmentRecord) error {
	if f.submitAlignmentErr != nil {
		return f.submitAlignmentErr
	}
	f.alignments = append(f.alignments, rec)
	return nil
}

func (f *fakeSink) SubmitResidueMapping(row models.ResidueMapping) error {
	if f.submitResidueErr != nil {
		return f.submitResidueErr
	}
	f.residues = append(f.residues, row)
	return nil
}

func (f *fakeSink) EnableBatching() { f.batching = true }

func (f *fakeSink) FlushAll() error {
	if f.flushErr != nil {
		return f.flushErr
	}
	f.flushes++
	return nil
}

type fakeReporter struct {
	total int
	ticks int
}

func (f *fakeReporter) SetTotal(n int) { f.total = n }
func (f *fakeReporter) Tick()          { f.ticks++ }

func newTestImporter() (*Importer, *fakeSink, *fakeReporter) {
	sink := &fakeSink{}
	reporter := &fakeReporter{}
	return New(sink, reporter, zap.NewNop()), sink, reporter
}

const sampleStream = `# pdb-uniprot residue mapping
>1a37	A	1433B_HUMAN	1	32	3	34	0.000000	29.000000	90.625000
1a37	A	M1	1433B_HUMAN	M3	M
1a37	A	D2	1433B_HUMAN	D4	D

>1a38	B	1433T_HUMAN	2	40	5	43	0.000001	31.000000	85.000000
1a38	B	K5	1433T_HUMAN	K8	
`

func TestRun_EndToEnd(t *testing.T) {
	imp, sink, reporter := newTestImporter()

	sum, err := imp.Run(context.Background(), strings.NewReader(sampleStream))
	require.NoError(t, err)

	// 7 raw lines, every one ticked, comments and blanks included.
	assert.Equal(t, 7, sum.Lines)
	assert.Equal(t, 7, reporter.ticks)

	assert.True(t, sink.batching)
	assert.Equal(t, 1, sink.flushes)

	require.Len(t, sink.alignments, 2)
	assert.Equal(t, 1, sink.alignments[0].AlignmentID)
	assert.Equal(t, "1a37", sink.alignments[0].PdbID)
	assert.Equal(t, 2, sink.alignments[1].AlignmentID)
	assert.Equal(t, "1a38", sink.alignments[1].PdbID)

	require.Len(t, sink.residues, 3)
	// Rows follow the alignment that precedes them in file order.
	assert.Equal(t, 1, sink.residues[0].AlignmentID)
	assert.Equal(t, 1, sink.residues[1].AlignmentID)
	assert.Equal(t, 2, sink.residues[2].AlignmentID)

	// Empty match field comes through as a space.
	assert.Equal(t, byte(' '), sink.residues[2].MatchSymbol)

	assert.Equal(t, Summary{Lines: 7, Alignments: 2, Residues: 3}, sum)
}

func TestRun_CommentAndBlankKeepAlignmentOpen(t *testing.T) {
	input := ">1a37\tA\t1433B_HUMAN\t1\t32\t3\t34\t0.000000\t29.000000\t90.625000\n" +
		"# interleaved comment\n" +
		"\n" +
		"1a37\tA\tM1\t1433B_HUMAN\tM3\tM\n"

	imp, sink, _ := newTestImporter()
	_, err := imp.Run(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, sink.residues, 1)
	assert.Equal(t, 1, sink.residues[0].AlignmentID)
}

func TestRun_ResidueBeforeHeader(t *testing.T) {
	input := "1a37\tA\tM1\t1433B_HUMAN\tM3\tM\n"

	imp, sink, _ := newTestImporter()
	_, err := imp.Run(context.Background(), strings.NewReader(input))

	require.Error(t, err)
	assert.ErrorIs(t, err, parser.ErrNoActiveAlignment)
	assert.Contains(t, err.Error(), "line 1")
	assert.Equal(t, 0, sink.flushes)
	assert.Empty(t, sink.residues)
}

func TestRun_MalformedHeaderAborts(t *testing.T) {
	input := ">1a37\tA\t1433B_HUMAN\t1\t32\t3\t34\t0.000000\t29.000000\t90.625000\n" +
		">1a38\tB\t1433T_HUMAN\t2\t40\t5\t43\t0.000001\t31.000000\n" // 9 fields

	imp, sink, _ := newTestImporter()
	_, err := imp.Run(context.Background(), strings.NewReader(input))

	require.Error(t, err)
	var malformed *parser.MalformedAlignmentLineError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 2, malformed.Line)

	// The first header went through; nothing was flushed.
	assert.Len(t, sink.alignments, 1)
	assert.Equal(t, 0, sink.flushes)
}

func TestRun_MalformedResidueAborts(t *testing.T) {
	input := ">1a37\tA\t1433B_HUMAN\t1\t32\t3\t34\t0.000000\t29.000000\t90.625000\n" +
		"1a37\tA\tMX\t1433B_HUMAN\tM3\tM\n"

	imp, sink, _ := newTestImporter()
	_, err := imp.Run(context.Background(), strings.NewReader(input))

	require.Error(t, err)
	var malformed *parser.MalformedResidueLineError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 0, sink.flushes)
}

func TestRun_SinkErrorsPropagate(t *testing.T) {
	sinkErr := errors.New("batch commit failed")

	t.Run("submit", func(t *testing.T) {
		imp, sink, _ := newTestImporter()
		sink.submitAlignmentErr = sinkErr

		_, err := imp.Run(context.Background(), strings.NewReader(sampleStream))
		require.Error(t, err)
		assert.ErrorIs(t, err, sinkErr)
		assert.Equal(t, 0, sink.flushes)
	})

	t.Run("flush", func(t *testing.T) {
		imp, sink, _ := newTestImporter()
		sink.flushErr = sinkErr

		_, err := imp.Run(context.Background(), strings.NewReader(sampleStream))
		require.Error(t, err)
		assert.ErrorIs(t, err, sinkErr)
	})
}

func TestRun_EmptyStream(t *testing.T) {
	imp, sink, reporter := newTestImporter()

	sum, err := imp.Run(context.Background(), strings.NewReader(""))
	require.NoError(t, err)

	assert.Equal(t, Summary{}, sum)
	assert.Equal(t, 0, reporter.ticks)
	// Flush still happens exactly once at end of stream.
	assert.Equal(t, 1, sink.flushes)
}

func TestRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	imp, sink, _ := newTestImporter()
	_, err := imp.Run(ctx, strings.NewReader(sampleStream))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, sink.flushes)
}

func TestCountLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleStream), 0o644))

	n, err := CountLines(path)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestCountLines_MissingFile(t *testing.T) {
	_, err := CountLines(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
