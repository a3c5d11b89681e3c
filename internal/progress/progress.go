package progress

import (
	"go.uber.org/zap"

	"pdbmap-importer/internal/importer"
)

const defaultLogInterval = 10000

// LogReporter reports import progress through the structured log at a
// fixed line interval.
type LogReporter struct {
	logger   *zap.Logger
	interval int
	total    int
	current  int
}

// NewLogReporter creates a log-backed reporter. interval <= 0 selects
// the default.
func NewLogReporter(logger *zap.Logger, interval int) *LogReporter {
	if interval <= 0 {
		interval = defaultLogInterval
	}
	return &LogReporter{
		logger:   logger,
		interval: interval,
	}
}

func (p *LogReporter) SetTotal(n int) {
	p.total = n
}

func (p *LogReporter) Tick() {
	p.current++
	if p.current%p.interval == 0 || (p.total > 0 && p.current == p.total) {
		p.logger.Info("Import progress",
			zap.Int("current", p.current),
			zap.Int("total", p.total),
		)
	}
}

// NopReporter discards all progress signals.
type NopReporter struct{}

func (NopReporter) SetTotal(int) {}
func (NopReporter) Tick()        {}

// Multi fans progress signals out to several reporters.
type Multi []importer.ProgressReporter

func (m Multi) SetTotal(n int) {
	for _, r := range m {
		r.SetTotal(n)
	}
}

func (m Multi) Tick() {
	for _, r := range m {
		r.Tick()
	}
}
