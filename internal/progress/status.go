package progress

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// StatusKey is the Redis key observers read to follow a running import.
const StatusKey = "pdbmap:import:status"

const defaultStatusInterval = 1000

// Status is the JSON document published for one import run. One run
// overwrites the previous run's document.
type Status struct {
	File       string `json:"file"`
	Phase      string `json:"phase"` // "running" or "done"
	Current    int    `json:"current"`
	Total      int    `json:"total"`
	Alignments int    `json:"alignments,omitempty"`
	Residues   int    `json:"residues,omitempty"`
	StartedAt  string `json:"started_at"`
	UpdatedAt  string `json:"updated_at"`
}

// StatusReporter publishes the run status to the KV store, throttled to
// every interval ticks. Store failures are logged and never abort the
// import. Tick carries no context, so the reporter keeps the run
// context it was created with.
type StatusReporter struct {
	ctx      context.Context
	kv       KVStore
	logger   *zap.Logger
	interval int
	ttl      time.Duration
	status   Status
}

func NewStatusReporter(ctx context.Context, kv KVStore, logger *zap.Logger, file string, interval int, ttl time.Duration) *StatusReporter {
	if interval <= 0 {
		interval = defaultStatusInterval
	}
	return &StatusReporter{
		ctx:      ctx,
		kv:       kv,
		logger:   logger,
		interval: interval,
		ttl:      ttl,
		status: Status{
			File:  file,
			Phase: "running",
		},
	}
}

func (s *StatusReporter) SetTotal(n int) {
	s.status.Total = n
	s.status.StartedAt = time.Now().UTC().Format(time.RFC3339)
	s.write()
}

func (s *StatusReporter) Tick() {
	s.status.Current++
	if s.status.Current%s.interval != 0 && !(s.status.Total > 0 && s.status.Current == s.status.Total) {
		return
	}
	s.write()
}

// Done publishes the final status with the run counters.
func (s *StatusReporter) Done(alignments, residues int) {
	s.status.Phase = "done"
	s.status.Alignments = alignments
	s.status.Residues = residues
	s.write()
}

func (s *StatusReporter) write() {
	s.status.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.Marshal(&s.status)
	if err != nil {
		s.logger.Warn("Failed to marshal import status", zap.Error(err))
		return
	}

	if err := s.kv.Set(s.ctx, StatusKey, string(data), s.ttl); err != nil {
		s.logger.Warn("Failed to update import status cache", zap.Error(err))
	}
}
