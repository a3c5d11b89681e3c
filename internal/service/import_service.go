package service

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"pdbmap-importer/internal/config"
	"pdbmap-importer/internal/database"
	"pdbmap-importer/internal/importer"
	"pdbmap-importer/internal/progress"
	"pdbmap-importer/internal/redisutil"
	"pdbmap-importer/internal/repository"
)

// ImportService wires the mapping file ingestion together: config,
// database, optional Redis status publishing, bulk sink and driver.
type ImportService struct {
	config      *config.Config
	logger      *zap.Logger
	db          *sql.DB
	redisClient *redis.Client
	sink        importer.MappingSink
}

// NewImportService connects the external collaborators. The sink is an
// injected dependency so tests can run the import against a fake.
func NewImportService(cfg *config.Config, logger *zap.Logger) (*ImportService, error) {
	db, err := database.NewPostgres(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var redisClient *redis.Client
	if cfg.Import.StatusEnabled {
		redisClient = redisutil.NewClient(&cfg.Redis)
		if err := redisutil.Ping(context.Background(), redisClient); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
	}

	return &ImportService{
		config:      cfg,
		logger:      logger,
		db:          db,
		redisClient: redisClient,
		sink:        repository.NewMappingRepository(db, logger, cfg.Import.BatchSize),
	}, nil
}

// NewImportServiceWithSink builds a service around an injected sink and
// no external connections. Used by tests.
func NewImportServiceWithSink(cfg *config.Config, logger *zap.Logger, sink importer.MappingSink) *ImportService {
	return &ImportService{
		config: cfg,
		logger: logger,
		sink:   sink,
	}
}

// Run executes one full import of the configured mapping file: count
// the lines, set the progress total, ingest, log the summary.
func (s *ImportService) Run(ctx context.Context) error {
	path := s.config.Import.MappingFile
	if path == "" {
		return fmt.Errorf("mapping file is required, please set MAPPING_FILE or pass it as an argument")
	}

	total, err := importer.CountLines(path)
	if err != nil {
		return fmt.Errorf("failed to count mapping file lines: %w", err)
	}

	s.logger.Info("Reading PDB-UniProt residue mapping",
		zap.String("file", path),
		zap.Int("total_lines", total),
	)

	reporters := progress.Multi{
		progress.NewLogReporter(s.logger, s.config.Import.LogInterval),
	}
	var status *progress.StatusReporter
	if s.config.Import.StatusEnabled && s.redisClient != nil {
		status = progress.NewStatusReporter(
			ctx,
			progress.NewRedisKVStore(s.redisClient),
			s.logger,
			path,
			s.config.Import.StatusInterval,
			time.Duration(s.config.Import.StatusTTL)*time.Second,
		)
		reporters = append(reporters, status)
	}
	reporters.SetTotal(total)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open mapping file: %w", err)
	}
	defer f.Close()

	start := time.Now()
	sum, err := importer.New(s.sink, reporters, s.logger).Run(ctx, f)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	if status != nil {
		status.Done(sum.Alignments, sum.Residues)
	}

	s.logger.Info("Import completed",
		zap.Int("lines", sum.Lines),
		zap.Int("alignments", sum.Alignments),
		zap.Int("residue_mappings", sum.Residues),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Stop releases the external connections.
func (s *ImportService) Stop(ctx context.Context) error {
	if s.redisClient != nil {
		if err := redisutil.Close(s.redisClient); err != nil {
			s.logger.Error("Error closing redis connection", zap.Error(err))
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Error closing database connection", zap.Error(err))
		}
	}
	return nil
}
