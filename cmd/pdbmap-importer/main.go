package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"pdbmap-importer/internal/config"
	"pdbmap-importer/internal/logger"
	"pdbmap-importer/internal/service"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s <pdb-uniprot-residue-mapping.txt>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if flag.NArg() > 0 {
		cfg.Import.MappingFile = flag.Arg(0)
	}
	if cfg.Import.MappingFile == "" {
		flag.Usage()
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "pdbmap-importer")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.Info("Starting pdbmap-importer")

	svc, err := service.NewImportService(cfg, log)
	if err != nil {
		log.Fatal("Failed to create import service", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- svc.Run(ctx)
	}()

	exitCode := 0
	select {
	case sig := <-sigChan:
		log.Info("Received signal, aborting import", zap.String("signal", sig.String()))
		cancel()
		<-errChan
		exitCode = 1
	case err := <-errChan:
		if err != nil {
			log.Error("Import failed", zap.Error(err))
			exitCode = 1
		}
	}

	if err := svc.Stop(ctx); err != nil {
		log.Error("Error stopping import service", zap.Error(err))
	}

	log.Info("Done")
	log.Sync()
	os.Exit(exitCode)
}
