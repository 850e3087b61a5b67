// Package app assembles the invoice service from configuration. The HTTP
// server and the CLI share it so both see the same counter and export sink.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/ridwanfathin/invoice-generator-service/internal/config"
	"github.com/ridwanfathin/invoice-generator-service/internal/database"
	"github.com/ridwanfathin/invoice-generator-service/internal/document"
	"github.com/ridwanfathin/invoice-generator-service/internal/numbering"
	"github.com/ridwanfathin/invoice-generator-service/internal/repository"
	"github.com/ridwanfathin/invoice-generator-service/internal/service"
	"github.com/ridwanfathin/invoice-generator-service/internal/storage"
)

// App holds the wired service and whatever must be closed with it
type App struct {
	Service  *service.InvoiceService
	counters repository.CounterRepository
	db       *database.PostgresDB
}

// New wires the invoice service described by cfg
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	counters, err := a.openCounters(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.counters = counters

	sink, err := NewSink(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Service = service.NewInvoiceService(service.Options{
		Sequencer:     numbering.NewSequencer(counters, cfg.InvoicePrefix),
		Company:       cfg.CompanyProfile(),
		PublicBaseURL: cfg.PublicBaseURL,
		PDF:           PDFOptions(cfg),
		Sink:          sink,
		MaxWorkers:    cfg.MaxWorkers,
	})
	return a, nil
}

// Close releases the counter store and database pool
func (a *App) Close() {
	if a.counters != nil {
		if err := a.counters.Close(); err != nil {
			log.Printf("Error closing counter store: %v", err)
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}

func (a *App) openCounters(ctx context.Context, cfg *config.Config) (repository.CounterRepository, error) {
	switch cfg.CounterBackend {
	case config.CounterMemory:
		log.Println("Using in-memory invoice counter")
		return repository.NewMemoryCounterRepository(), nil
	case config.CounterFile:
		log.Printf("Using file invoice counter at %s", cfg.CounterFile)
		return repository.NewFileCounterRepository(cfg.CounterFile)
	case config.CounterSQLite:
		log.Printf("Using SQLite invoice counter at %s", cfg.SQLitePath)
		return repository.OpenSQLiteCounterRepository(cfg.SQLitePath)
	case config.CounterPostgres:
		log.Println("Using PostgreSQL invoice counter")
		db, err := database.NewPostgresDB(ctx, cfg.PostgresDBURL, database.WithMaxConns(int32(cfg.MaxWorkers)))
		if err != nil {
			return nil, fmt.Errorf("connect counter database: %w", err)
		}
		a.db = db
		return repository.NewPostgresCounterRepository(db.GetPool()), nil
	}
	return nil, fmt.Errorf("unknown counter backend %q", cfg.CounterBackend)
}

// NewSink picks the export destination: S3 when fully configured, then the
// export directory, otherwise none
func NewSink(cfg *config.Config) (storage.Sink, error) {
	if cfg.S3Enabled() {
		uploader, err := storage.NewS3Uploader(&storage.Config{
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			AccessKeySecret: cfg.S3AccessKeySecret,
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Prefix:          cfg.S3Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("configure S3 export sink: %w", err)
		}
		log.Printf("Exports are uploaded to bucket %s", cfg.S3Bucket)
		return uploader, nil
	}
	if cfg.ExportDir != "" {
		log.Printf("Exports are written to %s", cfg.ExportDir)
		return storage.NewFileSink(cfg.ExportDir), nil
	}
	return nil, nil
}

// PDFOptions maps the PDF settings of cfg
func PDFOptions(cfg *config.Config) document.PDFOptions {
	return document.PDFOptions{
		PageFormat:   cfg.PDFPageFormat,
		Orientation:  cfg.PDFOrientation,
		MarginInches: cfg.PDFMarginInches,
		Compress:     cfg.PDFCompress,
	}
}
