// cmd/seeder/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/shelfscan/internal/adapters/db"
	"github.com/ammerola/shelfscan/internal/adapters/memstore"
	"github.com/ammerola/shelfscan/internal/catalog"
	"github.com/ammerola/shelfscan/internal/core/domain"
	"github.com/ammerola/shelfscan/internal/core/services"
	"github.com/ammerola/shelfscan/internal/pkg/config"
	"github.com/ammerola/shelfscan/internal/pkg/logger"
)

// seederState remembers which delivery notes were already applied
type seederState struct {
	ProcessedNotes []string  `json:"processed_notes"`
	LastUpdate     time.Time `json:"last_update"`
}

func main() {
	var (
		catalogFile = flag.String("catalog", "", "Catalog workbook (.xlsx) to import")
		notesDir    = flag.String("notes", "", "Directory containing PDF delivery notes")
		shopFlag    = flag.String("shop-id", "", "Shop receiving the delivery notes")
		stateFile   = flag.String("state", "./.seed_state.json", "State file for tracking applied notes")
		logLevel    = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		dryRun      = flag.Bool("dry-run", false, "Import into an in-memory store and report what would change")
		force       = flag.Bool("force", false, "Reapply delivery notes already listed in the state file")
	)
	flag.Parse()

	slogger := logger.NewLogger(logger.Config{Level: *logLevel, Format: "json", ServiceName: "shelfscan-seeder"})
	slog.SetDefault(slogger)

	if *catalogFile == "" && *notesDir == "" {
		fmt.Fprintln(os.Stderr, "nothing to seed: pass -catalog and/or -notes")
		flag.Usage()
		os.Exit(2)
	}

	var shopID *uuid.UUID
	if *notesDir != "" {
		id, err := uuid.Parse(*shopFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "-shop-id must be a shop uuid when -notes is set: %v\n", err)
			os.Exit(2)
		}
		shopID = &id
	}

	ctx := context.Background()

	svc, closeStore, err := openCatalog(ctx, *dryRun, shopID, slogger)
	if err != nil {
		slogger.Error("failed to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	total := &domain.ImportResult{}
	failed := []string{}

	if *catalogFile != "" {
		fmt.Printf("PROGRESS: Importing catalog %s\n", *catalogFile)
		result, err := importCatalog(ctx, svc, *catalogFile)
		if err != nil {
			slogger.Error("catalog import failed",
				slog.String("file", *catalogFile),
				slog.String("error", err.Error()))
			failed = append(failed, filepath.Base(*catalogFile))
		} else {
			merge(total, result)
		}
	}

	if *notesDir != "" {
		state := loadState(*stateFile, *force)

		notes, err := filepath.Glob(filepath.Join(*notesDir, "*.pdf"))
		if err != nil {
			slogger.Error("failed to find delivery notes", slog.String("error", err.Error()))
			os.Exit(1)
		}

		for i, note := range notes {
			name := filepath.Base(note)
			fmt.Printf("PROGRESS: Applying %d/%d: %s\n", i+1, len(notes), name)

			if !*force && slices.Contains(state.ProcessedNotes, name) {
				slogger.Info("skipping applied delivery note", slog.String("note", name))
				continue
			}

			lines, err := catalog.ParseDeliveryNoteFile(note)
			if err != nil {
				slogger.Error("failed to parse delivery note",
					slog.String("note", name),
					slog.String("error", err.Error()))
				failed = append(failed, name)
				continue
			}

			result, err := svc.Restock(ctx, *shopID, lines)
			if err != nil {
				slogger.Error("failed to restock",
					slog.String("note", name),
					slog.String("error", err.Error()))
				failed = append(failed, name)
				continue
			}
			merge(total, result)

			state.ProcessedNotes = append(state.ProcessedNotes, name)
			state.LastUpdate = time.Now()
		}

		if !*dryRun {
			saveState(*stateFile, state, slogger)
		}
	}

	printSummary(total, failed, *dryRun)

	slogger.Info("seed operation completed",
		slog.Int("rows_processed", total.RowsProcessed),
		slog.Int("batches_created", total.BatchesCreated),
		slog.Int("row_errors", len(total.Errors)),
		slog.Int("failed_files", len(failed)))

	if len(failed) > 0 {
		os.Exit(1)
	}
}

// openCatalog returns a catalog service over postgres, or over a throwaway
// in-memory store for dry runs. The dry-run store is given the restock shop
// so delivery notes can be previewed.
func openCatalog(ctx context.Context, dryRun bool, shopID *uuid.UUID, slogger *slog.Logger) (*services.CatalogService, func(), error) {
	if dryRun {
		mem := memstore.New()
		if shopID != nil {
			if err := mem.Shops().Upsert(ctx, &domain.Shop{ID: *shopID, Name: "dry run"}); err != nil {
				return nil, nil, err
			}
		}
		return services.NewCatalogService(mem.Products(), mem.Shops(), mem.Batches(), nil, slogger), func() {}, nil
	}

	cfg, err := config.Load(slogger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:              cfg.Database.Host,
		Port:              cfg.Database.Port,
		User:              cfg.Database.User,
		Password:          cfg.Database.Password,
		Database:          cfg.Database.Name,
		SSLMode:           cfg.Database.SSLMode,
		MaxConnections:    4,
		MinConnections:    1,
		MaxConnLifetime:   cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:   cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod: cfg.Database.HealthCheckPeriod,
		ConnectTimeout:    cfg.Database.ConnectTimeout,
	}, slogger)
	if err != nil {
		return nil, nil, err
	}

	// Listings are refreshed by the API's change listener
	svc := services.NewCatalogService(
		db.NewProductRepository(database, slogger),
		db.NewShopRepository(database, slogger),
		db.NewBatchRepository(database, slogger),
		nil,
		slogger,
	)
	return svc, database.Close, nil
}

func importCatalog(ctx context.Context, svc *services.CatalogService, path string) (*domain.ImportResult, error) {
	rows, problems, err := catalog.ParseImportFile(path)
	if err != nil {
		return nil, err
	}
	result, err := svc.Import(ctx, rows)
	if err != nil {
		return nil, err
	}
	result.Errors = append(problems, result.Errors...)
	return result, nil
}

func merge(total, r *domain.ImportResult) {
	total.RowsProcessed += r.RowsProcessed
	total.ShopsCreated += r.ShopsCreated
	total.ProductsCreated += r.ProductsCreated
	total.BatchesCreated += r.BatchesCreated
	total.Errors = append(total.Errors, r.Errors...)
}

func loadState(path string, force bool) *seederState {
	state := &seederState{}
	if force {
		return state
	}
	if data, err := os.ReadFile(path); err == nil {
		_ = json.Unmarshal(data, state)
	}
	return state
}

func saveState(path string, state *seederState, slogger *slog.Logger) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err == nil {
		err = os.WriteFile(path, data, 0o644)
	}
	if err != nil {
		slogger.Warn("failed to save seeder state",
			slog.String("path", path),
			slog.String("error", err.Error()))
	}
}

func printSummary(total *domain.ImportResult, failed []string, dryRun bool) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("SEEDING SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Rows Processed:   %d\n", total.RowsProcessed)
	fmt.Printf("Shops Created:    %d\n", total.ShopsCreated)
	fmt.Printf("Products Created: %d\n", total.ProductsCreated)
	fmt.Printf("Batches Created:  %d\n", total.BatchesCreated)

	if len(total.Errors) > 0 {
		fmt.Printf("\nRejected rows (%d):\n", len(total.Errors))
		for _, e := range total.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}

	if len(failed) > 0 {
		fmt.Printf("\nFailed files (%d):\n", len(failed))
		for _, f := range failed {
			fmt.Printf("  - %s\n", f)
		}
	}

	if dryRun {
		fmt.Println("\n[DRY RUN] No changes were made to the database")
	}
}
