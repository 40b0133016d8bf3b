package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"trade-journal-go/internal/client"
	"trade-journal-go/internal/config"
	"trade-journal-go/internal/importer"
	"trade-journal-go/internal/logger"
	"trade-journal-go/internal/models"
)

func main() {
	filePath := flag.String("file", "", "broker CSV export to import")
	account := flag.String("account", "", "account to import into (server default when empty)")
	mappingFlag := flag.String("mapping", "", "explicit column mapping, e.g. symbol=0,side=1,openPrice=2")
	preview := flag.Bool("preview", false, "parse and show the summary without merging")
	flag.Parse()

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "usage: importer -file <export.csv> [-account name] [-mapping ...] [-preview]")
		os.Exit(1)
	}

	_ = godotenv.Load()
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	content, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatal("Failed to read file", zap.Error(err))
	}

	ctx := context.Background()
	api := client.NewClient(&cfg.Client, log)

	resp, err := api.UploadCSV(ctx, *account, filepath.Base(*filePath), content)
	if err != nil {
		log.Fatal("Upload failed", zap.Error(err))
	}

	if resp.State == string(importer.StateMappingRequired) {
		if *mappingFlag == "" {
			fmt.Println("Automatic column detection failed. Headers:")
			for i, h := range resp.Headers {
				fmt.Printf("  %d: %s\n", i, h)
			}
			fmt.Println("Re-run with -mapping, e.g. -mapping symbol=0,side=1,openPrice=2,closePrice=3,quantity=4,pnl=5")
			if err := api.CancelImport(ctx, resp.SessionID); err != nil {
				log.Warn("Failed to cancel session", zap.Error(err))
			}
			os.Exit(1)
		}

		mapping, err := parseMappingFlag(*mappingFlag)
		if err != nil {
			log.Fatal("Bad -mapping value", zap.Error(err))
		}
		if resp, err = api.ConfirmMapping(ctx, resp.SessionID, mapping); err != nil {
			log.Fatal("Mapping rejected", zap.Error(err))
		}
	}

	if resp.Preview != nil {
		fmt.Printf("Parsed %d rows (%d failed)", resp.Preview.Summary.SuccessfulParsed, resp.Preview.Summary.Failed)
		if resp.Preview.Summary.DateRange != "" {
			fmt.Printf(", %s", resp.Preview.Summary.DateRange)
		}
		fmt.Println()
		for _, e := range resp.Preview.Errors {
			fmt.Println("  " + e)
		}
	}

	if *preview {
		if err := api.CancelImport(ctx, resp.SessionID); err != nil {
			log.Warn("Failed to cancel session", zap.Error(err))
		}
		return
	}

	merge, err := api.ConfirmImport(ctx, resp.SessionID)
	if err != nil {
		log.Fatal("Merge failed", zap.Error(err))
	}
	fmt.Printf("Merged: %d added, %d skipped as duplicates\n", merge.Added, merge.Skipped)
}

// parseMappingFlag turns "symbol=0,side=1" into a column mapping. Fields not
// mentioned stay unmapped.
func parseMappingFlag(raw string) (models.ColumnMapping, error) {
	mapping := make(models.ColumnMapping)
	for _, f := range append(append([]models.Field{}, models.RequiredFields...), models.OptionalFields...) {
		mapping[f] = models.Unmapped
	}
	for _, part := range strings.Split(raw, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("malformed mapping entry %q", part)
		}
		idx, err := strconv.Atoi(kv[1])
		if err != nil {
			return nil, fmt.Errorf("malformed column index in %q", part)
		}
		field := models.Field(kv[0])
		if _, ok := mapping[field]; !ok {
			return nil, fmt.Errorf("unknown field %q", kv[0])
		}
		mapping[field] = idx
	}
	return mapping, nil
}
