// Command match-report prints the summary of the stored match.
//
// It reads the same configuration as the server (TOUCHLINE_CONFIG and
// TOUCHLINE_* variables) and never writes to the store.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/okian/touchline/internal/adapters/repository"
	service "github.com/okian/touchline/internal/app"
	"github.com/okian/touchline/internal/config"
	"github.com/okian/touchline/pkg/logger"
)

func main() {
	var (
		asJSON  = flag.Bool("json", false, "Print the statistics as JSON instead of text")
		link    = flag.Bool("link", false, "Also print the share link")
		verbose = flag.Bool("verbose", false, "Log to stderr")
	)
	flag.Parse()

	logOut := io.Discard
	if *verbose {
		logOut = os.Stderr
	}
	if err := logger.Init(logger.WithWriter(logOut)); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		os.Exit(1)
	}

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	if err := report(ctx, cfg, os.Stdout, *asJSON, *link); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func report(ctx context.Context, cfg *config.Config, out io.Writer, asJSON, withLink bool) error {
	store, err := repository.Open(ctx, cfg.StoreDriver,
		repository.WithPath(cfg.StorePath),
		repository.WithKeyPrefix(cfg.KeyPrefix),
		repository.WithRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB),
	)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer store.Close()

	session := service.New(
		service.WithStore(readOnly{store}),
		service.WithRegulationSeconds(cfg.RegulationSeconds),
		service.WithTeams(cfg.HomeTeam, cfg.AwayTeam),
		service.WithLogger(logger.Named("report")),
	)
	if err := session.Start(ctx); err != nil {
		return fmt.Errorf("load match: %w", err)
	}
	defer session.Stop(ctx)

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(session.Summary())
	}

	text, shareURL := session.SummaryText()
	if _, err := fmt.Fprintln(out, text); err != nil {
		return err
	}
	if withLink {
		_, err = fmt.Fprintln(out, "\n"+shareURL)
	}
	return err
}

// readOnly drops every write so reading a match never changes it.
type readOnly struct {
	repository.Store
}

func (readOnly) Save(context.Context, string, []byte) error        { return nil }
func (readOnly) SaveAll(context.Context, map[string][]byte) error { return nil }
func (readOnly) Clear(context.Context) error                      { return nil }
