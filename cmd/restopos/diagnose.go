package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sahanw/restopos/config"
	"github.com/sahanw/restopos/internal/ledger"
	"github.com/sahanw/restopos/internal/store"
)

func diagnoseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose",
		Short: "Check connectivity to Postgres, Redis and the fallback ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			return diagnose()
		},
	}
}

func diagnose() error {
	cfg := config.LoadEnv()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	failed := false
	report := func(name string, err error, detail string) {
		if err != nil {
			failed = true
			fmt.Printf("%-10s FAIL  %v\n", name, err)
			return
		}
		fmt.Printf("%-10s OK    %s\n", name, detail)
	}

	db, err := store.NewPostgres(&cfg.Postgres)
	if err == nil {
		defer db.Close()
		err = db.PingContext(ctx)
	}
	report("postgres", err, cfg.Postgres.Host+":"+cfg.Postgres.Port+"/"+cfg.Postgres.DBName)

	redisClient, err := store.NewRedisClient(&cfg.Redis)
	if err == nil {
		defer redisClient.Close()
	}
	report("redis", err, cfg.Redis.Addr)

	ledgerErr := checkLedgerPath(cfg.Local.LedgerPath)
	pending := 0
	if ledgerErr == nil {
		pending = len(ledger.New(cfg.Local.LedgerPath, zap.NewNop()).Load())
	}
	report("ledger", ledgerErr, fmt.Sprintf("%s (%d unsynced orders)", cfg.Local.LedgerPath, pending))

	if failed {
		return fmt.Errorf("one or more checks failed")
	}
	return nil
}

// checkLedgerPath verifies the fallback directory exists and is writable
// before an outage forces the first degraded write.
func checkLedgerPath(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	probe := filepath.Join(dir, ".probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return err
	}
	return os.Remove(probe)
}
