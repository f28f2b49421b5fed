package config

import (
	"flag"
	"os"
	"time"

	"github.com/harinadareddy11/account-vault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   path to the sqlite database file
//	-t int      sync timeout in seconds
//	-i int      auto-sync interval in seconds
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-t", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "path to the sqlite database file")
	syncTimeout := fs.Int("t", int(cfg.SyncTimeout.Seconds()), "sync timeout (in seconds)")
	autoSyncInterval := fs.Int("i", int(cfg.AutoSyncInterval.Seconds()), "auto-sync interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SyncTimeout = time.Duration(*syncTimeout) * time.Second
	cfg.AutoSyncInterval = time.Duration(*autoSyncInterval) * time.Second
}
