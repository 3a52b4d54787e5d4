package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/fakeye/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   path to the host store database
//	-e string   path to the extension's own store database
//	-b string   bridge endpoint address (host:port)
//	-i int      sync interval in seconds
//	-s string   session signing secret
//	-p          store passwords in plaintext (demo mode)
//
// The function filters os.Args to only the flags it knows about, using
// flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-e", "-b", "-i", "-s", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.StorePath, "d", cfg.StorePath, "path to the host store database")
	fs.StringVar(&cfg.ExtensionStorePath, "e", cfg.ExtensionStorePath, "path to the extension store database")
	fs.StringVar(&cfg.BridgeAddr, "b", cfg.BridgeAddr, "bridge endpoint address")
	syncInterval := fs.Int("i", int(cfg.SyncInterval.Seconds()), "sync interval (in seconds)")
	fs.StringVar(&cfg.SessionSecret, "s", cfg.SessionSecret, "session signing secret")
	fs.BoolVar(&cfg.PlainPasswords, "p", cfg.PlainPasswords, "store passwords in plaintext (demo mode)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SyncInterval = time.Duration(*syncInterval) * time.Second
}
