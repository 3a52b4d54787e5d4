package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/fakeye/internal/buildinfo"
	"github.com/dmitrijs2005/fakeye/internal/config"
	"github.com/dmitrijs2005/fakeye/internal/extension"
	"github.com/dmitrijs2005/fakeye/internal/logging"
	"github.com/dmitrijs2005/fakeye/internal/storage"
)

// The extension producer runs headless: it keeps fabricating scans into its
// own storage area and periodically asks the host over the bridge to pull
// them in. The host also notices writes on its own, so a dead bridge only
// delays the merge.
func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.Default()

	store, err := storage.Open(ctx, cfg.ExtensionStorePath, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer store.Close()

	scanner := extension.NewScanner(store, logger)
	go scanner.Run(ctx, cfg.ScanInterval)

	nudgeBridge(ctx, cfg, logger)
}

// nudgeBridge periodically pokes the host's bridge endpoint so merges
// happen promptly after each fabricated scan. Connection errors are logged
// and retried on the next tick.
func nudgeBridge(ctx context.Context, cfg *config.Config, logger logging.Logger) {
	ticker := time.NewTicker(cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := syncOnce(ctx, cfg.BridgeAddr); err != nil {
				logger.Warn(ctx, "bridge sync failed", "error", err)
			}
		}
	}
}

func syncOnce(ctx context.Context, addr string) error {
	client, err := extension.Dial(ctx, addr)
	if err != nil {
		return err
	}
	defer client.Close()
	return client.SyncData(ctx)
}
