package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fakeye/internal/models"
)

// List prints the scan history, newest first.
func (a *App) List(ctx context.Context) error {
	if err := a.history.Refresh(ctx); err != nil {
		printlnFn("Failed to load history:", err.Error())
		return err
	}

	items := a.history.Items()
	if len(items) == 0 {
		printlnFn("History is empty.")
		return nil
	}

	for _, item := range items {
		printlnFn(formatHistoryItem(item))
	}
	printlnFn(fmt.Sprintf("%d item(s)", len(items)))
	return nil
}

// Delete removes one history item by id. Deleting an unknown id is not an
// error.
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: delete <history-id>")
		return nil
	}

	if err := a.history.Delete(ctx, args[0]); err != nil {
		printlnFn("Failed to delete item:", err.Error())
		return err
	}

	printlnFn("Deleted.")
	return nil
}

// Clear wipes the whole scan history.
func (a *App) Clear(ctx context.Context) error {
	if err := a.history.Clear(ctx); err != nil {
		printlnFn("Failed to clear history:", err.Error())
		return err
	}

	printlnFn("History cleared.")
	return nil
}

// Sync runs one merge of the extension producer's records into history.
func (a *App) Sync(ctx context.Context) error {
	n, err := a.syncer.SyncOnce(ctx)
	if err != nil {
		printlnFn("Sync failed:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Synced %d new item(s).", n))
	return nil
}

func formatHistoryItem(item models.HistoryItem) string {
	verdict := "human"
	if item.IsAIGenerated {
		verdict = "AI"
	}
	when := time.UnixMilli(item.Timestamp).Format("2006-01-02 15:04:05")
	return fmt.Sprintf("%s  %-5s  %-5s  %5.1f%%  %s  %s",
		item.ID, item.Type, verdict, item.Confidence, when, item.Preview)
}
