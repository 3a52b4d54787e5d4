package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/fakeye/internal/detect"
	"github.com/dmitrijs2005/fakeye/internal/models"
)

// Scan dispatches "scan <kind> ..." to the matching detector and records
// the verdict in history. Detector failures are shown inline and nothing is
// recorded; there is no retry.
func (a *App) Scan(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: scan image <file> | scan video <file> | scan text <words...> | scan email")
		return nil
	}

	switch args[0] {
	case "image", "video":
		return a.scanFile(ctx, models.ItemType(args[0]), args[1:])
	case "text":
		return a.scanText(ctx, args[1:])
	case "email":
		return a.scanEmail(ctx)
	default:
		printlnFn("Unknown scan type:", args[0])
		return nil
	}
}

func (a *App) scanFile(ctx context.Context, kind models.ItemType, args []string) error {
	if len(args) == 0 {
		printlnFn(fmt.Sprintf("Usage: scan %s <file>", kind))
		return nil
	}
	fileName := args[0]

	printlnFn("Analyzing", fileName, "...")

	var result *detect.Result
	var err error
	if kind == models.ItemTypeImage {
		result, err = a.detector.AnalyzeImage(ctx, fileName)
	} else {
		result, err = a.detector.AnalyzeVideo(ctx, fileName)
	}
	if err != nil {
		printlnFn("Analysis failed:", err.Error())
		return err
	}

	item, err := a.history.Add(ctx, models.HistoryItem{
		Type:          kind,
		IsAIGenerated: result.IsAI,
		Confidence:    result.Confidence,
		Preview:       fileName,
		Metadata:      &models.Metadata{FileName: fileName},
	})
	if err != nil {
		printlnFn("Failed to record result:", err.Error())
		return err
	}

	a.printVerdict(item.ID, result)
	return nil
}

func (a *App) scanText(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: scan text <words...>")
		return nil
	}
	text := strings.Join(args, " ")

	printlnFn("Analyzing text ...")

	result, err := a.detector.AnalyzeText(ctx, text)
	if err != nil {
		printlnFn("Analysis failed:", err.Error())
		return err
	}

	item, err := a.history.Add(ctx, models.HistoryItem{
		Type:          models.ItemTypeText,
		IsAIGenerated: result.IsAI,
		Confidence:    result.Confidence,
		Preview:       preview(text),
		Metadata:      &models.Metadata{TextLength: len(text)},
	})
	if err != nil {
		printlnFn("Failed to record result:", err.Error())
		return err
	}

	a.printVerdict(item.ID, result)
	return nil
}

func (a *App) scanEmail(ctx context.Context) error {
	subject, err := getSimpleText(a.reader, "Enter subject", os.Stdout)
	if err != nil {
		return err
	}
	sender, err := getSimpleText(a.reader, "Enter sender", os.Stdout)
	if err != nil {
		return err
	}

	printlnFn("Analyzing email ...")

	result, err := a.detector.AnalyzeEmail(ctx, subject, sender)
	if err != nil {
		printlnFn("Analysis failed:", err.Error())
		return err
	}

	item, err := a.history.Add(ctx, models.HistoryItem{
		Type:          models.ItemTypeEmail,
		IsAIGenerated: result.IsAI,
		Confidence:    result.Confidence,
		Preview:       subject,
		Metadata: &models.Metadata{
			Subject:      subject,
			Sender:       sender,
			PhishingRisk: result.RiskLevel,
			Flags:        result.Flags,
		},
	})
	if err != nil {
		printlnFn("Failed to record result:", err.Error())
		return err
	}

	a.printVerdict(item.ID, &result.Result)
	printlnFn("Phishing risk:", result.RiskLevel)
	for _, flag := range result.Flags {
		printlnFn("  -", flag)
	}
	return nil
}

func (a *App) printVerdict(id string, result *detect.Result) {
	verdict := "human-made"
	if result.IsAI {
		verdict = "AI generated"
	}
	printlnFn(fmt.Sprintf("Verdict: %s (%.1f%% confidence) [%s]", verdict, result.Confidence, id))
}

// preview shortens text for display in listings.
func preview(text string) string {
	const max = 80
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
