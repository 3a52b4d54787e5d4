// Package extension is the producer: the browser-extension analog that owns
// its own storage area, fabricates phishing scans into it, and talks to the
// host over the bridge protocol.
package extension

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/dmitrijs2005/fakeye/internal/detect"
	"github.com/dmitrijs2005/fakeye/internal/logging"
	"github.com/dmitrijs2005/fakeye/internal/models"
	"github.com/dmitrijs2005/fakeye/internal/storage"
)

// Demo mailbox the scanner pretends to watch.
var (
	scanSubjects = []string{
		"Your account has been suspended",
		"Win a prize",
		"Invoice #84213 overdue",
		"Password reset required immediately",
		"Weekly team update",
		"Lunch on Friday?",
		"Security alert: new sign-in",
		"Claim your refund now",
	}
	scanSenders = []string{
		"security@paypa1-alerts.com",
		"a@b.com",
		"billing@invoice-center.net",
		"it-support@companyportal.help",
		"anna@example.com",
		"no-reply@netfl1x-billing.com",
	}
)

// suspiciousThreshold is the raw score at or above which a scan is flagged.
const suspiciousThreshold = 5.0

// Scanner records fabricated email scans into the producer's own storage
// area, newest first. Ids use the "ext-" namespace so the host's merge can
// never mistake them for locally created items.
type Scanner struct {
	store storage.Store
	log   logging.Logger
}

func NewScanner(store storage.Store, log logging.Logger) *Scanner {
	return &Scanner{store: store, log: log.With("component", "scanner")}
}

// ScanOnce fabricates one scan record and persists it.
func (s *Scanner) ScanOnce(ctx context.Context) (models.ExtensionScanRecord, error) {
	record := s.fabricate()

	existing, err := storage.LoadRecords[models.ExtensionScanRecord](ctx, s.store, storage.NamespaceExtensionScans)
	if err != nil {
		return models.ExtensionScanRecord{}, err
	}

	merged := append([]models.ExtensionScanRecord{record}, existing...)
	if err := storage.SaveRecords(ctx, s.store, storage.NamespaceExtensionScans, merged); err != nil {
		return models.ExtensionScanRecord{}, err
	}

	s.log.Info(ctx, "recorded scan",
		"id", record.ID, "subject", record.Subject, "suspicious", record.IsSuspicious)
	return record, nil
}

// Run scans on the given interval until ctx is canceled.
func (s *Scanner) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.ScanOnce(ctx); err != nil && ctx.Err() == nil {
				s.log.Error(ctx, "scan failed", "error", err)
			}
		}
	}
}

func (s *Scanner) fabricate() models.ExtensionScanRecord {
	score := math.Round(rand.Float64()*100) / 10 // [0,10], one decimal
	suspicious := score >= suspiciousThreshold

	record := models.ExtensionScanRecord{
		ID:           models.NewExtensionID(),
		Timestamp:    models.NowMillis(),
		Subject:      scanSubjects[rand.IntN(len(scanSubjects))],
		Sender:       scanSenders[rand.IntN(len(scanSenders))],
		Score:        score,
		RiskLevel:    riskLevel(score),
		IsSuspicious: suspicious,
	}
	if suspicious {
		n := rand.IntN(3) + 1
		for i := 0; i < n; i++ {
			record.Flags = append(record.Flags, detect.PhishingFlags[rand.IntN(len(detect.PhishingFlags))])
		}
	}
	return record
}

func riskLevel(score float64) string {
	switch {
	case score >= 8:
		return "critical"
	case score >= 6.5:
		return "high"
	case score >= suspiciousThreshold:
		return "medium"
	default:
		return "low"
	}
}
