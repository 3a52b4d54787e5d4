package models

// ExtensionScanRecord is the browser-extension producer's own schema for a
// phishing scan. The producer owns these records; the host application only
// ever sees them through the reconciliation step.
type ExtensionScanRecord struct {
	ID           string   `json:"id"`
	Timestamp    int64    `json:"timestamp"`
	Subject      string   `json:"subject"`
	Sender       string   `json:"sender"`
	Score        float64  `json:"score"` // raw score, roughly [0,10]
	RiskLevel    string   `json:"riskLevel"`
	Flags        []string `json:"flags"`
	IsSuspicious bool     `json:"isSuspicious"`
}

// ToHistoryItem maps a producer record into the host history schema.
// A suspicious email is treated as an "AI generated" threat and the raw
// score is scaled to a percentage, capped at 100.
func (r ExtensionScanRecord) ToHistoryItem() HistoryItem {
	confidence := r.Score * 10
	if confidence > 100 {
		confidence = 100
	}
	return HistoryItem{
		ID:            r.ID,
		Type:          ItemTypeEmail,
		Timestamp:     r.Timestamp,
		IsAIGenerated: r.IsSuspicious,
		Confidence:    confidence,
		Preview:       r.Subject,
		Metadata: &Metadata{
			Subject:      r.Subject,
			Sender:       r.Sender,
			PhishingRisk: r.RiskLevel,
			Flags:        r.Flags,
		},
	}
}
