package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHistoryItem_MapsFields(t *testing.T) {
	r := ExtensionScanRecord{
		ID:           "ext-1",
		Timestamp:    1700000000000,
		Subject:      "Win a prize",
		Sender:       "a@b.com",
		Score:        8,
		RiskLevel:    "high",
		Flags:        []string{"urgent"},
		IsSuspicious: true,
	}

	item := r.ToHistoryItem()

	assert.Equal(t, "ext-1", item.ID)
	assert.Equal(t, ItemTypeEmail, item.Type)
	assert.Equal(t, int64(1700000000000), item.Timestamp)
	assert.True(t, item.IsAIGenerated)
	assert.Equal(t, float64(80), item.Confidence)
	assert.Equal(t, "Win a prize", item.Preview)
	assert.Equal(t, &Metadata{
		Subject:      "Win a prize",
		Sender:       "a@b.com",
		PhishingRisk: "high",
		Flags:        []string{"urgent"},
	}, item.Metadata)
}

func TestToHistoryItem_ConfidenceCappedAt100(t *testing.T) {
	r := ExtensionScanRecord{Score: 42}
	assert.Equal(t, float64(100), r.ToHistoryItem().Confidence)
}

func TestIDNamespaces_AreDisjointByPrefix(t *testing.T) {
	assert.True(t, strings.HasPrefix(NewWebID(), "web-"))
	assert.True(t, strings.HasPrefix(NewExtensionID(), "ext-"))
	assert.NotEqual(t, NewWebID(), NewWebID())
}
