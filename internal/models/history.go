// Package models defines the record types persisted by the FakEye store:
// scan history items, extension scan records, community posts and users.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ItemType classifies a scanned artifact.
type ItemType string

const (
	ItemTypeImage ItemType = "image"
	ItemTypeVideo ItemType = "video"
	ItemTypeText  ItemType = "text"
	ItemTypeEmail ItemType = "email"
)

// Metadata carries the type-dependent details of a scan. Which fields are
// set depends on the item type: fileName for image/video, textLength for
// text, the rest for email.
type Metadata struct {
	FileName     string   `json:"fileName,omitempty"`
	Subject      string   `json:"subject,omitempty"`
	Sender       string   `json:"sender,omitempty"`
	TextLength   int      `json:"textLength,omitempty"`
	PhishingRisk string   `json:"phishingRisk,omitempty"`
	Flags        []string `json:"flags,omitempty"`
}

// HistoryItem is one completed scan. Items are immutable once created;
// the collection is stored newest-first (prepend on write).
type HistoryItem struct {
	ID            string    `json:"id"`
	Type          ItemType  `json:"type"`
	Timestamp     int64     `json:"timestamp"` // ms since epoch
	IsAIGenerated bool      `json:"isAIGenerated"`
	Confidence    float64   `json:"confidence"` // percentage, [0,100]
	Preview       string    `json:"preview,omitempty"`
	Metadata      *Metadata `json:"metadata,omitempty"`
}

// Id namespaces are disjoint by construction so the merge's dedup-by-id
// check cannot confuse a locally created item with a producer record:
// locally created items get "web-" ids, producer records "ext-" ids.

// NewWebID returns a fresh id for a locally created history item.
func NewWebID() string {
	return fmt.Sprintf("web-%s", uuid.NewString())
}

// NewExtensionID returns a fresh id for a producer-side scan record.
func NewExtensionID() string {
	return fmt.Sprintf("ext-%s", uuid.NewString())
}

// NowMillis is the timestamp format used throughout the store.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
