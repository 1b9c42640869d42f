package models

import (
	"fmt"
	"time"
)

// DomainPayload is the closed, typed record carried by a Snapshot.
// Mock and live payloads share the same schema; Validate enforces it
// regardless of origin.
type DomainPayload interface {
	PayloadDomain() Domain
	Validate() error
}

// Snapshot is one domain's state at fetch time. Immutable once built.
type Snapshot struct {
	Domain      Domain        `json:"domain"`
	Origin      Origin        `json:"origin"`
	FetchedAt   time.Time     `json:"fetched_at"`
	Partial     bool          `json:"partial"`
	FailedItems []string      `json:"failed_items,omitempty"`
	Payload     DomainPayload `json:"payload"`
}

// Validate checks the snapshot invariants: the payload must exist and
// conform to its domain schema, and partial implies at least one
// recorded failed item.
func (s Snapshot) Validate() error {
	if s.Payload == nil {
		return fmt.Errorf("snapshot %s: nil payload", s.Domain)
	}
	if s.Payload.PayloadDomain() != s.Domain {
		return fmt.Errorf("snapshot %s: payload domain %s", s.Domain, s.Payload.PayloadDomain())
	}
	if s.Partial && len(s.FailedItems) == 0 {
		return fmt.Errorf("snapshot %s: partial without failed items", s.Domain)
	}
	return s.Payload.Validate()
}
