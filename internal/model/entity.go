// Package model defines the core value types shared by the extraction,
// scoring, and reporting layers.
package model

import (
	"time"

	"github.com/google/uuid"
)

// EntityType identifies the kind of fact an Entity represents.
type EntityType string

// Supported entity types.
const (
	EntityName        EntityType = "name"
	EntityPhone       EntityType = "phone"
	EntityEmail       EntityType = "email"
	EntityAddress     EntityType = "address"
	EntitySocial      EntityType = "social"
	EntityVIN         EntityType = "vin"
	EntitySSNMasked   EntityType = "ssn_masked"
	EntityBusiness    EntityType = "business"
	EntityRelative    EntityType = "relative"
	EntityAssociate   EntityType = "associate"
	EntityProperty    EntityType = "property"
	EntityCourtRecord EntityType = "court_record"
	EntityVoterRecord EntityType = "voter_record"
	EntityAge         EntityType = "age"
	EntityDate        EntityType = "date"
	EntitySalary      EntityType = "salary"
	EntityEmployment  EntityType = "employment"
	EntityEducation   EntityType = "education"
	EntityLegal       EntityType = "legal"
	EntityVehicle     EntityType = "vehicle"
	EntityFinancial   EntityType = "financial"
)

// Entity is a single extracted fact. Entities are immutable value objects:
// a confidence boost on corroboration produces a new Entity via WithBoost,
// never a mutation of an existing one.
type Entity struct {
	ID         string            `json:"id"`
	Type       EntityType        `json:"type"`
	Value      string            `json:"value"`
	Confidence int               `json:"confidence"` // 0-100
	Source     string            `json:"source"`
	Timestamp  time.Time         `json:"timestamp"`
	Verified   bool              `json:"verified"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// NewEntity creates an Entity with a fresh ID and clamped confidence.
func NewEntity(typ EntityType, value string, confidence int, source string) Entity {
	return Entity{
		ID:         uuid.New().String(),
		Type:       typ,
		Value:      value,
		Confidence: ClampConfidence(confidence),
		Source:     source,
		Timestamp:  time.Now().UTC(),
	}
}

// WithMeta returns a copy of the entity with the given metadata key set.
func (e Entity) WithMeta(key, value string) Entity {
	meta := make(map[string]string, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		meta[k] = v
	}
	meta[key] = value
	e.Metadata = meta
	return e
}

// WithBoost returns a copy of the entity with its confidence raised by
// delta (clamped to 100) and marked verified.
func (e Entity) WithBoost(delta int) Entity {
	e.Confidence = ClampConfidence(e.Confidence + delta)
	e.Verified = true
	return e
}

// ClampConfidence bounds a confidence score to [0,100].
func ClampConfidence(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}
