package audit

import (
	"context"
	"time"

	id "tapestry/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose. This
// enables different retention policies and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with cultural-governance significance:
	// publication decisions and knowledge-keeper consultations. These require
	// durable storage and long retention.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers routine pipeline activity useful for
	// debugging and operational visibility; can be sampled.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key pipeline actions. Kept
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	RecordID  id.RecordID
	ActorID   string
	Action    string
	Decision  string
	Reason    string
	RequestID string
}

// AuditEvent names one auditable pipeline action.
type AuditEvent string

const (
	EventRecordSubmitted          AuditEvent = "record_submitted"
	EventHistoricalSourceAdded    AuditEvent = "historical_source_added"
	EventKnowledgeKeeperConsulted AuditEvent = "knowledge_keeper_consulted"
	EventExpertValidationRecorded AuditEvent = "expert_validation_recorded"
	EventCommunityReviewSubmitted AuditEvent = "community_review_submitted"
	EventValidatorsAssigned       AuditEvent = "validators_assigned"
	EventPublicationDecisionMade  AuditEvent = "publication_decision_made"
)

var eventCategories = map[AuditEvent]EventCategory{
	// Compliance events: governance-significant, long retention.
	EventKnowledgeKeeperConsulted: CategoryCompliance,
	EventPublicationDecisionMade:  CategoryCompliance,

	// Operations events: routine pipeline activity.
	EventRecordSubmitted:          CategoryOperations,
	EventHistoricalSourceAdded:    CategoryOperations,
	EventExpertValidationRecorded: CategoryOperations,
	EventCommunityReviewSubmitted: CategoryOperations,
	EventValidatorsAssigned:       CategoryOperations,
}

// Category returns the EventCategory for this audit event. Unknown events
// default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByRecord(ctx context.Context, recordID id.RecordID) ([]Event, error)
	ListAll(ctx context.Context) ([]Event, error)
}
