// Package domain holds typed identifiers shared across modules.
//
// Each ID is a distinct named type over uuid.UUID so the compiler rejects
// cross-type assignment (a ReviewerID can never be passed where a RecordID is
// expected). Parsing enforces the invariant that IDs are valid, non-nil UUIDs
// at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "tapestry/pkg/domain-errors"
)

// RecordID identifies one curation record.
type RecordID uuid.UUID

// SubjectID references an external content item. The curation pipeline never
// owns or mutates the subject itself.
type SubjectID uuid.UUID

// UserID identifies a platform user (submitter, expert, reviewer, keeper).
type UserID uuid.UUID

// ReviewerID identifies a community reviewer. Distinct from UserID so review
// dedup logic cannot accidentally mix actor kinds.
type ReviewerID uuid.UUID

func (id RecordID) String() string   { return uuid.UUID(id).String() }
func (id SubjectID) String() string  { return uuid.UUID(id).String() }
func (id UserID) String() string     { return uuid.UUID(id).String() }
func (id ReviewerID) String() string { return uuid.UUID(id).String() }

func (id RecordID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id SubjectID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id UserID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id ReviewerID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// NewRecordID mints a fresh record identifier.
func NewRecordID() RecordID { return RecordID(uuid.New()) }

func parseUUID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" must not be nil")
	}
	return u, nil
}

// ParseRecordID validates and returns a RecordID.
func ParseRecordID(s string) (RecordID, error) {
	u, err := parseUUID(s, "record id")
	return RecordID(u), err
}

// ParseSubjectID validates and returns a SubjectID.
func ParseSubjectID(s string) (SubjectID, error) {
	u, err := parseUUID(s, "subject id")
	return SubjectID(u), err
}

// ParseUserID validates and returns a UserID.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user id")
	return UserID(u), err
}

// ParseReviewerID validates and returns a ReviewerID.
func ParseReviewerID(s string) (ReviewerID, error) {
	u, err := parseUUID(s, "reviewer id")
	return ReviewerID(u), err
}
