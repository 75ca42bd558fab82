// Package membership resolves whether a reviewer belongs to a subject's
// cultural community. The pipeline never decides membership itself; it always
// comes from the platform's identity directory, cached here because the same
// reviewers review many records.
package membership

import (
	"context"
	"sync"

	id "tapestry/pkg/domain"
)

// Resolver answers membership queries for a (reviewer, community) pair.
type Resolver interface {
	IsCommunityMember(ctx context.Context, reviewerID id.ReviewerID, community string) (bool, error)
}

// Static is a fixed-table resolver for development and tests.
type Static struct {
	mu      sync.RWMutex
	members map[string]map[id.ReviewerID]struct{}
}

func NewStatic() *Static {
	return &Static{members: make(map[string]map[id.ReviewerID]struct{})}
}

// Add registers a reviewer as a member of a community.
func (s *Static) Add(reviewerID id.ReviewerID, community string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.members[community] == nil {
		s.members[community] = make(map[id.ReviewerID]struct{})
	}
	s.members[community][reviewerID] = struct{}{}
}

func (s *Static) IsCommunityMember(_ context.Context, reviewerID id.ReviewerID, community string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.members[community][reviewerID]
	return ok, nil
}
