package service

import (
	"context"
	"time"

	"tapestry/internal/curation/models"
	"tapestry/internal/curation/store"
	dErrors "tapestry/pkg/domain-errors"
)

// QueryPublished lists published records, optionally narrowed by sensitivity
// and culture. Access enforcement for community_only and stricter tiers is
// the gallery's concern; this subsystem reports what the policy requires via
// each record's sensitivity.
func (s *Service) QueryPublished(ctx context.Context, filter store.PublishedFilter) ([]*models.CurationRecord, error) {
	if filter.Sensitivity != "" && !filter.Sensitivity.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvalidSensitivityLevel, "unknown sensitivity level %q", filter.Sensitivity)
	}
	records, err := s.records.ListPublished(ctx, filter)
	if err != nil {
		return nil, wrapRecordErr(err)
	}
	return records, nil
}

// Report aggregates pipeline activity over a submission-time window.
type Report struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`

	TotalSubmitted      int                              `json:"total_submitted"`
	ByStatus            map[models.Status]int            `json:"by_status"`
	BySensitivity       map[models.Sensitivity]int       `json:"by_sensitivity"`
	ByVerificationLevel map[models.VerificationLevel]int `json:"by_verification_level"`

	AverageValidationScore float64 `json:"average_validation_score"`
	ExpertConsultations    int     `json:"expert_consultations"`
	KeeperConsultations    int     `json:"keeper_consultations"`
	CommunityReviews       int     `json:"community_reviews"`
	PublicationRate        float64 `json:"publication_rate"`
}

// GenerateCurationReport aggregates counts and distributions for records
// submitted in [from, to). Reads a consistent snapshot per record; the report
// itself makes no cross-record consistency claim.
func (s *Service) GenerateCurationReport(ctx context.Context, from, to time.Time) (*Report, error) {
	if !to.After(from) {
		return nil, dErrors.New(dErrors.CodeBadRequest, "report window end must be after start")
	}

	records, err := s.records.ListSubmittedBetween(ctx, from, to)
	if err != nil {
		return nil, wrapRecordErr(err)
	}

	report := &Report{
		From:                from,
		To:                  to,
		TotalSubmitted:      len(records),
		ByStatus:            make(map[models.Status]int),
		BySensitivity:       make(map[models.Sensitivity]int),
		ByVerificationLevel: make(map[models.VerificationLevel]int),
	}

	var scoreSum float64
	var scored int
	for _, record := range records {
		report.ByStatus[record.Status]++
		report.BySensitivity[record.Sensitivity]++
		report.ByVerificationLevel[record.VerificationLevel]++
		report.ExpertConsultations += len(record.ExpertConsultations)
		report.KeeperConsultations += len(record.KnowledgeKeeperConsultations)
		report.CommunityReviews += len(record.CommunityReviews)
		if len(record.ExpertConsultations) > 0 {
			scoreSum += record.ValidationScore
			scored++
		}
	}
	if scored > 0 {
		report.AverageValidationScore = scoreSum / float64(scored)
	}
	if len(records) > 0 {
		report.PublicationRate = float64(report.ByStatus[models.StatusPublished]) / float64(len(records))
	}
	return report, nil
}
