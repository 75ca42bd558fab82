package assignment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"tapestry/internal/curation/models"
	id "tapestry/pkg/domain"
)

type AssignmentSuite struct {
	suite.Suite
	now time.Time
}

func TestAssignmentSuite(t *testing.T) {
	suite.Run(t, new(AssignmentSuite))
}

func (s *AssignmentSuite) SetupTest() {
	s.now = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
}

func (s *AssignmentSuite) newRecord(sensitivity models.Sensitivity) *models.CurationRecord {
	record, err := models.NewCurationRecord(
		id.NewRecordID(),
		id.SubjectID(uuid.New()),
		id.UserID(uuid.New()),
		"anishinaabe",
		sensitivity,
		nil,
		s.now,
	)
	s.Require().NoError(err)
	return record
}

func (s *AssignmentSuite) TestAssign() {
	s.Run("issues one request per required role", func() {
		record := s.newRecord(models.SensitivitySacred)
		issued := Assign(record, s.now)

		s.Require().Len(issued, 3)
		roles := []models.ValidatorRole{issued[0].Role, issued[1].Role, issued[2].Role}
		s.Equal([]models.ValidatorRole{
			models.RoleCulturalExpert,
			models.RoleHistorian,
			models.RoleTraditionalKnowledgeKeeper,
		}, roles)
		s.Len(record.ValidationRequests, 3)
	})

	s.Run("requests carry the role's evaluation criteria", func() {
		record := s.newRecord(models.SensitivityRestricted)
		issued := Assign(record, s.now)

		s.Require().Len(issued, 2)
		s.Equal([]string{
			"cultural_accuracy",
			"contextual_appropriateness",
			"representation_fairness",
		}, issued[0].Criteria)
		s.Equal([]string{
			"historical_accuracy",
			"source_reliability",
			"chronological_consistency",
		}, issued[1].Criteria)
	})

	s.Run("reassignment issues nothing new", func() {
		record := s.newRecord(models.SensitivitySacred)
		s.Len(Assign(record, s.now), 3)
		s.Empty(Assign(record, s.now))
		s.Len(record.ValidationRequests, 3)
	})

	s.Run("satisfied roles are skipped", func() {
		record := s.newRecord(models.SensitivitySacred)
		s.Require().NoError(record.AddKnowledgeKeeperConsultation(
			id.UserID(uuid.New()), "anishinaabe", "", s.now))

		issued := Assign(record, s.now)
		s.Require().Len(issued, 2)
		for _, req := range issued {
			s.NotEqual(models.RoleTraditionalKnowledgeKeeper, req.Role)
		}
	})

	s.Run("typed expert consultation satisfies its role", func() {
		record := s.newRecord(models.SensitivityRestricted)
		s.Require().NoError(record.AddExpertConsultation(models.ExpertConsultation{
			ExpertID:   id.UserID(uuid.New()),
			ExpertType: models.RoleHistorian,
			Confidence: 80,
		}, s.now))

		issued := Assign(record, s.now)
		s.Require().Len(issued, 1)
		s.Equal(models.RoleCulturalExpert, issued[0].Role)
	})
}

func (s *AssignmentSuite) TestOutstanding() {
	record := s.newRecord(models.SensitivitySacred)
	s.Len(Outstanding(record), 3)

	Assign(record, s.now)
	s.Empty(Outstanding(record))
	s.Len(record.ValidationRequests, 3)
}

func (s *AssignmentSuite) TestCriteria() {
	s.Equal([]string{"methodological_rigor", "citation_quality"}, Criteria(models.RoleAcademic))

	// The returned slice is a copy.
	c := Criteria(models.RoleHistorian)
	c[0] = "mutated"
	s.Equal("historical_accuracy", Criteria(models.RoleHistorian)[0])
}
