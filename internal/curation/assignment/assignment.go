// Package assignment determines which validator roles a record still needs
// and issues validation requests for them.
package assignment

import (
	"time"

	"tapestry/internal/curation/models"
	"tapestry/internal/curation/policy"
)

// roleCriteria lists the fixed evaluation criteria sent with a request for
// each validator role.
var roleCriteria = map[models.ValidatorRole][]string{
	models.RoleCulturalExpert: {
		"cultural_accuracy",
		"contextual_appropriateness",
		"representation_fairness",
	},
	models.RoleHistorian: {
		"historical_accuracy",
		"source_reliability",
		"chronological_consistency",
	},
	models.RoleTraditionalKnowledgeKeeper: {
		"traditional_protocol_compliance",
		"sacredness_assessment",
		"community_consent",
	},
	models.RoleAcademic: {
		"methodological_rigor",
		"citation_quality",
	},
}

// Criteria returns the evaluation criteria for a role.
func Criteria(role models.ValidatorRole) []string {
	return append([]string(nil), roleCriteria[role]...)
}

// Assign computes the validation requests still outstanding for the record
// and appends them to it. Roles already satisfied by a consultation, or
// already named by a pending request, are skipped, so re-invocation after
// partial completion never duplicates a request.
//
// Assign only mutates the record; broadcasting the requests to the validator
// directory is the caller's concern.
func Assign(record *models.CurationRecord, now time.Time) []models.ValidationRequest {
	var issued []models.ValidationRequest
	for _, role := range policy.RequiredRoles(record.Sensitivity) {
		if record.RoleSatisfied(role) || record.RequestPending(role) {
			continue
		}
		req := models.ValidationRequest{
			Role:        role,
			Criteria:    Criteria(role),
			RequestedAt: now,
		}
		record.AppendValidationRequest(req)
		issued = append(issued, req)
	}
	return issued
}

// Outstanding reports the roles that have neither a satisfying consultation
// nor a pending request, without mutating the record.
func Outstanding(record *models.CurationRecord) []models.ValidatorRole {
	var roles []models.ValidatorRole
	for _, role := range policy.RequiredRoles(record.Sensitivity) {
		if record.RoleSatisfied(role) || record.RequestPending(role) {
			continue
		}
		roles = append(roles, role)
	}
	return roles
}
