// Package policy resolves a declared sensitivity level into the access rules
// and validator requirements that apply to it. The table is fixed and the
// resolution is pure; it runs whenever sensitivity is set or re-evaluated.
package policy

import (
	"tapestry/internal/curation/models"
)

// AccessPolicy is the resolved rule set for one sensitivity level.
type AccessPolicy struct {
	Sensitivity            models.Sensitivity     `json:"sensitivity"`
	AccessRestrictions     []string               `json:"access_restrictions"`
	AccessRequirements     []string               `json:"access_requirements"`
	RequiredValidatorRoles []models.ValidatorRole `json:"required_validator_roles"`
}

var policyTable = map[models.Sensitivity]AccessPolicy{
	models.SensitivityPublic: {
		Sensitivity:            models.SensitivityPublic,
		RequiredValidatorRoles: []models.ValidatorRole{models.RoleCulturalExpert},
	},
	models.SensitivityCommunityOnly: {
		Sensitivity:            models.SensitivityCommunityOnly,
		AccessRestrictions:     []string{"community_members_only"},
		AccessRequirements:     []string{"community_membership"},
		RequiredValidatorRoles: []models.ValidatorRole{models.RoleCulturalExpert},
	},
	models.SensitivityRestricted: {
		Sensitivity:            models.SensitivityRestricted,
		AccessRestrictions:     []string{"representative_endorsement_required"},
		AccessRequirements:     []string{"representative_endorsement", "purpose_statement"},
		RequiredValidatorRoles: []models.ValidatorRole{models.RoleCulturalExpert, models.RoleHistorian},
	},
	models.SensitivitySacred: {
		Sensitivity:        models.SensitivitySacred,
		AccessRestrictions: []string{"knowledge_keeper_approval_required", "no_commercial_use"},
		AccessRequirements: []string{"knowledge_keeper_approval"},
		RequiredValidatorRoles: []models.ValidatorRole{
			models.RoleCulturalExpert,
			models.RoleHistorian,
			models.RoleTraditionalKnowledgeKeeper,
		},
	},
}

// Resolve returns the access policy for a sensitivity level. The returned
// slices are copies; callers may mutate them freely.
func Resolve(level models.Sensitivity) (AccessPolicy, bool) {
	p, ok := policyTable[level]
	if !ok {
		return AccessPolicy{}, false
	}
	return AccessPolicy{
		Sensitivity:            p.Sensitivity,
		AccessRestrictions:     append([]string(nil), p.AccessRestrictions...),
		AccessRequirements:     append([]string(nil), p.AccessRequirements...),
		RequiredValidatorRoles: append([]models.ValidatorRole(nil), p.RequiredValidatorRoles...),
	}, true
}

// RequiredRoles is a convenience wrapper for callers that only need the
// validator roles.
func RequiredRoles(level models.Sensitivity) []models.ValidatorRole {
	p, ok := Resolve(level)
	if !ok {
		return nil
	}
	return p.RequiredValidatorRoles
}
