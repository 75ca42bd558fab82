package models

import (
	dErrors "tapestry/pkg/domain-errors"
)

// Sensitivity is the declared access tier of a curation record. It gates
// which validator roles are required and under what conditions the record may
// be published.
type Sensitivity string

const (
	SensitivityPublic        Sensitivity = "public"
	SensitivityCommunityOnly Sensitivity = "community_only"
	SensitivityRestricted    Sensitivity = "restricted"
	SensitivitySacred        Sensitivity = "sacred"
)

var validSensitivities = map[Sensitivity]struct{}{
	SensitivityPublic:        {},
	SensitivityCommunityOnly: {},
	SensitivityRestricted:    {},
	SensitivitySacred:        {},
}

// ParseSensitivity validates and returns a Sensitivity.
func ParseSensitivity(s string) (Sensitivity, error) {
	level := Sensitivity(s)
	if _, ok := validSensitivities[level]; !ok {
		return "", dErrors.Newf(dErrors.CodeInvalidSensitivityLevel, "unknown sensitivity level %q", s)
	}
	return level, nil
}

func (s Sensitivity) IsValid() bool {
	_, ok := validSensitivities[s]
	return ok
}

// RequiresKeeperApproval reports whether publication is gated on at least one
// knowledge-keeper consultation.
func (s Sensitivity) RequiresKeeperApproval() bool {
	return s == SensitivityRestricted || s == SensitivitySacred
}

// ValidatorRole names a category of validator an assignment can target.
type ValidatorRole string

const (
	RoleCulturalExpert             ValidatorRole = "cultural_expert"
	RoleHistorian                  ValidatorRole = "historian"
	RoleTraditionalKnowledgeKeeper ValidatorRole = "traditional_knowledge_keeper"
	RoleAcademic                   ValidatorRole = "academic"
)
