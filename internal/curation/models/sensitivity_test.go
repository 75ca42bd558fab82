package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "tapestry/pkg/domain-errors"
)

func TestParseSensitivity(t *testing.T) {
	for _, level := range []string{"public", "community_only", "restricted", "sacred"} {
		parsed, err := ParseSensitivity(level)
		assert.NoError(t, err)
		assert.Equal(t, Sensitivity(level), parsed)
	}

	_, err := ParseSensitivity("secret")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidSensitivityLevel))

	_, err = ParseSensitivity("")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidSensitivityLevel))
}

func TestRequiresKeeperApproval(t *testing.T) {
	assert.False(t, SensitivityPublic.RequiresKeeperApproval())
	assert.False(t, SensitivityCommunityOnly.RequiresKeeperApproval())
	assert.True(t, SensitivityRestricted.RequiresKeeperApproval())
	assert.True(t, SensitivitySacred.RequiresKeeperApproval())
}
