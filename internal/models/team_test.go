package models

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTeamIsFCS(t *testing.T) {
	team := &Team{}
	assert.False(t, team.IsFCS(), "missing division is not FCS")

	team.Division = sql.NullString{String: DivisionFBS, Valid: true}
	assert.False(t, team.IsFCS())

	team.Division = sql.NullString{String: DivisionFCS, Valid: true}
	assert.True(t, team.IsFCS())
}
