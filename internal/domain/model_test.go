package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	role, err := ParseRole("employer")
	require.NoError(t, err)
	assert.Equal(t, RoleEmployer, role)

	role, err = ParseRole("candidate")
	require.NoError(t, err)
	assert.Equal(t, RoleCandidate, role)

	_, err = ParseRole("admin")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ParseRole("")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGeoPoint(t *testing.T) {
	p := NewGeoPoint(-79.38, 43.65)
	assert.Equal(t, "Point", p.Type)
	assert.Equal(t, -79.38, p.Longitude())
	assert.Equal(t, 43.65, p.Latitude())
	assert.True(t, p.Valid())

	assert.False(t, NewGeoPoint(181, 0).Valid())
	assert.False(t, NewGeoPoint(0, -91).Valid())
}
