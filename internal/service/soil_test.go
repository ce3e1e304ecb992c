package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoilLookupKnownPlace(t *testing.T) {
	s, err := NewSoilService()
	require.NoError(t, err)

	p := s.Lookup("Vijayawada")
	assert.Equal(t, "black", p.SoilType)
	assert.False(t, p.Default)
	assert.Contains(t, p.SuitableCrops, "cotton")

	hints, ok := p.CropGuidance["cotton"]
	require.True(t, ok)
	assert.Equal(t, 120, hints.Nitrogen)
	assert.NotEmpty(t, hints.Fertilizer)
}

func TestSoilLookupContainment(t *testing.T) {
	s, err := NewSoilService()
	require.NoError(t, err)

	p := s.Lookup("near guntur town")
	assert.Equal(t, "black", p.SoilType)
	assert.False(t, p.Default)
}

func TestSoilLookupDefault(t *testing.T) {
	s, err := NewSoilService()
	require.NoError(t, err)

	p := s.Lookup("reykjavik")
	assert.Equal(t, "black", p.SoilType)
	assert.True(t, p.Default, "unknown place should be flagged as default")
	assert.NotEmpty(t, p.SuitableCrops)
}
