package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfile() *PreferenceProfile {
	return &PreferenceProfile{
		GroupID:           "g1",
		GroupSizeClass:    2,
		GroupType:         GroupFamily,
		KnowledgeLevel:    3,
		PacingCoefficient: 1.2,
	}
}

func TestProfileValidateAccepts(t *testing.T) {
	require.NoError(t, validProfile().Validate())
}

func TestProfileValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*PreferenceProfile)
		field  string
	}{
		{"empty group id", func(p *PreferenceProfile) { p.GroupID = "" }, "group_id"},
		{"size class low", func(p *PreferenceProfile) { p.GroupSizeClass = 0 }, "group_size_class"},
		{"size class high", func(p *PreferenceProfile) { p.GroupSizeClass = 5 }, "group_size_class"},
		{"bad group type", func(p *PreferenceProfile) { p.GroupType = "vip" }, "group_type"},
		{"knowledge low", func(p *PreferenceProfile) { p.KnowledgeLevel = 0 }, "knowledge_level"},
		{"knowledge high", func(p *PreferenceProfile) { p.KnowledgeLevel = 5 }, "knowledge_level"},
		{"zero pacing", func(p *PreferenceProfile) { p.PacingCoefficient = 0 }, "pacing_coefficient"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validProfile()
			tc.mutate(p)
			err := p.Validate()
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestNeighborDepthBounded(t *testing.T) {
	reg := NewAuthorRegistry([]Author{
		{ID: 1, Name: "a", SimilarIDs: []int64{2}},
		{ID: 2, Name: "b", SimilarIDs: []int64{1, 3}},
		{ID: 3, Name: "c", SimilarIDs: []int64{2, 4}},
		{ID: 4, Name: "d", SimilarIDs: []int64{3}},
	})

	assert.Equal(t, 0, reg.NeighborDepth(1, 1, 2))
	assert.Equal(t, 1, reg.NeighborDepth(1, 2, 2))
	assert.Equal(t, 2, reg.NeighborDepth(1, 3, 2))
	// Three hops away stays unreachable under the depth bound.
	assert.Equal(t, 0, reg.NeighborDepth(1, 4, 2))
	assert.Equal(t, 3, reg.NeighborDepth(1, 4, 3))
}

func TestRegistryLists(t *testing.T) {
	reg := NewAuthorRegistry([]Author{
		{ID: 1, Name: "a", SimilarIDs: []int64{2}},
		{ID: 2, Name: "b"},
	})
	assert.True(t, reg.Lists(1, 2))
	assert.False(t, reg.Lists(2, 1))
	assert.False(t, reg.Lists(9, 1))
}

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("disk full")
	err := &StoreError{Op: "insert case", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "insert case")
}
