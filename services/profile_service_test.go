package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"museum_recommender/models"
)

func baseQuestionnaire() *models.Questionnaire {
	return &models.Questionnaire{
		GroupID:        "g1",
		AdultCount:     2,
		KnowledgeLevel: 2,
	}
}

func TestResolveProfileCasualCouple(t *testing.T) {
	p, err := ResolveProfile(baseQuestionnaire())
	require.NoError(t, err)

	assert.Equal(t, 2, p.GroupSizeClass)
	assert.Equal(t, models.GroupCasual, p.GroupType)
	assert.Equal(t, 1.0, p.PacingCoefficient)
}

func TestResolveProfileGroupTypeInference(t *testing.T) {
	q := baseQuestionnaire()
	q.ChildCount = 2
	p, err := ResolveProfile(q)
	require.NoError(t, err)
	assert.Equal(t, models.GroupFamily, p.GroupType)

	q = baseQuestionnaire()
	q.KnowledgeLevel = 3
	p, err = ResolveProfile(q)
	require.NoError(t, err)
	assert.Equal(t, models.GroupScholar, p.GroupType)

	// Children outrank knowledge: a knowledgeable family is a family.
	q = baseQuestionnaire()
	q.ChildCount = 1
	q.KnowledgeLevel = 4
	p, err = ResolveProfile(q)
	require.NoError(t, err)
	assert.Equal(t, models.GroupFamily, p.GroupType)
}

func TestResolveProfileSizeClasses(t *testing.T) {
	cases := []struct {
		adults, children, want int
	}{
		{1, 0, 1},
		{2, 0, 2},
		{2, 3, 3},
		{4, 3, 4},
	}
	for _, tc := range cases {
		q := baseQuestionnaire()
		q.AdultCount = tc.adults
		q.ChildCount = tc.children
		p, err := ResolveProfile(q)
		require.NoError(t, err)
		assert.Equal(t, tc.want, p.GroupSizeClass)
	}
}

func TestResolveProfilePacingStacks(t *testing.T) {
	// Scholar, reduced mobility, large group: 1.0 + 0.5 + 0.3 + 0.2.
	q := baseQuestionnaire()
	q.AdultCount = 8
	q.KnowledgeLevel = 4
	q.ReducedMobility = true
	p, err := ResolveProfile(q)
	require.NoError(t, err)
	assert.Equal(t, 2.0, p.PacingCoefficient)

	// Family with reduced mobility: 1.0 + 0.2 + 0.3.
	q = baseQuestionnaire()
	q.ChildCount = 1
	q.ReducedMobility = true
	p, err = ResolveProfile(q)
	require.NoError(t, err)
	assert.Equal(t, 1.5, p.PacingCoefficient)
}

func TestResolveProfileDeduplicatesPreferences(t *testing.T) {
	q := baseQuestionnaire()
	q.PreferredEras = []int{1860, 1870, 1860}
	q.PreferredThemes = []string{"natural", "social", "natural"}
	p, err := ResolveProfile(q)
	require.NoError(t, err)
	assert.Equal(t, []int{1860, 1870}, p.PreferredEras)
	assert.Equal(t, []string{"natural", "social"}, p.PreferredThemes)
}

func TestResolveProfileRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.Questionnaire)
	}{
		{"missing group id", func(q *models.Questionnaire) { q.GroupID = "" }},
		{"empty group", func(q *models.Questionnaire) { q.AdultCount = 0 }},
		{"negative counts", func(q *models.Questionnaire) { q.AdultCount = 3; q.ChildCount = -1 }},
		{"knowledge too low", func(q *models.Questionnaire) { q.KnowledgeLevel = 0 }},
		{"knowledge too high", func(q *models.Questionnaire) { q.KnowledgeLevel = 5 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := baseQuestionnaire()
			tc.mutate(q)
			_, err := ResolveProfile(q)
			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}

	_, err := ResolveProfile(nil)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
}
