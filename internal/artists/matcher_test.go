package artists

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/publicart/massimport/internal/entities"
)

type fakeDirectory struct {
	creators    []entities.Creator
	searchCalls int
	created     []string
	createErr   error
}

func (d *fakeDirectory) SearchCreators(_ context.Context, _ string) ([]entities.Creator, error) {
	d.searchCalls++
	return d.creators, nil
}

func (d *fakeDirectory) CreateCreator(_ context.Context, name string, _ map[string]string) (string, error) {
	if d.createErr != nil {
		return "", d.createErr
	}
	d.created = append(d.created, name)
	return "creator-new", nil
}

func TestFindMatchingArtists_ExactSingle(t *testing.T) {
	dir := &fakeDirectory{creators: []entities.Creator{
		{ID: "c1", Name: "José Martínez"},
		{ID: "c2", Name: "Someone Else"},
	}}
	m := NewMatcher(dir)

	result, err := m.FindMatchingArtists(context.Background(), "Jose Martinez")

	require.NoError(t, err)
	assert.True(t, result.IsExact)
	assert.False(t, result.IsAmbiguous)
	require.NotNil(t, result.BestMatch)
	assert.Equal(t, "c1", result.BestMatch.CreatorID)
	assert.Equal(t, 1.0, result.BestMatch.Score)
	assert.Equal(t, entities.MatchTypeExact, result.BestMatch.MatchType)
}

func TestFindMatchingArtists_ExactAmbiguous(t *testing.T) {
	dir := &fakeDirectory{creators: []entities.Creator{
		{ID: "c1", Name: "Jim Green"},
		{ID: "c2", Name: "Jim Green"},
	}}
	m := NewMatcher(dir)

	result, err := m.FindMatchingArtists(context.Background(), "Jim Green")

	require.NoError(t, err)
	assert.True(t, result.IsExact)
	assert.True(t, result.IsAmbiguous)
	assert.Len(t, result.Candidates, 2)
}

func TestFindMatchingArtists_TokenFloor(t *testing.T) {
	dir := &fakeDirectory{creators: []entities.Creator{
		// 2 shared tokens of 2+3 -> dice 0.8, above the floor
		{ID: "keep", Name: "Emily Carr Studio"},
		// 1 shared token of 2+2 -> dice 0.5, below the floor
		{ID: "drop", Name: "Emily Doe"},
	}}
	m := NewMatcher(dir)

	result, err := m.FindMatchingArtists(context.Background(), "Emily Carr")

	require.NoError(t, err)
	assert.False(t, result.IsExact)
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, "keep", result.Candidates[0].CreatorID)
	assert.Equal(t, entities.MatchTypeToken, result.Candidates[0].MatchType)
	assert.InDelta(t, 0.8, result.Candidates[0].Score, 1e-9)
	require.NotNil(t, result.BestMatch)
	assert.Equal(t, "keep", result.BestMatch.CreatorID)
}

func TestFindMatchingArtists_CandidateAtFloorKept(t *testing.T) {
	// 7 of 10+10 tokens shared -> dice exactly 0.7
	dir := &fakeDirectory{creators: []entities.Creator{
		{ID: "edge", Name: "a b c d e f g x y z"},
	}}
	m := NewMatcher(dir)

	result, err := m.FindMatchingArtists(context.Background(), "a b c d e f g q r s")

	require.NoError(t, err)
	require.Len(t, result.Candidates, 1)
	assert.InDelta(t, ConfidenceFloor, result.Candidates[0].Score, 1e-9)
}

func TestFindMatchingArtists_EmptyInputSkipsQuery(t *testing.T) {
	dir := &fakeDirectory{}
	m := NewMatcher(dir)

	result, err := m.FindMatchingArtists(context.Background(), "   ")

	require.NoError(t, err)
	assert.False(t, result.IsExact)
	assert.False(t, result.IsAmbiguous)
	assert.Empty(t, result.Candidates)
	assert.Nil(t, result.BestMatch)
	assert.Equal(t, 0, dir.searchCalls)
}

func TestCreateArtistFromSourceData(t *testing.T) {
	dir := &fakeDirectory{}
	m := NewMatcher(dir)

	src := SourceArtist{ExternalID: "42", Country: "Canada"}
	id, err := m.CreateArtistFromSourceData(context.Background(), "Takao Tanabe", src, "vancouver")

	require.NoError(t, err)
	assert.Equal(t, "creator-new", id)
	assert.Equal(t, []string{"Takao Tanabe"}, dir.created)
}

func TestCreateArtistFromSourceData_Error(t *testing.T) {
	dir := &fakeDirectory{createErr: errors.New("boom")}
	m := NewMatcher(dir)

	_, err := m.CreateArtistFromSourceData(context.Background(), "X", SourceArtist{}, "osm")
	assert.Error(t, err)
}

func TestFindSourceArtist(t *testing.T) {
	dataset := []SourceArtist{
		{ExternalID: "1", FirstName: "Takao", LastName: "Tanabe"},
		{ExternalID: "2", FirstName: "José", LastName: "Martínez"},
	}

	t.Run("both sides match", func(t *testing.T) {
		got := FindSourceArtist("Jose Martinez", dataset)
		require.NotNil(t, got)
		assert.Equal(t, "2", got.ExternalID)
	})

	t.Run("single token matching only first name", func(t *testing.T) {
		assert.Nil(t, FindSourceArtist("Takao", dataset))
	})

	t.Run("single token matching only last name", func(t *testing.T) {
		assert.Nil(t, FindSourceArtist("Tanabe", dataset))
	})

	t.Run("no match", func(t *testing.T) {
		assert.Nil(t, FindSourceArtist("Unknown Person", dataset))
	})

	t.Run("empty query", func(t *testing.T) {
		assert.Nil(t, FindSourceArtist("", dataset))
	})
}

func TestBuildCreatorTags(t *testing.T) {
	t.Run("full source data", func(t *testing.T) {
		src := SourceArtist{
			ExternalID: "77",
			Biography:  "Sculptor.",
			Country:    "Canada",
			Website:    "https://example.com",
			ProfileURL: "https://example.com/profile",
			PhotoURL:   "https://example.com/photo.jpg",
		}
		tags := BuildCreatorTags("Jim Green", src, "vancouver")

		assert.Equal(t, "vancouver", tags["source"])
		assert.Equal(t, "Jim Green", tags["source:name"])
		assert.Equal(t, "77", tags["source:external_id"])
		assert.Equal(t, "Sculptor.", tags["biography"])
		assert.Equal(t, "Canada", tags["country"])
		assert.Equal(t, "https://example.com", tags["website"])
	})

	t.Run("minimal source data omits absent fields", func(t *testing.T) {
		tags := BuildCreatorTags("", SourceArtist{}, "")
		assert.Empty(t, tags)
		for k, v := range tags {
			assert.NotEmpty(t, v, "tag %s must not be empty", k)
		}
	})
}
