//go:build !integration

package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbceylan/pinbridge-web-sub000/internal/model"
)

func makeQueries(n int) []model.MatchQuery {
	queries := make([]model.MatchQuery, n)
	for i := range queries {
		original := model.OriginalPlace{
			Name:      "Pizza Palace",
			Address:   "123 Main St, Springfield, IL 62701",
			Latitude:  ptr(40.7128),
			Longitude: ptr(-74.0060),
		}
		queries[i] = model.MatchQuery{
			Original: original,
			Candidates: []model.CandidatePlace{{
				ID:        "c1",
				Name:      original.Name,
				Address:   original.Address,
				Latitude:  original.Latitude,
				Longitude: original.Longitude,
			}},
		}
	}
	return queries
}

func TestProcessBatch_Empty(t *testing.T) {
	records, err := processBatch(context.Background(), testEngine(t), nil, 4)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestProcessBatch_PreservesOrder(t *testing.T) {
	queries := makeQueries(10)
	for i := range queries {
		queries[i].Candidates[0].ID = string(rune('a' + i))
	}

	records, err := processBatch(context.Background(), testEngine(t), queries, 3)
	require.NoError(t, err)
	require.Len(t, records, 10)

	runID := records[0].RunID
	assert.NotEmpty(t, runID)
	for i, r := range records {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, runID, r.RunID)
		require.NotNil(t, r.Result)
		assert.Empty(t, r.Error)
		assert.Equal(t, string(rune('a'+i)), r.Result.BestMatch.Candidate.ID)
	}
}

func TestProcessBatch_FailuresDoNotAbort(t *testing.T) {
	queries := makeQueries(3)
	queries[1].Options = &model.MatchOptions{MinConfidenceScore: ptr(-5.0)}

	records, err := processBatch(context.Background(), testEngine(t), queries, 2)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.NotNil(t, records[0].Result)
	assert.Nil(t, records[1].Result)
	assert.Contains(t, records[1].Error, "min_confidence_score")
	assert.NotNil(t, records[2].Result)
}

func TestProcessBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := processBatch(ctx, testEngine(t), makeQueries(5), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessBatch_ZeroConcurrencyRunsSerially(t *testing.T) {
	records, err := processBatch(context.Background(), testEngine(t), makeQueries(2), 0)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
