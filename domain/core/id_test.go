package core

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAnalysisID_UniqueTimeOrderedUUIDs(t *testing.T) {
	seen := make(map[AnalysisID]struct{}, 2000)
	for i := 0; i < 2000; i++ {
		id := NewAnalysisID()
		require.NotEmpty(t, id.String())

		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}

		parsed, err := uuid.Parse(id.String())
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), parsed.Version())
	}
}

func TestDatasetHash_StableAndShort(t *testing.T) {
	a := NewDatasetHash([]byte("5,30,\"М\""))
	b := NewDatasetHash([]byte("5,30,\"М\""))
	c := NewDatasetHash([]byte("5,31,\"М\""))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a.String(), 64)
	assert.Len(t, a.Short(), 12)
}

func TestMalformedRecordError_MatchesSentinel(t *testing.T) {
	err := NewMalformedRecordError(3, `5,30,"X"`, "unknown gender")

	require.True(t, errors.Is(err, ErrMalformedRecord))
	assert.True(t, IsMalformedRecordError(err))
	assert.False(t, IsSampleError(err))
	assert.Contains(t, err.Error(), "line 3")

	var mre *MalformedRecordError
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, `5,30,"X"`, mre.Value)
}

func TestErrorHelpers_Classify(t *testing.T) {
	assert.True(t, IsSampleError(NewInsufficientSampleError("men", 1)))
	assert.True(t, IsSampleError(NewDegenerateVarianceError("men", "women")))
	assert.True(t, IsInvalidBoundsError(NewInvalidBoundsError("age", "min > max")))
	assert.False(t, IsInvalidBoundsError(NewInsufficientSampleError("men", 0)))
}
