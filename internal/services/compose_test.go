package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeResultsMergesInOrder(t *testing.T) {
	thunks := []ResultThunk{
		func(ctx context.Context) (map[string]interface{}, error) {
			return map[string]interface{}{"a": 1, "shared": "first"}, nil
		},
		func(ctx context.Context) (map[string]interface{}, error) {
			return map[string]interface{}{"b": 2, "shared": "second"}, nil
		},
	}

	merged, err := ComposeResults(context.Background(), thunks)
	require.NoError(t, err)
	assert.Equal(t, 1, merged["a"])
	assert.Equal(t, 2, merged["b"])
	// Later thunks win on key collision.
	assert.Equal(t, "second", merged["shared"])
}

func TestComposeResultsFirstErrorAborts(t *testing.T) {
	firstRan := false
	thirdRan := false
	boom := errors.New("boom")

	thunks := []ResultThunk{
		func(ctx context.Context) (map[string]interface{}, error) {
			firstRan = true
			return map[string]interface{}{"a": 1}, nil
		},
		func(ctx context.Context) (map[string]interface{}, error) {
			return nil, boom
		},
		func(ctx context.Context) (map[string]interface{}, error) {
			thirdRan = true
			return map[string]interface{}{"c": 3}, nil
		},
	}

	merged, err := ComposeResults(context.Background(), thunks)
	require.ErrorIs(t, err, boom)
	assert.Nil(t, merged)
	assert.True(t, firstRan)
	assert.False(t, thirdRan)
}

func TestComposeResultsEmpty(t *testing.T) {
	merged, err := ComposeResults(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, merged)
}
