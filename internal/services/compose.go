package services

import (
	"context"
)

// ResultThunk is one independent sub-operation producing a partial response
// payload.
type ResultThunk func(ctx context.Context) (map[string]interface{}, error)

// ComposeResults runs the thunks in order and merges their payloads into one
// response object. Key collisions resolve last-write-wins in thunk order, so
// fields from later thunks take precedence. The first error aborts the run
// and is returned as the composite result; payloads already applied by
// earlier thunks are NOT rolled back.
func ComposeResults(ctx context.Context, thunks []ResultThunk) (map[string]interface{}, error) {
	merged := make(map[string]interface{})
	for _, thunk := range thunks {
		data, err := thunk(ctx)
		if err != nil {
			return nil, err
		}
		for k, v := range data {
			merged[k] = v
		}
	}
	return merged, nil
}
