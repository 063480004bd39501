package repositories

import (
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestClassifyPQError(t *testing.T) {
	tests := []struct {
		name string
		code pq.ErrorCode
		want error
	}{
		{"unique violation maps to duplicate key", "23505", ErrDuplicateKey},
		{"serialization failure maps to conflict", "40001", ErrConflict},
		{"deadlock maps to conflict", "40P01", ErrConflict},
		{"foreign key violation stays unmapped", "23503", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &pq.Error{Code: tt.code}
			require.Equal(t, tt.want, classifyPQError(err))
		})
	}
}

func TestClassifyPQError_WrappedChain(t *testing.T) {
	// COMMIT errors arrive wrapped by the driver plumbing; classification
	// must see through the chain.
	inner := &pq.Error{Code: "40001"}
	wrapped := fmt.Errorf("driver: bad connection state: %w", inner)
	require.Equal(t, ErrConflict, classifyPQError(wrapped))

	require.Nil(t, classifyPQError(fmt.Errorf("no pq error here")))
	require.Nil(t, classifyPQError(nil))
}
