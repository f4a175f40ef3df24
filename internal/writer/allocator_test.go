package writer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpanTracker_Reserve(t *testing.T) {
	tr := NewSpanTracker()

	off, err := tr.Reserve(4)
	require.NoError(t, err)
	require.Equal(t, uint64(0), off)

	off, err = tr.Reserve(6)
	require.NoError(t, err)
	require.Equal(t, uint64(4), off)

	require.Equal(t, uint64(10), tr.End())
}

func TestSpanTracker_RejectsZero(t *testing.T) {
	tr := NewSpanTracker()
	_, err := tr.Reserve(0)
	require.Error(t, err)
}

func TestSpanTracker_IsReserved(t *testing.T) {
	tr := NewSpanTracker()
	_, _ = tr.Reserve(10)

	require.True(t, tr.IsReserved(0, 1))
	require.True(t, tr.IsReserved(9, 5))
	require.False(t, tr.IsReserved(10, 5))
}

func TestSpanTracker_ValidateNoOverlaps(t *testing.T) {
	tr := NewSpanTracker()
	_, _ = tr.Reserve(4)
	_, _ = tr.Reserve(4)
	require.NoError(t, tr.ValidateNoOverlaps())
}
