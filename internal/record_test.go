package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord(t *testing.T) {
	r := NewRecord(
		[]string{"SNID", "MJD", "RA"},
		[]any{int64(7), []float64{1, 2, 3}, 12.5},
	)

	t.Run("scalar", func(t *testing.T) {
		v, err := r.Scalar("RA")
		require.NoError(t, err)
		assert.Equal(t, 12.5, v)
	})

	t.Run("scalar on sequence", func(t *testing.T) {
		_, err := r.Scalar("MJD")
		assert.Error(t, err)
	})

	t.Run("sequence from typed slice", func(t *testing.T) {
		vs, err := r.Sequence("MJD")
		require.NoError(t, err)
		assert.Equal(t, []any{1.0, 2.0, 3.0}, vs)
	})

	t.Run("sequence on scalar", func(t *testing.T) {
		_, err := r.Sequence("RA")
		assert.Error(t, err)
	})

	t.Run("missing column", func(t *testing.T) {
		_, err := r.Scalar("DEC")
		assert.Error(t, err)
	})

	t.Run("map", func(t *testing.T) {
		assert.Equal(t, int64(7), r.Map()["SNID"])
		assert.Equal(t, 3, r.Len())
	})
}
