package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_Map(t *testing.T) {
	t.Run("known label", func(t *testing.T) {
		coarse, err := Elasticc.Map("SNIa-SALT2")
		require.NoError(t, err)
		assert.Equal(t, "SNIa", coarse)
	})

	t.Run("unknown label", func(t *testing.T) {
		_, err := Elasticc.Map("not-a-class")
		assert.ErrorIs(t, err, ErrUnknownClass)
	})

	t.Run("custom table", func(t *testing.T) {
		m := Table{"SNIa": "Ia", "SNII": "CC"}
		coarse, err := m.Map("SNII")
		require.NoError(t, err)
		assert.Equal(t, "CC", coarse)
	})
}

func TestClasses(t *testing.T) {
	classes := Classes(Table{"a": "Y", "b": "X", "c": "Y"})
	assert.Equal(t, []string{"X", "Y"}, classes)

	assert.Contains(t, Classes(Elasticc), "SNIa")
	assert.Contains(t, Classes(Elasticc), "KN")
}
