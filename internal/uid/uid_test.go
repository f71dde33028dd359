package uid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomString(t *testing.T) {
	t.Run("Assert length is respected", func(t *testing.T) {
		require := require.New(t)
		for _, n := range []int{1, 16, 32, 64} {
			s, err := RandomString(n)
			require.NoError(err)
			require.Len(s, n)
		}
	})

	t.Run("Assert output is URL safe", func(t *testing.T) {
		require := require.New(t)
		s, err := RandomString(256)
		require.NoError(err)
		for _, c := range s {
			require.Contains(alphabet, string(c))
		}
	})

	t.Run("Assert successive values differ", func(t *testing.T) {
		require := require.New(t)
		a, err := RandomString(32)
		require.NoError(err)
		b, err := RandomString(32)
		require.NoError(err)
		require.NotEqual(a, b)
	})

	t.Run("Assert non-positive lengths are rejected", func(t *testing.T) {
		require := require.New(t)
		_, err := RandomString(0)
		require.Error(err)
		_, err = RandomString(-4)
		require.Error(err)
	})
}
