package idx_test

import (
	"testing"
	"time"

	"github.com/meridianhq/accounts/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("generates distinct sortable ids", func(t *testing.T) {
		a := idx.New()
		b := idx.New()
		require.NotEqual(t, a, b)
		require.Less(t, a.String(), b.String())
	})

	t.Run("embeds a recent timestamp", func(t *testing.T) {
		id := idx.New()
		require.WithinDuration(t, time.Now().UTC(), id.Time(), time.Second)
	})
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("round trips a generated id", func(t *testing.T) {
		id := idx.New()
		parsed, err := idx.Parse(id.String())
		require.NoError(t, err)
		require.Equal(t, id, parsed)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := idx.Parse("  ")
		require.ErrorIs(t, err, idx.ErrInvalid)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		_, err := idx.Parse("not-a-ulid")
		require.ErrorIs(t, err, idx.ErrInvalid)
	})
}
