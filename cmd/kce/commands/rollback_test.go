package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/kce/internal/store"
)

func TestMatchVersion(t *testing.T) {
	versions := []store.Version{
		{ID: "aaa111", Summary: "first"},
		{ID: "aab222", Summary: "second"},
		{ID: "bbb333", Summary: "third"},
	}

	v, err := matchVersion(versions, "bbb")
	require.NoError(t, err)
	assert.Equal(t, "third", v.Summary)

	// Unique prefix of any length works.
	v, err = matchVersion(versions, "aab")
	require.NoError(t, err)
	assert.Equal(t, "second", v.Summary)

	_, err = matchVersion(versions, "aa")
	assert.Error(t, err, "ambiguous prefix must be rejected")

	_, err = matchVersion(versions, "zzz")
	assert.ErrorIs(t, err, store.ErrVersionNotFound)
}
