package migrations

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll_SortedAndNonEmpty(t *testing.T) {
	t.Parallel()

	all, err := All()
	require.NoError(t, err)
	require.NotEmpty(t, all)

	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Name, all[i].Name)
	}
	for _, m := range all {
		assert.NotEmpty(t, strings.TrimSpace(m.SQL), m.Name)
	}
}

func TestAll_DefinesUniqueIndexes(t *testing.T) {
	t.Parallel()

	all, err := All()
	require.NoError(t, err)

	var schema strings.Builder
	for _, m := range all {
		schema.WriteString(m.SQL)
	}

	for _, index := range []string{"user_email", "bookmark_user_quest", "follow_pair", "quest_type_name", "difficulty_name", "interest_name"} {
		assert.Contains(t, schema.String(), "DEFINE INDEX IF NOT EXISTS "+index, index)
	}
}

func TestLoad_Order(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"010_later.surql": {Data: []byte("DEFINE TABLE b;")},
		"002_first.surql": {Data: []byte("DEFINE TABLE a;")},
		"notes.txt":       {Data: []byte("ignored")},
	}

	got, err := load(fsys)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "002_first.surql", got[0].Name)
	assert.Equal(t, "010_later.surql", got[1].Name)
}
