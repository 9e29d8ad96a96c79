package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSample(t *testing.T) {
	t.Parallel()

	data, err := Sample()
	require.NoError(t, err)

	assert.Contains(t, data.QuestTypes, "Exploration")
	assert.Contains(t, data.Difficulties, "Novice")
	assert.Contains(t, data.Interests, "History")
	assert.NotEmpty(t, data.Achievements)
	require.NotEmpty(t, data.Locations)
	assert.Equal(t, "Edinburgh Castle", data.Locations[0].Name)
	assert.InDelta(t, 55.9486, data.Locations[0].Latitude, 1e-9)

	require.Len(t, data.Quests, 2)
	require.NotNil(t, data.Quests[0].Campaign)
	assert.Equal(t, "Old Town Chronicles", *data.Quests[0].Campaign)
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	data, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, data.Users)
}

func TestParse_UnknownField(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("quest_types: [A]\nmonsters: [B]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "monsters")
}

func TestParse_DanglingReferences(t *testing.T) {
	t.Parallel()

	raw := []byte(`
quest_types: [Exploration]
difficulties: [Novice]
interests: [History]
users:
  - email: a@x.com
    password: secret123
campaigns:
  - title: Lost
    author: nobody@x.com
quests:
  - name: Q
    author: a@x.com
    campaign: Lost
    start_location: Nowhere
    quest_type: Exploration
    difficulty: Expert
    interest: History
`)
	_, err := Parse(raw)
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, `campaign "Lost": unknown author "nobody@x.com"`)
	assert.Contains(t, msg, `unknown start_location "Nowhere"`)
	assert.Contains(t, msg, `unknown difficulty "Expert"`)
	assert.Contains(t, msg, `unknown campaign of this author "Lost"`)
	assert.NotContains(t, msg, "quest_type")
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("interests: [Nature]\n"), 0o600))

	data, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Nature"}, data.Interests)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
