package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"migrate", "seed", "token", "user"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestTokenCommand_RequiresEmail(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"token"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), `"email" not set`)
}

func TestUserCommand_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range userCmd.Commands() {
		names[c.Name()] = true
		assert.NotNil(t, c.Flags().Lookup("email"), "%s takes --email", c.Name())
	}
	assert.True(t, names["activate"])
	assert.True(t, names["deactivate"])
}

func TestUserDeactivate_RequiresEmail(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"user", "deactivate"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), `"email" not set`)
}

func TestLoadSeedData(t *testing.T) {
	t.Cleanup(func() { seedFile = "" })

	seedFile = ""
	data, err := loadSeedData()
	require.NoError(t, err)
	assert.NotEmpty(t, data.Quests, "built-in sample has quests")

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("interests: [Botany]\n"), 0o600))
	seedFile = path
	data, err = loadSeedData()
	require.NoError(t, err)
	assert.Equal(t, []string{"Botany"}, data.Interests)

	seedFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = loadSeedData()
	assert.Error(t, err)
}
