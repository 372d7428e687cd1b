package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	for _, path := range [][]string{
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "version"},
		{"seed"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestSeedCmd_Flags(t *testing.T) {
	root := newRootCmd()
	cmd, _, err := root.Find([]string{"seed"})
	require.NoError(t, err)

	for _, name := range []string{"fake-users", "posts-per-user", "rand-seed"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "3", cmd.Flags().Lookup("posts-per-user").DefValue)
}

func TestCommands_RequireDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	for _, args := range [][]string{
		{"migrate", "up"},
		{"migrate", "version"},
		{"migrate", "down", "--steps", "1"},
		{"seed"},
	} {
		_, err := execute(t, args...)
		assert.ErrorIs(t, err, errNoDatabaseURL, args)
	}
}

func TestValidateDownFlags(t *testing.T) {
	assert.Error(t, validateDownFlags(0, false))
	assert.Error(t, validateDownFlags(-1, false))
	assert.Error(t, validateDownFlags(2, true))
	assert.NoError(t, validateDownFlags(1, false))
	assert.NoError(t, validateDownFlags(0, true))
}

func TestMigrateDown_RequiresChoiceBeforeConnecting(t *testing.T) {
	_, err := execute(t, "--database-url", "postgres://unreachable.invalid/diario", "migrate", "down")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--steps")
}

func TestFormatVersion(t *testing.T) {
	assert.Equal(t, "no migrations applied", formatVersion(0, false, false))
	assert.Equal(t, "2", formatVersion(2, false, true))
	assert.Equal(t, "1 (dirty)", formatVersion(1, true, true))
}
