package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempStore(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "postsctl.db"))
	t.Setenv("REDIS_URL", "")
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestSchemaCmd(t *testing.T) {
	useTempStore(t)

	out := execute(t, schemaCmd())
	assert.Contains(t, out, "Schema ready (sqlite)")
}

func TestSeedCmd(t *testing.T) {
	useTempStore(t)

	out := execute(t, seedCmd(), "--users", "2", "--posts", "3", "--seed", "99")
	assert.Contains(t, out, "Created 2 users and 6 posts")
}

func TestCheckCmd(t *testing.T) {
	useTempStore(t)

	out := execute(t, checkCmd())
	assert.Regexp(t, `Driver\s+sqlite`, out)
	assert.Regexp(t, `Database\s+ok`, out)
	assert.Regexp(t, `Redis\s+disabled`, out)
}
