package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLeadID(t *testing.T) {
	id, err := parseLeadID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"0", "-1", "abc", ""} {
		_, err := parseLeadID(bad)
		assert.Error(t, err, bad)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLIAddQualifyExport(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "cli.db"))
	t.Setenv("GROK_API_KEY", "")
	t.Setenv("AMQP_URL", "")
	t.Setenv("SENTRY_DSN", "")

	out, err := execute(t, "add-lead", "--name", "Pat Lee", "--email", "pat@acme.com", "--company", "Acme Inc.")
	require.NoError(t, err)
	var lead struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &lead))
	assert.Equal(t, "Pat Lee", lead.Name)

	out, err = execute(t, "qualify", "1")
	require.NoError(t, err)
	var qualified struct {
		Score *int `json:"score"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &qualified))
	require.NotNil(t, qualified.Score)
	assert.GreaterOrEqual(t, *qualified.Score, 55)

	out, err = execute(t, "export")
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewBufferString(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Acme Inc.", records[1][3])

	_, err = execute(t, "clear")
	assert.ErrorContains(t, err, "--yes")

	_, err = execute(t, "qualify", "99")
	assert.Error(t, err)
}
