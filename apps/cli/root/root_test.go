package root

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	platformauth "github.com/parsa000721/CopTrack/platform/go/auth"
	"github.com/parsa000721/CopTrack/platform/go/datastore"
)

const testSecret = "cli-test-secret-0123456789"

func withFileBackend(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SNAPSHOT_BACKEND", "file")
	t.Setenv("SNAPSHOT_FILE", filepath.Join(dir, "coptrack.json"))
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("AUTH_SECRET", testSecret)
	return dir
}

func run(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	cmd := Root()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestSeedThenDeactivateStation(t *testing.T) {
	withFileBackend(t)

	out := run(t, "snapshot", "seed")
	require.Contains(t, out, "snapshot ready: 32 stations, 2 users")

	out = run(t, "stations", "set-active", "ps_pushkar", "--active=false")
	require.Equal(t, "ps_pushkar active=false\n", out)

	out = run(t, "stations", "list")
	var found bool
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 && fields[0] == "ps_pushkar" {
			found = true
			require.Equal(t, "false", fields[len(fields)-1])
		}
	}
	require.True(t, found, out)

	out = run(t, "users", "list")
	require.Contains(t, out, datastore.SeedOfficerID)
	require.Contains(t, out, "Christiangunj")
}

func TestExportAndCopy(t *testing.T) {
	dir := withFileBackend(t)

	exported := filepath.Join(dir, "export.json")
	run(t, "snapshot", "export", "--out", exported)

	raw, err := os.ReadFile(exported)
	require.NoError(t, err)
	var docs map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &docs))
	require.Contains(t, docs, datastore.DocStations)
	require.Contains(t, docs, datastore.DocCredentials)

	target := filepath.Join(dir, "copy.json")
	out := run(t, "snapshot", "copy", "--to-backend", "file", "--to-file", target)
	require.Contains(t, out, "to file")

	_, err = os.Stat(target)
	require.NoError(t, err)
}

func TestTokenIsVerifiable(t *testing.T) {
	withFileBackend(t)

	out := run(t, "token", "--user", datastore.SeedOfficerID)

	tokens, err := platformauth.NewTokens(testSecret, time.Hour)
	require.NoError(t, err)
	claims, err := tokens.Verify(context.Background(), strings.TrimSpace(out))
	require.NoError(t, err)
	require.Equal(t, datastore.SeedOfficerID, claims.Subject)
	require.Equal(t, "ps_christiangunj", claims.StationID)
}
