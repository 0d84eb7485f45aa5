package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rpggio/pantry/internal/codec"
	"github.com/rpggio/pantry/internal/domain/ingredient"
	"github.com/rpggio/pantry/internal/mcp"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	stdout string
	stderr string
	err    error
}

// pantryEnv writes a config pointing at a fresh store and returns its path.
func pantryEnv(t *testing.T, backend string) string {
	t.Helper()
	for _, key := range []string{
		"PANTRY_CONFIG_PATH", "PANTRY_STORAGE_BACKEND", "PANTRY_STORAGE_PATH", "PANTRY_DB_PATH",
		"PANTRY_LOG_LEVEL", "PANTRY_LOG_PATH", "PANTRY_LOCALE", "PANTRY_DATE_LAYOUT", "PANTRY_STRICT",
	} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	cfg := fmt.Sprintf(`storage:
  backend: %s
  path: %s
db:
  path: %s
log:
  level: error
`, backend, filepath.Join(dir, "pantry.json"), filepath.Join(dir, "pantry.db"))
	path := filepath.Join(dir, "pantry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

func run(t *testing.T, configPath, stdin string, args ...string) result {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "pantry", cmd.Use)
	assert.Contains(t, cmd.Long, "eat-by")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"serve", "sections", "export", "import", "add-meal", "add", "activity"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)

	levelFlag := cmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, levelFlag)
}

func TestSections_Golden(t *testing.T) {
	cfg := pantryEnv(t, "file")

	res := run(t, cfg, "", "import", filepath.Join("testdata", "pantry.json"))
	require.NoError(t, res.err, res.stderr)
	assert.Equal(t, "imported 4 meals, 2 unsorted\n", res.stdout)

	res = run(t, cfg, "", "sections")
	require.NoError(t, res.err, res.stderr)

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "sections", []byte(res.stdout))
}

func TestAddAndExport(t *testing.T) {
	cfg := pantryEnv(t, "file")

	res := run(t, cfg, "", "add-meal", "Dinner")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "-> Undated, section 1 position 0 (0 Ingredients)")
	mealID := strings.Fields(res.stdout)[0]

	res = run(t, cfg, "", "add", "Rice", "--meal", mealID, "--date", "2025-05-03")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "-> Eat by 03/05/2025, section 1 position 0 (1 Ingredient)")

	res = run(t, cfg, "", "add", "Eggs")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "-> Unsorted Food (1 Item)")

	exported := run(t, cfg, "", "export")
	require.NoError(t, exported.err, exported.stderr)
	assert.JSONEq(t,
		`{"unsorted":[{"name":"Eggs","date":null}],"meals":[{"name":"Dinner","ingredients":[{"name":"Rice","date":[2025,5,3]}]}]}`,
		exported.stdout)

	out := filepath.Join(t.TempDir(), "out", "export.json")
	res = run(t, cfg, "", "export", "-o", out)
	require.NoError(t, res.err, res.stderr)
	assert.Empty(t, res.stdout)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, exported.stdout, string(data))
}

func TestAdd_Errors(t *testing.T) {
	cfg := pantryEnv(t, "file")

	res := run(t, cfg, "", "add", "Rice", "--date", "2025-02-30")
	require.ErrorIs(t, res.err, ingredient.ErrInvalidDate)

	res = run(t, cfg, "", "add", "Rice", "--meal", "missing")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "missing")

	res = run(t, cfg, "", "add-meal", "  ")
	require.Error(t, res.err)
}

func TestImport_RejectsMalformedDocument(t *testing.T) {
	cfg := pantryEnv(t, "file")

	res := run(t, cfg, "", "add-meal", "Dinner")
	require.NoError(t, res.err, res.stderr)
	before := run(t, cfg, "", "export")
	require.NoError(t, before.err)

	res = run(t, cfg, `{"meals":[{"name":"X","ingredients":[{"name":"A","date":[2025,2,30]}]}]}`, "import", "-")
	require.ErrorIs(t, res.err, codec.ErrDecode)

	after := run(t, cfg, "", "export")
	require.NoError(t, after.err)
	assert.Equal(t, before.stdout, after.stdout)
}

func TestImport_Stdin(t *testing.T) {
	cfg := pantryEnv(t, "sqlite")

	res := run(t, cfg, `{"unsorted":[],"meals":[{"name":"Lunch","ingredients":[]}]}`, "import", "-")
	require.NoError(t, res.err, res.stderr)
	assert.Equal(t, "imported 1 meals, 0 unsorted\n", res.stdout)

	res = run(t, cfg, "", "sections")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "== Undated ==\n  Lunch (0 Ingredients)\n")
}

func TestActivity(t *testing.T) {
	res := run(t, pantryEnv(t, "file"), "", "activity")
	require.ErrorIs(t, res.err, ErrNoActivity)

	cfg := pantryEnv(t, "sqlite")
	res = run(t, cfg, "", "add-meal", "Dinner")
	require.NoError(t, res.err, res.stderr)
	res = run(t, cfg, "", "add", "Eggs")
	require.NoError(t, res.err, res.stderr)

	res = run(t, cfg, "", "activity")
	require.NoError(t, res.err, res.stderr)
	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "ingredient_added")
	assert.Contains(t, lines[1], "meal_added")
}

func TestServe_RejectsUnknownTransport(t *testing.T) {
	res := run(t, pantryEnv(t, "file"), "", "serve", "--transport", "carrier-pigeon")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "carrier-pigeon")
}

func TestHTTPHandler_Health(t *testing.T) {
	srv := httptest.NewServer(mcp.NewHTTPHandler(nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
