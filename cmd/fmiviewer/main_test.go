package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	fmierrors "github.com/halentin/FMI-Viewer/internal/errors"
	"github.com/halentin/FMI-Viewer/internal/fmutest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bouncingBall = `<?xml version="1.0" encoding="UTF-8"?>
<fmiModelDescription fmiVersion="2.0" modelName="BouncingBall" guid="{1AE5E10D}" numberOfEventIndicators="1">
  <CoSimulation modelIdentifier="BouncingBall"/>
  <ModelVariables>
    <ScalarVariable name="h" valueReference="0" causality="output" initial="exact"><Real start="1" unit="m"/></ScalarVariable>
    <ScalarVariable name="v" valueReference="2" causality="output"><Real unit="m/s"/></ScalarVariable>
  </ModelVariables>
  <ModelStructure><Derivatives><Unknown index="1"/><Unknown index="2"/></Derivatives></ModelStructure>
</fmiModelDescription>`

// env isolates config, cache and catalog in a temp home and resets flag globals.
func env(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("CI", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("FMIVIEWER_CACHE_PATH", filepath.Join(home, "cache.db"))
	t.Setenv("FMIVIEWER_CATALOG_SQLITE_PATH", filepath.Join(home, "catalog.db"))
	t.Chdir(home)

	cfgFile, verbose, outputFormat, noCache = "", false, "", false
	batchWorkers, serveRoot = 0, ""
	configInitPath, configInitForce = filepath.Join(".fmiviewer", "config.yaml"), false
	return home
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func writeBall(t *testing.T) string {
	return fmutest.WriteFMU(t, bouncingBall,
		fmutest.Entry{Name: "binaries/linux64/BouncingBall.so", Body: "so"},
		fmutest.Entry{Name: "binaries/win64/BouncingBall.dll", Body: "dll"},
	)
}

func TestInspectCommand(t *testing.T) {
	env(t)
	path := writeBall(t)

	out, _, err := execute(t, "", "inspect", path, "--format", "json")
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "BouncingBall", result["modelName"])
	assert.Equal(t, float64(2), result["numberOfContinuousStates"])
	assert.Equal(t, []interface{}{"linux64", "win64"}, result["platforms"])

	out, _, err = execute(t, "", "inspect", path, "--format", "quiet")
	require.NoError(t, err)
	assert.Equal(t, "BouncingBall (FMI 2.0): 2 variables, platforms: linux64, win64\n", out)
}

func TestInspectCommand_Errors(t *testing.T) {
	env(t)

	_, _, err := execute(t, "", "inspect", filepath.Join(t.TempDir(), "missing.fmu"), "--format", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot read archive")

	_, _, err = execute(t, "", "inspect", writeBall(t), "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output.format")
}

func TestEntriesAndPlatformsCommands(t *testing.T) {
	env(t)
	path := writeBall(t)

	out, _, err := execute(t, "", "entries", path, "--format", "standard")
	require.NoError(t, err)
	assert.Equal(t, "binaries/linux64/BouncingBall.so\nbinaries/win64/BouncingBall.dll\n", out)

	out, _, err = execute(t, "", "platforms", path, "--format", "json")
	require.NoError(t, err)
	var platforms []string
	require.NoError(t, json.Unmarshal([]byte(out), &platforms))
	assert.Equal(t, []string{"linux64", "win64"}, platforms)
}

func TestBatchCommand(t *testing.T) {
	env(t)
	good := writeBall(t)
	bad := fmutest.WriteFile(t, "broken.fmu", []byte("nope"))

	out, stderr, err := execute(t, "", "batch", good, bad, "--format", "quiet", "--workers", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 archives failed")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], good+": BouncingBall"))
	assert.True(t, strings.HasPrefix(lines[1], bad+": ❌"))
	assert.Contains(t, stderr, "1 inspected, 1 failed")

	out, _, err = execute(t, "", "batch", good, "--format", "json")
	require.NoError(t, err)
	var reports []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, good, reports[0]["path"])
}

func TestCacheCommands(t *testing.T) {
	env(t)
	path := writeBall(t)

	_, _, err := execute(t, "", "inspect", path, "--format", "json")
	require.NoError(t, err)

	out, _, err := execute(t, "", "cache", "stats", "--format", "json")
	require.NoError(t, err)
	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, float64(1), stats["entries"])

	out, _, err = execute(t, "", "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "cleared")

	out, _, err = execute(t, "", "cache", "stats", "--format", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, float64(0), stats["entries"])
}

func TestCatalogCommands(t *testing.T) {
	env(t)
	path := writeBall(t)

	out, _, err := execute(t, "", "catalog", "add", path, "--no-cache")
	require.NoError(t, err)
	assert.Contains(t, out, "BouncingBall (2 variables)")

	out, _, err = execute(t, "", "catalog", "search", "H", "--format", "json")
	require.NoError(t, err)
	var matches []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "h", matches[0]["name"])
	assert.Equal(t, "BouncingBall", matches[0]["model_name"])

	out, _, err = execute(t, "", "catalog", "list", "--format", "standard")
	require.NoError(t, err)
	assert.Contains(t, out, "BouncingBall")
	assert.Contains(t, out, "linux64,win64")
}

func TestCatalogShowCommand(t *testing.T) {
	env(t)
	path := writeBall(t)

	out, _, err := execute(t, "", "catalog", "add", path)
	require.NoError(t, err)
	fields := strings.Fields(out)
	require.GreaterOrEqual(t, len(fields), 2)
	id := fields[1]

	out, _, err = execute(t, "", "catalog", "show", id, "--format", "standard")
	require.NoError(t, err)
	assert.Contains(t, out, "BouncingBall (FMI 2.0)")
	assert.Contains(t, out, "Platforms: linux64, win64")
	assert.Contains(t, out, "m/s")

	_, _, err = execute(t, "", "catalog", "show", "00000000-0000-0000-0000-000000000000")
	require.Error(t, err)
}

func TestReportError(t *testing.T) {
	env(t)
	err := fmt.Errorf("inspect: %w", fmierrors.MissingDescriptorError("m.fmu", "modelDescription.xml"))

	var buf bytes.Buffer
	reportError(&buf, err)
	assert.Equal(t, "Error: "+err.Error()+"\n", buf.String())

	verbose = true
	buf.Reset()
	reportError(&buf, err)
	assert.Contains(t, buf.String(), "[CRITICAL] [MISSING_DESCRIPTOR]")
	assert.Contains(t, buf.String(), "entry: modelDescription.xml")

	buf.Reset()
	reportError(&buf, errors.New("plain"))
	assert.Equal(t, "Error: plain\n", buf.String())
}

func TestServeCommand(t *testing.T) {
	env(t)
	path := writeBall(t)

	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"fmi.platforms","arguments":{"path":"model.fmu"}}}`,
	}, "\n")

	out, _, err := execute(t, in, "serve", "--root", filepath.Dir(path))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"protocolVersion"`)
	assert.Contains(t, lines[1], `linux64`)
	assert.NotContains(t, lines[1], `"isError"`)
}

func TestConfigCommands(t *testing.T) {
	home := env(t)

	out, _, err := execute(t, "", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "catalog:")
	assert.Contains(t, out, filepath.Join(home, "catalog.db"))

	target := filepath.Join(home, "out", "config.yaml")
	out, _, err = execute(t, "", "config", "init", "--path", target)
	require.NoError(t, err)
	assert.Contains(t, out, target)

	_, _, err = execute(t, "", "config", "init", "--path", target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
