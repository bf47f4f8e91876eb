package main

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/blackboard/pkg/blackboard"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const guardYAML = `name: guard
description: village guard
parameters:
  - name: speed
    type: float
    value: 5
  - empty: true
  - name: label
    type: string
    value: npc
  - name: cooldown
    type: duration
    value: 1s
`

// run executes the root command with args after resetting every flag, since
// cobra commands are package globals.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func writeGuard(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "guard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(guardYAML), 0644))
	return path
}

func TestParseSet(t *testing.T) {
	raw, err := parseSet([]string{"speed=9", "label=42", "tags=[a, b]", "cooldown=2s", "note=", "hostile=true"})
	require.NoError(t, err)
	assert.Equal(t, "42", raw["label"])

	template, err := blackboard.NewRegistry([]*blackboard.Parameter{
		blackboard.New("speed", 5.0),
		blackboard.New("label", "npc"),
		blackboard.New("note", "none"),
	})
	require.NoError(t, err)

	values, err := overrideValues(template, raw)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"speed":    9,
		"label":    "42",
		"tags":     []any{"a", "b"},
		"cooldown": "2s",
		"note":     "",
		"hostile":  true,
	}, values)

	_, err = parseSet([]string{"speed"})
	assert.ErrorContains(t, err, "expected name=value")

	_, err = parseSet([]string{"=1"})
	assert.Error(t, err)

	_, err = parseSet([]string{"a=1", "a=2"})
	assert.ErrorContains(t, err, "more than once")
}

func TestKinds(t *testing.T) {
	out, err := run(t, "kinds")
	require.NoError(t, err)
	assert.Contains(t, out, "MENU")
	assert.Contains(t, out, "Basic/Lists/String List")

	out, err = run(t, "kinds", "--mermaid")
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")
}

func TestValidate(t *testing.T) {
	out, err := run(t, "validate", writeGuard(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Registry is valid (4 slots, 3 parameters)")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("parameters:\n  - name: speed\n    type: float\n    value: fast\n"), 0644))
	out, err = run(t, "validate", bad)
	assert.EqualError(t, err, "registry is invalid")
	assert.Contains(t, out, "Validation failed")
	assert.Contains(t, out, `field "speed"`)
}

func TestInspect(t *testing.T) {
	out, err := run(t, "inspect", writeGuard(t), "-o", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "# guard")
	assert.Contains(t, out, "| 0 | speed | `float` | 5 |")
	assert.Contains(t, out, "| 1 | _empty_ | | |")

	out, err = run(t, "inspect", writeGuard(t), "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"cooldown"`)
	assert.Contains(t, out, `"1s"`)
}

func TestInstantiate(t *testing.T) {
	out, err := run(t, "instantiate", writeGuard(t), "--set", "speed=9", "--set", "cooldown=3s", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "value: 9")
	assert.Contains(t, out, "value: 3s")

	out, err = run(t, "instantiate", writeGuard(t), "--set", "label=boss", "-o", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "## Overrides")
	assert.Contains(t, out, `- label: "boss"`)

	_, err = run(t, "instantiate", writeGuard(t), "--set", "ghost=1")
	assert.ErrorContains(t, err, "not defined in template")
}

func TestInstantiate_StringLookingLikeScalar(t *testing.T) {
	for _, text := range []string{"42", "true", "null"} {
		out, err := run(t, "instantiate", writeGuard(t), "--set", "label="+text, "-o", "yaml")
		require.NoError(t, err, text)
		assert.Contains(t, out, `value: "`+text+`"`)
	}
}

func TestTemplateLifecycle(t *testing.T) {
	dir := t.TempDir()
	file := writeGuard(t)

	out, err := run(t, "template", "ls", "--store-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No templates found.")

	out, err = run(t, "template", "put", file, "--store-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Published template guard")

	out, err = run(t, "template", "put", file, "--name", "elite", "--store-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Published template elite")

	out, err = run(t, "template", "ls", "--store-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "elite\nguard\n", out)

	out, err = run(t, "template", "show", "guard", "-o", "yaml", "--store-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "description: village guard")

	out, err = run(t, "template", "instantiate", "guard", "--set", "speed=2", "-o", "markdown", "--store-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "- speed: 2")

	out, err = run(t, "template", "instantiate", "guard", "--set", "label=true", "-o", "yaml", "--store-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, `value: "true"`)

	_, err = run(t, "template", "rm", "guard", "--store-dir", dir)
	require.NoError(t, err)

	_, err = run(t, "template", "show", "guard", "--store-dir", dir)
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "blackboard version dev\n", out)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := run(t, "instantiate", writeGuard(t), "--log-level", "loud")
	assert.Error(t, err)
}

func TestTemplate_RedactAndEncrypt(t *testing.T) {
	dir := t.TempDir()
	file := writeGuard(t)
	t.Setenv(encryptionKeyEnv, base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32)))

	_, err := run(t, "template", "put", file, "--redact", "^label$", "--store-dir", dir)
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, "guard.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "__encrypted__")
	assert.NotContains(t, string(raw), "village guard")

	out, err := run(t, "template", "show", "guard", "-o", "yaml", "--store-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "description: village guard")
	assert.NotContains(t, out, "npc")

	t.Setenv(encryptionKeyEnv, "short")
	_, err = run(t, "template", "ls", "--store-dir", dir)
	assert.ErrorContains(t, err, encryptionKeyEnv)
}

func TestInvalidRedactPattern(t *testing.T) {
	_, err := run(t, "template", "ls", "--redact", "(", "--store-dir", t.TempDir())
	assert.ErrorContains(t, err, "invalid --redact pattern")
}
