package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saimn/fitslic/internal/config"
	"github.com/saimn/fitslic/internal/fitstest"
	"github.com/saimn/fitslic/internal/licensing"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, args ...string) result {
	t.Helper()
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvDeletePolicy, "")
	t.Setenv(config.EnvCatalog, "")

	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), args, &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestList(t *testing.T) {
	for _, flag := range []string{"--list", "-l"} {
		r := run(t, flag, "ignored.fits")
		require.Equal(t, 0, r.code, r.stderr)
		lines := strings.Split(strings.TrimSpace(r.stdout), "\n")
		assert.Len(t, lines, 8)
		assert.Equal(t, "cc_by: CC BY 3.0 (http://creativecommons.org/licenses/by/3.0/)", lines[1])
	}
}

func TestFileArgumentRequired(t *testing.T) {
	r := run(t, "--list")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "accepts 1 arg(s)")
}

func TestRoundTrip(t *testing.T) {
	path := fitstest.Write(t, fitstest.Observation())

	r := run(t, "-i", path)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, licensing.NotFoundMessage+"\n", r.stdout)

	r = run(t, "--add", "cc_by", path)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Empty(t, r.stdout)

	r = run(t, "--info", path)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "CC BY 3.0 (http://creativecommons.org/licenses/by/3.0/)\n", r.stdout)

	r = run(t, "-d", path)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Empty(t, r.stderr)

	r = run(t, "-i", path)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, licensing.NotFoundMessage+"\n", r.stdout)

	r = run(t, "-d", path)
	require.Equal(t, 0, r.code)
	assert.Equal(t, licensing.NotFoundMessage+"\n", r.stderr)
}

func TestFirstFlagWins(t *testing.T) {
	path := fitstest.Write(t, fitstest.Observation())

	r := run(t, "--info", "--add", "cc0", path)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, licensing.NotFoundMessage+"\n", r.stdout, "info runs, add does not")

	r = run(t, "--delete", "--list", path)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "pdm: Public Domain Mark 1.0")
}

func TestAddUnknownLicense(t *testing.T) {
	path := fitstest.Write(t, fitstest.Observation())
	r := run(t, "-a", "gpl", path)
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, `unknown license: "gpl"`)
}

func TestAddMissingFile(t *testing.T) {
	r := run(t, "-a", "cc0", filepath.Join(t.TempDir(), "missing.fits"))
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "file not found")
}

func TestNoOperation(t *testing.T) {
	path := fitstest.Write(t, fitstest.Observation())
	r := run(t, path)
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "no operation given")
	assert.Contains(t, r.stdout, "Usage:")
}

func TestDeletePolicyFlag(t *testing.T) {
	fx := fitstest.Observation()
	fx.Cards = append(fx.Cards,
		fitstest.Card{Name: "LICENSE", Value: "CC BY"},
		fitstest.Card{Name: "LICURL", Value: "http://creativecommons.org/licenses/by/3.0/"},
	)
	path := fitstest.Write(t, fx)

	r := run(t, "-d", "--delete-policy", "all", path)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, licensing.NotFoundMessage+"\n", r.stderr)

	r = run(t, "-H", path)
	require.Equal(t, 0, r.code, r.stderr)
	assert.NotContains(t, r.stdout, "LICURL")

	r = run(t, "-d", "--delete-policy", "maybe", path)
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "unknown delete policy")
}

func TestCatalogFlag(t *testing.T) {
	catalog := filepath.Join(t.TempDir(), "licenses.yaml")
	require.NoError(t, os.WriteFile(catalog, []byte(`
licenses:
  - id: mit
    name: MIT
    version: "1.0"
    url: https://opensource.org/licenses/MIT
`), 0o644))
	path := fitstest.Write(t, fitstest.Observation())

	r := run(t, "--catalog", catalog, "-l", path)
	require.Equal(t, 0, r.code, r.stderr)
	assert.True(t, strings.HasSuffix(r.stdout, "mit: MIT 1.0 (https://opensource.org/licenses/MIT)\n"))

	r = run(t, "--catalog", catalog, "-a", "mit", path)
	require.Equal(t, 0, r.code, r.stderr)
	r = run(t, "-i", path)
	assert.Equal(t, "MIT 1.0 (https://opensource.org/licenses/MIT)\n", r.stdout)

	r = run(t, "--catalog", filepath.Join(t.TempDir(), "none.yaml"), "-l", path)
	assert.Equal(t, 1, r.code)
}

func TestDebugLogging(t *testing.T) {
	path := fitstest.Write(t, fitstest.Observation())
	r := run(t, "--debug", "-a", "cc0", path)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stderr, "license added")
	assert.Contains(t, r.stderr, "tool=fitslic")
}

func TestVersion(t *testing.T) {
	r := run(t, "--version")
	require.Equal(t, 0, r.code, r.stderr)
	assert.True(t, strings.HasPrefix(r.stdout, "fitslic dev"))
}
