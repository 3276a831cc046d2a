package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contactbase/internal"
	"contactbase/internal/config"
	"contactbase/internal/logger"
	"contactbase/internal/normalizer"
)

func testApp(t *testing.T) *app {
	t.Helper()
	return &app{
		cfg: config.Config{OutputDir: t.TempDir(), OpenAIAPIKey: "sk-test", NormalizeWorkers: 1, NormalizeFailurePolicy: "fail-fast", InputEncoding: "utf-8"},
		log: logger.Nop(),
		newNormalizer: func(config.Config) normalizer.Normalizer {
			return normalizer.Func(func(_ context.Context, text string, kind internal.FieldKind) (string, error) {
				return string(kind) + ":" + strings.ToLower(text), nil
			})
		},
	}
}

func run(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	root := a.rootCmd()
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestProcessCommand(t *testing.T) {
	a := testApp(t)
	in := filepath.Join(t.TempDir(), "contacts.csv")
	require.NoError(t, os.WriteFile(in, []byte("E-Mail-Adresse;Firmenname\na@x.com;ATLAS Media GmbH\na@x.com;ATLAS Media GmbH\n"), 0o644))

	out, err := run(t, a, "process", "--input", in, "--dedupe", "--require-salutation", "--clean-companies")
	require.NoError(t, err)

	outputPath := filepath.Join(a.cfg.OutputDir, "processed_contacts.csv")
	assert.Contains(t, out, "Processed file saved to: "+outputPath)
	assert.Contains(t, out, "Number of rows removed: 1")
	assert.Contains(t, out, "warning: Column 'Anrede' not found.")

	blob, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, "E-Mail-Adresse;Firmenname;Cleaned_Firmenname\na@x.com;ATLAS Media GmbH;company_name:atlas media gmbh\n", string(blob))
}

func TestProcessCommandRequiresInput(t *testing.T) {
	_, err := run(t, testApp(t), "process")
	assert.Error(t, err)
}

func TestProcessCommandRejectsUnknownPolicy(t *testing.T) {
	in := filepath.Join(t.TempDir(), "contacts.csv")
	require.NoError(t, os.WriteFile(in, []byte("a\n1\n"), 0o644))

	_, err := run(t, testApp(t), "process", "--input", in, "--failure-policy", "sometimes")
	assert.ErrorContains(t, err, "unsupported failure policy")
}

func TestNormalizeCommand(t *testing.T) {
	out, err := run(t, testApp(t), "normalize", "--kind", "job-title", "CEO")
	require.NoError(t, err)
	assert.Equal(t, "job_title:ceo\n", out)

	_, err = run(t, testApp(t), "normalize", "--kind", "street", "x")
	assert.Error(t, err)
}

func TestNormalizeCommandRequiresAPIKey(t *testing.T) {
	a := testApp(t)
	a.cfg.OpenAIAPIKey = ""
	called := false
	a.newNormalizer = func(config.Config) normalizer.Normalizer {
		return normalizer.Func(func(context.Context, string, internal.FieldKind) (string, error) {
			called = true
			return "", nil
		})
	}

	_, err := run(t, a, "normalize", "--kind", "company", "ATLAS Media GmbH")
	assert.EqualError(t, err, "missing required env var: OPENAI_API_KEY")
	assert.False(t, called)
}

func TestProcessCommandWithoutAPIKeySkipsCheckWhenNotNormalizing(t *testing.T) {
	a := testApp(t)
	a.cfg.OpenAIAPIKey = ""
	in := filepath.Join(t.TempDir(), "contacts.csv")
	require.NoError(t, os.WriteFile(in, []byte("E-Mail-Adresse;Anrede\na@x.com;Herr\na@x.com;Herr\n"), 0o644))

	out, err := run(t, a, "process", "--input", in, "--dedupe")
	require.NoError(t, err)
	assert.Contains(t, out, "Number of rows removed: 1")
}

func TestInspectCommand(t *testing.T) {
	in := filepath.Join(t.TempDir(), "contacts.csv")
	require.NoError(t, os.WriteFile(in, []byte("Anrede;Jobtitel\nHerr;CEO\n"), 0o644))

	out, err := run(t, testApp(t), "inspect", "--input", in)
	require.NoError(t, err)
	assert.Contains(t, out, "rows=1 columns=2")
	assert.Contains(t, out, `salutation column "Anrede" present=true`)
	assert.Contains(t, out, `email column "E-Mail-Adresse" present=false`)
}
