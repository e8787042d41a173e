package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleResume = `Jane Doe
Data Analyst
jane.doe@example.com | (555) 987-6543

Skills
Python, SQL, Excel, Tableau and machine learning.

Experience
Acme Corp - Data Analyst, 2020-2023
Built dashboards in Tableau for leadership.

Education
Bachelor of Science in Statistics, State University

Projects
Churn model: predicted customer churn with machine learning.
`

// testEnv is an isolated working area with its own config file.
type testEnv struct {
	dir        string
	storeDir   string
	configPath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	env := &testEnv{
		dir:        dir,
		storeDir:   filepath.Join(dir, "analyses"),
		configPath: filepath.Join(dir, "resume-insights.yaml"),
	}

	cfg := "storage:\n  backend: file\n  dir: " + env.storeDir + "\nserver:\n  upload_dir: " + filepath.Join(dir, "uploads") + "\n"
	require.NoError(t, os.WriteFile(env.configPath, []byte(cfg), 0644))
	return env
}

func (e *testEnv) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// run executes the root command with the env's config and returns stdout and stderr.
func (e *testEnv) run(args ...string) (string, string, error) {
	return e.runWithInput(nil, args...)
}

// runWithInput is run with stdin read from in.
func (e *testEnv) runWithInput(in io.Reader, args ...string) (string, string, error) {
	cmd := newRootCmd()
	if in != nil {
		cmd.SetIn(in)
	}
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
