package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleCV = `Jane Doe
jane.doe@example.com | +1 555 123 4567
Austin, TX

Summary
Backend engineer focused on Go services and cloud infrastructure.

Experience
Senior Engineer - Acme Corp
2019 - Present
Built Go microservices on AWS and reduced latency by 40%.
Led migration to Docker and Kubernetes.

Education
BSc Computer Science - State University
2011 - 2015

Skills: Go, Python, SQL, Docker
`

// executeCommand runs the root command in-process with AI disabled and
// returns stdout and stderr.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--ai", "none"))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeFile creates a file under a temp dir and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
