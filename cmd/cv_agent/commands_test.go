package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-ats/internal/pipeline"
	"github.com/jonathan/cv-ats/internal/types"
)

func TestCommands_FlagsValidation(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		errorString string
	}{
		{
			name:        "extract missing --in",
			args:        []string{"extract"},
			errorString: "required",
		},
		{
			name:        "parse missing --in",
			args:        []string{"parse"},
			errorString: "required",
		},
		{
			name:        "score missing --in",
			args:        []string{"score"},
			errorString: "required",
		},
		{
			name:        "tailor without CV",
			args:        []string{"tailor", "-k", "go"},
			errorString: "exactly one of --in or --cv",
		},
		{
			name:        "tailor unknown format",
			args:        []string{"tailor", "--cv", "cv.json", "--format", "pdf"},
			errorString: "unknown --format",
		},
		{
			name:        "job without input",
			args:        []string{"job"},
			errorString: "provide --job",
		},
		{
			name:        "unknown provider",
			args:        []string{"dictionary", "list", "--ai", "openai"},
			errorString: "Provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCmd()
			cmd.SetOut(io.Discard)
			cmd.SetErr(io.Discard)
			args := tt.args
			if tt.name != "unknown provider" {
				args = append(args, "--ai", "none")
			}
			cmd.SetArgs(args)

			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestExtractCommand(t *testing.T) {
	in := writeFile(t, "cv.txt", sampleCV)

	t.Run("stdout", func(t *testing.T) {
		stdout, _, err := executeCommand(t, "extract", "--in", in)
		require.NoError(t, err)
		assert.Contains(t, stdout, "Jane Doe")
		assert.Contains(t, stdout, "Senior Engineer - Acme Corp")
	})

	t.Run("output directory", func(t *testing.T) {
		outDir := filepath.Join(t.TempDir(), "out")
		_, stderr, err := executeCommand(t, "extract", "--in", in, "--out", outDir)
		require.NoError(t, err)
		assert.Contains(t, stderr, outDir)

		entries, err := os.ReadDir(outDir)
		require.NoError(t, err)
		assert.NotEmpty(t, entries)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := executeCommand(t, "extract", "--in", filepath.Join(t.TempDir(), "nope.txt"))
		assert.Error(t, err)
	})
}

func TestParseCommand(t *testing.T) {
	in := writeFile(t, "cv.txt", sampleCV)
	out := filepath.Join(t.TempDir(), "nested", "cv.json")

	_, _, err := executeCommand(t, "parse", "--in", in, "--out", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var cv types.ParsedCV
	require.NoError(t, json.Unmarshal(data, &cv))
	assert.Equal(t, "Jane Doe", cv.Contact.FullName)
	assert.Equal(t, "jane.doe@example.com", cv.Contact.Email)
	assert.Contains(t, cv.Skills, "Go")
	assert.NotEmpty(t, cv.Experience)
}

func TestParseCommand_Verbose(t *testing.T) {
	in := writeFile(t, "cv.txt", sampleCV)

	stdout, stderr, err := executeCommand(t, "parse", "--in", in, "-v")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"full_name"`)
	assert.Contains(t, stderr, "Jane Doe")
}

func TestScoreCommand(t *testing.T) {
	in := writeFile(t, "cv.txt", sampleCV)

	stdout, _, err := executeCommand(t, "score", "--in", in, "-k", "go,docker", "-k", "terraform")
	require.NoError(t, err)

	var result types.ScoreResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.GreaterOrEqual(t, result.Overall, 0)
	assert.LessOrEqual(t, result.Overall, 100)
	assert.Contains(t, result.MissingKeywords, "terraform")
	assert.NotEmpty(t, result.Feedback)
}

func TestScoreCommand_Stdin(t *testing.T) {
	cmd := newRootCmd()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(sampleCV))
	cmd.SetArgs([]string{"score", "--in", "-", "--ai", "none"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), `"overall"`)
}

func TestTailorCommand(t *testing.T) {
	in := writeFile(t, "cv.txt", sampleCV)
	job := writeFile(t, "job.txt", "Backend Engineer\n- 5+ years building Go services\n- Experience with Kubernetes and Terraform\n")

	t.Run("json", func(t *testing.T) {
		stdout, _, err := executeCommand(t, "tailor", "--in", in, "--job", job)
		require.NoError(t, err)

		var tailored types.TailoredCV
		require.NoError(t, json.Unmarshal([]byte(stdout), &tailored))
		assert.Equal(t, "Jane Doe", tailored.Contact.FullName)
		assert.NotEmpty(t, tailored.Summary)
	})

	t.Run("text", func(t *testing.T) {
		stdout, _, err := executeCommand(t, "tailor", "--in", in, "-k", "go", "--format", "text")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Jane Doe")
		assert.Contains(t, stdout, "EXPERIENCE")
	})

	t.Run("template", func(t *testing.T) {
		tmpl := writeFile(t, "cv.tmpl", "Name: {{ .Contact.FullName }}\n")
		stdout, _, err := executeCommand(t, "tailor", "--in", in, "-k", "go", "--format", "text", "--template", tmpl)
		require.NoError(t, err)
		assert.Equal(t, "Name: Jane Doe\n", stdout)
	})
}

func TestTailorCommand_FromParsedCV(t *testing.T) {
	in := writeFile(t, "cv.txt", sampleCV)
	cvPath := filepath.Join(t.TempDir(), "cv.json")
	_, _, err := executeCommand(t, "parse", "--in", in, "--out", cvPath)
	require.NoError(t, err)

	stdout, _, err := executeCommand(t, "tailor", "--cv", cvPath, "-k", "kubernetes")
	require.NoError(t, err)

	var tailored types.TailoredCV
	require.NoError(t, json.Unmarshal([]byte(stdout), &tailored))
	assert.Equal(t, "Jane Doe", tailored.Contact.FullName)
}

func TestAnalyzeCommand(t *testing.T) {
	in := writeFile(t, "cv.txt", sampleCV)

	stdout, stderr, err := executeCommand(t, "analyze", "--in", in, "-k", "go", "-v")
	require.NoError(t, err)

	var result pipeline.Result
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.NotEmpty(t, result.ID)
	require.NotNil(t, result.CV)
	require.NotNil(t, result.Score)
	require.NotNil(t, result.Tailored)
	assert.Equal(t, pipeline.SourceHeuristic, result.TailoringSource)
	assert.Contains(t, stderr, "["+pipeline.StepComplete+"]")
}

func TestJobCommand(t *testing.T) {
	html := writeFile(t, "job.html", `<html><body><nav>Menu</nav>
<h1>Platform Engineer</h1>
<ul><li>Operate Kubernetes clusters</li><li>Write Go tooling</li></ul>
</body></html>`)

	stdout, _, err := executeCommand(t, "job", "--job", html, "--keyword", "Rust")
	require.NoError(t, err)

	var signal types.JobSignal
	require.NoError(t, json.Unmarshal([]byte(stdout), &signal))
	assert.Contains(t, signal.Requirements, "Operate Kubernetes clusters")
	assert.Contains(t, signal.Keywords, "Rust")
}

func TestJobCommand_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><main><ul><li>Build Go services</li></ul></main></body></html>`))
	}))
	defer srv.Close()

	stdout, _, err := executeCommand(t, "job", "--fetch", "--job-url", srv.URL)
	require.NoError(t, err)

	var signal types.JobSignal
	require.NoError(t, json.Unmarshal([]byte(stdout), &signal))
	assert.Contains(t, signal.Requirements, "Build Go services")

	_, _, err = executeCommand(t, "job", "--fetch")
	assert.ErrorContains(t, err, "--fetch requires --job-url")
}

func TestDictionaryCommand(t *testing.T) {
	t.Run("list industries", func(t *testing.T) {
		stdout, _, err := executeCommand(t, "dictionary", "list")
		require.NoError(t, err)

		var out struct {
			Default    string   `json:"default"`
			Industries []string `json:"industries"`
		}
		require.NoError(t, json.Unmarshal([]byte(stdout), &out))
		assert.Equal(t, "technology", out.Default)
		assert.Contains(t, out.Industries, "technology")
	})

	t.Run("list keywords", func(t *testing.T) {
		stdout, _, err := executeCommand(t, "dictionary", "list", "technology")
		require.NoError(t, err)
		assert.Contains(t, stdout, `"python"`)
	})

	t.Run("unknown industry", func(t *testing.T) {
		_, _, err := executeCommand(t, "dictionary", "list", "astrology")
		assert.ErrorContains(t, err, "unknown industry")
	})

	t.Run("validate invalid", func(t *testing.T) {
		bad := writeFile(t, "bad.yaml", "industries: [not, a, map]\n")
		_, _, err := executeCommand(t, "dictionary", "validate", bad)
		assert.Error(t, err)
	})
}
