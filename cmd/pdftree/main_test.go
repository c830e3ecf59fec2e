package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePDF(t *testing.T, objects []string) string {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xrefAt := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefAt)

	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func samplePDF(t *testing.T) string {
	return writePDF(t, []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /Contents [4 0 R 5 0 R] /Resources << /Font 6 0 R >> >>",
		"<< /Length 5 >>\nstream\nBT ET\nendstream",
		"<< /Length 1 >>\nstream\nq\nendstream",
		"<< /F1 << /Type /Font >> >>",
	})
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("PDFTREE_CONFIG", "")
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"--no-color"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestTreeCommand(t *testing.T) {
	path := samplePDF(t)

	code, out, errOut := runCLI(t, "tree", path, "--depth", "1")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "3 0 R [depth 0] << /Contents [ 4 0 R 5 0 R ]")
	assert.Contains(t, out, "  4 0 R [depth 1] << /Length 5 >> stream << stream data >> endstream")
	assert.Contains(t, out, "  6 0 R [depth 1]")

	code, out, _ = runCLI(t, "tree", path, "--format", "json")
	require.Equal(t, 0, code)
	var report struct {
		Root struct {
			Object   uint32 `json:"object"`
			Children []struct {
				Object uint32 `json:"object"`
			} `json:"children"`
		} `json:"root"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, uint32(3), report.Root.Object)
	assert.Len(t, report.Root.Children, 4)

	code, out, _ = runCLI(t, "tree", path, "--summary")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "5 objects, max depth 1")
}

func TestListCommands(t *testing.T) {
	path := samplePDF(t)

	code, out, _ := runCLI(t, "contents", path)
	require.Equal(t, 0, code)
	assert.Equal(t, "4 0 R\n5 0 R\n", out)

	code, out, _ = runCLI(t, "contents", path, "--limit", "1")
	require.Equal(t, 0, code)
	assert.Equal(t, "4 0 R\n", out)

	code, out, _ = runCLI(t, "refs", path)
	require.Equal(t, 0, code)
	assert.Equal(t, "4 0 R\n5 0 R\n2 0 R\n6 0 R\n", out)

	code, out, _ = runCLI(t, "pages", path)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "PDF 1.4")
	assert.Contains(t, out, "1 pages")
	assert.Contains(t, out, "   1 3 0 R\n")
}

func TestDescribeCommands(t *testing.T) {
	path := samplePDF(t)

	code, out, _ := runCLI(t, "describe", path, "4")
	require.Equal(t, 0, code)
	assert.Equal(t, "4 0 R indirect=true stream=true\n<< /Length 5 >> stream\n<< stream data >>\nendstream\n", out)

	code, _, errOut := runCLI(t, "describe", path, "4", "--gen", "2")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "not found")

	code, out, _ = runCLI(t, "describe", path, "3", "--inline", "1")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "/Resources << /Font << /F1 << /Type /Font >> >> >>")
	assert.Contains(t, out, "/Parent << /Count 1 /Kids [ 3 0 R ] /Type /Pages >>")

	code, out, _ = runCLI(t, "page", path, "--format", "yaml")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "object: 3")
	assert.Contains(t, out, "indirect: true")
}

func TestConfigAndErrors(t *testing.T) {
	path := samplePDF(t)

	cfgPath := filepath.Join(t.TempDir(), "pdftree.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output:\n  format: yaml\nlimits:\n  default_depth: 1\n"), 0o644))

	code, out, errOut := runCLI(t, "--config", cfgPath, "tree", path)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "root:")
	assert.NotContains(t, out, "depth: 2")

	code, _, errOut = runCLI(t, "tree", filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Equal(t, 1, code)
	assert.NotEmpty(t, errOut)

	code, _, _ = runCLI(t, "tree", path, "--page", "9")
	assert.Equal(t, 1, code)

	code, _, errOut = runCLI(t, "--log-level", "loud", "pages", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "--log-level")

	code, _, _ = runCLI(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "pages", path)
	assert.Equal(t, 1, code)
}
