package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/pdftree/core"
	"github.com/tsawler/pdftree/memdoc"
	"github.com/tsawler/pdftree/objtree"
)

func sampleTree(t *testing.T) *objtree.Tree {
	t.Helper()
	doc := memdoc.New()
	doc.Add(5, core.Dict{"A": core.Reference{Number: 6}, "B": core.Reference{Number: 7}})
	doc.Add(6, core.Dict{"C": core.Reference{Number: 8}})
	doc.Add(7, core.Int(42))
	doc.Add(8, core.Name("Leaf"))

	tree, err := objtree.NewBuilder(doc).Build(core.ObjectRef{Number: 5}, "<< /A 6 0 R /B 7 0 R >>", 2)
	require.NoError(t, err)
	return tree
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, sampleTree(t), TextOptions{}))

	want := strings.Join([]string{
		"5 0 R [depth 0] << /A 6 0 R /B 7 0 R >>",
		"  6 0 R [depth 1] << /C 8 0 R >>",
		"    8 0 R [depth 2] /Leaf",
		"  7 0 R [depth 1] 42",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestTextPreviewWidth(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, sampleTree(t), TextOptions{PreviewWidth: 8}))
	first := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.Equal(t, "5 0 R [depth 0] << /A...", first)
}

func TestPreview(t *testing.T) {
	tests := []struct {
		content string
		width   int
		want    string
	}{
		{"short", 10, "short"},
		{"<< /A 1 0 R >> stream\n<< stream data >>\nendstream", 200, "<< /A 1 0 R >> stream << stream data >> endstream"},
		{"abcdefghij", 6, "abc..."},
		{"abcdefghij", 2, "ab"},
		{"(héllo wörld)", 8, "(héll..."},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Preview(tt.content, tt.width))
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sampleTree(t)))

	var report Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	require.NotNil(t, report.Root)
	assert.Equal(t, uint32(5), report.Root.Object)
	require.Len(t, report.Root.Children, 2)
	assert.Equal(t, uint32(6), report.Root.Children[0].Object)
	assert.Equal(t, uint32(8), report.Root.Children[0].Children[0].Object)
	assert.Equal(t, 2, report.Root.Children[0].Children[0].Depth)
	assert.Equal(t, 4, report.Stats.Nodes)
	assert.Empty(t, report.Warnings)
}

func TestYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, YAML(&buf, sampleTree(t)))

	var report Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, "42", report.Root.Children[1].Content)
}

func TestSummary(t *testing.T) {
	tree := sampleTree(t)
	s := Summarize(tree)
	assert.Equal(t, 4, s.Nodes)
	assert.Equal(t, 2, s.MaxDepth)
	assert.Equal(t, uint64(len("<< /A 6 0 R /B 7 0 R >>")+len("<< /C 8 0 R >>")+len("/Leaf")+len("42")), s.ContentBytes)
	assert.Equal(t, "4 objects, max depth 2, 44 B of content", s.String())

	s = Summary{Nodes: 12345, MaxDepth: 3, ContentBytes: 2048000, Processed: 1000, Truncated: true, Warnings: 2}
	assert.Equal(t, "12,345 objects, max depth 3, 2.0 MB of content (truncated after 1,000 objects), 2 warnings", s.String())

	tree.Release()
	assert.Equal(t, Summary{}, Summarize(tree))
	assert.Nil(t, NewReport(tree).Root)
}

func TestWriteInfo(t *testing.T) {
	snap := objtree.InfoSnapshot{
		Ref:      core.ObjectRef{Number: 3},
		Content:  "<< /Type /Page >>",
		Indirect: true,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteInfo(&buf, snap, "text"))
	assert.Equal(t, "3 0 R indirect=true stream=false\n<< /Type /Page >>\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteInfo(&buf, snap, "json"))
	var info Info
	require.NoError(t, json.Unmarshal(buf.Bytes(), &info))
	assert.Equal(t, NewInfo(snap), info)

	buf.Reset()
	require.NoError(t, WriteInfo(&buf, snap, "yaml"))
	assert.Contains(t, buf.String(), "kind: unknown")

	assert.Error(t, WriteInfo(&buf, snap, "xml"))
}
