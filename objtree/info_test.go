package objtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdftree/core"
	"github.com/tsawler/pdftree/memdoc"
	"github.com/tsawler/pdftree/pages"
	"github.com/tsawler/pdftree/serialize"
)

func TestDescribeInline(t *testing.T) {
	rect := Rect{Left: 10, Bottom: 20.3, Right: 110, Top: 40}
	m := Matrix{A: 1, B: 0, C: 0, D: 1, E: 72.5, F: 700.126}

	tests := []struct {
		kind PageObjectKind
		want string
	}{
		{PageObjectText, "/Type /Text "},
		{PageObjectPath, "/Type /Path "},
		{PageObjectImage, "/Type /XObject /Subtype /Image "},
		{PageObjectShading, "/Type /Shading "},
		{PageObjectForm, "/Type /XObject /Subtype /Form "},
		{PageObjectUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			info := DescribeInline(tt.kind, rect, m)
			assert.Equal(t, tt.want+"/BBox [ 10.0 20.3 110.0 40.0 ] /Matrix [ 1.00 0.00 0.00 1.00 72.50 700.13 ] ", info.Content)
			assert.Equal(t, tt.kind, info.Kind)
			assert.False(t, info.Indirect)
			assert.False(t, info.HasStream)
			assert.True(t, info.Ref.IsZero())
		})
	}
}

func TestDescribeResolved(t *testing.T) {
	doc := memdoc.New()
	doc.Add(4, &core.Stream{Dict: core.Dict{"Subtype": core.Name("Image")}})
	doc.Add(5, core.Dict{"Type": core.Name("ExtGState")})

	info := DescribeResolved(doc, nil, core.ObjectRef{Number: 4}, PageObjectImage, Rect{}, IdentityMatrix)
	assert.True(t, info.Indirect)
	assert.True(t, info.HasStream)
	assert.Equal(t, "<< /Subtype /Image >> stream\n<< stream data >>\nendstream", info.Content)

	info = DescribeResolved(doc, nil, core.ObjectRef{Number: 5}, PageObjectPath, Rect{}, IdentityMatrix)
	assert.True(t, info.Indirect)
	assert.False(t, info.HasStream)
	assert.Equal(t, "<< /Type /ExtGState >>", info.Content)

	info = DescribeResolved(doc, nil, core.ObjectRef{Number: 77}, PageObjectPath, Rect{Right: 1, Top: 1}, IdentityMatrix)
	assert.False(t, info.Indirect)
	assert.Equal(t, "/Type /Path /BBox [ 0.0 0.0 1.0 1.0 ] /Matrix [ 1.00 0.00 0.00 1.00 0.00 0.00 ] ", info.Content)

	info = DescribeResolved(nil, nil, core.ObjectRef{}, PageObjectText, Rect{}, IdentityMatrix)
	assert.False(t, info.Indirect)
}

func TestDescribePage(t *testing.T) {
	doc := memdoc.New()
	dict := core.Dict{"Type": core.Name("Page"), "Parent": ref(2)}
	page := pages.NewPage(dict, core.ObjectRef{Number: 3, Generation: 1}, nil, doc)

	info := DescribePage(page, nil)
	assert.Equal(t, core.ObjectRef{Number: 3, Generation: 1}, info.Ref)
	assert.Equal(t, "<< /Parent 2 0 R /Type /Page >>", info.Content)
	assert.True(t, info.Indirect)
	assert.False(t, info.HasStream)
	assert.Equal(t, PageObjectUnknown, info.Kind)
}

func TestRawObjectContent(t *testing.T) {
	doc := memdoc.New()
	doc.Set(7, 2, core.Array{core.Real(3.5), core.Int(3)})

	content, err := RawObjectContent(doc, nil, 7, 2)
	require.NoError(t, err)
	assert.Equal(t, "[ 3.50 3 ]", content)

	_, err = RawObjectContent(doc, nil, 7, 0)
	assert.True(t, ErrNotFound.Is(err))

	_, err = RawObjectContent(doc, nil, 8, 0)
	assert.True(t, ErrNotFound.Is(err))

	_, err = RawObjectContent(doc, nil, 0, 0)
	assert.True(t, ErrNotFound.Is(err))
}

func TestDescribeWithSerializer(t *testing.T) {
	doc := memdoc.New()
	doc.Add(4, core.Dict{"T": core.String("\xfe\xff\x00H\x00i"), "N": core.Array{core.Array{core.Int(1)}}})
	ser := &serialize.Serializer{MaxDepth: 1, DecodeText: true}

	content, err := RawObjectContent(doc, ser, 4, 0)
	require.NoError(t, err)
	assert.Equal(t, "<< /N [ null ] /T (Hi) >>", content)

	info := DescribeResolved(doc, ser, core.ObjectRef{Number: 4}, PageObjectForm, Rect{}, IdentityMatrix)
	assert.Equal(t, content, info.Content)

	page := pages.NewPage(core.Dict{"Title": core.String("\xfe\xff\x00H\x00i")}, core.ObjectRef{Number: 5}, nil, doc)
	assert.Equal(t, "<< /Title (Hi) >>", DescribePage(page, ser).Content)
}
