package objtree

import (
	"fmt"
	"strings"

	"github.com/tsawler/pdftree/core"
	"github.com/tsawler/pdftree/pages"
	"github.com/tsawler/pdftree/serialize"
)

// PageObjectKind is the kind of a rendered page element
type PageObjectKind int

const (
	PageObjectUnknown PageObjectKind = iota
	PageObjectText
	PageObjectPath
	PageObjectImage
	PageObjectShading
	PageObjectForm
)

func (k PageObjectKind) String() string {
	switch k {
	case PageObjectText:
		return "text"
	case PageObjectPath:
		return "path"
	case PageObjectImage:
		return "image"
	case PageObjectShading:
		return "shading"
	case PageObjectForm:
		return "form"
	default:
		return "unknown"
	}
}

// typeTag is the dictionary prefix an inline description starts with
func (k PageObjectKind) typeTag() string {
	switch k {
	case PageObjectText:
		return "/Type /Text "
	case PageObjectPath:
		return "/Type /Path "
	case PageObjectImage:
		return "/Type /XObject /Subtype /Image "
	case PageObjectShading:
		return "/Type /Shading "
	case PageObjectForm:
		return "/Type /XObject /Subtype /Form "
	default:
		return ""
	}
}

// Rect is a bounding rectangle in page space
type Rect struct {
	Left, Bottom, Right, Top float64
}

// Matrix is an affine transform [a b c d e f]
type Matrix struct {
	A, B, C, D, E, F float64
}

// IdentityMatrix is the transform that changes nothing
var IdentityMatrix = Matrix{A: 1, D: 1}

// InfoSnapshot describes one object without traversal
type InfoSnapshot struct {
	Ref       core.ObjectRef
	Kind      PageObjectKind
	Content   string
	Indirect  bool
	HasStream bool
}

// DescribeInline describes an element that has no object identity from its
// kind and geometry alone.
func DescribeInline(kind PageObjectKind, rect Rect, m Matrix) InfoSnapshot {
	var sb strings.Builder
	sb.WriteString(kind.typeTag())
	fmt.Fprintf(&sb, "/BBox [ %.1f %.1f %.1f %.1f ] ", rect.Left, rect.Bottom, rect.Right, rect.Top)
	fmt.Fprintf(&sb, "/Matrix [ %.2f %.2f %.2f %.2f %.2f %.2f ] ", m.A, m.B, m.C, m.D, m.E, m.F)
	return InfoSnapshot{Kind: kind, Content: sb.String()}
}

// render serializes obj with ser, or with the default serializer when ser
// is nil.
func render(ser *serialize.Serializer, obj core.Object) string {
	if ser == nil {
		return serialize.Serialize(obj)
	}
	return ser.Serialize(obj, 0)
}

// DescribeResolved describes the object at ref when it resolves, and falls
// back to DescribeInline otherwise. A nil ser selects the default
// serializer.
func DescribeResolved(doc core.Document, ser *serialize.Serializer, ref core.ObjectRef, kind PageObjectKind, rect Rect, m Matrix) InfoSnapshot {
	if ref.Number != 0 && doc != nil {
		if obj, err := doc.GetObject(ref.Number); err == nil && obj != nil {
			return InfoSnapshot{
				Ref:       ref,
				Kind:      kind,
				Content:   render(ser, obj),
				Indirect:  true,
				HasStream: core.KindOf(obj) == core.KindStream,
			}
		}
	}
	return DescribeInline(kind, rect, m)
}

// DescribePage describes a page dictionary
func DescribePage(page *pages.Page, ser *serialize.Serializer) InfoSnapshot {
	return InfoSnapshot{
		Ref:      page.Ref(),
		Content:  render(ser, page.Dict()),
		Indirect: true,
	}
}

// RawObjectContent returns the rendered form of object num. The object must
// exist with generation gen.
func RawObjectContent(doc core.Document, ser *serialize.Serializer, num uint32, gen uint16) (string, error) {
	if num == 0 {
		return "", ErrNotFound.New(num, gen)
	}
	obj, err := doc.GetObject(num)
	if err != nil || obj == nil {
		return "", ErrNotFound.New(num, gen)
	}
	if core.GenerationOf(doc, num) != gen {
		return "", ErrNotFound.New(num, gen)
	}
	return render(ser, obj), nil
}
