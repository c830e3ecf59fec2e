package reader

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/tsawler/pdftree/core"
)

// buildPDF lays out objects 1..n in order and appends a classic xref table
// with matching offsets.
func buildPDF(objects []string, trailerExtra string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")
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
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R %s>>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, trailerExtra, xrefAt)
	return buf.Bytes()
}

// twoPagePDF has a catalog, a page tree and two pages with content streams
func twoPagePDF() []byte {
	return buildPDF([]string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R 4 0 R] /Count 2 /MediaBox [0 0 612 792] >>",
		"<< /Type /Page /Parent 2 0 R /Contents 5 0 R /Resources << /Font << /F1 7 0 R >> >> >>",
		"<< /Type /Page /Parent 2 0 R /Contents [5 0 R 6 0 R] >>",
		"<< /Length 6 0 R >>\nstream\nBT ET\nendstream",
		"5",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		"<< /Title (Test Document) /Author (Test Author) >>",
	}, "/Info 8 0 R ")
}

func createTempPDF(t *testing.T, content []byte) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "test.pdf")
	if err := os.WriteFile(tmpFile, content, 0644); err != nil {
		t.Fatalf("failed to create temp PDF: %v", err)
	}
	return tmpFile
}

// TestOpen tests mapping and closing a file
func TestOpen(t *testing.T) {
	r, err := Open(createTempPDF(t, twoPagePDF()))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if r.Version().String() != "1.7" {
		t.Errorf("Version() = %s, want 1.7", r.Version())
	}
	if r.FileSize() != int64(len(twoPagePDF())) {
		t.Errorf("FileSize() = %d", r.FileSize())
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

// TestOpenErrors tests files that cannot be read
func TestOpenErrors(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{"empty", []byte{}},
		{"not a pdf", []byte("hello world, this is not a PDF at all")},
		{"header only", []byte("%PDF-1.4\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Open(createTempPDF(t, tt.content)); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := Open(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}

// TestParseHeader tests version detection
func TestParseHeader(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    PDFVersion
		wantErr bool
	}{
		{"1.4", "%PDF-1.4\n", PDFVersion{1, 4}, false},
		{"2.0", "%PDF-2.0\r\n", PDFVersion{2, 0}, false},
		{"leading junk", "\x00\x00junk%PDF-1.6\n", PDFVersion{1, 6}, false},
		{"missing", "%!PS-Adobe", PDFVersion{}, true},
		{"bad version", "%PDF-x.y", PDFVersion{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseHeader([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseHeader() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseHeader() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestGetObject tests loading, caching and indirect stream lengths
func TestGetObject(t *testing.T) {
	r, err := NewReader(twoPagePDF())
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}

	obj, err := r.GetObject(5)
	if err != nil {
		t.Fatalf("GetObject(5) error = %v", err)
	}
	stream, ok := obj.(*core.Stream)
	if !ok {
		t.Fatalf("GetObject(5) = %T, want *core.Stream", obj)
	}
	if string(stream.Data) != "BT ET" {
		t.Errorf("stream data = %q", stream.Data)
	}

	if r.CacheSize() != 2 {
		t.Errorf("CacheSize() = %d, want 2 (stream and its length)", r.CacheSize())
	}
	again, _ := r.GetObject(5)
	if again != obj {
		t.Error("second GetObject(5) did not come from the cache")
	}
	r.ClearCache()
	if r.CacheSize() != 0 {
		t.Errorf("CacheSize() after ClearCache = %d", r.CacheSize())
	}

	if gen, ok := r.Generation(3); !ok || gen != 0 {
		t.Errorf("Generation(3) = %d, %v", gen, ok)
	}
	if _, ok := r.Generation(0); ok {
		t.Error("Generation(0) should report a free entry")
	}
}

// TestGetObjectNotFound tests missing and free objects
func TestGetObjectNotFound(t *testing.T) {
	r, err := NewReader(twoPagePDF())
	if err != nil {
		t.Fatal(err)
	}
	for _, num := range []uint32{0, 99} {
		if _, err := r.GetObject(num); !core.ErrObjectNotFound.Is(err) {
			t.Errorf("GetObject(%d) error = %v, want ErrObjectNotFound", num, err)
		}
	}
}

// TestSelfReferentialLength tests that a /Length pointing at its own
// object fails instead of recursing
func TestSelfReferentialLength(t *testing.T) {
	data := buildPDF([]string{
		"<< /Type /Catalog >>",
		"<< /Length 2 0 R >>\nstream\nabc\nendstream",
	}, "")
	r, err := NewReader(data)
	if err != nil {
		t.Fatal(err)
	}
	obj, err := r.GetObject(2)
	if err != nil {
		t.Fatalf("GetObject(2) error = %v", err)
	}
	if s := obj.(*core.Stream); string(s.Data) != "abc" {
		t.Errorf("stream data = %q, want the scanned payload", s.Data)
	}
}

// TestCatalogAndInfo tests document-level dictionaries
func TestCatalogAndInfo(t *testing.T) {
	r, err := NewReader(twoPagePDF(), WithCacheSize(16))
	if err != nil {
		t.Fatal(err)
	}

	catalog, err := r.GetCatalog()
	if err != nil {
		t.Fatalf("GetCatalog() error = %v", err)
	}
	if n, _ := catalog.GetName("Type"); n != "Catalog" {
		t.Errorf("catalog /Type = %s", n)
	}

	info, err := r.GetInfo()
	if err != nil {
		t.Fatalf("GetInfo() error = %v", err)
	}
	if info.Get("Title") != core.String("Test Document") {
		t.Errorf("info /Title = %v", info.Get("Title"))
	}
	if r.NumObjects() != 9 {
		t.Errorf("NumObjects() = %d, want 9", r.NumObjects())
	}
	if r.XRefTable().Size() != 9 {
		t.Errorf("XRefTable().Size() = %d, want 9", r.XRefTable().Size())
	}

	bare, _ := NewReader(buildPDF([]string{"<< /Type /Catalog >>"}, ""))
	if info, err := bare.GetInfo(); info != nil || err != nil {
		t.Errorf("GetInfo() without /Info = %v, %v", info, err)
	}
}

// TestPages tests page access through the page tree
func TestPages(t *testing.T) {
	r, err := NewReader(twoPagePDF())
	if err != nil {
		t.Fatal(err)
	}

	count, err := r.PageCount()
	if err != nil || count != 2 {
		t.Fatalf("PageCount() = %d, %v", count, err)
	}

	page, err := r.GetPage(1)
	if err != nil {
		t.Fatalf("GetPage(1) error = %v", err)
	}
	if page.Ref().Number != 4 {
		t.Errorf("GetPage(1).Ref() = %v, want 4 0 R", page.Ref())
	}
	if w, _ := page.Width(); w != 612 {
		t.Errorf("inherited width = %v", w)
	}
	if nums := page.ContentStreamObjects(10); len(nums) != 2 {
		t.Errorf("ContentStreamObjects() = %v", nums)
	}

	all, err := r.Pages()
	if err != nil || len(all) != 2 {
		t.Errorf("Pages() = %d, %v", len(all), err)
	}
	if _, err := r.GetPage(5); err == nil {
		t.Error("expected out-of-range error")
	}
}

// TestBrokenXRefRecovery tests the fallback scan when offsets are wrong
func TestBrokenXRefRecovery(t *testing.T) {
	data := twoPagePDF()
	idx := bytes.LastIndex(data, []byte("startxref"))
	broken := append(append([]byte(nil), data[:idx]...), []byte("startxref\n3\n%%EOF\n")...)

	r, err := NewReader(broken)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	count, err := r.PageCount()
	if err != nil || count != 2 {
		t.Errorf("PageCount() after recovery = %d, %v", count, err)
	}
}

// TestCompressedObjects tests an xref stream pointing into an object stream
func TestCompressedObjects(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.5\n")

	off1 := buf.Len()
	buf.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	header := "2 0 3 50 "
	body := "<< /Type /Pages /Kids [3 0 R] /Count 1 >>"
	for len(body) < 50 {
		body += " "
	}
	body += "<< /Type /Page /Parent 2 0 R >>"
	payload := zlibCompress([]byte(header + body))

	off4 := buf.Len()
	fmt.Fprintf(&buf, "4 0 obj\n<< /Type /ObjStm /N 2 /First %d /Filter /FlateDecode /Length %d >>\nstream\n", len(header), len(payload))
	buf.Write(payload)
	buf.WriteString("\nendstream\nendobj\n")

	rows := [][]byte{
		{0, 0, 0, 0},
		{1, byte(off1 >> 8), byte(off1), 0},
		{2, 0, 4, 0},
		{2, 0, 4, 1},
		{1, byte(off4 >> 8), byte(off4), 0},
	}
	var raw []byte
	for _, row := range rows {
		raw = append(raw, row...)
	}
	xrefAt := buf.Len()
	fmt.Fprintf(&buf, "5 0 obj\n<< /Type /XRef /Size 5 /W [1 2 1] /Root 1 0 R /Length %d >>\nstream\n", len(raw))
	buf.Write(raw)
	fmt.Fprintf(&buf, "\nendstream\nendobj\nstartxref\n%d\n%%%%EOF\n", xrefAt)

	r, err := NewReader(buf.Bytes())
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}

	page, err := r.GetPage(0)
	if err != nil {
		t.Fatalf("GetPage(0) error = %v", err)
	}
	if page.Ref().Number != 3 {
		t.Errorf("page ref = %v, want 3 0 R", page.Ref())
	}
	if gen, ok := r.Generation(3); !ok || gen != 0 {
		t.Errorf("Generation(3) = %d, %v", gen, ok)
	}
}

func zlibCompress(data []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, _ = w.Write(data)
	_ = w.Close()
	return buf.Bytes()
}
