package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/pdftree/objtree"
)

// Info is the exported form of a single object snapshot
type Info struct {
	Object     uint32 `json:"object" yaml:"object"`
	Generation uint16 `json:"generation" yaml:"generation"`
	Kind       string `json:"kind" yaml:"kind"`
	Indirect   bool   `json:"indirect" yaml:"indirect"`
	HasStream  bool   `json:"has_stream" yaml:"has_stream"`
	Content    string `json:"content" yaml:"content"`
}

// NewInfo converts a snapshot
func NewInfo(s objtree.InfoSnapshot) Info {
	return Info{
		Object:     s.Ref.Number,
		Generation: s.Ref.Generation,
		Kind:       s.Kind.String(),
		Indirect:   s.Indirect,
		HasStream:  s.HasStream,
		Content:    s.Content,
	}
}

// WriteInfo writes a snapshot in format ("text", "json" or "yaml")
func WriteInfo(w io.Writer, s objtree.InfoSnapshot, format string) error {
	info := NewInfo(s)
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(info), "encoding json")
	case "yaml":
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(info); err != nil {
			return errors.Wrap(err, "encoding yaml")
		}
		return errors.Wrap(enc.Close(), "encoding yaml")
	case "", "text":
		_, err := fmt.Fprintf(w, "%d %d R indirect=%t stream=%t\n%s\n",
			info.Object, info.Generation, info.Indirect, info.HasStream, info.Content)
		return errors.Wrap(err, "writing info")
	default:
		return errors.Errorf("unknown format %q", format)
	}
}
