package core

import (
	"fmt"

	"github.com/tsawler/pdftree/internal/filters"
)

// Decode decodes the stream payload according to its /Filter entry, which may
// be a single name or a chain. Only the filters used by cross-reference and
// object streams are supported; image codecs are reported as errors since
// their payloads are never materialized.
func (s *Stream) Decode() ([]byte, error) {
	filterObj := s.Dict.Get("Filter")
	if filterObj == nil {
		return s.Data, nil
	}
	paramsObj := s.Dict.Get("DecodeParms")

	switch f := filterObj.(type) {
	case Name:
		return decodeWithFilter(s.Data, f, paramsFrom(paramsObj))
	case Array:
		data := s.Data
		for i, elem := range f {
			name, ok := elem.(Name)
			if !ok {
				return nil, fmt.Errorf("filter %d is not a name: %v", i, KindOf(elem))
			}
			var params Object
			if arr, ok := paramsObj.(Array); ok {
				params = arr.Get(i)
			} else {
				params = paramsObj
			}
			var err error
			if data, err = decodeWithFilter(data, name, paramsFrom(params)); err != nil {
				return nil, fmt.Errorf("filter %d (%s) failed: %w", i, name, err)
			}
		}
		return data, nil
	default:
		return nil, fmt.Errorf("invalid /Filter kind: %v", KindOf(filterObj))
	}
}

func decodeWithFilter(data []byte, name Name, params filters.Params) ([]byte, error) {
	switch name {
	case "FlateDecode", "Fl":
		return filters.FlateDecode(data, params)
	case "ASCIIHexDecode", "AHx":
		return filters.ASCIIHexDecode(data)
	case "ASCII85Decode", "A85":
		return filters.ASCII85Decode(data)
	default:
		return nil, fmt.Errorf("unsupported filter: %s", name)
	}
}

// paramsFrom reads the predictor entries of a /DecodeParms dictionary
func paramsFrom(obj Object) filters.Params {
	dict, ok := obj.(Dict)
	if !ok {
		return filters.Params{}
	}
	get := func(key string) int {
		switch v := dict.Get(key).(type) {
		case Int:
			return int(v)
		case Real:
			return int(v)
		}
		return 0
	}
	return filters.Params{
		Predictor:        get("Predictor"),
		Columns:          get("Columns"),
		Colors:           get("Colors"),
		BitsPerComponent: get("BitsPerComponent"),
	}
}
