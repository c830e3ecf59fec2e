package filters

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// Params holds the /DecodeParms entries the Flate filter honors.
// A zero value means "no prediction".
type Params struct {
	Predictor        int
	Columns          int
	Colors           int
	BitsPerComponent int
}

func (p Params) withDefaults() Params {
	if p.Predictor == 0 {
		p.Predictor = 1
	}
	if p.Columns <= 0 {
		p.Columns = 1
	}
	if p.Colors <= 0 {
		p.Colors = 1
	}
	if p.BitsPerComponent <= 0 {
		p.BitsPerComponent = 8
	}
	return p
}

// FlateDecode decompresses zlib data and undoes the predictor named in
// params. Truncated zlib streams return whatever was inflated before the
// corruption, which matches how viewers treat damaged object streams.
func FlateDecode(data []byte, params Params) ([]byte, error) {
	inflated, err := inflate(data)
	if err != nil {
		return nil, err
	}

	params = params.withDefaults()
	switch {
	case params.Predictor == 1:
		return inflated, nil
	case params.Predictor == 2:
		return unpredictTIFF(inflated, params)
	case params.Predictor >= 10 && params.Predictor <= 15:
		return unpredictPNG(inflated, params)
	default:
		return nil, fmt.Errorf("unsupported predictor: %d", params.Predictor)
	}
}

func inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}
	defer zr.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, zr); err != nil && buf.Len() == 0 {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}
	return buf.Bytes(), nil
}

// bytesPerPixel rounds up to whole bytes, as required by the PNG spec.
func bytesPerPixel(p Params) int {
	return max(1, (p.Colors*p.BitsPerComponent+7)/8)
}

func rowLength(p Params) int {
	return (p.Columns*p.Colors*p.BitsPerComponent + 7) / 8
}

// unpredictTIFF undoes TIFF predictor 2 for 8-bit components.
func unpredictTIFF(data []byte, p Params) ([]byte, error) {
	if p.BitsPerComponent != 8 {
		return nil, fmt.Errorf("TIFF predictor only supports 8 bits per component, got %d", p.BitsPerComponent)
	}
	rowLen := rowLength(p)
	out := append([]byte(nil), data...)
	for start := 0; start+rowLen <= len(out); start += rowLen {
		row := out[start : start+rowLen]
		for i := p.Colors; i < len(row); i++ {
			row[i] += row[i-p.Colors]
		}
	}
	return out, nil
}

// unpredictPNG undoes PNG predictors. Every encoded row carries its own
// filter-type byte, so the /Predictor value only signals "PNG".
func unpredictPNG(data []byte, p Params) ([]byte, error) {
	rowLen := rowLength(p)
	bpp := bytesPerPixel(p)
	stride := rowLen + 1

	prev := make([]byte, rowLen)
	out := make([]byte, 0, len(data)/stride*rowLen)

	for start := 0; start < len(data); start += stride {
		end := start + stride
		if end > len(data) {
			// short final row: decode what is there
			end = len(data)
		}
		filterType := data[start]
		row := append([]byte(nil), data[start+1:end]...)

		for i := range row {
			var left, up, upLeft byte
			if i >= bpp {
				left = row[i-bpp]
				upLeft = prev[i-bpp]
			}
			up = prev[i]

			switch filterType {
			case 0:
			case 1:
				row[i] += left
			case 2:
				row[i] += up
			case 3:
				row[i] += byte((int(left) + int(up)) / 2)
			case 4:
				row[i] += paeth(left, up, upLeft)
			default:
				return nil, fmt.Errorf("unknown PNG filter type %d in row %d", filterType, start/stride)
			}
		}

		out = append(out, row...)
		copy(prev, row)
	}
	return out, nil
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	switch {
	case pa <= pb && pa <= pc:
		return a
	case pb <= pc:
		return b
	default:
		return c
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
