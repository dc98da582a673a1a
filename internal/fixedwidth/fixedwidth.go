// Package fixedwidth reads and writes the columnar numeric layout used by
// HEC-RAS geometry files: 8-character right-justified slots, 10 values per
// physical line, FORTRAN style. Count headers such as "#Sta/Elev= 40"
// declare logical tuples, not physical values; CountValues and CountLines do
// that arithmetic so no codec ever re-derives it.
package fixedwidth

import (
	"fmt"
	"strconv"
	"strings"

	"rasgeo/pkg/ras"
)

const (
	// DefaultWidth is the slot width in characters.
	DefaultWidth = 8
	// DefaultPerLine is how many values fit on one physical line.
	DefaultPerLine = 10
	// MaxPrecision is the most decimals an 8-char slot can usefully carry
	// while leaving room for a sign and a leading digit.
	MaxPrecision = 6
)

// Value is one decoded slot. A slot of all spaces decodes with Absent set;
// absent is distinct from zero and must survive a round trip.
type Value struct {
	V      float64
	Absent bool
}

// DecodeLine splits line into width-character slots and parses each as a
// float64. A trailing slot narrower than width is still decoded. A slot
// that is neither blank nor a number yields *ras.MalformedFieldError with
// Line left at -1 for the caller to fill in.
func DecodeLine(line string, width int) ([]Value, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	var out []Value
	for i := 0; i*width < len(line); i++ {
		end := (i + 1) * width
		if end > len(line) {
			end = len(line)
		}
		raw := line[i*width : end]
		tok := strings.TrimSpace(raw)
		if tok == "" {
			out = append(out, Value{Absent: true})
			continue
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, &ras.MalformedFieldError{Line: -1, Slot: i, Raw: raw}
		}
		out = append(out, Value{V: v})
	}
	return out, nil
}

// DecodeBlock decodes consecutive physical lines into one value sequence.
// Malformed slots carry the index of the offending line within lines.
func DecodeBlock(lines []string, width int) ([]Value, error) {
	var out []Value
	for i, ln := range lines {
		vals, err := DecodeLine(ln, width)
		if err != nil {
			if mf, ok := err.(*ras.MalformedFieldError); ok {
				mf.Line = i
			}
			return nil, err
		}
		out = append(out, vals...)
	}
	return out, nil
}

// Floats drops absence markers and returns the numeric values only,
// reporting how many slots were absent.
func Floats(vals []Value) ([]float64, int) {
	out := make([]float64, 0, len(vals))
	absent := 0
	for _, v := range vals {
		if v.Absent {
			absent++
			continue
		}
		out = append(out, v.V)
	}
	return out, absent
}

// EncodeValue right-justifies v into a width-character slot at the given
// decimal precision. When the rendering is too wide for the slot the
// precision degrades one digit at a time until it fits; a value too wide
// even with no decimals is emitted over-width rather than mangled.
func EncodeValue(v float64, width, prec int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	for p := prec; p >= 0; p-- {
		s := strconv.FormatFloat(v, 'f', p, 64)
		if len(s) <= width {
			return fmt.Sprintf("%*s", width, s)
		}
	}
	return strconv.FormatFloat(v, 'f', 0, 64)
}

// EncodeValues lays values out in width-character slots, wrapping after
// perLine values, reproducing the source column alignment byte for byte.
func EncodeValues(vals []float64, width, perLine, prec int) []string {
	if perLine <= 0 {
		perLine = DefaultPerLine
	}
	var lines []string
	var b strings.Builder
	for i, v := range vals {
		b.WriteString(EncodeValue(v, width, prec))
		if (i+1)%perLine == 0 {
			lines = append(lines, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		lines = append(lines, b.String())
	}
	return lines
}

// CountValues converts a count-header tuple count into the number of
// physical values that follow. Arity is 1 for single-value tables, 2 for
// station/elevation pairs, and so on.
func CountValues(rawCount, arity int) int {
	return rawCount * arity
}

// CountLines is the number of physical lines those values occupy under
// perLine-values-per-line wrapping.
func CountLines(rawCount, arity, perLine int) int {
	if perLine <= 0 {
		perLine = DefaultPerLine
	}
	n := CountValues(rawCount, arity)
	return (n + perLine - 1) / perLine
}

// ParseCountHeader recognizes "#<Label>= <N>" lines and returns the label
// (without the leading '#') and the declared tuple count.
func ParseCountHeader(line string) (label string, count int, ok bool) {
	if !strings.HasPrefix(line, "#") {
		return "", 0, false
	}
	eq := strings.IndexByte(line, '=')
	if eq < 0 {
		return "", 0, false
	}
	rest := line[eq+1:]
	// Some headers carry extra fields after the count ("#Mann= 3 , 0 , 0").
	if i := strings.IndexByte(rest, ','); i >= 0 {
		rest = rest[:i]
	}
	n, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return "", 0, false
	}
	return strings.TrimSpace(line[1:eq]), n, true
}

// FormatCountHeader renders the header form ParseCountHeader reads.
func FormatCountHeader(label string, count int) string {
	return fmt.Sprintf("#%s= %d", label, count)
}

// InferPrecision scans existing physical lines and returns the widest
// decimal precision in use, capped at MaxPrecision. Files are hand-edited
// in the wild, so precision is per-file state, never a constant.
func InferPrecision(lines []string, width int) int {
	if width <= 0 {
		width = DefaultWidth
	}
	prec := 0
	for _, ln := range lines {
		for i := 0; i*width < len(ln); i++ {
			end := (i + 1) * width
			if end > len(ln) {
				end = len(ln)
			}
			tok := strings.TrimSpace(ln[i*width : end])
			dot := strings.IndexByte(tok, '.')
			if dot < 0 {
				continue
			}
			if p := len(tok) - dot - 1; p > prec {
				prec = p
			}
		}
	}
	if prec > MaxPrecision {
		prec = MaxPrecision
	}
	return prec
}
