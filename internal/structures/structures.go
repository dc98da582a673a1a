// Package structures decodes and encodes the hydraulic-structure grammars
// of a geometry file: bridge decks and piers, culvert barrels, inline
// weirs with gates, storage area curves, lateral structures and
// storage/2D-area connections. The grammars form a closed set; each is a
// decode/encode pair built on the fixedwidth and section packages, and all
// writes follow the same discipline as the cross-section codec: only
// modeled blocks are regenerated, everything else passes through with its
// original bytes.
package structures

import (
	"strconv"
	"strings"

	"rasgeo/internal/fixedwidth"
	"rasgeo/internal/section"
	"rasgeo/pkg/ras"
)

// Tuple wrap widths used by the structure grammars. Triples wrap at 9 so a
// tuple never splits across lines; everything else uses the format default.
const (
	triplePerLine = 9
	pairPerLine   = fixedwidth.DefaultPerLine
)

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func parseInt(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// recordFields splits the value list of a "Keyword= a,b,c" record line.
func recordFields(line, keyword string) []string {
	return section.SplitIDs(line[len(keyword):])
}

// decodeTuples reads a count block of n tuples of the given arity starting
// at the line after hdr (an absolute index). It returns the flattened
// values and the number of physical lines consumed.
func decodeTuples(lines []string, hdr, n, arity, perLine, width, secEnd int) ([]float64, int, error) {
	nl := fixedwidth.CountLines(n, arity, perLine)
	start := hdr + 1
	end := start + nl
	if end > secEnd {
		end = secEnd
	}
	block := lines[start:end]
	vals, err := fixedwidth.DecodeBlock(block, width)
	if err != nil {
		if mf, ok := err.(*ras.MalformedFieldError); ok {
			mf.Line += start
		}
		return nil, 0, err
	}
	floats, _ := fixedwidth.Floats(vals)
	if len(floats) < fixedwidth.CountValues(n, arity) {
		return nil, 0, &ras.MalformedFieldError{Line: hdr, Slot: -1, Raw: "count block short"}
	}
	return floats[:fixedwidth.CountValues(n, arity)], len(block), nil
}

func pointsFromFlat(flat []float64) []ras.Point {
	pts := make([]ras.Point, len(flat)/2)
	for i := range pts {
		pts[i] = ras.Point{Station: flat[2*i], Elevation: flat[2*i+1]}
	}
	return pts
}

func flatFromPoints(pts []ras.Point) []float64 {
	flat := make([]float64, 0, len(pts)*2)
	for _, p := range pts {
		flat = append(flat, p.Station, p.Elevation)
	}
	return flat
}

// encodePairBlock renders a count header plus station/elevation pairs.
func encodePairBlock(label string, pts []ras.Point, width, prec int) []string {
	return append(
		[]string{fixedwidth.FormatCountHeader(label, len(pts))},
		fixedwidth.EncodeValues(flatFromPoints(pts), width, pairPerLine, prec)...,
	)
}

func checkCrestOrdered(kind ras.StructureKind, pts []ras.Point) error {
	for i := 1; i < len(pts); i++ {
		if pts[i].Station < pts[i-1].Station {
			return &ras.StructureInconsistentError{
				Kind:   kind,
				Detail: "crest stations decrease at point " + strconv.Itoa(i),
			}
		}
	}
	return nil
}

// Gate grammar. Gate groups appear on inline weirs ("IW"), lateral
// structures ("LW") and connections ("Conn"), differing only in prefix:
//
//	<prefix> Gate Name=<name>
//	<prefix> Gate Geom= width,height,invert,coef,openings
//	#<prefix> Gate Sta= <K>
//	<K center stations, fixed width>
//
// The whole gate region is optional; its absence is a valid state.

// decodeGates scans [from, secEnd) for gate groups with the given prefix.
// It returns the gates plus the region [regStart, regEnd) they occupy,
// regStart == -1 when no gate group exists.
func decodeGates(lines []string, from, secEnd int, prefix string, width int) ([]ras.Gate, int, int, error) {
	nameKw := prefix + " Gate Name="
	geomKw := prefix + " Gate Geom="
	staLabel := prefix + " Gate Sta"

	var gates []ras.Gate
	regStart, regEnd := -1, -1
	for i := from; i < secEnd; i++ {
		if !strings.HasPrefix(lines[i], nameKw) {
			continue
		}
		if regStart < 0 {
			regStart = i
		}
		g := ras.Gate{Name: strings.TrimSpace(lines[i][len(nameKw):])}
		regEnd = i + 1
		for j := i + 1; j < secEnd; j++ {
			ln := lines[j]
			if strings.HasPrefix(ln, geomKw) {
				f := recordFields(ln, geomKw)
				if len(f) >= 5 {
					g.Width = parseFloat(f[0])
					g.Height = parseFloat(f[1])
					g.Invert = parseFloat(f[2])
					g.Coef = parseFloat(f[3])
					g.Openings = parseInt(f[4])
				}
				regEnd = j + 1
				continue
			}
			if label, n, ok := fixedwidth.ParseCountHeader(ln); ok && label == staLabel {
				flat, consumed, err := decodeTuples(lines, j, n, 1, pairPerLine, width, secEnd)
				if err != nil {
					return nil, 0, 0, err
				}
				g.CenterStations = flat
				regEnd = j + 1 + consumed
				continue
			}
			break
		}
		gates = append(gates, g)
		i = regEnd - 1
	}
	return gates, regStart, regEnd, nil
}

// encodeGates renders gate groups in the canonical layout decodeGates reads.
func encodeGates(prefix string, gates []ras.Gate, width, prec int) []string {
	var out []string
	for _, g := range gates {
		out = append(out, prefix+" Gate Name="+g.Name)
		out = append(out, prefix+" Gate Geom= "+strings.Join([]string{
			formatFloat(g.Width),
			formatFloat(g.Height),
			formatFloat(g.Invert),
			formatFloat(g.Coef),
			strconv.Itoa(g.Openings),
		}, ","))
		out = append(out, fixedwidth.FormatCountHeader(prefix+" Gate Sta", len(g.CenterStations)))
		out = append(out, fixedwidth.EncodeValues(g.CenterStations, width, pairPerLine, prec)...)
	}
	return out
}

// Culvert record grammar, shared by culvert nodes, bridges, lateral
// structures and connections:
//
//	Culvert= shape ,rise,span,length,n,entloss,exitloss,chart,scale,
//	         upinvert,dninvert,barrels,name,center stations...
const culvertKeyword = "Culvert="

func decodeCulvertRecord(line string) (ras.Culvert, error) {
	f := recordFields(line, culvertKeyword)
	if len(f) < 13 {
		return ras.Culvert{}, &ras.MalformedFieldError{Line: -1, Slot: len(f), Raw: line}
	}
	c := ras.Culvert{
		Shape:    ras.CulvertShape(parseInt(f[0])),
		Rise:     parseFloat(f[1]),
		Span:     parseFloat(f[2]),
		Length:   parseFloat(f[3]),
		N:        parseFloat(f[4]),
		EntLoss:  parseFloat(f[5]),
		ExitLoss: parseFloat(f[6]),
		Chart:    parseInt(f[7]),
		Scale:    parseInt(f[8]),
		UpInvert: parseFloat(f[9]),
		DnInvert: parseFloat(f[10]),
		Barrels:  parseInt(f[11]),
		Name:     f[12],
	}
	for _, s := range f[13:] {
		if s == "" {
			continue
		}
		c.CenterStations = append(c.CenterStations, parseFloat(s))
	}
	if !c.Shape.Valid() {
		return ras.Culvert{}, &ras.StructureInconsistentError{
			Kind:   ras.KindCulvertNode,
			Detail: "culvert shape code " + strconv.Itoa(int(c.Shape)) + " not in 1..9",
		}
	}
	return c, nil
}

func encodeCulvertRecord(c ras.Culvert) string {
	fields := []string{
		formatFloat(c.Rise),
		formatFloat(c.Span),
		formatFloat(c.Length),
		formatFloat(c.N),
		formatFloat(c.EntLoss),
		formatFloat(c.ExitLoss),
		strconv.Itoa(c.Chart),
		strconv.Itoa(c.Scale),
		formatFloat(c.UpInvert),
		formatFloat(c.DnInvert),
		strconv.Itoa(c.Barrels),
		c.Name,
	}
	for _, s := range c.CenterStations {
		fields = append(fields, formatFloat(s))
	}
	return culvertKeyword + " " + strconv.Itoa(int(c.Shape)) + " ," + strings.Join(fields, ",")
}

// decodeCulverts collects every culvert record inside a section, with the
// absolute line index of each.
func decodeCulverts(lines []string, start, secEnd int) ([]ras.Culvert, []int, error) {
	var cs []ras.Culvert
	var at []int
	for i := start; i < secEnd; i++ {
		if !strings.HasPrefix(lines[i], culvertKeyword) {
			continue
		}
		c, err := decodeCulvertRecord(lines[i])
		if err != nil {
			if mf, ok := err.(*ras.MalformedFieldError); ok {
				mf.Line = i
			}
			return nil, nil, err
		}
		cs = append(cs, c)
		at = append(at, i)
	}
	return cs, at, nil
}
