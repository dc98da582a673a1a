// Package xsection reads and writes the cross-section sections of a
// geometry file: the station/elevation profile, bank station markers,
// Manning's n segment table and expansion/contraction coefficients.
//
// Writes regenerate only the blocks this codec models; every other line of
// the section passes through with its original bytes.
package xsection

import (
	"strconv"
	"strings"

	"rasgeo/internal/fixedwidth"
	"rasgeo/internal/section"
	"rasgeo/internal/writeback"
	"rasgeo/pkg/ras"
)

const (
	staElevLabel = "Sta/Elev"
	mannLabel    = "Mann"
	bankKeyword  = "Bank Sta="
	expKeyword   = "Exp/Cntr="

	// Manning triples are wrapped 9 to a line so tuples never split.
	mannPerLine = 9
)

// Layout captures where the modeled blocks sit inside the located section
// and the formatting conventions inferred from the existing file. It is fed
// back to Encode so a rewrite reproduces the file's own precision, not a
// hardcoded one.
type Layout struct {
	Sec       section.Section
	Width     int
	Precision int

	// Block positions relative to Sec.Start; -1 when the block is absent.
	StaElevHdr int
	StaElevEnd int // line after the last profile line
	BankLine   int
}

// Read decodes the cross-section at (river, reach, station) from an
// in-memory line sequence.
func Read(lines []string, river, reach, station string) (*ras.CrossSection, Layout, error) {
	sec, err := section.LocateNode(lines, section.NodeCrossSection, river, reach, station)
	if err != nil {
		return nil, Layout{}, err
	}

	xs := &ras.CrossSection{River: river, Reach: reach, Station: station}
	lay := Layout{Sec: sec, Width: fixedwidth.DefaultWidth, StaElevHdr: -1, StaElevEnd: -1, BankLine: -1}

	hdrFields := section.SplitIDs(lines[sec.Start][len(section.KeywordNode):])
	if len(hdrFields) >= 5 {
		xs.LengthLeft = parseFloat(hdrFields[2])
		xs.LengthChannel = parseFloat(hdrFields[3])
		xs.LengthRight = parseFloat(hdrFields[4])
	}

	for i := sec.Start + 1; i < sec.End; i++ {
		ln := lines[i]
		if label, n, ok := fixedwidth.ParseCountHeader(ln); ok {
			switch label {
			case staElevLabel:
				nl := fixedwidth.CountLines(n, 2, fixedwidth.DefaultPerLine)
				block := blockLines(lines, i+1, nl, sec.End)
				lay.StaElevHdr = i - sec.Start
				lay.StaElevEnd = lay.StaElevHdr + 1 + len(block)
				lay.Precision = fixedwidth.InferPrecision(block, lay.Width)
				pts, err := decodePoints(block, lay.Width, n, i)
				if err != nil {
					return nil, Layout{}, err
				}
				xs.Points = pts
				i += len(block)
			case mannLabel:
				nl := fixedwidth.CountLines(n, 3, mannPerLine)
				block := blockLines(lines, i+1, nl, sec.End)
				segs, err := decodeMannings(block, lay.Width, n, i)
				if err != nil {
					return nil, Layout{}, err
				}
				xs.Mannings = segs
				i += len(block)
			}
			continue
		}
		switch {
		case strings.HasPrefix(ln, bankKeyword):
			lay.BankLine = i - sec.Start
			f := section.SplitIDs(ln[len(bankKeyword):])
			if len(f) >= 2 {
				xs.BankLeft = parseFloat(f[0])
				xs.BankRight = parseFloat(f[1])
			}
		case strings.HasPrefix(ln, expKeyword):
			f := section.SplitIDs(ln[len(expKeyword):])
			if len(f) >= 2 {
				xs.Expansion = parseFloat(f[0])
				xs.Contraction = parseFloat(f[1])
			}
		}
	}

	if lay.StaElevHdr < 0 {
		return nil, Layout{}, &ras.EntityNotFoundError{
			Keyword: "#" + staElevLabel + "=",
			IDs:     []string{river, reach, station},
		}
	}
	return xs, lay, nil
}

// Encode regenerates the section's lines from the entity, replacing the
// station/elevation block and the bank marker and passing every other line
// through byte-identical. secLines is the original section slice
// lines[Sec.Start:Sec.End].
func Encode(xs *ras.CrossSection, lay Layout, secLines []string) ([]string, error) {
	if len(xs.Points) > ras.MaxPoints {
		return nil, &ras.PointLimitError{Count: len(xs.Points)}
	}
	if err := checkOrdered(xs.Points); err != nil {
		return nil, err
	}

	flat := make([]float64, 0, len(xs.Points)*2)
	for _, p := range xs.Points {
		flat = append(flat, p.Station, p.Elevation)
	}
	block := append(
		[]string{fixedwidth.FormatCountHeader(staElevLabel, len(xs.Points))},
		fixedwidth.EncodeValues(flat, lay.Width, fixedwidth.DefaultPerLine, lay.Precision)...,
	)

	spans := []writeback.Span{{Start: lay.StaElevHdr, End: lay.StaElevEnd, Lines: block}}
	bankLine := bankKeyword + formatBank(xs.BankLeft) + "," + formatBank(xs.BankRight)
	if lay.BankLine >= 0 {
		spans = append(spans, writeback.Span{
			Start: lay.BankLine,
			End:   lay.BankLine + 1,
			Lines: []string{bankLine},
		})
	} else {
		// No existing bank marker: insert one after the profile block so
		// the banks just written survive a re-read.
		spans = append(spans, writeback.Span{
			Start: lay.StaElevEnd,
			End:   lay.StaElevEnd,
			Lines: []string{bankLine},
		})
	}
	writeback.SortSpans(spans)
	return writeback.ReplaceSpans(secLines, spans), nil
}

// Get reads the cross-section from the file at path. Each call reads the
// file fresh; nothing is held open or cached between calls.
func Get(path, river, reach, station string) (*ras.CrossSection, error) {
	lines, err := writeback.ReadLines(path)
	if err != nil {
		return nil, err
	}
	xs, _, err := Read(lines, river, reach, station)
	return xs, err
}

// Set replaces the station/elevation profile and bank stations of the
// cross-section at (river, reach, station).
//
// Bank stations that do not match an existing point exactly are synthesized
// by linear interpolation between their bracketing points before the write;
// if either bank falls outside the profile extent the write is refused. The
// profile may not exceed ras.MaxPoints after insertion.
func Set(path, river, reach, station string, pts []ras.Point, bankLeft, bankRight float64) error {
	lines, err := writeback.ReadLines(path)
	if err != nil {
		return err
	}
	xs, lay, err := Read(lines, river, reach, station)
	if err != nil {
		return err
	}

	merged := append([]ras.Point(nil), pts...)
	if err := checkOrdered(merged); err != nil {
		return err
	}
	for _, bank := range []float64{bankLeft, bankRight} {
		merged, err = InsertBank(merged, bank)
		if err != nil {
			return err
		}
	}
	if len(merged) > ras.MaxPoints {
		return &ras.PointLimitError{Count: len(merged)}
	}

	xs.Points = merged
	xs.BankLeft = bankLeft
	xs.BankRight = bankRight

	secLines, err := Encode(xs, lay, lines[lay.Sec.Start:lay.Sec.End])
	if err != nil {
		return err
	}
	return writeback.ApplyEdit(path, lay.Sec.Start, lay.Sec.End, secLines)
}

// InsertBank returns pts with an exact point at station bank, synthesizing
// one by linear interpolation when necessary. An existing exact match is
// returned unchanged, never duplicated.
func InsertBank(pts []ras.Point, bank float64) ([]ras.Point, error) {
	for _, p := range pts {
		if p.Station == bank {
			return pts, nil
		}
	}
	if len(pts) < 2 || bank < pts[0].Station || bank > pts[len(pts)-1].Station {
		return nil, &ras.StructureInconsistentError{
			Kind:   ras.KindCrossSection,
			Detail: "bank station " + strconv.FormatFloat(bank, 'f', -1, 64) + " outside profile extent",
		}
	}
	for i := 1; i < len(pts); i++ {
		if pts[i].Station > bank {
			a, b := pts[i-1], pts[i]
			elev := a.Elevation + (b.Elevation-a.Elevation)*(bank-a.Station)/(b.Station-a.Station)
			out := make([]ras.Point, 0, len(pts)+1)
			out = append(out, pts[:i]...)
			out = append(out, ras.Point{Station: bank, Elevation: elev})
			out = append(out, pts[i:]...)
			return out, nil
		}
	}
	// Unreachable: bank within extent always has a bracketing pair.
	return pts, nil
}

func checkOrdered(pts []ras.Point) error {
	for i := 1; i < len(pts); i++ {
		if pts[i].Station < pts[i-1].Station {
			return &ras.StructureInconsistentError{
				Kind:   ras.KindCrossSection,
				Detail: "stations decrease at point " + strconv.Itoa(i),
			}
		}
	}
	return nil
}

// decodePoints decodes a station/elevation block of n pairs. hdrLine is the
// absolute index of the count header, used for error positions.
func decodePoints(block []string, width, n, hdrLine int) ([]ras.Point, error) {
	vals, err := fixedwidth.DecodeBlock(block, width)
	if err != nil {
		if mf, ok := err.(*ras.MalformedFieldError); ok {
			mf.Line += hdrLine + 1
		}
		return nil, err
	}
	floats, _ := fixedwidth.Floats(vals)
	if len(floats) < fixedwidth.CountValues(n, 2) {
		return nil, &ras.MalformedFieldError{Line: hdrLine, Slot: -1, Raw: staElevLabel + " block short"}
	}
	pts := make([]ras.Point, n)
	for i := range pts {
		pts[i] = ras.Point{Station: floats[2*i], Elevation: floats[2*i+1]}
	}
	return pts, nil
}

func decodeMannings(block []string, width, n, hdrLine int) ([]ras.ManningSegment, error) {
	vals, err := fixedwidth.DecodeBlock(block, width)
	if err != nil {
		if mf, ok := err.(*ras.MalformedFieldError); ok {
			mf.Line += hdrLine + 1
		}
		return nil, err
	}
	floats, _ := fixedwidth.Floats(vals)
	if len(floats) < fixedwidth.CountValues(n, 3) {
		return nil, &ras.MalformedFieldError{Line: hdrLine, Slot: -1, Raw: mannLabel + " block short"}
	}
	segs := make([]ras.ManningSegment, n)
	for i := range segs {
		segs[i] = ras.ManningSegment{Station: floats[3*i], N: floats[3*i+1]}
	}
	return segs, nil
}

// blockLines clips a count block to the section boundary so a corrupt count
// can never read into the next section.
func blockLines(lines []string, start, n, secEnd int) []string {
	end := start + n
	if end > secEnd {
		end = secEnd
	}
	if start > end {
		start = end
	}
	return lines[start:end]
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func formatBank(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
