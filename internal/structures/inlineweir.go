package structures

import (
	"strings"

	"rasgeo/internal/fixedwidth"
	"rasgeo/internal/section"
	"rasgeo/internal/writeback"
	"rasgeo/pkg/ras"
)

const (
	iwKeyword    = "IW Dist,WD,Coef,Skew,MaxSub,Min El,Is_Ocean,SpillHt,DesHd="
	iwCrestLabel = "Inline Weir SE"
	iwGatePrefix = "IW"
)

// InlineWeirLayout records block positions relative to the section start.
type InlineWeirLayout struct {
	Sec       section.Section
	Width     int
	Precision int

	CrestHdr, CrestEnd int
	GateStart, GateEnd int // -1 when the structure has no gates
}

// ReadInlineWeir decodes the inline structure at (river, reach, station).
// A missing gate block is a valid state, not an error.
func ReadInlineWeir(lines []string, river, reach, station string) (*ras.InlineWeir, InlineWeirLayout, error) {
	sec, err := section.LocateNode(lines, section.NodeInlineWeir, river, reach, station)
	if err != nil {
		return nil, InlineWeirLayout{}, err
	}
	iw := &ras.InlineWeir{River: river, Reach: reach, Station: station}
	lay := InlineWeirLayout{
		Sec: sec, Width: fixedwidth.DefaultWidth,
		CrestHdr: -1, CrestEnd: -1, GateStart: -1, GateEnd: -1,
	}

	for i := sec.Start + 1; i < sec.End; i++ {
		ln := lines[i]
		if strings.HasPrefix(ln, iwKeyword) {
			f := recordFields(ln, iwKeyword)
			if len(f) >= 3 {
				iw.Distance = parseFloat(f[0])
				iw.Width = parseFloat(f[1])
				iw.WeirCoef = parseFloat(f[2])
			}
			continue
		}
		if label, n, ok := fixedwidth.ParseCountHeader(ln); ok && label == iwCrestLabel {
			flat, consumed, err := decodeTuples(lines, i, n, 2, pairPerLine, lay.Width, sec.End)
			if err != nil {
				return nil, InlineWeirLayout{}, err
			}
			iw.Crest = pointsFromFlat(flat)
			lay.CrestHdr = i - sec.Start
			lay.CrestEnd = lay.CrestHdr + 1 + consumed
			lay.Precision = fixedwidth.InferPrecision(lines[i+1:i+1+consumed], lay.Width)
			i += consumed
		}
	}
	if lay.CrestHdr < 0 {
		return nil, InlineWeirLayout{}, &ras.EntityNotFoundError{
			Keyword: "#" + iwCrestLabel + "=",
			IDs:     []string{river, reach, station},
		}
	}

	gates, gs, ge, err := decodeGates(lines, sec.Start+1, sec.End, iwGatePrefix, lay.Width)
	if err != nil {
		return nil, InlineWeirLayout{}, err
	}
	iw.Gates = gates
	if gs >= 0 {
		lay.GateStart = gs - sec.Start
		lay.GateEnd = ge - sec.Start
	}
	return iw, lay, nil
}

// EncodeInlineWeir regenerates the crest block and the gate region.
func EncodeInlineWeir(iw *ras.InlineWeir, lay InlineWeirLayout, secLines []string) ([]string, error) {
	if err := checkCrestOrdered(ras.KindInlineWeir, iw.Crest); err != nil {
		return nil, err
	}
	spans := []writeback.Span{{
		Start: lay.CrestHdr,
		End:   lay.CrestEnd,
		Lines: encodePairBlock(iwCrestLabel, iw.Crest, lay.Width, lay.Precision),
	}}
	if lay.GateStart >= 0 {
		spans = append(spans, writeback.Span{
			Start: lay.GateStart,
			End:   lay.GateEnd,
			Lines: encodeGates(iwGatePrefix, iw.Gates, lay.Width, lay.Precision),
		})
	}
	writeback.SortSpans(spans)
	return writeback.ReplaceSpans(secLines, spans), nil
}

// GetInlineWeir reads the inline structure from the file at path.
func GetInlineWeir(path, river, reach, station string) (*ras.InlineWeir, error) {
	lines, err := writeback.ReadLines(path)
	if err != nil {
		return nil, err
	}
	iw, _, err := ReadInlineWeir(lines, river, reach, station)
	return iw, err
}

// SetInlineWeir writes the crest profile and gate groups back to the file.
func SetInlineWeir(path string, iw *ras.InlineWeir) error {
	lines, err := writeback.ReadLines(path)
	if err != nil {
		return err
	}
	_, lay, err := ReadInlineWeir(lines, iw.River, iw.Reach, iw.Station)
	if err != nil {
		return err
	}
	secLines, err := EncodeInlineWeir(iw, lay, lines[lay.Sec.Start:lay.Sec.End])
	if err != nil {
		return err
	}
	return writeback.ApplyEdit(path, lay.Sec.Start, lay.Sec.End, secLines)
}
