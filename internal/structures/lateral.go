package structures

import (
	"strings"

	"rasgeo/internal/fixedwidth"
	"rasgeo/internal/section"
	"rasgeo/internal/writeback"
	"rasgeo/pkg/ras"
)

const (
	lwKeyword    = "Lateral Weir Dist,WD,Coef,Skew="
	lwCrestLabel = "Lateral Weir SE"
	lwGatePrefix = "LW"
)

// LateralLayout records block positions relative to the section start.
type LateralLayout struct {
	Sec       section.Section
	Width     int
	Precision int

	CrestHdr, CrestEnd int
	GateStart, GateEnd int
}

// ReadLateral decodes the lateral structure at (river, reach, station):
// the weir profile parallel to the channel plus optional gates and culvert
// barrels.
func ReadLateral(lines []string, river, reach, station string) (*ras.LateralStructure, LateralLayout, error) {
	sec, err := section.LocateNode(lines, section.NodeLateral, river, reach, station)
	if err != nil {
		return nil, LateralLayout{}, err
	}
	ls := &ras.LateralStructure{River: river, Reach: reach, Station: station}
	lay := LateralLayout{
		Sec: sec, Width: fixedwidth.DefaultWidth,
		CrestHdr: -1, CrestEnd: -1, GateStart: -1, GateEnd: -1,
	}

	for i := sec.Start + 1; i < sec.End; i++ {
		ln := lines[i]
		if strings.HasPrefix(ln, lwKeyword) {
			f := recordFields(ln, lwKeyword)
			if len(f) >= 3 {
				ls.Distance = parseFloat(f[0])
				ls.Width = parseFloat(f[1])
				ls.WeirCoef = parseFloat(f[2])
			}
			continue
		}
		if label, n, ok := fixedwidth.ParseCountHeader(ln); ok && label == lwCrestLabel {
			flat, consumed, err := decodeTuples(lines, i, n, 2, pairPerLine, lay.Width, sec.End)
			if err != nil {
				return nil, LateralLayout{}, err
			}
			ls.Crest = pointsFromFlat(flat)
			lay.CrestHdr = i - sec.Start
			lay.CrestEnd = lay.CrestHdr + 1 + consumed
			lay.Precision = fixedwidth.InferPrecision(lines[i+1:i+1+consumed], lay.Width)
			i += consumed
		}
	}
	if lay.CrestHdr < 0 {
		return nil, LateralLayout{}, &ras.EntityNotFoundError{
			Keyword: "#" + lwCrestLabel + "=",
			IDs:     []string{river, reach, station},
		}
	}

	gates, gs, ge, err := decodeGates(lines, sec.Start+1, sec.End, lwGatePrefix, lay.Width)
	if err != nil {
		return nil, LateralLayout{}, err
	}
	ls.Gates = gates
	if gs >= 0 {
		lay.GateStart = gs - sec.Start
		lay.GateEnd = ge - sec.Start
	}

	culverts, _, err := decodeCulverts(lines, sec.Start+1, sec.End)
	if err != nil {
		return nil, LateralLayout{}, err
	}
	ls.Culverts = culverts
	return ls, lay, nil
}

// GetLateral reads the lateral structure from the file at path.
func GetLateral(path, river, reach, station string) (*ras.LateralStructure, error) {
	lines, err := writeback.ReadLines(path)
	if err != nil {
		return nil, err
	}
	ls, _, err := ReadLateral(lines, river, reach, station)
	return ls, err
}

// SetLateral writes the weir profile and gate groups back to the file.
func SetLateral(path string, ls *ras.LateralStructure) error {
	if err := checkCrestOrdered(ras.KindLateral, ls.Crest); err != nil {
		return err
	}
	lines, err := writeback.ReadLines(path)
	if err != nil {
		return err
	}
	_, lay, err := ReadLateral(lines, ls.River, ls.Reach, ls.Station)
	if err != nil {
		return err
	}

	spans := []writeback.Span{{
		Start: lay.CrestHdr,
		End:   lay.CrestEnd,
		Lines: encodePairBlock(lwCrestLabel, ls.Crest, lay.Width, lay.Precision),
	}}
	if lay.GateStart >= 0 {
		spans = append(spans, writeback.Span{
			Start: lay.GateStart,
			End:   lay.GateEnd,
			Lines: encodeGates(lwGatePrefix, ls.Gates, lay.Width, lay.Precision),
		})
	}
	writeback.SortSpans(spans)
	secLines := writeback.ReplaceSpans(lines[lay.Sec.Start:lay.Sec.End], spans)
	return writeback.ApplyEdit(path, lay.Sec.Start, lay.Sec.End, secLines)
}
