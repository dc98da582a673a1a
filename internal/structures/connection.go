package structures

import (
	"strings"

	"rasgeo/internal/fixedwidth"
	"rasgeo/internal/section"
	"rasgeo/internal/writeback"
	"rasgeo/pkg/ras"
)

const (
	connUpKeyword   = "Connection Up SA="
	connDnKeyword   = "Connection Dn SA="
	connWeirKeyword = "Conn Weir WD,Coef,Skew="
	connCrestLabel  = "Conn Weir SE"
	connGatePrefix  = "Conn"
)

// ConnectionLayout records block positions relative to the section start.
type ConnectionLayout struct {
	Sec       section.Section
	Width     int
	Precision int

	CrestHdr, CrestEnd int
	GateStart, GateEnd int
}

// ReadConnection decodes the named storage/2D-area connection.
func ReadConnection(lines []string, name string) (*ras.Connection, ConnectionLayout, error) {
	sec, err := section.Locate(lines, section.KeywordConnection, []string{name})
	if err != nil {
		return nil, ConnectionLayout{}, err
	}
	cn := &ras.Connection{Name: name}
	lay := ConnectionLayout{
		Sec: sec, Width: fixedwidth.DefaultWidth,
		CrestHdr: -1, CrestEnd: -1, GateStart: -1, GateEnd: -1,
	}

	for i := sec.Start + 1; i < sec.End; i++ {
		ln := lines[i]
		switch {
		case strings.HasPrefix(ln, connUpKeyword):
			cn.UpArea = strings.TrimSpace(ln[len(connUpKeyword):])
			continue
		case strings.HasPrefix(ln, connDnKeyword):
			cn.DnArea = strings.TrimSpace(ln[len(connDnKeyword):])
			continue
		case strings.HasPrefix(ln, connWeirKeyword):
			f := recordFields(ln, connWeirKeyword)
			if len(f) >= 2 {
				cn.Width = parseFloat(f[0])
				cn.WeirCoef = parseFloat(f[1])
			}
			continue
		}
		if label, n, ok := fixedwidth.ParseCountHeader(ln); ok && label == connCrestLabel {
			flat, consumed, err := decodeTuples(lines, i, n, 2, pairPerLine, lay.Width, sec.End)
			if err != nil {
				return nil, ConnectionLayout{}, err
			}
			cn.Crest = pointsFromFlat(flat)
			lay.CrestHdr = i - sec.Start
			lay.CrestEnd = lay.CrestHdr + 1 + consumed
			lay.Precision = fixedwidth.InferPrecision(lines[i+1:i+1+consumed], lay.Width)
			i += consumed
		}
	}
	if lay.CrestHdr < 0 {
		return nil, ConnectionLayout{}, &ras.EntityNotFoundError{
			Keyword: "#" + connCrestLabel + "=",
			IDs:     []string{name},
		}
	}

	gates, gs, ge, err := decodeGates(lines, sec.Start+1, sec.End, connGatePrefix, lay.Width)
	if err != nil {
		return nil, ConnectionLayout{}, err
	}
	cn.Gates = gates
	if gs >= 0 {
		lay.GateStart = gs - sec.Start
		lay.GateEnd = ge - sec.Start
	}

	culverts, _, err := decodeCulverts(lines, sec.Start+1, sec.End)
	if err != nil {
		return nil, ConnectionLayout{}, err
	}
	cn.Culverts = culverts
	return cn, lay, nil
}

// GetConnection reads the named connection from the file at path.
func GetConnection(path, name string) (*ras.Connection, error) {
	lines, err := writeback.ReadLines(path)
	if err != nil {
		return nil, err
	}
	cn, _, err := ReadConnection(lines, name)
	return cn, err
}

// SetConnection writes the connection's weir profile and gate groups back
// to the file.
func SetConnection(path string, cn *ras.Connection) error {
	if err := checkCrestOrdered(ras.KindConnection, cn.Crest); err != nil {
		return err
	}
	lines, err := writeback.ReadLines(path)
	if err != nil {
		return err
	}
	_, lay, err := ReadConnection(lines, cn.Name)
	if err != nil {
		return err
	}

	spans := []writeback.Span{{
		Start: lay.CrestHdr,
		End:   lay.CrestEnd,
		Lines: encodePairBlock(connCrestLabel, cn.Crest, lay.Width, lay.Precision),
	}}
	if lay.GateStart >= 0 {
		spans = append(spans, writeback.Span{
			Start: lay.GateStart,
			End:   lay.GateEnd,
			Lines: encodeGates(connGatePrefix, cn.Gates, lay.Width, lay.Precision),
		})
	}
	writeback.SortSpans(spans)
	secLines := writeback.ReplaceSpans(lines[lay.Sec.Start:lay.Sec.End], spans)
	return writeback.ApplyEdit(path, lay.Sec.Start, lay.Sec.End, secLines)
}
