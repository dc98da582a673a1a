package structures

import (
	"strconv"
	"strings"

	"rasgeo/internal/fixedwidth"
	"rasgeo/internal/section"
	"rasgeo/internal/writeback"
	"rasgeo/pkg/ras"
)

const (
	deckKeyword   = "Deck Dist Width WeirC Skew NumUp NumDn MinLoCord MaxHiCord MaxSubmerge Is_Ocean="
	deckUpLabel   = "Deck Sta"
	deckDnLabel   = "Deck Sta DS"
	pierKeyword   = "Pier Up Dn="
	pierLabel     = "Pier Elev Width"
	brCoefKeyword = "BR Coef="
)

// BridgeLayout records where the modeled bridge blocks sit, relative to the
// section start, plus the file's formatting conventions.
type BridgeLayout struct {
	Sec       section.Section
	Width     int
	Precision int

	DeckUpHdr, DeckUpEnd int // -1 when absent
	DeckDnHdr, DeckDnEnd int
	PierStart, PierEnd   int // contiguous pier region; -1 when no piers
}

// ReadBridge decodes the bridge at (river, reach, station).
func ReadBridge(lines []string, river, reach, station string) (*ras.Bridge, BridgeLayout, error) {
	sec, err := section.LocateNode(lines, section.NodeBridge, river, reach, station)
	if err != nil {
		return nil, BridgeLayout{}, err
	}
	br := &ras.Bridge{River: river, Reach: reach, Station: station}
	lay := BridgeLayout{
		Sec: sec, Width: fixedwidth.DefaultWidth,
		DeckUpHdr: -1, DeckUpEnd: -1, DeckDnHdr: -1, DeckDnEnd: -1,
		PierStart: -1, PierEnd: -1,
	}

	i := sec.Start + 1
	for i < sec.End {
		ln := lines[i]
		if strings.HasPrefix(ln, deckKeyword) {
			f := recordFields(ln, deckKeyword)
			if len(f) >= 4 {
				br.Distance = parseFloat(f[0])
				br.Width = parseFloat(f[1])
				br.WeirCoef = parseFloat(f[2])
				br.Skew = parseFloat(f[3])
			}
			i++
			continue
		}
		if strings.HasPrefix(ln, pierKeyword) {
			if lay.PierStart < 0 {
				lay.PierStart = i - sec.Start
			}
			pier, consumed, err := decodePier(lines, i, sec.End, lay.Width)
			if err != nil {
				return nil, BridgeLayout{}, err
			}
			br.Piers = append(br.Piers, pier)
			i += consumed
			lay.PierEnd = i - sec.Start
			continue
		}
		if strings.HasPrefix(ln, brCoefKeyword) {
			for _, s := range recordFields(ln, brCoefKeyword) {
				if s == "" {
					continue
				}
				br.Coef = append(br.Coef, parseFloat(s))
			}
			i++
			continue
		}
		if label, n, ok := fixedwidth.ParseCountHeader(ln); ok {
			switch label {
			case deckUpLabel, deckDnLabel:
				flat, consumed, err := decodeTuples(lines, i, n, 3, triplePerLine, lay.Width, sec.End)
				if err != nil {
					return nil, BridgeLayout{}, err
				}
				pts := deckFromFlat(flat)
				if label == deckUpLabel {
					lay.DeckUpHdr = i - sec.Start
					lay.DeckUpEnd = lay.DeckUpHdr + 1 + consumed
					lay.Precision = fixedwidth.InferPrecision(lines[i+1:i+1+consumed], lay.Width)
					br.DeckUp = pts
				} else {
					lay.DeckDnHdr = i - sec.Start
					lay.DeckDnEnd = lay.DeckDnHdr + 1 + consumed
					br.DeckDown = pts
				}
				i += 1 + consumed
				continue
			}
		}
		i++
	}

	culverts, _, err := decodeCulverts(lines, sec.Start+1, sec.End)
	if err != nil {
		return nil, BridgeLayout{}, err
	}
	br.Culverts = culverts

	if lay.DeckUpHdr < 0 {
		return nil, BridgeLayout{}, &ras.EntityNotFoundError{
			Keyword: "#" + deckUpLabel + "=",
			IDs:     []string{river, reach, station},
		}
	}
	return br, lay, nil
}

// decodePier reads one pier group (record line + elevation/width table)
// starting at the absolute line index at. It returns the pier and the
// number of lines consumed.
func decodePier(lines []string, at, secEnd, width int) (ras.Pier, int, error) {
	f := recordFields(lines[at], pierKeyword)
	p := ras.Pier{}
	if len(f) >= 2 {
		p.UpStation = parseFloat(f[0])
		p.DnStation = parseFloat(f[1])
	}
	consumed := 1
	if at+1 < secEnd {
		if label, n, ok := fixedwidth.ParseCountHeader(lines[at+1]); ok && label == pierLabel {
			flat, nl, err := decodeTuples(lines, at+1, n, 2, pairPerLine, width, secEnd)
			if err != nil {
				return ras.Pier{}, 0, err
			}
			p.Profile = make([]ras.PierLevel, n)
			for i := range p.Profile {
				p.Profile[i] = ras.PierLevel{Elevation: flat[2*i], Width: flat[2*i+1]}
			}
			consumed += 1 + nl
		}
	}
	return p, consumed, nil
}

func deckFromFlat(flat []float64) []ras.DeckPoint {
	pts := make([]ras.DeckPoint, len(flat)/3)
	for i := range pts {
		pts[i] = ras.DeckPoint{Station: flat[3*i], High: flat[3*i+1], Low: flat[3*i+2]}
	}
	return pts
}

func deckToFlat(pts []ras.DeckPoint) []float64 {
	flat := make([]float64, 0, len(pts)*3)
	for _, p := range pts {
		flat = append(flat, p.Station, p.High, p.Low)
	}
	return flat
}

// ValidateBridge checks the bridge-specific invariant: every pier station
// must lie within the deck station range. Violations are reported, never
// auto-corrected.
func ValidateBridge(br *ras.Bridge) error {
	min, max, ok := br.DeckRange()
	if !ok {
		return &ras.StructureInconsistentError{Kind: ras.KindBridge, Detail: "bridge has no deck profile"}
	}
	for i, p := range br.Piers {
		for _, sta := range []float64{p.UpStation, p.DnStation} {
			if sta < min || sta > max {
				return &ras.StructureInconsistentError{
					Kind: ras.KindBridge,
					Detail: "pier " + strconv.Itoa(i) + " station " + formatFloat(sta) +
						" outside deck range [" + formatFloat(min) + ", " + formatFloat(max) + "]",
				}
			}
		}
	}
	return nil
}

// EncodeBridge regenerates the deck blocks and the pier region from the
// entity, validating the pier/deck invariant first. All other section
// lines pass through byte-identical.
func EncodeBridge(br *ras.Bridge, lay BridgeLayout, secLines []string) ([]string, error) {
	if err := ValidateBridge(br); err != nil {
		return nil, err
	}

	encodeDeck := func(label string, pts []ras.DeckPoint) []string {
		return append(
			[]string{fixedwidth.FormatCountHeader(label, len(pts))},
			fixedwidth.EncodeValues(deckToFlat(pts), lay.Width, triplePerLine, lay.Precision)...,
		)
	}

	var spans []writeback.Span
	spans = append(spans, writeback.Span{
		Start: lay.DeckUpHdr, End: lay.DeckUpEnd, Lines: encodeDeck(deckUpLabel, br.DeckUp),
	})
	if lay.DeckDnHdr >= 0 && len(br.DeckDown) > 0 {
		spans = append(spans, writeback.Span{
			Start: lay.DeckDnHdr, End: lay.DeckDnEnd, Lines: encodeDeck(deckDnLabel, br.DeckDown),
		})
	}
	if lay.PierStart >= 0 {
		var pierLines []string
		for _, p := range br.Piers {
			pierLines = append(pierLines, pierKeyword+" "+formatFloat(p.UpStation)+" , "+formatFloat(p.DnStation))
			flat := make([]float64, 0, len(p.Profile)*2)
			for _, lv := range p.Profile {
				flat = append(flat, lv.Elevation, lv.Width)
			}
			pierLines = append(pierLines, fixedwidth.FormatCountHeader(pierLabel, len(p.Profile)))
			pierLines = append(pierLines, fixedwidth.EncodeValues(flat, lay.Width, pairPerLine, lay.Precision)...)
		}
		spans = append(spans, writeback.Span{Start: lay.PierStart, End: lay.PierEnd, Lines: pierLines})
	}
	writeback.SortSpans(spans)
	return writeback.ReplaceSpans(secLines, spans), nil
}

// GetBridge reads the bridge at (river, reach, station) from the file.
func GetBridge(path, river, reach, station string) (*ras.Bridge, error) {
	lines, err := writeback.ReadLines(path)
	if err != nil {
		return nil, err
	}
	br, _, err := ReadBridge(lines, river, reach, station)
	return br, err
}

// SetBridge writes the bridge's deck and pier geometry back to the file.
// The write is refused when any pier falls outside the deck extent.
func SetBridge(path string, br *ras.Bridge) error {
	lines, err := writeback.ReadLines(path)
	if err != nil {
		return err
	}
	_, lay, err := ReadBridge(lines, br.River, br.Reach, br.Station)
	if err != nil {
		return err
	}
	secLines, err := EncodeBridge(br, lay, lines[lay.Sec.Start:lay.Sec.End])
	if err != nil {
		return err
	}
	return writeback.ApplyEdit(path, lay.Sec.Start, lay.Sec.End, secLines)
}

