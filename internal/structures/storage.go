package structures

import (
	"strconv"

	"rasgeo/internal/fixedwidth"
	"rasgeo/internal/section"
	"rasgeo/internal/writeback"
	"rasgeo/pkg/ras"
)

const storageCurveLabel = "Storage Elev Volume"

// StorageLayout records the curve block position relative to the section
// start.
type StorageLayout struct {
	Sec       section.Section
	Width     int
	Precision int

	CurveHdr, CurveEnd int
}

// ReadStorageArea decodes the named storage area and its elevation-volume
// curve.
func ReadStorageArea(lines []string, name string) (*ras.StorageArea, StorageLayout, error) {
	sec, err := section.Locate(lines, section.KeywordStorageArea, []string{name})
	if err != nil {
		return nil, StorageLayout{}, err
	}
	sa := &ras.StorageArea{Name: name}
	lay := StorageLayout{Sec: sec, Width: fixedwidth.DefaultWidth, CurveHdr: -1, CurveEnd: -1}

	for i := sec.Start + 1; i < sec.End; i++ {
		label, n, ok := fixedwidth.ParseCountHeader(lines[i])
		if !ok || label != storageCurveLabel {
			continue
		}
		flat, consumed, err := decodeTuples(lines, i, n, 2, pairPerLine, lay.Width, sec.End)
		if err != nil {
			return nil, StorageLayout{}, err
		}
		sa.Curve = make([]ras.VolumePoint, n)
		for j := range sa.Curve {
			sa.Curve[j] = ras.VolumePoint{Elevation: flat[2*j], Volume: flat[2*j+1]}
		}
		lay.CurveHdr = i - sec.Start
		lay.CurveEnd = lay.CurveHdr + 1 + consumed
		lay.Precision = fixedwidth.InferPrecision(lines[i+1:i+1+consumed], lay.Width)
		break
	}
	if lay.CurveHdr < 0 {
		return nil, StorageLayout{}, &ras.EntityNotFoundError{
			Keyword: "#" + storageCurveLabel + "=",
			IDs:     []string{name},
		}
	}
	return sa, lay, nil
}

// GetStorageArea reads the named storage area from the file at path.
func GetStorageArea(path, name string) (*ras.StorageArea, error) {
	lines, err := writeback.ReadLines(path)
	if err != nil {
		return nil, err
	}
	sa, _, err := ReadStorageArea(lines, name)
	return sa, err
}

// SetStorageArea rewrites the elevation-volume curve of the named storage
// area. Elevations must be non-decreasing.
func SetStorageArea(path, name string, curve []ras.VolumePoint) error {
	for i := 1; i < len(curve); i++ {
		if curve[i].Elevation < curve[i-1].Elevation {
			return &ras.StructureInconsistentError{
				Kind:   ras.KindStorageArea,
				Detail: "curve elevations decrease at point " + strconv.Itoa(i),
			}
		}
	}
	lines, err := writeback.ReadLines(path)
	if err != nil {
		return err
	}
	_, lay, err := ReadStorageArea(lines, name)
	if err != nil {
		return err
	}

	flat := make([]float64, 0, len(curve)*2)
	for _, p := range curve {
		flat = append(flat, p.Elevation, p.Volume)
	}
	block := append(
		[]string{fixedwidth.FormatCountHeader(storageCurveLabel, len(curve))},
		fixedwidth.EncodeValues(flat, lay.Width, pairPerLine, lay.Precision)...,
	)
	secLines := writeback.ReplaceSpans(lines[lay.Sec.Start:lay.Sec.End], []writeback.Span{
		{Start: lay.CurveHdr, End: lay.CurveEnd, Lines: block},
	})
	return writeback.ApplyEdit(path, lay.Sec.Start, lay.Sec.End, secLines)
}
