// Package geometry is the public surface of the geometry-file codec: file-
// level read/modify/write operations for cross-sections and hydraulic
// structures, keyed by a file path plus the case-sensitive identifiers
// HEC-RAS uses (river, reach, station, or a structure/area name).
//
// Every operation reads the file fresh and writes through the backup-then-
// atomic-replace pipeline; nothing is cached and no file handle outlives a
// call. Concurrent reads are safe, including of the same file. Concurrent
// writes to the same path are not coordinated here: callers that need
// multi-writer safety must serialize per path themselves.
package geometry

import (
	"rasgeo/internal/section"
	"rasgeo/internal/structures"
	"rasgeo/internal/writeback"
	"rasgeo/internal/xsection"
	"rasgeo/pkg/ras"
)

// GetStationElevation reads the cross-section at (river, reach, station).
func GetStationElevation(path, river, reach, station string) (*ras.CrossSection, error) {
	return xsection.Get(path, river, reach, station)
}

// SetStationElevation replaces the station/elevation profile and bank
// stations of a cross-section. Banks that match no point exactly are
// synthesized by linear interpolation; the profile may not exceed
// ras.MaxPoints afterward.
func SetStationElevation(path, river, reach, station string, pts []ras.Point, bankLeft, bankRight float64) error {
	return xsection.Set(path, river, reach, station, pts, bankLeft, bankRight)
}

// GetBridge reads the bridge at (river, reach, station).
func GetBridge(path, river, reach, station string) (*ras.Bridge, error) {
	return structures.GetBridge(path, river, reach, station)
}

// SetBridge writes a bridge's deck and pier geometry back. The write is
// refused when a pier station falls outside the deck extent.
func SetBridge(path string, br *ras.Bridge) error {
	return structures.SetBridge(path, br)
}

// GetCulvert reads the named culvert barrel group at (river, reach,
// station).
func GetCulvert(path, river, reach, station, name string) (*ras.Culvert, error) {
	return structures.GetCulvert(path, river, reach, station, name)
}

// SetCulvert rewrites the named culvert barrel group's record.
func SetCulvert(path, river, reach, station string, c *ras.Culvert) error {
	return structures.SetCulvert(path, river, reach, station, c)
}

// GetInlineWeir reads the inline structure at (river, reach, station).
func GetInlineWeir(path, river, reach, station string) (*ras.InlineWeir, error) {
	return structures.GetInlineWeir(path, river, reach, station)
}

// SetInlineWeir writes an inline structure's crest profile and gates back.
func SetInlineWeir(path string, iw *ras.InlineWeir) error {
	return structures.SetInlineWeir(path, iw)
}

// GetStorageArea reads the named storage area.
func GetStorageArea(path, name string) (*ras.StorageArea, error) {
	return structures.GetStorageArea(path, name)
}

// SetStorageArea rewrites a storage area's elevation-volume curve.
func SetStorageArea(path, name string, curve []ras.VolumePoint) error {
	return structures.SetStorageArea(path, name, curve)
}

// GetLateralStructure reads the lateral structure at (river, reach,
// station).
func GetLateralStructure(path, river, reach, station string) (*ras.LateralStructure, error) {
	return structures.GetLateral(path, river, reach, station)
}

// SetLateralStructure writes a lateral structure's weir profile and gates
// back.
func SetLateralStructure(path string, ls *ras.LateralStructure) error {
	return structures.SetLateral(path, ls)
}

// GetConnection reads the named storage/2D-area connection.
func GetConnection(path, name string) (*ras.Connection, error) {
	return structures.GetConnection(path, name)
}

// SetConnection writes a connection's weir profile and gates back.
func SetConnection(path string, cn *ras.Connection) error {
	return structures.SetConnection(path, cn)
}

// Entry is one top-level section of a geometry file, as listed by List.
type Entry struct {
	Keyword string
	IDs     []string
	Start   int
	End     int
}

// List enumerates every top-level section of the file in order. It backs
// listing and browsing surfaces; codecs locate entities directly.
func List(path string) ([]Entry, error) {
	lines, err := writeback.ReadLines(path)
	if err != nil {
		return nil, err
	}
	secs := section.Index(lines)
	out := make([]Entry, len(secs))
	for i, s := range secs {
		out[i] = Entry{Keyword: s.Keyword, IDs: s.IDs, Start: s.Start, End: s.End}
	}
	return out, nil
}

// ApplyEdit exposes the raw write pipeline: replace lines [start, end) of
// the file with newLines, via backup and atomic replace, leaving all other
// bytes untouched.
func ApplyEdit(path string, start, end int, newLines []string) error {
	return writeback.ApplyEdit(path, start, end, newLines)
}
