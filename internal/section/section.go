// Package section locates named sections inside an in-memory geometry file.
// A section starts at a keyword line ("River Reach=", "Type RM Length L Ch R
// = ", "Storage Area=", ...) and runs to the next top-level keyword or end
// of file; its length is data dependent because of embedded count blocks, so
// it is never a fixed offset.
//
// Identifier matching is exact and case sensitive. HEC-RAS treats
// "Ohio River" and "ohio river" as distinct reaches and so does this
// package; nothing is normalized beyond trimming the column padding around
// each comma-separated field.
package section

import (
	"strconv"
	"strings"

	"rasgeo/pkg/ras"
)

// Section is a half-open line range [Start, End) plus the keyword and
// identifier tuple that located it. It is consumed immediately by a codec
// and never persisted.
type Section struct {
	Keyword string
	IDs     []string
	Start   int
	End     int
}

// Node type codes used on "Type RM Length L Ch R =" lines.
const (
	NodeCrossSection = 1
	NodeCulvert      = 2
	NodeBridge       = 3
	NodeMultiOpening = 4
	NodeInlineWeir   = 5
	NodeLateral      = 6
)

// KeywordReach etc. are the top-level keywords this package recognizes.
const (
	KeywordReach       = "River Reach="
	KeywordNode        = "Type RM Length L Ch R ="
	KeywordStorageArea = "Storage Area="
	KeywordConnection  = "Connection="
)

// topLevel is the closed set of keywords that terminate the previous
// section. Count headers and data lines never appear here.
var topLevel = []string{
	"Geom Title=",
	"Program Version=",
	KeywordReach,
	KeywordNode,
	KeywordStorageArea,
	KeywordConnection,
	"Chan Stop Cuts=",
}

// IsTopLevel reports whether line opens a new top-level section.
func IsTopLevel(line string) bool {
	for _, kw := range topLevel {
		if strings.HasPrefix(line, kw) {
			return true
		}
	}
	return false
}

// SplitIDs splits the identifier list following a keyword's '=' into
// trimmed fields. Trimming removes the fixed-column padding HEC-RAS writes
// around names; it does not change case.
func SplitIDs(rest string) []string {
	parts := strings.Split(rest, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

// matchAt reports whether the line at index i starts with keyword and its
// leading identifier fields equal ids exactly.
func matchAt(line, keyword string, ids []string) bool {
	if !strings.HasPrefix(line, keyword) {
		return false
	}
	fields := SplitIDs(line[len(keyword):])
	if len(fields) < len(ids) {
		return false
	}
	for i, id := range ids {
		if fields[i] != id {
			return false
		}
	}
	return true
}

// end returns the line index terminating a section that starts at start.
func end(lines []string, start int) int {
	for i := start + 1; i < len(lines); i++ {
		if IsTopLevel(lines[i]) {
			return i
		}
	}
	return len(lines)
}

// Locate scans the whole file for the section opened by keyword plus the
// exact identifier tuple. A second match for the same tuple is an error:
// the codec refuses to guess which entity the caller meant.
func Locate(lines []string, keyword string, ids []string) (Section, error) {
	found := -1
	for i, ln := range lines {
		if !matchAt(ln, keyword, ids) {
			continue
		}
		if found >= 0 {
			return Section{}, &ras.DuplicateEntityError{Keyword: keyword, IDs: ids, First: found, Second: i}
		}
		found = i
	}
	if found < 0 {
		return Section{}, &ras.EntityNotFoundError{Keyword: keyword, IDs: ids}
	}
	return Section{Keyword: keyword, IDs: ids, Start: found, End: end(lines, found)}, nil
}

// LocateFrom returns the first match at or after start. It exists for
// iterating several entities of the same kind and therefore skips the
// duplicate check Locate performs.
func LocateFrom(lines []string, keyword string, ids []string, start int) (Section, error) {
	for i := start; i < len(lines); i++ {
		if matchAt(lines[i], keyword, ids) {
			return Section{Keyword: keyword, IDs: ids, Start: i, End: end(lines, i)}, nil
		}
	}
	return Section{}, &ras.EntityNotFoundError{Keyword: keyword, IDs: ids}
}

// LocateNode finds a river node (cross section, bridge, inline weir, ...)
// by its reach and station. Nodes live under their "River Reach=" header,
// so the scan is two-level: find the reach, then match "Type RM Length L Ch
// R =" lines until the next reach, storage area or connection begins.
func LocateNode(lines []string, nodeType int, river, reach, station string) (Section, error) {
	hdr, err := Locate(lines, KeywordReach, []string{river, reach})
	if err != nil {
		return Section{}, err
	}
	typ := strconv.Itoa(nodeType)
	ids := []string{typ, station}
	found := -1
	for i := hdr.Start + 1; i < len(lines); i++ {
		ln := lines[i]
		if strings.HasPrefix(ln, KeywordReach) ||
			strings.HasPrefix(ln, KeywordStorageArea) ||
			strings.HasPrefix(ln, KeywordConnection) {
			break
		}
		if !matchAt(ln, KeywordNode, ids) {
			continue
		}
		if found >= 0 {
			return Section{}, &ras.DuplicateEntityError{
				Keyword: KeywordNode, IDs: []string{river, reach, station}, First: found, Second: i,
			}
		}
		found = i
	}
	if found < 0 {
		return Section{}, &ras.EntityNotFoundError{Keyword: KeywordNode, IDs: []string{river, reach, station}}
	}
	return Section{
		Keyword: KeywordNode,
		IDs:     []string{river, reach, station},
		Start:   found,
		End:     end(lines, found),
	}, nil
}

// Index lists every top-level section in file order. It feeds listing
// surfaces (CLI ls, the TUI browser); codecs use Locate instead.
func Index(lines []string) []Section {
	var out []Section
	for i, ln := range lines {
		for _, kw := range topLevel {
			if strings.HasPrefix(ln, kw) {
				out = append(out, Section{
					Keyword: kw,
					IDs:     SplitIDs(ln[len(kw):]),
					Start:   i,
					End:     end(lines, i),
				})
				break
			}
		}
	}
	return out
}
