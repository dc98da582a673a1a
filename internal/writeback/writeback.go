package writeback

import (
	"os"
	"path/filepath"
	"strings"

	"rasgeo/pkg/ras"
)

// BackupSuffix is appended to the source path for the single-generation
// backup written before every edit.
const BackupSuffix = ".bak"

// renameFile is swapped out by tests to simulate a failure of the final
// atomic-replace step.
var renameFile = os.Rename

// noBackup suppresses the pre-edit backup copy. Off by default; toggled
// from configuration by the command-line layer.
var noBackup bool

// SetNoBackup controls whether edits write a .bak sibling first.
func SetNoBackup(v bool) { noBackup = v }

// ReadLines reads the whole file and splits it into lines without line
// terminators; CR of a CRLF pair is stripped along with the LF, so callers
// match and slice the same strings regardless of the file's convention. The
// write pipeline restores the original terminators. Each call reads fresh;
// nothing is cached.
func ReadLines(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &ras.IOError{Op: "read", Path: path, Err: err}
	}
	s := string(b)
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil, nil
	}
	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimSuffix(ln, "\r")
	}
	return lines, nil
}

// Span is an in-memory line-range replacement: lines [Start, End) of the
// original slice are replaced by Lines. Indexes refer to the original.
type Span struct {
	Start int
	End   int
	Lines []string
}

// SortSpans orders spans by Start, as ReplaceSpans requires. Codecs build
// spans in grammar order, which need not be file order.
func SortSpans(spans []Span) {
	for i := 1; i < len(spans); i++ {
		for j := i; j > 0 && spans[j].Start < spans[j-1].Start; j-- {
			spans[j], spans[j-1] = spans[j-1], spans[j]
		}
	}
}

// ReplaceSpans applies non-overlapping spans (sorted by Start) to a line
// slice, passing every untouched line through intact. It backs the codecs'
// pass-through discipline: only the blocks a codec models are regenerated,
// everything else keeps its original bytes.
func ReplaceSpans(lines []string, spans []Span) []string {
	out := make([]string, 0, len(lines))
	cur := 0
	for _, sp := range spans {
		out = append(out, lines[cur:sp.Start]...)
		out = append(out, sp.Lines...)
		cur = sp.End
	}
	out = append(out, lines[cur:]...)
	return out
}

// ApplyEdit replaces lines [start, end) of the file at path with newLines.
//
// The sequence is: copy the original to path+".bak" (overwriting any prior
// backup), build the spliced content, write it to a temp file in the same
// directory, then rename over the original. Any failure leaves the original
// file untouched and removes the temp file.
func ApplyEdit(path string, start, end int, newLines []string) error {
	orig, err := os.ReadFile(path)
	if err != nil {
		return &ras.IOError{Op: "read", Path: path, Err: err}
	}

	if err := writeBackup(path, orig); err != nil {
		return err
	}

	rw := NewScannerRewriter(orig)
	if err := rw.ReplaceLines(start, end, newLines); err != nil {
		return &ras.IOError{Op: "splice", Path: path, Err: err}
	}
	if err := rw.CopyRemainingLines(); err != nil {
		return &ras.IOError{Op: "splice", Path: path, Err: err}
	}

	return writeAtomic(path, rw.Bytes())
}

// WriteLines writes a full line slice through the same backup-then-atomic
// discipline as ApplyEdit. The original file's line terminator convention
// and trailing-newline state are preserved.
func WriteLines(path string, lines []string) error {
	orig, err := os.ReadFile(path)
	if err != nil {
		return &ras.IOError{Op: "read", Path: path, Err: err}
	}
	if err := writeBackup(path, orig); err != nil {
		return err
	}
	sep := string(detectNewline(orig))
	content := strings.Join(lines, sep)
	if len(orig) == 0 || orig[len(orig)-1] == '\n' {
		content += sep
	}
	return writeAtomic(path, []byte(content))
}

// writeBackup copies the original content to path+".bak", overwriting any
// prior backup. Only one generation is ever kept.
func writeBackup(path string, orig []byte) error {
	if noBackup {
		return nil
	}
	if err := os.WriteFile(path+BackupSuffix, orig, 0644); err != nil {
		return &ras.IOError{Op: "backup", Path: path + BackupSuffix, Err: err}
	}
	return nil
}

// writeAtomic writes data to a temp file next to path and renames it over
// the original. The temp file is removed on every failure path.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return &ras.IOError{Op: "create temp", Path: dir, Err: err}
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &ras.IOError{Op: "write temp", Path: tmpPath, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &ras.IOError{Op: "sync temp", Path: tmpPath, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &ras.IOError{Op: "close temp", Path: tmpPath, Err: err}
	}
	if err := renameFile(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &ras.IOError{Op: "replace", Path: path, Err: err}
	}
	return nil
}
