// Package writeback replaces a line range of a geometry file on disk while
// leaving every other byte untouched. The discipline is backup first, then
// splice, then atomic replace: write to a temp file in the same directory
// and rename over the original, so an interrupted process never leaves a
// partially written geometry file behind.
//
// The package holds no locks. Concurrent writes to the same path must be
// serialized by the caller; concurrent reads are always safe because every
// call reads the file fresh.
package writeback

import (
	"bufio"
	"bytes"
)

// LineRewriter copies and replaces file content at whole-line granularity.
type LineRewriter interface {
	// CopyLinesUntil writes original lines [0, lineIndex) to the output,
	// positioning the cursor at lineIndex.
	CopyLinesUntil(lineIndex int) error

	// ReplaceLines replaces original lines [startLine, endLine) with
	// newLines and leaves the cursor at endLine.
	ReplaceLines(startLine, endLine int, newLines []string) error

	// CopyRemainingLines writes all original lines from the cursor to EOF.
	CopyRemainingLines() error

	// Bytes returns the rewritten content.
	Bytes() []byte
}

// ScannerRewriter implements LineRewriter over a single in-memory pass of
// the original content.
type ScannerRewriter struct {
	scanner      *bufio.Scanner
	output       bytes.Buffer
	lineNo       int
	finished     bool
	finalNewline bool   // original content ended with a newline
	newline      []byte // the file's line terminator, "\r\n" or "\n"
}

// NewScannerRewriter constructs a ScannerRewriter over the full original
// file content. The original's line terminator convention (geometry files
// from Windows installs are CRLF) is detected once and re-emitted for every
// line, so a single-section edit never rewrites the rest of the file.
func NewScannerRewriter(content []byte) *ScannerRewriter {
	sc := bufio.NewScanner(bytes.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<22)
	return &ScannerRewriter{
		scanner:      sc,
		finalNewline: len(content) == 0 || content[len(content)-1] == '\n',
		newline:      detectNewline(content),
	}
}

// detectNewline returns the line terminator used by content.
func detectNewline(content []byte) []byte {
	if bytes.Contains(content, []byte("\r\n")) {
		return []byte("\r\n")
	}
	return []byte("\n")
}

// CopyLinesUntil writes original lines [0, lineIndex) to the output.
func (rw *ScannerRewriter) CopyLinesUntil(lineIndex int) error {
	for rw.lineNo < lineIndex {
		if !rw.scanner.Scan() {
			rw.finished = true
			return rw.scanner.Err()
		}
		rw.output.Write(rw.scanner.Bytes())
		rw.output.Write(rw.newline)
		rw.lineNo++
	}
	return rw.scanner.Err()
}

// ReplaceLines replaces original lines [startLine, endLine) with newLines.
func (rw *ScannerRewriter) ReplaceLines(startLine, endLine int, newLines []string) error {
	if err := rw.CopyLinesUntil(startLine); err != nil {
		return err
	}
	for rw.lineNo < endLine {
		if !rw.scanner.Scan() {
			rw.finished = true
			break
		}
		rw.lineNo++
	}
	for _, nl := range newLines {
		rw.output.WriteString(nl)
		rw.output.Write(rw.newline)
	}
	if err := rw.scanner.Err(); err != nil {
		return err
	}
	return nil
}

// CopyRemainingLines writes all original lines from the cursor through EOF.
func (rw *ScannerRewriter) CopyRemainingLines() error {
	if rw.finished {
		return nil
	}
	for rw.scanner.Scan() {
		rw.output.Write(rw.scanner.Bytes())
		rw.output.Write(rw.newline)
		rw.lineNo++
	}
	rw.finished = true
	return rw.scanner.Err()
}

// Bytes returns the rewritten content, restoring the original file's
// trailing-newline state.
func (rw *ScannerRewriter) Bytes() []byte {
	b := rw.output.Bytes()
	if !rw.finalNewline {
		b = bytes.TrimSuffix(b, rw.newline)
	}
	return b
}

var _ LineRewriter = (*ScannerRewriter)(nil)
