package ras

import (
	"fmt"
	"strings"
)

// The error taxonomy below is deliberately small and closed: every failure a
// codec can produce maps onto one of these kinds, and all of them propagate
// to the caller unchanged. There are no retries and no best-effort writes; a
// failed validation always blocks the write.

// MalformedFieldError reports a fixed-width slot whose content could not be
// parsed as a number. Line is the 0-based index within the file, Slot the
// 0-based slot within the line.
type MalformedFieldError struct {
	Line int
	Slot int
	Raw  string
}

func (e *MalformedFieldError) Error() string {
	return fmt.Sprintf("malformed field %q at line %d slot %d", e.Raw, e.Line, e.Slot)
}

// EntityNotFoundError reports a section lookup that matched nothing.
// Identifiers are reported verbatim so the user can find the entity (or its
// absence) in the source file.
type EntityNotFoundError struct {
	Keyword string
	IDs     []string
}

func (e *EntityNotFoundError) Error() string {
	return fmt.Sprintf("entity not found: %s %s", e.Keyword, strings.Join(e.IDs, ","))
}

// DuplicateEntityError reports an ambiguous lookup: the same identifier
// tuple appears at two different lines. The codec never silently picks one.
type DuplicateEntityError struct {
	Keyword string
	IDs     []string
	First   int // line index of the first match
	Second  int // line index of the second match
}

func (e *DuplicateEntityError) Error() string {
	return fmt.Sprintf("duplicate entity %s %s at lines %d and %d",
		e.Keyword, strings.Join(e.IDs, ","), e.First, e.Second)
}

// PointLimitError reports a cross-section that would exceed MaxPoints after
// any required bank-station insertion. The caller must simplify the profile;
// the codec never truncates.
type PointLimitError struct {
	Count int
}

func (e *PointLimitError) Error() string {
	return fmt.Sprintf("cross section has %d points, limit is %d", e.Count, MaxPoints)
}

// StructureInconsistentError reports a structure-specific invariant
// violation, e.g. a pier station outside the deck extent. The write is
// refused; nothing is auto-corrected.
type StructureInconsistentError struct {
	Kind   StructureKind
	Detail string
}

func (e *StructureInconsistentError) Error() string {
	return fmt.Sprintf("%s geometry inconsistent: %s", e.Kind, e.Detail)
}

// IOError reports a failed backup or write step. The original file is
// guaranteed untouched when this is returned.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
