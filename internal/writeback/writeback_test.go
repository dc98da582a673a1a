package writeback

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rasgeo/pkg/ras"
)

const sampleContent = `Geom Title=Example
River Reach=Ohio River      ,Reach 1
Type RM Length L Ch R = 1 ,1000    ,500,520,510
#Sta/Elev= 2
    0.00  100.00  300.00  100.00
Bank Sta=0,300
Type RM Length L Ch R = 1 ,900     ,480,500,490
`

func writeSample(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.g01")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestApplyEditReplacesOnlyTargetRange(t *testing.T) {
	path := writeSample(t, sampleContent)
	newLines := []string{
		"#Sta/Elev= 2",
		"    0.00  101.50  300.00  101.50",
	}
	if err := ApplyEdit(path, 3, 5, newLines); err != nil {
		t.Fatalf("ApplyEdit() error = %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := `Geom Title=Example
River Reach=Ohio River      ,Reach 1
Type RM Length L Ch R = 1 ,1000    ,500,520,510
#Sta/Elev= 2
    0.00  101.50  300.00  101.50
Bank Sta=0,300
Type RM Length L Ch R = 1 ,900     ,480,500,490
`
	if string(got) != want {
		t.Errorf("content =\n%q\nwant\n%q", got, want)
	}
}

func TestApplyEditWritesBackup(t *testing.T) {
	path := writeSample(t, sampleContent)
	if err := ApplyEdit(path, 3, 5, []string{"#Sta/Elev= 0"}); err != nil {
		t.Fatalf("ApplyEdit() error = %v", err)
	}
	bak, err := os.ReadFile(path + BackupSuffix)
	if err != nil {
		t.Fatalf("backup missing: %v", err)
	}
	if string(bak) != sampleContent {
		t.Errorf("backup =\n%q\nwant pre-edit content", bak)
	}
}

func TestApplyEditBackupSingleGeneration(t *testing.T) {
	path := writeSample(t, sampleContent)
	if err := ApplyEdit(path, 0, 1, []string{"Geom Title=First"}); err != nil {
		t.Fatal(err)
	}
	if err := ApplyEdit(path, 0, 1, []string{"Geom Title=Second"}); err != nil {
		t.Fatal(err)
	}
	bak, err := os.ReadFile(path + BackupSuffix)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(bak), "Geom Title=First\n") {
		t.Errorf("backup holds %q, want the immediately preceding generation", firstLine(string(bak)))
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func TestApplyEditNoBackup(t *testing.T) {
	path := writeSample(t, sampleContent)
	SetNoBackup(true)
	defer SetNoBackup(false)
	if err := ApplyEdit(path, 0, 1, []string{"Geom Title=Changed"}); err != nil {
		t.Fatalf("ApplyEdit() error = %v", err)
	}
	if _, err := os.Stat(path + BackupSuffix); !os.IsNotExist(err) {
		t.Errorf("backup written despite suppression, stat err = %v", err)
	}
}

func TestApplyEditNoTrailingNewline(t *testing.T) {
	content := strings.TrimSuffix(sampleContent, "\n")
	path := writeSample(t, content)
	if err := ApplyEdit(path, 3, 5, []string{"#Sta/Elev= 2", "    0.00  101.50  300.00  101.50"}); err != nil {
		t.Fatalf("ApplyEdit() error = %v", err)
	}
	got, _ := os.ReadFile(path)
	if strings.HasSuffix(string(got), "\n") {
		t.Error("trailing newline introduced on a file that had none")
	}
}

func TestApplyEditPreservesCRLF(t *testing.T) {
	content := strings.ReplaceAll(sampleContent, "\n", "\r\n")
	path := writeSample(t, content)
	if err := ApplyEdit(path, 3, 5, []string{"#Sta/Elev= 2", "    0.00  101.50  300.00  101.50"}); err != nil {
		t.Fatalf("ApplyEdit() error = %v", err)
	}
	got, _ := os.ReadFile(path)
	want := strings.ReplaceAll(`Geom Title=Example
River Reach=Ohio River      ,Reach 1
Type RM Length L Ch R = 1 ,1000    ,500,520,510
#Sta/Elev= 2
    0.00  101.50  300.00  101.50
Bank Sta=0,300
Type RM Length L Ch R = 1 ,900     ,480,500,490
`, "\n", "\r\n")
	if string(got) != want {
		t.Errorf("content =\n%q\nwant\n%q", got, want)
	}
}

func TestReadLinesStripsCR(t *testing.T) {
	content := strings.ReplaceAll(sampleContent, "\n", "\r\n")
	path := writeSample(t, content)
	lines, err := ReadLines(path)
	if err != nil {
		t.Fatalf("ReadLines() error = %v", err)
	}
	for i, ln := range lines {
		if strings.HasSuffix(ln, "\r") {
			t.Errorf("lines[%d] = %q retains CR", i, ln)
		}
	}
	if lines[5] != "Bank Sta=0,300" {
		t.Errorf("lines[5] = %q", lines[5])
	}
}

func TestWriteLinesCRLFRoundTrip(t *testing.T) {
	content := strings.ReplaceAll(sampleContent, "\n", "\r\n")
	path := writeSample(t, content)
	lines, err := ReadLines(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteLines(path, lines); err != nil {
		t.Fatalf("WriteLines() error = %v", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != content {
		t.Errorf("round trip changed content:\n%q", got)
	}
}

func TestApplyEditAtomicityUnderRenameFailure(t *testing.T) {
	path := writeSample(t, sampleContent)
	saved := renameFile
	renameFile = func(oldpath, newpath string) error {
		return errors.New("simulated rename failure")
	}
	defer func() { renameFile = saved }()

	err := ApplyEdit(path, 3, 5, []string{"#Sta/Elev= 0"})
	var ioErr *ras.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("ApplyEdit() error = %v, want IOError", err)
	}

	got, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if string(got) != sampleContent {
		t.Error("original content changed despite failed replace")
	}

	entries, readErr := os.ReadDir(filepath.Dir(path))
	if readErr != nil {
		t.Fatal(readErr)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("temp artifact %q left behind", e.Name())
		}
	}
}

func TestApplyEditMissingFile(t *testing.T) {
	err := ApplyEdit(filepath.Join(t.TempDir(), "absent.g01"), 0, 1, nil)
	var ioErr *ras.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("ApplyEdit() error = %v, want IOError", err)
	}
}

func TestReadLines(t *testing.T) {
	path := writeSample(t, sampleContent)
	lines, err := ReadLines(path)
	if err != nil {
		t.Fatalf("ReadLines() error = %v", err)
	}
	if len(lines) != 7 {
		t.Fatalf("len(lines) = %d, want 7", len(lines))
	}
	if lines[5] != "Bank Sta=0,300" {
		t.Errorf("lines[5] = %q", lines[5])
	}
}

func TestReplaceSpans(t *testing.T) {
	lines := []string{"a", "b", "c", "d", "e"}
	got := ReplaceSpans(lines, []Span{
		{Start: 1, End: 2, Lines: []string{"B1", "B2"}},
		{Start: 3, End: 5, Lines: []string{"D"}},
	})
	want := []string{"a", "B1", "B2", "c", "D"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("ReplaceSpans() = %v, want %v", got, want)
	}
}

func TestSortSpans(t *testing.T) {
	spans := []Span{
		{Start: 4, End: 5, Lines: []string{"E"}},
		{Start: 1, End: 2, Lines: []string{"B"}},
	}
	SortSpans(spans)
	got := ReplaceSpans([]string{"a", "b", "c", "d", "e"}, spans)
	want := []string{"a", "B", "c", "d", "E"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("ReplaceSpans() = %v, want %v", got, want)
	}
}

func TestWriteLinesRoundTrip(t *testing.T) {
	path := writeSample(t, sampleContent)
	lines, err := ReadLines(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteLines(path, lines); err != nil {
		t.Fatalf("WriteLines() error = %v", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != sampleContent {
		t.Errorf("round trip changed content:\n%q", got)
	}
}
