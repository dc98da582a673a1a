package section_test

import (
	"errors"
	"strings"
	"testing"

	"rasgeo/internal/section"
	"rasgeo/pkg/ras"
)

var sample = strings.Split(strings.TrimLeft(`
Geom Title=Example Model
Program Version=5.07
River Reach=Ohio River      ,Reach 1
Reach XY= 4
  215000  890000  215500  890100  216000  890200  216500  890300
Type RM Length L Ch R = 1 ,1000    ,500,520,510
#Sta/Elev= 2
    0.00  100.00  300.00  100.00
Bank Sta=0,300
Type RM Length L Ch R = 1 ,900     ,480,500,490
#Sta/Elev= 2
    0.00  101.00  300.00  101.00
Bank Sta=0,300
River Reach=Ohio River      ,Reach 2
Type RM Length L Ch R = 1 ,500     ,400,400,400
#Sta/Elev= 2
    0.00   99.00  300.00   99.00
Bank Sta=0,300
Storage Area=Lake Alpha      ,215800,890500
#Storage Elev Volume= 2
   95.00    0.00  100.00  504.20
`, "\n"), "\n")

func TestLocateReach(t *testing.T) {
	sec, err := section.Locate(sample, section.KeywordReach, []string{"Ohio River", "Reach 1"})
	if err != nil {
		t.Fatalf("Locate() error = %v", err)
	}
	if sec.Start != 2 {
		t.Errorf("Start = %d, want 2", sec.Start)
	}
	// The reach header section ends where its first node begins.
	if sec.End != 5 {
		t.Errorf("End = %d, want 5", sec.End)
	}
}

func TestLocateCaseSensitive(t *testing.T) {
	_, err := section.Locate(sample, section.KeywordReach, []string{"ohio river", "Reach 1"})
	var nf *ras.EntityNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Locate() error = %v, want EntityNotFoundError", err)
	}
	if nf.IDs[0] != "ohio river" {
		t.Errorf("IDs = %v, want verbatim identifiers", nf.IDs)
	}
}

func TestLocateNode(t *testing.T) {
	sec, err := section.LocateNode(sample, section.NodeCrossSection, "Ohio River", "Reach 1", "900")
	if err != nil {
		t.Fatalf("LocateNode() error = %v", err)
	}
	if sec.Start != 9 || sec.End != 13 {
		t.Errorf("range = [%d,%d), want [9,13)", sec.Start, sec.End)
	}
}

func TestLocateNodeScopedToReach(t *testing.T) {
	// Station 500 exists only in Reach 2; asking for it under Reach 1 fails.
	_, err := section.LocateNode(sample, section.NodeCrossSection, "Ohio River", "Reach 1", "500")
	var nf *ras.EntityNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("LocateNode() error = %v, want EntityNotFoundError", err)
	}
}

func TestLocateNodeTypeMismatch(t *testing.T) {
	_, err := section.LocateNode(sample, section.NodeBridge, "Ohio River", "Reach 1", "1000")
	var nf *ras.EntityNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("LocateNode() error = %v, want EntityNotFoundError", err)
	}
}

func TestLocateDuplicate(t *testing.T) {
	dup := append([]string{}, sample...)
	dup = append(dup, "Storage Area=Lake Alpha      ,1,2")
	_, err := section.Locate(dup, section.KeywordStorageArea, []string{"Lake Alpha"})
	var de *ras.DuplicateEntityError
	if !errors.As(err, &de) {
		t.Fatalf("Locate() error = %v, want DuplicateEntityError", err)
	}
	if de.First == de.Second {
		t.Errorf("First and Second both %d", de.First)
	}
}

func TestLocateFromIterates(t *testing.T) {
	first, err := section.LocateFrom(sample, section.KeywordNode, nil, 0)
	if err != nil {
		t.Fatalf("LocateFrom() error = %v", err)
	}
	second, err := section.LocateFrom(sample, section.KeywordNode, nil, first.Start+1)
	if err != nil {
		t.Fatalf("LocateFrom() error = %v", err)
	}
	if second.Start <= first.Start {
		t.Errorf("second.Start = %d, want > %d", second.Start, first.Start)
	}
}

func TestLocateStorageAreaPaddedName(t *testing.T) {
	sec, err := section.Locate(sample, section.KeywordStorageArea, []string{"Lake Alpha"})
	if err != nil {
		t.Fatalf("Locate() error = %v", err)
	}
	if sec.End != len(sample) {
		t.Errorf("End = %d, want EOF %d", sec.End, len(sample))
	}
}

func TestIndex(t *testing.T) {
	secs := section.Index(sample)
	var kws []string
	for _, s := range secs {
		kws = append(kws, s.Keyword)
	}
	want := []string{
		"Geom Title=",
		"Program Version=",
		section.KeywordReach,
		section.KeywordNode,
		section.KeywordNode,
		section.KeywordReach,
		section.KeywordNode,
		section.KeywordStorageArea,
	}
	if len(kws) != len(want) {
		t.Fatalf("Index() returned %d sections, want %d: %v", len(kws), len(want), kws)
	}
	for i := range want {
		if kws[i] != want[i] {
			t.Errorf("section %d keyword = %q, want %q", i, kws[i], want[i])
		}
	}
}
