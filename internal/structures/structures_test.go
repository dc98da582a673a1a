package structures_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rasgeo/internal/structures"
	"rasgeo/pkg/ras"
)

// structGeom exercises every structure grammar: a bridge with piers, a
// culvert node, an inline weir with a gate group, a lateral weir without
// gates, two storage areas and a connection between them.
const structGeom = `Geom Title=Structures
Program Version=5.07
River Reach=Salt Creek      ,Lower
Type RM Length L Ch R = 1 ,1200    ,100,100,100
#Sta/Elev= 2
    0.00  100.00  300.00  100.00
Bank Sta=0,300
Type RM Length L Ch R = 3 ,950     ,0,0,0
Deck Dist Width WeirC Skew NumUp NumDn MinLoCord MaxHiCord MaxSubmerge Is_Ocean= 50,40,2.6,0,4,4,96,100,0.95,0
#Deck Sta= 4
    0.00  100.00   96.00  100.00  100.00   96.00  200.00  100.00   96.00
  300.00  100.00   96.00
#Deck Sta DS= 4
    0.00  100.00   96.00  100.00  100.00   96.00  200.00  100.00   96.00
  300.00  100.00   96.00
Pier Up Dn= 120 , 120
#Pier Elev Width= 2
   90.00    2.00   96.00    2.00
Pier Up Dn= 180 , 180
#Pier Elev Width= 2
   90.00    2.00   96.00    2.00
BR Coef=2,1,1.2,2.6,1,0.9
Type RM Length L Ch R = 2 ,800     ,0,0,0
Culvert= 1 ,4,4,60,0.013,0.5,1,1,1,95.5,95.1,2,Twin Pipes,140,160
Type RM Length L Ch R = 5 ,600     ,0,0,0
IW Dist,WD,Coef,Skew,MaxSub,Min El,Is_Ocean,SpillHt,DesHd= 10,30,2.6,0,0.95,,0,,
#Inline Weir SE= 3
    0.00   98.00  150.00   97.50  300.00   98.00
IW Gate Name=Main Gate
IW Gate Geom= 10,8,92.5,0.8,2
#IW Gate Sta= 2
  120.00  180.00
Type RM Length L Ch R = 6 ,400     ,0,0,0
Lateral Weir Dist,WD,Coef,Skew= 25,2,2,0
#Lateral Weir SE= 2
    0.00   99.00  200.00   99.00
Storage Area=Lake Alpha      ,215800,890500
Storage Area Type= 1
#Storage Elev Volume= 3
   95.00    0.00   98.00  120.50  100.00  504.20
Storage Area=Lake Beta       ,216000,890800
Storage Area Type= 1
#Storage Elev Volume= 2
   95.00    0.00  100.00  300.00
Connection=Alpha-Beta      ,215900,890600
Connection Up SA=Lake Alpha
Connection Dn SA=Lake Beta
Conn Weir WD,Coef,Skew= 10,2.6,0
#Conn Weir SE= 2
    0.00   96.00   50.00   96.00
`

func geomLines() []string {
	return strings.Split(strings.TrimSuffix(structGeom, "\n"), "\n")
}

func writeStructGeom(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.g01")
	if err := os.WriteFile(path, []byte(structGeom), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGetCulvert(t *testing.T) {
	path := writeStructGeom(t)
	c, err := structures.GetCulvert(path, "Salt Creek", "Lower", "800", "Twin Pipes")
	if err != nil {
		t.Fatalf("GetCulvert() error = %v", err)
	}
	if c.Shape != ras.ShapeCircular {
		t.Errorf("Shape = %v, want circular", c.Shape)
	}
	if c.Rise != 4 || c.Span != 4 || c.Length != 60 {
		t.Errorf("dimensions = %v,%v,%v", c.Rise, c.Span, c.Length)
	}
	if c.N != 0.013 || c.Barrels != 2 {
		t.Errorf("n = %v barrels = %d", c.N, c.Barrels)
	}
	if len(c.CenterStations) != 2 || c.CenterStations[0] != 140 {
		t.Errorf("CenterStations = %v", c.CenterStations)
	}
}

func TestSetCulvertUnmodifiedIsByteIdentical(t *testing.T) {
	path := writeStructGeom(t)
	c, err := structures.GetCulvert(path, "Salt Creek", "Lower", "800", "Twin Pipes")
	if err != nil {
		t.Fatal(err)
	}
	if err := structures.SetCulvert(path, "Salt Creek", "Lower", "800", c); err != nil {
		t.Fatalf("SetCulvert() error = %v", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != structGeom {
		t.Error("unmodified culvert write changed the file")
	}
}

func TestSetCulvertChangesShapeCode(t *testing.T) {
	path := writeStructGeom(t)
	c, err := structures.GetCulvert(path, "Salt Creek", "Lower", "800", "Twin Pipes")
	if err != nil {
		t.Fatal(err)
	}
	c.Shape = ras.ShapeBox
	if err := structures.SetCulvert(path, "Salt Creek", "Lower", "800", c); err != nil {
		t.Fatalf("SetCulvert() error = %v", err)
	}
	got, _ := os.ReadFile(path)
	if !strings.Contains(string(got), "Culvert= 2 ,4,4,60,") {
		t.Errorf("shape code not rewritten:\n%s", got)
	}
}

func TestSetCulvertRejectsBadShape(t *testing.T) {
	path := writeStructGeom(t)
	c := &ras.Culvert{Name: "Twin Pipes", Shape: 12}
	err := structures.SetCulvert(path, "Salt Creek", "Lower", "800", c)
	var si *ras.StructureInconsistentError
	if !errors.As(err, &si) {
		t.Fatalf("SetCulvert() error = %v, want StructureInconsistentError", err)
	}
}

func TestCulvertShapeEnum(t *testing.T) {
	if ras.ShapeCircular != 1 || ras.ShapeConSpan != 9 {
		t.Errorf("shape codes shifted: circular=%d conspan=%d", ras.ShapeCircular, ras.ShapeConSpan)
	}
	if ras.ShapeBox.String() != "box" {
		t.Errorf("ShapeBox.String() = %q", ras.ShapeBox.String())
	}
	if ras.CulvertShape(0).Valid() || ras.CulvertShape(10).Valid() {
		t.Error("out-of-range shape codes reported valid")
	}
}

func TestReadStorageArea(t *testing.T) {
	sa, _, err := structures.ReadStorageArea(geomLines(), "Lake Alpha")
	if err != nil {
		t.Fatalf("ReadStorageArea() error = %v", err)
	}
	if len(sa.Curve) != 3 {
		t.Fatalf("len(Curve) = %d, want 3", len(sa.Curve))
	}
	if sa.Curve[1].Elevation != 98 || sa.Curve[1].Volume != 120.5 {
		t.Errorf("Curve[1] = %v", sa.Curve[1])
	}
}

func TestStorageAreaCaseSensitive(t *testing.T) {
	_, _, err := structures.ReadStorageArea(geomLines(), "lake alpha")
	var nf *ras.EntityNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("ReadStorageArea() error = %v, want EntityNotFoundError", err)
	}
}

func TestSetStorageAreaRoundTrip(t *testing.T) {
	path := writeStructGeom(t)
	sa, err := structures.GetStorageArea(path, "Lake Alpha")
	if err != nil {
		t.Fatal(err)
	}
	if err := structures.SetStorageArea(path, "Lake Alpha", sa.Curve); err != nil {
		t.Fatalf("SetStorageArea() error = %v", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != structGeom {
		t.Error("unmodified storage write changed the file")
	}
}

func TestSetStorageAreaRewritesCurve(t *testing.T) {
	path := writeStructGeom(t)
	curve := []ras.VolumePoint{{Elevation: 95, Volume: 0}, {Elevation: 98, Volume: 130}, {Elevation: 100, Volume: 520}, {Elevation: 102, Volume: 800}}
	if err := structures.SetStorageArea(path, "Lake Alpha", curve); err != nil {
		t.Fatalf("SetStorageArea() error = %v", err)
	}
	sa, err := structures.GetStorageArea(path, "Lake Alpha")
	if err != nil {
		t.Fatal(err)
	}
	if len(sa.Curve) != 4 || sa.Curve[3].Volume != 800 {
		t.Errorf("Curve = %v", sa.Curve)
	}
	// The neighbouring storage area must be untouched.
	beta, err := structures.GetStorageArea(path, "Lake Beta")
	if err != nil {
		t.Fatal(err)
	}
	if len(beta.Curve) != 2 || beta.Curve[1].Volume != 300 {
		t.Errorf("Lake Beta curve = %v", beta.Curve)
	}
}

func TestSetStorageAreaRejectsDecreasingElevations(t *testing.T) {
	path := writeStructGeom(t)
	err := structures.SetStorageArea(path, "Lake Alpha", []ras.VolumePoint{{Elevation: 100, Volume: 0}, {Elevation: 95, Volume: 10}})
	var si *ras.StructureInconsistentError
	if !errors.As(err, &si) {
		t.Fatalf("SetStorageArea() error = %v, want StructureInconsistentError", err)
	}
}
