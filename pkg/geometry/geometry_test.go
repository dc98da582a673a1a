package geometry_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"rasgeo/pkg/geometry"
	"rasgeo/pkg/ras"
)

const sampleGeom = `Geom Title=Facade
Program Version=5.07
River Reach=Ohio River      ,Reach 1
Type RM Length L Ch R = 1 ,1000    ,500,520,510
#Sta/Elev= 4
    0.00  100.00  100.00   95.00  200.00   95.00  300.00  100.00
#Mann= 3 , 0 , 0
    0.00    0.06    0.00  100.00    0.04    0.00  200.00    0.06    0.00
Bank Sta=100,200
Exp/Cntr=0.3,0.1
Storage Area=Lake Alpha      ,123.0,456.0
Storage Area Surface Line= 0
#Storage Elev Volume= 2
   95.00    0.00   98.00  120.50
`

func writeGeom(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.g01")
	if err := os.WriteFile(path, []byte(sampleGeom), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGetStationElevation(t *testing.T) {
	path := writeGeom(t)
	xs, err := geometry.GetStationElevation(path, "Ohio River", "Reach 1", "1000")
	if err != nil {
		t.Fatalf("GetStationElevation() error = %v", err)
	}
	want := []ras.Point{{Station: 0, Elevation: 100}, {Station: 100, Elevation: 95}, {Station: 200, Elevation: 95}, {Station: 300, Elevation: 100}}
	if !reflect.DeepEqual(xs.Points, want) {
		t.Errorf("Points = %v, want %v", xs.Points, want)
	}
}

func TestSetStationElevationRoundTrip(t *testing.T) {
	path := writeGeom(t)
	xs, err := geometry.GetStationElevation(path, "Ohio River", "Reach 1", "1000")
	if err != nil {
		t.Fatal(err)
	}
	if err := geometry.SetStationElevation(path, "Ohio River", "Reach 1", "1000", xs.Points, xs.BankLeft, xs.BankRight); err != nil {
		t.Fatalf("SetStationElevation() error = %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != sampleGeom {
		t.Errorf("unmodified write changed file:\n%s", got)
	}
}

func TestLegacyAliases(t *testing.T) {
	path := writeGeom(t)
	a, err := geometry.GetXS(path, "Ohio River", "Reach 1", "1000")
	if err != nil {
		t.Fatalf("GetXS() error = %v", err)
	}
	b, err := geometry.GetStationElevation(path, "Ohio River", "Reach 1", "1000")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("GetXS and GetStationElevation disagree")
	}
	if err := geometry.SetXS(path, "Ohio River", "Reach 1", "1000", a.Points, a.BankLeft, a.BankRight); err != nil {
		t.Fatalf("SetXS() error = %v", err)
	}
}

func TestGetStorageArea(t *testing.T) {
	path := writeGeom(t)
	sa, err := geometry.GetStorageArea(path, "Lake Alpha")
	if err != nil {
		t.Fatalf("GetStorageArea() error = %v", err)
	}
	want := []ras.VolumePoint{{Elevation: 95, Volume: 0}, {Elevation: 98, Volume: 120.5}}
	if !reflect.DeepEqual(sa.Curve, want) {
		t.Errorf("Curve = %v, want %v", sa.Curve, want)
	}
}

func TestList(t *testing.T) {
	path := writeGeom(t)
	entries, err := geometry.List(path)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	var keywords []string
	for _, e := range entries {
		keywords = append(keywords, e.Keyword)
	}
	want := []string{
		"Geom Title=",
		"Program Version=",
		"River Reach=",
		"Type RM Length L Ch R =",
		"Storage Area=",
	}
	if !reflect.DeepEqual(keywords, want) {
		t.Errorf("keywords = %v, want %v", keywords, want)
	}
	last := entries[len(entries)-1]
	if got := last.IDs[0]; got != "Lake Alpha" {
		t.Errorf("storage area ID = %q, want %q", got, "Lake Alpha")
	}
}
