package geometry

import "rasgeo/pkg/ras"

// GetXS is the historical name for GetStationElevation.
//
// Deprecated: use GetStationElevation.
func GetXS(path, river, reach, station string) (*ras.CrossSection, error) {
	return GetStationElevation(path, river, reach, station)
}

// SetXS is the historical name for SetStationElevation.
//
// Deprecated: use SetStationElevation.
func SetXS(path, river, reach, station string, pts []ras.Point, bankLeft, bankRight float64) error {
	return SetStationElevation(path, river, reach, station, pts, bankLeft, bankRight)
}
