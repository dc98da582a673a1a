package structures

import (
	"errors"

	"rasgeo/internal/section"
	"rasgeo/internal/writeback"
	"rasgeo/pkg/ras"
)

// locateCulvertNode finds the node that can carry culvert barrels: a
// dedicated culvert node first, else a bridge node at the same station
// (bridges may carry culvert barrels through their embankment).
func locateCulvertNode(lines []string, river, reach, station string) (section.Section, error) {
	sec, err := section.LocateNode(lines, section.NodeCulvert, river, reach, station)
	if err == nil {
		return sec, nil
	}
	var nf *ras.EntityNotFoundError
	if !errors.As(err, &nf) {
		return section.Section{}, err
	}
	return section.LocateNode(lines, section.NodeBridge, river, reach, station)
}

// ReadCulverts decodes every culvert barrel group at the node.
func ReadCulverts(lines []string, river, reach, station string) ([]ras.Culvert, section.Section, error) {
	sec, err := locateCulvertNode(lines, river, reach, station)
	if err != nil {
		return nil, section.Section{}, err
	}
	cs, _, err := decodeCulverts(lines, sec.Start+1, sec.End)
	if err != nil {
		return nil, section.Section{}, err
	}
	return cs, sec, nil
}

// GetCulvert reads the named barrel group at (river, reach, station).
func GetCulvert(path, river, reach, station, name string) (*ras.Culvert, error) {
	lines, err := writeback.ReadLines(path)
	if err != nil {
		return nil, err
	}
	cs, _, err := ReadCulverts(lines, river, reach, station)
	if err != nil {
		return nil, err
	}
	for i := range cs {
		if cs[i].Name == name {
			return &cs[i], nil
		}
	}
	return nil, &ras.EntityNotFoundError{Keyword: culvertKeyword, IDs: []string{river, reach, station, name}}
}

// SetCulvert rewrites the record of the barrel group whose name matches
// c.Name. The shape code must be one of the nine defined barrels.
func SetCulvert(path, river, reach, station string, c *ras.Culvert) error {
	if !c.Shape.Valid() {
		return &ras.StructureInconsistentError{
			Kind:   ras.KindCulvertNode,
			Detail: "culvert shape code " + c.Shape.String() + " not in 1..9",
		}
	}
	lines, err := writeback.ReadLines(path)
	if err != nil {
		return err
	}
	sec, err := locateCulvertNode(lines, river, reach, station)
	if err != nil {
		return err
	}
	cs, at, err := decodeCulverts(lines, sec.Start+1, sec.End)
	if err != nil {
		return err
	}
	for i := range cs {
		if cs[i].Name != c.Name {
			continue
		}
		return writeback.ApplyEdit(path, at[i], at[i]+1, []string{encodeCulvertRecord(*c)})
	}
	return &ras.EntityNotFoundError{Keyword: culvertKeyword, IDs: []string{river, reach, station, c.Name}}
}
