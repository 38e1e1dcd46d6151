package wavefront

import (
	"strconv"
)

// Material is the subset of an MTL record used for shading.
type Material struct {
	Name            string
	Ambient         vec3
	Diffuse         vec3
	Specular        vec3
	Shininess       float
	RefractionIndex float
	Opacity         float
}

// MaterialMap maps a material name to its record.
type MaterialMap map[string]Material

// DefaultMaterial is used for new MTL records and for groups whose material
// was never defined.
func DefaultMaterial() Material {
	return Material{
		Ambient:         vec3{1, 1, 1},
		Diffuse:         vec3{0.8, 0.8, 0.8},
		Specular:        vec3{0.5, 0.5, 0.5},
		Shininess:       32,
		RefractionIndex: 1.5,
		Opacity:         1,
	}
}

// ParseMaterials reads MTL text. It never fails: property lines with missing
// or unparsable fields, and properties seen before any newmtl, are skipped.
func ParseMaterials(text string) MaterialMap {
	var current *Material
	records := map[string]*Material{}

	for _, l := range Lines(text) {
		if l.Keyword == KeywordNewMaterial {
			name := l.Rest()
			if name == "" {
				current = nil
				continue
			}
			m := DefaultMaterial()
			m.Name = name
			records[name] = &m
			current = &m
			continue
		}

		if current == nil {
			continue
		}

		switch l.Keyword {
		case KeywordAmbient:
			if c, ok := parseColor(l.Fields); ok {
				current.Ambient = c
			}
		case KeywordDiffuse:
			if c, ok := parseColor(l.Fields); ok {
				current.Diffuse = c
			}
		case KeywordSpecular:
			if c, ok := parseColor(l.Fields); ok {
				current.Specular = c
			}
		case KeywordShininess:
			if f, ok := parseScalar(l.Fields); ok {
				current.Shininess = f
			}
		case KeywordRefraction:
			if f, ok := parseScalar(l.Fields); ok {
				current.RefractionIndex = f
			}
		case KeywordDissolve:
			if f, ok := parseScalar(l.Fields); ok {
				current.Opacity = f
			}
		case KeywordTransparency:
			if f, ok := parseScalar(l.Fields); ok {
				current.Opacity = 1 - f
			}
		}
	}

	materials := make(MaterialMap, len(records))
	for name, m := range records {
		materials[name] = *m
	}
	return materials
}

func parseColor(fields []string) (vec3, bool) {
	if len(fields) < 3 {
		return vec3{}, false
	}
	var c vec3
	for i := range 3 {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return vec3{}, false
		}
		c[i] = float(f)
	}
	return c, true
}

func parseScalar(fields []string) (float, bool) {
	if len(fields) < 1 {
		return 0, false
	}
	f, err := strconv.ParseFloat(fields[0], 32)
	if err != nil {
		return 0, false
	}
	return float(f), true
}
