// Package wavefront turns Wavefront OBJ and MTL text into a triangulated,
// normalized mesh grouped by material.
package wavefront

import (
	"strings"

	mgl "github.com/go-gl/mathgl/mgl32"
)

type (
	float = float32
	vec3  = mgl.Vec3
)

// Keyword is the directive that starts a line.
type Keyword int

const (
	KeywordUnknown Keyword = iota
	KeywordVertex
	KeywordNormal
	KeywordTexcoord
	KeywordFace
	KeywordUseMaterial
	KeywordMaterialLib
	KeywordNewMaterial
	KeywordAmbient
	KeywordDiffuse
	KeywordSpecular
	KeywordShininess
	KeywordRefraction
	KeywordDissolve
	KeywordTransparency
)

var keywords = map[string]Keyword{
	"v":      KeywordVertex,
	"vn":     KeywordNormal,
	"vt":     KeywordTexcoord,
	"f":      KeywordFace,
	"usemtl": KeywordUseMaterial,
	"mtllib": KeywordMaterialLib,
	"newmtl": KeywordNewMaterial,
	"Ka":     KeywordAmbient,
	"Kd":     KeywordDiffuse,
	"Ks":     KeywordSpecular,
	"Ns":     KeywordShininess,
	"Ni":     KeywordRefraction,
	"d":      KeywordDissolve,
	"Tr":     KeywordTransparency,
}

func (k Keyword) String() string {
	for name, kw := range keywords {
		if kw == k {
			return name
		}
	}
	return "unknown"
}

// Line is one non-blank source line split into whitespace separated fields.
// Fields excludes the directive itself.
type Line struct {
	Num     int
	Keyword Keyword
	Name    string
	Fields  []string
}

// Lines tokenizes text. Blank lines are dropped; line numbers stay 1-based
// relative to the input.
func Lines(text string) []Line {
	var lines []Line
	for i, raw := range strings.Split(text, "\n") {
		fields := strings.Fields(strings.TrimSuffix(raw, "\r"))
		if len(fields) == 0 || fields[0] == "" {
			continue
		}
		lines = append(lines, Line{
			Num:     i + 1,
			Keyword: keywords[fields[0]],
			Name:    fields[0],
			Fields:  fields[1:],
		})
	}
	return lines
}

// Rest returns the fields joined by a single space, used for names that may
// contain whitespace.
func (l Line) Rest() string {
	return strings.Join(l.Fields, " ")
}
