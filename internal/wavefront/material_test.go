package wavefront

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMaterialsSingle(t *testing.T) {
	materials := ParseMaterials("newmtl Red\nKd 1 0 0\nNs 10")
	require.Len(t, materials, 1)

	red, ok := materials["Red"]
	require.True(t, ok)

	def := DefaultMaterial()
	assert.Equal(t, "Red", red.Name)
	assert.Equal(t, vec3{1, 0, 0}, red.Diffuse)
	assert.Equal(t, float(10), red.Shininess)
	assert.Equal(t, def.Ambient, red.Ambient)
	assert.Equal(t, def.Specular, red.Specular)
	assert.Equal(t, def.RefractionIndex, red.RefractionIndex)
	assert.Equal(t, def.Opacity, red.Opacity)
}

func TestParseMaterialsAllProperties(t *testing.T) {
	text := `
# exported
newmtl glass
Ka 0.1 0.2 0.3
Kd 0.4 0.5 0.6
Ks 0.7 0.8 0.9
Ns 96.5
Ni 1.33
d 0.25

newmtl tinted
Tr 0.75
`
	materials := ParseMaterials(text)
	require.Len(t, materials, 2)

	glass := materials["glass"]
	assert.Equal(t, vec3{0.1, 0.2, 0.3}, glass.Ambient)
	assert.Equal(t, vec3{0.4, 0.5, 0.6}, glass.Diffuse)
	assert.Equal(t, vec3{0.7, 0.8, 0.9}, glass.Specular)
	assert.Equal(t, float(96.5), glass.Shininess)
	assert.Equal(t, float(1.33), glass.RefractionIndex)
	assert.Equal(t, float(0.25), glass.Opacity)

	assert.InDelta(t, 0.25, materials["tinted"].Opacity, 1e-6)
}

func TestParseMaterialsLenient(t *testing.T) {
	text := `
Kd 1 1 1
Ns 5
newmtl a
Kd 1 0
Ks x y z
Ns
d abc
Ka 0 0 0
newmtl
Kd 0 0 1
`
	materials := ParseMaterials(text)
	require.Len(t, materials, 1)

	a := materials["a"]
	def := DefaultMaterial()
	assert.Equal(t, def.Diffuse, a.Diffuse)
	assert.Equal(t, def.Specular, a.Specular)
	assert.Equal(t, def.Shininess, a.Shininess)
	assert.Equal(t, def.Opacity, a.Opacity)
	assert.Equal(t, vec3{0, 0, 0}, a.Ambient)
}

func TestParseMaterialsRedefinition(t *testing.T) {
	materials := ParseMaterials("newmtl m\nKd 1 0 0\nnewmtl m\nNs 4")
	require.Len(t, materials, 1)
	assert.Equal(t, DefaultMaterial().Diffuse, materials["m"].Diffuse)
	assert.Equal(t, float(4), materials["m"].Shininess)
}

func TestParseMaterialsEmpty(t *testing.T) {
	assert.Empty(t, ParseMaterials(""))
}
