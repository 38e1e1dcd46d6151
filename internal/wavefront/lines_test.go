package wavefront

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLines(t *testing.T) {
	text := "# comment\r\nv 1 2 3\r\n\n   \nf 1/1 2/2 3/3\nusemtl  Red Paint \nfoo bar\n\tKd 1 0 0"

	lines := Lines(text)
	require.Len(t, lines, 6)

	want := []struct {
		num     int
		keyword Keyword
		fields  []string
	}{
		{1, KeywordUnknown, []string{"comment"}},
		{2, KeywordVertex, []string{"1", "2", "3"}},
		{5, KeywordFace, []string{"1/1", "2/2", "3/3"}},
		{6, KeywordUseMaterial, []string{"Red", "Paint"}},
		{7, KeywordUnknown, []string{"bar"}},
		{8, KeywordDiffuse, []string{"1", "0", "0"}},
	}
	for i, w := range want {
		assert.Equal(t, w.num, lines[i].Num, "line %d", i)
		assert.Equal(t, w.keyword, lines[i].Keyword, "line %d", i)
		assert.Equal(t, w.fields, lines[i].Fields, "line %d", i)
	}
	assert.Equal(t, "Red Paint", lines[3].Rest())
	assert.Equal(t, "#", lines[0].Name)
}

func TestLinesEmpty(t *testing.T) {
	assert.Empty(t, Lines(""))
	assert.Empty(t, Lines("\n\r\n \t \n"))
}

func TestKeywordString(t *testing.T) {
	assert.Equal(t, "usemtl", KeywordUseMaterial.String())
	assert.Equal(t, "Ns", KeywordShininess.String())
	assert.Equal(t, "unknown", KeywordUnknown.String())
}
