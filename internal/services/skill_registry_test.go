package services

import (
	"context"
	"testing"

	"teamwork/internal/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSkills(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty", raw: "", want: nil},
		{name: "only separators", raw: " , ,,", want: nil},
		{name: "case and whitespace", raw: "Python, python , PYTHON", want: []string{"python"}},
		{name: "keeps first appearance order", raw: "Go,SQL, go ,Docker", want: []string{"go", "sql", "docker"}},
		{name: "inner spaces kept", raw: "machine learning,  Machine Learning", want: []string{"machine learning"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSkills(tt.raw))
		})
	}
}

func TestSkillRegistry_RegisterAllIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	registry := NewSkillRegistry(store.Skills())

	first, err := registry.RegisterAll(ctx, NormalizeSkills("Python, python , PYTHON, Go"))
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, 2, store.SkillCount())

	second, err := registry.RegisterAll(ctx, []string{" GO ", "python", "go"})
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, 2, store.SkillCount())

	assert.Equal(t, first[1].ID, second[0].ID)
	assert.Equal(t, first[0].ID, second[1].ID)
	assert.Equal(t, "go", second[0].Tag)
}

func TestSkillRegistry_SkipsBlankTags(t *testing.T) {
	store := memstore.New()

	skills, err := NewSkillRegistry(store.Skills()).RegisterAll(context.Background(), []string{"", "  "})
	require.NoError(t, err)
	assert.Empty(t, skills)
	assert.Equal(t, 0, store.SkillCount())
}
