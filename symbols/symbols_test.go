package symbols

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveMatchesBestDocumentByReversedPathSegments(t *testing.T) {
	store := NewMemoryStore()
	store.Add(&Document{
		Path: "/build/src/Program.cs",
		Methods: []*MethodDebugInfo{
			{Token: 1, FirstLine: 1, LastLine: 20, Points: []SequencePoint{{ILOffset: 0, StartLine: 5}}},
		},
	})
	store.Add(&Document{
		Path: "/other/Other.cs",
		Methods: []*MethodDebugInfo{
			{Token: 2, FirstLine: 1, LastLine: 5, Points: []SequencePoint{{ILOffset: 0, StartLine: 2}}},
		},
	})

	loc, err := Resolve(store, `C:\work\src\Program.cs`, 5)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), loc.Method.Token)
}

func TestResolveSelectsInnermostMethod(t *testing.T) {
	store := NewMemoryStore()
	store.Add(&Document{
		Path: "Program.cs",
		Methods: []*MethodDebugInfo{
			{Token: 1, FirstLine: 1, LastLine: 100, Points: []SequencePoint{{ILOffset: 0, StartLine: 10}}},
			{Token: 2, FirstLine: 10, LastLine: 20, Points: []SequencePoint{{ILOffset: 0, StartLine: 10}}},
		},
	})

	loc, err := Resolve(store, "Program.cs", 15)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), loc.Method.Token)
}

func TestResolveSkipsHiddenSequencePoints(t *testing.T) {
	store := NewMemoryStore()
	store.Add(&Document{
		Path: "Program.cs",
		Methods: []*MethodDebugInfo{
			{Token: 1, FirstLine: 1, LastLine: 50, Points: []SequencePoint{
				{ILOffset: 0, StartLine: 10, Hidden: true},
				{ILOffset: 4, StartLine: 10},
			}},
		},
	})

	loc, err := Resolve(store, "Program.cs", 10)
	require.NoError(t, err)
	assert.Equal(t, 4, loc.ILOffset)
	assert.Equal(t, 10, loc.EffectiveLine)
}

func TestResolveNoDocumentMatch(t *testing.T) {
	store := NewMemoryStore()
	_, err := Resolve(store, "Program.cs", 1)
	assert.Error(t, err)
}

func TestLoadJSON(t *testing.T) {
	fixture := `{
		"documents": [
			{
				"path": "Program.cs",
				"methods": [
					{
						"token": 7,
						"firstLine": 1,
						"lastLine": 30,
						"points": [{"ilOffset": 0, "startLine": 4}],
						"locals": [{"slot": 0, "name": "x"}]
					}
				]
			}
		]
	}`

	store := NewMemoryStore()
	require.NoError(t, store.LoadJSON(strings.NewReader(fixture)))

	require.Len(t, store.Documents(), 1)
	m := store.Documents()[0].Methods[0]
	assert.Equal(t, uint32(7), m.Token)
	require.Len(t, m.Locals(), 1)
	assert.Equal(t, "x", m.Locals()[0].Name)
}
