package holidays

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTurkeyProviderForYear(t *testing.T) {
	provider := NewTurkeyProvider()

	entries := provider.ForYear(2025)
	require.Len(t, entries, 13)
	assert.Equal(t, "Yılbaşı", entries[0].Name)
	assert.Equal(t, "2025-01-01", entries[0].Date)
	assert.Equal(t, "Cumhuriyet Bayramı", entries[len(entries)-1].Name)

	for _, entry := range entries {
		assert.False(t, entry.Worked)
	}
}

func TestTurkeyProviderUnknownYear(t *testing.T) {
	provider := NewTurkeyProvider()

	entries := provider.ForYear(1999)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestTurkeyProviderYears(t *testing.T) {
	provider := NewTurkeyProvider()

	assert.Equal(t, []int{2022, 2023, 2024, 2025, 2026}, provider.Years())
}

func TestTurkeyProviderCopiesEntries(t *testing.T) {
	provider := NewTurkeyProvider()

	first := provider.ForYear(2024)
	first[0].Worked = true

	second := provider.ForYear(2024)
	assert.False(t, second[0].Worked)
}

func TestForCountryFallsBackToTurkey(t *testing.T) {
	assert.IsType(t, &TurkeyProvider{}, ForCountry("TR"))
	assert.IsType(t, &TurkeyProvider{}, ForCountry("XX"))
}
