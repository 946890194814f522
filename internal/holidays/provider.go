package holidays

import "github.com/hrlab/worktime-api/internal/models"

// Provider exposes the official holiday catalogue for a country.
type Provider interface {
	// ForYear returns the official holidays of a year, oldest first.
	// Years outside the catalogue yield an empty list.
	ForYear(year int) models.HolidayList
	// Years returns the years covered by the catalogue in ascending order.
	Years() []int
}

// ForCountry resolves a provider by ISO country code. Only the Turkish
// catalogue ships today; unknown codes fall back to it.
func ForCountry(code string) Provider {
	return NewTurkeyProvider()
}
