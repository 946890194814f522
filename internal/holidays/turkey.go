package holidays

import (
	"sort"

	"github.com/hrlab/worktime-api/internal/models"
)

// TurkeyProvider serves the official Turkish public holiday catalogue.
type TurkeyProvider struct {
	byYear map[int]models.HolidayList
}

// NewTurkeyProvider builds the provider over the built-in tables.
func NewTurkeyProvider() *TurkeyProvider {
	return &TurkeyProvider{byYear: turkeyHolidays}
}

// ForYear returns the official Turkish holidays of a year.
func (p *TurkeyProvider) ForYear(year int) models.HolidayList {
	entries, ok := p.byYear[year]
	if !ok {
		return models.HolidayList{}
	}
	out := make(models.HolidayList, len(entries))
	copy(out, entries)
	return out
}

// Years returns the catalogue years in ascending order.
func (p *TurkeyProvider) Years() []int {
	years := make([]int, 0, len(p.byYear))
	for year := range p.byYear {
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}

var turkeyHolidays = map[int]models.HolidayList{
	2022: {
		{Date: "2022-01-01", Name: "Yılbaşı"},
		{Date: "2022-05-02", Name: "Ramazan Bayramı 1. Gün"},
		{Date: "2022-05-03", Name: "Ramazan Bayramı 2. Gün"},
		{Date: "2022-05-04", Name: "Ramazan Bayramı 3. Gün"},
		{Date: "2022-04-23", Name: "Ulusal Egemenlik ve Çocuk Bayramı"},
		{Date: "2022-05-01", Name: "Emek ve Dayanışma Günü"},
		{Date: "2022-07-09", Name: "Kurban Bayramı 1. Gün"},
		{Date: "2022-07-10", Name: "Kurban Bayramı 2. Gün"},
		{Date: "2022-07-11", Name: "Kurban Bayramı 3. Gün"},
		{Date: "2022-07-12", Name: "Kurban Bayramı 4. Gün"},
		{Date: "2022-07-15", Name: "Demokrasi ve Milli Birlik Günü"},
		{Date: "2022-08-30", Name: "Zafer Bayramı"},
		{Date: "2022-10-29", Name: "Cumhuriyet Bayramı"},
	},
	2023: {
		{Date: "2023-01-01", Name: "Yılbaşı"},
		{Date: "2023-04-21", Name: "Ramazan Bayramı 1. Gün"},
		{Date: "2023-04-22", Name: "Ramazan Bayramı 2. Gün"},
		{Date: "2023-04-23", Name: "Ramazan Bayramı 3. Gün"},
		{Date: "2023-04-23", Name: "Ulusal Egemenlik ve Çocuk Bayramı"},
		{Date: "2023-05-01", Name: "Emek ve Dayanışma Günü"},
		{Date: "2023-06-28", Name: "Kurban Bayramı 1. Gün"},
		{Date: "2023-06-29", Name: "Kurban Bayramı 2. Gün"},
		{Date: "2023-06-30", Name: "Kurban Bayramı 3. Gün"},
		{Date: "2023-07-01", Name: "Kurban Bayramı 4. Gün"},
		{Date: "2023-07-15", Name: "Demokrasi ve Milli Birlik Günü"},
		{Date: "2023-08-30", Name: "Zafer Bayramı"},
		{Date: "2023-10-29", Name: "Cumhuriyet Bayramı 1. Gün"},
	},
	2024: {
		{Date: "2024-01-01", Name: "Yılbaşı"},
		{Date: "2024-04-10", Name: "Ramazan Bayramı 1. Gün"},
		{Date: "2024-04-11", Name: "Ramazan Bayramı 2. Gün"},
		{Date: "2024-04-12", Name: "Ramazan Bayramı 3. Gün"},
		{Date: "2024-04-23", Name: "Ulusal Egemenlik ve Çocuk Bayramı"},
		{Date: "2024-05-01", Name: "Emek ve Dayanışma Günü"},
		{Date: "2024-06-16", Name: "Kurban Bayramı 1. Gün"},
		{Date: "2024-06-17", Name: "Kurban Bayramı 2. Gün"},
		{Date: "2024-06-18", Name: "Kurban Bayramı 3. Gün"},
		{Date: "2024-06-19", Name: "Kurban Bayramı 4. Gün"},
		{Date: "2024-07-15", Name: "Demokrasi ve Milli Birlik Günü"},
		{Date: "2024-08-30", Name: "Zafer Bayramı"},
		{Date: "2024-10-29", Name: "Cumhuriyet Bayramı"},
	},
	2025: {
		{Date: "2025-01-01", Name: "Yılbaşı"},
		{Date: "2025-03-30", Name: "Ramazan Bayramı 1. Gün"},
		{Date: "2025-03-31", Name: "Ramazan Bayramı 2. Gün"},
		{Date: "2025-04-01", Name: "Ramazan Bayramı 3. Gün"},
		{Date: "2025-04-23", Name: "Ulusal Egemenlik ve Çocuk Bayramı"},
		{Date: "2025-05-01", Name: "Emek ve Dayanışma Günü"},
		{Date: "2025-06-06", Name: "Kurban Bayramı 1. Gün"},
		{Date: "2025-06-07", Name: "Kurban Bayramı 2. Gün"},
		{Date: "2025-06-08", Name: "Kurban Bayramı 3. Gün"},
		{Date: "2025-06-09", Name: "Kurban Bayramı 4. Gün"},
		{Date: "2025-07-15", Name: "Demokrasi ve Milli Birlik Günü"},
		{Date: "2025-08-30", Name: "Zafer Bayramı"},
		{Date: "2025-10-29", Name: "Cumhuriyet Bayramı"},
	},
	2026: {
		{Date: "2026-01-01", Name: "Yılbaşı"},
		{Date: "2026-03-20", Name: "Ramazan Bayramı 1. Gün"},
		{Date: "2026-03-21", Name: "Ramazan Bayramı 2. Gün"},
		{Date: "2026-03-22", Name: "Ramazan Bayramı 3. Gün"},
		{Date: "2026-04-23", Name: "Ulusal Egemenlik ve Çocuk Bayramı"},
		{Date: "2026-05-01", Name: "Emek ve Dayanışma Günü"},
		{Date: "2026-05-27", Name: "Kurban Bayramı 1. Gün"},
		{Date: "2026-05-28", Name: "Kurban Bayramı 2. Gün"},
		{Date: "2026-05-29", Name: "Kurban Bayramı 3. Gün"},
		{Date: "2026-05-30", Name: "Kurban Bayramı 4. Gün"},
		{Date: "2026-07-15", Name: "Demokrasi ve Milli Birlik Günü"},
		{Date: "2026-08-30", Name: "Zafer Bayramı"},
		{Date: "2026-10-29", Name: "Cumhuriyet Bayramı"},
	},
}
