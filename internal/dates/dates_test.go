package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		value string
		order FieldOrder
		want  string
	}{
		{"2025-07-15", YearMonthDay, "2025-07-15"},
		{"2025/7/5", YearMonthDay, "2025-07-05"},
		{"20250715", YearMonthDay, "2025-07-15"},
		{"25.07.15", ShortYearMonthDay, "2025-07-15"},
		{"250715", ShortYearMonthDay, "2025-07-15"},
		{"07/15/2025", MonthDayYear, "2025-07-15"},
		{"7/15'25", MonthDayYear, "2025-07-15"},
		{"07152025", MonthDayYear, "2025-07-15"},
		{"07-15-25", MonthDayShortYear, "2025-07-15"},
		{"15/07/2025", DayMonthYear, "2025-07-15"},
		{"15.07.25", DayMonthShortYear, "2025-07-15"},
		{"15 Jul 2025", DayMonthYear, "2025-07-15"},
		{"Jul. 15, 2025", MonthDayYear, "2025-07-15"},
		{"September 3 2024", MonthDayYear, "2024-09-03"},
		{"3-sept-24", DayMonthShortYear, "2024-09-03"},
		{"2024-02-29 10:30:00", YearMonthDay, "2024-02-29"},
		{"20250715 120000", YearMonthDay, "2025-07-15"},
		{"20250715T1200", YearMonthDay, "2025-07-15"},
		{"07152025 0930", MonthDayYear, "2025-07-15"},
		{"15072025 0930", DayMonthYear, "2025-07-15"},
		{"250715 1200", ShortYearMonthDay, "2025-07-15"},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, ok := Parse(tt.value, tt.order)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		value string
		order FieldOrder
	}{
		{"", YearMonthDay},
		{"not a date", DayMonthYear},
		{"2025-02-30", YearMonthDay},
		{"2023-02-29", YearMonthDay},
		{"15/07/2025", MonthDayYear},
		{"2025-13-01", YearMonthDay},
		{"2025-00-10", YearMonthDay},
		{"12345", YearMonthDay},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			_, ok := Parse(tt.value, tt.order)
			assert.False(t, ok)
		})
	}
}

func render(d time.Time, order FieldOrder) string {
	switch order {
	case YearMonthDay:
		return d.Format("2006/01/02")
	case ShortYearMonthDay:
		return d.Format("06.01.02")
	case MonthDayYear:
		return d.Format("01/02/2006")
	case MonthDayShortYear:
		return d.Format("01-02-06")
	case DayMonthYear:
		return d.Format("02.01.2006")
	default:
		return d.Format("02/01/06")
	}
}

func TestParse_RoundTrip(t *testing.T) {
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	for d := start; d.Year() < 2030; d = d.AddDate(0, 0, 17) {
		want := d.Format(isoLayout)
		for _, order := range Orders {
			got, ok := Parse(render(d, order), order)
			require.True(t, ok, "%s as %s", want, order)
			require.Equal(t, want, got, "order %s", order)
		}
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		sample string
		want   FieldOrder
	}{
		{"2025-07-15", YearMonthDay},
		{"07/15/2025", MonthDayYear},
		{"15/07/2025", DayMonthYear},
		{"01/02/2025", MonthDayYear},
		{"15 Jul 2025", DayMonthYear},
	}
	for _, tt := range tests {
		t.Run(tt.sample, func(t *testing.T) {
			got, ok := DetectFormat(tt.sample)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormat_NoMatch(t *testing.T) {
	_, ok := DetectFormat("Whole Foods")
	assert.False(t, ok)
}

func TestParseFieldOrder(t *testing.T) {
	o, err := ParseFieldOrder("dd mm yyyy")
	require.NoError(t, err)
	assert.Equal(t, DayMonthYear, o)

	_, err = ParseFieldOrder("yyyy-mm-dd")
	assert.Error(t, err)
}
