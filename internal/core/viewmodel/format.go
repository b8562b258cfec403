package viewmodel

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MissingValue is rendered in place of an absent average or date.
const MissingValue = "-"

// displayDateLayout is the en-GB short date shown in tables.
const displayDateLayout = "2 Jan 2006"

var printer = message.NewPrinter(language.BritishEnglish)

// FormatInt renders n with en-GB digit grouping, e.g. 12,345.
func FormatInt(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatPercent renders v to one decimal place with a percent sign.
func FormatPercent(v float64) string {
	return FormatPercentPlaces(v, 1)
}

// FormatPercentPlaces renders v to the given number of decimal places,
// rounding half away from zero.
func FormatPercentPlaces(v float64, places int32) string {
	return RoundPercent(v, places) + "%"
}

// FormatAverage renders an optional average to two decimal places, or
// MissingValue when there is none.
func FormatAverage(v *float64) string {
	if v == nil {
		return MissingValue
	}
	return RoundAverage(*v).StringFixed(2)
}

// RoundAverage rounds v to two decimal places.
func RoundAverage(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// FormatDate renders an optional day, or MissingValue.
func FormatDate(t *time.Time) string {
	if t == nil {
		return MissingValue
	}
	return t.UTC().Format(displayDateLayout)
}

// RoundPercent rounds v to places decimal places and renders it without a
// percent sign.
func RoundPercent(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}
