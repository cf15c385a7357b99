package i18n

import (
	"fmt"
	"time"
)

var frenchMonths = [...]string{
	"janv.", "févr.", "mars", "avr.", "mai", "juin",
	"juil.", "août", "sept.", "oct.", "nov.", "déc.",
}

// FormatDate renders t the way the site shows dates in lang:
// en "Jan 02 2006", fr "02 janv. 2006", ja "2006/1/2".
func FormatDate(lang string, t time.Time) string {
	if t.IsZero() {
		return ""
	}
	switch lang {
	case "fr":
		return fmt.Sprintf("%02d %s %d", t.Day(), frenchMonths[t.Month()-1], t.Year())
	case "ja":
		return t.Format("2006/1/2")
	default:
		return t.Format("Jan 02 2006")
	}
}
