// Package countries resolves ISO 3166-1 alpha-2 country codes to English
// display names and flag emoji for dashboard rendering.
package countries

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var regionNamer = display.English.Regions()

// DisplayName returns the English name for a country code. Codes that do not
// resolve come back unchanged so callers can always render something.
func DisplayName(code string) string {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if len(normalized) != 2 {
		return code
	}
	region, err := language.ParseRegion(normalized)
	if err != nil {
		return code
	}
	name := regionNamer.Name(region)
	if name == "" {
		return code
	}
	return name
}

// Flag returns the regional-indicator flag emoji for a country code, or an
// empty string for codes that are not two letters.
func Flag(code string) string {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if len(normalized) != 2 {
		return ""
	}
	var flag []rune
	for _, c := range normalized {
		if c < 'A' || c > 'Z' {
			return ""
		}
		flag = append(flag, rune(0x1F1E6+(c-'A')))
	}
	return string(flag)
}
