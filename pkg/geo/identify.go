// Package geo holds the static country lookup tables used to narrow searches
// and to split free-form "City, Country" input.
package geo

import (
	"strings"
)

var countries = []string{
	"Afghanistan", "Albania", "Algeria", "Andorra", "Angola", "Antigua and Barbuda", "Argentina", "Armenia", "Australia", "Austria", "Azerbaijan",
	"Bahamas", "Bahrain", "Bangladesh", "Barbados", "Belarus", "Belgium", "Belize", "Benin", "Bhutan", "Bolivia", "Bosnia and Herzegovina", "Botswana", "Brazil", "Brunei", "Bulgaria", "Burkina Faso", "Burundi",
	"Cambodia", "Cameroon", "Canada", "Chile", "China", "Colombia", "Costa Rica", "Croatia", "Cuba", "Cyprus", "Czech Republic",
	"Denmark", "Djibouti", "Dominica", "Dominican Republic",
	"East Timor", "Ecuador", "Egypt", "El Salvador", "England", "Equatorial Guinea", "Eritrea", "Estonia", "Eswatini", "Ethiopia",
	"Fiji", "Finland", "France",
	"Gabon", "Gambia", "Georgia", "Germany", "Ghana", "Greece", "Grenada", "Guatemala", "Guinea", "Guinea-Bissau", "Guyana",
	"Haiti", "Honduras", "Hungary",
	"Iceland", "India", "Indonesia", "Iran", "Iraq", "Ireland", "Israel", "Italy",
	"Jamaica", "Japan", "Jordan",
	"Kazakhstan", "Kenya", "Kiribati", "North Korea", "South Korea", "Kuwait", "Kyrgyzstan",
	"Laos", "Latvia", "Lebanon", "Lesotho", "Liberia", "Libya", "Liechtenstein", "Lithuania", "Luxembourg",
	"Madagascar", "Malawi", "Malaysia", "Maldives", "Mali", "Malta", "Marshall Islands", "Mauritania", "Mauritius", "Mexico", "Micronesia", "Moldova", "Monaco", "Mongolia", "Montenegro", "Morocco", "Mozambique", "Myanmar",
	"Namibia", "Nauru", "Nepal", "Netherlands", "New Zealand", "Nicaragua", "Niger", "Nigeria", "North Macedonia", "Norway",
	"Oman",
	"Pakistan", "Palau", "Panama", "Papua New Guinea", "Paraguay", "Peru", "Philippines", "Poland", "Portugal",
	"Qatar",
	"Romania", "Russia", "Rwanda",
	"Saint Kitts and Nevis", "Saint Lucia", "Saint Vincent and the Grenadines", "Samoa", "San Marino", "Sao Tome and Principe", "Saudi Arabia", "Senegal", "Serbia", "Seychelles", "Sierra Leone", "Singapore", "Slovakia", "Slovenia", "Solomon Islands", "Somalia", "South Africa", "South Sudan", "Spain", "Sri Lanka", "Sudan", "Suriname", "Sweden", "Switzerland", "Syria",
	"Taiwan", "Tajikistan", "Tanzania", "Thailand", "Togo", "Tonga", "Trinidad and Tobago", "Tunisia", "Turkey", "Turkmenistan", "Tuvalu",
	"Uganda", "Ukraine", "United Arab Emirates", "United Kingdom", "United States", "Uruguay", "USA", "UK", "Uzbekistan",
	"Vanuatu", "Vatican City", "Venezuela", "Vietnam",
	"Yemen",
	"Zambia", "Zimbabwe",
}

// countryCodes narrows registry searches. Keys are lowercase and matched
// exactly; the table is intentionally small.
var countryCodes = map[string]string{
	"united states":  "US",
	"usa":            "US",
	"united kingdom": "GB",
	"uk":             "GB",
	"england":        "GB",
	"france":         "FR",
	"germany":        "DE",
	"italy":          "IT",
	"spain":          "ES",
	"japan":          "JP",
	"china":          "CN",
	"india":          "IN",
	"canada":         "CA",
	"australia":      "AU",
	"brazil":         "BR",
	"russia":         "RU",
	"netherlands":    "NL",
	"sweden":         "SE",
	"norway":         "NO",
	"denmark":        "DK",
	"switzerland":    "CH",
	"austria":        "AT",
	"belgium":        "BE",
	"poland":         "PL",
	"turkey":         "TR",
	"egypt":          "EG",
	"south africa":   "ZA",
	"mexico":         "MX",
	"argentina":      "AR",
	"thailand":       "TH",
	"south korea":    "KR",
	"israel":         "IL",
	"greece":         "GR",
	"portugal":       "PT",
	"czech republic": "CZ",
	"hungary":        "HU",
	"finland":        "FI",
	"ireland":        "IE",
	"new zealand":    "NZ",
}

// CountryCode resolves a country hint to an ISO 3166-1 alpha-2 code. A hint
// that is already two ASCII letters is passed through upper-cased. Unknown
// hints return ok == false.
func CountryCode(hint string) (string, bool) {
	if code, ok := countryCodes[strings.ToLower(hint)]; ok {
		return code, true
	}
	if len(hint) == 2 && isASCIILetter(hint[0]) && isASCIILetter(hint[1]) {
		return strings.ToUpper(hint), true
	}
	return "", false
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func IsCountry(place string) bool {
	for _, c := range countries {
		if strings.EqualFold(c, place) {
			return true
		}
	}
	return false
}

// ParseCityCountry splits free-form input such as "Paris, France" or
// "Kyoto Japan" into a city and an optional country. The country part is only
// split off when it is a known country name or a two-letter code after a comma.
func ParseCityCountry(text string) (city, country string) {
	text = strings.TrimSpace(text)
	if idx := strings.LastIndex(text, ","); idx != -1 {
		candidate := strings.TrimSpace(text[idx+1:])
		head := strings.TrimSpace(text[:idx])
		if head == "" {
			return candidate, ""
		}
		if _, ok := CountryCode(candidate); ok || IsCountry(candidate) {
			return head, candidate
		}
		return text, ""
	}

	// Without a comma only a trailing known country name is split off. The
	// longest match wins so "Papua New Guinea" beats "Guinea".
	best := ""
	for _, c := range countries {
		if len(text) <= len(c)+1 || len(c) <= len(best) {
			continue
		}
		suffix := text[len(text)-len(c):]
		if strings.EqualFold(suffix, c) && text[len(text)-len(c)-1] == ' ' {
			best = c
		}
	}
	if best == "" {
		return text, ""
	}
	return strings.TrimSpace(text[:len(text)-len(best)-1]), best
}
