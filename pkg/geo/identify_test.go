package geo

import "testing"

func TestIsCountry(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		expects bool
	}{
		{"exact match", "France", true},
		{"case-insensitive", "gErMaNy", true},
		{"unknown", "Atlantis", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsCountry(tc.input); got != tc.expects {
				t.Fatalf("IsCountry(%q) = %v; want %v", tc.input, got, tc.expects)
			}
		})
	}
}

func TestCountryCode(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"table match", "France", "FR", true},
		{"alias", "USA", "US", true},
		{"multi word", "south korea", "KR", true},
		{"two letter pass-through", "lb", "LB", true},
		{"two letter with digit", "l8", "", false},
		{"not in table", "Lebanon", "", false},
		{"padded is not exact", " france", "", false},
		{"empty", "", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := CountryCode(tc.input)
			if got != tc.want || ok != tc.wantOK {
				t.Fatalf("CountryCode(%q) = (%q, %v); want (%q, %v)", tc.input, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestParseCityCountry(t *testing.T) {
	cases := []struct {
		name        string
		input       string
		wantCity    string
		wantCountry string
	}{
		{"comma with known country", "Paris, France", "Paris", "France"},
		{"comma with code", "Beirut, LB", "Beirut", "LB"},
		{"comma with unknown tail kept", "Washington, D.C.", "Washington, D.C.", ""},
		{"trailing country without comma", "Kyoto Japan", "Kyoto", "Japan"},
		{"longest country wins", "Port Moresby Papua New Guinea", "Port Moresby", "Papua New Guinea"},
		{"city only", "Tokyo", "Tokyo", ""},
		{"multi word city only", "New York", "New York", ""},
		{"whitespace trimmed", "  Lisbon ,  Portugal ", "Lisbon", "Portugal"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			city, country := ParseCityCountry(tc.input)
			if city != tc.wantCity || country != tc.wantCountry {
				t.Fatalf("ParseCityCountry(%q) = (%q, %q); want (%q, %q)", tc.input, city, country, tc.wantCity, tc.wantCountry)
			}
		})
	}
}
