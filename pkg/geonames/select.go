package geonames

// cityFeatureCodes are the populated-place codes preferred during
// disambiguation: capitals, administrative seats and plain populated places.
var cityFeatureCodes = map[string]struct{}{
	"PPL":   {},
	"PPLA":  {},
	"PPLA2": {},
	"PPLA3": {},
	"PPLA4": {},
	"PPLC":  {},
}

// IsCityLike reports whether g is a populated place with a preferred code.
func IsCityLike(g Geoname) bool {
	if g.FCL == nil || *g.FCL != "P" || g.FCode == nil {
		return false
	}
	_, ok := cityFeatureCodes[*g.FCode]
	return ok
}

// SelectBestMatch picks the most populous city-like candidate. When no
// candidate is city-like the first raw candidate is returned; an empty list
// returns nil. Ties keep the earlier candidate.
func SelectBestMatch(candidates []Geoname) *Geoname {
	if len(candidates) == 0 {
		return nil
	}
	var best *Geoname
	for i := range candidates {
		c := &candidates[i]
		if !IsCityLike(*c) {
			continue
		}
		if best == nil || c.population() > best.population() {
			best = c
		}
	}
	if best == nil {
		best = &candidates[0]
	}
	match := *best
	return &match
}
