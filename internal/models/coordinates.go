package models

// Coordinates is a WGS84 point that is known to be complete.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Location is a point where either half may be missing from the upstream
// payload.
type Location struct {
	Lat *float64 `json:"latitude,omitempty"`
	Lon *float64 `json:"longitude,omitempty"`
}

// Complete reports whether both halves are present.
func (l Location) Complete() bool {
	return l.Lat != nil && l.Lon != nil
}

// Ptr returns a pointer to v. Used to fill optional result fields.
func Ptr[T any](v T) *T {
	return &v
}
