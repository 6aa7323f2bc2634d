package overpass

// Response is the JSON envelope returned by the interpreter endpoint.
type Response struct {
	Version   float64   `json:"version"`
	Generator string    `json:"generator"`
	Elements  []Element `json:"elements"`
	Remark    string    `json:"remark,omitempty"`
}

// Element is a node, way or relation. Nodes carry Lat/Lon; ways and
// relations carry Center when queried with "out center".
type Element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *Point            `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (e Element) tag(key string) *string {
	v, ok := e.Tags[key]
	if !ok || v == "" {
		return nil
	}
	return &v
}
