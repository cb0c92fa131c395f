package models

// Supported aspect ratios for generated variations. The key set is closed;
// every generation produces exactly these three.
const (
	RatioSquare    = "1:1"
	RatioLandscape = "16:9"
	RatioPortrait  = "9:16"
)

// Ratios lists the supported aspect ratios in generation order.
var Ratios = []string{RatioSquare, RatioLandscape, RatioPortrait}

// PortraitQuality selects the resolution tier phrased into the portrait
// generation instruction.
type PortraitQuality string

const (
	QualityHD  PortraitQuality = "hd"
	QualityFHD PortraitQuality = "fhd"
)

// Variations is the fixed-shape set of generated images, one optional entry
// per supported aspect ratio. An empty string means not yet generated,
// pending, or undone.
type Variations struct {
	Square    string `json:"1:1,omitempty"`
	Landscape string `json:"16:9,omitempty"`
	Portrait  string `json:"9:16,omitempty"`
}

// Get returns the variation for the given ratio key, or "" if absent or the
// ratio is unknown.
func (v Variations) Get(ratio string) string {
	switch ratio {
	case RatioSquare:
		return v.Square
	case RatioLandscape:
		return v.Landscape
	case RatioPortrait:
		return v.Portrait
	}
	return ""
}

// Set stores the variation for the given ratio key. Unknown ratios are
// ignored.
func (v *Variations) Set(ratio, image string) {
	switch ratio {
	case RatioSquare:
		v.Square = image
	case RatioLandscape:
		v.Landscape = image
	case RatioPortrait:
		v.Portrait = image
	}
}

// IsEmpty reports whether no variation is populated.
func (v Variations) IsEmpty() bool {
	return v.Square == "" && v.Landscape == "" && v.Portrait == ""
}
