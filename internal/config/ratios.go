package config

// RatioInfo is a canvas preset for exported cards
type RatioInfo struct {
	ID          string
	Name        string
	Description string
	Width       int
	Height      int
}

var Ratios = []RatioInfo{
	{
		ID:          "4:5",
		Name:        "Portrait",
		Description: "Instagram portrait, best reach",
		Width:       1080,
		Height:      1350,
	},
	{
		ID:          "1:1",
		Name:        "Square",
		Description: "Works everywhere",
		Width:       1080,
		Height:      1080,
	},
}

func GetRatio(id string) *RatioInfo {
	for i := range Ratios {
		if Ratios[i].ID == id {
			return &Ratios[i]
		}
	}
	return nil
}

// RatioIndex returns the position of id in Ratios, or 0 when unknown
func RatioIndex(id string) int {
	for i, r := range Ratios {
		if r.ID == id {
			return i
		}
	}
	return 0
}
