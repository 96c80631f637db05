package catalog

// Addon is an optional extra customers can stack on a booking
type Addon struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

var addons = []Addon{
	{Name: "rose-heart", Price: 349},
	{Name: "candle-path", Price: 299},
	{Name: "led-name-board", Price: 499},
	{Name: "fog-entry", Price: 599},
	{Name: "photo-clips", Price: 199},
	{Name: "cake-table", Price: 249},
}

// Addons returns all bookable extras
func Addons() []Addon {
	out := make([]Addon, len(addons))
	copy(out, addons)
	return out
}

// AddonPrice returns the price for a named extra
func AddonPrice(name string) (float64, bool) {
	for _, a := range addons {
		if a.Name == name {
			return a.Price, true
		}
	}
	return 0, false
}
