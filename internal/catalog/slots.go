package catalog

// Slot type identifiers
const (
	SlotTypeDeluxe = "deluxe"
	SlotTypeRolexe = "rolexe"
)

var packages = []Package{
	{
		SlotType:           SlotTypeDeluxe,
		Name:               "Deluxe Theater",
		BasePrice:          2499,
		MaxPeople:          6,
		DecorationIncluded: true,
	},
	{
		SlotType:           SlotTypeRolexe,
		Name:               "Rolexe Theater",
		BasePrice:          3499,
		MaxPeople:          12,
		DecorationIncluded: true,
	},
}

// The show windows differ only in the printed start of the afternoon
// slot; the schedule itself is the same for both theaters.
var deluxeSlots = []TimeSlot{
	{ID: 1, StartTime: "10:00 AM", EndTime: "12:30 PM"},
	{ID: 2, StartTime: "01:00 PM", EndTime: "3:30 PM"},
	{ID: 3, StartTime: "4:00 PM", EndTime: "6:30 PM"},
	{ID: 4, StartTime: "7:00 PM", EndTime: "9:30 PM"},
	{ID: 5, StartTime: "10:00 PM", EndTime: "12:30 AM"},
}

var rolexeSlots = []TimeSlot{
	{ID: 1, StartTime: "10:00 AM", EndTime: "12:30 PM"},
	{ID: 2, StartTime: "1:00 PM", EndTime: "3:30 PM"},
	{ID: 3, StartTime: "4:00 PM", EndTime: "6:30 PM"},
	{ID: 4, StartTime: "7:00 PM", EndTime: "9:30 PM"},
	{ID: 5, StartTime: "10:00 PM", EndTime: "12:30 AM"},
}

// Packages returns all bookable theater packages
func Packages() []Package {
	out := make([]Package, len(packages))
	copy(out, packages)
	return out
}

// PackageByType returns the package for a slot type, if it exists
func PackageByType(slotType string) (Package, bool) {
	for _, p := range packages {
		if p.SlotType == slotType {
			return p, true
		}
	}
	return Package{}, false
}

// SlotsFor returns the ordered show windows for a slot type
func SlotsFor(slotType string) []TimeSlot {
	var src []TimeSlot
	switch slotType {
	case SlotTypeDeluxe:
		src = deluxeSlots
	case SlotTypeRolexe:
		src = rolexeSlots
	default:
		return nil
	}
	out := make([]TimeSlot, len(src))
	copy(out, src)
	return out
}

// SlotByID returns a single show window by catalog ID
func SlotByID(slotType string, slotID int) (TimeSlot, bool) {
	for _, s := range SlotsFor(slotType) {
		if s.ID == slotID {
			return s, true
		}
	}
	return TimeSlot{}, false
}

// IsValidSlotType reports whether the slot type exists in the catalog
func IsValidSlotType(slotType string) bool {
	_, ok := PackageByType(slotType)
	return ok
}
