package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackages(t *testing.T) {
	pkgs := Packages()

	assert.Len(t, pkgs, 2)
	assert.Equal(t, SlotTypeDeluxe, pkgs[0].SlotType)
	assert.Equal(t, SlotTypeRolexe, pkgs[1].SlotType)

	// Returned slice must be a copy
	pkgs[0].Name = "mutated"
	assert.Equal(t, "Deluxe Theater", Packages()[0].Name)
}

func TestSlotsFor(t *testing.T) {
	t.Run("deluxe order and windows", func(t *testing.T) {
		slots := SlotsFor(SlotTypeDeluxe)
		assert.Len(t, slots, 5)

		for i, s := range slots {
			assert.Equal(t, i+1, s.ID)
		}

		assert.Equal(t, "10:00 AM", slots[0].StartTime)
		assert.Equal(t, "12:30 PM", slots[0].EndTime)
		assert.Equal(t, "01:00 PM", slots[1].StartTime)
		assert.Equal(t, "10:00 PM", slots[4].StartTime)
		assert.Equal(t, "12:30 AM", slots[4].EndTime)
	})

	t.Run("rolexe afternoon slot label", func(t *testing.T) {
		slots := SlotsFor(SlotTypeRolexe)
		assert.Len(t, slots, 5)
		assert.Equal(t, "1:00 PM", slots[1].StartTime)
	})

	t.Run("unknown slot type", func(t *testing.T) {
		assert.Nil(t, SlotsFor("premium"))
	})
}

func TestSlotByID(t *testing.T) {
	slot, ok := SlotByID(SlotTypeDeluxe, 4)
	assert.True(t, ok)
	assert.Equal(t, "7:00 PM", slot.StartTime)

	_, ok = SlotByID(SlotTypeDeluxe, 6)
	assert.False(t, ok)

	_, ok = SlotByID("premium", 1)
	assert.False(t, ok)
}

func TestPackageByType(t *testing.T) {
	pkg, ok := PackageByType(SlotTypeRolexe)
	assert.True(t, ok)
	assert.Equal(t, "Rolexe Theater", pkg.Name)
	assert.Equal(t, 12, pkg.MaxPeople)

	assert.True(t, IsValidSlotType(SlotTypeDeluxe))
	assert.False(t, IsValidSlotType(""))
}
