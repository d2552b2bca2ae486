package cpu

import (
	"fmt"
	"strings"
)

// Quirks selects between the behaviors that differ across CHIP-8 interpreters.
type Quirks struct {
	// ShiftInPlace shifts Vx for 8xy6 and 8xyE instead of storing the shifted Vy in Vx.
	ShiftInPlace bool
	// LoadStoreIncrementsI leaves I pointing after the last register for Fx55 and Fx65.
	LoadStoreIncrementsI bool
	// LogicResetsVF clears VF after 8xy1, 8xy2 and 8xy3.
	LogicResetsVF bool
}

var (
	// QuirksVIP is the behavior of the original COSMAC VIP interpreter.
	QuirksVIP = Quirks{
		LoadStoreIncrementsI: true,
		LogicResetsVF:        true,
	}

	// QuirksCHIP48 is the behavior of CHIP-48 and SUPER-CHIP derived interpreters.
	QuirksCHIP48 = Quirks{
		ShiftInPlace: true,
	}
)

// QuirksByName returns the quirks profile for the given name.
func QuirksByName(name string) (Quirks, error) {
	switch strings.ToLower(name) {
	case "", "vip", "chip8":
		return QuirksVIP, nil
	case "chip48", "schip", "superchip":
		return QuirksCHIP48, nil
	default:
		return Quirks{}, fmt.Errorf("%w '%s', valid options: vip, chip48", ErrUnknownQuirks, name)
	}
}
