package local

import (
	"fmt"
	"strconv"
	"strings"

	"mancala-local/types"
)

// Pit notation:
// - Engine: pits are 0-based and relative to the side to move, pit 0 is the
//   one farthest from that player's store
// - Labels: the same pits counted from 1, as shown on screen
// - Keys: a single hex digit, 0-9 then a-f, so every pit of a 16 pit board
//   has its own key
// - Example: on a 6 pit board pit 5 is label "6" and key '5'

// PitLabel converts an engine pit to its on-screen label.
func PitLabel(pit int) string {
	return strconv.Itoa(pit + 1)
}

// ParsePitLabel converts an on-screen label back to an engine pit.
func ParsePitLabel(label string, bowls int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(label))
	if err != nil {
		return 0, fmt.Errorf("invalid pit: %q", label)
	}
	if n < 1 || n > bowls {
		return 0, fmt.Errorf("pit out of bounds: %d", n)
	}
	return n - 1, nil
}

// PitKey returns the key that selects pit.
func PitKey(pit int) rune {
	return rune(strconv.FormatInt(int64(pit), 16)[0])
}

// KeyToPit converts a key to a pit. ok is false for keys that are not hex
// digits.
func KeyToPit(r rune) (pit int, ok bool) {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0'), true
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10, true
	}
	return 0, false
}

// MoveString describes a move for the info panel.
func MoveString(m types.Move) string {
	if m.Player == 0 {
		return "-"
	}
	if m.Pit < 0 {
		return fmt.Sprintf("Player %d passed", m.Player)
	}
	s := fmt.Sprintf("Player %d sowed pit %s", m.Player, PitLabel(m.Pit))
	if m.Extra {
		s += ", extra turn"
	}
	return s
}
