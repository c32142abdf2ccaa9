package frameflow

import (
	"github.com/google/uuid"
)

// ToggleKind classifies a client-submitted replacement of a relationship set
// against the stored one.
type ToggleKind int

const (
	// ToggleNoop means the replacement equals the stored set.
	ToggleNoop ToggleKind = iota
	// ToggleAddition means exactly one member was appended.
	ToggleAddition
	// ToggleRemoval means exactly one member was dropped.
	ToggleRemoval
	// ToggleInvalid means the replacement differs by more than one member.
	ToggleInvalid
)

func (k ToggleKind) String() string {
	switch k {
	case ToggleNoop:
		return "noop"
	case ToggleAddition:
		return "addition"
	case ToggleRemoval:
		return "removal"
	default:
		return "invalid"
	}
}

// Toggle is the outcome of classifying a replacement set.
type Toggle struct {
	Kind ToggleKind
	// Member is the added or removed identifier. Zero for noop and invalid.
	Member uuid.UUID
}

// DetectToggle classifies proposed against current.
//
// Clients submit full replacement sets and rely on the size-diff convention:
// growth is an addition whose member is the last element of the proposed
// set, shrinkage is a removal whose member is the last element of the stored
// set. Two strengthenings over that convention: an exact replay of the
// stored set classifies as a noop rather than a removal, and any replacement
// whose size differs by more than one member is invalid and must not be
// persisted.
func DetectToggle(current, proposed IDList) Toggle {
	if setsEqual(current, proposed) {
		return Toggle{Kind: ToggleNoop}
	}

	switch delta := len(proposed) - len(current); {
	case delta == 1:
		return Toggle{Kind: ToggleAddition, Member: proposed[len(proposed)-1]}
	case delta == -1 || (delta == 0 && len(current) > 0):
		// Same-size, different-membership sets keep the literal convention:
		// non-growth is a removal keyed by the stored set's last element.
		return Toggle{Kind: ToggleRemoval, Member: current[len(current)-1]}
	default:
		return Toggle{Kind: ToggleInvalid}
	}
}

func setsEqual(a, b IDList) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[uuid.UUID]int, len(a))
	for _, id := range a {
		counts[id]++
	}
	for _, id := range b {
		counts[id]--
		if counts[id] < 0 {
			return false
		}
	}
	return true
}
