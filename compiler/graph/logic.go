//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package graph

// MaxStrength is the maximum signal strength.
const MaxStrength = 15

// Attenuate returns the signal strength ss after crossing a link
// with the signal strength loss weight.
func Attenuate(ss, weight uint8) uint8 {
	if weight >= ss {
		return 0
	}
	return ss - weight
}

// InputPower computes the node's default and side input powers from
// its sources' current output strengths.
func (g *Graph) InputPower(id NodeID) (def, side uint8) {
	if !g.Contains(id) {
		return
	}
	for _, eid := range g.nodes[id].inputs {
		e := g.edges[eid]
		ss := Attenuate(g.nodes[e.Source].node.State.OutputStrength,
			e.Link.SignalStrength)
		switch e.Link.Type {
		case Side:
			side = max(side, ss)
		default:
			def = max(def, ss)
		}
	}
	return
}

// ComparatorOutput computes the comparator output for the default
// and side input powers.
func (k Kind) ComparatorOutput(def, side uint8) uint8 {
	if k.HasFarInput && def < MaxStrength {
		def = k.FarInput
	}
	switch k.Mode {
	case Subtract:
		if def > side {
			return def - side
		}
		return 0
	default:
		if def >= side {
			return def
		}
		return 0
	}
}

// Fold computes the constant output strength of a gate whose inputs
// are constant. The function returns false if the kind can't be
// folded.
func (k Kind) Fold(state State, def, side uint8) (uint8, bool) {
	switch k.Type {
	case Comparator:
		return k.ComparatorOutput(def, side), true

	case Repeater:
		if state.RepeaterLocked {
			return state.OutputStrength, true
		}
		if def > 0 {
			return MaxStrength, true
		}
		return 0, true

	case Torch:
		if def > 0 {
			return 0, true
		}
		return MaxStrength, true

	default:
		return 0, false
	}
}

// Settle computes the steady state of a node of kind k for the input
// powers. Input nodes and constants keep their state.
func (k Kind) Settle(state State, def, side uint8) State {
	switch k.Type {
	case Repeater:
		state.RepeaterLocked = side > 0
		if !state.RepeaterLocked {
			if def > 0 {
				state.OutputStrength = MaxStrength
			} else {
				state.OutputStrength = 0
			}
		}
		state.Powered = state.OutputStrength > 0

	case Comparator, Torch:
		ss, _ := k.Fold(state, def, side)
		state.OutputStrength = ss
		state.Powered = ss > 0

	case Lamp, Trapdoor, NoteBlock, Wire:
		state.OutputStrength = def
		state.Powered = def > 0
	}
	return state
}
