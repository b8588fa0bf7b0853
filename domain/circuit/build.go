package circuit

import "fmt"

// Game-imposed bounds on the number of raw Bell pairs per attempt.
const (
	MinPairs = 2
	MaxPairs = 8
)

// Build constructs the distillation circuit for the given protocol and pair
// count. It returns the circuit and the classical flag-bit index used for
// post-selection (the bit must read 0 for the attempt to count).
func Build(p Protocol, numPairs int) (*Circuit, int, error) {
	switch p {
	case ProtocolBBPSSW:
		return BBPSSW(numPairs)
	case ProtocolDEJMPS:
		return DEJMPS(numPairs)
	default:
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownProtocol, p)
	}
}

// ancillaPairs lists the (first-party, second-party) qubit index pairs that
// serve as ancillas: every Bell pair except the retained target pair (N-1, N).
func ancillaPairs(numPairs int) [][2]int {
	pairs := make([][2]int, 0, numPairs-1)
	for k := 0; k < numPairs; k++ {
		if k == numPairs-1 {
			continue // target pair
		}
		pairs = append(pairs, [2]int{k, 2*numPairs - 1 - k})
	}
	return pairs
}

// BBPSSW builds the Bennett et al. distillation circuit: a bilateral CNOT
// from the target pair onto each ancilla pair, followed by ancilla
// measurement. The reported flag bit is the first ancilla's first-party bit.
// True post-selection would AND all ancilla outcomes; the single-bit flag
// matches what the game server consumes.
func BBPSSW(numPairs int) (*Circuit, int, error) {
	if numPairs < MinPairs || numPairs > MaxPairs {
		return nil, 0, fmt.Errorf("%w: %d (want %d-%d)", ErrInvalidPairCount, numPairs, MinPairs, MaxPairs)
	}

	n := numPairs
	c := &Circuit{NumQubits: 2 * n}
	targetA, targetB := n-1, n

	ancillas := ancillaPairs(n)
	for _, anc := range ancillas {
		c.Ops = append(c.Ops,
			Op{Gate: "cx", Qubits: []int{targetA, anc[0]}},
			Op{Gate: "cx", Qubits: []int{targetB, anc[1]}},
		)
	}
	for _, anc := range ancillas {
		c.Measurements = append(c.Measurements,
			Measurement{Qubit: anc[0], Bit: anc[0]},
			Measurement{Qubit: anc[1], Bit: anc[1]},
		)
	}

	return c, ancillas[0][0], nil
}

// DEJMPS builds the Deutsch et al. circuit: the bilateral CNOT parity check
// of BBPSSW bracketed by Hadamard basis changes, which converts the second
// round into an X-basis check and makes the protocol effective against phase
// errors.
func DEJMPS(numPairs int) (*Circuit, int, error) {
	if numPairs < MinPairs || numPairs > MaxPairs {
		return nil, 0, fmt.Errorf("%w: %d (want %d-%d)", ErrInvalidPairCount, numPairs, MinPairs, MaxPairs)
	}

	n := numPairs
	c := &Circuit{NumQubits: 2 * n}
	targetA, targetB := n-1, n
	ancillas := ancillaPairs(n)

	// Z-basis parity check.
	for _, anc := range ancillas {
		c.Ops = append(c.Ops,
			Op{Gate: "cx", Qubits: []int{targetA, anc[0]}},
			Op{Gate: "cx", Qubits: []int{targetB, anc[1]}},
		)
	}

	// Rotate into the X basis, repeat the check, rotate back.
	hadamards := func() {
		for _, anc := range ancillas {
			c.Ops = append(c.Ops,
				Op{Gate: "h", Qubits: []int{anc[0]}},
				Op{Gate: "h", Qubits: []int{anc[1]}},
			)
		}
		c.Ops = append(c.Ops,
			Op{Gate: "h", Qubits: []int{targetA}},
			Op{Gate: "h", Qubits: []int{targetB}},
		)
	}
	hadamards()
	for _, anc := range ancillas {
		c.Ops = append(c.Ops,
			Op{Gate: "cx", Qubits: []int{targetA, anc[0]}},
			Op{Gate: "cx", Qubits: []int{targetB, anc[1]}},
		)
	}
	hadamards()

	for _, anc := range ancillas {
		c.Measurements = append(c.Measurements,
			Measurement{Qubit: anc[0], Bit: anc[0]},
			Measurement{Qubit: anc[1], Bit: anc[1]},
		)
	}

	return c, ancillas[0][0], nil
}
