// Package circuit provides the distillation circuit model and the BBPSSW and
// DEJMPS circuit builders submitted with edge claims.
package circuit

import "strings"

// Protocol identifies a distillation protocol.
type Protocol string

// Supported protocols.
const (
	// ProtocolBBPSSW detects general depolarizing errors via bilateral CNOTs.
	ProtocolBBPSSW Protocol = "bbpssw"
	// ProtocolDEJMPS adds basis rotations and is better against phase noise.
	ProtocolDEJMPS Protocol = "dejmps"
)

// IsValid returns true for a recognized protocol.
func (p Protocol) IsValid() bool {
	return p == ProtocolBBPSSW || p == ProtocolDEJMPS
}

// Other returns the alternative protocol, used when retries alternate.
func (p Protocol) Other() Protocol {
	if p == ProtocolBBPSSW {
		return ProtocolDEJMPS
	}
	return ProtocolBBPSSW
}

// String returns the protocol name.
func (p Protocol) String() string { return string(p) }

// Op is a single gate application. Qubits holds the operand indices; two
// entries for two-qubit gates, one otherwise.
type Op struct {
	Gate   string
	Qubits []int
}

// Measurement maps a measured qubit to a classical bit.
type Measurement struct {
	Qubit int
	Bit   int
}

// Circuit is a gate-level distillation circuit over 2N qubits. Qubit layout
// follows the game convention: indices 0..N-1 belong to the first party,
// N..2N-1 to the second, and Bell pair k spans (k, 2N-1-k). The target pair
// is the middle one, (N-1, N).
type Circuit struct {
	NumQubits    int
	Ops          []Op
	Measurements []Measurement
}

// TwoQubitOps returns the two-qubit operations of the circuit.
func (c *Circuit) TwoQubitOps() []Op {
	var ops []Op
	for _, op := range c.Ops {
		if len(op.Qubits) == 2 {
			ops = append(ops, op)
		}
	}
	return ops
}

// QASM renders the circuit as OpenQASM 3 source, the wire format the game
// server expects for claim submissions.
func (c *Circuit) QASM() string {
	var b strings.Builder
	b.WriteString("OPENQASM 3.0;\n")
	b.WriteString("include \"stdgates.inc\";\n")
	b.WriteString("qubit[" + itoa(c.NumQubits) + "] q;\n")
	b.WriteString("bit[" + itoa(c.NumQubits) + "] c;\n")
	for _, op := range c.Ops {
		b.WriteString(op.Gate)
		b.WriteString(" ")
		for i, q := range op.Qubits {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("q[" + itoa(q) + "]")
		}
		b.WriteString(";\n")
	}
	for _, m := range c.Measurements {
		b.WriteString("c[" + itoa(m.Bit) + "] = measure q[" + itoa(m.Qubit) + "];\n")
	}
	return b.String()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits [4]byte
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[i:])
}
