package circuit

import (
	"errors"
	"strings"
	"testing"
)

func TestBuildDispatch(t *testing.T) {
	tests := []struct {
		name     string
		protocol Protocol
		wantErr  error
	}{
		{name: "bbpssw", protocol: ProtocolBBPSSW},
		{name: "dejmps", protocol: ProtocolDEJMPS},
		{name: "unknown", protocol: Protocol("purify"), wantErr: ErrUnknownProtocol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, err := Build(tt.protocol, 2)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Build() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if c.NumQubits != 4 {
				t.Errorf("NumQubits = %d, want 4", c.NumQubits)
			}
		})
	}
}

func TestBuildersRejectOutOfRangePairCounts(t *testing.T) {
	for _, p := range []Protocol{ProtocolBBPSSW, ProtocolDEJMPS} {
		for _, n := range []int{0, 1, 9, -3} {
			if _, _, err := Build(p, n); !errors.Is(err, ErrInvalidPairCount) {
				t.Errorf("Build(%s, %d) error = %v, want ErrInvalidPairCount", p, n, err)
			}
		}
	}
}

// partyOf maps a qubit index to its party under the game layout.
func partyOf(q, numPairs int) int {
	if q < numPairs {
		return 0
	}
	return 1
}

func TestBuildersNeverCrossThePartyBoundary(t *testing.T) {
	for _, p := range []Protocol{ProtocolBBPSSW, ProtocolDEJMPS} {
		for n := MinPairs; n <= MaxPairs; n++ {
			c, _, err := Build(p, n)
			if err != nil {
				t.Fatalf("Build(%s, %d) error = %v", p, n, err)
			}
			for _, op := range c.TwoQubitOps() {
				if partyOf(op.Qubits[0], n) != partyOf(op.Qubits[1], n) {
					t.Errorf("%s with %d pairs: gate %s spans qubits %v across parties",
						p, n, op.Gate, op.Qubits)
				}
			}
		}
	}
}

func TestBuildersMeasureEveryAncillaAndSpareTheTarget(t *testing.T) {
	for _, p := range []Protocol{ProtocolBBPSSW, ProtocolDEJMPS} {
		for n := MinPairs; n <= MaxPairs; n++ {
			c, _, err := Build(p, n)
			if err != nil {
				t.Fatalf("Build(%s, %d) error = %v", p, n, err)
			}

			if want := 2 * (n - 1); len(c.Measurements) != want {
				t.Errorf("%s with %d pairs: %d measurements, want %d", p, n, len(c.Measurements), want)
			}

			targetA, targetB := n-1, n
			for _, m := range c.Measurements {
				if m.Qubit == targetA || m.Qubit == targetB {
					t.Errorf("%s with %d pairs: target qubit %d is measured", p, n, m.Qubit)
				}
			}
		}
	}
}

func TestFlagBitIsFirstAncillaFirstParty(t *testing.T) {
	for _, p := range []Protocol{ProtocolBBPSSW, ProtocolDEJMPS} {
		for n := MinPairs; n <= MaxPairs; n++ {
			_, flag, err := Build(p, n)
			if err != nil {
				t.Fatalf("Build(%s, %d) error = %v", p, n, err)
			}
			if flag != 0 {
				t.Errorf("Build(%s, %d) flag bit = %d, want 0", p, n, flag)
			}
		}
	}
}

func TestDEJMPSAddsBasisRotations(t *testing.T) {
	bb, _, err := BBPSSW(3)
	if err != nil {
		t.Fatalf("BBPSSW(3) error = %v", err)
	}
	dj, _, err := DEJMPS(3)
	if err != nil {
		t.Fatalf("DEJMPS(3) error = %v", err)
	}

	countGate := func(c *Circuit, gate string) int {
		n := 0
		for _, op := range c.Ops {
			if op.Gate == gate {
				n++
			}
		}
		return n
	}

	if countGate(bb, "h") != 0 {
		t.Error("BBPSSW should contain no Hadamards")
	}
	if countGate(dj, "h") == 0 {
		t.Error("DEJMPS should contain Hadamard basis changes")
	}
	if countGate(dj, "cx") != 2*countGate(bb, "cx") {
		t.Errorf("DEJMPS cx count = %d, want twice BBPSSW's %d", countGate(dj, "cx"), countGate(bb, "cx"))
	}
}

func TestQASMRendering(t *testing.T) {
	c, _, err := BBPSSW(2)
	if err != nil {
		t.Fatalf("BBPSSW(2) error = %v", err)
	}

	qasm := c.QASM()
	for _, want := range []string{
		"OPENQASM 3.0;",
		"qubit[4] q;",
		"bit[4] c;",
		"cx q[1], q[0];",
		"cx q[2], q[3];",
		"c[0] = measure q[0];",
		"c[3] = measure q[3];",
	} {
		if !strings.Contains(qasm, want) {
			t.Errorf("QASM output missing %q:\n%s", want, qasm)
		}
	}
}

func TestProtocolHelpers(t *testing.T) {
	if !ProtocolBBPSSW.IsValid() || !ProtocolDEJMPS.IsValid() {
		t.Error("known protocols should be valid")
	}
	if Protocol("x").IsValid() {
		t.Error("unknown protocol should be invalid")
	}
	if ProtocolBBPSSW.Other() != ProtocolDEJMPS || ProtocolDEJMPS.Other() != ProtocolBBPSSW {
		t.Error("Other() should swap protocols")
	}
}
