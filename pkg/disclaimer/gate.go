package disclaimer

import "sync/atomic"

// Gate is a one-shot acceptance flag. Once accepted it stays accepted.
type Gate struct {
	accepted atomic.Bool
}

func NewGate() *Gate {
	return &Gate{}
}

// Accept reports whether this call flipped the gate; later calls are no-ops.
func (g *Gate) Accept() bool {
	return g.accepted.CompareAndSwap(false, true)
}

func (g *Gate) Accepted() bool {
	return g.accepted.Load()
}
