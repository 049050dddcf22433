package analysis

// Sequencer tags requests with increasing numbers so that only the reply
// to the most recently issued request is kept. Responses can arrive in
// any order; anything older than the latest issue is stale.
type Sequencer struct {
	last uint64
}

// Next issues a new request number.
func (s *Sequencer) Next() uint64 {
	s.last++
	return s.last
}

// IsCurrent reports whether n is the latest issued number.
func (s *Sequencer) IsCurrent(n uint64) bool {
	return n != 0 && n == s.last
}

// Invalidate makes every outstanding request stale.
func (s *Sequencer) Invalidate() {
	s.last++
}
