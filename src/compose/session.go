package compose

import "github.com/jusPats753/QACode/src/histstore"

// sessionState tracks whether the chart already has a base series.
type sessionState int

const (
	stateEmpty sessionState = iota
	stateHasSeries
)

// session accumulates the series of one chart in run order. The first add
// draws the base plot, every later add composites onto it; the distinction
// only matters for diagnostics here since rendering is deferred to Finalize
// time, but the state machine keeps the positional special case explicit.
type session struct {
	state  sessionState
	series []Series
}

func newSession() *session { return &session{} }

func (s *session) add(sr Series) {
	switch s.state {
	case stateEmpty:
		histstore.Debugf("%s: drawing base plot", sr.Label)
		s.state = stateHasSeries
	case stateHasSeries:
		histstore.Debugf("%s: compositing onto existing plot", sr.Label)
	}
	s.series = append(s.series, sr)
}

func (s *session) empty() bool { return s.state == stateEmpty }

// all returns the accumulated series in add order (legend order).
func (s *session) all() []Series { return s.series }
