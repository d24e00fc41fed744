package core

import "time"

// TrajectoryPoint is the planning seed for one tick: the starting condition
// the active stage plans from. The scenario passes it through to the stage
// unmodified.
type TrajectoryPoint struct {
	// X and Y are the seed position in the planning frame, metres.
	X float64
	Y float64
	// Heading is the seed heading in radians.
	Heading float64
	// Velocity is the seed speed in m/s.
	Velocity float64
	// RelativeTime is the offset of this point from the start of the
	// current trajectory.
	RelativeTime time.Duration
}

// Frame is the perception/world snapshot handed to each planning tick.
// The scenario treats it as opaque; only concrete stages look inside.
type Frame struct {
	// SequenceNum increments once per planning tick.
	SequenceNum uint32
	// Timestamp is when the snapshot was taken.
	Timestamp time.Time
	// Payload carries whatever contextual data concrete stages need.
	// The state machine never inspects it.
	Payload any
}
