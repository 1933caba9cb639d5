package engine

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

// DiceSource produces die faces in [MinDice, MaxDice]
type DiceSource interface {
	Roll() int
}

// RandomDice rolls a fair six-sided die
type RandomDice struct{}

// Roll returns a uniformly distributed face
func (RandomDice) Roll() int {
	return MinDice + rand.IntN(MaxDice-MinDice+1)
}

// FixedDice always shows the same face
type FixedDice int

// Roll returns the fixed face
func (d FixedDice) Roll() int {
	return int(d)
}

// SequenceDice replays a fixed sequence of faces, wrapping around at the end
type SequenceDice struct {
	mu     sync.Mutex
	values []int
	next   int
}

// NewSequenceDice validates the faces and returns a replaying source
func NewSequenceDice(values ...int) (*SequenceDice, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("sequence dice: at least one value is required")
	}
	for i, v := range values {
		if v < MinDice || v > MaxDice {
			return nil, fmt.Errorf("sequence dice: value %d at index %d must be between %d and %d", v, i, MinDice, MaxDice)
		}
	}
	return &SequenceDice{values: append([]int(nil), values...)}, nil
}

// Roll returns the next face in the sequence
func (d *SequenceDice) Roll() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	v := d.values[d.next]
	d.next = (d.next + 1) % len(d.values)
	return v
}
