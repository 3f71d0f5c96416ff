package adc

// Sequence replays fixed samples. Each channel cycles through its own
// values; channels without values replay the shared default sequence, and 0
// if that is empty too.
type Sequence struct {
	fallback []Sample
	values   map[int][]Sample
	pos      map[int]int
	reads    map[int]int
}

// NewSequence creates a Sequence replaying values on every channel.
func NewSequence(values ...Sample) *Sequence {
	return &Sequence{
		fallback: values,
		values:   make(map[int][]Sample),
		pos:      make(map[int]int),
		reads:    make(map[int]int),
	}
}

// Set assigns a dedicated sequence to one channel and rewinds it.
func (s *Sequence) Set(channel int, values ...Sample) *Sequence {
	s.values[channel] = values
	s.pos[channel] = 0
	return s
}

// Read returns the next value of the channel's sequence.
func (s *Sequence) Read(channel int) Sample {
	s.reads[channel]++

	values, ok := s.values[channel]
	if !ok {
		values = s.fallback
	}
	if len(values) == 0 {
		return 0
	}

	i := s.pos[channel]
	s.pos[channel] = (i + 1) % len(values)
	return values[i]
}

// Reads returns how many conversions were requested on a channel.
func (s *Sequence) Reads(channel int) int {
	return s.reads[channel]
}
