package adc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequence_Cycles(t *testing.T) {
	s := NewSequence(1, 2, 3)

	var got []Sample
	for i := 0; i < 5; i++ {
		got = append(got, s.Read(0))
	}
	assert.Equal(t, []Sample{1, 2, 3, 1, 2}, got)
	assert.Equal(t, 5, s.Reads(0))
}

func TestSequence_PerChannel(t *testing.T) {
	s := NewSequence(9).Set(1, 10, 20)

	assert.Equal(t, Sample(10), s.Read(1))
	assert.Equal(t, Sample(9), s.Read(0))
	assert.Equal(t, Sample(20), s.Read(1))
	assert.Equal(t, Sample(9), s.Read(0))
	assert.Equal(t, 2, s.Reads(1))
}

func TestSequence_Empty(t *testing.T) {
	s := NewSequence()
	assert.Equal(t, Sample(0), s.Read(3))
}

func TestSourceFunc(t *testing.T) {
	var src Source = SourceFunc(func(ch int) Sample { return Sample(ch * 10) })
	assert.Equal(t, Sample(30), src.Read(3))
}
