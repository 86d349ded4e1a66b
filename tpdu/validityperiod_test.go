package tpdu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelativeVP(t *testing.T) {
	cases := []struct {
		hours int
		want  byte
	}{
		{0, 0xFF},
		{-5, 0xFF},
		{1, 0x0B},
		{12, 0x8F},
		{13, 0x91},
		{24, 0xA7},
		{48, 0xA8},
		{720, 0xC4},
		{744, 0xC4},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, RelativeVP(c.hours), "hours=%d", c.hours)
	}
}

func TestRelativeVPClampsAtMax(t *testing.T) {
	assert.Equal(t, byte(0xFF), RelativeVP(168*200))
}
