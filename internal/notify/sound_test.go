package notify

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niltonmoco5-source/The-super-bible/internal/routine"
)

func TestSynthesizeSilence(t *testing.T) {
	assert.Nil(t, Synthesize(routine.SoundNone))
	assert.Nil(t, Synthesize(routine.Sound("unknown")))
}

func TestSynthesizeWAVLayout(t *testing.T) {
	for _, sound := range []routine.Sound{routine.SoundHarp, routine.SoundBell, routine.SoundNature} {
		wav := Synthesize(sound)
		require.NotNil(t, wav, "sound %s", sound)

		require.Greater(t, len(wav), 44, "header plus samples")
		assert.Equal(t, "RIFF", string(wav[0:4]))
		assert.Equal(t, "WAVE", string(wav[8:12]))
		assert.Equal(t, "data", string(wav[36:40]))

		dataLen := binary.LittleEndian.Uint32(wav[40:44])
		assert.Equal(t, uint32(cueSeconds*sampleRate*2), dataLen)
		assert.Equal(t, int(44+dataLen), len(wav))
	}
}

func TestSynthesizeDistinctTones(t *testing.T) {
	harp := Synthesize(routine.SoundHarp)
	bell := Synthesize(routine.SoundBell)
	assert.NotEqual(t, harp, bell)
}

func TestSynthesizeEnvelopeDecays(t *testing.T) {
	wav := Synthesize(routine.SoundBell)
	samples := wav[44:]

	peak := func(from, to int) int16 {
		var max int16
		for i := from; i+1 < to; i += 2 {
			v := int16(binary.LittleEndian.Uint16(samples[i : i+2]))
			if v < 0 {
				v = -v
			}
			if v > max {
				max = v
			}
		}
		return max
	}

	head := peak(0, len(samples)/10)
	tail := peak(len(samples)*9/10, len(samples))
	assert.Greater(t, head, tail, "cue must fade out")
}
