package notify

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/niltonmoco5-source/The-super-bible/internal/routine"
)

const (
	sampleRate   = 16000
	cueSeconds   = 2.0
	startGain    = 0.1
	endGain      = 0.01
	maxAmplitude = 32767
)

// Synthesize renders the short audio cue for a sound id as a mono 16-bit WAV.
// Each id has its own tone and envelope; none yields nil.
//
//	harp:   sine, 440 Hz ramping to 880 Hz over 1 s
//	bell:   triangle, steady 1000 Hz
//	nature: sine, 200 Hz ramping to 400 Hz over 0.5 s
//
// All cues decay exponentially from 0.1 to 0.01 gain over 2 s.
func Synthesize(sound routine.Sound) []byte {
	var wave func(t, phase float64) (sample float64, freq float64)

	switch sound {
	case routine.SoundHarp:
		wave = func(t, phase float64) (float64, float64) {
			return math.Sin(2 * math.Pi * phase), rampFreq(t, 440, 880, 1.0)
		}
	case routine.SoundBell:
		wave = func(t, phase float64) (float64, float64) {
			return triangle(phase), 1000
		}
	case routine.SoundNature:
		wave = func(t, phase float64) (float64, float64) {
			return math.Sin(2 * math.Pi * phase), rampFreq(t, 200, 400, 0.5)
		}
	default:
		return nil
	}

	n := int(cueSeconds * sampleRate)
	samples := make([]int16, n)
	phase := 0.0
	for i := 0; i < n; i++ {
		t := float64(i) / sampleRate
		value, freq := wave(t, phase)
		gain := startGain * math.Pow(endGain/startGain, t/cueSeconds)
		samples[i] = int16(value * gain * maxAmplitude)
		phase += freq / sampleRate
	}

	return encodeWAV(samples)
}

// rampFreq follows the original exponential frequency ramp: from f0 to f1
// over ramp seconds, holding f1 afterwards.
func rampFreq(t, f0, f1, ramp float64) float64 {
	if t >= ramp {
		return f1
	}
	return f0 * math.Pow(f1/f0, t/ramp)
}

func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 2*math.Abs(2*p-1) - 1
}

func encodeWAV(samples []int16) []byte {
	dataLen := len(samples) * 2
	buf := &bytes.Buffer{}

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(buf, binary.LittleEndian, uint16(2))
	binary.Write(buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataLen))
	binary.Write(buf, binary.LittleEndian, samples)

	return buf.Bytes()
}
