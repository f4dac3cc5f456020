package game

import (
	"io"
	"math"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/oto/v2"
)

const (
	sampleRate   = 44100
	channelCount = 2
	bitDepth     = 0 // 32-bit float (oto.FormatFloat32LE)

	sfxVolume = 0.55

	// maxVoices caps simultaneous effects so overlapping blasts don't
	// stack into clipping.
	maxVoices = 6
)

// AudioSystem synthesizes short procedural effects and streams them
// through oto. There are no sound assets. A nil system is valid and
// silently drops every request, so the shell can run without a device.
type AudioSystem struct {
	ctx    *oto.Context
	ready  chan struct{}
	muted  atomic.Bool
	voices atomic.Int32
}

// NewAudioSystem opens the audio device. Sounds requested before the
// device finishes initializing are dropped rather than queued.
func NewAudioSystem() (*AudioSystem, error) {
	ctx, ready, err := oto.NewContext(sampleRate, channelCount, bitDepth)
	if err != nil {
		return nil, err
	}
	return &AudioSystem{ctx: ctx, ready: ready}, nil
}

// ToggleMuted flips the mute flag and reports the new state.
func (a *AudioSystem) ToggleMuted() bool {
	if a == nil {
		return true
	}
	muted := !a.muted.Load()
	a.muted.Store(muted)
	return muted
}

// PlayShot fires the launch sound.
func (a *AudioSystem) PlayShot() {
	a.play(genShot())
}

// PlayBlast plays a detonation whose timbre scales with the blast
// radius: bigger craters are deeper and longer.
func (a *AudioSystem) PlayBlast(radius float64) {
	a.play(genBlast(radius))
}

// PlayTurn plays a short blip when control passes to the next tank.
func (a *AudioSystem) PlayTurn() {
	a.play(genTurnBlip())
}

// PlayMatchOver plays the end-of-match chord.
func (a *AudioSystem) PlayMatchOver() {
	a.play(genMatchOver())
}

func (a *AudioSystem) play(samples []byte) {
	if a == nil || len(samples) == 0 || a.muted.Load() {
		return
	}
	select {
	case <-a.ready:
	default:
		return
	}
	if a.voices.Load() >= maxVoices {
		return
	}
	a.voices.Add(1)
	go func() {
		defer a.voices.Add(-1)
		player := a.ctx.NewPlayer(&soundReader{data: samples})
		player.SetVolume(sfxVolume)
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		player.Close()
	}()
}

type soundReader struct {
	data []byte
	pos  int
}

func (r *soundReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// putStereoF32 writes a [-1,1] sample as float32 LE to both stereo
// channels at frame i.
func putStereoF32(buf []byte, i int, sample float64) {
	v := math.Float32bits(float32(sample))
	buf[i*8] = byte(v)
	buf[i*8+1] = byte(v >> 8)
	buf[i*8+2] = byte(v >> 16)
	buf[i*8+3] = byte(v >> 24)
	buf[i*8+4] = byte(v)
	buf[i*8+5] = byte(v >> 8)
	buf[i*8+6] = byte(v >> 16)
	buf[i*8+7] = byte(v >> 24)
}

// makeBuf allocates a stereo float32 buffer for n samples.
func makeBuf(n int) []byte { return make([]byte, n*8) }

// softClip keeps summed voices inside [-1,1] without hard edges.
func softClip(x float64) float64 { return math.Tanh(x) }

// adsr returns an envelope at normalized progress [0,1].
// attack/decay/release are fractions of the total duration.
func adsr(progress, attack, decay, sustain, release float64) float64 {
	switch {
	case progress < attack:
		return progress / attack
	case progress < attack+decay:
		return 1.0 - (progress-attack)/decay*(1.0-sustain)
	case progress < 1.0-release:
		return sustain
	default:
		return sustain * (1.0 - (progress-(1.0-release))/release)
	}
}

// fmTone returns an FM-synthesized sample. carrier is the base
// frequency, modRatio the modulator/carrier ratio, modIdx the depth.
func fmTone(t, carrier, modRatio, modIdx float64) float64 {
	mod := math.Sin(2 * math.Pi * carrier * modRatio * t)
	return math.Sin(2*math.Pi*carrier*t + modIdx*mod)
}

// noiseLCG advances an LCG seed and returns a sample in [-1,1].
func noiseLCG(seed *uint64) float64 {
	*seed = *seed*6364136223846793005 + 1442695040888963407
	return float64(int64(*seed>>33)-int64(1<<30)) / float64(1<<30)
}

// genShot: muzzle whump, a pitch-dropping thud under a short noise
// crack.
func genShot() []byte {
	n := int(0.14 * sampleRate)
	buf := makeBuf(n)
	seed := uint64(0x5E1F)
	for i := 0; i < n; i++ {
		t := float64(i) / sampleRate
		p := float64(i) / float64(n)
		crack := 0.0
		if p < 0.05 {
			crack = noiseLCG(&seed) * (1 - p/0.05) * 0.5
		}
		thumpFreq := 180 * math.Pow(0.18, p)
		thump := math.Sin(2*math.Pi*thumpFreq*t) * math.Exp(-p*14) * 0.6
		hiss := noiseLCG(&seed) * math.Exp(-p*18) * 0.12
		putStereoF32(buf, i, softClip(crack+thump+hiss))
	}
	return buf
}

// genBlast: sub boom plus bandpassed noise body, scaled by the blast
// radius so the largest shells rumble and the smallest snap.
func genBlast(radius float64) []byte {
	norm := clampF((radius-blastRadiusMin)/(blastRadiusMax-blastRadiusMin), 0, 1)
	dur := 0.30 + 0.45*norm
	n := int(dur * sampleRate)
	buf := makeBuf(n)
	seed := uint64(time.Now().UnixNano()) ^ uint64(radius*4096)
	lp1, lp2 := 0.0, 0.0
	subPhase := 0.0
	for i := 0; i < n; i++ {
		p := float64(i) / float64(n)

		subStart := 140.0 - 55.0*norm
		subEnd := 30.0 - 14.0*norm
		subFreq := subStart * math.Pow(subEnd/subStart, p*(1.5+1.2*norm))
		subPhase += 2 * math.Pi * subFreq / sampleRate
		sub := math.Sin(subPhase) * math.Exp(-p*(6.5-3.0*norm)) * (0.45 + 0.3*norm)

		crack := 0.0
		crackWin := 0.03 - 0.015*norm
		if p < crackWin {
			crack = noiseLCG(&seed) * (1 - p/crackWin) * (0.8 - 0.25*norm)
		}

		raw := noiseLCG(&seed)
		lp1 = lp1*0.78 + raw*0.22
		lp2 = lp2*0.97 + raw*0.03
		body := (lp1 - lp2) * math.Exp(-p*(5.8-2.0*norm)) * (0.3 + 0.18*norm)

		putStereoF32(buf, i, softClip((sub+crack+body)*0.85))
	}
	return buf
}

// genTurnBlip: crisp two-tone click.
func genTurnBlip() []byte {
	n := sampleRate * 70 / 1000
	buf := makeBuf(n)
	for i := 0; i < n; i++ {
		t := float64(i) / sampleRate
		p := float64(i) / float64(n)
		env := adsr(p, 0.005, 0.5, 0.0, 0.12)
		freq := 1100.0
		if p > 0.45 {
			freq = 1480.0
		}
		putStereoF32(buf, i, softClip(fmTone(t, freq, 1.0, 0.5)*env*0.35))
	}
	return buf
}

// genMatchOver: slow staggered minor chord.
func genMatchOver() []byte {
	dur := 0.8
	n := int(dur * sampleRate)
	notes := []struct{ freq, onset float64 }{
		{329.63, 0.00},
		{261.63, 0.15},
		{220.00, 0.30},
	}
	mix := make([]float64, n)
	for _, note := range notes {
		start := int(note.onset * sampleRate)
		for i := start; i < n; i++ {
			t := float64(i) / sampleRate
			np := float64(i-start) / float64(n-start)
			env := adsr(np, 0.01, 0.25, 0.3, 0.45)
			freq := note.freq * (1 - np*0.02)
			s := fmTone(t, freq, 2.0, 2.0*env) * env * 0.3
			s += math.Sin(2*math.Pi*freq*0.5*t) * env * 0.1
			mix[i] += s
		}
	}
	buf := makeBuf(n)
	for i, s := range mix {
		putStereoF32(buf, i, softClip(s))
	}
	return buf
}
