package cosmac

import (
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

const (
	beepRate = 44100
	beepHz   = 440
	beepAmp  = 6000
)

// beeper emits a square wave through oto while on. The single-tone
// buzzer is all the machine's audio surface amounts to.
type beeper struct {
	ctx    *oto.Context
	player *oto.Player
	on     atomic.Bool
	phase  int // mutated only by Read, on oto's goroutine
}

// NewBeeper opens the system audio device and returns a Beeper that
// plays a steady tone while on.
func NewBeeper() (Beeper, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   beepRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready
	b := &beeper{ctx: ctx}
	b.player = ctx.NewPlayer(b)
	b.player.Play()
	return b, nil
}

func (b *beeper) Beep(on bool) { b.on.Store(on) }

// Read generates samples for oto: a square wave while the beeper is
// on, silence otherwise. The phase keeps advancing while silent so
// the tone resumes without a click.
func (b *beeper) Read(p []byte) (int, error) {
	const period = beepRate / beepHz
	on := b.on.Load()
	n := len(p) &^ 1
	for i := 0; i < n; i += 2 {
		var s int16
		if on {
			s = beepAmp
			if b.phase >= period/2 {
				s = -beepAmp
			}
		}
		p[i] = byte(s)
		p[i+1] = byte(s >> 8)
		b.phase = (b.phase + 1) % period
	}
	return n, nil
}
