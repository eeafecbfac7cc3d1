package main

import (
	"fmt"
	"sync"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/okeefe/c8/chip8"
	"github.com/okeefe/c8/cosmac"
)

// termKeymap maps terminal runes onto the 16-key pad, mirroring the
// GUI's layout.
var termKeymap = map[rune]byte{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xc,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xd,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xe,
	'z': 0xa, 'x': 0x0, 'c': 0xb, 'v': 0xf,
}

// keyRelease is how long after its last press a key is considered
// released; terminals deliver no key-up events.
const keyRelease = 120 * time.Millisecond

type termUI struct {
	r *cosmac.Runner

	app    *tview.Application
	view   *tview.Box
	status *tview.TextView
	rows   *tview.Flex

	mu      sync.Mutex
	frame   *cosmac.Frame
	release map[byte]*time.Timer
}

// termRun renders the machine in the terminal until the user quits or
// exit is closed. Each pixel buffer cell maps to half a terminal
// cell, drawn with the upper-half-block rune.
func termRun(r *cosmac.Runner, romName string, speed int, exit <-chan bool) error {
	t := &termUI{
		r:       r,
		app:     tview.NewApplication(),
		view:    tview.NewBox(),
		status:  tview.NewTextView(),
		release: make(map[byte]*time.Timer),
	}
	t.view.SetDrawFunc(t.drawFrame)
	fmt.Fprintf(t.status, " %s | %d ips | keys: 1234 qwer asdf zxcv | esc quits", romName, speed)
	t.rows = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.view, 0, 1, true).
		AddItem(t.status, 1, 0, false)
	t.app.SetRoot(t.rows, true)
	t.app.SetInputCapture(t.inputCapture)

	go func() {
		for {
			select {
			case f := <-r.Frames():
				t.mu.Lock()
				t.frame = f
				t.mu.Unlock()
				t.app.QueueUpdateDraw(func() {})
			case <-exit:
				t.app.Stop()
				return
			}
		}
	}()

	return t.app.Run()
}

func (t *termUI) drawFrame(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	t.mu.Lock()
	f := t.frame
	t.mu.Unlock()

	const w, h = chip8.DisplayWidth, chip8.DisplayHeight / 2
	ox, oy := x+(width-w)/2, y+(height-h)/2
	if ox < x {
		ox = x
	}
	if oy < y {
		oy = y
	}
	for ty := 0; ty < h && oy+ty < y+height; ty++ {
		for tx := 0; tx < w && ox+tx < x+width; tx++ {
			var top, bot bool
			if f != nil {
				top = f.Pix[2*ty*chip8.DisplayWidth+tx] != 0
				bot = f.Pix[(2*ty+1)*chip8.DisplayWidth+tx] != 0
			}
			st := tcell.StyleDefault.
				Foreground(pixColor(top)).
				Background(pixColor(bot))
			screen.SetContent(ox+tx, oy+ty, '▀', nil, st)
		}
	}
	return x, y, width, height
}

func pixColor(on bool) tcell.Color {
	if on {
		return tcell.ColorWhite
	}
	return tcell.ColorBlack
}

func (t *termUI) inputCapture(ev *tcell.EventKey) *tcell.EventKey {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		t.app.Stop()
		return nil
	case tcell.KeyRune:
		if k, ok := termKeymap[unicode.ToLower(ev.Rune())]; ok {
			t.press(k)
			return nil
		}
	}
	return ev
}

// press reports the key down and schedules its synthetic release,
// extending the deadline if the terminal repeats the press first.
func (t *termUI) press(k byte) {
	t.r.Key(k, true)
	t.mu.Lock()
	defer t.mu.Unlock()
	if timer, ok := t.release[k]; ok {
		timer.Reset(keyRelease)
		return
	}
	t.release[k] = time.AfterFunc(keyRelease, func() { t.r.Key(k, false) })
}
