package cosmac

import (
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/okeefe/c8/chip8"
)

// GUI is the windowed front end: it paints the Runner's frames into a
// shiny window at the timer rate and feeds key transitions back.
type GUI struct {
	r *Runner

	src   *image.RGBA // the 64x32 frame, rasterized
	buf   screen.Buffer
	dirty bool
}

func NewGUI(r *Runner) *GUI {
	return &GUI{
		r:   r,
		src: image.NewRGBA(image.Rect(0, 0, chip8.DisplayWidth, chip8.DisplayHeight)),
	}
}

var (
	pixelOn  = color.RGBA{0xf2, 0xf2, 0xf2, 0xff}
	pixelOff = color.RGBA{0x10, 0x10, 0x10, 0xff}
)

// keymap is the conventional mapping of the 4x4 CHIP-8 keypad onto
// the left-hand side of a modern keyboard.
var keymap = map[key.Code]byte{
	key.Code1: 0x1, key.Code2: 0x2, key.Code3: 0x3, key.Code4: 0xc,
	key.CodeQ: 0x4, key.CodeW: 0x5, key.CodeE: 0x6, key.CodeR: 0xd,
	key.CodeA: 0x7, key.CodeS: 0x8, key.CodeD: 0x9, key.CodeF: 0xe,
	key.CodeZ: 0xa, key.CodeX: 0x0, key.CodeC: 0xb, key.CodeV: 0xf,
}

// Run drives the window until exit is closed, the window is closed,
// or Escape is pressed.
func (g *GUI) Run(exit <-chan bool) error {
	driver.Main(func(s screen.Screen) {
		w, err := s.NewWindow(&screen.NewWindowOptions{
			Title:  "c8",
			Width:  chip8.DisplayWidth * 10,
			Height: chip8.DisplayHeight * 10,
		})
		if err != nil {
			log.Fatal(err)
		}
		defer w.Release()
		defer g.release()

		type update struct{}
		go func() {
			t := time.NewTicker(time.Second / TimerHz)
			defer t.Stop()
			for {
				select {
				case <-t.C:
					w.Send(update{})
				case <-exit:
					w.Send(lifecycle.Event{To: lifecycle.StageDead})
					return
				}
			}
		}()

		var sz size.Event
		for {
			switch e := w.NextEvent().(type) {
			case lifecycle.Event:
				if e.To == lifecycle.StageDead {
					return
				}

			case size.Event:
				sz = e
				if sz.WidthPx+sz.HeightPx == 0 {
					return
				}
				g.resize(s, sz)

			case key.Event:
				if e.Code == key.CodeEscape {
					return
				}
				if k, ok := keymap[e.Code]; ok {
					switch e.Direction {
					case key.DirPress:
						g.r.Key(k, true)
					case key.DirRelease:
						g.r.Key(k, false)
					}
				}

			case update:
				select {
				case f := <-g.r.Frames():
					g.rasterize(f)
				default:
				}
				if g.dirty && g.buf != nil {
					g.scale()
					w.Upload(image.Point{}, g.buf, g.buf.Bounds())
					w.Publish()
					g.dirty = false
				}

			case paint.Event:
				if g.buf != nil {
					w.Upload(image.Point{}, g.buf, g.buf.Bounds())
					w.Publish()
				}

			case error:
				log.Print(e)
			}
		}
	})
	return nil
}

func (g *GUI) resize(s screen.Screen, sz size.Event) {
	g.release()
	var err error
	g.buf, err = s.NewBuffer(image.Point{sz.WidthPx, sz.HeightPx})
	if err != nil {
		log.Fatalf("gui: %v", err)
	}
	g.dirty = true
}

func (g *GUI) release() {
	if g.buf != nil {
		g.buf.Release()
		g.buf = nil
	}
}

func (g *GUI) rasterize(f *Frame) {
	for i, v := range f.Pix {
		c := pixelOff
		if v != 0 {
			c = pixelOn
		}
		p := g.src.Pix[i*4:]
		p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
	}
	g.dirty = true
}

// scale draws the 64x32 frame into the window buffer at the largest
// integer multiple that fits, centered, with nearest-neighbor
// filtering so the pixels stay square and sharp.
func (g *GUI) scale() {
	dst := g.buf.RGBA()
	draw.Draw(dst, dst.Bounds(), image.NewUniform(pixelOff), image.Point{}, draw.Src)

	bw, bh := dst.Bounds().Dx(), dst.Bounds().Dy()
	n := min(bw/chip8.DisplayWidth, bh/chip8.DisplayHeight)
	if n < 1 {
		n = 1
	}
	w, h := chip8.DisplayWidth*n, chip8.DisplayHeight*n
	r := image.Rect(0, 0, w, h).Add(image.Point{(bw - w) / 2, (bh - h) / 2})
	xdraw.NearestNeighbor.Scale(dst, r, g.src, g.src.Bounds(), xdraw.Src, nil)
}
