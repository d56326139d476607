package viz

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"os"
)

// Each braille cell becomes a charW x charH block, each dot a quarter of it.
const (
	charW = 8
	charH = 16
)

var ErrNoFrames = errors.New("viz: no frames captured")

// GIFRecorder collects canvas frames for an animated GIF.
type GIFRecorder struct {
	frames []*image.Paletted
	delay  int
}

// NewGIFRecorder records frames shown for delay hundredths of a second.
func NewGIFRecorder(delay int) *GIFRecorder {
	if delay <= 0 {
		delay = 2
	}
	return &GIFRecorder{delay: delay}
}

func (g *GIFRecorder) Len() int { return len(g.frames) }

// Capture rasterises the canvas. Tinted cells keep their colour; the rest
// are drawn white on black.
func (g *GIFRecorder) Capture(c *Canvas) {
	pal := color.Palette{color.Black, color.White}
	index := map[string]uint8{}
	for _, row := range c.Tint {
		for _, t := range row {
			if t == nil || len(pal) == 256 {
				continue
			}
			if _, ok := index[t.Hex()]; !ok {
				index[t.Hex()] = uint8(len(pal))
				pal = append(pal, t.Clamped())
			}
		}
	}

	img := image.NewPaletted(image.Rect(0, 0, c.Width*charW, c.Height*charH), pal)
	dotW, dotH := charW/2, charH/4
	sw, sh := c.Dots()
	for y := 0; y < sh; y++ {
		for x := 0; x < sw; x++ {
			if !c.IsSet(x, y) {
				continue
			}
			ci := uint8(1)
			if t := c.Tint[y/4][x/2]; t != nil {
				if i, ok := index[t.Hex()]; ok {
					ci = i
				}
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, ci)
				}
			}
		}
	}
	g.frames = append(g.frames, img)
}

// Save writes the animation to path and drops the captured frames.
func (g *GIFRecorder) Save(path string) error {
	if len(g.frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range g.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, g.delay)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		return err
	}
	g.frames = g.frames[:0]
	return nil
}
