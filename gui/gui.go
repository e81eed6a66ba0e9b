// Package gui is an interactive terminal view of a running erosion
// simulation.
package gui

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/ob6160/Erosion1D/terrain"
)

// Simulation is the part of the stepper the viewer drives.
type Simulation interface {
	Update()
	Step()
	Toggle()
	IsRunning() bool
	Reset() error
	Regenerate(spread, reduce float64) error
	Deluge(amount float64)
	Rain(rng *rand.Rand, drops int, size float64)
	Columns() int
	Iterations() int
	Snapshot() terrain.Profile
}

type Settings struct {
	Spread, Reduce float64
	DelugeAmount   float64
	// RainSize is the height of one raindrop. A shower drops one per column,
	// a heavy shower ten.
	RainSize float64
	Seed     int64
}

const heavyRain = 10

const help = "space start/stop  s step  r reset  n regenerate  d deluge  w/W rain  q quit"

var (
	headerStyle = tcell.StyleDefault.Bold(true)
	helpStyle   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	errorStyle  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	solidStyle  = tcell.StyleDefault.Foreground(tcell.ColorSaddleBrown)
	mobileStyle = tcell.StyleDefault.Foreground(tcell.ColorKhaki)
)

type GUI struct {
	screen      tcell.Screen
	settings    Settings
	shouldClose bool
	status      string
	rng         *rand.Rand
}

func NewGUI(screen tcell.Screen, settings Settings) (*GUI, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault)
	screen.Clear()
	return &GUI{screen: screen, settings: settings, rng: rand.New(rand.NewSource(settings.Seed))}, nil
}

func (g *GUI) ShouldClose() bool {
	return g.shouldClose
}

func (g *GUI) GetSize() (int, int) {
	return g.screen.Size()
}

func (g *GUI) Dispose() {
	g.screen.Fini()
}

// HandleEvent applies one key press to the simulation.
func (g *GUI) HandleEvent(ev tcell.Event, sim Simulation) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			g.shouldClose = true
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				g.shouldClose = true
			case ' ':
				sim.Toggle()
			case 's':
				sim.Step()
			case 'r':
				g.setStatus(sim.Reset())
			case 'n':
				g.setStatus(sim.Regenerate(g.settings.Spread, g.settings.Reduce))
			case 'd':
				sim.Deluge(g.settings.DelugeAmount)
			case 'w':
				sim.Rain(g.rng, sim.Columns(), g.settings.RainSize)
			case 'W':
				sim.Rain(g.rng, sim.Columns()*heavyRain, g.settings.RainSize)
			}
		}
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

func (g *GUI) setStatus(err error) {
	if err != nil {
		g.status = err.Error()
		return
	}
	g.status = ""
}

// Render draws a header, one bar per column and the key help.
func (g *GUI) Render(sim Simulation) {
	g.screen.Clear()
	width, height := g.screen.Size()

	var p = sim.Snapshot()
	var totals = p.Totals()
	var state = "stopped"
	if sim.IsRunning() {
		state = "running"
	}
	g.drawText(0, 0, fmt.Sprintf("step %d  %s  solid %.6f  mobile %.6f  variance %.6g",
		sim.Iterations(), state, totals.X(), totals.Y(), p.Variance()), headerStyle)
	if g.status != "" {
		g.drawText(0, 1, g.status, errorStyle)
	}
	g.drawText(0, height-1, help, helpStyle)

	var top, bottom = 2, height - 1
	g.drawBars(p, width, top, bottom)
	g.screen.Show()
}

// drawBars fills rows [top, bottom) with the profile, scaled so the highest
// column reaches top.
func (g *GUI) drawBars(p terrain.Profile, width, top, bottom int) {
	var plotHeight = bottom - top
	var columns = p.Len()
	var highest = p.MaxElevation()
	if plotHeight < 1 || columns == 0 || highest <= 0 {
		return
	}

	var columnWidth = width / columns
	var barWidth = columnWidth
	if columnWidth > 1 {
		barWidth = columnWidth - 1
	}
	if barWidth < 1 {
		return
	}

	var rows = func(v float64) int {
		return int(math.Round(math.Max(0, math.Min(1, v/highest)) * float64(plotHeight)))
	}

	for c := 0; c < columns; c++ {
		var solidRows = rows(p.Solid[c])
		var totalRows = rows(p.Solid[c] + p.Mobile[c])
		for r := 0; r < totalRows; r++ {
			var ch, style = '█', solidStyle
			if r >= solidRows {
				ch, style = '▒', mobileStyle
			}
			for i := 0; i < barWidth; i++ {
				g.screen.SetContent(c*columnWidth+i, bottom-1-r, ch, nil, style)
			}
		}
	}
}

func (g *GUI) drawText(x, y int, text string, style tcell.Style) {
	width, _ := g.screen.Size()
	for _, r := range text {
		if x >= width {
			return
		}
		g.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// Run redraws the simulation at fps frames per second, stepping it while it
// is running, until the user quits or ctx is cancelled.
func (g *GUI) Run(ctx context.Context, sim Simulation, fps int) error {
	if fps < 1 {
		fps = 1
	}
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go g.screen.ChannelEvents(events, quit)
	defer close(quit)

	fpsTicker := time.NewTicker(time.Second / time.Duration(fps))
	defer fpsTicker.Stop()

	g.Render(sim)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			g.HandleEvent(ev, sim)
			if g.ShouldClose() {
				return nil
			}
			g.Render(sim)
		case <-fpsTicker.C:
			sim.Update()
			g.Render(sim)
		}
	}
}
