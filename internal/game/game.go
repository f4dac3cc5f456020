package game

import (
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	// aimKeyRate and powerKeyRate are the per-frame deltas fed to the
	// engine while the arrow keys are held.
	aimKeyRate   = 0.02
	powerKeyRate = 0.6
)

// tankPalette colors the roster in order, wrapping for large matches.
var tankPalette = []color.RGBA{
	{R: 205, G: 92, B: 72, A: 255},
	{R: 95, G: 140, B: 205, A: 255},
	{R: 110, G: 175, B: 95, A: 255},
	{R: 200, G: 170, B: 80, A: 255},
}

var deadTankColor = color.RGBA{R: 70, G: 66, B: 60, A: 255}

// Config carries the shell settings resolved by the launcher.
type Config struct {
	WindowW, WindowH int
	FieldW, FieldH   int
	Seed             int64
	Tanks            int
	AutoFire         bool
	Audio            bool
	ReportWindow     int
}

// Game is the ebiten shell around the simulation: input, rendering,
// sound and the speed-controlled tick loop.
type Game struct {
	cfg Config

	sim  *Sim
	snap SimSnapshot

	// Offscreen buffer for the battlefield at field resolution. The
	// camera transform is applied on blit so zoom stays pixel-crisp.
	worldBuf   *ebiten.Image
	terrainImg *ebiten.Image
	pix        []byte
	pixTick    int

	hud hudState

	// Camera pan + zoom, in field coordinates.
	camX    float64
	camY    float64
	camZoom float64

	prevKeys  map[ebiten.Key]bool
	showDebug bool

	// Simulation speed control: 0=paused, 0.5, 1, 2, 4.
	simSpeed  float64
	tickAccum float64

	// EMA of the sim batch cost per frame, for the debug overlay.
	tickDurEMA float64

	reporter *MatchReporter
	audio    *AudioSystem
	restarts int
}

// New builds the shell and its first match.
func New(cfg Config) (*Game, error) {
	g := &Game{
		cfg:      cfg,
		prevKeys: make(map[ebiten.Key]bool),
		simSpeed: 1.0,
	}
	if err := g.hud.init(); err != nil {
		return nil, err
	}
	g.sim = g.newSim(cfg.Seed)
	g.snap = g.sim.Snapshot()
	g.reporter = NewMatchReporter(cfg.ReportWindow)
	g.worldBuf = ebiten.NewImage(cfg.FieldW, cfg.FieldH)
	g.terrainImg = ebiten.NewImage(cfg.FieldW, cfg.FieldH)
	g.pix = make([]byte, cfg.FieldW*cfg.FieldH*4)
	g.pixTick = -1
	g.camX = float64(cfg.FieldW) / 2
	g.camY = float64(cfg.FieldH) / 2
	g.camZoom = 1.0
	if cfg.Audio {
		audio, err := NewAudioSystem()
		if err == nil {
			g.audio = audio
		}
		// No device is not fatal, the match runs silent.
	}
	return g, nil
}

func (g *Game) newSim(seed int64) *Sim {
	opts := []SimOption{
		WithFieldSize(g.cfg.FieldW, g.cfg.FieldH),
		WithSeed(seed),
		WithTankCount(g.cfg.Tanks),
	}
	if g.cfg.AutoFire {
		opts = append(opts, WithAutoFire())
	}
	return NewSim(opts...)
}

// restart starts a fresh match on a seed derived from the configured
// one, so every press of R gets a new battlefield reproducibly.
func (g *Game) restart() {
	g.restarts++
	g.sim = g.newSim(DeriveSeed(g.cfg.Seed, g.restarts))
	g.snap = g.sim.Snapshot()
	g.reporter = NewMatchReporter(g.cfg.ReportWindow)
	g.tickAccum = 0
	g.pixTick = -1
}

func (g *Game) Update() error {
	if err := g.handleInput(); err != nil {
		return err
	}
	if g.simSpeed <= 0 {
		return nil
	}

	// For speeds > 1 run multiple sim ticks per frame; for speeds < 1
	// accumulate fractions.
	g.tickAccum += g.simSpeed
	ran := false
	start := time.Now()
	for g.tickAccum >= 1.0 {
		g.tickAccum -= 1.0
		g.sim.Update()
		ran = true
		if g.sim.Tick()%60 == 0 {
			g.reporter.Collect(g.sim.Snapshot())
		}
	}
	if ran {
		g.tickDurEMA = g.tickDurEMA*0.9 + time.Since(start).Seconds()*0.1
		prev := g.snap
		g.snap = g.sim.Snapshot()
		g.triggerAudio(prev, g.snap)
	}
	return nil
}

// triggerAudio diffs consecutive snapshots and fires the matching
// effects.
func (g *Game) triggerAudio(prev, cur SimSnapshot) {
	if g.audio == nil {
		return
	}
	if cur.VolleysFired > prev.VolleysFired {
		g.audio.PlayShot()
	}
	if cur.Phase == PhaseExplosions && prev.Phase != PhaseExplosions {
		r := 0.0
		for _, e := range cur.Explosions {
			if e.Radius > r {
				r = e.Radius
			}
		}
		g.audio.PlayBlast(r)
	}
	if cur.Phase == PhaseGameOver && prev.Phase != PhaseGameOver {
		g.audio.PlayMatchOver()
		return
	}
	if cur.TurnIndex != prev.TurnIndex && cur.TurnIndex >= 0 {
		g.audio.PlayTurn()
	}
}

// handleInput processes keypresses every frame regardless of sim speed.
// Toggles are edge-triggered, aim and power repeat while held.
func (g *Game) handleInput() error {
	currentKeys := map[ebiten.Key]bool{}
	pressed := func(k ebiten.Key) bool {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		return currentKeys[k] && !g.prevKeys[k]
	}

	quit := pressed(ebiten.KeyEscape)

	// Turret control feeds the engine only during the control phase so
	// buffered input can't pile up across a volley.
	if g.snap.Phase == PhaseControl {
		if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
			g.sim.SetAim(-aimKeyRate)
		}
		if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
			g.sim.SetAim(aimKeyRate)
		}
		if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
			g.sim.SetPower(powerKeyRate)
		}
		if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
			g.sim.SetPower(-powerKeyRate)
		}
		if pressed(ebiten.KeySpace) {
			g.sim.RequestFire()
		}
	} else {
		// Track edges anyway so holding space across phases doesn't
		// fire the instant control returns.
		pressed(ebiten.KeySpace)
	}

	if pressed(ebiten.KeyR) {
		g.restart()
	}
	if pressed(ebiten.KeyTab) {
		g.showDebug = !g.showDebug
	}
	if pressed(ebiten.KeyM) {
		g.audio.ToggleMuted()
	}
	if pressed(ebiten.KeyF12) {
		g.copyDebugReport()
	}

	// Camera pan: WASD.
	panSpeed := 3.0 / g.camZoom
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		g.camY -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		g.camY += panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		g.camX -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		g.camX += panSpeed
	}

	// Camera zoom: mouse wheel or =/- keys.
	const zoomMin, zoomMax = 1.0, 6.0
	_, wy := ebiten.Wheel()
	if wy != 0 {
		g.camZoom *= math.Pow(1.12, wy)
	}
	if pressed(ebiten.KeyEqual) {
		g.camZoom *= 1.25
	}
	if pressed(ebiten.KeyMinus) {
		g.camZoom /= 1.25
	}
	if g.camZoom < zoomMin {
		g.camZoom = zoomMin
	}
	if g.camZoom > zoomMax {
		g.camZoom = zoomMax
	}

	// Clamp camera centre to field bounds, accounting for zoom.
	halfVW := float64(g.cfg.FieldW) / 2 / g.camZoom
	halfVH := float64(g.cfg.FieldH) / 2 / g.camZoom
	g.camX = clampF(g.camX, halfVW, float64(g.cfg.FieldW)-halfVW)
	g.camY = clampF(g.camY, halfVH, float64(g.cfg.FieldH)-halfVH)

	// Sim speed controls: P=pause/resume, ,=slower, .=faster.
	speeds := []float64{0, 0.5, 1, 2, 4}
	if pressed(ebiten.KeyP) {
		if g.simSpeed > 0 {
			g.simSpeed = 0
		} else {
			g.simSpeed = 1
		}
	}
	if pressed(ebiten.KeyComma) {
		for i, s := range speeds {
			if s >= g.simSpeed && i > 0 {
				g.simSpeed = speeds[i-1]
				break
			}
		}
	}
	if pressed(ebiten.KeyPeriod) {
		for i, s := range speeds {
			if s <= g.simSpeed && i < len(speeds)-1 {
				if speeds[i+1] > g.simSpeed {
					g.simSpeed = speeds[i+1]
					break
				}
			}
		}
	}

	g.prevKeys = currentKeys
	if quit {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 10, G: 12, B: 18, A: 255})

	g.worldBuf.Clear()
	g.drawWorld(g.worldBuf)

	// Camera transform: translate so camX/camY is at the window
	// centre, then scale by pixel size times zoom.
	s := g.baseScale() * g.camZoom
	var cam ebiten.GeoM
	cam.Translate(-g.camX, -g.camY)
	cam.Scale(s, s)
	cam.Translate(float64(g.cfg.WindowW)/2, float64(g.cfg.WindowH)/2)
	screen.DrawImage(g.worldBuf, &ebiten.DrawImageOptions{GeoM: cam})

	g.drawHUD(screen)
	if g.showDebug {
		g.drawDebugOverlay(screen)
	}
}

// baseScale is the window-pixels-per-cell factor at zoom 1.
func (g *Game) baseScale() float64 {
	return float64(g.cfg.WindowW) / float64(g.cfg.FieldW)
}

// drawWorld renders the battlefield at field resolution: terrain
// pixels, then tanks, shots and blasts on top.
func (g *Game) drawWorld(buf *ebiten.Image) {
	if g.pixTick != g.snap.Tick {
		g.buildTerrainPixels()
		g.pixTick = g.snap.Tick
	}
	buf.DrawImage(g.terrainImg, nil)

	for i, tk := range g.snap.Tanks {
		g.drawTank(buf, i, tk)
	}

	trail := color.RGBA{R: 255, G: 244, B: 214, A: 90}
	shot := color.RGBA{R: 255, G: 250, B: 235, A: 255}
	for _, p := range g.snap.Projectiles {
		x, y := float32(p.X), float32(p.Y)
		vector.StrokeLine(buf, x-float32(p.VX), y-float32(p.VY), x, y, 1.0, trail, false)
		vector.FillCircle(buf, x, y, 1.3, shot, false)
	}

	if g.snap.Phase == PhaseExplosions {
		g.drawBlasts(buf)
	}
}

// buildTerrainPixels rasterizes the snapshot grid into an RGBA buffer:
// sky gradient behind, sand shaded darker with depth.
func (g *Game) buildTerrainPixels() {
	w, h := g.snap.FieldW, g.snap.FieldH
	i := 0
	for y := 0; y < h; y++ {
		depth := float64(y) / float64(h)
		skyR := uint8(16 + 26*depth)
		skyG := uint8(22 + 30*depth)
		skyB := uint8(42 + 38*depth)
		sandR := uint8(198 - 52*depth)
		sandG := uint8(158 - 48*depth)
		sandB := uint8(96 - 34*depth)
		for x := 0; x < w; x++ {
			if g.snap.Terrain[y*w+x] {
				g.pix[i] = sandR
				g.pix[i+1] = sandG
				g.pix[i+2] = sandB
			} else {
				g.pix[i] = skyR
				g.pix[i+1] = skyG
				g.pix[i+2] = skyB
			}
			g.pix[i+3] = 0xff
			i += 4
		}
	}
	g.terrainImg.WritePixels(g.pix)
}

func (g *Game) drawTank(buf *ebiten.Image, i int, tk TankSnapshot) {
	col := tankPalette[i%len(tankPalette)]
	if tk.Health <= 0 {
		col = deadTankColor
	}
	x, y := float32(tk.X), float32(tk.Y)

	// Hull with a darker track strip along the bottom edge.
	vector.FillRect(buf, x-tankHalfWidth, y-tankHalfHeight,
		2*tankHalfWidth+1, 2*tankHalfHeight+1, col, false)
	track := color.RGBA{R: col.R / 2, G: col.G / 2, B: col.B / 2, A: 255}
	vector.FillRect(buf, x-tankHalfWidth, y+tankHalfHeight,
		2*tankHalfWidth+1, 1, track, false)

	if tk.Health > 0 {
		mx := x + float32(math.Cos(tk.Angle)*turretLength)
		my := y + float32(math.Sin(tk.Angle)*turretLength)
		vector.StrokeLine(buf, x, y-1, mx, my, 1.4, col, false)
	}

	// Active-tank marker during the control phase.
	if i == g.snap.TurnIndex && g.snap.Phase == PhaseControl {
		mk := color.RGBA{R: 255, G: 240, B: 120, A: 230}
		top := y - tankHalfHeight - 9
		vector.StrokeLine(buf, x-3, top, x, top+4, 1.0, mk, false)
		vector.StrokeLine(buf, x+3, top, x, top+4, 1.0, mk, false)
	}
}

// drawBlasts renders the countdown animation: a flash core that
// shrinks and a shockwave ring that expands to the crater radius.
func (g *Game) drawBlasts(buf *ebiten.Image) {
	p := float64(explosionDuration-g.snap.ExplosionTicks) / explosionDuration
	for _, e := range g.snap.Explosions {
		x, y := float32(e.X), float32(e.Y)
		r := float32(e.Radius)

		flash := 1.0 - p*2
		if flash > 0 {
			core := color.RGBA{R: 255, G: 236, B: 180, A: uint8(220 * flash)}
			vector.FillCircle(buf, x, y, r*float32(0.4+0.6*flash), core, false)
		}
		ring := color.RGBA{R: 255, G: 170, B: 80, A: uint8(200 * (1 - p))}
		vector.StrokeCircle(buf, x, y, r*float32(p), 1.2, ring, false)
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.cfg.WindowW, g.cfg.WindowH
}
