package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var (
	hudPanelBg = color.RGBA{R: 8, G: 10, B: 14, A: 170}
	hudText    = color.RGBA{R: 225, G: 228, B: 220, A: 255}
	hudDim     = color.RGBA{R: 150, G: 152, B: 146, A: 255}
	hudAccent  = color.RGBA{R: 255, G: 240, B: 120, A: 255}
)

// hudState holds the screen-space text faces, built once from the
// embedded Go Regular font.
type hudState struct {
	face    font.Face
	bigFace font.Face
}

func (h *hudState) init() error {
	tt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return err
	}
	h.face, err = opentype.NewFace(tt, &opentype.FaceOptions{
		Size:    15,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return err
	}
	h.bigFace, err = opentype.NewFace(tt, &opentype.FaceOptions{
		Size:    30,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	return err
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	snap := &g.snap
	if snap.Mode == ModeTurnBased {
		g.drawRosterPanel(screen, snap)
	}
	g.drawWindGauge(screen, snap)
	g.drawPhaseBanner(screen, snap)
	if snap.Phase == PhaseControl && snap.TurnIndex >= 0 {
		g.drawControlPanel(screen, snap)
	}
	if snap.Phase == PhaseGameOver {
		g.drawGameOverBanner(screen, snap)
	}
}

func (g *Game) drawRosterPanel(screen *ebiten.Image, snap *SimSnapshot) {
	x := float32(14)
	y := float32(14)
	lineH := float32(22)
	vector.FillRect(screen, x-6, y-6, 190, lineH*float32(len(snap.Tanks))+10, hudPanelBg, false)

	for i, tk := range snap.Tanks {
		col := tankPalette[i%len(tankPalette)]
		if tk.Health <= 0 {
			col = deadTankColor
		}
		vector.FillRect(screen, x, y+4, 10, 10, col, false)

		labelCol := color.Color(hudText)
		if tk.Health <= 0 {
			labelCol = hudDim
		}
		text.Draw(screen, tankLabel(i), g.hud.face, int(x)+16, int(y)+14, labelCol)
		if i == snap.TurnIndex {
			text.Draw(screen, ">", g.hud.face, int(x)-12+6, int(y)+14, hudAccent)
		}

		barX := x + 48
		barW := float32(110)
		vector.FillRect(screen, barX, y+5, barW, 8, color.RGBA{R: 38, G: 40, B: 38, A: 220}, false)
		if tk.Health > 0 {
			hp := float32(tk.Health/tankMaxHealth) * barW
			hpCol := color.RGBA{R: 118, G: 200, B: 92, A: 230}
			if tk.Health < tankMaxHealth*0.3 {
				hpCol = color.RGBA{R: 214, G: 96, B: 70, A: 230}
			}
			vector.FillRect(screen, barX, y+5, hp, 8, hpCol, false)
		}
		y += lineH
	}
}

// drawWindGauge draws the current wind as a signed bar from a centre
// tick: right keeps shots drifting right.
func (g *Game) drawWindGauge(screen *ebiten.Image, snap *SimSnapshot) {
	cx := float32(g.cfg.WindowW) - 100
	cy := float32(30)
	half := float32(64)

	vector.FillRect(screen, cx-half-8, cy-18, 2*half+16, 36, hudPanelBg, false)
	vector.StrokeLine(screen, cx-half, cy, cx+half, cy, 1.0, hudDim, false)
	vector.StrokeLine(screen, cx, cy-5, cx, cy+5, 1.0, hudDim, false)

	ext := float32(snap.Wind/windMax) * half
	if ext != 0 {
		windCol := color.RGBA{R: 120, G: 190, B: 255, A: 255}
		vector.StrokeLine(screen, cx, cy, cx+ext, cy, 3.0, windCol, false)
	}
	text.Draw(screen, fmt.Sprintf("wind %+.3f", snap.Wind), g.hud.face,
		int(cx)-40, int(cy)+14, hudDim)
}

func (g *Game) drawPhaseBanner(screen *ebiten.Image, snap *SimSnapshot) {
	str := snap.Phase.String()
	if g.simSpeed != 1 {
		str += "  [" + g.speedLabel() + "]"
	}
	w := text.BoundString(g.hud.face, str).Dx()
	text.Draw(screen, str, g.hud.face, (g.cfg.WindowW-w)/2, 24, hudDim)
}

func (g *Game) drawControlPanel(screen *ebiten.Image, snap *SimSnapshot) {
	tk := snap.Tanks[snap.TurnIndex]
	deg := (tk.Angle - math.Pi) * 180 / math.Pi

	cx := float32(g.cfg.WindowW) / 2
	y := float32(g.cfg.WindowH) - 58
	vector.FillRect(screen, cx-170, y-6, 340, 50, hudPanelBg, false)

	str := fmt.Sprintf("%s   angle %3.0f   power %3.0f", tankLabel(snap.TurnIndex), deg, tk.Power)
	w := text.BoundString(g.hud.face, str).Dx()
	text.Draw(screen, str, g.hud.face, g.cfg.WindowW/2-w/2, int(y)+12, hudText)

	barW := float32(300)
	barX := cx - barW/2
	vector.FillRect(screen, barX, y+22, barW, 7, color.RGBA{R: 38, G: 40, B: 38, A: 220}, false)
	frac := float32((tk.Power - powerMin) / (powerMax - powerMin))
	vector.FillRect(screen, barX, y+22, barW*frac, 7, hudAccent, false)

	hint := "arrows aim/power   space fire"
	hw := text.BoundString(g.hud.face, hint).Dx()
	text.Draw(screen, hint, g.hud.face, g.cfg.WindowW/2-hw/2, int(y)+44, hudDim)
}

func (g *Game) drawGameOverBanner(screen *ebiten.Image, snap *SimSnapshot) {
	reason := DetermineMatchOutcome(*snap)
	head := "DRAW"
	headCol := color.Color(hudText)
	if reason.Outcome == OutcomeVictory {
		head = fmt.Sprintf("%s WINS", tankLabel(reason.Winner))
		headCol = tankPalette[reason.Winner%len(tankPalette)]
	}

	cy := g.cfg.WindowH / 3
	w := text.BoundString(g.hud.bigFace, head).Dx()
	vector.FillRect(screen, 0, float32(cy)-40, float32(g.cfg.WindowW), 86, hudPanelBg, false)
	text.Draw(screen, head, g.hud.bigFace, (g.cfg.WindowW-w)/2, cy, headCol)

	sub := reason.Description + "   press R for a new match"
	sw := text.BoundString(g.hud.face, sub).Dx()
	text.Draw(screen, sub, g.hud.face, (g.cfg.WindowW-sw)/2, cy+30, hudDim)
}

func (g *Game) speedLabel() string {
	switch g.simSpeed {
	case 0:
		return "PAUSED"
	case 1:
		return "1x"
	case 2:
		return "2x"
	case 4:
		return "4x"
	default:
		return fmt.Sprintf("%.1fx", g.simSpeed)
	}
}

// drawDebugOverlay prints engine counters and the tail of the sim log.
func (g *Game) drawDebugOverlay(screen *ebiten.Image) {
	lines := []string{
		fmt.Sprintf("tps %.0f  fps %.0f  sim batch %.2fms",
			ebiten.ActualTPS(), ebiten.ActualFPS(), g.tickDurEMA*1000),
		fmt.Sprintf("tick %d  phase %s  speed %s", g.snap.Tick, g.snap.Phase, g.speedLabel()),
		fmt.Sprintf("seed %d  wind %+.4f  shots %d  turn %s",
			g.sim.Seed(), g.snap.Wind, len(g.snap.Projectiles), turnCursorLabel(g.snap.TurnIndex)),
		fmt.Sprintf("volleys %d  craters %d  restarts %d",
			g.snap.VolleysFired, g.snap.CratersCarved, g.restarts),
	}
	if rpt, ok := g.reporter.Latest(); ok {
		lines = append(lines, fmt.Sprintf("grains %d  alive %d  total health %.0f",
			rpt.GrainCount, rpt.AliveTanks, rpt.TotalHealth))
	}
	lines = append(lines, "")

	entries := g.sim.Log().Entries()
	from := len(entries) - 10
	if from < 0 {
		from = 0
	}
	for _, e := range entries[from:] {
		lines = append(lines, e.String())
	}

	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, 10, 170+i*14)
	}
}
