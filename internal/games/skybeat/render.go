package skybeat

import (
	"fmt"
	"math"

	"github.com/vovakirdan/skybeat/internal/core"
	"github.com/vovakirdan/skybeat/internal/engine"
	"github.com/vovakirdan/skybeat/internal/entity"
)

// Visual characters for rendering
const (
	PlayerChar    = '■'
	TrailChar     = '·'
	AfterChar     = '•'
	CoinChar      = '◆'
	ShieldChar    = '◈'
	GoalChar      = '┄'
	HUDRows       = 1
	minTrailAlpha = 0.35
)

// viewport maps world coordinates to screen cells below the HUD.
type viewport struct {
	eng    *engine.Engine
	sx, sy float64
}

func newViewport(eng *engine.Engine, dst *core.Screen) viewport {
	cfg := eng.Config()
	rows := max(dst.Height()-HUDRows, 1)
	return viewport{
		eng: eng,
		sx:  float64(dst.Width()) / cfg.World.Width,
		sy:  float64(rows) / cfg.Camera.ViewportHeight,
	}
}

// cells returns the cell rectangle covered by a world rectangle; every
// non-empty rectangle covers at least one cell.
func (v viewport) cells(r core.Rect) (x, y, w, h int) {
	_, top := v.eng.WorldToScreen(r.X, r.Top())
	_, bottom := v.eng.WorldToScreen(r.X, r.Y)
	x = int(math.Floor(r.X * v.sx))
	w = max(int(math.Ceil(r.Right()*v.sx))-x, 1)
	y = int(math.Floor(top*v.sy)) + HUDRows
	h = max(int(math.Ceil(bottom*v.sy))+HUDRows-y, 1)
	return x, y, w, h
}

func (v viewport) point(wx, wy float64) (int, int) {
	_, sy := v.eng.WorldToScreen(wx, wy)
	return int(math.Floor(wx * v.sx)), int(math.Floor(sy*v.sy)) + HUDRows
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.err != nil {
		dst.DrawMessage("CANNOT START", g.err.Error())
		return
	}

	v := newViewport(g.eng, dst)
	g.drawGoal(dst, v)
	for _, p := range g.eng.VisiblePlatforms() {
		drawPlatform(dst, v, p)
	}
	for _, c := range g.eng.VisibleCoins() {
		if c.Collected && c.CollectAnimation > 0.5 {
			continue
		}
		x, y := v.point(c.Rect.Center())
		dst.SetColored(x, y, CoinChar, core.ColorBrightYellow)
	}
	for _, u := range g.eng.VisiblePowerUps() {
		if u.Collected {
			continue
		}
		x, y := v.point(u.Rect.Center())
		r, c := powerUpGlyph(u.Kind)
		dst.SetColored(x, y, r, c)
	}
	g.drawPlayer(dst, v)
	g.drawHUD(dst)

	s := g.eng.State()
	switch {
	case g.paused:
		dst.DrawMessage("PAUSED", "Press P to resume")
	case s.Complete:
		dst.DrawMessage("LEVEL COMPLETE", fmt.Sprintf("Score: %d  |  Press R to replay", s.Score))
	case s.Dead:
		dst.DrawMessage("GAME OVER", fmt.Sprintf("%s  |  Score: %d  |  Press R to restart", deathText(s.DeathCause), s.Score))
	}
}

func (g *Game) drawGoal(dst *core.Screen, v viewport) {
	goal := g.eng.GoalY()
	if math.IsInf(goal, 1) {
		return
	}
	_, y := v.point(0, goal)
	if y >= HUDRows && y < dst.Height() {
		dst.DrawHLine(0, y, dst.Width(), GoalChar, core.ColorBrightGreen)
	}
}

func drawPlatform(dst *core.Screen, v viewport, p *entity.Platform) {
	if p.Gone() || !p.Revealed() {
		return
	}
	b := p.Bounds()
	if prog := p.CrumbleProgress(); prog > 0 {
		shrink := b.W * prog / 2
		b = core.NewRect(b.X+shrink, b.Y, b.W-2*shrink, b.H)
		if b.W <= 0 {
			return
		}
	}
	r, c := platformGlyph(p)
	x, y, w, h := v.cells(b)
	dst.FillRect(x, y, w, h, r, c)
}

// platformGlyph returns the fill character and color for a platform.
func platformGlyph(p *entity.Platform) (rune, core.Color) {
	switch p.Type {
	case entity.TypeSolid:
		return '█', core.ColorWhite
	case entity.TypeBounce:
		return '▀', core.ColorBrightGreen
	case entity.TypeCrumble:
		if p.Shaking() {
			return '░', core.ColorYellow
		}
		return '▒', core.ColorYellow
	case entity.TypeMoving:
		return '▬', core.ColorCyan
	case entity.TypeSpike:
		return '▲', core.ColorBrightRed
	case entity.TypePhase:
		if !p.Collidable() {
			return '·', core.ColorGray
		}
		return '▓', core.ColorMagenta
	case entity.TypeConveyor:
		if p.ConveyorSpeed() < 0 {
			return '«', core.ColorBlue
		}
		return '»', core.ColorBlue
	case entity.TypeGravity:
		return '↑', core.ColorBrightBlue
	case entity.TypeSticky:
		return '≈', core.ColorGreen
	case entity.TypeGlass:
		if p.GlassHits() > 0 {
			return '╳', core.ColorBrightCyan
		}
		return '▭', core.ColorBrightCyan
	case entity.TypeSlowmo:
		return '◷', core.ColorBrightMagenta
	case entity.TypeWall:
		return '▌', core.ColorGray
	case entity.TypeSecret:
		return '▓', core.ColorBrightYellow
	case entity.TypeIce:
		return '═', core.ColorBrightWhite
	case entity.TypeLava:
		if p.Glow() > 0.5 {
			return '≋', core.ColorBrightRed
		}
		return '≋', core.ColorOrange
	default:
		return '?', core.ColorDefault
	}
}

func powerUpGlyph(k entity.PowerUpKind) (rune, core.Color) {
	switch k {
	case entity.PowerUpMagnet:
		return 'M', core.ColorBrightMagenta
	case entity.PowerUpSlowmo:
		return 'S', core.ColorBrightBlue
	case entity.PowerUpDoublePoints:
		return '2', core.ColorBrightYellow
	case entity.PowerUpShield:
		return ShieldChar, core.ColorBrightCyan
	default:
		return '?', core.ColorDefault
	}
}

func (g *Game) drawPlayer(dst *core.Screen, v viewport) {
	p := g.eng.Player()
	if p == nil {
		return
	}
	trail := p.Trail()
	for i, s := range trail {
		if !s.Active || i == p.TrailHead() || s.Alpha < minTrailAlpha {
			continue
		}
		x, y := v.point(s.X+p.W/2, s.Y+p.H/2)
		r := TrailChar
		if p.Dash.Active {
			r = AfterChar
		}
		dst.SetColored(x, y, r, core.ColorGray)
	}

	color := core.ColorBrightCyan
	switch {
	case p.Dead:
		color = core.ColorRed
	case p.Shield:
		color = core.ColorBrightWhite
	case p.Invulnerable():
		color = core.ColorYellow
	}
	x, y, w, h := v.cells(p.Rect())
	dst.FillRect(x, y, w, h, PlayerChar, color)
}

func (g *Game) drawHUD(dst *core.Screen) {
	s := g.eng.State()
	hud := fmt.Sprintf(" Score: %d  x%d  Combo: %d  Coins: %d ", s.Score, s.Multiplier, s.Combo, s.Coins)
	if s.ActivePowerUp != entity.PowerUpNone {
		hud += fmt.Sprintf(" %s %.1fs ", s.ActivePowerUp, s.PowerUpRemaining/1000)
	}
	if s.HasShield {
		hud += string(ShieldChar) + " "
	}
	dst.DrawText(0, 0, hud)

	var label string
	if gen := g.eng.Generator(); gen != nil {
		label = fmt.Sprintf(" Endless  d%d %s ", gen.Difficulty(), gen.Section())
	} else {
		label = " " + g.level.Title() + " "
	}
	dst.DrawTextColored(dst.Width()-len([]rune(label)), 0, label, core.ColorCyan)
}
