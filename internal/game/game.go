package game

import (
	"fmt"
	"image/color"

	"github.com/Garsondee/Raider-Sense/internal/enemyai"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// borderWidth is the pixel gap between the window edge and the arena.
const borderWidth = 24

// viewScale maps arena pixels to screen pixels; the 1920x1080 arena fits a
// laptop window at half size.
const viewScale = 0.5

// Game is the Ebiten front-end around an Arena. It owns input, rendering and
// sim-speed control; all gameplay lives in the arena.
type Game struct {
	width      int
	height     int
	gameWidth  int // arena width on screen
	gameHeight int // arena height on screen
	offX       int // pixel offset from window left to arena left
	offY       int // pixel offset from window top to arena top

	arena *Arena
	opts  []ArenaOption // kept for restarts
	input *inputController

	hudFace     *text.GoXFace
	showHUD     bool
	showTargets bool // lines from enemies to their proposed positions
	prevKeys    map[ebiten.Key]bool

	// Enemy inspector (click-to-select panel).
	inspector Inspector
	inspBuf   *ebiten.Image

	// Simulation speed control.
	simSpeed  float64 // multiplier: 0=paused, 0.5, 1, 2, 4
	tickAccum float64 // fractional tick accumulator for sub-1x speeds
}

// New builds the windowed game. The arena always gets keyboard/mouse
// control and automatic waves; opts add config, logging and sound.
func New(opts ...ArenaOption) *Game {
	g := &Game{
		offX:        borderWidth,
		offY:        borderWidth,
		hudFace:     text.NewGoXFace(basicfont.Face7x13),
		showHUD:     true,
		showTargets: true,
		prevKeys:    make(map[ebiten.Key]bool),
		simSpeed:    1,
		inspBuf:     ebiten.NewImage(inspBufW, inspBufH),
	}
	g.input = &inputController{g: g}
	g.opts = append([]ArenaOption{WithController(g.input), WithAutoWaves(true)}, opts...)
	g.restart()
	return g
}

// restart replaces the arena with a fresh one built from the same options.
func (g *Game) restart() {
	g.arena = NewArena(g.opts...)
	g.gameWidth = int(g.arena.Width * viewScale)
	g.gameHeight = int(g.arena.Height * viewScale)
	g.width = borderWidth + g.gameWidth + borderWidth + logPanelWidth
	g.height = borderWidth + g.gameHeight + borderWidth
	g.inspector.selected = nil
	g.tickAccum = 0
}

// Arena exposes the running simulation.
func (g *Game) Arena() *Arena { return g.arena }

func (g *Game) Update() error {
	// Handle input every frame regardless of sim speed.
	g.handleInput()

	if g.simSpeed <= 0 || g.arena.Over() {
		return nil
	}

	// For speeds > 1 run multiple sim ticks per frame.
	// For speeds < 1 accumulate fractions.
	g.tickAccum += g.simSpeed
	for g.tickAccum >= 1.0 {
		g.tickAccum -= 1.0
		g.arena.Tick(g.arena.cfg.Arena.TickMS)
	}
	if g.inspector.selected != nil && !g.inspector.selected.Alive() {
		g.inspector.selected = nil
	}
	return nil
}

// pressed reports an edge-triggered key press and records the key state.
func (g *Game) pressed(k ebiten.Key, current map[ebiten.Key]bool) bool {
	current[k] = ebiten.IsKeyPressed(k)
	return current[k] && !g.prevKeys[k]
}

// handleInput processes toggles and speed keys. Player movement and fire
// are read by inputController during the tick.
func (g *Game) handleInput() {
	currentKeys := map[ebiten.Key]bool{}

	// H: toggle HUD key legend.
	if g.pressed(ebiten.KeyH, currentKeys) {
		g.showHUD = !g.showHUD
	}
	// T: toggle target lines.
	if g.pressed(ebiten.KeyT, currentKeys) {
		g.showTargets = !g.showTargets
	}
	// R: restart once the player is down.
	if g.pressed(ebiten.KeyR, currentKeys) && g.arena.Over() {
		g.restart()
	}

	// Sim speed controls: P=pause/resume, ,=slower, .=faster.
	speeds := []float64{0, 0.5, 1, 2, 4}
	if g.pressed(ebiten.KeyP, currentKeys) {
		if g.simSpeed > 0 {
			g.simSpeed = 0
		} else {
			g.simSpeed = 1
		}
	}
	if g.pressed(ebiten.KeyComma, currentKeys) {
		for i, s := range speeds {
			if s >= g.simSpeed && i > 0 {
				g.simSpeed = speeds[i-1]
				break
			}
		}
	}
	if g.pressed(ebiten.KeyPeriod, currentKeys) {
		for i, s := range speeds {
			if s <= g.simSpeed && i < len(speeds)-1 {
				if speeds[i+1] > g.simSpeed {
					g.simSpeed = speeds[i+1]
					break
				}
			}
		}
	}

	// Left mouse click: try to select an enemy.
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		g.handleInspectorClick(mx, my)
	}

	// I: toggle inspector raw/curated view.
	if g.pressed(ebiten.KeyI, currentKeys) {
		g.inspector.rawView = !g.inspector.rawView
	}
	// C: copy the selected enemy's debug report.
	if g.pressed(ebiten.KeyC, currentKeys) {
		g.copyInspectorReport()
	}

	g.prevKeys = currentKeys
}

// toScreen maps an arena point to window pixels.
func (g *Game) toScreen(p enemyai.Vec2) (float32, float32) {
	return float32(g.offX) + float32(p.X*viewScale), float32(g.offY) + float32(p.Y*viewScale)
}

// toWorld is the inverse of toScreen.
func (g *Game) toWorld(x, y int) enemyai.Vec2 {
	return enemyai.V(float64(x-g.offX)/viewScale, float64(y-g.offY)/viewScale)
}

func (g *Game) Draw(screen *ebiten.Image) {
	// Window background: very dark, outside the arena.
	screen.Fill(color.RGBA{R: 8, G: 8, B: 14, A: 255})

	ox := float32(g.offX)
	oy := float32(g.offY)
	gw := float32(g.gameWidth)
	gh := float32(g.gameHeight)
	vector.FillRect(screen, ox, oy, gw, gh, color.RGBA{R: 14, G: 14, B: 24, A: 255}, false)
	drawGridOffset(screen, g.offX, g.offY, g.gameWidth, g.gameHeight, 60, color.RGBA{R: 24, G: 24, B: 40, A: 255})

	g.drawEnemies(screen)
	g.arena.combat.Draw(screen, ox, oy, viewScale)
	g.drawPlayer(screen)

	// Arena border frame.
	borderCol := color.RGBA{R: 70, G: 70, B: 120, A: 255}
	vector.StrokeRect(screen, ox-1, oy-1, gw+2, gh+2, 2.0, borderCol, false)
	vector.StrokeRect(screen, ox-3, oy-3, gw+6, gh+6, 1.0, color.RGBA{R: 45, G: 45, B: 80, A: 100}, false)

	// Thought log panel (screen coords).
	logX := g.offX + g.gameWidth + g.offX
	g.arena.Thoughts.Draw(screen, logX, g.height)

	g.drawStatus(screen)
	if g.showHUD {
		g.drawHUD(screen)
	}
	if g.arena.Over() {
		g.drawGameOver(screen)
	}

	// Enemy inspector panel (screen-space, drawn over everything).
	g.drawInspector(screen)
}

func (g *Game) drawEnemies(screen *ebiten.Image) {
	for _, e := range g.arena.Enemies {
		x, y := g.toScreen(e.pos)
		c := archetypeColor(e.kind)
		r := float32(e.radius() * viewScale)

		if g.showTargets {
			tx, ty := g.toScreen(e.target)
			vector.StrokeLine(screen, x, y, tx, ty, 1.0, color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: 140}, true)
			vector.StrokeCircle(screen, tx, ty, 3, 1.0, color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: 140}, true)
		}
		if e.attackPending {
			ax, ay := g.toScreen(e.aim)
			vector.StrokeLine(screen, x, y, ax, ay, 1.0, color.RGBA{R: 255, G: 60, B: 60, A: 90}, true)
		}

		vector.FillCircle(screen, x, y, r, c, true)
		if e.boss {
			vector.StrokeCircle(screen, x, y, r+3, 2.0, color.RGBA{R: 255, G: 255, B: 255, A: 200}, true)
		}
		if e == g.inspector.selected {
			vector.StrokeCircle(screen, x, y, r+6, 1.5, color.RGBA{R: 255, G: 255, B: 120, A: 255}, true)
		}

		// Health bar.
		frac := float32(clamp01(e.hp / e.maxHP))
		vector.FillRect(screen, x-r, y-r-5, 2*r, 2, color.RGBA{R: 60, G: 20, B: 20, A: 200}, false)
		vector.FillRect(screen, x-r, y-r-5, 2*r*frac, 2, color.RGBA{R: 80, G: 220, B: 80, A: 220}, false)
		ebitenutil.DebugPrintAt(screen, e.label, int(x+r+2), int(y-6))
	}
}

func (g *Game) drawPlayer(screen *ebiten.Image) {
	p := g.arena.Player
	if !p.Alive() {
		return
	}
	x, y := g.toScreen(p.pos)
	c := color.RGBA{R: 230, G: 230, B: 255, A: 255}
	if p.hitFlash > 0 {
		c = color.RGBA{R: 255, G: 90, B: 90, A: 255}
	}
	vector.FillCircle(screen, x, y, float32(playerRadius*viewScale), c, true)

	mx, my := ebiten.CursorPosition()
	vector.StrokeLine(screen, x, y, float32(mx), float32(my), 1.0, color.RGBA{R: 120, G: 120, B: 200, A: 60}, true)
}

// drawStatus prints wave, kills and health above the arena.
func (g *Game) drawStatus(screen *ebiten.Image) {
	a := g.arena
	status := fmt.Sprintf("WAVE %d   KILLS %d   HP %.0f/%.0f   ENEMIES %d   SHOTS %d",
		a.Waves.Wave(), a.kills, a.Player.hp, a.Player.maxHP, len(a.Enemies), len(a.combat.projectiles))
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(g.offX), 4)
	op.ColorScale.ScaleWithColor(color.RGBA{R: 220, G: 220, B: 255, A: 255})
	text.Draw(screen, status, g.hudFace, op)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	speedStr := "1x"
	if g.simSpeed == 0 {
		speedStr = "PAUSED"
	} else if g.simSpeed == 2 {
		speedStr = "2x"
	} else if g.simSpeed == 4 {
		speedStr = "4x"
	} else if g.simSpeed != 1 {
		speedStr = fmt.Sprintf("%.1fx", g.simSpeed)
	}

	lines := []string{
		fmt.Sprintf("SIM: %s  P=pause  ,/. speed", speedStr),
		"WASD=move  SPACE/RMB=fire",
		"click=inspect  I=raw  C=copy",
		"T=targets  H=hide",
	}

	const lineH = 14
	const charW = 7
	const padX = 5
	const padY = 4

	maxLen := 0
	for _, l := range lines {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	boxW := float32(maxLen*charW + padX*2)
	boxH := float32(len(lines)*lineH + padY*2)
	bx := float32(g.offX + 4)
	by := float32(g.offY+g.gameHeight) - boxH - 4

	vector.FillRect(screen, bx, by, boxW, boxH, color.RGBA{R: 6, G: 6, B: 14, A: 210}, false)
	vector.StrokeRect(screen, bx, by, boxW, boxH, 1.0, color.RGBA{R: 60, G: 60, B: 110, A: 180}, false)

	for i, line := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(int(bx)+padX), float64(int(by)+padY+i*lineH))
		op.ColorScale.ScaleWithColor(color.RGBA{R: 190, G: 190, B: 230, A: 255})
		text.Draw(screen, line, g.hudFace, op)
	}
}

func (g *Game) drawGameOver(screen *ebiten.Image) {
	msg := fmt.Sprintf("GAME OVER   wave %d, %d kills   [R] restart", g.arena.Waves.Wave(), g.arena.kills)
	w, h := text.Measure(msg, g.hudFace, 0)
	x := float64(g.offX) + (float64(g.gameWidth)-w*2)/2
	y := float64(g.offY) + (float64(g.gameHeight)-h*2)/2
	vector.FillRect(screen, float32(x-10), float32(y-8), float32(w*2+20), float32(h*2+16), color.RGBA{A: 200}, false)
	op := &text.DrawOptions{}
	op.GeoM.Scale(2, 2)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(color.RGBA{R: 255, G: 90, B: 90, A: 255})
	text.Draw(screen, msg, g.hudFace, op)
}

func drawGridOffset(screen *ebiten.Image, offX, offY, w, h, spacing int, c color.Color) {
	if spacing <= 0 {
		return
	}
	ox, oy := float32(offX), float32(offY)
	for x := 0; x <= w; x += spacing {
		xf := ox + float32(x)
		vector.StrokeLine(screen, xf, oy, xf, oy+float32(h), 1.0, c, false)
	}
	for y := 0; y <= h; y += spacing {
		yf := oy + float32(y)
		vector.StrokeLine(screen, ox, yf, ox+float32(w), yf, 1.0, c, false)
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// GameWidth returns the arena width on screen (excluding log panel).
func (g *Game) GameWidth() int {
	return g.gameWidth
}

// WindowSize is the window size the layout expects.
func (g *Game) WindowSize() (int, int) {
	return g.width, g.height
}

// --- Input ---

// inputController drives the player from the keyboard and mouse.
type inputController struct {
	g *Game
}

func (ic *inputController) Intent(a *Arena) PlayerIntent {
	var move enemyai.Vec2
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		move.Y--
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		move.Y++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		move.X--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		move.X++
	}
	// Scale the unit direction well past one tick's travel so updatePlayer
	// moves at full speed.
	if dir, ok := move.Unit(); ok {
		move = dir.Scale(a.Width)
	}
	mx, my := ebiten.CursorPosition()
	return PlayerIntent{
		Move: move,
		Fire: ebiten.IsKeyPressed(ebiten.KeySpace) || ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),
		Aim:  ic.g.toWorld(mx, my),
	}
}
