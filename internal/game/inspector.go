package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/Garsondee/Raider-Sense/internal/enemyai"
	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Inspector panel: rendered into an offscreen buffer at 1× then blitted at inspScale.
const (
	inspScale = 2   // scale factor for inspector text rendering
	inspBufW  = 200 // buffer width in pixels (~33 chars at debug font)
	inspBufH  = 260 // buffer height in pixels
	inspPad   = 4   // padding in buffer-space pixels
	inspLineH = 13  // line height in buffer-space pixels

	inspReportTicks = 600 // history covered by the copied report
)

// Inspector holds the selected enemy and view toggle state.
type Inspector struct {
	selected *Enemy
	rawView  bool   // false = curated, true = raw dump
	status   string // result of the last copy
}

// handleInspectorClick checks if a mouse click hit an enemy and selects it.
// Returns true if an enemy was hit.
func (g *Game) handleInspectorClick(mx, my int) bool {
	w := g.toWorld(mx, my)

	// Pick radius: 16 screen pixels past the hull, in arena space.
	pad := 16.0 / viewScale
	best := math.MaxFloat64
	var hit *Enemy
	for _, e := range g.arena.Enemies {
		if !e.Alive() {
			continue
		}
		d := e.pos.Dist(w)
		if d < e.radius()+pad && d < best {
			best = d
			hit = e
		}
	}
	g.inspector.status = ""
	if hit != nil {
		g.inspector.selected = hit
		return true
	}
	// Click on empty space: deselect.
	g.inspector.selected = nil
	return false
}

// copyInspectorReport puts the selected enemy's debug report on the OS
// clipboard.
func (g *Game) copyInspectorReport() {
	e := g.inspector.selected
	if e == nil {
		return
	}
	report := g.arena.DebugReport(e, inspReportTicks)
	if err := clipboard.WriteAll(report); err != nil {
		g.arena.log.Warn().Err(err).Str("enemy", e.label).Msg("clipboard copy failed")
		g.inspector.status = "copy failed"
		return
	}
	g.inspector.status = fmt.Sprintf("copied %d bytes", len(report))
}

// drawInspector renders the inspector panel into an offscreen buffer at 1×,
// then blits it onto the screen at inspScale for readability.
func (g *Game) drawInspector(screen *ebiten.Image) {
	e := g.inspector.selected
	if e == nil {
		return
	}

	g.inspBuf.Clear()

	buf := g.inspBuf
	bw := float32(inspBufW)
	bh := float32(inspBufH)

	// Panel background.
	panelBg := color.RGBA{R: 12, G: 12, B: 22, A: 230}
	panelBorder := color.RGBA{R: 70, G: 70, B: 120, A: 255}
	vector.FillRect(buf, 0, 0, bw, bh, panelBg, false)
	vector.StrokeRect(buf, 0, 0, bw, bh, 1.0, panelBorder, false)
	vector.StrokeLine(buf, 1, 1, bw-1, 1, 1.0, color.RGBA{R: 100, G: 100, B: 170, A: 60}, false)

	lx := inspPad
	ly := inspPad

	// Title bar.
	bossStr := ""
	if e.boss {
		bossStr = " [BOSS]"
	}
	title := fmt.Sprintf("[ %s %s%s ]", e.kind, e.label, bossStr)
	ebitenutil.DebugPrintAt(buf, title, lx, ly)
	ly += inspLineH + 2

	viewName := "CURATED"
	if g.inspector.rawView {
		viewName = "RAW"
	}
	hint := fmt.Sprintf("view: %s  [I] [C]", viewName)
	if g.inspector.status != "" {
		hint = g.inspector.status
	}
	ebitenutil.DebugPrintAt(buf, hint, lx, ly)
	ly += inspLineH + 4

	// Divider.
	vector.StrokeLine(buf, float32(lx), float32(ly), bw-float32(inspPad), float32(ly), 1.0, panelBorder, false)
	ly += 4

	if g.inspector.rawView {
		g.drawInspectorRaw(buf, e, lx, ly)
	} else {
		g.drawInspectorCurated(buf, e, lx, ly)
	}

	// Blit top-right of the arena, left of the log panel.
	px := g.offX + g.gameWidth - inspBufW*inspScale - 8
	py := g.offY + 8
	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(inspScale), float64(inspScale))
	opts.GeoM.Translate(float64(px), float64(py))
	screen.DrawImage(buf, opts)
}

// drawInspectorCurated draws the organised, human-readable inspector view.
func (g *Game) drawInspectorCurated(buf *ebiten.Image, e *Enemy, lx, ly int) {
	ai := e.ai

	line := func(text string) {
		ebitenutil.DebugPrintAt(buf, text, lx, ly)
		ly += inspLineH
	}
	section := func(title string) {
		ly += 3
		ebitenutil.DebugPrintAt(buf, "-- "+title+" --", lx, ly)
		ly += inspLineH
	}
	bar := func(label string, v float64) {
		filled := int(clamp01(v) * 12)
		b := ""
		for i := 0; i < filled; i++ {
			b += "█"
		}
		for i := filled; i < 12; i++ {
			b += "░"
		}
		ebitenutil.DebugPrintAt(buf, fmt.Sprintf("%-6s %s", label, b), lx, ly)
		ly += inspLineH
	}

	section("SHIP")
	line(fmt.Sprintf("state: %s", e.state))
	bar("hp", e.hp/e.maxHP)
	line(fmt.Sprintf("spd:%.0f dist:%.0f", e.velocity, e.pos.Dist(e.target)))

	section("DECISION")
	if last, ok := e.LastBehavior(); ok {
		line(fmt.Sprintf("last: %s", last))
	} else {
		line("last: (waiting)")
	}
	line(fmt.Sprintf("next: %s", ai.Current()))
	if wait := ai.NextDueMS() - g.arena.nowMS; wait > 0 {
		bar("dwell", 1-float64(wait)/float64(enemyai.DwellMS))
	} else {
		line("dwell: due")
	}
	line(fmt.Sprintf("made:%d queued:%d", ai.Decisions(), ai.QueueLen()))

	section("WEAPON")
	switch {
	case !e.armed:
		line("unarmed")
	case e.attackPending:
		line(fmt.Sprintf("ATTACK in %dms", e.cooldownMS))
	default:
		line(fmt.Sprintf("cooldown %dms", e.cooldownMS))
	}
	line(fmt.Sprintf("shots:%d hits:%d", e.shots, e.hits))
}

// drawInspectorRaw dumps the scheduler verbatim.
func (g *Game) drawInspectorRaw(buf *ebiten.Image, e *Enemy, lx, ly int) {
	ai := e.ai

	line := func(text string) {
		ebitenutil.DebugPrintAt(buf, text, lx, ly)
		ly += inspLineH
	}

	line(fmt.Sprintf("id=%d %s boss=%v", e.id, e.label, e.boss))
	line(fmt.Sprintf("pos=%v", e.pos))
	line(fmt.Sprintf("tgt=%v", e.target))
	line(fmt.Sprintf("aim=%v", e.aim))
	line(fmt.Sprintf("cur=%s", ai.Current()))
	line(fmt.Sprintf("err=%d dec=%d", e.aiErrors, ai.Decisions()))
	line("-- queue --")
	maxRows := (inspBufH - ly - inspPad) / inspLineH
	for i, q := range ai.Queued() {
		if i >= maxRows-1 {
			line(fmt.Sprintf("  +%d more", ai.QueueLen()-i))
			break
		}
		line("  " + q.String())
	}
}
