package ebitenview

import (
	"fmt"
	"image/color"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/smasonuk/gosiefps"
)

// Game runs a Session inside the ebiten loop. It holds no game rules.
type Game struct {
	session *gosiefps.Session
	input   *InputSampler
	level   *gosiefps.Level
	seed    int64

	width, height int
	restarts      int64
}

func NewGame(session *gosiefps.Session, level *gosiefps.Level, seed int64, width, height int) *Game {
	return &Game{
		session: session,
		input:   NewInputSampler(),
		level:   level,
		seed:    seed,
		width:   width,
		height:  height,
	}
}

func (g *Game) Update() error {
	if g.session.Over && g.input.RestartRequested() {
		g.restarts++
		log.Printf("Restarting %s...", g.level.Name)
		if err := g.session.Restart(g.level, g.seed+g.restarts); err != nil {
			return fmt.Errorf("restart: %w", err)
		}
	}
	g.session.Update(g.input.Sample(), g.session.Settings.TickSeconds())
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	sink := NewImageSink(screen)
	g.session.Draw(sink, g.width, g.height)
	sink.Flush()
	ebitenutil.DebugPrint(screen, g.status())
}

func (g *Game) status() string {
	s := g.session
	var b strings.Builder
	fmt.Fprintf(&b, "FPS: %0.2f  score %d  health %d  ammo %d\n", ebiten.ActualFPS(), s.Score, s.Health, s.Weapon.Ammo)
	for _, line := range s.Speeches() {
		fmt.Fprintf(&b, "#%d (%s): %s\n", line.NPC, line.Kind, line.Text)
	}
	switch {
	case s.Over:
		b.WriteString("GAME OVER - press Enter\n")
	case s.Paused:
		b.WriteString("PAUSED\n")
	}
	return b.String()
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}
