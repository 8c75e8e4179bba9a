package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/smasonuk/gosiefps"
	"github.com/smasonuk/gosiefps/ebitenview"
)

func main() {
	levelPath := flag.String("level", "", "level descriptor (YAML or JSON); generated when empty")
	settingsPath := flag.String("settings", "", "settings file (YAML)")
	kind := flag.String("kind", string(gosiefps.GridLevel), "generated level kind: grid or polygon")
	propPath := flag.String("prop", "", "ascii PLY model placed ahead of the spawn on polygon levels")
	seed := flag.Int64("seed", 1, "random seed for level generation and NPCs")
	width := flag.Int("width", 640, "screen width")
	height := flag.Int("height", 480, "screen height")
	flag.Parse()

	settings := gosiefps.DefaultSettings()
	if *settingsPath != "" {
		data, err := os.ReadFile(*settingsPath)
		if err != nil {
			log.Fatalf("Error reading settings %s: %v", *settingsPath, err)
		}
		if settings, err = gosiefps.DecodeSettings(data); err != nil {
			log.Fatalf("Error decoding settings %s: %v", *settingsPath, err)
		}
	}

	level, err := loadLevel(*levelPath, gosiefps.LevelKind(*kind), *seed, settings.NPCCount)
	if err != nil {
		log.Fatalf("Error loading level: %v", err)
	}

	if *propPath != "" {
		if err := addProp(level, *propPath); err != nil {
			log.Fatalf("Error loading prop %s: %v", *propPath, err)
		}
	}

	log.Printf("Starting %s (%s level)...", level.Name, level.Kind)
	session, err := gosiefps.NewSession(settings, level, *seed)
	if err != nil {
		log.Fatalf("Error starting session: %v", err)
	}

	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle("gosiefps - " + level.Name)
	ebiten.SetTPS(session.Settings.TickRate)
	ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	if err := ebiten.RunGame(ebitenview.NewGame(session, level, *seed, *width, *height)); err != nil {
		log.Fatal(err)
	}
}

func loadLevel(path string, kind gosiefps.LevelKind, seed int64, npcs int) (*gosiefps.Level, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return gosiefps.ParseLevel(data)
	}

	switch kind {
	case gosiefps.PolygonLevel:
		return gosiefps.GeneratePolygonLevel(20, seed, npcs), nil
	default:
		return gosiefps.GenerateGridLevel(24, 24, seed, npcs), nil
	}
}

func addProp(level *gosiefps.Level, path string) error {
	if level.Kind != gosiefps.PolygonLevel {
		return fmt.Errorf("props need a polygon level, got %s", level.Kind)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	pos := level.Spawn.Position
	pos[2] += 4
	level.Props = append(level.Props, gosiefps.PropSpec{PLY: string(data), Position: pos})
	return nil
}
