package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/milk9111/tilescene/ldtk"
	"github.com/milk9111/tilescene/scene"
)

type preview struct {
	projectPath string
	levelName   string
	cfg         scene.Config
	watcher     *Watcher

	node    *scene.LevelNode
	lastErr error
}

func newPreview(projectPath, levelName string, cfg scene.Config, watcher *Watcher) *preview {
	p := &preview{
		projectPath: projectPath,
		levelName:   levelName,
		cfg:         cfg,
		watcher:     watcher,
	}
	p.reload()
	return p
}

// reload re-parses the whole project and rebuilds the level from scratch.
func (p *preview) reload() {
	project, err := ldtk.LoadFile(p.projectPath)
	if err != nil {
		p.lastErr = err
		log.Printf("preview: load %s: %v", p.projectPath, err)
		return
	}

	builder := scene.NewBuilder(project, p.cfg)
	builder.Mappers().SetDefault(scene.MarkerMapper)

	name := p.levelName
	if name == "" {
		levels := project.AllLevels()
		if len(levels) == 0 {
			p.lastErr = fmt.Errorf("project has no levels")
			return
		}
		name = levels[0].Identifier
	}

	node, err := builder.Build(name)
	if err != nil {
		p.lastErr = err
		log.Printf("preview: build %s: %v", name, err)
		return
	}
	p.node = node
	p.lastErr = nil
}

func (p *preview) Update() error {
	if p.watcher != nil {
	drain:
		for {
			select {
			case name, ok := <-p.watcher.Events:
				if !ok {
					break drain
				}
				log.Printf("preview: %s changed, reloading", name)
				p.reload()
			default:
				break drain
			}
		}
	}
	return nil
}

func (p *preview) Draw(screen *ebiten.Image) {
	if p.node != nil {
		p.node.Draw(screen)
	}
	status := fmt.Sprintf("FPS: %.1f", ebiten.ActualFPS())
	if p.lastErr != nil {
		status += fmt.Sprintf("\nerror: %v", p.lastErr)
	} else if p.node != nil {
		status += fmt.Sprintf("\nlevel: %s  layers: %d", p.node.Level.Identifier, len(p.node.Renderables()))
	}
	ebitenutil.DebugPrint(screen, status)
}

func (p *preview) Layout(outsideWidth, outsideHeight int) (int, int) {
	if p.node != nil && p.node.Level.PxWid > 0 {
		return p.node.Level.PxWid, p.node.Level.PxHei
	}
	return outsideWidth, outsideHeight
}

func main() {
	projectPath := flag.String("project", "", "path to the project .ldtk/.json file")
	levelName := flag.String("level", "", "level identifier (default: first level)")
	noEntities := flag.Bool("no-entities", false, "skip entity spawning")
	flag.Parse()

	if *projectPath == "" {
		log.Fatal("preview: -project is required")
	}

	cfg := scene.DefaultConfig()
	cfg.SpawnEntities = !*noEntities
	// Every reload re-parses and rebuilds everything, so handle caching is
	// pointless here.
	cfg.DisableCache = true

	watcher, err := NewWatcher(filepath.Dir(*projectPath))
	if err != nil {
		log.Printf("preview: watch disabled: %v", err)
		watcher = nil
	} else {
		defer watcher.Close()
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("tilescene preview")

	if err := ebiten.RunGame(newPreview(*projectPath, *levelName, cfg, watcher)); err != nil {
		log.Fatal(err)
	}
}
