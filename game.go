package main

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/jakecoffman/cp"
	"github.com/rs/zerolog"

	"github.com/milk9111/rebind/bindings"
	"github.com/milk9111/rebind/config"
	"github.com/milk9111/rebind/ebinput"
	"github.com/milk9111/rebind/input"
	"github.com/milk9111/rebind/logging"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

type Game struct {
	frames int
	debug  bool
	log    zerolog.Logger

	backend    *ebinput.Backend
	registry   *input.Registry
	rebinder   *input.Rebinder
	store      *bindings.Store
	watcher    *bindings.Watcher
	actions    *config.ActionSet
	cancelPath string

	player *Player
	arena  *Arena
	menu   *RebindMenu
	paused bool
	// swallowEscape drops the Escape press that cancelled a rebind so it does
	// not also close the menu.
	swallowEscape bool
	shots         int
}

func NewGame(settings *config.Settings, set *config.ActionSet, logger zerolog.Logger, debug bool) (*Game, error) {
	g := &Game{
		debug:   debug,
		log:     logging.Component(logger, "game"),
		actions: set,
	}

	g.backend = ebinput.New(ebinput.WithLogger(logger))
	g.registry = input.NewRegistry(input.WithLogger(logger))
	g.store = settings.NewStore(bindings.WithLogger(logger))

	cancelPath, err := g.backend.Install(set, g.registry, g.store)
	if err != nil {
		return nil, fmt.Errorf("install actions: %w", err)
	}
	g.cancelPath = cancelPath

	// A broken bindings file is logged and the defaults stay in place.
	if err := g.store.LoadAndApply(g.registry); err != nil {
		g.log.Warn().Err(err).Str("path", g.store.Path()).Msg("bindings not fully restored")
	}

	g.rebinder = input.NewRebinder(g.registry, g.backend, g.store)
	g.rebinder.OnSuccess(g.onRebound)
	g.rebinder.OnFailure(g.onRebindCancelled)

	g.registry.Listen(input.EventPerformed, "Escape", g.onEscape)
	g.registry.Listen(input.EventPerformed, "Shoot", g.onShoot)

	if settings.WatchBindings {
		w, err := bindings.NewWatcher(g.store.Path())
		if err != nil {
			g.log.Warn().Err(err).Msg("bindings file watcher disabled")
		} else {
			g.watcher = w
		}
	}

	g.arena = NewArena(baseWidth, baseHeight)
	g.player = NewPlayer(baseWidth/2, baseHeight/2, g.registry)
	g.menu = NewRebindMenu(g)
	return g, nil
}

func (g *Game) Update() error {
	g.frames++

	g.backend.Update()
	g.pollWatcher()

	if g.registry.IsReleased("Shoot") {
		g.log.Debug().Int("shots", g.shots).Msg("shoot released")
	}

	if g.paused {
		g.menu.Update()
	} else {
		g.player.Update(cp.Vector{X: baseWidth, Y: baseHeight})
		g.arena.Step()
	}

	g.swallowEscape = false
	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if g.rebinder.Rebinding() {
				continue
			}
			g.log.Info().Str("path", path).Msg("bindings file changed, reloading")
			g.LoadBindings()
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.Warn().Err(err).Msg("bindings watcher error")
		default:
			return
		}
	}
}

func (g *Game) onEscape() {
	if g.swallowEscape {
		g.swallowEscape = false
		return
	}
	if g.rebinder.Rebinding() {
		return
	}
	g.SetPaused(!g.paused)
}

func (g *Game) onShoot() {
	if g.paused {
		return
	}
	g.shots++
	g.arena.Fire(g.player.Position(), g.player.AimDirection())
}

func (g *Game) SetPaused(paused bool) {
	if !paused && g.rebinder.Rebinding() {
		g.rebinder.CancelRebind()
	}
	g.paused = paused
	if paused {
		g.menu.Refresh()
	}
}

// RequestRebind starts listening for a new binding of action at index.
func (g *Game) RequestRebind(action string, index int, scheme input.Scheme) error {
	return g.rebinder.RequestRebind(action, index, scheme, g.cancelPath)
}

func (g *Game) onRebound(res input.RebindResult) {
	name := g.registry.BindingName(res.Action, res.Index)
	if res.Err != nil {
		g.menu.SetStatus(fmt.Sprintf("Bound %s, but saving failed", name))
	} else {
		g.menu.SetStatus(fmt.Sprintf("Bound %s", name))
	}
	g.menu.Refresh()
}

func (g *Game) onRebindCancelled(res input.RebindResult) {
	g.swallowEscape = true
	g.menu.SetStatus("Rebind cancelled")
	g.menu.Refresh()
}

func (g *Game) SaveBindings() {
	if err := g.store.SaveCurrent(); err != nil {
		g.log.Error().Err(err).Msg("save bindings")
		g.menu.SetStatus("Could not save bindings")
		return
	}
	g.menu.SetStatus("Bindings saved")
}

func (g *Game) LoadBindings() {
	err := g.store.LoadAndApply(g.registry)
	switch {
	case errors.Is(err, bindings.ErrStorageUnavailable):
		g.menu.SetStatus("Bindings file unreadable, using defaults")
	case err != nil:
		g.menu.SetStatus("Some bindings could not be applied")
	default:
		g.menu.SetStatus("Bindings loaded")
	}
	g.menu.Refresh()
}

func (g *Game) ResetBindings() {
	if err := g.store.ResetToDefault(g.registry); err != nil {
		g.log.Error().Err(err).Msg("reset bindings")
		g.menu.SetStatus("Defaults restored, but saving failed")
	} else {
		g.menu.SetStatus("Defaults restored")
	}
	g.menu.Refresh()
}

// Close releases the file watcher.
func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.arena.Draw(screen)
	g.player.Draw(screen)

	reg := g.registry
	cursor := reg.ReadVector2("CursorPosition")
	msg := fmt.Sprintf("Horizontal: %s or %s\nVertical: %s or %s\nShoot: %s or %s\nControls: %s\nCursor: (%.0f, %.0f)  Scroll: %.1f",
		reg.BindingName("Horizontal", 0), reg.BindingName("Horizontal", 3),
		reg.BindingName("Vertical", 0), reg.BindingName("Vertical", 3),
		reg.BindingName("Shoot", 0), reg.BindingName("Shoot", 1),
		reg.BindingName("Escape", 0),
		cursor.X, cursor.Y, reg.ReadFloat("CursorScroll"),
	)
	if g.debug {
		msg = fmt.Sprintf("Frames: %d    FPS: %.2f    Bullets: %d    Shots: %d\n%s",
			g.frames, ebiten.ActualFPS(), g.arena.Bullets(), g.shots, msg)
	}
	ebitenutil.DebugPrint(screen, msg)

	if g.paused {
		g.menu.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
