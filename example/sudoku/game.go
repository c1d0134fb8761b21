package main

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/jpalmerr/htinter"
)

// holes is how many cells are emptied in a new puzzle.
const holes = 40

type cell struct{ x, y int }

// game holds the state of the board shown in the browser. Handlers run one
// at a time, so no locking is needed.
type game struct {
	rng    *rand.Rand
	now    func() time.Time
	logger *slog.Logger

	board    Grid
	given    Grid
	selected *cell
	started  time.Time

	clock    htinter.HeartbeatID
	hasClock bool
}

func newGame(rng *rand.Rand, logger *slog.Logger) *game {
	return &game{rng: rng, now: time.Now, logger: logger}
}

// register wires the page load and the new game button.
func (g *game) register(s *htinter.Server) {
	s.SetInitHandler(htinter.HandlerFunc(g.start))
	s.Route("/new", htinter.HandlerFunc(g.start))
}

// start deals a new puzzle and (re)binds every event of the page.
func (g *game) start(c *htinter.Context) {
	g.board, _ = Generate(g.rng, holes)
	g.given = g.board
	g.selected = nil
	g.started = g.now()

	c.SetContent("#grid", g.board.HTML(), false)
	c.SetContent("#status", "", false)
	c.SetContent("#timer", "00:00", false)
	c.SetClasses(".validate", "validate hidden")

	c.CaptureClick(".cell", true, "", htinter.HandlerFunc(g.selectCell))
	c.CaptureClick(".validate", true, "/validate", htinter.HandlerFunc(g.validate))
	c.CaptureClick("#new", true, "/new", htinter.HandlerFunc(g.start))
	c.ListenKeys(true, "", htinter.HandlerFunc(g.keyUp))

	if !g.hasClock {
		g.clock = c.CreateHeartbeat(time.Second, htinter.HandlerFunc(g.tick))
		g.hasClock = true
	} else if err := c.SetHeartbeatActive(g.clock, true); err != nil {
		g.logger.Error("failed to restart clock", "error", err)
	}

	g.logger.Info("new game", "page", c.Params.Get("location_pathname"))
}

func (g *game) selectCell(c *htinter.Context) {
	x, errX := c.Params.Int("x")
	y, errY := c.Params.Int("y")
	if errX != nil || errY != nil || x < 0 || x > 8 || y < 0 || y > 8 {
		g.logger.Warn("click without coordinates", "params", c.Params)
		return
	}
	if g.given[y][x] != 0 {
		return
	}

	if g.selected != nil {
		c.SetClasses(cellSelector(g.selected.x, g.selected.y), g.cellClass(*g.selected))
	}
	g.selected = &cell{x: x, y: y}
	c.SetClasses(cellSelector(x, y), "cell active")
}

func (g *game) keyUp(c *htinter.Context) {
	if g.selected == nil {
		return
	}
	at := *g.selected
	key := c.Params.Get("touche")

	switch {
	case len(key) == 1 && key[0] >= '1' && key[0] <= '9':
		g.board[at.y][at.x] = int(key[0] - '0')
		c.SetContent(cellSelector(at.x, at.y), key, false)
	case key == "Backspace" || key == "Delete" || key == "0":
		g.board[at.y][at.x] = 0
		c.SetContent(cellSelector(at.x, at.y), "", false)
	case key == "Escape":
	default:
		return
	}

	c.SetClasses(cellSelector(at.x, at.y), g.cellClass(at))
	g.selected = nil

	if _, _, empty := g.board.FindEmpty(); !empty {
		c.SetClasses(".validate", "validate")
	} else {
		c.SetClasses(".validate", "validate hidden")
	}
}

func (g *game) validate(c *htinter.Context) {
	if !g.board.Solved() {
		c.SetContent("#status", "Not quite, keep looking.", false)
		return
	}

	c.SetContent("#status", "Solved in "+formatElapsed(g.now().Sub(g.started))+"!", false)
	if err := c.SetHeartbeatActive(g.clock, false); err != nil {
		g.logger.Error("failed to stop clock", "error", err)
	}
}

func (g *game) tick(c *htinter.Context) {
	c.SetContent("#timer", formatElapsed(g.now().Sub(g.started)), false)
}

func (g *game) cellClass(at cell) string {
	if g.board.Conflicts(at.y, at.x) {
		return "cell conflict"
	}
	return "cell"
}

func formatElapsed(d time.Duration) string {
	s := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}
