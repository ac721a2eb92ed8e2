// 关于蛇的更新
package snake

import (
	"math"
	"math/rand"
	"time"

	"github.com/hoshinonyaruko/linkedlist-snake/segment"
	"github.com/hoshinonyaruko/linkedlist-snake/structs"
)

const (
	GridSize     = 20  // 每条边的格子数
	InitialSpeed = 100 // 初始刷新间隔，毫秒
	MinSpeed     = 30
	SpeedStep    = 10 // 每吃一个食物减少的间隔
	ScoreStep    = 10
)

// Outcome is what a single tick did.
type Outcome int

const (
	Stalled Outcome = iota // not playing, or no head
	Moved
	Ate
	HitWall
	HitSelf
)

func (o Outcome) String() string {
	switch o {
	case Moved:
		return "moved"
	case Ate:
		return "ate"
	case HitWall:
		return "wall"
	case HitSelf:
		return "self"
	}
	return "stalled"
}

// Fatal reports whether the outcome ended the game.
func (o Outcome) Fatal() bool {
	return o == HitWall || o == HitSelf
}

// Game is the loop controller. It is not safe for concurrent use; the
// session runner serialises access.
type Game struct {
	body      *segment.List
	direction structs.Direction
	food      structs.Cell
	score     int
	speed     int
	playing   bool
	over      bool
	rng       *rand.Rand
}

// NewGame returns an idle game with a seeded snake and food. A nil rng
// falls back to a time-seeded source.
func NewGame(rng *rand.Rand) *Game {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	g := &Game{rng: rng}
	g.Reset()
	return g
}

// Reset puts the game back to a fresh idle state without starting it.
func (g *Game) Reset() {
	// 每次重开都重建链表
	g.body = segment.New()
	g.body.AddToHead(structs.Cell{X: 5, Y: 10})
	g.body.AddToHead(structs.Cell{X: 6, Y: 10})
	g.body.AddToHead(structs.Cell{X: 7, Y: 10})

	g.direction = structs.Right
	g.score = 0
	g.speed = InitialSpeed
	g.playing = false
	g.over = false
	g.PlaceFood()
}

// Start moves an idle game to playing. It does nothing once the game is over.
func (g *Game) Start() bool {
	if g.over || g.playing {
		return false
	}
	g.playing = true
	return true
}

// Pause stops a running game, keeping its state.
func (g *Game) Pause() bool {
	if !g.playing {
		return false
	}
	g.playing = false
	return true
}

// Toggle starts or pauses.
func (g *Game) Toggle() bool {
	if g.playing {
		return g.Pause()
	}
	return g.Start()
}

// SetDirection applies d while playing unless it reverses the current heading.
func (g *Game) SetDirection(d structs.Direction) bool {
	if !g.playing || !d.Valid() {
		return false
	}
	if d == g.direction.Opposite() {
		return false
	}
	g.direction = d
	return true
}

// Tick advances the snake one cell.
func (g *Game) Tick() Outcome {
	if !g.playing {
		return Stalled
	}

	head, ok := g.body.Head()
	if !ok {
		return Stalled
	}

	next := NextHead(head, g.direction)

	// 撞墙
	if !InBounds(next) {
		g.end()
		return HitWall
	}

	// 咬到自己，尾巴此时还没移走，也算占用
	if g.body.Contains(next) {
		g.end()
		return HitSelf
	}

	g.body.AddToHead(next)

	if next == g.food {
		g.score += ScoreStep
		g.speed = max(MinSpeed, g.speed-SpeedStep)
		g.PlaceFood()
		return Ate
	}

	g.body.RemoveTail()
	return Moved
}

func (g *Game) end() {
	g.over = true
	g.playing = false
}

// PlaceFood moves the food to a random free cell by rejection sampling.
// A board with no free cell keeps the current food.
func (g *Game) PlaceFood() {
	if g.body.Len() >= GridSize*GridSize {
		return
	}
	for {
		c := structs.Cell{X: g.rng.Intn(GridSize), Y: g.rng.Intn(GridSize)}
		if !g.body.Contains(c) {
			g.food = c
			return
		}
	}
}

// NextHead offsets head by one cell in direction d.
func NextHead(head structs.Cell, d structs.Direction) structs.Cell {
	switch d {
	case structs.Up:
		head.Y--
	case structs.Down:
		head.Y++
	case structs.Left:
		head.X--
	case structs.Right:
		head.X++
	}
	return head
}

// InBounds reports whether c lies on the board.
func InBounds(c structs.Cell) bool {
	return c.X >= 0 && c.X < GridSize && c.Y >= 0 && c.Y < GridSize
}

// Level is the displayed level for a tick interval.
func Level(speed int) int {
	return int(math.Round(float64(InitialSpeed-speed)/5)) + 1
}

func (g *Game) Body() *segment.List { return g.body }
func (g *Game) Direction() structs.Direction { return g.direction }
func (g *Game) Food() structs.Cell { return g.food }
func (g *Game) Score() int { return g.score }
func (g *Game) Speed() int { return g.speed }
func (g *Game) Playing() bool { return g.playing }
func (g *Game) Over() bool { return g.over }

// Status maps the two flags onto the state machine.
func (g *Game) Status() structs.Status {
	switch {
	case g.over:
		return structs.StatusOver
	case g.playing:
		return structs.StatusPlaying
	}
	return structs.StatusIdle
}

// Snapshot copies the state the renderers read each tick.
func (g *Game) Snapshot() structs.Snapshot {
	return structs.Snapshot{
		Segments:  g.body.ToSlice(),
		Food:      g.food,
		Score:     g.score,
		Length:    g.body.Len(),
		Speed:     g.speed,
		Level:     Level(g.speed),
		Direction: g.direction,
		Playing:   g.playing,
		GameOver:  g.over,
		Status:    g.Status(),
	}
}
