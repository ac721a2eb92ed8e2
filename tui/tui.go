// Package tui plays the game in a terminal with tcell.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/hoshinonyaruko/linkedlist-snake/snake"
	"github.com/hoshinonyaruko/linkedlist-snake/structs"
)

// Controller is the part of session.Runner the terminal needs.
type Controller interface {
	Toggle() structs.Snapshot
	Reset() structs.Snapshot
	SetDirection(structs.Direction) (bool, structs.Snapshot)
	Subscribe() (<-chan structs.Snapshot, func())
}

const (
	boardTop  = 1 // title row above the board
	boardLeft = 0
	cellCols  = 2 // a board cell is two terminal columns wide
)

var (
	styleBorder = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHead   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorGreen).Bold(true)
	styleBody   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorLightGreen)
	styleFood   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleText   = tcell.StyleDefault
	styleTitle  = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleOver   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorRed).Bold(true)
)

// Run draws every frame ctl publishes and feeds key presses back to it
// until the player quits or ctx is done. screen must be initialised; the
// caller owns Fini.
func Run(ctx context.Context, screen tcell.Screen, ctl Controller) error {
	frames, cancel := ctl.Subscribe()
	defer cancel()

	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(events)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				// 屏幕已经Fini
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	var last structs.Snapshot
	for {
		select {
		case <-ctx.Done():
			return nil
		case s, ok := <-frames:
			if !ok {
				return nil
			}
			last = s
			Draw(screen, s)
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if Apply(ctl, ev) {
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
				Draw(screen, last)
			}
		}
	}
}

// Apply maps one key press onto the controller and reports whether the
// player asked to quit.
func Apply(ctl Controller, ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		ctl.SetDirection(structs.Up)
	case tcell.KeyDown:
		ctl.SetDirection(structs.Down)
	case tcell.KeyLeft:
		ctl.SetDirection(structs.Left)
	case tcell.KeyRight:
		ctl.SetDirection(structs.Right)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return true
		case ' ', 'p', 'P':
			ctl.Toggle()
		case 'r', 'R':
			ctl.Reset()
		case 'w', 'W':
			ctl.SetDirection(structs.Up)
		case 's', 'S':
			ctl.SetDirection(structs.Down)
		case 'a', 'A':
			ctl.SetDirection(structs.Left)
		case 'd', 'D':
			ctl.SetDirection(structs.Right)
		}
	}
	return false
}

// Draw paints s: status line, bordered board and the list below it.
func Draw(screen tcell.Screen, s structs.Snapshot) {
	screen.Clear()
	width, _ := screen.Size()

	title := fmt.Sprintf("Linked List Snake  score %d  length %d  level %d  [%s]", s.Score, s.Length, s.Level, s.Status)
	drawText(screen, 0, 0, width, styleTitle, title)

	inner := snake.GridSize * cellCols
	// 边框
	for x := 0; x <= inner+1; x++ {
		screen.SetContent(boardLeft+x, boardTop, '─', nil, styleBorder)
		screen.SetContent(boardLeft+x, boardTop+snake.GridSize+1, '─', nil, styleBorder)
	}
	for y := 0; y <= snake.GridSize+1; y++ {
		screen.SetContent(boardLeft, boardTop+y, '│', nil, styleBorder)
		screen.SetContent(boardLeft+inner+1, boardTop+y, '│', nil, styleBorder)
	}
	screen.SetContent(boardLeft, boardTop, '┌', nil, styleBorder)
	screen.SetContent(boardLeft+inner+1, boardTop, '┐', nil, styleBorder)
	screen.SetContent(boardLeft, boardTop+snake.GridSize+1, '└', nil, styleBorder)
	screen.SetContent(boardLeft+inner+1, boardTop+snake.GridSize+1, '┘', nil, styleBorder)

	putCell(screen, s.Food, '*', styleFood)
	for i := len(s.Segments) - 1; i >= 0; i-- {
		if i == 0 {
			putCell(screen, s.Segments[i], '@', styleHead)
		} else {
			putCell(screen, s.Segments[i], 'o', styleBody)
		}
	}

	if s.GameOver {
		msg := fmt.Sprintf(" GAME OVER  final score %d  (r to restart) ", s.Score)
		x := boardLeft + 1 + (inner-len(msg))/2
		drawText(screen, max(x, 0), boardTop+snake.GridSize/2, width, styleOver, msg)
	}

	listTop := boardTop + snake.GridSize + 2
	drawText(screen, 0, listTop, width, styleText, ListString(s.Segments))
	drawText(screen, 0, listTop+listLines(s.Segments, width)+1, width, styleBorder, "arrows/wasd move  space start/pause  r reset  q quit")

	screen.Show()
}

// ListString renders the snake as the list it is.
func ListString(segments []structs.Cell) string {
	var b strings.Builder
	for i, c := range segments {
		if i == 0 {
			b.WriteString("HEAD ")
		}
		fmt.Fprintf(&b, "(%d,%d) -> ", c.X, c.Y)
	}
	b.WriteString("nil")
	return b.String()
}

func putCell(screen tcell.Screen, c structs.Cell, r rune, style tcell.Style) {
	x := boardLeft + 1 + c.X*cellCols
	y := boardTop + 1 + c.Y
	screen.SetContent(x, y, r, nil, style)
	screen.SetContent(x+1, y, ' ', nil, style)
}

func listLines(segments []structs.Cell, width int) int {
	if width <= 0 {
		return 1
	}
	n := len(ListString(segments))
	return (n + width - 1) / width
}

// drawText writes s from (x, y), wrapping at width.
func drawText(screen tcell.Screen, x, y, width int, style tcell.Style, s string) {
	col := x
	for _, r := range s {
		if width > 0 && col >= width {
			col = 0
			y++
		}
		screen.SetContent(col, y, r, nil, style)
		col++
	}
}
