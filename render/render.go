// Package render draws a game snapshot: the board on top and the snake's
// linked list underneath it.
package render

import (
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/hoshinonyaruko/linkedlist-snake/memimg"
	"github.com/hoshinonyaruko/linkedlist-snake/snake"
	"github.com/hoshinonyaruko/linkedlist-snake/structs"
)

const (
	CellSize     = 25
	HeaderHeight = 30
	BoardSize    = snake.GridSize * CellSize

	nodeWidth   = 80
	nodeHeight  = 28
	nodeGap     = 20
	listRowH    = 40
	ListRows    = 4
	listPadding = 10
	nodesPerRow = BoardSize / (nodeWidth + nodeGap)
	maxNodes    = nodesPerRow * ListRows

	Width  = BoardSize
	Height = HeaderHeight + BoardSize + ListRows*listRowH + listPadding
)

// 背景只画一次
var backgroundCache sync.Map

// Board renders s to a Width×Height image.
func Board(s structs.Snapshot) image.Image {
	dc := gg.NewContext(Width, Height)
	dc.DrawImage(background(), 0, 0)

	renderHeader(dc, s)
	renderFood(dc, s.Food)
	renderSnake(dc, s.Segments)
	renderList(dc, s.Segments)
	if s.GameOver {
		renderGameOver(dc, s)
	}
	return dc.Image()
}

// Scale resizes img to width, keeping the aspect ratio.
func Scale(img image.Image, width int) image.Image {
	return imaging.Resize(img, width, 0, imaging.Lanczos)
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}

func background() image.Image {
	if cached, ok := backgroundCache.Load("board"); ok {
		return cached.(image.Image)
	}

	dc := gg.NewContext(Width, Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// 棋盘格
	for x := 0; x < snake.GridSize; x++ {
		for y := 0; y < snake.GridSize; y++ {
			if (x+y)%2 == 0 {
				dc.SetRGB(0.16, 0.17, 0.2)
			} else {
				dc.SetRGB(0.13, 0.14, 0.16)
			}
			dc.DrawRectangle(float64(x*CellSize), float64(HeaderHeight+y*CellSize), CellSize, CellSize)
			dc.Fill()
		}
	}
	renderGrid(dc)

	img := dc.Image()
	backgroundCache.Store("board", img)
	return img
}

func renderGrid(dc *gg.Context) {
	dc.SetRGBA(0.4, 0.4, 0.45, 0.2)
	dc.SetLineWidth(1)
	for x := 0; x <= BoardSize; x += CellSize {
		dc.DrawLine(float64(x), HeaderHeight, float64(x), float64(HeaderHeight+BoardSize))
		dc.Stroke()
	}
	for y := 0; y <= BoardSize; y += CellSize {
		dc.DrawLine(0, float64(HeaderHeight+y), BoardSize, float64(HeaderHeight+y))
		dc.Stroke()
	}
}

func renderHeader(dc *gg.Context, s structs.Snapshot) {
	dc.SetRGB(0.1, 0.45, 0.25)
	line := fmt.Sprintf("Score %d   Length %d   Level %d   %s", s.Score, s.Length, s.Level, s.Status)
	dc.DrawStringAnchored(line, 8, HeaderHeight/2, 0, 0.5)
}

func cellOrigin(c structs.Cell) (float64, float64) {
	return float64(c.X * CellSize), float64(HeaderHeight + c.Y*CellSize)
}

func renderFood(dc *gg.Context, food structs.Cell) {
	x, y := cellOrigin(food)
	if img, ok := memimg.GetSprite("food"); ok {
		dc.DrawImage(img, int(x), int(y))
		return
	}
	dc.SetRGB(0.9, 0.25, 0.3)
	dc.DrawCircle(x+CellSize/2.0, y+CellSize/2.0, CellSize/2.0-3)
	dc.Fill()
}

func renderSnake(dc *gg.Context, segments []structs.Cell) {
	// 从尾到头画，蛇头在最上层
	for i := len(segments) - 1; i >= 0; i-- {
		x, y := cellOrigin(segments[i])
		name := "body"
		if i == 0 {
			name = "head"
		}
		if img, ok := memimg.GetSprite(name); ok {
			dc.DrawImage(img, int(x), int(y))
			continue
		}
		if i == 0 {
			dc.SetRGB(0.2, 0.8, 0.45)
			dc.DrawCircle(x+CellSize/2.0, y+CellSize/2.0, CellSize/2.0-1)
			dc.Fill()
			dc.SetRGB(1, 1, 1)
			dc.DrawCircle(x+CellSize/2.0, y+CellSize/2.0, 3)
			dc.Fill()
			continue
		}
		dc.SetRGB(0.45, 0.85, 0.45)
		dc.DrawRoundedRectangle(x+1, y+1, CellSize-2, CellSize-2, 3)
		dc.Fill()
	}
}

// renderList draws head→tail as boxes joined by arrows and ends in nil.
// Long snakes are cut short with a "+N" box before the tail.
func renderList(dc *gg.Context, segments []structs.Cell) {
	shown := segments
	hidden := 0
	if len(segments) > maxNodes-1 {
		// 留出一个格子画省略标记
		shown = segments[:maxNodes-2]
		hidden = len(segments) - len(shown)
	}

	slot := 0
	top := float64(HeaderHeight + BoardSize + listPadding)
	slotXY := func(i int) (float64, float64) {
		col := i % nodesPerRow
		row := i / nodesPerRow
		return float64(col*(nodeWidth+nodeGap)) + nodeGap/2, top + float64(row*listRowH)
	}
	arrow := func(x, y float64) {
		dc.SetRGB(0.1, 0.6, 0.3)
		dc.DrawStringAnchored("->", x+nodeWidth+nodeGap/2, y+nodeHeight/2, 0.5, 0.5)
	}

	for i, c := range shown {
		x, y := slotXY(slot)
		label := fmt.Sprintf("(%d,%d)", c.X, c.Y)
		switch {
		case i == 0:
			label = "HEAD " + label
			dc.SetRGB(0.2, 0.7, 0.4)
		case i == len(segments)-1:
			label = "TAIL " + label
			dc.SetRGB(0.35, 0.75, 0.45)
		default:
			dc.SetRGB(0.45, 0.8, 0.5)
		}
		dc.DrawRoundedRectangle(x, y, nodeWidth, nodeHeight, 5)
		dc.Fill()
		dc.SetRGB(1, 1, 1)
		dc.DrawStringAnchored(label, x+nodeWidth/2, y+nodeHeight/2, 0.5, 0.5)
		arrow(x, y)
		slot++
	}

	if hidden > 0 {
		x, y := slotXY(slot)
		dc.SetRGB(0.6, 0.6, 0.6)
		dc.DrawRoundedRectangle(x, y, nodeWidth, nodeHeight, 5)
		dc.Fill()
		dc.SetRGB(1, 1, 1)
		dc.DrawStringAnchored(fmt.Sprintf("+%d", hidden), x+nodeWidth/2, y+nodeHeight/2, 0.5, 0.5)
		arrow(x, y)
		slot++
	}

	x, y := slotXY(slot)
	dc.SetRGB(0.4, 0.4, 0.4)
	dc.DrawStringAnchored("nil", x+nodeWidth/2, y+nodeHeight/2, 0.5, 0.5)
}

func renderGameOver(dc *gg.Context, s structs.Snapshot) {
	dc.SetRGBA(0, 0, 0, 0.7)
	dc.DrawRectangle(0, HeaderHeight, BoardSize, BoardSize)
	dc.Fill()
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored("Game Over!", BoardSize/2, HeaderHeight+BoardSize/2-10, 0.5, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("Final Score %d", s.Score), BoardSize/2, HeaderHeight+BoardSize/2+10, 0.5, 0.5)
}
