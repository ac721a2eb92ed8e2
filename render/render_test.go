package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/hoshinonyaruko/linkedlist-snake/structs"
)

func testSnapshot() structs.Snapshot {
	return structs.Snapshot{
		Segments: []structs.Cell{{X: 7, Y: 10}, {X: 6, Y: 10}, {X: 5, Y: 10}},
		Food:     structs.Cell{X: 12, Y: 3},
		Length:   3,
		Speed:    100,
		Level:    1,
		Status:   structs.StatusIdle,
	}
}

func TestBoardSize(t *testing.T) {
	img := Board(testSnapshot())
	if img.Bounds().Dx() != Width || img.Bounds().Dy() != Height {
		t.Errorf("Expected %dx%d, got %v", Width, Height, img.Bounds())
	}
}

func TestBoardDrawsHead(t *testing.T) {
	img := Board(testSnapshot())

	// a point inside the head circle but off its white eye
	x := 7*CellSize + 5
	y := HeaderHeight + 10*CellSize + CellSize/2
	r, g, b, _ := img.At(x, y).RGBA()
	if g <= r || g <= b {
		t.Errorf("Expected head pixel to be green, got r=%d g=%d b=%d", r, g, b)
	}

	// food is red
	fx := 12*CellSize + CellSize/2
	fy := HeaderHeight + 3*CellSize + CellSize/2
	r, g, _, _ = img.At(fx, fy).RGBA()
	if r <= g {
		t.Errorf("Expected food pixel to be red, got r=%d g=%d", r, g)
	}
}

func TestBoardGameOverDims(t *testing.T) {
	s := testSnapshot()
	live := Board(s)
	s.GameOver = true
	s.Status = structs.StatusOver
	over := Board(s)

	// an empty board cell away from the overlay text
	x, y := 2, HeaderHeight+2
	lr, lg, lb, _ := live.At(x, y).RGBA()
	or, og, ob, _ := over.At(x, y).RGBA()
	if or+og+ob >= lr+lg+lb {
		t.Errorf("Expected the game over overlay to darken the board")
	}
}

func TestBoardLongSnake(t *testing.T) {
	s := testSnapshot()
	s.Segments = nil
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			s.Segments = append(s.Segments, structs.Cell{X: x, Y: y})
		}
	}
	s.Length = len(s.Segments)

	img := Board(s)
	if img.Bounds().Dy() != Height {
		t.Errorf("Expected fixed height %d for long snakes, got %d", Height, img.Bounds().Dy())
	}
}

func TestScaleAndEncode(t *testing.T) {
	img := Scale(Board(testSnapshot()), Width/2)
	if img.Bounds().Dx() != Width/2 {
		t.Errorf("Expected width %d, got %d", Width/2, img.Bounds().Dx())
	}

	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Expected valid PNG, got %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("Expected decoded bounds %v, got %v", img.Bounds(), decoded.Bounds())
	}
}
