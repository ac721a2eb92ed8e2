package structs

import (
	"strings"
	"time"
)

// Cell 描述棋盘上的一个格子坐标。
type Cell struct {
	X int `json:"x"` // X坐标
	Y int `json:"y"` // Y坐标
}

// Direction 蛇的移动方向（"up", "down", "left", "right"）
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Opposite returns the reverse heading, or "" for an unknown direction.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return ""
}

// Valid reports whether d is one of the four headings.
func (d Direction) Valid() bool {
	return d.Opposite() != ""
}

// ParseDirection maps a direction name or an arrow key name
// ("ArrowUp", "ArrowLeft", ...) to a Direction.
func ParseDirection(s string) (Direction, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "arrow")
	d := Direction(s)
	if !d.Valid() {
		return "", false
	}
	return d, true
}

// Status 游戏状态机的三个状态
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPlaying Status = "playing"
	StatusOver    Status = "over"
)

// Snapshot 描述某一时刻的完整游戏状态，供渲染端读取。
type Snapshot struct {
	Segments  []Cell    `json:"segments"`  // 蛇身，下标0为蛇头
	Food      Cell      `json:"food"`      // 食物位置
	Score     int       `json:"score"`     // 得分
	Length    int       `json:"length"`    // 链表长度
	Speed     int       `json:"speed"`     // 刷新间隔，单位毫秒
	Level     int       `json:"level"`     // 由速度推导的等级
	Direction Direction `json:"direction"` // 当前方向
	Playing   bool      `json:"playing"`
	GameOver  bool      `json:"game_over"`
	Status    Status    `json:"status"`
	RoundID   string    `json:"round_id,omitempty"` // 当前回合标识
}

// Head returns the first segment of the snapshot.
func (s Snapshot) Head() (Cell, bool) {
	if len(s.Segments) == 0 {
		return Cell{}, false
	}
	return s.Segments[0], true
}

// Round 描述一局结束的游戏。
type Round struct {
	ID        string    `json:"id"`
	Score     int       `json:"score"`
	Length    int       `json:"length"`
	Level     int       `json:"level"`
	Cause     string    `json:"cause"` // "wall" 或 "self"
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}
