package api

import (
	"bytes"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hoshinonyaruko/linkedlist-snake/render"
	"github.com/hoshinonyaruko/linkedlist-snake/session"
	"github.com/hoshinonyaruko/linkedlist-snake/sqlite"
	"github.com/hoshinonyaruko/linkedlist-snake/structs"
)

const maxRoundsLimit = 100

// NewRouter wires every game route onto a fresh gin engine.
func NewRouter(runner *session.Runner, db *sql.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger())

	router.GET("/state", StateHandler(runner))
	// 开始 暂停 切换 重置
	router.POST("/start", ControlHandler(runner.Start))
	router.POST("/pause", ControlHandler(runner.Pause))
	router.POST("/toggle", ControlHandler(runner.Toggle))
	router.POST("/reset", ControlHandler(runner.Reset))
	// 处理玩家改变方向
	router.GET("/update-direction", UpdateDirection(runner))
	router.POST("/update-direction", UpdateDirection(runner))
	// 渲染函数 返回PNG
	router.GET("/render-map", RenderMapHandler(runner))
	router.GET("/rounds", RoundsHandler(db))
	router.GET("/ws", StreamHandler(runner))
	return router
}

// RequestLogger logs each request through zerolog.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func StateHandler(runner *session.Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, runner.Snapshot())
	}
}

// ControlHandler runs a start/pause/toggle/reset action and returns the new state.
func ControlHandler(action func() structs.Snapshot) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, action())
	}
}

func UpdateDirection(runner *session.Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Query("direction")
		if raw == "" {
			raw = c.PostForm("direction")
		}

		// 验证是否提供了必要的参数
		if raw == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required parameter: direction"})
			return
		}
		direction, ok := structs.ParseDirection(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid direction '" + raw + "' provided"})
			return
		}

		accepted, state := runner.SetDirection(direction)
		c.JSON(http.StatusOK, gin.H{"accepted": accepted, "state": state})
	}
}

func RenderMapHandler(runner *session.Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		width := render.Width
		if raw := c.Query("width"); raw != "" {
			w, err := strconv.Atoi(raw)
			if err != nil || w <= 0 || w > 4*render.Width {
				c.JSON(http.StatusBadRequest, gin.H{"error": "width must be between 1 and " + strconv.Itoa(4*render.Width)})
				return
			}
			width = w
		}

		img := render.Board(runner.Snapshot())
		if width != render.Width {
			img = render.Scale(img, width)
		}

		var buf bytes.Buffer
		if err := render.EncodePNG(&buf, img); err != nil {
			log.Error().Err(err).Msg("render failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to render map"})
			return
		}
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, "image/png", buf.Bytes())
	}
}

func RoundsHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if err != nil || limit <= 0 || limit > maxRoundsLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and " + strconv.Itoa(maxRoundsLimit)})
			return
		}

		rounds, err := sqlite.TopRounds(db, limit)
		if err != nil {
			log.Error().Err(err).Msg("loading rounds failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load rounds"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"rounds": rounds})
	}
}
