package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hoshinonyaruko/linkedlist-snake/api"
	"github.com/hoshinonyaruko/linkedlist-snake/config"
	"github.com/hoshinonyaruko/linkedlist-snake/memimg"
	"github.com/hoshinonyaruko/linkedlist-snake/render"
	"github.com/hoshinonyaruko/linkedlist-snake/session"
	"github.com/hoshinonyaruko/linkedlist-snake/snake"
	"github.com/hoshinonyaruko/linkedlist-snake/sqlite"
	"github.com/hoshinonyaruko/linkedlist-snake/tui"
)

func main() {
	configPath := flag.String("config", "./config.json", "path to the config file")
	terminal := flag.Bool("tui", false, "play in the terminal instead of serving HTTP")
	flag.Parse()

	// Initialize the configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("failed to load config")
	}
	if *terminal {
		// 终端模式下日志写文件，避免破坏画面
		logFile, err := os.OpenFile("snake.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open log file")
		}
		defer logFile.Close()
		log.Logger = log.Output(logFile)
	}
	setLogLevel(cfg.LogLevel)

	EnsureFoldersExist(cfg.SkinDir, "static")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 载入贴图到内存 检测并热更新
	if err := memimg.LoadSprites(cfg.SkinDir, render.CellSize); err != nil {
		log.Warn().Err(err).Msg("sprites unavailable, drawing plain shapes")
	}
	go func() {
		if err := memimg.WatchSprites(ctx, cfg.SkinDir, render.CellSize); err != nil {
			log.Warn().Err(err).Msg("sprite watcher stopped")
		}
	}()
	go func() {
		err := config.WatchConfig(ctx, *configPath, func(c config.AppConfig) { setLogLevel(c.LogLevel) })
		if err != nil {
			log.Warn().Err(err).Msg("config watcher stopped")
		}
	}()

	db, err := sqlite.Open(sqlite.MemoryDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open round log")
	}
	defer db.Close()

	runner := session.New(snake.NewGame(nil), session.WithRoundHook(sqlite.RoundRecorder(db)))
	defer runner.Close()

	if *terminal {
		if err := runTerminal(ctx, runner); err != nil {
			log.Error().Err(err).Msg("terminal exited")
		}
		return
	}

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(runner, db)
	router.Static("/static", "./static") // 静态文件服务

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	go func() {
		log.Info().Str("port", cfg.Port).Str("render", "http://"+cfg.SelfPath+"/render-map").Msg("starting snake server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
	log.Info().Msg("bye")
}

func runTerminal(ctx context.Context, runner *session.Runner) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	return tui.Run(ctx, screen, runner)
}

func setLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		log.Warn().Str("level", level).Msg("unknown log level, using info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// EnsureFoldersExist 检查并创建必需的文件夹
func EnsureFoldersExist(folders ...string) {
	for _, folder := range folders {
		if _, err := os.Stat(folder); os.IsNotExist(err) {
			// 文件夹不存在，尝试创建它
			if err := os.MkdirAll(folder, 0755); err != nil {
				log.Fatal().Err(err).Str("dir", folder).Msg("failed to create directory")
			}
			log.Info().Str("dir", folder).Msg("created directory")
		}
	}
}
