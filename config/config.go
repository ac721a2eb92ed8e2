package config

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the structure of the configuration
type AppConfig struct {
	SelfPath string `json:"selfpath"`
	Port     string `json:"port"`
	LogLevel string `json:"loglevel"`
	SkinDir  string `json:"skindir"`
}

var (
	instance *AppConfig
	once     sync.Once
	mu       sync.RWMutex
)

// environment variables that override the file
var envOverrides = map[string]func(*AppConfig, string){
	"SNAKE_SELFPATH": func(c *AppConfig, v string) { c.SelfPath = v },
	"SNAKE_PORT":     func(c *AppConfig, v string) { c.Port = v },
	"LOG_LEVEL":      func(c *AppConfig, v string) { c.LogLevel = v },
	"SNAKE_SKINDIR":  func(c *AppConfig, v string) { c.SkinDir = v },
}

func defaults() *AppConfig {
	return &AppConfig{
		SelfPath: "localhost:38870", // Default value
		Port:     "38870",           // Default value
		LogLevel: "info",
		SkinDir:  "./skins",
	}
}

// LoadConfig initializes and returns the instance of AppConfig. A missing
// file is created with the defaults. Variables from .env and the process
// environment win over the file.
func LoadConfig(filePath string) (*AppConfig, error) {
	var err error
	once.Do(func() {
		// .env 不存在时忽略
		_ = godotenv.Load()

		var cfg *AppConfig
		cfg, err = readConfig(filePath)
		if err != nil {
			return
		}
		mu.Lock()
		instance = cfg
		mu.Unlock()
	})
	if err != nil {
		return nil, err
	}
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		return nil, errors.New("config: earlier load failed")
	}
	return instance, nil
}

func readConfig(filePath string) (*AppConfig, error) {
	cfg := defaults()
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		if err := saveConfig(filePath, cfg); err != nil {
			return nil, err
		}
	} else if err := loadConfig(filePath, cfg); err != nil {
		return nil, err
	}
	applyEnv(cfg)
	return cfg, nil
}

// loadConfig loads the settings from the file
func loadConfig(filePath string, cfg *AppConfig) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(cfg)
}

// saveConfig saves the current settings to the file
func saveConfig(filePath string, cfg *AppConfig) error {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cfg)
}

func applyEnv(cfg *AppConfig) {
	for key, set := range envOverrides {
		if v := os.Getenv(key); v != "" {
			set(cfg, v)
		}
	}
}

// Get returns a copy of the loaded configuration.
func Get() AppConfig {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		return *defaults()
	}
	return *instance
}

// GetConfigValue returns the value of the configuration by key
func GetConfigValue(key string) interface{} {
	cfg := Get()
	switch key {
	case "selfpath":
		return cfg.SelfPath
	case "port":
		return cfg.Port
	case "loglevel":
		return cfg.LogLevel
	case "skindir":
		return cfg.SkinDir
	default:
		return ""
	}
}

// WatchConfig reloads the file whenever it changes and passes the new
// configuration to onChange. It blocks until ctx is done.
func WatchConfig(ctx context.Context, filePath string, onChange func(AppConfig)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// 监听所在目录，编辑器保存时常常是替换文件
	if err := watcher.Add(filepath.Dir(filePath)); err != nil {
		return err
	}
	target := filepath.Clean(filePath)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg := defaults()
			if err := loadConfig(filePath, cfg); err != nil {
				log.Warn().Err(err).Str("path", filePath).Msg("config reload failed")
				continue
			}
			applyEnv(cfg)
			mu.Lock()
			instance = cfg
			mu.Unlock()
			log.Info().Str("path", filePath).Msg("config reloaded")
			if onChange != nil {
				onChange(*cfg)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("config watcher error")
		}
	}
}
