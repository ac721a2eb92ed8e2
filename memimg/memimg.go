// Package memimg keeps the board sprites (head, body, food) in memory and
// reloads them when the skin directory changes.
package memimg

import (
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

var (
	sprites      = make(map[string]image.Image)
	spritesMutex sync.RWMutex
)

// LoadSprites reads every png/jpeg in directory, scales it to size×size
// and caches it under its lower-case base name without extension.
func LoadSprites(directory string, size int) error {
	loaded := make(map[string]image.Image)
	err := filepath.Walk(directory, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !isImage(path) {
			return nil
		}
		img, err := LoadImage(path, size)
		if err != nil {
			// 单个文件损坏不影响其他贴图
			log.Warn().Err(err).Str("path", path).Msg("skipping sprite")
			return nil
		}
		loaded[spriteName(path)] = img
		return nil
	})
	if err != nil {
		return err
	}

	spritesMutex.Lock()
	sprites = loaded
	spritesMutex.Unlock()
	log.Info().Str("dir", directory).Int("count", len(loaded)).Msg("sprites loaded")
	return nil
}

// LoadImage decodes path and fills a size×size square with it.
func LoadImage(path string, size int) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, err
	}
	return imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos), nil
}

// WatchSprites reloads changed sprites until ctx is done.
func WatchSprites(ctx context.Context, directory string, size int) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(directory); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isImage(event.Name) {
				continue
			}
			name := spriteName(event.Name)
			switch {
			case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
				img, err := LoadImage(event.Name, size)
				if err != nil {
					log.Debug().Err(err).Str("path", event.Name).Msg("sprite not ready")
					continue
				}
				spritesMutex.Lock()
				sprites[name] = img
				spritesMutex.Unlock()
				log.Debug().Str("sprite", name).Msg("sprite reloaded")
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				spritesMutex.Lock()
				delete(sprites, name)
				spritesMutex.Unlock()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("sprite watcher error")
		}
	}
}

// GetSprite returns the cached sprite called name.
func GetSprite(name string) (image.Image, bool) {
	spritesMutex.RLock()
	img, exists := sprites[name]
	spritesMutex.RUnlock()
	return img, exists
}

func spriteName(path string) string {
	base := filepath.Base(path)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

func isImage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}
