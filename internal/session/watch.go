package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ============================================================================
// 监视模式
// ============================================================================
//
// 监视的是文件所在的目录：编辑器以 "写临时文件再改名" 的方式保存时，
// 文件本身的监视会丢失。
//
// ============================================================================

// WatchFunc 每次（重新）解析后的回调
type WatchFunc func(*Result)

// Watch 先解析全部输入，然后在源文件被写入或创建时重新解析
//
// 输入为文件时只关心该文件；输入为目录时关心其中全部源文件。
// ctx 取消后返回 nil。
func (s *Session) Watch(ctx context.Context, paths []string, fn WatchFunc) error {
	files, err := CollectSources(paths)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	tracked := make(map[string]bool) // 明确给出的文件
	var roots []string                // 明确给出的目录
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if info.IsDir() {
			roots = append(roots, normalizePath(path))
		} else {
			tracked[normalizePath(path)] = true
		}
	}

	dirs := make(map[string]bool)
	for _, root := range roots {
		dirs[root] = true
	}
	for _, f := range files {
		dirs[filepath.Dir(normalizePath(f))] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	for _, f := range files {
		if r, err := s.ParseFile(f); err == nil {
			fn(r)
		}
	}
	s.log.Info("watching", zap.Int("files", len(files)), zap.Int("dirs", len(dirs)))

	interested := func(name string) bool {
		if !IsSourceFile(name) {
			return false
		}
		key := normalizePath(name)
		if tracked[key] {
			return true
		}
		for _, root := range roots {
			if strings.HasPrefix(key, root+string(filepath.Separator)) {
				return true
			}
		}
		return false
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 || !interested(ev.Name) {
				continue
			}
			r, err := s.ParseFile(ev.Name)
			if err != nil {
				// 文件可能在事件到达前又被删除
				continue
			}
			s.log.Info("reparsed",
				zap.String("file", ev.Name),
				zap.Bool("cached", r.Cached),
				zap.Duration("duration", r.Duration),
			)
			fn(r)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("watch error", zap.Error(err))
		}
	}
}
