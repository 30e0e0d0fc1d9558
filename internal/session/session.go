// Package session 管理一组源文件的解析：读取配置、缓存解析结果、监视文件变化
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/tangzhangming/kestrel/internal/ast"
	"github.com/tangzhangming/kestrel/internal/config"
	"github.com/tangzhangming/kestrel/internal/diag"
	"github.com/tangzhangming/kestrel/internal/parser"
)

// ============================================================================
// Session - 解析会话
// ============================================================================
//
// Session 按 (文件名, 内容哈希) 缓存解析结果，同一内容只解析一次。
// 缓存的 Result 只读共享；需要继续解析延迟函数体的调用方应先 Fork。
//
// ============================================================================

// DefaultCacheSize 默认缓存的解析结果数量
const DefaultCacheSize = 128

// Result 一个源文件的解析结果
type Result struct {
	Path     string
	Source   string
	Hash     string // 源码内容的 SHA-256
	File     *ast.SourceFile
	Parser   *parser.Parser
	Duration time.Duration
	Cached   bool // 是否来自缓存
}

// Diagnostics 返回解析产生的诊断
func (r *Result) Diagnostics() *diag.Engine {
	return r.Parser.Diagnostics()
}

// HasErrors 是否有错误级诊断
func (r *Result) HasErrors() bool {
	return r.Parser.HasErrors()
}

// CacheStats 缓存统计
type CacheStats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// Session 解析会话
type Session struct {
	cfg  *config.Config
	opts parser.Options
	log  *zap.Logger

	cache  *lru.Cache
	hits   atomic.Int64
	misses atomic.Int64
}

// New 创建解析会话；log 为 nil 时不输出日志，cacheSize <= 0 时使用默认大小
func New(cfg *config.Config, log *zap.Logger, cacheSize int) (*Session, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}

	s := &Session{
		cfg:  cfg,
		opts: cfg.ParserOptions(),
		log:  log,
	}
	cache, err := lru.NewWithEvict(cacheSize, s.onEvict)
	if err != nil {
		return nil, fmt.Errorf("failed to create parse cache: %w", err)
	}
	s.cache = cache
	return s, nil
}

// Config 返回会话使用的配置
func (s *Session) Config() *config.Config {
	return s.cfg
}

// Options 返回解析选项
func (s *Session) Options() parser.Options {
	return s.opts
}

// Parse 解析一段源码，命中缓存时直接返回
func (s *Session) Parse(path, source string) *Result {
	hash := contentHash(source)
	key := path + "\x00" + hash

	if v, ok := s.cache.Get(key); ok {
		s.hits.Inc()
		cached := *v.(*Result)
		cached.Cached = true
		s.log.Debug("parse cache hit", zap.String("file", path), zap.String("hash", hash[:12]))
		return &cached
	}
	s.misses.Inc()

	start := time.Now()
	p := parser.New(source, path, s.opts)
	file := p.Parse()
	r := &Result{
		Path:     path,
		Source:   source,
		Hash:     hash,
		File:     file,
		Parser:   p,
		Duration: time.Since(start),
	}
	s.cache.Add(key, r)

	diags := p.Diagnostics()
	s.log.Debug("parsed",
		zap.String("file", path),
		zap.Duration("duration", r.Duration),
		zap.Int("decls", len(file.Decls)),
		zap.Int("errors", diags.ErrorCount()),
		zap.Int("warnings", diags.WarningCount()),
	)
	if diags.Dropped() > 0 {
		s.log.Warn("diagnostics dropped after error limit",
			zap.String("file", path),
			zap.Int("dropped", diags.Dropped()),
			zap.Int("max_errors", s.opts.MaxErrors),
		)
	}
	return r
}

// ParseFile 读取并解析一个源文件
func (s *Session) ParseFile(path string) (*Result, error) {
	source, err := loadFile(path)
	if err != nil {
		s.log.Error("read failed", zap.String("file", path), zap.Error(err))
		return nil, err
	}
	return s.Parse(path, source), nil
}

// ParseFiles 依次解析多个文件，遇到读取错误时停止
func (s *Session) ParseFiles(paths []string) ([]*Result, error) {
	var results []*Result
	for _, path := range paths {
		r, err := s.ParseFile(path)
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}

// Fork 在一份全新的解析器上重新解析结果对应的源码
//
// 延迟解析的函数体会修改 AST，对缓存中共享的结果不能直接调用 ParseDelayedBodies。
func (s *Session) Fork(r *Result) *Result {
	start := time.Now()
	p := parser.New(r.Source, r.Path, s.opts)
	return &Result{
		Path:     r.Path,
		Source:   r.Source,
		Hash:     r.Hash,
		File:     p.Parse(),
		Parser:   p,
		Duration: time.Since(start),
	}
}

// Stats 返回缓存统计
func (s *Session) Stats() CacheStats {
	return CacheStats{
		Hits:    s.hits.Load(),
		Misses:  s.misses.Load(),
		Entries: s.cache.Len(),
	}
}

// Purge 清空缓存
func (s *Session) Purge() {
	s.cache.Purge()
}

func (s *Session) onEvict(key, value interface{}) {
	if r, ok := value.(*Result); ok {
		s.log.Debug("parse cache evict", zap.String("file", r.Path))
	}
}

func contentHash(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}
