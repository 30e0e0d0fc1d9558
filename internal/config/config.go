// Package config 读取 kestrel.toml 项目配置
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/multierr"

	"github.com/tangzhangming/kestrel/internal/parser"
)

// 常量定义
const (
	ConfigFileName = "kestrel.toml" // 配置文件名
)

// 颜色模式
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ErrInvalidConfig 配置校验失败
var ErrInvalidConfig = errors.New("invalid config")

// Config 项目配置
type Config struct {
	Parser      ParserConfig      `toml:"parser"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	Tool        ToolConfig        `toml:"tool"`
}

// ParserConfig [parser] 段
type ParserConfig struct {
	// Mode 源文件种类：library 或 script
	Mode string `toml:"mode"`

	// DelayBodies 先跳过函数体，稍后再解析
	DelayBodies bool `toml:"delay_bodies"`

	// Interface 接口模式，函数可以没有函数体
	Interface bool `toml:"interface"`

	// LowLevel 允许 sil_* 等低级属性
	LowLevel bool `toml:"low_level"`

	// MaxErrors 错误数量上限，0 表示不限制
	MaxErrors int `toml:"max_errors"`
}

// DiagnosticsConfig [diagnostics] 段
type DiagnosticsConfig struct {
	Lang  string `toml:"lang"`  // en 或 zh，为空时自动检测
	Color string `toml:"color"` // auto、always、never
}

// ToolConfig [tool] 段
type ToolConfig struct {
	// Requires 对工具版本的约束（如 ">= 0.1, < 1.0"）
	Requires string `toml:"requires"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Parser:      ParserConfig{Mode: parser.LibraryMode.String()},
		Diagnostics: DiagnosticsConfig{Color: ColorAuto},
	}
}

// Parse 解析配置内容，未出现的字段取默认值
//
// 未知字段视为错误。
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("unknown config field:\n%s", strict.String())
		}
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Load 从文件加载配置
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadFor 查找并加载 startPath 所属项目的配置
//
// 找不到配置文件时返回默认配置和空路径。
func LoadFor(startPath string) (*Config, string, error) {
	path := FindConfigFile(startPath)
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// Validate 检查配置是否合法，toolVersion 为当前工具版本
//
// 返回的错误合并了全部问题，可用 multierr.Errors 拆开。
func (c *Config) Validate(toolVersion string) error {
	var err error

	switch c.Parser.Mode {
	case "", parser.LibraryMode.String(), parser.ScriptMode.String():
	default:
		err = multierr.Append(err, fmt.Errorf("%w: parser.mode %q must be library or script", ErrInvalidConfig, c.Parser.Mode))
	}

	if c.Parser.MaxErrors < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: parser.max_errors must not be negative", ErrInvalidConfig))
	}

	switch strings.ToLower(c.Diagnostics.Lang) {
	case "", "en", "zh":
	default:
		err = multierr.Append(err, fmt.Errorf("%w: diagnostics.lang %q must be en or zh", ErrInvalidConfig, c.Diagnostics.Lang))
	}

	switch c.Diagnostics.Color {
	case "", ColorAuto, ColorAlways, ColorNever:
	default:
		err = multierr.Append(err, fmt.Errorf("%w: diagnostics.color %q must be auto, always or never", ErrInvalidConfig, c.Diagnostics.Color))
	}

	if c.Tool.Requires != "" {
		err = multierr.Append(err, checkRequires(c.Tool.Requires, toolVersion))
	}

	return err
}

// checkRequires 检查工具版本是否满足约束
func checkRequires(requires, toolVersion string) error {
	constraint, err := semver.NewConstraint(requires)
	if err != nil {
		return fmt.Errorf("%w: tool.requires %q: %v", ErrInvalidConfig, requires, err)
	}
	v, err := semver.NewVersion(toolVersion)
	if err != nil {
		return fmt.Errorf("invalid tool version %q: %w", toolVersion, err)
	}
	if ok, reasons := constraint.Validate(v); !ok {
		var err error
		for _, r := range reasons {
			err = multierr.Append(err, r)
		}
		return fmt.Errorf("%w: kestrel %s does not satisfy tool.requires %q: %v", ErrInvalidConfig, v, requires, err)
	}
	return nil
}

// ParserOptions 将配置转换为解析选项
func (c *Config) ParserOptions() parser.Options {
	opts := parser.DefaultOptions()
	if c.Parser.Mode == parser.ScriptMode.String() {
		opts.Mode = parser.ScriptMode
	}
	opts.DelayBodies = c.Parser.DelayBodies
	opts.Interface = c.Parser.Interface
	opts.LowLevel = c.Parser.LowLevel
	opts.MaxErrors = c.Parser.MaxErrors
	return opts
}

// UseColor 根据颜色模式和输出是否为终端决定是否着色
func (c *Config) UseColor(isTerminal bool) bool {
	switch c.Diagnostics.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return isTerminal
}

// Save 保存配置到文件
func (c *Config) Save(path string) error {
	content := generateConfigWithComments(c)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// generateConfigWithComments 生成带注释的配置文件内容
func generateConfigWithComments(c *Config) string {
	var sb strings.Builder

	sb.WriteString("[parser]\n")
	sb.WriteString("# 源文件种类：library（只允许声明）或 script（允许顶层语句）\n")
	sb.WriteString(fmt.Sprintf("mode = %q\n", c.Parser.Mode))
	sb.WriteString("# 先跳过函数体，稍后再解析\n")
	sb.WriteString(fmt.Sprintf("delay_bodies = %t\n", c.Parser.DelayBodies))
	sb.WriteString(fmt.Sprintf("interface = %t\n", c.Parser.Interface))
	sb.WriteString(fmt.Sprintf("low_level = %t\n", c.Parser.LowLevel))
	sb.WriteString("# 错误数量上限，0 表示不限制\n")
	sb.WriteString(fmt.Sprintf("max_errors = %d\n\n", c.Parser.MaxErrors))

	sb.WriteString("[diagnostics]\n")
	sb.WriteString("# 诊断语言：en 或 zh，留空则自动检测\n")
	sb.WriteString(fmt.Sprintf("lang = %q\n", c.Diagnostics.Lang))
	sb.WriteString("# 颜色：auto、always 或 never\n")
	sb.WriteString(fmt.Sprintf("color = %q\n", c.Diagnostics.Color))

	if c.Tool.Requires != "" {
		sb.WriteString("\n[tool]\n")
		sb.WriteString("# 工具版本约束\n")
		sb.WriteString(fmt.Sprintf("requires = %q\n", c.Tool.Requires))
	}

	return sb.String()
}

// FindConfigFile 从指定路径向上查找配置文件
// 返回配置文件的完整路径，如果找不到则返回空字符串
func FindConfigFile(startPath string) string {
	info, err := os.Stat(startPath)
	if err != nil {
		return ""
	}

	var dir string
	if info.IsDir() {
		dir = startPath
	} else {
		dir = filepath.Dir(startPath)
	}

	dir, err = filepath.Abs(dir)
	if err != nil {
		return ""
	}

	// 向上查找
	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// ProjectRoot 返回项目根目录（配置文件所在目录），找不到时为空
func ProjectRoot(startPath string) string {
	configPath := FindConfigFile(startPath)
	if configPath == "" {
		return ""
	}
	return filepath.Dir(configPath)
}
