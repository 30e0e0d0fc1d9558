package main

import (
	"os"
	"runtime"
	"strings"
)

// Language 语言类型
type Language string

const (
	LangEnglish Language = "en"
	LangChinese Language = "zh"
)

// langEnvVar 指定界面语言的环境变量
const langEnvVar = "KESTREL_LANG"

// Messages 消息结构
type Messages struct {
	// 版本信息
	VersionTitle string
	VersionDesc  string
	AppUsage     string

	// 命令描述
	CmdParse   string
	CmdTokens  string
	CmdCheck   string
	CmdStats   string
	CmdWatch   string
	CmdInit    string
	CmdVersion string

	// 选项
	OptLang     string
	OptConfig   string
	OptVerbose  string
	OptLSP      string
	OptResume   string
	OptScript   string
	OptRequires string

	// 错误信息
	ErrNoInput      string
	ErrReadFile     string
	ErrConfig       string
	ErrLogger       string
	ErrLexer        string
	ErrWatch        string
	ErrEncode       string
	ErrGetWorkDir   string
	ErrConfigExists string
	ErrCreateConfig string
	ErrCreateFile   string

	// 成功信息
	SuccessSyntaxOK string
	Summary         string
	WatchStarted    string

	// init
	InitCreating  string
	InitSuccess   string
	InitNextSteps string

	// stats 表头
	StatsFile     string
	StatsDecls    string
	StatsErrors   string
	StatsWarnings string
	StatsTime     string
	StatsKind     string
	StatsCount    string
	StatsTotal    string
	StatsInvalid  string
	StatsImplicit string
	StatsCache    string
}

// 英文消息
var messagesEN = Messages{
	VersionTitle: "Kestrel Declaration Parser v%s",
	VersionDesc:  "Parses Kestrel source files into a declaration AST with recoverable diagnostics",
	AppUsage:     "parse, check and inspect Kestrel source files",

	CmdParse:   "Parse files and print the AST",
	CmdTokens:  "Print lexer tokens",
	CmdCheck:   "Check syntax and report diagnostics",
	CmdStats:   "Print declaration statistics",
	CmdWatch:   "Re-check files whenever they change",
	CmdInit:    "Create a kestrel.toml in the current directory",
	CmdVersion: "Show version information",

	OptLang:     "Set language (en/zh)",
	OptConfig:   "Path to kestrel.toml (default: search upward from the input)",
	OptVerbose:  "Verbose logging",
	OptLSP:      "Emit diagnostics as LSP publishDiagnostics JSON",
	OptResume:   "Parse delayed function bodies before printing",
	OptScript:   "Use script mode (top-level code allowed)",
	OptRequires: "Tool version constraint, e.g. \">= 0.1.0\"",

	ErrNoInput:      "Error: no input file specified",
	ErrReadFile:     "Error reading file: %v",
	ErrConfig:       "Invalid configuration: %v",
	ErrLogger:       "Failed to create logger: %v",
	ErrLexer:        "Lexer errors:",
	ErrWatch:        "Watch failed: %v",
	ErrEncode:       "Failed to encode output: %v",
	ErrGetWorkDir:   "Failed to get working directory: %v",
	ErrConfigExists: "%s already exists",
	ErrCreateConfig: "Failed to create config file: %v",
	ErrCreateFile:   "Failed to create file: %v",

	SuccessSyntaxOK: "✓ %s: syntax OK",
	Summary:         "%d error(s), %d warning(s) in %d file(s)",
	WatchStarted:    "Watching for changes, press Ctrl+C to stop",

	InitCreating:  "Creating %s",
	InitSuccess:   "Initialized Kestrel project in %s",
	InitNextSteps: "Next steps:",

	StatsFile:     "File",
	StatsDecls:    "Decls",
	StatsErrors:   "Errors",
	StatsWarnings: "Warnings",
	StatsTime:     "Time",
	StatsKind:     "Kind",
	StatsCount:    "Count",
	StatsTotal:    "Total",
	StatsInvalid:  "invalid",
	StatsImplicit: "implicit",
	StatsCache:    "Cache: %d hits, %d misses, %d entries",
}

// 中文消息
var messagesZH = Messages{
	VersionTitle: "Kestrel 声明解析器 v%s",
	VersionDesc:  "将 Kestrel 源文件解析为声明 AST，并给出可恢复的诊断",
	AppUsage:     "解析、检查与查看 Kestrel 源文件",

	CmdParse:   "解析文件并打印 AST",
	CmdTokens:  "打印词法分析结果",
	CmdCheck:   "检查语法并报告诊断",
	CmdStats:   "打印声明统计",
	CmdWatch:   "文件变化时重新检查",
	CmdInit:    "在当前目录创建 kestrel.toml",
	CmdVersion: "显示版本信息",

	OptLang:     "设置语言 (en/zh)",
	OptConfig:   "kestrel.toml 路径（默认从输入位置向上查找）",
	OptVerbose:  "详细日志",
	OptLSP:      "以 LSP publishDiagnostics JSON 输出诊断",
	OptResume:   "打印前解析延迟的函数体",
	OptScript:   "使用脚本模式（允许顶层代码）",
	OptRequires: "工具版本约束，例如 \">= 0.1.0\"",

	ErrNoInput:      "错误: 未指定输入文件",
	ErrReadFile:     "读取文件错误: %v",
	ErrConfig:       "配置无效: %v",
	ErrLogger:       "创建日志失败: %v",
	ErrLexer:        "词法分析错误:",
	ErrWatch:        "监视失败: %v",
	ErrEncode:       "输出编码失败: %v",
	ErrGetWorkDir:   "获取当前目录失败: %v",
	ErrConfigExists: "%s 已存在",
	ErrCreateConfig: "创建配置文件失败: %v",
	ErrCreateFile:   "创建文件失败: %v",

	SuccessSyntaxOK: "✓ %s: 语法正确",
	Summary:         "%d 个错误，%d 个警告，共 %d 个文件",
	WatchStarted:    "正在监视文件变化，按 Ctrl+C 停止",

	InitCreating:  "创建 %s",
	InitSuccess:   "已在 %s 初始化 Kestrel 项目",
	InitNextSteps: "下一步:",

	StatsFile:     "文件",
	StatsDecls:    "声明",
	StatsErrors:   "错误",
	StatsWarnings: "警告",
	StatsTime:     "耗时",
	StatsKind:     "种类",
	StatsCount:    "数量",
	StatsTotal:    "合计",
	StatsInvalid:  "无效",
	StatsImplicit: "隐式",
	StatsCache:    "缓存: 命中 %d，未命中 %d，条目 %d",
}

// 当前消息
var msg = messagesEN

// 当前语言
var currentLang = LangEnglish

// InitLanguage 初始化语言设置
// 优先级: 命令行参数 > 环境变量 KESTREL_LANG > 操作系统语言 > 默认英文
//
// kestrel.toml 中的 lang 在配置加载后由 applyConfigLanguage 处理。
func InitLanguage(langOverride string) {
	if langOverride != "" {
		setLanguage(langOverride)
		return
	}

	if envLang := os.Getenv(langEnvVar); envLang != "" {
		setLanguage(envLang)
		return
	}

	if detectChineseOS() {
		setLanguage("zh")
		return
	}

	setLanguage("en")
}

// applyConfigLanguage 在命令行和环境变量都未指定语言时使用配置文件中的语言
func applyConfigLanguage(langOverride, configLang string) {
	if langOverride != "" || os.Getenv(langEnvVar) != "" || configLang == "" {
		return
	}
	setLanguage(configLang)
}

// setLanguage 设置语言
func setLanguage(lang string) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	switch lang {
	case "zh", "zh-cn", "zh-tw", "zh-hk", "chinese":
		currentLang = LangChinese
		msg = messagesZH
	default:
		currentLang = LangEnglish
		msg = messagesEN
	}
}

// detectChineseOS 检测操作系统是否为中文环境
func detectChineseOS() bool {
	if runtime.GOOS == "windows" {
		if detectWindowsChinese() {
			return true
		}
		locale := getWindowsLocale()
		if strings.HasPrefix(strings.ToLower(locale), "zh") {
			return true
		}
	}

	// Unix/Linux/Mac: 检查环境变量
	langVars := []string{"LANG", "LANGUAGE", "LC_ALL", "LC_MESSAGES"}
	for _, v := range langVars {
		if val := os.Getenv(v); val != "" {
			lower := strings.ToLower(val)
			if strings.Contains(lower, "zh") ||
				strings.Contains(lower, "chinese") {
				return true
			}
		}
	}

	return false
}

// GetLanguage 获取当前语言
func GetLanguage() Language {
	return currentLang
}

// Msg 获取当前消息对象
func Msg() *Messages {
	return &msg
}
