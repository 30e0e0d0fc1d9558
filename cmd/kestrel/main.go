package main

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/urfave/cli.v1"

	"github.com/tangzhangming/kestrel/internal/config"
	"github.com/tangzhangming/kestrel/internal/i18n"
	"github.com/tangzhangming/kestrel/internal/session"
)

const (
	Version = "0.1.0"
)

// 全局语言参数
var globalLang string

// env 命令执行环境，由 Before 建立
type env struct {
	cfg     *config.Config
	cfgPath string
	log     *zap.Logger
	sess    *session.Session
}

var current *env

var (
	langFlag = cli.StringFlag{
		Name: "lang",
	}
	configFlag = cli.StringFlag{
		Name: "config",
	}
	verboseFlag = cli.BoolFlag{
		Name: "verbose, v",
	}
)

func main() {
	// 语言需要在构建帮助文本之前确定
	globalLang = scanLangArg(os.Args[1:])
	InitLanguage(globalLang)
	syncLanguage()

	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newApp 构建命令树
func newApp() *cli.App {
	m := Msg()

	langFlag.Usage = m.OptLang
	configFlag.Usage = m.OptConfig
	verboseFlag.Usage = m.OptVerbose

	app := cli.NewApp()
	app.Name = "kestrel"
	app.Usage = m.AppUsage
	app.Version = Version
	app.HideVersion = true
	app.Flags = []cli.Flag{langFlag, configFlag, verboseFlag}
	app.Before = setup
	app.After = teardown
	app.Commands = []cli.Command{
		parseCommand(),
		tokensCommand(),
		checkCommand(),
		statsCommand(),
		watchCommand(),
		initCommand(),
		{
			Name:   "version",
			Usage:  m.CmdVersion,
			Action: cmdVersion,
		},
	}
	return app
}

// scanLangArg 预扫描全局参数 --lang 或 -lang
func scanLangArg(args []string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--lang" || arg == "-lang":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(arg, "--lang="):
			return strings.TrimPrefix(arg, "--lang=")
		case strings.HasPrefix(arg, "-lang="):
			return strings.TrimPrefix(arg, "-lang=")
		}
	}
	return ""
}

// syncLanguage 同步设置内部模块语言
func syncLanguage() {
	switch GetLanguage() {
	case LangChinese:
		i18n.SetLanguage(i18n.LangChinese)
	default:
		i18n.SetLanguage(i18n.LangEnglish)
	}
}

// setup 加载配置、创建日志与解析会话
func setup(c *cli.Context) error {
	m := Msg()

	var (
		cfg  *config.Config
		path string
		err  error
	)
	if path = c.GlobalString(configFlag.Name); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, path, err = config.LoadFor(firstInput(c.Args()))
	}
	if err != nil {
		return cli.NewExitError(fmt.Sprintf(m.ErrConfig, err), 2)
	}
	if err := cfg.Validate(Version); err != nil {
		return cli.NewExitError(fmt.Sprintf(m.ErrConfig, err), 2)
	}

	applyConfigLanguage(globalLang, cfg.Diagnostics.Lang)
	syncLanguage()

	log, err := newLogger(c.GlobalBool("verbose"))
	if err != nil {
		return cli.NewExitError(fmt.Sprintf(Msg().ErrLogger, err), 2)
	}
	if path != "" {
		log.Debug("config loaded", zap.String("path", path))
	}

	sess, err := session.New(cfg, log, session.DefaultCacheSize)
	if err != nil {
		return cli.NewExitError(err.Error(), 2)
	}
	current = &env{cfg: cfg, cfgPath: path, log: log, sess: sess}
	return nil
}

func teardown(c *cli.Context) error {
	if current != nil {
		_ = current.log.Sync()
	}
	return nil
}

// firstInput 返回命令行中第一个输入路径，用于查找配置文件
//
// args 以子命令名开头。
func firstInput(args cli.Args) string {
	for _, arg := range args.Tail() {
		if !isFlag(arg) {
			return arg
		}
	}
	return "."
}

func isFlag(s string) bool {
	return len(s) > 0 && s[0] == '-'
}

// newLogger -v 时使用开发模式日志，否则只输出 warn 以上的 JSON 日志
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// cmdVersion 显示版本信息
func cmdVersion(c *cli.Context) error {
	m := Msg()
	fmt.Printf(m.VersionTitle+"\n", Version)
	fmt.Println(m.VersionDesc)
	return nil
}

// requireInputs 检查至少给出一个输入
func requireInputs(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.NewExitError(Msg().ErrNoInput, 1)
	}
	return nil
}
