package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/urfave/cli.v1"

	"github.com/tangzhangming/kestrel/internal/config"
	"github.com/tangzhangming/kestrel/internal/session"
)

func initCommand() cli.Command {
	m := Msg()
	return cli.Command{
		Name:  "init",
		Usage: m.CmdInit,
		Flags: []cli.Flag{
			cli.BoolFlag{Name: "script", Usage: m.OptScript},
			cli.StringFlag{Name: "requires", Usage: m.OptRequires},
		},
		Action: cmdInit,
	}
}

// cmdInit 初始化新项目
func cmdInit(c *cli.Context) error {
	m := Msg()

	dir, err := os.Getwd()
	if err != nil {
		return cli.NewExitError(fmt.Sprintf(m.ErrGetWorkDir, err), 1)
	}

	// 检查是否已存在配置文件
	configPath := filepath.Join(dir, config.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil {
		return cli.NewExitError(fmt.Sprintf(m.ErrConfigExists, config.ConfigFileName), 1)
	}

	cfg := config.Default()
	if c.Bool("script") {
		cfg.Parser.Mode = "script"
	}
	cfg.Tool.Requires = c.String("requires")
	if err := cfg.Validate(Version); err != nil {
		return cli.NewExitError(fmt.Sprintf(m.ErrConfig, err), 1)
	}

	fmt.Printf(m.InitCreating+"\n", config.ConfigFileName)
	if err := cfg.Save(configPath); err != nil {
		return cli.NewExitError(fmt.Sprintf(m.ErrCreateConfig, err), 1)
	}

	mainName := "main" + session.SourceFileExtension
	mainPath := filepath.Join(dir, mainName)
	if _, err := os.Stat(mainPath); os.IsNotExist(err) {
		fmt.Printf(m.InitCreating+"\n", mainName)
		if err := os.WriteFile(mainPath, []byte(generateMainTemplate(cfg.Parser.Mode)), 0644); err != nil {
			return cli.NewExitError(fmt.Sprintf(m.ErrCreateFile, err), 1)
		}
	}

	fmt.Println()
	fmt.Printf(m.InitSuccess+"\n", dir)
	fmt.Println()
	fmt.Println(m.InitNextSteps)
	fmt.Printf("  kestrel check %s\n", mainName)
	return nil
}

// generateMainTemplate 生成 main.kes 模板
func generateMainTemplate(mode string) string {
	if mode == "script" {
		return `import Foundation

var greeting = "Hello, Kestrel!"
print(greeting)
`
	}
	return `import Foundation

struct Greeter {
  var name: String

  func greet() -> String {
    return "Hello, \(name)!"
  }
}
`
}
