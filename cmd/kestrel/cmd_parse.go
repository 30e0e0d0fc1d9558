package main

import (
	"fmt"
	"io"
	"os"

	"github.com/segmentio/encoding/json"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
	"gopkg.in/urfave/cli.v1"

	"github.com/tangzhangming/kestrel/internal/ast"
	"github.com/tangzhangming/kestrel/internal/diag"
	"github.com/tangzhangming/kestrel/internal/lexer"
	"github.com/tangzhangming/kestrel/internal/session"
)

// ============================================================================
// parse / tokens / check
// ============================================================================

func parseCommand() cli.Command {
	m := Msg()
	return cli.Command{
		Name:      "parse",
		Usage:     m.CmdParse,
		ArgsUsage: "<file>...",
		Flags: []cli.Flag{
			cli.BoolFlag{Name: "resume", Usage: m.OptResume},
		},
		Action: cmdParse,
	}
}

// cmdParse 打印每个文件的 AST，诊断写到标准错误
func cmdParse(c *cli.Context) error {
	if err := requireInputs(c); err != nil {
		return err
	}
	results, err := parseInputs(c.Args())
	if err != nil {
		return err
	}

	formatter := newFormatter()
	failed := false
	for _, r := range results {
		if c.Bool("resume") {
			// 缓存中的结果共享，延迟函数体在副本上解析
			r = current.sess.Fork(r)
			n := r.Parser.ParseDelayedBodies()
			current.log.Debug("delayed bodies parsed", zap.String("file", r.Path), zap.Int("count", n))
		}
		fmt.Print(ast.Dump(r.File))
		formatter.FormatAll(os.Stderr, r.Diagnostics().Diagnostics(), r.Source)
		failed = failed || r.HasErrors()
	}
	if failed {
		return cli.NewExitError("", 1)
	}
	return nil
}

func tokensCommand() cli.Command {
	return cli.Command{
		Name:      "tokens",
		Usage:     Msg().CmdTokens,
		ArgsUsage: "<file>",
		Action:    cmdTokens,
	}
}

// cmdTokens 运行词法分析器
func cmdTokens(c *cli.Context) error {
	m := Msg()
	if err := requireInputs(c); err != nil {
		return err
	}
	filename := c.Args().First()
	source, err := os.ReadFile(filename)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf(m.ErrReadFile, err), 1)
	}

	l := lexer.New(string(source), filename)
	tokens := l.ScanTokens()

	fmt.Println("=== Tokens ===")
	for _, tok := range tokens {
		fmt.Printf("  %s\n", tok)
	}
	fmt.Println()

	if l.HasErrors() {
		fmt.Println(m.ErrLexer)
		for _, e := range l.Errors() {
			fmt.Printf("  %s\n", e)
		}
		return cli.NewExitError("", 1)
	}
	return nil
}

func checkCommand() cli.Command {
	m := Msg()
	return cli.Command{
		Name:      "check",
		Usage:     m.CmdCheck,
		ArgsUsage: "<file|dir>...",
		Flags: []cli.Flag{
			cli.BoolFlag{Name: "lsp", Usage: m.OptLSP},
		},
		Action: cmdCheck,
	}
}

// cmdCheck 语法检查
func cmdCheck(c *cli.Context) error {
	if err := requireInputs(c); err != nil {
		return err
	}
	results, err := parseInputs(c.Args())
	if err != nil {
		return err
	}

	if c.Bool("lsp") {
		if err := writeLSP(os.Stdout, results); err != nil {
			return cli.NewExitError(fmt.Sprintf(Msg().ErrEncode, err), 1)
		}
	} else {
		reportResults(os.Stdout, os.Stderr, results)
	}

	for _, r := range results {
		if r.HasErrors() {
			return cli.NewExitError("", 1)
		}
	}
	return nil
}

// parseInputs 展开目录并解析全部源文件
func parseInputs(paths []string) ([]*session.Result, error) {
	m := Msg()
	files, err := session.CollectSources(paths)
	if err != nil {
		return nil, cli.NewExitError(fmt.Sprintf(m.ErrReadFile, err), 1)
	}
	results, err := current.sess.ParseFiles(files)
	if err != nil {
		return nil, cli.NewExitError(fmt.Sprintf(m.ErrReadFile, err), 1)
	}
	return results, nil
}

// newFormatter 按配置与终端状态决定是否着色
func newFormatter() *diag.Formatter {
	f := diag.NewFormatter()
	f.SetColors(current.cfg.UseColor(diag.IsTerminal(os.Stderr)))
	return f
}

// reportResults 输出诊断与汇总
func reportResults(out, errOut io.Writer, results []*session.Result) {
	m := Msg()
	formatter := newFormatter()

	errors, warnings := 0, 0
	for _, r := range results {
		d := r.Diagnostics()
		formatter.FormatAll(errOut, d.Diagnostics(), r.Source)
		errors += d.ErrorCount()
		warnings += d.WarningCount()
		if !d.HasErrors() {
			fmt.Fprintf(out, m.SuccessSyntaxOK+"\n", r.Path)
		}
	}
	if errors > 0 || warnings > 0 {
		fmt.Fprintf(errOut, m.Summary+"\n", errors, warnings, len(results))
	}
}

// writeLSP 每个文件输出一条 publishDiagnostics 参数
func writeLSP(w io.Writer, results []*session.Result) error {
	params := make([]protocol.PublishDiagnosticsParams, 0, len(results))
	for _, r := range results {
		params = append(params, diag.PublishParams(r.Path, r.Diagnostics().Diagnostics()))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(params)
}
