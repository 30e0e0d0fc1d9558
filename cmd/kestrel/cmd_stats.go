package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/urfave/cli.v1"

	"github.com/tangzhangming/kestrel/internal/ast"
	"github.com/tangzhangming/kestrel/internal/session"
)

func statsCommand() cli.Command {
	return cli.Command{
		Name:      "stats",
		Usage:     Msg().CmdStats,
		ArgsUsage: "<file|dir>...",
		Action:    cmdStats,
	}
}

// cmdStats 打印每个文件的解析概况和全部文件的声明种类统计
func cmdStats(c *cli.Context) error {
	if err := requireInputs(c); err != nil {
		return err
	}
	results, err := parseInputs(c.Args())
	if err != nil {
		return err
	}

	writeFileTable(os.Stdout, results)
	fmt.Println()
	writeKindTable(os.Stdout, results)

	cs := current.sess.Stats()
	fmt.Printf(Msg().StatsCache+"\n", cs.Hits, cs.Misses, cs.Entries)
	return nil
}

func writeFileTable(w io.Writer, results []*session.Result) {
	m := Msg()
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{m.StatsFile, m.StatsDecls, m.StatsErrors, m.StatsWarnings, m.StatsTime})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})
	for _, r := range results {
		d := r.Diagnostics()
		table.Append([]string{
			r.Path,
			strconv.Itoa(r.File.Arena.NumDecls()),
			strconv.Itoa(d.ErrorCount()),
			strconv.Itoa(d.WarningCount()),
			r.Duration.String(),
		})
	}
	table.Render()
}

// writeKindTable 按声明种类汇总，数量为 0 的种类不列出
func writeKindTable(w io.Writer, results []*session.Result) {
	m := Msg()

	var total ast.Stats
	for _, r := range results {
		s := r.File.Arena.Stats()
		total.Decls += s.Decls
		total.Invalid += s.Invalid
		total.Implicit += s.Implicit
		for k, n := range s.ByKind {
			total.ByKind[k] += n
		}
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{m.StatsKind, m.StatsCount})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	for k := ast.DeclKind(0); k < ast.NumDeclKinds; k++ {
		if n := total.ByKind[k]; n > 0 {
			table.Append([]string{k.String(), strconv.Itoa(n)})
		}
	}
	table.Append([]string{m.StatsInvalid, strconv.Itoa(total.Invalid)})
	table.Append([]string{m.StatsImplicit, strconv.Itoa(total.Implicit)})
	table.SetFooter([]string{m.StatsTotal, strconv.Itoa(total.Decls)})
	table.Render()
}
