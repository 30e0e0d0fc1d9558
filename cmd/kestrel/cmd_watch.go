package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/urfave/cli.v1"

	"github.com/tangzhangming/kestrel/internal/session"
)

func watchCommand() cli.Command {
	return cli.Command{
		Name:      "watch",
		Usage:     Msg().CmdWatch,
		ArgsUsage: "<file|dir>...",
		Action:    cmdWatch,
	}
}

// cmdWatch 持续检查，直到收到中断信号
func cmdWatch(c *cli.Context) error {
	m := Msg()
	if err := requireInputs(c); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(os.Stderr, m.WatchStarted)
	err := current.sess.Watch(ctx, c.Args(), func(r *session.Result) {
		reportResults(os.Stdout, os.Stderr, []*session.Result{r})
	})
	if err != nil {
		return cli.NewExitError(fmt.Sprintf(m.ErrWatch, err), 1)
	}
	return nil
}
