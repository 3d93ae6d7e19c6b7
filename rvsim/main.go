package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/rv32sim/rvsim/cmd"
)

func main() {
	app := cli.NewApp()
	app.Name = "rv32sim"
	app.Usage = "RV32I instruction set simulator"
	app.Description = "Loads RV32I programs, raw images or ELF files, into a simulated hart to run, trace, disassemble or hash them."
	app.Commands = []*cli.Command{
		cmd.RunCommand,
		cmd.DisasmCommand,
		cmd.LoadBinCommand,
		cmd.LoadELFCommand,
		cmd.WitnessCommand,
	}
	ctx, cancel := context.WithCancel(context.Background())

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for {
			<-c
			cancel()
			fmt.Println("\r\nExiting...")
		}
	}()

	err := app.RunContext(ctx, os.Args)
	if err != nil {
		if errors.Is(err, ctx.Err()) {
			_, _ = fmt.Fprintf(os.Stderr, "command interrupted\n")
			os.Exit(130)
		} else {
			_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
}
