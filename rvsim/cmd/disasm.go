package cmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/rv32sim/rvsim/fast"
)

func Disasm(ctx *cli.Context) error {
	l := Logger(ctx.App.ErrWriter, log.LevelInfo)
	state, err := stateFromFlags(ctx, ctx.Path(ImagePathFlag.Name), l)
	if err != nil {
		return fmt.Errorf("failed to load program image: %w", err)
	}
	out := ctx.App.Writer
	if err := fast.DisassembleMemory(out, state.Memory); err != nil {
		return fmt.Errorf("failed to write disassembly: %w", err)
	}
	if ctx.Bool(DisasmDumpFlag.Name) {
		if err := state.Memory.Dump(out); err != nil {
			return fmt.Errorf("failed to dump memory: %w", err)
		}
	}
	return nil
}

var DisasmCommand = &cli.Command{
	Name:        "disasm",
	Usage:       "Disassemble a raw binary program image",
	Description: "Disassemble every word of memory after loading a raw binary program image, without running it.",
	Action:      Disasm,
	Flags: []cli.Flag{
		ImagePathFlag,
		MemorySizeFlag,
		DisasmDumpFlag,
	},
}
