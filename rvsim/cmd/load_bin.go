package cmd

import (
	"fmt"
	"os"

	"github.com/ethereum-optimism/optimism/op-service/jsonutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/rv32sim/rvsim/fast"
)

var OutFilePerm = os.FileMode(0o755)

// NewStateFromImage creates a fresh hart and loads the raw binary at path into its memory.
func NewStateFromImage(path string, memSize uint32, entry uint32, l log.Logger) (*fast.VMState, error) {
	state := fast.NewVMState(memSize, l)
	if err := state.Memory.LoadFile(path); err != nil {
		return nil, err
	}
	state.PC = entry
	return state, nil
}

func stateFromFlags(ctx *cli.Context, path string, l log.Logger) (*fast.VMState, error) {
	memSize, err := memorySize(ctx)
	if err != nil {
		return nil, err
	}
	entry, err := entryPoint(ctx)
	if err != nil {
		return nil, err
	}
	return NewStateFromImage(path, memSize, entry, l)
}

func LoadBin(ctx *cli.Context) error {
	l := Logger(ctx.App.ErrWriter, log.LevelInfo)
	path := ctx.Path(ImagePathFlag.Name)
	state, err := stateFromFlags(ctx, path, l)
	if err != nil {
		return fmt.Errorf("failed to load program image: %w", err)
	}
	output := ctx.Path(StateOutFlag.Name)
	if output == "" {
		return fmt.Errorf("missing --%s path", StateOutFlag.Name)
	}
	if err := jsonutil.WriteJSON(output, state, OutFilePerm); err != nil {
		return fmt.Errorf("failed to write state output: %w", err)
	}
	l.Info("wrote initial state", "output", output, "memory", state.Memory.Size(), "pc", HexU32(state.PC))
	return nil
}

var LoadBinCommand = &cli.Command{
	Name:        "load-bin",
	Usage:       "Load a raw binary program image into a JSON state",
	Description: "Load a raw binary program image into a JSON state, ready to be run.",
	Action:      LoadBin,
	Flags: []cli.Flag{
		ImagePathFlag,
		MemorySizeFlag,
		EntryFlag,
		StateOutFlag,
	},
}
