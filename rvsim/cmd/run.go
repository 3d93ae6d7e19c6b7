package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/ethereum-optimism/optimism/op-service/jsonutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/profile"
	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/rv32sim/rvsim/fast"
)

func loadRunState(ctx *cli.Context, l log.Logger) (*fast.VMState, error) {
	if input := ctx.Path(RunInputFlag.Name); input != "" {
		for _, f := range []string{MemorySizeFlag.Name, EntryFlag.Name} {
			if ctx.IsSet(f) {
				l.Warn("ignoring flag, the input state defines memory and pc", "flag", f, "input", input)
			}
		}
		state, err := fast.LoadVMStateFromFile(input)
		if err != nil {
			return nil, fmt.Errorf("failed to load state %q: %w", input, err)
		}
		state.Memory.SetLogger(l)
		if state.Status == fast.StatusHalted && state.Reason == fast.ReasonLimitReached {
			state.Status = fast.StatusRunning
			state.Reason = fast.ReasonNone
		}
		return state, nil
	}
	image := ctx.Path(RunImageFlag.Name)
	if image == "" {
		image = ctx.Args().First()
	}
	if image == "" {
		return nil, errors.New("no program image or input state given")
	}
	state, err := stateFromFlags(ctx, image, l)
	if err != nil {
		return nil, fmt.Errorf("failed to load program image: %w", err)
	}
	return state, nil
}

func Run(ctx *cli.Context) error {
	if ctx.Bool(RunPProfCPUFlag.Name) {
		defer profile.Start(profile.NoShutdownHook, profile.ProfilePath("."), profile.CPUProfile).Stop()
	}

	l := Logger(ctx.App.ErrWriter, log.LevelInfo)
	out := ctx.App.Writer

	state, err := loadRunState(ctx, l)
	if err != nil {
		return err
	}

	if ctx.Bool(RunDisasmFlag.Name) {
		if err := fast.DisassembleMemory(out, state.Memory); err != nil {
			return fmt.Errorf("failed to write disassembly: %w", err)
		}
	}

	opts := []fast.Option{fast.WithLogger(l)}
	if limit := ctx.Uint64(RunLimitFlag.Name); limit > 0 {
		// the limit counts from where a resumed state left off
		opts = append(opts, fast.WithLimit(state.Step+limit))
	}
	if ctx.Bool(RunTraceFlag.Name) {
		opts = append(opts, fast.WithTrace(out))
	}
	if ctx.Bool(RunDumpHartFlag.Name) {
		opts = append(opts, fast.WithHartDump(out))
	}
	us := fast.NewInstrumentedState(state, opts...)

	meta := &fast.Metadata{}
	if metaPath := ctx.Path(RunMetaFlag.Name); metaPath != "" {
		if meta, err = jsonutil.LoadJSON[fast.Metadata](metaPath); err != nil {
			return fmt.Errorf("failed to load metadata: %w", err)
		}
	}

	start := time.Now()
	startStep := state.Step
	if err := us.Run(ctx.Context); err != nil {
		return err
	}
	delta := time.Since(start)

	if state.Status == fast.StatusTrapped {
		fmt.Fprintf(out, "Trap at %s: instruction %s\n", fast.ToHex0x32(state.TrapPC), fast.ToHex0x32(state.TrapInstr))
	}
	fmt.Fprintf(out, "Execution terminated. Reason: %s\n", state.Reason)
	fmt.Fprintf(out, "%d instructions executed\n", state.Step)

	l.Info("simulation finished",
		"status", state.Status,
		"reason", state.Reason,
		"step", state.Step,
		"pc", HexU32(state.PC),
		"name", meta.LookupSymbol(state.PC),
		"memFaults", state.MemFaults,
		"ips", float64(state.Step-startStep)/(float64(delta)/float64(time.Second)),
		"stateHash", state.StateHash(),
	)

	if ctx.Bool(RunDumpAfterFlag.Name) {
		if err := state.DumpHart(out, ""); err != nil {
			return fmt.Errorf("failed to dump hart: %w", err)
		}
		if err := state.Memory.Dump(out); err != nil {
			return fmt.Errorf("failed to dump memory: %w", err)
		}
	}

	if output := ctx.Path(StateOutFlag.Name); output != "" {
		if err := jsonutil.WriteJSON(output, state, OutFilePerm); err != nil {
			return fmt.Errorf("failed to write state output: %w", err)
		}
	}
	return nil
}

var RunCommand = &cli.Command{
	Name:        "run",
	Usage:       "Simulate an RV32I program until it halts or traps",
	Description: "Simulate an RV32I program image, or resume a JSON state, until it halts or traps. See flags to trace, dump and limit execution.",
	Action:      Run,
	Flags: []cli.Flag{
		RunImageFlag,
		RunInputFlag,
		MemorySizeFlag,
		EntryFlag,
		RunLimitFlag,
		RunDisasmFlag,
		RunTraceFlag,
		RunDumpHartFlag,
		RunDumpAfterFlag,
		StateOutFlag,
		RunMetaFlag,
		RunPProfCPUFlag,
	},
}
