package cmd

import (
	"debug/elf"
	"fmt"

	"github.com/ethereum-optimism/optimism/op-service/jsonutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/rv32sim/rvsim/fast"
)

func LoadELF(ctx *cli.Context) error {
	l := Logger(ctx.App.ErrWriter, log.LevelInfo)
	elfPath := ctx.Path(LoadELFPathFlag.Name)
	elfProgram, err := elf.Open(elfPath)
	if err != nil {
		return fmt.Errorf("failed to open ELF file %q: %w", elfPath, err)
	}
	defer elfProgram.Close()
	if elfProgram.Machine != elf.EM_RISCV {
		return fmt.Errorf("ELF is not RISC-V, but got %q", elfProgram.Machine.String())
	}
	memSize, err := memorySize(ctx)
	if err != nil {
		return err
	}
	state, err := fast.LoadELF(elfProgram, memSize, l)
	if err != nil {
		return fmt.Errorf("failed to load ELF data into VM state: %w", err)
	}
	if metaPath := ctx.Path(LoadELFMetaFlag.Name); metaPath != "" {
		meta, err := fast.MakeMetadata(elfProgram)
		if err != nil {
			return fmt.Errorf("failed to compute program metadata: %w", err)
		}
		if err := jsonutil.WriteJSON(metaPath, meta, OutFilePerm); err != nil {
			return fmt.Errorf("failed to write metadata: %w", err)
		}
	}
	if err := jsonutil.WriteJSON(ctx.Path(LoadELFOutFlag.Name), state, OutFilePerm); err != nil {
		return fmt.Errorf("failed to write state output: %w", err)
	}
	l.Info("wrote initial state", "memory", state.Memory.Size(), "entry", HexU32(state.PC))
	return nil
}

var LoadELFCommand = &cli.Command{
	Name:        "load-elf",
	Usage:       "Load an RV32I ELF file into a JSON state",
	Description: "Load the PT_LOAD segments of an RV32I ELF file into a JSON state, optionally writing its symbols as metadata.",
	Action:      LoadELF,
	Flags: []cli.Flag{
		LoadELFPathFlag,
		MemorySizeFlag,
		LoadELFOutFlag,
		LoadELFMetaFlag,
	},
}
