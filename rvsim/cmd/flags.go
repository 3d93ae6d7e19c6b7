package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/rv32sim/rvsim/riscv"
)

const envPrefix = "RV32SIM_"

func prefixEnvVars(name string) []string {
	return []string{envPrefix + name}
}

var (
	MemorySizeFlag = &cli.Uint64Flag{
		Name:    "memory",
		Aliases: []string{"m"},
		Usage:   "Memory size in bytes, rounded up to a multiple of 16.",
		EnvVars: prefixEnvVars("MEMORY"),
		Value:   riscv.DefaultMemorySize,
	}
	EntryFlag = &cli.Uint64Flag{
		Name:    "entry",
		Usage:   "Initial program counter.",
		EnvVars: prefixEnvVars("ENTRY"),
		Value:   0,
	}
	ImagePathFlag = &cli.PathFlag{
		Name:      "path",
		Usage:     "Path to a raw binary program image, loaded at address 0.",
		TakesFile: true,
		Required:  true,
	}
	StateOutFlag = &cli.PathFlag{
		Name:      "output",
		Usage:     "Path to write the JSON state to.",
		TakesFile: true,
	}

	RunImageFlag = &cli.PathFlag{
		Name:      "image",
		Usage:     "Path to a raw binary program image. May also be given as first argument.",
		TakesFile: true,
	}
	RunInputFlag = &cli.PathFlag{
		Name:      "input",
		Usage:     "Path to a JSON state to resume, instead of an image.",
		TakesFile: true,
	}
	RunLimitFlag = &cli.Uint64Flag{
		Name:    "limit",
		Aliases: []string{"l"},
		Usage:   "Maximum number of instructions to execute. 0 means no limit.",
		EnvVars: prefixEnvVars("LIMIT"),
		Value:   0,
	}
	RunDisasmFlag = &cli.BoolFlag{
		Name:    "disasm",
		Aliases: []string{"d"},
		Usage:   "Show memory disassembly before running the simulation.",
	}
	RunTraceFlag = &cli.BoolFlag{
		Name:    "trace",
		Aliases: []string{"i"},
		Usage:   "Print instructions during execution.",
	}
	RunDumpHartFlag = &cli.BoolFlag{
		Name:    "dump-hart",
		Aliases: []string{"r"},
		Usage:   "Show a dump of the hart before each instruction is simulated.",
	}
	RunDumpAfterFlag = &cli.BoolFlag{
		Name:    "dump-after",
		Aliases: []string{"z"},
		Usage:   "Show a dump of the hart and memory after the simulation has halted.",
	}
	RunPProfCPUFlag = &cli.BoolFlag{
		Name:  "pprof.cpu",
		Usage: "Enable pprof CPU profiling.",
	}

	RunMetaFlag = &cli.PathFlag{
		Name:      "meta",
		Usage:     "Path to the ELF symbol metadata, to name the PC in logs.",
		TakesFile: true,
	}

	LoadELFPathFlag = &cli.PathFlag{
		Name:      "path",
		Usage:     "Path to an RV32I ELF executable.",
		TakesFile: true,
		Required:  true,
	}
	LoadELFOutFlag = &cli.PathFlag{
		Name:      "output",
		Usage:     "Path to write the JSON state to.",
		TakesFile: true,
		Required:  true,
	}
	LoadELFMetaFlag = &cli.PathFlag{
		Name:      "meta",
		Usage:     "Path to write the ELF symbol metadata to.",
		TakesFile: true,
	}

	DisasmDumpFlag = &cli.BoolFlag{
		Name:  "dump",
		Usage: "Also dump memory as hex and ASCII.",
	}

	WitnessInputFlag = &cli.PathFlag{
		Name:      "input",
		Usage:     "Path of the JSON state to hash.",
		TakesFile: true,
		Required:  true,
	}
	WitnessOutputFlag = &cli.PathFlag{
		Name:      "output",
		Usage:     "Path to write the witness and state hash to, as JSON.",
		TakesFile: true,
	}
)

// memorySize reads the memory flag, which must fit the 32 bit address space.
func memorySize(ctx *cli.Context) (uint32, error) {
	size := ctx.Uint64(MemorySizeFlag.Name)
	if size > 0xFFFF_FFF0 {
		return 0, fmt.Errorf("memory size 0x%x exceeds the 32 bit address space", size)
	}
	return uint32(size), nil
}

func entryPoint(ctx *cli.Context) (uint32, error) {
	entry := ctx.Uint64(EntryFlag.Name)
	if entry > 0xFFFF_FFFF {
		return 0, fmt.Errorf("entry point 0x%x exceeds the 32 bit address space", entry)
	}
	return uint32(entry), nil
}
