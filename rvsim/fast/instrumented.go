package fast

import (
	"context"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/log"
)

type Option func(m *InstrumentedState)

// WithTrace prints every instruction, as it is executed, to w.
func WithTrace(w io.Writer) Option {
	return func(m *InstrumentedState) {
		m.trace = w
	}
}

// WithHartDump dumps the registers and PC to w before every instruction.
func WithHartDump(w io.Writer) Option {
	return func(m *InstrumentedState) {
		m.hartDump = w
	}
}

// WithLimit halts the hart after n retired instructions. 0 means no limit.
func WithLimit(n uint64) Option {
	return func(m *InstrumentedState) {
		m.limit = n
	}
}

func WithLogger(logger log.Logger) Option {
	return func(m *InstrumentedState) {
		m.log = logger
	}
}

// InstrumentedState drives the fetch-decode-execute loop of a single hart.
type InstrumentedState struct {
	state *VMState

	trace    io.Writer
	hartDump io.Writer

	limit uint64

	log log.Logger
}

func NewInstrumentedState(state *VMState, opts ...Option) *InstrumentedState {
	m := &InstrumentedState{state: state}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = log.Root()
	}
	return m
}

func (m *InstrumentedState) State() *VMState {
	return m.state
}

// Step runs a single instruction. It is a no-op once the hart has halted or trapped.
// Errors are only returned when writing trace output fails; halts and traps are recorded in the state.
func (m *InstrumentedState) Step() error {
	s := m.state
	if s.Exited() {
		return nil
	}
	pc := s.PC
	if pc%4 != 0 {
		m.trap(ReasonMisalignedFetch, pc, 0)
		return nil
	}
	if !s.Memory.Contains(pc, 4) {
		m.trap(ReasonFetchOutOfBounds, pc, 0)
		return nil
	}
	instr := s.Memory.Get32(pc)
	insn := Decode(instr)

	if m.hartDump != nil {
		if err := s.DumpHart(m.hartDump, ""); err != nil {
			return fmt.Errorf("failed to dump hart: %w", err)
		}
	}
	if m.trace != nil {
		if _, err := fmt.Fprintf(m.trace, "%s: %s  %s\n", ToHex32(pc), ToHex32(instr), Disassemble(pc, insn)); err != nil {
			return fmt.Errorf("failed to write trace: %w", err)
		}
	}

	eff := Execute(insn, s)
	if eff.Fault != nil {
		s.MemFaults++
	}
	switch eff.Kind {
	case EffectTrap:
		m.trap(eff.Reason, pc, instr)
		return nil
	case EffectHalt:
		// PC stays on the halting instruction
		s.Step++
		s.Status = StatusHalted
		s.Reason = eff.Reason
		return nil
	}
	s.PC = eff.NextPC
	s.Step++
	if m.limit > 0 && s.Step >= m.limit {
		s.Status = StatusHalted
		s.Reason = ReasonLimitReached
	}
	return nil
}

func (m *InstrumentedState) trap(reason Reason, pc uint32, instr uint32) {
	s := m.state
	s.Status = StatusTrapped
	s.Reason = reason
	s.TrapPC = pc
	s.TrapInstr = instr
	m.log.Warn("Hart trapped", "reason", reason, "pc", ToHex0x32(pc), "insn", ToHex0x32(instr), "step", s.Step)
}

// Run steps until the hart halts or traps, or until ctx is done.
func (m *InstrumentedState) Run(ctx context.Context) error {
	s := m.state
	for !s.Exited() {
		if s.Step%100 == 0 { // don't do the ctx err check (includes lock) too often
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := m.Step(); err != nil {
			return fmt.Errorf("failed at step %d (PC: %08x): %w", s.Step, s.PC, err)
		}
	}
	return nil
}
