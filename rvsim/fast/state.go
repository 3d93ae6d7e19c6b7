package fast

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ethereum-optimism/optimism/op-service/jsonutil"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
)

type Status uint8

const (
	StatusRunning Status = iota
	StatusHalted
	StatusTrapped
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusHalted:
		return "halted"
	case StatusTrapped:
		return "trapped"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// Reason explains why the hart stopped.
type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonEcall
	ReasonEbreak
	ReasonLimitReached
	ReasonIllegalInstruction
	ReasonMisalignedFetch
	ReasonFetchOutOfBounds
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonEcall:
		return "ECALL instruction"
	case ReasonEbreak:
		return "EBREAK instruction"
	case ReasonLimitReached:
		return "execution limit reached"
	case ReasonIllegalInstruction:
		return "illegal instruction"
	case ReasonMisalignedFetch:
		return "PC alignment error"
	case ReasonFetchOutOfBounds:
		return "PC out of bounds"
	default:
		return fmt.Sprintf("Reason(%d)", uint8(r))
	}
}

// State hash status codes, stored in the first byte of the state hash.
const (
	VMStatusValid      = 0
	VMStatusInvalid    = 1
	VMStatusPanic      = 2
	VMStatusUnfinished = 3
)

type VMState struct {
	Memory *Memory `json:"memory"`

	Registers RegisterFile `json:"registers"`
	CSR       CSRFile      `json:"csr"`

	PC uint32 `json:"pc"`

	Status Status `json:"status"`
	Reason Reason `json:"reason"`

	// offending PC and instruction word when trapped
	TrapPC    uint32 `json:"trapPC"`
	TrapInstr uint32 `json:"trapInstr"`

	// retired instructions
	Step uint64 `json:"step"`

	MemFaults uint64 `json:"memFaults"`
}

// NewVMState creates a running hart with memSize bytes of memory and poisoned registers.
func NewVMState(memSize uint32, logger log.Logger) *VMState {
	state := &VMState{
		Memory: NewMemory(memSize, logger),
	}
	state.Registers.Reset()
	return state
}

// LoadVMStateFromFile reads a JSON state, as written by the run and load-bin commands.
func LoadVMStateFromFile(path string) (*VMState, error) {
	state, err := jsonutil.LoadJSON[VMState](path)
	if err != nil {
		return nil, err
	}
	if state.Memory == nil {
		return nil, fmt.Errorf("state %q has no memory", path)
	}
	if x0 := state.Registers[0]; x0 != 0 {
		return nil, fmt.Errorf("state %q has x0 set to %s, x0 is hardwired to zero", path, ToHex0x32(x0))
	}
	return state, nil
}

func (state *VMState) Exited() bool {
	return state.Status != StatusRunning
}

// Instr returns the word at the current PC.
func (state *VMState) Instr() uint32 {
	return state.Memory.Get32(state.PC)
}

// DumpHart writes the registers and the PC.
func (state *VMState) DumpHart(w io.Writer, hdr string) error {
	if err := state.Registers.Dump(w, hdr); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s pc %s\n", hdr, ToHex32(state.PC))
	return err
}

func (state *VMState) vmStatus() uint8 {
	switch state.Status {
	case StatusRunning:
		return VMStatusUnfinished
	case StatusTrapped:
		return VMStatusPanic
	case StatusHalted:
		if state.Reason == ReasonLimitReached {
			return VMStatusUnfinished
		}
		return VMStatusValid
	default:
		// only reachable through a hand-edited state file
		return VMStatusInvalid
	}
}

func (state *VMState) EncodeWitness() []byte {
	out := make([]byte, 0, 32+4+2+8+4+32*4)
	memHash := crypto.Keccak256Hash(state.Memory.data)
	out = append(out, memHash[:]...)
	out = binary.BigEndian.AppendUint32(out, state.PC)
	out = append(out, uint8(state.Status), uint8(state.Reason))
	out = binary.BigEndian.AppendUint64(out, state.Step)
	out = binary.BigEndian.AppendUint32(out, state.TrapInstr)
	for _, r := range state.Registers {
		out = binary.BigEndian.AppendUint32(out, r)
	}
	return out
}

// StateHash commits to the witness, with the first byte replaced by the VM status.
func (state *VMState) StateHash() common.Hash {
	h := crypto.Keccak256Hash(state.EncodeWitness())
	h[0] = state.vmStatus()
	return h
}
