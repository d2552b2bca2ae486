package chip8

// Op identifies one of the 35 CHIP-8 instructions.
type Op uint8

// Instruction identifiers, named after their canonical mnemonic and operands.
const (
	OpInvalid Op = iota
	OpSys        // 0nnn
	OpCls        // 00E0
	OpRet        // 00EE
	OpJp         // 1nnn
	OpCall       // 2nnn
	OpSeByte     // 3xkk
	OpSneByte    // 4xkk
	OpSeReg      // 5xy0
	OpLdByte     // 6xkk
	OpAddByte    // 7xkk
	OpLdReg      // 8xy0
	OpOr         // 8xy1
	OpAnd        // 8xy2
	OpXor        // 8xy3
	OpAddReg     // 8xy4
	OpSub        // 8xy5
	OpShr        // 8xy6
	OpSubn       // 8xy7
	OpShl        // 8xyE
	OpSneReg     // 9xy0
	OpLdI        // Annn
	OpJpV0       // Bnnn
	OpRnd        // Cxkk
	OpDrw        // Dxyn
	OpSkp        // Ex9E
	OpSknp       // ExA1
	OpLdVxDT     // Fx07
	OpLdVxK      // Fx0A
	OpLdDTVx     // Fx15
	OpLdSTVx     // Fx18
	OpAddI       // Fx1E
	OpLdF        // Fx29
	OpLdB        // Fx33
	OpStore      // Fx55
	OpLoad       // Fx65

	opCount
)

// OperandKind describes a single operand of an instruction.
type OperandKind uint8

// Operand kinds. Register operands are encoded in the x or y nibble, value
// operands in the low bits of the opcode and keywords are not encoded.
const (
	OperandVx       OperandKind = iota + 1 // register encoded in the x nibble
	OperandVy                              // register encoded in the y nibble
	OperandV0                              // fixed V0 register
	OperandAddr                            // 12 bit address nnn
	OperandByte                            // 8 bit immediate kk
	OperandNibble                          // 4 bit immediate n
	OperandI                               // I register
	OperandIndirectI                       // memory at I, [I]
	OperandDT                              // delay timer
	OperandST                              // sound timer
	OperandK                               // key press
	OperandF                               // font sprite location
	OperandB                               // BCD representation
)

// IsValue returns whether the operand is a numeric value that can be given
// as a number or label.
func (k OperandKind) IsValue() bool {
	return k == OperandAddr || k == OperandByte || k == OperandNibble
}

// IsRegister returns whether the operand is a general purpose register.
func (k OperandKind) IsRegister() bool {
	return k == OperandVx || k == OperandVy || k == OperandV0
}

// OpcodeInfo describes the encoding and textual form of an instruction.
type OpcodeInfo struct {
	Op       Op
	Mask     uint16 // bits that identify the instruction
	Value    uint16 // identifying bits after applying the mask
	Name     string // lower case mnemonic
	Operands []OperandKind
}

// Opcodes contains all instructions, the order of entries with the same
// first nibble matters for decoding, specific encodings come first.
var Opcodes = []OpcodeInfo{
	{OpCls, 0xFFFF, 0x00E0, "cls", nil},
	{OpRet, 0xFFFF, 0x00EE, "ret", nil},
	{OpSys, 0xF000, 0x0000, "sys", []OperandKind{OperandAddr}},
	{OpJp, 0xF000, 0x1000, "jp", []OperandKind{OperandAddr}},
	{OpCall, 0xF000, 0x2000, "call", []OperandKind{OperandAddr}},
	{OpSeByte, 0xF000, 0x3000, "se", []OperandKind{OperandVx, OperandByte}},
	{OpSneByte, 0xF000, 0x4000, "sne", []OperandKind{OperandVx, OperandByte}},
	{OpSeReg, 0xF00F, 0x5000, "se", []OperandKind{OperandVx, OperandVy}},
	{OpLdByte, 0xF000, 0x6000, "ld", []OperandKind{OperandVx, OperandByte}},
	{OpAddByte, 0xF000, 0x7000, "add", []OperandKind{OperandVx, OperandByte}},
	{OpLdReg, 0xF00F, 0x8000, "ld", []OperandKind{OperandVx, OperandVy}},
	{OpOr, 0xF00F, 0x8001, "or", []OperandKind{OperandVx, OperandVy}},
	{OpAnd, 0xF00F, 0x8002, "and", []OperandKind{OperandVx, OperandVy}},
	{OpXor, 0xF00F, 0x8003, "xor", []OperandKind{OperandVx, OperandVy}},
	{OpAddReg, 0xF00F, 0x8004, "add", []OperandKind{OperandVx, OperandVy}},
	{OpSub, 0xF00F, 0x8005, "sub", []OperandKind{OperandVx, OperandVy}},
	{OpShr, 0xF00F, 0x8006, "shr", []OperandKind{OperandVx, OperandVy}},
	{OpSubn, 0xF00F, 0x8007, "subn", []OperandKind{OperandVx, OperandVy}},
	{OpShl, 0xF00F, 0x800E, "shl", []OperandKind{OperandVx, OperandVy}},
	{OpSneReg, 0xF00F, 0x9000, "sne", []OperandKind{OperandVx, OperandVy}},
	{OpLdI, 0xF000, 0xA000, "ld", []OperandKind{OperandI, OperandAddr}},
	{OpJpV0, 0xF000, 0xB000, "jp", []OperandKind{OperandV0, OperandAddr}},
	{OpRnd, 0xF000, 0xC000, "rnd", []OperandKind{OperandVx, OperandByte}},
	{OpDrw, 0xF000, 0xD000, "drw", []OperandKind{OperandVx, OperandVy, OperandNibble}},
	{OpSkp, 0xF0FF, 0xE09E, "skp", []OperandKind{OperandVx}},
	{OpSknp, 0xF0FF, 0xE0A1, "sknp", []OperandKind{OperandVx}},
	{OpLdVxDT, 0xF0FF, 0xF007, "ld", []OperandKind{OperandVx, OperandDT}},
	{OpLdVxK, 0xF0FF, 0xF00A, "ld", []OperandKind{OperandVx, OperandK}},
	{OpLdDTVx, 0xF0FF, 0xF015, "ld", []OperandKind{OperandDT, OperandVx}},
	{OpLdSTVx, 0xF0FF, 0xF018, "ld", []OperandKind{OperandST, OperandVx}},
	{OpAddI, 0xF0FF, 0xF01E, "add", []OperandKind{OperandI, OperandVx}},
	{OpLdF, 0xF0FF, 0xF029, "ld", []OperandKind{OperandF, OperandVx}},
	{OpLdB, 0xF0FF, 0xF033, "ld", []OperandKind{OperandB, OperandVx}},
	{OpStore, 0xF0FF, 0xF055, "ld", []OperandKind{OperandIndirectI, OperandVx}},
	{OpLoad, 0xF0FF, 0xF065, "ld", []OperandKind{OperandVx, OperandIndirectI}},
}

var (
	opcodesByNibble [16][]*OpcodeInfo
	opcodesByOp     [opCount]*OpcodeInfo
	opcodesByName   = map[string][]*OpcodeInfo{}
)

func init() {
	for i := range Opcodes {
		info := &Opcodes[i]
		nibble := info.Value >> 12
		opcodesByNibble[nibble] = append(opcodesByNibble[nibble], info)
		opcodesByOp[info.Op] = info
		opcodesByName[info.Name] = append(opcodesByName[info.Name], info)
	}
}

// Info returns the encoding information of the instruction.
// It returns nil for OpInvalid.
func (o Op) Info() *OpcodeInfo {
	if o == OpInvalid || o >= opCount {
		return nil
	}
	return opcodesByOp[o]
}

// Name returns the lower case mnemonic of the instruction.
func (o Op) Name() string {
	info := o.Info()
	if info == nil {
		return "invalid"
	}
	return info.Name
}

// IsJump returns whether the instruction is an unconditional jump to a fixed address.
func (o Op) IsJump() bool {
	return o == OpJp
}

// IsIndirectJump returns whether the jump target depends on a register.
func (o Op) IsIndirectJump() bool {
	return o == OpJpV0
}

// IsCall returns whether the instruction calls a subroutine.
func (o Op) IsCall() bool {
	return o == OpCall
}

// IsReturn returns whether the instruction returns from a subroutine.
func (o Op) IsReturn() bool {
	return o == OpRet
}

// IsSkip returns whether the instruction conditionally skips the next instruction.
func (o Op) IsSkip() bool {
	switch o {
	case OpSeByte, OpSneByte, OpSeReg, OpSneReg, OpSkp, OpSknp:
		return true
	default:
		return false
	}
}

// IsDataReference returns whether the instruction loads an address of data.
func (o Op) IsDataReference() bool {
	return o == OpLdI
}

// HasAddress returns whether the instruction carries a 12 bit address operand.
func (o Op) HasAddress() bool {
	switch o {
	case OpSys, OpJp, OpCall, OpLdI, OpJpV0:
		return true
	default:
		return false
	}
}

// Lookup returns all instructions that share the given mnemonic.
// The name is expected in lower case.
func Lookup(name string) []*OpcodeInfo {
	return opcodesByName[name]
}
