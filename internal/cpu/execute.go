package cpu

import (
	"fmt"

	"github.com/retroenv/chip8vm/internal/arch/chip8"
	"github.com/retroenv/chip8vm/internal/memory"
)

// execute runs a decoded instruction. The program counter already points to
// the following instruction.
func (c *CPU) execute(ins chip8.Instruction) error {
	switch ins.Op {
	case chip8.OpSys:
		// machine code routines of the original hardware are not supported
	case chip8.OpCls:
		c.display.Clear()
	case chip8.OpRet:
		return c.ret()
	case chip8.OpJp:
		return c.jump(ins.NNN)
	case chip8.OpCall:
		return c.call(ins.NNN)
	case chip8.OpSeByte:
		c.skipIf(c.v[ins.X] == ins.KK)
	case chip8.OpSneByte:
		c.skipIf(c.v[ins.X] != ins.KK)
	case chip8.OpSeReg:
		c.skipIf(c.v[ins.X] == c.v[ins.Y])
	case chip8.OpSneReg:
		c.skipIf(c.v[ins.X] != c.v[ins.Y])
	case chip8.OpLdByte:
		c.v[ins.X] = ins.KK
	case chip8.OpAddByte:
		c.v[ins.X] += ins.KK
	case chip8.OpLdReg:
		c.v[ins.X] = c.v[ins.Y]
	case chip8.OpOr:
		c.logic(ins.X, c.v[ins.X]|c.v[ins.Y])
	case chip8.OpAnd:
		c.logic(ins.X, c.v[ins.X]&c.v[ins.Y])
	case chip8.OpXor:
		c.logic(ins.X, c.v[ins.X]^c.v[ins.Y])
	case chip8.OpAddReg:
		sum := uint16(c.v[ins.X]) + uint16(c.v[ins.Y])
		c.setWithFlag(ins.X, uint8(sum), sum > 0xFF)
	case chip8.OpSub:
		x, y := c.v[ins.X], c.v[ins.Y]
		c.setWithFlag(ins.X, x-y, x >= y)
	case chip8.OpSubn:
		x, y := c.v[ins.X], c.v[ins.Y]
		c.setWithFlag(ins.X, y-x, y >= x)
	case chip8.OpShr:
		src := c.shiftSource(ins)
		c.setWithFlag(ins.X, src>>1, src&0x01 != 0)
	case chip8.OpShl:
		src := c.shiftSource(ins)
		c.setWithFlag(ins.X, src<<1, src&0x80 != 0)
	case chip8.OpLdI:
		c.i = ins.NNN
	case chip8.OpJpV0:
		return c.jump(ins.NNN + uint16(c.v[0]))
	case chip8.OpRnd:
		c.v[ins.X] = uint8(c.rng.UintN(256)) & ins.KK
	case chip8.OpDrw:
		return c.draw(ins)
	case chip8.OpSkp:
		c.skipIf(c.keys.IsPressed(c.v[ins.X] & 0x0F))
	case chip8.OpSknp:
		c.skipIf(!c.keys.IsPressed(c.v[ins.X] & 0x0F))
	case chip8.OpLdVxDT:
		c.v[ins.X] = c.timers.Delay()
	case chip8.OpLdVxK:
		c.waitForKey(ins.X)
	case chip8.OpLdDTVx:
		c.timers.SetDelay(c.v[ins.X])
	case chip8.OpLdSTVx:
		c.timers.SetSound(c.v[ins.X])
	case chip8.OpAddI:
		return c.setIndex(int(c.i) + int(c.v[ins.X]))
	case chip8.OpLdF:
		c.i = memory.FontAddress(c.v[ins.X])
	case chip8.OpLdB:
		return c.storeBCD(c.v[ins.X])
	case chip8.OpStore:
		return c.storeRegisters(ins.X)
	case chip8.OpLoad:
		return c.loadRegisters(ins.X)
	case chip8.OpInvalid:
		return ErrInvalidOpcode
	default:
		return fmt.Errorf("%w: unhandled instruction %d", ErrInvalidOpcode, ins.Op)
	}
	return nil
}

// jump sets the program counter, instructions can only start at even addresses.
func (c *CPU) jump(address uint16) error {
	if address%chip8.InstructionSize != 0 {
		return fmt.Errorf("%w: jump to $%04X", ErrUnalignedAddress, address)
	}
	c.pc = address
	return nil
}

func (c *CPU) call(address uint16) error {
	if address%chip8.InstructionSize != 0 {
		return fmt.Errorf("%w: call to $%04X", ErrUnalignedAddress, address)
	}
	if int(c.sp) >= StackDepth {
		return fmt.Errorf("%w: depth %d reached", ErrStackOverflow, StackDepth)
	}
	c.stack[c.sp] = c.pc
	c.sp++
	c.pc = address
	return nil
}

func (c *CPU) ret() error {
	if c.sp == 0 {
		return ErrStackUnderflow
	}
	c.sp--
	c.pc = c.stack[c.sp]
	return nil
}

// setIndex sets the index register, which has to reference addressable memory.
func (c *CPU) setIndex(address int) error {
	if address >= memory.Size {
		return fmt.Errorf("%w: index register $%04X", memory.ErrOutOfBounds, address)
	}
	c.i = uint16(address)
	return nil
}

func (c *CPU) skipIf(condition bool) {
	if condition {
		c.pc += chip8.InstructionSize
	}
}

// setWithFlag stores the result before the flag so that the flag wins when
// the destination is VF.
func (c *CPU) setWithFlag(x, value uint8, flag bool) {
	c.v[x] = value
	if flag {
		c.v[FlagRegister] = 1
	} else {
		c.v[FlagRegister] = 0
	}
}

func (c *CPU) logic(x, value uint8) {
	c.v[x] = value
	if c.quirks.LogicResetsVF {
		c.v[FlagRegister] = 0
	}
}

func (c *CPU) shiftSource(ins chip8.Instruction) uint8 {
	if c.quirks.ShiftInPlace {
		return c.v[ins.X]
	}
	return c.v[ins.Y]
}

func (c *CPU) draw(ins chip8.Instruction) error {
	sprite, err := c.memory.ReadRange(c.i, int(ins.N))
	if err != nil {
		return fmt.Errorf("reading sprite: %w", err)
	}

	collided := c.display.DrawSprite(c.v[ins.X], c.v[ins.Y], sprite)
	if collided {
		c.v[FlagRegister] = 1
	} else {
		c.v[FlagRegister] = 0
	}
	return nil
}

// waitForKey suspends the execution on the current instruction until a key
// transitions from released to pressed.
func (c *CPU) waitForKey(x uint8) {
	c.pc -= chip8.InstructionSize
	c.state = AwaitingKey
	c.waitRegister = x
	c.waitKeys = c.keys.Mask()
}

func (c *CPU) storeBCD(value uint8) error {
	digits := []byte{value / 100, value / 10 % 10, value % 10}
	if err := c.memory.WriteRange(c.i, digits); err != nil {
		return fmt.Errorf("storing BCD: %w", err)
	}
	return nil
}

func (c *CPU) storeRegisters(x uint8) error {
	if err := c.memory.WriteRange(c.i, c.v[:x+1]); err != nil {
		return fmt.Errorf("storing registers: %w", err)
	}
	if c.quirks.LoadStoreIncrementsI {
		return c.setIndex(int(c.i) + int(x) + 1)
	}
	return nil
}

func (c *CPU) loadRegisters(x uint8) error {
	data, err := c.memory.ReadRange(c.i, int(x)+1)
	if err != nil {
		return fmt.Errorf("loading registers: %w", err)
	}
	copy(c.v[:], data)
	if c.quirks.LoadStoreIncrementsI {
		return c.setIndex(int(c.i) + int(x) + 1)
	}
	return nil
}
