// Package writer outputs a disassembled program as assembly source.
package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/chip8vm/internal/program"
)

const (
	dataBytesPerLine = 16
	indent           = "    "
)

type lineWriterFunc func(line string, byteCount int) error

// Writer outputs a program as source that assembles back to the same bytes.
type Writer struct {
	app     *program.Program
	options Options
	writer  io.Writer
}

// Options of the writer.
type Options struct {
	HexComments    bool // output opcode bytes of instructions as comment
	OffsetComments bool // output the address of every line as comment
}

// New creates a new writer.
func New(app *program.Program, writer io.Writer, options Options) *Writer {
	return &Writer{
		app:     app,
		options: options,
		writer:  writer,
	}
}

// Write writes the header comment and all code and data offsets of the program.
func (w Writer) Write() error {
	if err := w.WriteCommentHeader(); err != nil {
		return err
	}
	return w.ProcessOffsets()
}

// WriteCommentHeader writes the CRC32 checksum and code base address as comments to the output.
func (w Writer) WriteCommentHeader() error {
	if _, err := fmt.Fprintf(w.writer, "; CHIP-8 ROM Disassembly\n"); err != nil {
		return fmt.Errorf("writing header comment: %w", err)
	}
	if _, err := fmt.Fprintf(w.writer, "; CRC32 checksum: %08x\n", w.app.Checksum); err != nil {
		return fmt.Errorf("writing checksum: %w", err)
	}
	if _, err := fmt.Fprintf(w.writer, "; Code base address: $%04X\n\n", w.app.CodeBaseAddress); err != nil {
		return fmt.Errorf("writing code base address: %w", err)
	}
	return nil
}

// ProcessOffsets writes all code offsets, labels and their comments.
func (w Writer) ProcessOffsets() error {
	var previousLineWasCode bool
	offsets := w.app.Offsets

	for i := 0; i < len(offsets); i++ {
		offset := offsets[i]
		isCode := offset.IsType(program.CodeOffset)
		if isCode && len(offset.Data) == 0 {
			continue
		}

		if err := w.writeLabel(i, offset); err != nil {
			return err
		}

		// print an empty line in case of data after code and vice versa
		if i > 0 && offset.Label == "" && isCode != previousLineWasCode {
			if _, err := fmt.Fprintln(w.writer); err != nil {
				return fmt.Errorf("writing line: %w", err)
			}
		}
		previousLineWasCode = isCode

		if isCode {
			if err := w.writeCodeLine(offset); err != nil {
				return fmt.Errorf("writing code line: %w", err)
			}
			continue
		}

		count, err := w.writeDataLines(i)
		if err != nil {
			return err
		}
		i += count - 1
	}
	return nil
}

// BundleDataWrites bundles writes of data bytes to print dataBytesPerLine bytes per line.
func (w Writer) BundleDataWrites(data []byte, lineWriter lineWriterFunc) error {
	remaining := len(data)
	for i := 0; remaining > 0; {
		toWrite := min(remaining, dataBytesPerLine)

		buf := &strings.Builder{}
		buf.WriteString(".byte ")

		for j := range toWrite {
			if j > 0 {
				buf.WriteString(", ")
			}
			if _, err := fmt.Fprintf(buf, "$%02X", data[i+j]); err != nil {
				return fmt.Errorf("writing data byte: %w", err)
			}
		}

		if err := lineWriter(buf.String(), toWrite); err != nil {
			return fmt.Errorf("writing data line: %w", err)
		}

		i += toWrite
		remaining -= toWrite
	}

	return nil
}

func (w Writer) writeLabel(index int, offset program.Offset) error {
	if offset.Label == "" {
		return nil
	}

	if index > 0 {
		if _, err := fmt.Fprintln(w.writer); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	}

	if _, err := fmt.Fprintf(w.writer, "%s:\n", offset.Label); err != nil {
		return fmt.Errorf("writing label: %w", err)
	}
	return nil
}

func (w Writer) writeCodeLine(offset program.Offset) error {
	comment := offset.Comment
	if w.options.HexComments {
		hexComment, err := offset.HexCodeComment()
		if err != nil {
			return err
		}
		comment = joinComments(hexComment, comment)
	}
	if w.options.OffsetComments {
		comment = joinComments(fmt.Sprintf("$%04X", offset.Address), comment)
	}

	return w.writeLine(offset.Code, comment)
}

// writeDataLines writes the data bytes starting at the given index until
// the next code offset or label and returns the number of bytes written.
func (w Writer) writeDataLines(startIndex int) (int, error) {
	data := w.dataRun(startIndex)

	currentIndex := startIndex
	lineWriter := func(line string, byteCount int) error {
		offset := w.app.Offsets[currentIndex]

		comment := offset.Comment
		if w.options.OffsetComments {
			comment = joinComments(fmt.Sprintf("$%04X", offset.Address), comment)
		}
		currentIndex += byteCount
		return w.writeLine(line, comment)
	}

	if err := w.BundleDataWrites(data, lineWriter); err != nil {
		return 0, fmt.Errorf("writing data: %w", err)
	}
	return len(data), nil
}

// dataRun returns the data bytes of consecutive data offsets.
func (w Writer) dataRun(startIndex int) []byte {
	var data []byte

	for i := startIndex; i < len(w.app.Offsets); i++ {
		offset := w.app.Offsets[i]

		// stop at first label or code after start index
		if i > startIndex && (offset.IsType(program.CodeOffset) || offset.Label != "") {
			break
		}
		data = append(data, offset.Data...)
	}

	return data
}

func (w Writer) writeLine(line, comment string) error {
	var err error
	if comment == "" {
		_, err = fmt.Fprintf(w.writer, "%s%s\n", indent, line)
	} else {
		_, err = fmt.Fprintf(w.writer, "%-32s ; %s\n", indent+line, comment)
	}
	if err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}

func joinComments(first, second string) string {
	switch {
	case first == "":
		return second
	case second == "":
		return first
	default:
		return first + "  " + second
	}
}
