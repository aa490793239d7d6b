package output

import (
	"fmt"
	"io"
	"os"
)

type Class int

const (
	Required Class = iota //requested information, printed even in quiet mode
	Error
	Normal
	Verbose
)

const Banner = "------------------------------------------------------------"

type Printer struct {
	classes   map[Class]bool
	terminal  io.Writer
	diagnosis io.Writer
}

func NewPrinter(include []Class) (p Printer) {
	p = Printer{
		classes:   map[Class]bool{},
		terminal:  os.Stdout,
		diagnosis: os.Stderr,
	}
	for _, class := range include {
		p.classes[class] = true
	}
	return
}

// NewWriterPrinter targets the given writers instead of the process streams.
func NewWriterPrinter(include []Class, terminal io.Writer, diagnosis io.Writer) Printer {
	p := NewPrinter(include)
	p.terminal = terminal
	p.diagnosis = diagnosis
	return p
}

func (p Printer) Out(class Class, format string, values ...interface{}) {
	if !p.classes[class] {
		return
	}
	target := p.terminal
	if class == Error {
		target = p.diagnosis
	}
	fmt.Fprintf(target, format, values...)
}
