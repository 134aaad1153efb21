package main

import (
	"bufio"
	"bytes"
	"debug/elf"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/tebeka/atexit"

	"github.com/brouhaha/glacial/asm"
	"github.com/brouhaha/glacial/disasm"
	"github.com/brouhaha/glacial/ihex"
	"github.com/brouhaha/glacial/isa"
	"github.com/brouhaha/glacial/loader"
	"github.com/brouhaha/glacial/memory"
)

// defines collects -D NAME=VALUE predefines.
type defines map[string]int64

func (defs defines) String() string {
	var strs []string
	for name, value := range defs {
		strs = append(strs, fmt.Sprintf("%v=%v", name, value))
	}
	slices.Sort(strs)
	return strings.Join(strs, ",")
}

func (defs defines) Set(text string) (err error) {
	name, value_text, ok := strings.Cut(text, "=")
	if !ok {
		value_text = "1"
	}
	value, err := strconv.ParseInt(value_text, 0, 64)
	if err != nil {
		return
	}
	defs[name] = value
	return
}

// catalog prints the instruction set as a table.
func catalog(out io.Writer, engine *isa.Engine, verbose bool) {
	tw := table.NewWriter()
	tw.SetTitle("Glacial instruction set")
	tw.AppendHeader(table.Row{"Mnemonic", "Operands", "Encoding", "Opcode", "Mask"})
	for inst, form := range engine.Forms() {
		var operands []string
		for _, ot := range form.Operands {
			operands = append(operands, ot.String())
		}
		bits, mask := form.Opcode()
		tw.AppendRow(table.Row{
			inst.Mnemonic,
			strings.Join(operands, ", "),
			form.Encoding,
			fmt.Sprintf("%04x", bits),
			fmt.Sprintf("%04x", mask),
		})
	}
	tw.AppendFooter(table.Row{"", "", "valid opcodes", engine.Table().Count(), ""})
	fmt.Fprintln(out, tw.Render())

	if verbose {
		spew.Fdump(out, slices.Collect(engine.Insts()))
	}
}

// assemble assembles a source file to Intel hex.
func assemble(out io.Writer, path string, defs defines, verbose bool) (err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	assembler := &asm.Assembler{Verbose: verbose}
	for name, value := range defs {
		assembler.Predefine(name, value)
	}

	prog, err := assembler.Parse(inf)
	if err != nil {
		return
	}

	mem, err := prog.Memory()
	if err != nil {
		return
	}

	return ihex.Write(out, mem, 0, ihex.DEFAULT_PER_LINE)
}

// load reads an ELF executable or an Intel hex image.
func load(path string, machine elf.Machine, verbose bool) (mem *memory.Memory, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	if !bytes.HasPrefix(data, []byte(elf.ELFMAG)) {
		mem, _, err = ihex.Read(bytes.NewReader(data), nil)
		return
	}

	ld := &loader.Loader{Verbose: verbose}
	image, err := ld.Load(bytes.NewReader(data), machine)
	if err != nil {
		return
	}

	return image.Memory(memory.DEFAULT_SIZE)
}

// disassemble lists an image.
func disassemble(out io.Writer, path string, machine elf.Machine, verbose bool) (err error) {
	mem, err := load(path, machine, verbose)
	if err != nil {
		return
	}

	dis := &disasm.Disassembler{Verbose: verbose}
	for line := range dis.Memory(mem) {
		_, err = fmt.Fprintln(out, line)
		if err != nil {
			return
		}
	}

	return
}

func main() {
	var source string
	var image string
	var output string
	var listing bool
	var machine uint
	var verbose bool
	defs := defines{}

	flag.StringVar(&source, "a", "", "Assembly source to assemble to Intel hex")
	flag.StringVar(&image, "d", "", "Intel hex or ELF image to disassemble")
	flag.StringVar(&output, "o", "-", "Output file")
	flag.BoolVar(&listing, "t", false, "Print the instruction set table")
	flag.UintVar(&machine, "m", uint(elf.EM_RISCV), "ELF machine of images")
	flag.Var(defs, "D", "Predefine NAME=VALUE for the assembler")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(source) == 0 && len(image) == 0 && !listing {
		flag.Usage()
		atexit.Exit(2)
	}

	ouf := os.Stdout
	if output != "-" {
		var err error
		ouf, err = os.Create(output)
		if err != nil {
			atexit.Fatalf("%v: %v", output, err)
		}
	}
	buf := bufio.NewWriter(ouf)
	atexit.Register(func() {
		buf.Flush()
		if ouf != os.Stdout {
			ouf.Close()
		}
	})

	engine := isa.Glacial()

	if listing {
		catalog(buf, engine, verbose)
	}

	if len(source) != 0 {
		err := assemble(buf, source, defs, verbose)
		if err != nil {
			atexit.Fatalf("%v: %v", source, err)
		}
	}

	if len(image) != 0 {
		err := disassemble(buf, image, elf.Machine(machine), verbose)
		if err != nil {
			atexit.Fatalf("%v: %v", image, err)
		}
	}

	atexit.Exit(0)
}
