// Command zdbg is a thin example driver for the zilo Z80 core: it loads a
// binary image into memory and either runs it to a sentinel PC (batch mode)
// or opens an interactive step/dump TUI. It is host tooling built on top of
// cpu's public Step/register surface, not a feature of the cpu package
// itself, kept outside cpu's own tested opcode surface.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"zilo/cpu"
)

func main() {
	var (
		offset   = flag.Uint("offset", 0, "address to load the program at")
		sentinel = flag.Uint("sentinel", 0, "run in batch mode until PC reaches this address")
		interact = flag.Bool("i", false, "open the interactive TUI instead of batch mode")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: zdbg [-offset addr] [-sentinel addr] [-i] <rom-file>")
		os.Exit(2)
	}

	program, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	c := cpu.New()
	for i, b := range program {
		c.Bus.Write(uint16(*offset)+uint16(i), b)
	}
	c.PC = uint16(*offset)

	if *interact {
		if _, err := tea.NewProgram(model{cpu: c, offset: uint16(*offset)}).Run(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	for c.PC != uint16(*sentinel) {
		c.Step()
	}
	fmt.Println(dump(c))
}

// model is the bubbletea state for the interactive TUI: the cpu, the
// address the program was loaded at (recorded only; the memory-page grid is
// laid out from PC), and the PC just before the last step, so the viewer can
// see what moved.
type model struct {
	cpu    *cpu.Cpu
	offset uint16
	prevPC uint16
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "j":
			m.prevPC = m.cpu.PC
			m.cpu.Step()
		}
	}
	return m, nil
}

// renderPage renders one 16-byte memory row as a line, bracketing the byte
// at PC.
func (m model) renderPage(start uint16) string {
	s := fmt.Sprintf("%04x | ", start)
	for i := uint16(0); i < 16; i++ {
		b := m.cpu.Bus.Read(start + i)
		if start+i == m.cpu.PC {
			s += fmt.Sprintf("[%02x] ", b)
		} else {
			s += fmt.Sprintf(" %02x  ", b)
		}
	}
	return s
}

func (m model) pageTable() string {
	header := "page | "
	for b := range 16 {
		header += fmt.Sprintf("  %01x  ", b)
	}
	rows := []string{header}
	base := m.cpu.PC &^ 0x0F
	for i := range uint16(8) {
		rows = append(rows, m.renderPage(base+i*16))
	}
	return strings.Join(rows, "\n")
}

// status renders the full register file: main set, alternates, IX/IY, I/R,
// the two interrupt flip-flops, interrupt mode, and the packed flag word —
// full observable register surface.
func (m model) status() string {
	r := &m.cpu.Registers
	flagBits := []struct {
		name string
		set  bool
	}{
		{"S", r.Flags.S}, {"Z", r.Flags.Z}, {"Y", r.Flags.Y}, {"H", r.Flags.H},
		{"X", r.Flags.X}, {"P", r.Flags.P}, {"N", r.Flags.N}, {"C", r.Flags.C},
	}
	var names, marks strings.Builder
	for _, f := range flagBits {
		names.WriteString(f.name + " ")
		if f.set {
			marks.WriteString("/ ")
		} else {
			marks.WriteString("  ")
		}
	}

	return fmt.Sprintf(`
PC: %04x (prev %04x)   SP: %04x
AF: %04x   BC: %04x   DE: %04x   HL: %04x
IX: %04x   IY: %04x    I: %02x     R: %02x
AF': %04x  BC': %04x  DE': %04x  HL': %04x
IFF1: %v  IFF2: %v  IM: %d  Halted: %v
%s
%s`,
		r.PC, m.prevPC, r.SP,
		r.GetAF(), r.GetBC(), r.GetDE(), r.GetHL(),
		r.GetIX(), r.GetIY(), r.I, r.R,
		r.AltAF, r.AltBC, r.AltDE, r.AltHL,
		r.IFF1, r.IFF2, r.IM, r.Halted,
		names.String(), marks.String(),
	)
}

// decode is the record spew.Sdump renders below the register/memory view:
// the opcode byte at PC and the prefix marker left by the last Step. It
// carries no mnemonic or cycle cost, and building it does not advance the
// CPU (so the view can be drawn before a step is confirmed).
type decode struct {
	Opcode byte
	Prefix byte
}

func (m model) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.pageTable(),
			m.status(),
		),
		"",
		spew.Sdump(decode{Opcode: m.cpu.Bus.Read(m.cpu.PC), Prefix: m.cpu.Prefix}),
		"(space/j: step, q: quit)",
	)
}

func dump(c *cpu.Cpu) string {
	return spew.Sdump(c.Registers)
}
