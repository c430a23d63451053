package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

var ErrUnknownCommand = errors.New("unknown command")

// Command - одна команда CLI.
type Command struct {
	Name        string
	Description string
	Usage       string
	Examples    []string
	Run         func(ctx context.Context, args []string) error
}

// NewFlagSet создает набор флагов команды, ошибки разбора возвращаются вызывающему.
func (c *Command) NewFlagSet(out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(c.Name, flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		c.PrintUsage(out)
		fmt.Fprintln(out, "FLAGS:")
		fs.PrintDefaults()
	}
	return fs
}

func (c *Command) PrintUsage(w io.Writer) {
	fmt.Fprintf(w, "%s\n\n", c.Description)
	fmt.Fprintf(w, "USAGE:\n    %s\n\n", c.Usage)
	if len(c.Examples) > 0 {
		fmt.Fprintf(w, "EXAMPLES:\n")
		for _, example := range c.Examples {
			fmt.Fprintf(w, "    %s\n", example)
		}
		fmt.Fprintln(w)
	}
}

type CommandRegistry struct {
	commands map[string]*Command
	order    []string
}

func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{commands: make(map[string]*Command)}
}

// Register добавляет команду. Порядок регистрации = порядок в help.
func (r *CommandRegistry) Register(cmd *Command) {
	if _, ok := r.commands[cmd.Name]; !ok {
		r.order = append(r.order, cmd.Name)
	}
	r.commands[cmd.Name] = cmd
}

func (r *CommandRegistry) Execute(ctx context.Context, args []string, out, errOut io.Writer) error {
	if len(args) < 1 {
		r.PrintHelp(out)
		return nil
	}

	cmdName := args[0]
	switch cmdName {
	case "help", "-h", "--help":
		if len(args) > 1 {
			if cmd, ok := r.commands[args[1]]; ok {
				cmd.PrintUsage(out)
				return nil
			}
		}
		r.PrintHelp(out)
		return nil
	}

	cmd, ok := r.commands[cmdName]
	if !ok {
		r.PrintHelp(errOut)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmdName)
	}

	return cmd.Run(ctx, args[1:])
}

func (r *CommandRegistry) PrintHelp(w io.Writer) {
	fmt.Fprintln(w, "urlshortener - command line client for the URL shortener")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "USAGE:")
	fmt.Fprintln(w, "    urlshortener [-api-url URL] [-token-path PATH] [-config FILE] <command> [arguments]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "COMMANDS:")
	for _, name := range r.order {
		cmd := r.commands[name]
		fmt.Fprintf(w, "    %-10s %s\n", cmd.Name, cmd.Description)
	}
	fmt.Fprintf(w, "    %-10s %s\n", "help", "Show help for a command")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'urlshortener help <command>' for more information on a command.")
}

// TableWriter - простая таблица с рамками.
type TableWriter struct {
	headers []string
	rows    [][]string
	widths  []int
}

func NewTableWriter(headers []string) *TableWriter {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len([]rune(h))
	}
	return &TableWriter{
		headers: headers,
		widths:  widths,
	}
}

func (t *TableWriter) AddRow(row []string) {
	t.rows = append(t.rows, row)
	for i, cell := range row {
		if n := len([]rune(cell)); i < len(t.widths) && n > t.widths[i] {
			t.widths[i] = n
		}
	}
}

func (t *TableWriter) Print(w io.Writer) {
	t.printSeparator(w, "┌", "┬", "┐")
	t.printRow(w, t.headers)
	t.printSeparator(w, "├", "┼", "┤")
	for _, row := range t.rows {
		t.printRow(w, row)
	}
	t.printSeparator(w, "└", "┴", "┘")
}

func (t *TableWriter) printSeparator(w io.Writer, left, mid, right string) {
	fmt.Fprint(w, left)
	for i, width := range t.widths {
		fmt.Fprint(w, strings.Repeat("─", width+2))
		if i < len(t.widths)-1 {
			fmt.Fprint(w, mid)
		}
	}
	fmt.Fprintln(w, right)
}

func (t *TableWriter) printRow(w io.Writer, row []string) {
	fmt.Fprint(w, "│")
	for i, cell := range row {
		if i < len(t.widths) {
			fmt.Fprintf(w, " %-*s │", t.widths[i], cell)
		}
	}
	fmt.Fprintln(w)
}
