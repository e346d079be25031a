// Package console is the interactive menu over the dummy and schema services.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Domenick1991/dummydata/internal/domain"
	"github.com/Domenick1991/dummydata/internal/service/dummy"
	"github.com/Domenick1991/dummydata/internal/service/schema"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

const mainMenu = `Dummy Data Menu
1. Generate dummy data into a table
2. Generate dummy data into all tables
3. Inspect the schema
4. Print a table's rows
5. Exit`

const schemaMenu = `Database Management Menu
1. Schemas of the current connection
2. Tables of the current schema
3. Views of the current schema
4. Tables of the current schema with their columns and comments
5. Views of the current schema with their columns and comments
6. Columns and comments of one table
7. DDL script of one table`

var errExit = errors.New("exit")

type Console struct {
	in     *bufio.Scanner
	out    io.Writer
	dummy  dummy.DummyUseCase
	schema schema.SchemaUseCase
	log    *zap.Logger
	clear  bool

	title *color.Color
	ok    *color.Color
	warn  *color.Color
	fail  *color.Color
	label *color.Color
}

type Option func(*Console)

func WithLogger(log *zap.Logger) Option {
	return func(c *Console) {
		c.log = log
	}
}

func New(in io.Reader, out io.Writer, dummySvc dummy.DummyUseCase, schemaSvc schema.SchemaUseCase, opts ...Option) *Console {
	c := &Console{
		in:     bufio.NewScanner(in),
		out:    out,
		dummy:  dummySvc,
		schema: schemaSvc,
		log:    zap.NewNop(),
		title:  color.New(color.FgCyan, color.Bold),
		ok:     color.New(color.FgGreen),
		warn:   color.New(color.FgYellow),
		fail:   color.New(color.FgRed, color.Bold),
		label:  color.New(color.FgCyan),
	}
	if f, ok := out.(*os.File); ok {
		c.clear = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run shows the main menu until the user exits, input ends or ctx is canceled.
// A failing action is reported and the menu is shown again.
func (c *Console) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		c.clearScreen()
		c.title.Fprintln(c.out, mainMenu)

		choice, err := c.prompt("Menu: ")
		if err != nil {
			return nil
		}

		var action func(context.Context) error
		switch choice {
		case "1":
			action = c.generateOne
		case "2":
			action = c.generateAll
		case "3":
			action = c.inspect
		case "4":
			action = c.showRows
		case "5":
			return nil
		}

		if action == nil {
			c.warn.Fprintln(c.out, "Invalid choice, please try again.")
		} else {
			c.clearScreen()
			if err := c.safely(ctx, action); err != nil {
				if errors.Is(err, errExit) {
					return nil
				}
				c.fail.Fprintf(c.out, "Error: %v\n", err)
			}
		}
		if _, err := c.prompt("Press Enter to return to the menu..."); err != nil {
			return nil
		}
	}
}

// safely runs action and turns a panic into an error so the loop survives it.
func (c *Console) safely(ctx context.Context, action func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("console action panicked", zap.Any("panic", r))
			err = fmt.Errorf("unexpected failure: %v", r)
		}
	}()
	return action(ctx)
}

func (c *Console) generateOne(ctx context.Context) error {
	n, mode, err := c.promptCountAndMode()
	if err != nil {
		return err
	}
	table, err := c.prompt("Table name: ")
	if err != nil {
		return errExit
	}
	if !c.knownTable(table) {
		c.warn.Fprintln(c.out, "Please enter a valid table name.")
		return nil
	}

	res, err := c.dummy.Generate(ctx, table, n, mode)
	if err != nil {
		return err
	}
	c.ok.Fprintf(c.out, "Inserted %d rows into %s (%s).\n", res.Inserted, res.Table, res.Mode)
	return nil
}

func (c *Console) generateAll(ctx context.Context) error {
	n, mode, err := c.promptCountAndMode()
	if err != nil {
		return err
	}
	results, err := c.dummy.GenerateAll(ctx, n, mode)
	for _, res := range results {
		c.ok.Fprintf(c.out, "Inserted %d rows into %s (%s).\n", res.Inserted, res.Table, res.Mode)
	}
	return err
}

func (c *Console) showRows(ctx context.Context) error {
	table, err := c.prompt("Table name: ")
	if err != nil {
		return errExit
	}
	if !c.knownTable(table) {
		c.warn.Fprintln(c.out, "The table name is not correct.")
		return nil
	}
	rows, err := c.dummy.Show(ctx, table)
	if err != nil {
		return err
	}
	printRows(c.out, rows)
	return nil
}

func (c *Console) inspect(ctx context.Context) error {
	c.title.Fprintln(c.out, schemaMenu)
	choice, err := c.prompt("Menu: ")
	if err != nil {
		return errExit
	}

	switch choice {
	case "1":
		schemas, err := c.schema.Schemas(ctx)
		if err != nil {
			return err
		}
		c.label.Fprint(c.out, "Connection: ")
		fmt.Fprintln(c.out, c.schema.ConnectionInfo())
		c.label.Fprint(c.out, "Schemas: ")
		fmt.Fprintln(c.out, strings.Join(schemas, ", "))
	case "2":
		tables, err := c.schema.Tables(ctx)
		if err != nil {
			return err
		}
		c.label.Fprint(c.out, "Tables: ")
		fmt.Fprintln(c.out, strings.Join(tables, ", "))
	case "3":
		views, err := c.schema.Views(ctx)
		if err != nil {
			return err
		}
		c.label.Fprint(c.out, "Views: ")
		fmt.Fprintln(c.out, strings.Join(views, ", "))
	case "4":
		rels, err := c.schema.TableColumns(ctx)
		if err != nil {
			return err
		}
		c.printRelations(rels)
	case "5":
		rels, err := c.schema.ViewColumns(ctx)
		if err != nil {
			return err
		}
		c.printRelations(rels)
	case "6":
		table, err := c.prompt("Table name: ")
		if err != nil {
			return errExit
		}
		cols, err := c.schema.Columns(ctx, table)
		if err != nil {
			return err
		}
		c.printRelations([]domain.Relation{{Name: table, Columns: cols}})
	case "7":
		table, err := c.prompt("Table name: ")
		if err != nil {
			return errExit
		}
		ddl, err := c.schema.DDL(ctx, table)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, ddl)
	default:
		c.warn.Fprintln(c.out, "Invalid choice, please try again.")
	}
	return nil
}

func (c *Console) printRelations(rels []domain.Relation) {
	if len(rels) == 0 {
		c.warn.Fprintln(c.out, "Nothing found.")
		return
	}
	for _, rel := range rels {
		c.label.Fprint(c.out, rel.Name)
		if rel.Source != "" {
			fmt.Fprintf(c.out, " (from %s)", rel.Source)
		}
		fmt.Fprintln(c.out)
		printColumns(c.out, rel.Columns)
		fmt.Fprintln(c.out)
	}
}

func (c *Console) promptCountAndMode() (int, domain.Mode, error) {
	raw, err := c.prompt("Number of records: ")
	if err != nil {
		return 0, "", errExit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, "", fmt.Errorf("invalid number of records: %q", raw)
	}
	flag, err := c.prompt("Empty the table first? (y/n): ")
	if err != nil {
		return 0, "", errExit
	}
	return n, domain.ParseMode(flag), nil
}

func (c *Console) knownTable(name string) bool {
	for _, t := range c.dummy.Tables() {
		if t == name {
			return true
		}
	}
	return false
}

// prompt prints label and reads one trimmed line. It returns io.EOF when the
// input is exhausted.
func (c *Console) prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) clearScreen() {
	if c.clear {
		fmt.Fprint(c.out, "\033[H\033[2J")
	}
}
