// Package console is a line-oriented front end for a pharmacy finder session.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/UnknownOlympus/nearpharma/internal/form"
	"github.com/UnknownOlympus/nearpharma/internal/models"
	"github.com/UnknownOlympus/nearpharma/internal/view"
)

const helpText = `commands:
  search <text>   look up medicines by name
  pick <n>        select the n-th suggestion
  clear           clear the selected medicine
  lat <v>         set latitude
  lon <v>         set longitude
  lat+ | lat-     step latitude by one
  lon+ | lon-     step longitude by one
  qty <n>         set quantity
  qty+ | qty-     step quantity by one
  locate          use the current location as origin
  submit          find pharmacies
  show            print the current view
  help            print this help
  quit            exit
`

// ErrUnknownCommand is reported for input that matches no command.
var ErrUnknownCommand = errors.New("unknown command")

// Session is the set of operations the console drives.
type Session interface {
	Form() *form.Model
	QueryChanged(text string)
	Pick(idx int) (models.MedicineSuggestion, error)
	Submit(ctx context.Context) error
	AcquireLocation(ctx context.Context) error
	Refresh() view.View
}

// Console reads commands line by line and applies them to a session.
type Console struct {
	in      io.Reader
	printer *Printer
	session Session
	log     *slog.Logger
	wg      sync.WaitGroup
}

// New creates a console.
func New(in io.Reader, printer *Printer, session Session, log *slog.Logger) *Console {
	return &Console{in: in, printer: printer, session: session, log: log}
}

// Run processes commands until quit, end of input or ctx cancellation. Network-bound
// commands run in the background; Run waits for them before returning.
func (c *Console) Run(ctx context.Context) error {
	defer c.wg.Wait()

	lines := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	c.printer.Printf("type \"help\" for the list of commands\n")

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("failed to read input: %w", err)
					}
				default:
				}
				return nil
			}

			quit, err := c.Execute(ctx, line)
			if err != nil {
				c.printer.Printf("%v\n", err)
			}
			if quit {
				return nil
			}
		}
	}
}

// Execute applies one command line. It reports whether the console should stop.
func (c *Console) Execute(ctx context.Context, line string) (bool, error) {
	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	model := c.session.Form()

	switch strings.ToLower(name) {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "help":
		c.printer.Printf("%s", helpText)
	case "search":
		c.session.QueryChanged(arg)
	case "pick":
		idx, err := strconv.Atoi(arg)
		if err != nil {
			return false, fmt.Errorf("pick expects a number: %w", err)
		}
		picked, err := c.session.Pick(idx - 1)
		if err != nil {
			return false, err
		}
		c.printer.Printf("selected %s\n", picked.Name)
	case "clear":
		model.ClearSelection()
	case "lat":
		value, err := parseFloat(arg)
		if err != nil {
			return false, err
		}
		return false, model.SetLatitude(value)
	case "lon":
		value, err := parseFloat(arg)
		if err != nil {
			return false, err
		}
		return false, model.SetLongitude(value)
	case "lat+":
		model.IncrementLatitude()
	case "lat-":
		model.DecrementLatitude()
	case "lon+":
		model.IncrementLongitude()
	case "lon-":
		model.DecrementLongitude()
	case "qty":
		value, err := strconv.Atoi(arg)
		if err != nil {
			return false, fmt.Errorf("qty expects a whole number: %w", err)
		}
		return false, model.SetQuantity(value)
	case "qty+":
		model.IncrementQuantity()
	case "qty-":
		model.DecrementQuantity()
	case "locate":
		c.background(ctx, "locate", c.session.AcquireLocation)
	case "submit":
		c.background(ctx, "submit", c.session.Submit)
	case "show":
		c.printer.Show(c.session.Refresh())
	default:
		return false, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	return false, nil
}

// background runs op on its own goroutine. Failures were already reported to the user by
// the session, so they are only logged here.
func (c *Console) background(ctx context.Context, name string, op func(context.Context) error) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := op(ctx); err != nil {
			c.log.DebugContext(ctx, "Command finished with error", "command", name, "error", err)
		}
	}()
}

func parseFloat(arg string) (float64, error) {
	value, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, fmt.Errorf("expected a number: %w", err)
	}
	return value, nil
}
