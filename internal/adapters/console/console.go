package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"property-map/internal/contextkeys"
	"property-map/internal/core/domain"
	"property-map/internal/core/port"
	"property-map/internal/core/usecase"
	"property-map/internal/validation"
	"strconv"
	"strings"
)

var errQuit = errors.New("quit")

// Console - текстовый интерфейс к одной сессии.
type Console struct {
	app    *usecase.AppState
	reader *bufio.Reader
	out    io.Writer
	logger port.LoggerPort
}

func NewConsole(app *usecase.AppState, reader *bufio.Reader, out io.Writer, logger port.LoggerPort) *Console {
	return &Console{
		app:    app,
		reader: reader,
		out:    out,
		logger: logger.WithFields(port.Fields{"component": "Console"}),
	}
}

// Run читает команды до quit, конца ввода или отмены контекста.
func (c *Console) Run(ctx context.Context) error {
	ctx = contextkeys.ContextWithLogger(ctx, c.logger)

	if err := c.app.Start(ctx); err != nil {
		fmt.Fprintf(c.out, "! %s\n", c.app.Store.Error())
	}
	render(c.out, c.app.Snapshot())

	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(c.out, "> ")
		line, err := c.reader.ReadString('\n')
		if strings.TrimSpace(line) != "" {
			if execErr := c.Execute(ctx, line); errors.Is(execErr, errQuit) {
				return nil
			} else if execErr != nil {
				fmt.Fprintf(c.out, "error: %v\n", execErr)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read command: %w", err)
		}
	}
}

// Execute выполняет одну команду и печатает новое состояние.
func (c *Console) Execute(ctx context.Context, line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(args[0]), args[1:]

	var err error
	switch cmd {
	case "quit", "exit":
		return errQuit
	case "help":
		fmt.Fprint(c.out, helpText)
		return nil
	case "list":
	case "search":
		err = c.search(ctx, args)
	case "clear":
		err = c.app.Filter.Clear(ctx)
	case "add":
		err = c.app.Selection.StartPlacement(ctx)
	case "click":
		err = c.click(ctx, args)
	case "set":
		err = c.set(args)
	case "submit":
		err = c.submit(ctx)
	case "cancel":
		err = c.cancel(ctx)
	case "edit":
		if err = needID(args); err == nil {
			err = c.app.Selection.BeginEdit(ctx, domain.PropertyID(args[0]))
		}
	case "select":
		if err = needID(args); err == nil && !c.app.Map.OnMarkerClick(ctx, domain.PropertyID(args[0])) {
			fmt.Fprintf(c.out, "unknown property %s\n", args[0])
		}
	case "delete":
		err = c.remove(ctx, args)
	case "page":
		err = c.page(ctx, args)
	default:
		return fmt.Errorf("unknown command %q, type help", cmd)
	}

	render(c.out, c.app.Snapshot())
	return err
}

func (c *Console) search(ctx context.Context, args []string) error {
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("expected field=value, got %q", arg)
		}
		if err := c.app.Filter.Set(domain.FilterField(key), value); err != nil {
			return err
		}
	}
	_, err := c.app.Filter.Submit(ctx)
	return err
}

func (c *Console) click(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: click <lat> <lng>")
	}
	lat, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid latitude %q", args[0])
	}
	lng, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid longitude %q", args[1])
	}
	if !c.app.Map.OnMapClick(ctx, domain.GeoPoint{Latitude: lat, Longitude: lng}) {
		fmt.Fprintln(c.out, "map click ignored: use add first")
	}
	return nil
}

func (c *Console) set(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: set <field> <value>")
	}
	form := c.app.Selection.Form()
	if form == nil {
		return errors.New("no form is open")
	}
	field, value := domain.FormField(args[0]), strings.Join(args[1:], " ")
	if err := form.Set(field, value); err != nil {
		return err
	}
	if field == domain.FormType && value != "" && !domain.PropertyType(value).IsKnown() {
		fmt.Fprintf(c.out, "note: type %q is not one of %s, it is sent as is\n", value, knownTypes())
	}
	return nil
}

func knownTypes() string {
	names := make([]string, len(domain.KnownPropertyTypes))
	for i, t := range domain.KnownPropertyTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func (c *Console) submit(ctx context.Context) error {
	form := c.app.Selection.Form()
	switch c.app.Selection.State().Mode {
	case domain.ModePlacingProperty:
		if form == nil {
			return domain.ErrNoPendingLocation
		}
		draft := form.Draft()
		if err := validation.CheckPlacementDraft(draft); err != nil {
			return describeDraftError(err)
		}
		created, err := c.app.Selection.SubmitPlacement(ctx, draft)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "created %s\n", created.ID)
		return nil
	case domain.ModeEditingExisting:
		draft := form.Draft()
		if err := validation.CheckPropertyDraft(draft); err != nil {
			return describeDraftError(err)
		}
		return c.app.Selection.SubmitEdit(ctx, draft)
	}
	return fmt.Errorf("%w: nothing to submit", domain.ErrInvalidTransition)
}

func (c *Console) cancel(ctx context.Context) error {
	switch c.app.Selection.State().Mode {
	case domain.ModePlacingProperty:
		return c.app.Selection.CancelPlacement(ctx)
	case domain.ModeEditingExisting:
		return c.app.Selection.CancelEdit(ctx)
	}
	return nil
}

func (c *Console) remove(ctx context.Context, args []string) error {
	if err := needID(args); err != nil {
		return err
	}
	err := c.app.Store.Remove(ctx, domain.PropertyID(args[0]))
	if errors.Is(err, domain.ErrDeleteNotConfirmed) {
		fmt.Fprintln(c.out, "not deleted")
		return nil
	}
	return err
}

func (c *Console) page(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: page <n>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid page %q", args[0])
	}
	return c.app.SetPage(ctx, n)
}

func needID(args []string) error {
	if len(args) != 1 {
		return errors.New("expected a property id")
	}
	return nil
}

func describeDraftError(err error) error {
	var draftErr *validation.DraftError
	if !errors.As(err, &draftErr) {
		return err
	}
	messages := make([]string, len(draftErr.Fields))
	for i, f := range draftErr.Fields {
		messages[i] = f.Message
	}
	return fmt.Errorf("%w: %s", err, strings.Join(messages, "; "))
}
