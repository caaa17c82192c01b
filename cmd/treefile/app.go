package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/desertwitch/treefile"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

var (
	errUnknownOperation = errors.New("unknown operation")
	errMissingArgument  = errors.New("missing argument")
)

func errUnknownCodec(name string) error {
	return fmt.Errorf("unknown codec: %s", name)
}

// App applies one CLI invocation's operations to a loaded tree.
type App struct {
	tree   *treefile.Node
	config Config
}

func NewApp(tree *treefile.Node, config Config) *App {
	return &App{
		tree:   tree,
		config: config,
	}
}

// Run dispatches the positional arguments to one tree operation; without
// arguments the root's child names are listed.
func (app *App) Run(args []string) error {
	if len(args) == 0 {
		return app.list("")
	}

	op, args := args[0], args[1:]

	switch op {
	case "ls":
		if len(args) == 0 {
			return app.list("")
		}

		return app.list(args[0])

	case "get":
		if len(args) < 1 {
			return fmt.Errorf("(app) %w: get <path>", errMissingArgument)
		}

		return app.print(args[0])

	case "set":
		if len(args) < 2 {
			return fmt.Errorf("(app) %w: set <path> <value>", errMissingArgument)
		}

		return app.set(args[0], args[1])

	case "delete":
		if len(args) < 1 {
			return fmt.Errorf("(app) %w: delete <path>", errMissingArgument)
		}
		if _, err := app.tree.Delete(args[0]); err != nil {
			return fmt.Errorf("(app) %w", err)
		}

		return nil

	case "move":
		if len(args) < 2 {
			return fmt.Errorf("(app) %w: move <old> <new>", errMissingArgument)
		}
		if err := app.tree.Move(args[0], args[1]); err != nil {
			return fmt.Errorf("(app) %w", err)
		}

		return nil

	case "explode", "collapse":
		if len(args) < 1 {
			return fmt.Errorf("(app) %w: %s <path>", errMissingArgument, op)
		}

		return app.convert(op, args[0])

	default:
		return fmt.Errorf("(app) %w: %s", errUnknownOperation, op)
	}
}

// WriteBack serializes the tree to disk and logs a humanized summary of the
// written root.
func (app *App) WriteBack() error {
	if err := app.tree.Write(); err != nil {
		return fmt.Errorf("(app) %w", err)
	}

	if size, err := diskUsage(app.config.Root); err == nil {
		slog.Info("Wrote tree.", "root", app.config.Root, "size", humanize.Bytes(size))
	}

	return nil
}

func (app *App) resolve(id string) (any, error) {
	if id == "" {
		return app.tree, nil
	}

	value, err := app.tree.Get(id)
	if err != nil {
		return nil, fmt.Errorf("(app) %w", err)
	}

	return value, nil
}

func (app *App) list(id string) error {
	value, err := app.resolve(id)
	if err != nil {
		return err
	}

	branch, ok := value.(*treefile.Node)
	if !ok {
		return app.print(id)
	}

	for _, name := range branch.NodeNames() {
		fmt.Println(name)
	}

	return nil
}

func (app *App) print(id string) error {
	value, err := app.resolve(id)
	if err != nil {
		return err
	}

	if branch, ok := value.(*treefile.Node); ok {
		data, err := branch.Data()
		if err != nil {
			return fmt.Errorf("(app) %w", err)
		}
		value = data
	}

	out, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("(app) %w", err)
	}
	fmt.Print(string(out))

	return nil
}

// set parses the raw argument as a YAML value, so scalars keep their type
// and mapping literals become sub-branches.
func (app *App) set(id, raw string) error {
	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
		return fmt.Errorf("(app) %w", err)
	}

	if _, err := app.tree.Set(id, value); err != nil {
		return fmt.Errorf("(app) %w", err)
	}

	return nil
}

func (app *App) convert(op, id string) error {
	value, err := app.resolve(id)
	if err != nil {
		return err
	}

	branch, ok := value.(*treefile.Node)
	if !ok {
		return fmt.Errorf("(app) %w: %s", treefile.ErrNotBranch, id)
	}

	if op == "explode" {
		branch.Explode()
	} else {
		branch.Collapse()
	}

	return nil
}

func diskUsage(root string) (uint64, error) {
	var total uint64

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += uint64(info.Size())
		}

		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return total, fmt.Errorf("(app) failed to walk: %w", err)
	}

	return total, nil
}
