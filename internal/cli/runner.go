package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tada/internal/config"
	"github.com/idilsaglam/tada/internal/controller"
	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store"
	"github.com/idilsaglam/tada/internal/store/jsonstore"
	"github.com/idilsaglam/tada/internal/todo"
	"github.com/idilsaglam/tada/internal/ui"
	"github.com/idilsaglam/tada/internal/view"
)

// Options carry the loaded configuration and the process streams.
type Options struct {
	Config *config.Config
	Stdout io.Writer
	Stderr io.Writer
	// KV replaces the storage file when set.
	KV store.KV
	// Logger replaces the logger built from Config when set.
	Logger *log.Logger
}

func (o *Options) defaults() {
	if o.Config == nil {
		o.Config = &config.Config{
			StoragePath: config.DefaultStoragePath,
			StorageKey:  config.DefaultStorageKey,
			Theme:       config.DefaultTheme,
			LogLevel:    config.DefaultLogLevel,
			LogFormat:   config.DefaultLogFormat,
		}
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	opt.defaults()
	ui.SetTheme(opt.Config.Theme)

	if len(args) == 0 {
		PrintHelp(opt.Stdout)
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Stdout)
		return 0

	case "config":
		fmt.Fprint(opt.Stdout, config.Example())
		return 0

	case "ls":
		return withConsole(opt, doList)

	case "add":
		if len(a) == 0 {
			ui.Fail(opt.Stderr, "usage: todo add <text...>")
			return 2
		}
		return withConsole(opt, func(s *session) int {
			return doAdd(s, strings.Join(a, " "))
		})

	case "done", "toggle":
		if len(a) != 1 {
			ui.Fail(opt.Stderr, "usage: todo done <id>")
			return 2
		}
		return withID(opt, cmd, a[0], doToggle)

	case "rm":
		if len(a) != 1 {
			ui.Fail(opt.Stderr, "usage: todo rm <id>")
			return 2
		}
		return withID(opt, cmd, a[0], doRemove)

	case "edit":
		if len(a) < 2 {
			ui.Fail(opt.Stderr, "usage: todo edit <id> <text...>")
			return 2
		}
		text := strings.Join(a[1:], " ")
		return withID(opt, cmd, a[0], func(s *session, id int) int {
			return doEdit(s, id, text)
		})

	case "tui":
		return doTUI(ctx, opt)
	}

	ui.Fail(opt.Stderr, "unknown subcommand: "+cmd)
	fmt.Fprintln(opt.Stderr)
	PrintHelp(opt.Stderr)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `todo - a tiny to-do list

Usage:
  todo [flags] <subcommand> [args]

Subcommands:
  add <text...>        Add a new item (text can be multiple words)
  ls                   List items
  done <id>            Toggle completion of the item with id (alias: toggle)
  edit <id> <text...>  Replace the text of the item with id
  rm <id>              Remove the item with id
  tui                  Interactive list
  config               Print an example config file

Flags:
  -storage <path>      Storage file (default %s)
  -key <name>          Storage key (default %s)
  -theme <name>        classic, neon or mono
  -group               Group ls output by pending/done
  -log-level <level>   debug, info, warn or error
  -log-format <fmt>    text, json or logfmt
  -log-file <path>     Write logs to a file

Examples:
  todo add "Buy milk"
  todo ls
  todo done 2
  todo edit 2 "Buy oat milk"
  todo rm 3
`, config.DefaultStoragePath, config.DefaultStorageKey)
}

// session is one wired model-view-controller triple.
type session struct {
	opt     Options
	store   *todo.Store
	console *view.Console
}

// open builds the logger and the todo store.
func open(opt Options, logFallback io.Writer) (*todo.Store, *log.Logger, io.Closer, error) {
	logger, closer := opt.Logger, io.Closer(nopCloser{})
	if logger == nil {
		var err error
		logger, closer, err = logging.New(logging.Options{
			Level:    opt.Config.LogLevel,
			Format:   opt.Config.LogFormat,
			File:     opt.Config.LogFile,
			Fallback: logFallback,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("logging: %w", err)
		}
	}

	kv := opt.KV
	if kv == nil {
		js, err := jsonstore.Open(opt.Config.StoragePath)
		if err != nil {
			closer.Close()
			return nil, nil, nil, fmt.Errorf("open storage: %w", err)
		}
		logger.Debug("opened storage", "path", js.Path())
		kv = js
	}

	st := todo.New(kv,
		todo.WithKey(opt.Config.StorageKey),
		todo.WithLogger(logger.With("component", "store")),
	)
	return st, logger, closer, nil
}

func withConsole(opt Options, fn func(s *session) int) int {
	st, logger, closer, err := open(opt, opt.Stderr)
	if err != nil {
		ui.Fail(opt.Stderr, err.Error())
		return 1
	}
	defer closer.Close()

	console := view.NewConsole(opt.Stdout, opt.Config.Group)
	controller.New(st, console, controller.WithLogger(logger.With("component", "controller")))
	return fn(&session{opt: opt, store: st, console: console})
}

func withID(opt Options, cmd, arg string, fn func(s *session, id int) int) int {
	id, err := strconv.Atoi(arg)
	if err != nil {
		ui.Fail(opt.Stderr, cmd+": not a number: "+arg)
		return 2
	}
	return withConsole(opt, func(s *session) int {
		if model.Index(s.console.Todos(), id) < 0 {
			ui.Fail(opt.Stderr, fmt.Sprintf("%s: no item with id %d", cmd, id))
			fmt.Fprintln(opt.Stderr, ui.Current().Muted.Render("Hint: run `todo ls` to see valid ids"))
			return 2
		}
		return fn(s, id)
	})
}

// -------------- subcommand impls ----------------

func doList(s *session) int {
	s.console.Print()
	return 0
}

func doAdd(s *session, text string) int {
	if err := s.console.RequestAdd(text); err != nil {
		return s.requestFailed("add", err)
	}
	if code := s.saved(); code != 0 {
		return code
	}
	todos := s.console.Todos()
	ui.OK(s.opt.Stdout, fmt.Sprintf("added #%d", todos[len(todos)-1].ID))
	return 0
}

func doToggle(s *session, id int) int {
	if err := s.console.RequestToggle(id); err != nil {
		return s.requestFailed("done", err)
	}
	if code := s.saved(); code != 0 {
		return code
	}
	verb := "reopened"
	if i := model.Index(s.console.Todos(), id); i >= 0 && s.console.Todos()[i].Complete {
		verb = "completed"
	}
	ui.OK(s.opt.Stdout, fmt.Sprintf("%s #%d", verb, id))
	return 0
}

func doEdit(s *session, id int, text string) int {
	if err := s.console.RequestEdit(id, text); err != nil {
		return s.requestFailed("edit", err)
	}
	if code := s.saved(); code != 0 {
		return code
	}
	ui.OK(s.opt.Stdout, fmt.Sprintf("edited #%d", id))
	return 0
}

func doRemove(s *session, id int) int {
	if err := s.console.RequestDelete(id); err != nil {
		return s.requestFailed("rm", err)
	}
	if code := s.saved(); code != 0 {
		return code
	}
	ui.OK(s.opt.Stdout, fmt.Sprintf("removed #%d", id))
	return 0
}

func doTUI(ctx context.Context, opt Options) int {
	st, logger, closer, err := open(opt, io.Discard)
	if err != nil {
		ui.Fail(opt.Stderr, err.Error())
		return 1
	}
	defer closer.Close()

	tui := view.NewTUI()
	controller.New(st, tui, controller.WithLogger(logger.With("component", "controller")))
	if err := tui.Run(ctx); err != nil {
		ui.Fail(opt.Stderr, "tui: "+err.Error())
		return 1
	}
	if err := st.Err(); err != nil {
		ui.Fail(opt.Stderr, "save: "+err.Error())
		return 1
	}
	return 0
}

func (s *session) requestFailed(cmd string, err error) int {
	if errors.Is(err, view.ErrEmptyText) {
		ui.Fail(s.opt.Stderr, cmd+": empty text")
		return 2
	}
	ui.Fail(s.opt.Stderr, cmd+": "+err.Error())
	return 1
}

// saved reports a failed persistence write. The in-memory change already
// happened; only the file is stale.
func (s *session) saved() int {
	if err := s.store.Err(); err != nil {
		ui.Fail(s.opt.Stderr, "save: "+err.Error())
		return 1
	}
	return 0
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
