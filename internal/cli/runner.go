package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/taskboard/internal/board"
	"github.com/idilsaglam/taskboard/internal/config"
	"github.com/idilsaglam/taskboard/internal/store/httpstore"
	"github.com/idilsaglam/taskboard/internal/tui"
	"github.com/idilsaglam/taskboard/internal/ui"
)

// Exit codes: 0 ok, 1 remote or runtime error, 2 usage.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// Options carry the root flags.
type Options struct {
	ConfigPath string
	Env        string
	BaseURL    string
	Sort       string
	Theme      string
	LogFile    string
	Timeout    time.Duration

	Group bool // ls: group output by pending/completed
}

// codeError ends a command with a specific exit code. Its message has
// already been reported.
type codeError struct{ code int }

func (e *codeError) Error() string { return fmt.Sprintf("exit %d", e.code) }

func fail(w io.Writer, code int, msg string) error {
	ui.Fail(w, msg)
	return &codeError{code: code}
}

// session is what every subcommand runs against.
type session struct {
	board   *board.Board
	logFile io.Closer
}

func (s *session) Close() error { return s.logFile.Close() }

// Run dispatches args and returns an exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd(stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	var ce *codeError
	if errors.As(err, &ce) {
		return ce.code
	}
	ui.Fail(stderr, err.Error())
	fmt.Fprintln(stderr, ui.Current().Muted.Render("Hint: run `taskboard --help`"))
	return exitUsage
}

// NewRootCmd builds the command tree. With no subcommand the interactive
// board starts.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opt := &Options{}

	root := &cobra.Command{
		Use:           "taskboard",
		Short:         "A task board backed by a remote items API",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd, opt, stderr)
			if err != nil {
				return err
			}
			defer s.Close()
			if err := tui.Run(cmd.Context(), s.board); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return fail(stderr, exitError, "tui: "+err.Error())
			}
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&opt.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/taskboard/config.yaml)")
	pf.StringVar(&opt.Env, "env", "", "production or development")
	pf.StringVar(&opt.BaseURL, "base-url", "", "items API base URL, overrides --env")
	pf.StringVar(&opt.Sort, "sort", "", "oldest-first or newest-first")
	pf.StringVar(&opt.Theme, "theme", "", "classic, neon or mono")
	pf.StringVar(&opt.LogFile, "log-file", "", "diagnostic log file")
	pf.DurationVar(&opt.Timeout, "timeout", 0, "per-request timeout, 0 waits forever")

	lsCmd := &cobra.Command{
		Use:   "ls",
		Short: "Print the board once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd, opt, stderr)
			if err != nil {
				return err
			}
			defer s.Close()
			return doList(cmd.Context(), s.board, opt, stdout, stderr)
		},
	}
	lsCmd.Flags().BoolVar(&opt.Group, "group", false, "group output by pending/completed")

	addCmd := &cobra.Command{
		Use:   "add <description...>",
		Short: "Add a new task (description can be multiple words)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd, opt, stderr)
			if err != nil {
				return err
			}
			defer s.Close()
			return doAdd(cmd.Context(), s.board, strings.Join(args, " "), stdout, stderr)
		},
	}

	doneCmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task between pending and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("done", args[0], stderr)
			if err != nil {
				return err
			}
			s, err := open(cmd, opt, stderr)
			if err != nil {
				return err
			}
			defer s.Close()
			return doToggle(cmd.Context(), s.board, id, stdout, stderr)
		},
	}

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("rm", args[0], stderr)
			if err != nil {
				return err
			}
			s, err := open(cmd, opt, stderr)
			if err != nil {
				return err
			}
			defer s.Close()
			return doRemove(cmd.Context(), s.board, id, stdout, stderr)
		},
	}

	root.AddCommand(lsCmd, addCmd, doneCmd, rmCmd)
	return root
}

func parseID(name, arg string, stderr io.Writer) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fail(stderr, exitUsage, name+": not a number: "+arg)
	}
	return n, nil
}

// open resolves configuration, flags on top, and wires a board to the
// remote store. The diagnostic log goes to the configured file.
func open(cmd *cobra.Command, opt *Options, stderr io.Writer) (*session, error) {
	cfg, err := config.Load(opt.ConfigPath)
	if err != nil {
		return nil, fail(stderr, exitUsage, "config: "+err.Error())
	}
	flags := cmd.Flags()
	override := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	override("env", &cfg.Env, opt.Env)
	override("base-url", &cfg.BaseURL, opt.BaseURL)
	override("sort", &cfg.Sort, opt.Sort)
	override("theme", &cfg.Theme, opt.Theme)
	override("log-file", &cfg.LogFile, opt.LogFile)
	if flags.Changed("timeout") {
		cfg.Timeout = opt.Timeout
	}
	if err := cfg.Validate(); err != nil {
		return nil, fail(stderr, exitUsage, "config: "+err.Error())
	}
	ui.SetTheme(cfg.Theme)

	logger := log.New(io.Discard, "", log.LstdFlags)
	f, err := tea.LogToFileWith(cfg.LogFile, "taskboard", logger)
	if err != nil {
		return nil, fail(stderr, exitError, "log: "+err.Error())
	}

	store, err := httpstore.New(cfg.ResolveBaseURL(), httpstore.Options{Timeout: cfg.Timeout, Logger: logger})
	if err != nil {
		f.Close()
		return nil, fail(stderr, exitUsage, "config: "+err.Error())
	}
	b := board.New(store, board.Options{Logger: logger, SortMode: cfg.SortMode()})
	return &session{board: b, logFile: f}, nil
}

// -------------- subcommand impls ----------------

func doList(ctx context.Context, b *board.Board, opt *Options, stdout, stderr io.Writer) error {
	if err := b.Refresh(ctx); err != nil {
		return fail(stderr, exitError, "refresh: "+err.Error())
	}
	fmt.Fprintln(stdout, renderBoard(b, opt.Group))
	return nil
}

func doAdd(ctx context.Context, b *board.Board, description string, stdout, stderr io.Writer) error {
	if err := b.CreateItem(ctx, description); err != nil {
		return fail(stderr, exitError, "add: "+err.Error())
	}
	ui.OK(stdout, "added")
	return nil
}

func doToggle(ctx context.Context, b *board.Board, id int, stdout, stderr io.Writer) error {
	if err := b.Refresh(ctx); err != nil {
		return fail(stderr, exitError, "refresh: "+err.Error())
	}
	err := b.ToggleStatus(ctx, id)
	if errors.Is(err, board.ErrItemNotFound) {
		ui.Fail(stderr, fmt.Sprintf("no task with id %d", id))
		fmt.Fprintln(stderr, ui.Current().Muted.Render("Hint: run `taskboard ls` to see valid ids"))
		return &codeError{code: exitUsage}
	}
	if err != nil {
		return fail(stderr, exitError, "done: "+err.Error())
	}
	it, _ := b.Lookup(id)
	ui.OK(stdout, "marked "+string(it.Status))
	return nil
}

func doRemove(ctx context.Context, b *board.Board, id int, stdout, stderr io.Writer) error {
	if err := b.DeleteItem(ctx, id); err != nil {
		return fail(stderr, exitError, "rm: "+err.Error())
	}
	ui.OK(stdout, "removed")
	return nil
}

// Compile-time check that the store satisfies the board's collaborator.
var _ board.Remote = (*httpstore.Store)(nil)
