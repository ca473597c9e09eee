// Package cli wires the todo commands: the interactive list by default, plus
// non-interactive listing.
package cli

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/idilsaglam/todolist/internal/config"
	"github.com/idilsaglam/todolist/internal/logging"
	"github.com/idilsaglam/todolist/internal/seed"
	"github.com/idilsaglam/todolist/internal/todoapp"
	"github.com/idilsaglam/todolist/internal/tui"
	"github.com/idilsaglam/todolist/internal/ui"
)

// Exit codes returned by Run.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// usageError marks errors caused by bad arguments or flags.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// flags holds values bound to persistent flags.
type flags struct {
	configPath string
	owner      string
	seed       string
	theme      string
	logLevel   string
	group      bool
}

// Run executes the command line in args and returns an exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return ExitOK
	}
	ui.Fail(stderr, ui.NewTheme(themeFlag(root)), err.Error())

	var ue usageError
	if errors.As(err, &ue) {
		fmt.Fprintln(stderr)
		fmt.Fprint(stderr, root.UsageString())
		return ExitUsage
	}
	return ExitError
}

// NewRootCommand returns the todo command tree.
func NewRootCommand() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "todo",
		Short: "A small todo list for the terminal",
		Long: `todo keeps one owner's todo list in memory for the session.

Run it without a subcommand for the interactive list:
  space toggle • a add • e edit • d remove • u undo • q quit`,
		Version:       fmt.Sprintf("%s %s/%s", version(), runtime.GOOS, runtime.GOARCH),
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			logger, closeLog, err := interactiveLogger(cfg)
			if err != nil {
				return err
			}
			defer closeLog()

			app, err := newApp(cfg, logger)
			if err != nil {
				return err
			}
			return tui.Run(app, tui.Options{
				Theme:          ui.NewTheme(cfg.Theme),
				MinTitleLength: cfg.MinTitleLength,
				Logger:         logger,
			})
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "config file (default ./"+config.DefaultConfigFile+" when present)")
	pf.StringVar(&f.owner, "owner", "", "whose list this is")
	pf.StringVar(&f.seed, "seed", "", "starting todos, JSON or TOML")
	pf.StringVar(&f.theme, "theme", "", "classic, neon or mono")
	pf.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(newListCommand(f), newTableCommand(f))
	return root
}

func newListCommand(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Short:   "Print the todos in a panel",
		Example: "  todo ls --seed todos.json --group",
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, app, err := setup(cmd, f)
			if err != nil {
				return err
			}
			return printList(cmd.OutOrStdout(), ui.NewTheme(cfg.Theme), app, cfg.Group)
		},
	}
	cmd.Flags().BoolVar(&f.group, "group", false, "group output by pending/done")
	return cmd
}

func newTableCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "table",
		Short: "Print the todos as a table",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, app, err := setup(cmd, f)
			if err != nil {
				return err
			}
			return app.RenderTable(cmd.OutOrStdout())
		},
	}
}

func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return usageError{err}
	}
	return nil
}

// setup loads configuration and builds the app for non-interactive
// commands. They log to stderr.
func setup(cmd *cobra.Command, f *flags) (*config.Config, *todoapp.App, error) {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Writer: cmd.ErrOrStderr(),
		Prefix: "todo",
	})
	if err != nil {
		return nil, nil, err
	}
	app, err := newApp(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, app, nil
}

// loadConfig reads the config file and environment, then applies the flags
// the user set.
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	cmd.Flags().Visit(func(fl *pflag.Flag) {
		switch fl.Name {
		case "owner":
			cfg.Owner = f.owner
		case "seed":
			cfg.Seed = f.seed
		case "theme":
			cfg.Theme = f.theme
		case "log-level":
			cfg.LogLevel = f.logLevel
		case "group":
			cfg.Group = f.group
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, usageError{err}
	}
	return cfg, nil
}

func newApp(cfg *config.Config, logger *log.Logger) (*todoapp.App, error) {
	data, err := seed.Load(cfg.Seed)
	if err != nil {
		return nil, err
	}
	logger.Debug("starting data loaded", "seed", cfg.Seed)

	return todoapp.New(todoapp.Options{
		Owner:          cfg.Owner,
		StartingData:   data,
		MinTitleLength: cfg.MinTitleLength,
		Logger:         logger,
	})
}

// interactiveLogger writes to the configured log file, or nowhere: the
// terminal belongs to the list while it runs.
func interactiveLogger(cfg *config.Config) (*log.Logger, func(), error) {
	if cfg.LogFile == "" {
		return logging.Discard(), func() {}, nil
	}
	file, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(logging.Options{
		Level:           cfg.LogLevel,
		Writer:          file,
		Prefix:          "todo",
		ReportTimestamp: true,
	})
	if err != nil {
		file.Close()
		return nil, nil, err
	}
	return logger, func() { file.Close() }, nil
}

func themeFlag(root *cobra.Command) string {
	if fl := root.PersistentFlags().Lookup("theme"); fl != nil && fl.Changed {
		return fl.Value.String()
	}
	return config.DefaultTheme
}

func version() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}
