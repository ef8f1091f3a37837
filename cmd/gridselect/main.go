package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/pengelbrecht/gridselect/internal/config"
	"github.com/pengelbrecht/gridselect/internal/console"
	"github.com/pengelbrecht/gridselect/internal/logutil"
	"github.com/pengelbrecht/gridselect/internal/output"
	"github.com/pengelbrecht/gridselect/internal/selection"
	"github.com/pengelbrecht/gridselect/internal/tui"
	"github.com/pengelbrecht/gridselect/internal/update"
)

var version = "dev"

// Exit codes.
const (
	exitOK           = 0
	exitCanceled     = 1
	exitNotSupported = 2
	exitError        = 3
)

var errNoItems = errors.New("no items given")

var rootCmd = &cobra.Command{
	Use:   "gridselect [flags] [item ...]",
	Short: "Pick an item from a keyboard driven grid",
	Long: `gridselect lays the given items out in a grid on the terminal and lets you
pick one with the arrow keys, page keys or per-item hotkeys. The chosen value
is printed to stdout.

Items are written as [hotkey:]value[=title]. With no items on the command
line, one item is read per line from stdin. Items from .gridselect/config.yaml
are appended.

Exit status is 0 when a value was picked or typed, 1 when canceled, 2 when
the terminal cannot show a grid and 3 on errors.`,
	Version:      version,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runSelect(cmd, args))
	},
}

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade gridselect to the latest release",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Current version: %s\n", version)
		fmt.Println("Checking for updates...")

		latest, err := update.Update(cmd.Context(), version)
		if errors.Is(err, update.ErrUpToDate) {
			fmt.Println("Already up to date.")
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitError)
		}
		fmt.Printf("Updated to %s\n", latest)
	},
}

// optionFlag binds a command line flag to one selection.Options field.
type optionFlag struct {
	name  string
	usage string
	field func(o *selection.Options) any
}

var optionFlags = []optionFlag{
	{"min-length", "minimum cell width", func(o *selection.Options) any { return &o.MinLength }},
	{"max-length", "maximum cell width", func(o *selection.Options) any { return &o.MaxLength }},
	{"column", "number of columns", func(o *selection.Options) any { return &o.Column }},
	{"max-row", "rows per page, enables paging", func(o *selection.Options) any { return &o.MaxRow }},
	{"question", "prompt shown below the grid", func(o *selection.Options) any { return &o.Question }},
	{"manual-question", "prompt for typing a value with Backspace", func(o *selection.Options) any { return &o.ManualQuestion }},
	{"question-when-not-supported", "prompt used when the terminal cannot show a grid", func(o *selection.Options) any { return &o.QuestionWhenNotSupported }},
	{"tips", "key tips shown below the prompt", func(o *selection.Options) any { return &o.Tips }},
	{"paging-tips", "page indicator, supports {from} {end} {count} {size} {total}", func(o *selection.Options) any { return &o.PagingTips }},
	{"prefix", "prefix of unselected items", func(o *selection.Options) any { return &o.Prefix }},
	{"selected-prefix", "prefix of the selected item", func(o *selection.Options) any { return &o.SelectedPrefix }},
	{"fg", "item foreground color", func(o *selection.Options) any { return &o.ForegroundColor }},
	{"bg", "item background color", func(o *selection.Options) any { return &o.BackgroundColor }},
	{"selected-fg", "selected item foreground color", func(o *selection.Options) any { return &o.SelectedForegroundColor }},
	{"selected-bg", "selected item background color", func(o *selection.Options) any { return &o.SelectedBackgroundColor }},
	{"question-fg", "prompt foreground color", func(o *selection.Options) any { return &o.QuestionForegroundColor }},
	{"question-bg", "prompt background color", func(o *selection.Options) any { return &o.QuestionBackgroundColor }},
	{"tips-fg", "tips foreground color", func(o *selection.Options) any { return &o.TipsForegroundColor }},
	{"tips-bg", "tips background color", func(o *selection.Options) any { return &o.TipsBackgroundColor }},
	{"paging-fg", "page indicator foreground color", func(o *selection.Options) any { return &o.PagingForegroundColor }},
	{"paging-bg", "page indicator background color", func(o *selection.Options) any { return &o.PagingBackgroundColor }},
	{"default-fg", "echoed value foreground color", func(o *selection.Options) any { return &o.DefaultValueForegroundColor }},
	{"default-bg", "echoed value background color", func(o *selection.Options) any { return &o.DefaultValueBackgroundColor }},
}

func init() {
	addOptionFlags(rootCmd)
	rootCmd.Flags().String("config", "", "config file (default .gridselect/config.yaml)")
	rootCmd.Flags().Bool("json", false, "print the result as a JSON line")
	rootCmd.Flags().Bool("tui", false, "run as a full screen Bubble Tea program")
	rootCmd.Flags().Bool("no-help", false, "hide the key help footer in --tui mode")
	rootCmd.Flags().Bool("debug", false, "log debug output to stderr")

	rootCmd.AddCommand(upgradeCmd)
}

func addOptionFlags(cmd *cobra.Command) {
	var zero selection.Options
	for _, f := range optionFlags {
		if _, ok := f.field(&zero).(*int); ok {
			cmd.Flags().Int(f.name, 0, f.usage)
		} else {
			cmd.Flags().String(f.name, "", f.usage)
		}
	}
}

// applyFlags copies the flags set on the command line into o.
func applyFlags(cmd *cobra.Command, o *selection.Options) {
	flags := cmd.Flags()
	for _, f := range optionFlags {
		if !flags.Changed(f.name) {
			continue
		}
		switch p := f.field(o).(type) {
		case *int:
			*p, _ = flags.GetInt(f.name)
		case *string:
			*p, _ = flags.GetString(f.name)
		case *lipgloss.Color:
			s, _ := flags.GetString(f.name)
			*p = lipgloss.Color(s)
		}
	}
}

// parseItem splits [hotkey:]value[=title].
func parseItem(s string) (hotkey rune, value, title string, err error) {
	if r, size := utf8.DecodeRuneInString(s); size > 0 && len(s) > size+1 && s[size] == ':' {
		hotkey, s = r, s[size+1:]
	}
	value, title, _ = strings.Cut(s, "=")
	if value == "" {
		return 0, "", "", fmt.Errorf("item %q has no value", s)
	}
	return hotkey, value, title, nil
}

func readItems(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), "\r"); strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}
	return lines, nil
}

func isTerminal(r any) bool {
	f, ok := r.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// collectItems gathers items from the arguments, or stdin when there are
// none and stdin is piped, followed by the config file items. Piped lines
// are taken literally.
func collectItems(args []string, stdin io.Reader, file *config.File) (*selection.Data[string], error) {
	data := selection.NewData[string]()
	for _, arg := range args {
		hotkey, value, title, err := parseItem(arg)
		if err != nil {
			return nil, err
		}
		data.AddWithHotkey(hotkey, value, title, value)
	}
	if len(args) == 0 && stdin != nil && !isTerminal(stdin) {
		lines, err := readItems(stdin)
		if err != nil {
			return nil, err
		}
		for _, line := range lines {
			data.Add(line, line)
		}
	}
	file.AddTo(data)
	if data.Len() == 0 {
		return nil, errNoItems
	}
	return data, nil
}

func loadConfig(path string) (*config.File, error) {
	if path != "" {
		f, err := config.Load(path)
		if err == nil && f == nil {
			return nil, fmt.Errorf("config file %s not found", path)
		}
		return f, err
	}
	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return config.LoadDir(dir)
}

// drawTarget keeps stdout free for the result when it is captured.
func drawTarget() *os.File {
	if !isTerminal(os.Stdout) && isTerminal(os.Stderr) {
		return os.Stderr
	}
	return os.Stdout
}

func exitCode(r selection.Result[string]) int {
	switch r.InputType {
	case selection.Selected, selection.Typed:
		return exitOK
	case selection.NotSupported:
		return exitNotSupported
	default:
		return exitCanceled
	}
}

func runSelect(cmd *cobra.Command, args []string) int {
	jsonOut, _ := cmd.Flags().GetBool("json")
	useTUI, _ := cmd.Flags().GetBool("tui")
	noHelp, _ := cmd.Flags().GetBool("no-help")
	debug, _ := cmd.Flags().GetBool("debug")
	configPath, _ := cmd.Flags().GetString("config")

	level := config.LogLevel()
	if debug && level > slog.LevelDebug {
		level = slog.LevelDebug
	}
	logger := logutil.NewLogger(os.Stderr, level)

	printer := output.NewPrinter(jsonOut)
	printer.SetWriter(cmd.OutOrStdout())
	printer.SetErrWriter(cmd.ErrOrStderr())

	file, err := loadConfig(configPath)
	if err != nil {
		printer.Error(err)
		return exitError
	}
	data, err := collectItems(args, cmd.InOrStdin(), file)
	if err != nil {
		printer.Error(err)
		return exitError
	}
	opts := file.SelectionOptions()
	applyFlags(cmd, opts)
	logger.Debug("starting selection", "items", data.Len(), "tui", useTUI)

	var res selection.Result[string]
	if useTUI {
		res, err = tui.Run(data, opts,
			[]tui.PickerOption{tui.WithLogger(logger), tui.WithHelp(!noHelp)},
			tea.WithOutput(drawTarget()), tea.WithInputTTY())
	} else {
		res, err = runConsole(data, opts, logger)
	}
	if err != nil {
		printer.Error(err)
		return exitError
	}
	printer.Result(res)

	printer.Notice(update.NewChecker().Notice(context.Background(), version))
	return exitCode(res)
}

func runConsole(data *selection.Data[string], opts *selection.Options, logger *slog.Logger) (selection.Result[string], error) {
	c, err := console.Open(drawTarget(), console.WithLogger(logger))
	if err != nil {
		return selection.Result[string]{Index: -1}, err
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Debug("restore terminal", "error", err)
		}
	}()
	return selection.Select(c, data, opts, selection.WithLogger(logger), selection.WithFitHeight())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitError)
	}
}
