package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"timegate/internal/adapter/primary/web"
	"timegate/internal/adapter/secondary/events"
	"timegate/internal/adapter/secondary/repository"
	"timegate/internal/adapter/secondary/session"
	"timegate/internal/config"
	"timegate/internal/domain"
	"timegate/internal/logging"
	"timegate/internal/usecase"
)

var (
	cfgPath   string
	addr      string
	verbosity int
	settings  config.Settings
)

// NewRootCmd creates the root CLI command.
// This is the primary adapter that translates CLI inputs to use case calls.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "timegate",
		Short:         "Open and close a gated service on a weekly timetable",
		Long:          "Scheduler + admin API + CLI that opens and closes a gate on a recurring weekly timetable and warns before automatic closures.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (env TIMEGATE_CONFIG)")
	cmd.PersistentFlags().StringVar(&addr, "addr", "", "admin API address host:port (env TIMEGATE_ADDR)")
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log detail (-v, -vv, ... up to 4)")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return resolveSettings(cmd.Flags())
	}

	cmd.AddCommand(
		newServeCmd(),
		newDaemonCmd(),
		newStatusCmd(),
		newOverrideCmd("open", domain.ModeForceOpen, "Force the gate open"),
		newOverrideCmd("close", domain.ModeForceClosed, "Force the gate closed"),
		newOverrideCmd("auto", domain.ModeAuto, "Return to the schedule"),
		newReloadCmd(),
		newCheckCmd(),
		newConfigCmd(),
		newShellCmd(),
	)

	return cmd
}

// resolveSettings merges environment settings with explicit flags.
func resolveSettings(flags *pflag.FlagSet) error {
	s, err := config.LoadSettings()
	if err != nil {
		return err
	}
	if flags.Changed("config") && cfgPath != "" {
		s.ConfigPath = cfgPath
	}
	if flags.Changed("addr") && addr != "" {
		s.Addr = addr
	}
	cfgPath, addr = s.ConfigPath, s.Addr

	switch {
	case verbosity > 0:
		logging.SetVerbosity(verbosity)
	case s.LogLevel != "":
		_, count, err := logging.ParseLevel(s.LogLevel)
		if err != nil {
			return fmt.Errorf("TIMEGATE_LOG_LEVEL: %w", err)
		}
		logging.SetVerbosity(count)
	default:
		logging.SetVerbosity(0)
	}
	settings = s
	return nil
}

// buildGate wires the use case and returns a cleanup for its secondary adapters.
func buildGate() (usecase.GateUseCase, func(), error) {
	repo, err := repository.NewFileRepository(settings.ConfigPath)
	if err != nil {
		return nil, nil, err
	}

	var pub events.Publisher = &events.NoopPublisher{}
	if settings.NATSURL != "" {
		natsPub, err := events.NewNATSPublisher(settings.NATSURL)
		if err != nil {
			return nil, nil, err
		}
		logging.Infof("publishing gate events to %s under %q", settings.NATSURL, settings.NATSPrefix)
		pub = natsPub
	}

	uc, err := usecase.NewGateUseCase(usecase.Deps{
		Config:        repo,
		Sessions:      session.NewRegistry(),
		Listener:      events.NewListener(pub, settings.NATSPrefix),
		CheckInterval: settings.CheckInterval,
	})
	if err != nil {
		_ = pub.Close()
		return nil, nil, err
	}
	cleanup := func() {
		if err := pub.Close(); err != nil {
			logging.Warnf("close publisher: %v", err)
		}
	}
	return uc, cleanup, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler and the admin API",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, cleanup, err := buildGate()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			uc.Start(ctx)
			defer uc.Stop()

			srv := web.NewServer(uc, settings.Addr)
			st := uc.Status()
			fmt.Fprintf(cmd.OutOrStdout(), "TimeGate running at http://%s (gate %s)\n", settings.Addr, st.State)
			logging.Infof("admin API: http://%s", settings.Addr)

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			return srv.Start()
		},
	}
}

func newDaemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the scheduler only (no admin API)",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, cleanup, err := buildGate()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "TimeGate daemon started (gate %s)\n", uc.Status().State)
			uc.Start(ctx)

			<-ctx.Done()
			uc.Stop()
			fmt.Fprintln(cmd.OutOrStdout(), "Daemon shutting down...")
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the state of a running gate",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := newAdminClient(settings.Addr).Status(cmd.Context())
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), st)
			return nil
		},
	}
}

func newOverrideCmd(use string, mode domain.OverrideMode, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := newAdminClient(settings.Addr).SetOverride(cmd.Context(), strings.ToLower(mode.String()))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "mode set to %s\n", st.Mode)
			printStatus(cmd.OutOrStdout(), st)
			return nil
		},
	}
}

func newReloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Reload the config file of a running gate",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := newAdminClient(settings.Addr).Reload(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "configuration reloaded")
			printStatus(cmd.OutOrStdout(), st)
			return nil
		},
	}
}

func newCheckCmd() *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Evaluate the config file at a given time without a running gate",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := repository.NewFileRepository(settings.ConfigPath)
			if err != nil {
				return err
			}
			when := time.Now()
			if at != "" {
				if when, err = time.Parse(time.RFC3339, at); err != nil {
					return fmt.Errorf("--at: %w", err)
				}
			}
			return printCheck(cmd.OutOrStdout(), repo.Schedule(), when)
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "RFC3339 time to evaluate (default now)")
	return cmd
}

func printCheck(w io.Writer, sched domain.Schedule, when time.Time) error {
	instant := sched.Instant(when)
	state := domain.Evaluate(sched.Windows, domain.ModeAuto, instant)
	fmt.Fprintf(w, "at:        %s %s (%s)\n", instant.Day.String()[:3], domain.FormatClock(instant.Minute), sched.Location)
	fmt.Fprintf(w, "state:     %s\n", state)
	for _, win := range sched.Windows {
		if r := win.MinutesUntilEnd(instant); r >= 0 {
			fmt.Fprintf(w, "window:    %s\n", win)
			fmt.Fprintf(w, "remaining: %d minutes\n", r)
			break
		}
	}
	return nil
}

func printStatus(w io.Writer, st web.StatusView) {
	fmt.Fprintf(w, "state:    %s\n", st.State)
	fmt.Fprintf(w, "mode:     %s\n", st.Mode)
	fmt.Fprintf(w, "motd:     %s\n", st.Motd)
	fmt.Fprintf(w, "timezone: %s\n", st.Timezone)
	if st.Remaining >= 0 {
		fmt.Fprintf(w, "closes:   in %d minutes\n", st.Remaining)
	}
	fmt.Fprintf(w, "sessions: %d\n", st.Sessions)
	for _, win := range st.Windows {
		fmt.Fprintf(w, "  window  %s\n", win)
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect the config file",
	}
	cmd.AddCommand(newConfigInitCmd(), newConfigShowCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(settings.ConfigPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", settings.ConfigPath)
			}
			if err := repository.Save(settings.ConfigPath, config.DefaultFile()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", settings.ConfigPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the validated config (JSON)",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := repository.NewFileRepository(settings.ConfigPath)
			if err != nil {
				return err
			}
			cfg := repo.Current()
			windows := make([]string, len(cfg.Schedule.Windows))
			for i, w := range cfg.Schedule.Windows {
				windows[i] = w.String()
			}
			display := map[string]any{
				"path":             repo.Path(),
				"timezone":         cfg.Schedule.Location.String(),
				"evictOnClose":     cfg.Schedule.EvictOnClose,
				"windows":          windows,
				"warningIntervals": cfg.Schedule.Warnings.Intervals,
				"warningMessage":   cfg.Schedule.Warnings.Message,
				"motdOpen":         cfg.Messages.MotdOpen,
				"motdClosed":       cfg.Messages.MotdClosed,
				"denyMessage":      cfg.Messages.Deny,
				"evictMessage":     cfg.Messages.Evict,
			}
			out, _ := json.MarshalIndent(display, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func newShellCmd() *cobra.Command {
	var prompt string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell running timegate subcommands",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractiveShell(prompt)
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "timegate> ", "shell prompt")
	return cmd
}

func runInteractiveShell(prompt string) error {
	historyFile := filepath.Join(os.TempDir(), "timegate-shell.history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	sessionVerbosity := verbosity
	sessionConfig, sessionAddr := cfgPath, addr
	fmt.Println("Interactive shell. Type 'help' for usage, 'exit' to quit.")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			fmt.Println()
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch line {
		case "exit", "quit":
			fmt.Println("Bye!")
			return nil
		case "help":
			printShellHelp()
			continue
		}
		tokens, err := shlex.Split(line)
		if err != nil {
			fmt.Printf("Parse error: %v\n", err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}
		if tokens[0] == "log" {
			if err := handleShellLog(tokens[1:], &sessionVerbosity); err != nil {
				fmt.Printf("log: %v\n", err)
			}
			continue
		}
		if tokens[0] == "shell" {
			fmt.Println("Already in the shell. Enter another command or 'exit'.")
			continue
		}

		if err := executeArgs(withSessionFlags(tokens, sessionConfig, sessionAddr, sessionVerbosity)); err != nil {
			fmt.Printf("command error: %v\n", err)
		}
	}
}

// withSessionFlags carries the shell's --config/--addr/-v into each command
// unless the line sets them itself.
func withSessionFlags(tokens []string, cfg, address string, v int) []string {
	has := func(prefixes ...string) bool {
		for _, t := range tokens {
			for _, p := range prefixes {
				if strings.HasPrefix(t, p) {
					return true
				}
			}
		}
		return false
	}
	args := append([]string{}, tokens...)
	if cfg != "" && !has("--config") {
		args = append(args, "--config", cfg)
	}
	if address != "" && !has("--addr") {
		args = append(args, "--addr", address)
	}
	if v > 0 && !has("-v", "--verbose") {
		args = append(args, "-"+strings.Repeat("v", v))
	}
	return args
}

func executeArgs(args []string) error {
	if len(args) == 0 {
		return nil
	}
	root := NewRootCmd()
	root.SetArgs(args)
	return root.Execute()
}

func handleShellLog(args []string, sessionVerbosity *int) error {
	fs := pflag.NewFlagSet("log", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var vcount int
	var level string
	var show bool
	fs.CountVarP(&vcount, "verbose", "v", "Increase verbosity (-v... up to 4)")
	fs.StringVar(&level, "level", "", "level (error|warn|info|debug|trace)")
	fs.BoolVarP(&show, "show", "s", false, "show the current level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case show && vcount == 0 && level == "":
		fmt.Printf("log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	case level != "":
		_, count, err := logging.ParseLevel(level)
		if err != nil {
			return err
		}
		*sessionVerbosity = count
	case vcount > 0:
		*sessionVerbosity = vcount
	default:
		fmt.Printf("log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	}

	logging.SetVerbosity(*sessionVerbosity)
	fmt.Printf("log level set to %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
	return nil
}

func printShellHelp() {
	fmt.Println(`Examples:
  status                        # show the running gate
  open / close / auto           # override the schedule
  reload                        # reload the config file
  check --at 2026-10-19T23:00:00+09:00
  config show                   # print the validated config
  log -vv                       # more log detail
  log --show                    # show the current log level
  exit / quit                   # leave the shell`)
}
