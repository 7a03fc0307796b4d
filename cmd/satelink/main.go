package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/satelink/internal/cliconfig"
	"github.com/bft-labs/satelink/pkg/log"
	"github.com/bft-labs/satelink/pkg/satel"
	"github.com/bft-labs/satelink/plugins/configwatcher"
	"github.com/bft-labs/satelink/plugins/refresher"
)

const longHelp = `Talk to a Satel INTEGRA alarm panel through an ETHM-1 (TCP) or INT-RS
(serial) integration module.

Configuration is read from $HOME/.satelink/config.toml, then SATELINK_*
environment variables, then flags; later sources win.`

var exampleUsage = strings.TrimSpace(`
  satelink info --host 192.168.1.10
  satelink monitor --states zone:violation,partition:armed,output
  satelink output on 3 4 --user-code 1234
  satelink output toggle 7 --serial-port /dev/ttyUSB0
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli holds state shared by all commands.
type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	wait    time.Duration
	log     zerolog.Logger
}

func main() {
	c := &cli{cfg: cliconfig.DefaultConfig()}
	c.log, _ = cliconfig.NewLogger(os.Stderr, c.cfg.LogLevel)

	root := &cobra.Command{
		Use:           "satelink",
		Short:         "Satel INTEGRA panel client",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.satelink/config.toml)")
	f.StringVar(&c.cfg.Host, "host", c.cfg.Host, "ETHM-1 module address")
	f.IntVar(&c.cfg.Port, "port", c.cfg.Port, "ETHM-1 integration port")
	f.StringVar(&c.cfg.SerialPort, "serial-port", c.cfg.SerialPort, "INT-RS serial device")
	f.IntVar(&c.cfg.BaudRate, "baud-rate", c.cfg.BaudRate, "serial baud rate")
	f.StringVar(&c.cfg.Parity, "parity", c.cfg.Parity, "serial parity: none, odd, even, mark or space")
	f.IntVar(&c.cfg.StopBits, "stop-bits", c.cfg.StopBits, "serial stop bits")
	f.DurationVar(&c.cfg.Timeout, "timeout", c.cfg.Timeout, "read and write timeout")
	f.DurationVar(&c.cfg.Refresh, "refresh", c.cfg.Refresh, "state refresh interval")
	f.StringVar(&c.cfg.UserCode, "user-code", c.cfg.UserCode, "user code authorizing control commands")
	f.BoolVar(&c.cfg.Checksum, "checksum", c.cfg.Checksum, "use frame checksums")
	f.StringSliceVar(&c.cfg.States, "states", c.cfg.States, "states to monitor, e.g. zone:violation,output")
	f.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level: debug, info, warn or error")
	f.DurationVar(&c.wait, "wait", 15*time.Second, "how long info and output wait for the panel")

	root.AddCommand(c.monitorCmd(), c.infoCmd(), c.outputCmd())

	if err := root.Execute(); err != nil {
		c.log.Error().Err(err).Msg("satelink")
		os.Exit(1)
	}
}

// load merges file, environment and flags into c.cfg and sets up logging.
func (c *cli) load(cmd *cobra.Command) error {
	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	// Build set of changed flags
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
			return err
		}
		c.cfgPath = cfgFile
	}

	if err := cliconfig.ApplyEnvConfig(&c.cfg, changed); err != nil {
		return err
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}

	logger, err := cliconfig.NewLogger(os.Stderr, c.cfg.LogLevel)
	if err != nil {
		return err
	}
	c.log = logger

	logCfg := c.cfg
	if logCfg.UserCode != "" {
		logCfg.UserCode = "*****"
	}
	c.log.Debug().Interface("config", logCfg).Msg("configuration")
	return nil
}

// open creates and opens a module with the given options.
func (c *cli) open(ctx context.Context, opts ...satel.Option) (*satel.Module, error) {
	logger := log.NewZerologAdapterWithLogger(c.log)

	transport, err := c.cfg.Transport(logger)
	if err != nil {
		return nil, err
	}

	opts = append([]satel.Option{
		satel.WithLogger(logger),
		satel.WithStateHandler(func(prev, cur satel.State, reason string) {
			c.log.Debug().Stringer("from", prev).Stringer("to", cur).Str("reason", reason).Msg("connection state")
		}),
	}, opts...)

	m, err := satel.New(transport, c.cfg.ModuleConfig(), opts...)
	if err != nil {
		return nil, fmt.Errorf("create module: %w", err)
	}
	if err := m.Open(ctx); err != nil {
		return nil, fmt.Errorf("open module: %w", err)
	}
	return m, nil
}

func (c *cli) monitorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "monitor",
		Short: "Log panel events until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			states, err := c.cfg.StateTypes()
			if err != nil {
				return err
			}
			refresh := refresher.New(refresher.Config{Interval: c.cfg.Refresh, States: states})

			opts := []satel.Option{satel.WithPlugin(refresh)}
			if c.cfgPath != "" {
				opts = append(opts, configwatcher.WithConfigWatcher(
					configwatcher.DefaultConfig(c.cfgPath),
					func(ctx context.Context, path string) error {
						return c.reloadStates(path, refresh)
					},
				))
			}

			m, err := c.open(ctx, opts...)
			if err != nil {
				return err
			}
			m.Subscribe(satel.ListenerFunc(func(e satel.Event) {
				c.log.Info().Str("kind", e.Kind()).Msg(e.String())
			}))

			<-ctx.Done()
			c.log.Info().Msg("received signal, stopping...")

			if err := m.Close(); err != nil {
				return fmt.Errorf("close module: %w", err)
			}
			return nil
		},
	}
}

// reloadStates re-reads the states list from the config file.
func (c *cli) reloadStates(path string, refresh *refresher.Plugin) error {
	fc, err := cliconfig.LoadFileConfig(path)
	if err != nil {
		return err
	}
	cfg := cliconfig.Config{}
	if err := cliconfig.ApplyFileConfig(&cfg, fc, nil); err != nil {
		return err
	}
	states, err := cfg.StateTypes()
	if err != nil {
		return err
	}
	refresh.SetStates(states)
	c.log.Info().Int("states", len(states)).Msg("monitored states updated")
	return nil
}

func (c *cli) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the panel type and firmware version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), c.wait)
			defer cancel()

			m, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer m.Close()

			if err := waitInitialized(ctx, m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "type:    %s\nversion: %s\n", m.IntegraType(), m.IntegraVersion())
			return nil
		},
	}
}

func (c *cli) outputCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "output on|off|toggle <output>...",
		Short:     "Switch panel outputs",
		Args:      cobra.MinimumNArgs(2),
		ValidArgs: []string{"on", "off", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var control satel.ControlType
			switch args[0] {
			case "on":
				control = satel.OutputOn
			case "off":
				control = satel.OutputOff
			case "toggle":
				control = satel.OutputToggle
			default:
				return fmt.Errorf("unknown output action %q", args[0])
			}
			outputs, err := parseObjects(args[1:])
			if err != nil {
				return err
			}
			if c.cfg.UserCode == "" {
				return fmt.Errorf("user-code is required")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), c.wait)
			defer cancel()

			m, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer m.Close()

			results := make(chan satel.ControlResultEvent, 1)
			m.Subscribe(satel.ListenerFunc(func(e satel.Event) {
				if r, ok := e.(satel.ControlResultEvent); ok && r.Control == control {
					select {
					case results <- r:
					default:
					}
				}
			}))

			if err := waitInitialized(ctx, m); err != nil {
				return err
			}
			if err := m.Control(ctx, control, c.cfg.UserCode, satel.ObjectBits(outputs...)); err != nil {
				return err
			}

			select {
			case r := <-results:
				fmt.Fprintln(cmd.OutOrStdout(), r)
				if !r.OK() {
					return fmt.Errorf("panel rejected %s", control)
				}
				return nil
			case <-ctx.Done():
				return fmt.Errorf("waiting for control result: %w", ctx.Err())
			}
		},
	}
}

// parseObjects parses 1-based object numbers.
func parseObjects(args []string) ([]int, error) {
	out := make([]int, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid object number %q", a)
		}
		out = append(out, n)
	}
	return out, nil
}

// waitInitialized polls until the panel has identified itself.
func waitInitialized(ctx context.Context, m *satel.Module) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for !m.IsInitialized() {
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for panel identification: %w", ctx.Err())
		case <-ticker.C:
		}
	}
	return nil
}
