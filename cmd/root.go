package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/maxvaer/brutecli/internal/config"
	"github.com/maxvaer/brutecli/internal/output"
	"github.com/maxvaer/brutecli/internal/runner"
	"github.com/maxvaer/brutecli/internal/wizard"
	"github.com/maxvaer/brutecli/pkg/version"
)

const usageHint = "Launch with no arguments for the interactive wizard, or use -B tasks.yaml for batch mode."

var opts config.Options

type flagGroup struct {
	title string
	flags []string
}

var helpGroups = []flagGroup{
	{"BATCH", []string{"batch", "loop", "delay"}},
	{"NETWORK", []string{"proxy", "rate", "user-agent"}},
	{"OUTPUT", []string{"output", "format", "quiet", "no-color"}},
	{"INTEGRATION", []string{"on-success", "db"}},
}

var rootCmd = &cobra.Command{
	Use:     "brutecli [-B tasks.yaml] [flags]",
	Short:   "Terminal credential brute-forcer for SSH, FTP and HTTP forms",
	Version: version.Version,
	Long: `brutecli tries username/password combinations against one SSH, FTP or
HTTP login per job until one works. Run it without arguments for the
interactive wizard, or hand it a job list with -B for unattended runs.
Use only on systems you are authorised to test.`,
	Example: `  brutecli
  brutecli -B tasks.yaml
  brutecli -B tasks.yaml --loop --delay 600
  brutecli -B tasks.toml -o results.json --format json
  brutecli -B tasks.yaml --proxy socks5://127.0.0.1:9050 --rate 5
  brutecli -B tasks.yaml --on-success "notify-send {target} {user}:{pass}"
  brutecli history --db runs.db`,
	Args: cobra.ArbitraryArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		switch opts.OutputFormat {
		case "text", "json", "csv":
		default:
			return fmt.Errorf("--format must be one of: text, json, csv")
		}
		if opts.Rate < 0 {
			return fmt.Errorf("--rate must not be negative")
		}
		if opts.Delay < 0 {
			return fmt.Errorf("--delay must not be negative")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		loopFlags := cmd.Flags().Changed("loop") || cmd.Flags().Changed("delay")
		if len(args) > 0 || (opts.BatchFile == "" && loopFlags) {
			fmt.Fprintln(cmd.OutOrStdout(), usageHint)
			return nil
		}

		console := output.NewConsole(opts.NoColor, opts.Quiet)
		watchInterrupt(console)
		ctx := context.Background()

		var job config.Job
		if opts.BatchFile == "" {
			if !opts.Quiet {
				wizard.Banner(os.Stdout, opts.NoColor)
			}
			var err error
			job, err = wizard.Ask(os.Stdin, os.Stdout)
			if err != nil {
				return err
			}
		}

		r, err := runner.New(&opts, console)
		if err != nil {
			return err
		}
		defer r.Close()

		if opts.BatchFile != "" {
			return r.RunBatch(ctx)
		}
		_, err = r.RunJob(ctx, 0, job)
		return err
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

var exit = os.Exit

// watchInterrupt exits with status 0 on SIGINT/SIGTERM without waiting for
// workers.
func watchInterrupt(console *output.Console) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		interrupted(console)
	}()
}

// interrupted cancels nothing, so no job can return an error that races
// the exit.
func interrupted(console *output.Console) {
	fmt.Fprintln(console.Stderr())
	console.Warnf("Interrupted – exiting")
	exit(0)
}

func init() {
	f := rootCmd.Flags()

	// Batch
	f.StringVarP(&opts.BatchFile, "batch", "B", "", "Run jobs from a YAML, JSON or TOML file")
	f.BoolVar(&opts.Loop, "loop", false, "With -B, repeat the job list until interrupted")
	f.IntVar(&opts.Delay, "delay", config.DefaultDelay, "Seconds between batch rounds")

	// Network
	f.StringVar(&opts.Proxy, "proxy", "", "Proxy URL (socks5:// for ssh/ftp, http(s):// or socks5:// for http)")
	f.Float64Var(&opts.Rate, "rate", 0, "Max attempts per second per job (0 = unlimited)")
	f.StringVar(&opts.UserAgent, "user-agent", "", "User-Agent for http jobs")

	// Output
	f.StringVarP(&opts.OutputFile, "output", "o", "", "Write job results to this file")
	f.StringVar(&opts.OutputFormat, "format", "text", "Output format: text, json, csv")
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "Only print results, warnings and errors")
	f.BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")

	// Integration
	f.StringVar(&opts.OnSuccessCmd, "on-success", "", "Shell command to run on found credentials (receives JSON on stdin)")
	rootCmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "Record job outcomes in this sqlite file")

	rootCmd.AddCommand(historyCmd)

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != rootCmd {
			fmt.Fprint(os.Stderr, cmd.UsageString())
			return
		}
		w := os.Stderr
		fmt.Fprint(w, helpBanner(cmd.Version))
		fmt.Fprintf(w, "%s\n\nUsage:\n  %s\n  brutecli history [--db runs.db] [--limit N]\n", cmd.Long, cmd.UseLine())
		fmt.Fprintf(w, "\nExamples:\n%s\n", cmd.Example)
		fmt.Fprintf(w, "\nFlags:\n")
		for _, g := range helpGroups {
			fmt.Fprintf(w, "\n%s:\n", g.title)
			for _, name := range g.flags {
				fl := cmd.Flags().Lookup(name)
				if fl == nil {
					fl = cmd.PersistentFlags().Lookup(name)
				}
				if fl != nil {
					fmt.Fprintln(w, formatFlag(fl))
				}
			}
		}
		fmt.Fprintln(w)
	})
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func formatFlag(f *pflag.Flag) string {
	var left string
	if f.Shorthand != "" {
		left = fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	} else {
		left = fmt.Sprintf("    --%s", f.Name)
	}

	typ := f.Value.Type()
	if typ != "bool" {
		left += " " + typ
	}

	const col = 30
	for len(left) < col {
		left += " "
	}

	right := f.Usage
	def := f.DefValue
	if def != "" && def != "false" && def != "0" {
		right += fmt.Sprintf(" (default %s)", def)
	}

	return "   " + left + right
}

func helpBanner(ver string) string {
	if ver != "dev" && ver != "" && !strings.HasPrefix(ver, "v") {
		ver = "v" + ver
	}
	return fmt.Sprintf(`
  _                _            _ _
 | |__  _ __ _   _| |_ ___  ___| (_)
 | '_ \| '__| | | | __/ _ \/ __| | |
 | |_) | |  | |_| | ||  __/ (__| | |
 |_.__/|_|   \__,_|\__\___|\___|_|_|  %s

`, ver)
}
