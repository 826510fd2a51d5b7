package main

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fromremote/internal/config"
	"fromremote/internal/logger"
	"fromremote/internal/pipeline"
)

// app is the state shared by all subcommands of one invocation.
type app struct {
	v   *viper.Viper
	cfg *config.Config

	configPath string
	dir        string
}

// Exit codes.
const (
	exitError = 1
	// exitStale is returned by check when generated files are out of date.
	exitStale = 3
)

// errStale marks a check failure caused by out-of-date files.
var errStale = errors.New("generated files are out of date")

func exitCode(err error) int {
	if errors.Is(err, errStale) {
		return exitStale
	}

	return exitError
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:   "fromremote",
		Short: "Generate conversions from remote Go types into local mirrors",
		Long: `fromremote generates conversion functions for local types annotated with
a directive naming their remote counterparts:

  //fromremote:remote.Bar,remote.Pook
  type Foo struct { ... }

produces FooFromBar(other remote.Bar) Foo and FooFromPook(other remote.Pook) Foo
in fromremote_gen.go next to the declaration.

Examples:
  fromremote gen ./...              # generate for every package
  fromremote check ./...            # fail when a generated file is stale
  fromremote inspect ./api          # show declarations and field shapes
  fromremote watch ./...            # regenerate on change`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default: fromremote.toml found upwards)")
	flags.StringVarP(&a.dir, "dir", "C", "", "directory patterns are resolved from")
	flags.Bool("json-logs", false, "write logs as JSON lines")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.String("directive", "", "directive keyword (default: fromremote)")
	flags.String("output", "", "generated file name (default: fromremote_gen.go)")
	flags.Int("workers", 0, "concurrent declarations (default: GOMAXPROCS)")

	_ = a.v.BindPFlag("log.json", flags.Lookup("json-logs"))
	_ = a.v.BindPFlag("directive", flags.Lookup("directive"))
	_ = a.v.BindPFlag("output", flags.Lookup("output"))
	_ = a.v.BindPFlag("workers", flags.Lookup("workers"))

	root.AddCommand(
		newGenCmd(a),
		newCheckCmd(a),
		newInspectCmd(a),
		newWatchCmd(a),
	)

	return root
}

// init loads configuration and sets up logging.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.v, a.configPath, a.dir)
	if err != nil {
		return err
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Log.Level = "debug"
	}

	err = logger.Initialize(cfg.Log.JSON, cfg.Log.Level)
	if err != nil {
		return err
	}

	a.cfg = cfg

	logger.Logger.Debugw("configuration loaded",
		"config", a.v.ConfigFileUsed(),
		"directive", cfg.Directive,
		"output", cfg.Output,
		"workers", cfg.Workers)

	return nil
}

func (a *app) runner() *pipeline.Runner {
	return pipeline.New(a.cfg, a.dir)
}

// patterns defaults to the package in the current directory.
func patterns(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}

	return args
}
