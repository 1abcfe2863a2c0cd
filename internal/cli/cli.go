// ============================================================================
// Forkjoin CLI - Command Line Interface
// ============================================================================
//
// Package: internal/cli
// File: cli.go
// Purpose: Cobra command tree driving the scheduler's demo workloads
//
// Command Structure:
//   forkjoin                       # Root command
//   ├── fib       <n>              # Parallel Fibonacci
//   ├── sum       <len>            # Parallel sum over i mod 3
//   ├── mergesort <n>              # Parallel mergesort with serial check
//   ├── quicksort <n>              # Parallel quicksort with serial check
//   ├── nqueens   <n>              # N-queens solution count
//   ├── --version                  # Display version information
//   └── --help                     # Display help information
//
// Shared flags:
//   --config, -c    YAML config file (optional; built-in defaults apply)
//   --threads, -n   worker count, overrides config
//   --bench, -b     write the JSON benchmark record (runresult.<ppid>.json)
//   --metrics       serve Prometheus metrics on the configured port
//
// Configuration Management:
//   YAML format config file. Configuration items include:
//   - worker: worker count
//   - metrics: Prometheus monitoring configuration
//   - bench: benchmark report settings
//
// Each command validates its result (against a serial reference, or for
// nqueens against the table of known solution counts) and exits non-zero
// on mismatch, so the commands double as acceptance checks.
//
// ============================================================================

// Package cli implements the forkjoin command line interface.
package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ChuLiYu/forkjoin/internal/bench"
	"github.com/ChuLiYu/forkjoin/internal/demo"
	"github.com/ChuLiYu/forkjoin/internal/metrics"
	"github.com/ChuLiYu/forkjoin/internal/pool"
)

// Config represents the complete system configuration structure
// Maps config file fields through YAML tags
type Config struct {
	Worker struct {
		WorkerCount int `yaml:"worker_count"`
	} `yaml:"worker"`

	Metrics struct {
		Enabled bool `yaml:"enabled"`
		Port    int  `yaml:"port"`
	} `yaml:"metrics"`

	Bench struct {
		Report bool `yaml:"report"`
	} `yaml:"bench"`
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.Worker.WorkerCount = 4
	cfg.Metrics.Port = 9090
	return cfg
}

// loadConfig reads the YAML config at path, or returns the defaults when
// path is empty.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cli: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cli: parse config: %w", err)
	}
	if cfg.Worker.WorkerCount < 1 {
		return nil, fmt.Errorf("cli: config worker_count must be at least 1, got %d", cfg.Worker.WorkerCount)
	}
	return cfg, nil
}

// options holds the persistent flag values shared by every workload.
type options struct {
	configPath  string
	threads     int
	benchReport bool
	metrics     bool
}

// runEnv is the assembled environment for one workload run.
type runEnv struct {
	cfg       *Config
	pool      *pool.Pool
	collector *metrics.Collector
	runID     string
}

// setup loads configuration, optionally starts the metrics endpoint, and
// builds the pool.
func (o *options) setup() (*runEnv, error) {
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	threads := cfg.Worker.WorkerCount
	if o.threads > 0 {
		threads = o.threads
	}

	env := &runEnv{cfg: cfg, runID: uuid.NewString()}

	var obs pool.Observer
	if o.metrics || cfg.Metrics.Enabled {
		env.collector = metrics.NewCollector()
		env.collector.SetWorkers(threads)
		obs = env.collector
		go func() {
			if err := metrics.Serve(cfg.Metrics.Port, env.collector); err != nil {
				log.Printf("metrics server: %v", err)
			}
		}()
	}

	env.pool, err = pool.NewWithObserver(threads, obs)
	if err != nil {
		return nil, err
	}
	log.Printf("run %s: pool started with %d workers", env.runID, threads)
	return env, nil
}

// finish shuts the pool down, prints the human-readable timings, and
// writes the JSON record when requested.
func (env *runEnv) finish(o *options, b *bench.Data, out io.Writer) error {
	if env.collector != nil {
		env.collector.SetQueued(env.pool.Stats().Queued)
	}
	env.pool.ShutdownAndDestroy()

	b.ReportHuman(out)
	if o.benchReport || env.cfg.Bench.Report {
		return b.Report()
	}
	return nil
}

// BuildCLI constructs the complete command tree.
func BuildCLI() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "forkjoin",
		Short:         "Work-stealing fork/join scheduler demo workloads",
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to YAML config file")
	root.PersistentFlags().IntVarP(&opts.threads, "threads", "n", 0, "number of workers in the pool (overrides config)")
	root.PersistentFlags().BoolVarP(&opts.benchReport, "bench", "b", false, "write the JSON benchmark record")
	root.PersistentFlags().BoolVar(&opts.metrics, "metrics", false, "serve Prometheus metrics during the run")

	root.AddCommand(
		buildFibCommand(opts),
		buildSumCommand(opts),
		buildMergesortCommand(opts),
		buildQuicksortCommand(opts),
		buildNqueensCommand(opts),
	)
	return root
}

func parseSize(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("cli: size must be a non-negative integer, got %q", arg)
	}
	return n, nil
}

func buildFibCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "fib <n>",
		Short: "Compute the n-th Fibonacci number with fine-grained tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseSize(args[0])
			if err != nil {
				return err
			}
			env, err := o.setup()
			if err != nil {
				return err
			}

			want := demo.FibSerial(uint(n))
			b := bench.Start()
			got := demo.Fib(env.pool, uint(n))
			b.Stop()

			if got != want {
				return fmt.Errorf("result %d should be %d", got, want)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "F(%d) = %d\nresult ok.\n", n, got)
			return env.finish(o, b, cmd.OutOrStdout())
		},
	}
}

func buildSumCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sum <len>",
		Short: "Sum an i mod 3 array by recursive range splitting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseSize(args[0])
			if err != nil {
				return err
			}
			env, err := o.setup()
			if err != nil {
				return err
			}

			v := demo.SumInput(n)
			want := demo.SerialSum(v)
			b := bench.Start()
			got := demo.ParallelSum(env.pool, v)
			b.Stop()

			if got != want {
				return fmt.Errorf("result %d should be %d", got, want)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "result ok.")
			return env.finish(o, b, cmd.OutOrStdout())
		},
	}
}

func buildMergesortCommand(o *options) *cobra.Command {
	var (
		seed      int64
		cutoff    int
		insertion int
		runSerial bool
	)
	cmd := &cobra.Command{
		Use:   "mergesort <n>",
		Short: "Sort n random integers with parallel mergesort",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseSize(args[0])
			if err != nil {
				return err
			}
			env, err := o.setup()
			if err != nil {
				return err
			}
			cfg := demo.SortConfig{SerialCutoff: cutoff, InsertionCutoff: insertion}

			a0 := randomInput(n, seed)
			want := append([]int(nil), a0...)
			demo.MergesortSerial(want, cfg)

			if runSerial {
				serial := append([]int(nil), a0...)
				sb := bench.Start()
				demo.MergesortSerial(serial, cfg)
				sb.Stop()
				fmt.Fprintln(cmd.OutOrStdout(), "mergesort serial result ok. Timings follow")
				sb.ReportHuman(cmd.OutOrStdout())
			}

			a := append([]int(nil), a0...)
			fmt.Fprintf(cmd.OutOrStdout(),
				"Using %d threads, parallel/serial threshold=%d insertion sort threshold=%d\n",
				env.pool.WorkerCount(), cutoff, insertion)
			b := bench.Start()
			demo.MergesortParallel(env.pool, a, cfg)
			b.Stop()

			if !demo.IsSorted(a) || !equalInts(a, want) {
				return fmt.Errorf("sort failed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "mergesort parallel result ok. Timings follow")
			return env.finish(o, b, cmd.OutOrStdout())
		},
	}
	cmd.Flags().Int64VarP(&seed, "seed", "s", 1, "random input seed")
	cmd.Flags().IntVarP(&cutoff, "cutoff", "m", demo.SerialSortCutoff, "minimum task size before using serial mergesort")
	cmd.Flags().IntVarP(&insertion, "insertion", "i", demo.InsertionSortCutoff, "insertion sort threshold")
	cmd.Flags().BoolVarP(&runSerial, "serial", "q", false, "also run serial mergesort")
	return cmd
}

func buildQuicksortCommand(o *options) *cobra.Command {
	var (
		seed  int64
		depth int
	)
	cmd := &cobra.Command{
		Use:   "quicksort <n>",
		Short: "Sort n random integers with depth-bounded parallel quicksort",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseSize(args[0])
			if err != nil {
				return err
			}
			env, err := o.setup()
			if err != nil {
				return err
			}

			a := randomInput(n, seed)
			want := append([]int(nil), a...)
			demo.QuicksortSerial(want)

			b := bench.Start()
			demo.QuicksortParallel(env.pool, a, depth)
			b.Stop()

			if !demo.IsSorted(a) || !equalInts(a, want) {
				return fmt.Errorf("sort failed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "quicksort parallel result ok. Timings follow")
			return env.finish(o, b, cmd.OutOrStdout())
		},
	}
	cmd.Flags().Int64VarP(&seed, "seed", "s", 1, "random input seed")
	cmd.Flags().IntVarP(&depth, "depth", "d", demo.QuicksortDefaultDepth, "parallel recursion depth")
	return cmd
}

func buildNqueensCommand(o *options) *cobra.Command {
	var depth int
	cmd := &cobra.Command{
		Use:   "nqueens <n>",
		Short: "Count n-queens solutions with depth-bounded backtracking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseSize(args[0])
			if err != nil {
				return err
			}
			env, err := o.setup()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Solving N = %d\n", n)
			b := bench.Start()
			count, err := demo.Nqueens(env.pool, n, depth)
			b.Stop()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Solutions: %d\n", count)
			if count != demo.NqueensSolutions(n) {
				return fmt.Errorf("solution bad: %d should be %d", count, demo.NqueensSolutions(n))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Solution ok.")
			return env.finish(o, b, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVarP(&depth, "depth", "d", demo.NqueensDefaultDepth, "parallel recursion depth")
	return cmd
}
