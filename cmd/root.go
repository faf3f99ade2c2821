package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/factory-sim/factory-sim/sim"
	"github.com/factory-sim/factory-sim/sim/report"
)

var (
	// CLI flags for the simulation run
	configPath string  // YAML line configuration file
	duration   float64 // Simulated production window (hours)
	seed       int64   // Seed for all RNG streams
	logLevel   string  // Log verbosity level
	reportPath string  // Where to write the JSON run report ("" = skip)

	// CLI flags for the config subcommand
	configOutPath string // Where to write the default line configuration
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "factory-sim",
	Short: "Discrete-event simulator for factory production lines",
}

// runCmd executes one simulation using parameters from the config file and
// CLI flags. Flags win over the file for duration and seed.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the production line simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		machineCfgs, simCfg := LoadLineConfig(configPath)
		if cmd.Flags().Changed("duration") {
			simCfg.Duration = duration
		}
		if cmd.Flags().Changed("seed") {
			simCfg.Seed = seed
		}

		logrus.Infof("Starting simulation with %d machines, duration=%.1fh, seed=%d",
			len(machineCfgs), simCfg.Duration, simCfg.Seed)

		startTime := time.Now()

		line := sim.NewProductionLine(machineCfgs, simCfg)
		if line.UsedDefaultMachines() && configPath != "" {
			logrus.Warnf("Config %s was rejected; the default machine set is running instead", configPath)
		}
		cycles := line.Run(context.Background())

		printSummary(line, cycles, time.Since(startTime))

		if reportPath != "" {
			rep := report.Build(line)
			if err := rep.WriteJSON(reportPath); err != nil {
				logrus.Fatalf("Failed to write report: %v", err)
			}
			logrus.Infof("Report written to %s", reportPath)
		}

		logrus.Info("Simulation complete.")
	},
}

// printSummary displays aggregated metrics at the end of the simulation.
func printSummary(line *sim.ProductionLine, cycles int, elapsed time.Duration) {
	metrics := line.ProductionMetrics()

	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Completed Cycles     : %d\n", cycles)
	fmt.Printf("Simulated Time       : %.2f h\n", line.Clock())
	fmt.Printf("Average Cycle Time   : %.2f h\n", metrics.AverageCycleTime)
	fmt.Printf("Line Efficiency      : %.2f%%\n", metrics.LineEfficiency*100)
	fmt.Printf("Throughput           : %.2f cycles/h\n", metrics.Throughput)
	fmt.Printf("Bottleneck           : %s\n", metrics.BottleneckMachine)

	names := make([]string, 0, len(metrics.BottleneckFrequency))
	for name := range metrics.BottleneckFrequency {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-18s : %d cycles\n", name, metrics.BottleneckFrequency[name])
	}

	fmt.Println("=== Machines ===")
	for _, s := range line.MachinePerformanceSummaries() {
		marker := ""
		if s.IsBottleneck {
			marker = "  <- bottleneck"
		}
		fmt.Printf("%-10s ops=%-5d avg=%.2fh eff=%.2f avail=%.2f trend=%s%s\n",
			s.Statistics.Name, s.Statistics.TotalOperations, s.Statistics.AverageTime,
			s.Statistics.Efficiency, s.Statistics.Availability, s.Trend.Trend, marker)
	}

	if issues := line.Issues(); len(issues) > 0 {
		fmt.Printf("Issues observed      : %d\n", len(issues))
	}
	fmt.Printf("Wall time            : %s\n", elapsed.Round(time.Millisecond))
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML line configuration file (default machine set when empty)")
	runCmd.Flags().Float64Var(&duration, "duration", sim.DefaultDuration, "Simulated production window in hours")
	runCmd.Flags().Int64Var(&seed, "seed", sim.DefaultSeed, "Seed for deterministic simulation")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&reportPath, "report", "", "Write a JSON run report to this path")

	configCmd.Flags().StringVar(&configOutPath, "out", "line.yaml", "Where to write the default line configuration")

	// Attach subcommands to `root`
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
}
