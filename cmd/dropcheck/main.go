// Command dropcheck replays drag scenarios headlessly and reports the results.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/chrisuehlinger/dropzone/config"
	"github.com/chrisuehlinger/dropzone/scenario"
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML or YAML config file")
	jsonOutput := flag.Bool("json", false, "Output results as JSON")
	verbose := flag.Bool("v", false, "Log page and engine activity to stderr")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <scenario.yaml|dir>...\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s scenario/testdata/board.yaml\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -json scenarios/\n", os.Args[0])
		os.Exit(1)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	log := zap.NewNop()
	if *verbose {
		l, err := config.NewLogger(cfg.Log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer l.Sync()
		log = l
	}

	files, err := findScenarios(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	runner := scenario.NewRunner(scenario.WithConfig(cfg), scenario.WithLogger(log))
	for _, path := range files {
		fmt.Fprintf(os.Stderr, "Running: %s\n", path)
		result := runner.RunFile(path)
		runner.Results = append(runner.Results, result)

		if !*jsonOutput {
			printResult(result)
		}
	}

	if *jsonOutput {
		jsonData, err := runner.ExportJSON()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting JSON: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(jsonData))
	} else {
		passed, failed, skipped := runner.Summary()
		fmt.Printf("\nSummary: %d passed, %d failed, %d skipped\n", passed, failed, skipped)
	}

	if _, failed, _ := runner.Summary(); failed > 0 {
		os.Exit(1)
	}
}

func printResult(result scenario.SuiteResult) {
	fmt.Printf("\n%s [%s] (%s, %.2fs)\n", result.Name, result.File, result.Status, result.Duration.Seconds())
	if result.Error != "" {
		fmt.Printf("  ERROR: %s\n", result.Error)
	}
	for _, msg := range result.ScriptErrors {
		fmt.Printf("  script: %s\n", msg)
	}
	for _, test := range result.Tests {
		fmt.Printf("  %s %s\n", statusSymbol(test.Status), test.Name)
		if test.Message != "" && test.Status != scenario.StatusPass {
			for _, line := range strings.Split(test.Message, "\n") {
				fmt.Printf("      %s\n", line)
			}
		}
	}
}

func statusSymbol(status scenario.Status) string {
	switch status {
	case scenario.StatusPass:
		return "✓"
	case scenario.StatusFail:
		return "✗"
	case scenario.StatusError:
		return "!"
	case scenario.StatusSkip:
		return "-"
	default:
		return "?"
	}
}

// findScenarios expands directories into the .yaml and .yml files they hold.
func findScenarios(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		var found []string
		for _, pattern := range []string{"*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(arg, pattern))
			if err != nil {
				return nil, err
			}
			found = append(found, matches...)
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no scenarios in %s", arg)
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}
