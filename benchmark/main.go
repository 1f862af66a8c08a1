// Package main benchmarks the rename strategies of the utilstudy CLI.
// For every repository it collects the historical file list once, then times
// "rename rename" with each strategy, treating the first successful run as cold
// and averaging the rest as warm, and writes the timings to a CSV file.
//
// Prerequisites:
// - utilstudy binary installed and available in PATH
// - Test repositories cloned to the specified base directory
// - An extension list per repository in <repo-base-dir>/extension_lists/<repo>.txt
//
// Usage: go run benchmark/main.go [repo-base-dir]
//
//	repo-base-dir: Directory containing test repositories
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the cold run and the warm average of one strategy.
type BenchmarkResult struct {
	Repository string
	Strategy   string
	ColdTime   string
	WarmTime   string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	RepoBase   string
	WorkDir    string
	Timeout    time.Duration
	Runs       int
	TestRepos  []string
	Strategies []string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [repo-base-dir]\n", os.Args[0])
		os.Exit(1)
	}
	repoBase := os.Args[1]

	workDir, err := os.MkdirTemp("", "utilstudy_benchmark")
	if err != nil {
		fmt.Printf("Failed to create work directory: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	config := BenchmarkConfig{
		RepoBase:   repoBase,
		WorkDir:    workDir,
		Timeout:    30 * time.Minute,
		Runs:       3,
		TestRepos:  []string{"httpd", "struts", "systemd"},
		Strategies: []string{"map", "filtered", "follow"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// checkPrerequisites verifies that the utilstudy binary, the test repositories
// and their extension lists exist.
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("utilstudy"); err != nil {
		return fmt.Errorf("utilstudy binary not found in PATH")
	}

	for _, repo := range config.TestRepos {
		for _, p := range []string{filepath.Join(config.RepoBase, repo), extensionList(config, repo)} {
			if _, err := os.Stat(p); os.IsNotExist(err) {
				return fmt.Errorf("%s: %s not found", repo, p)
			}
		}
	}
	return nil
}

func extensionList(config BenchmarkConfig, repo string) string {
	return filepath.Join(config.RepoBase, "extension_lists", repo+".txt")
}

// runBenchmarks times every strategy on every repository.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d repos, %d strategies, %v timeout, %d runs\n",
		len(config.TestRepos), len(config.Strategies), config.Timeout, config.Runs)

	for _, repo := range config.TestRepos {
		fmt.Printf("Benchmarking %s\n", repo)
		repoPath := filepath.Join(config.RepoBase, repo)
		files := filepath.Join(config.WorkDir, repo+"_files.txt")

		if _, err := run(config, "rename", "records", repoPath, files, extensionList(config, repo)); err != nil {
			fmt.Printf("  Skipping %s: cannot collect records: %v\n", repo, err)
			continue
		}

		for _, strategy := range config.Strategies {
			results = append(results, runStrategy(config, repo, repoPath, files, strategy))
		}
	}
	return results
}

// runStrategy runs one strategy config.Runs times.
func runStrategy(config BenchmarkConfig, repo, repoPath, files, strategy string) BenchmarkResult {
	fmt.Printf("  %s strategy (%d runs)\n", strategy, config.Runs)
	out := filepath.Join(config.WorkDir, fmt.Sprintf("%s_%s.csv", repo, strategy))

	var times []float64
	for range config.Runs {
		start := time.Now()
		output, err := run(config, "rename", "rename", repoPath, out, files, "--strategy", strategy)
		if err == nil && isSuccess(output) {
			times = append(times, time.Since(start).Seconds())
		}
	}

	result := BenchmarkResult{Repository: repo, Strategy: strategy, ColdTime: "TIMEOUT", WarmTime: "TIMEOUT"}
	if len(times) > 0 {
		result.ColdTime = fmt.Sprintf("%.3fs", times[0])
	}
	if warm := times[min(1, len(times)):]; len(warm) > 0 {
		var sum float64
		for _, t := range warm {
			sum += t
		}
		result.WarmTime = fmt.Sprintf("%.3fs", sum/float64(len(warm)))
	}
	fmt.Printf("  Cold time: %s, Warm average: %s\n", result.ColdTime, result.WarmTime)
	return result
}

// run executes utilstudy with args and the configured timeout.
func run(config BenchmarkConfig, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()
	return exec.CommandContext(ctx, "utilstudy", args...).CombinedOutput()
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	return strings.Contains(string(output), "alias chains to")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/utilstudy_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"repo", "strategy", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Repository, result.Strategy, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the results grouped by strategy
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, strategy := range config.Strategies {
		fmt.Printf("%s strategy:\n", strategy)
		for _, result := range results {
			if result.Strategy == strategy {
				fmt.Printf("  %-12s: Cold: %s, Warm: %s\n", result.Repository, result.ColdTime, result.WarmTime)
			}
		}
	}
}
