// Command benchmark runs the frame benchmarks and saves their output
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

var (
	suite      = flag.String("suite", "columnar", "Benchmark suite to run (columnar)")
	outputDir  = flag.String("output", "benchmark-results", "Output directory for results")
	iterations = flag.Int("count", 3, "Number of iterations")
	duration   = flag.Duration("duration", 2*time.Second, "Benchmark duration")
	verbose    = flag.Bool("v", false, "Verbose output")
)

var suites = map[string]struct {
	pkg        string
	benchmarks []string
}{
	"columnar": {
		pkg: "./pkg/columnar",
		benchmarks: []string{
			"BenchmarkReindex",
			"BenchmarkRetype",
			"BenchmarkLoadAlignColumn",
		},
	},
}

func main() {
	flag.Parse()

	s, ok := suites[*suite]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown suite: %s\n", *suite)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	timestamp := time.Now().Format("20060102-150405")
	fmt.Printf("=== %s benchmarks ===\n", *suite)
	fmt.Printf("Timestamp: %s\n\n", timestamp)

	outputFile := filepath.Join(*outputDir, fmt.Sprintf("%s_%s.txt", *suite, timestamp))
	failed := 0
	for _, benchmark := range s.benchmarks {
		fmt.Printf("Running %s...\n", benchmark)

		args := []string{
			"test",
			"-run", "^$",
			"-bench", "^" + benchmark + "$",
			"-benchmem",
			"-benchtime", duration.String(),
			"-count", fmt.Sprintf("%d", *iterations),
			s.pkg,
		}
		if *verbose {
			args = append(args, "-v")
		}

		cmd := exec.Command("go", args...) //nolint:gosec // Controlled args from predefined benchmarks

		output, err := cmd.CombinedOutput()
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "Benchmark failed: %v\n", err)
			fmt.Fprintf(os.Stderr, "Output: %s\n", output)
			continue
		}

		if err := appendResult(outputFile, benchmark, output); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to save results: %v\n", err)
		}

		printBenchmarkSummary(string(output))
	}

	fmt.Printf("\nBenchmark results saved to: %s\n", outputFile)
	if failed > 0 {
		os.Exit(1)
	}
}

func appendResult(path, benchmark string, output []byte) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f, "\n=== %s ===\n", benchmark); err != nil {
		_ = f.Close()
		return err
	}
	if _, err := f.Write(output); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func printBenchmarkSummary(output string) {
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, "ns/op") ||
			strings.Contains(line, "bytes/row") ||
			strings.Contains(line, "FAIL") {
			fmt.Println("  ", strings.TrimSpace(line))
		}
	}
}
