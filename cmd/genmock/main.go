// Command genmock generates call-request fixtures for exercising the service
// over Kafka, along with the results the service is expected to produce. It
// runs every request through the real binding registry so the expected
// results match pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -calls-out data/mock/calls.json \
//	  -results-out data/mock/results.json \
//	  -n 200
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/couchcryptid/tempconv-service/internal/binding"
	"github.com/couchcryptid/tempconv-service/internal/callgen"
	"github.com/couchcryptid/tempconv-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

// processedAt is the fixed ProcessedAt stamped on every expected result.
var processedAt = time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("genmock", flag.ContinueOnError)
	callsOut := fs.String("calls-out", "", "output path for call request fixture")
	resultsOut := fs.String("results-out", "", "output path for expected result fixture")
	n := fs.Int("n", 100, "number of call requests to generate")
	seed := fs.Uint64("seed", 1, "random seed for reproducible fixtures")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *callsOut == "" || *resultsOut == "" {
		fs.Usage()
		return fmt.Errorf("missing required flags: -calls-out, -results-out")
	}
	if *n <= 0 {
		return fmt.Errorf("-n must be positive, got %d", *n)
	}

	// Set a fixed clock for reproducible ProcessedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(processedAt))
	defer domain.SetClock(nil)

	calls, err := callgen.Generate(*seed, *n)
	if err != nil {
		return err
	}
	results := callgen.Expect(binding.NewRegistry(binding.WithCountLimit(callgen.CountLimit)), calls)

	if err := writeJSON(*callsOut, calls); err != nil {
		return fmt.Errorf("writing calls fixture: %w", err)
	}
	log.Printf("wrote calls fixture: %s", *callsOut)

	if err := writeJSON(*resultsOut, results); err != nil {
		return fmt.Errorf("writing results fixture: %w", err)
	}
	log.Printf("wrote results fixture: %s", *resultsOut)

	printStats(results)
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}
func printStats(results []domain.CallResult) {
	byFunction := map[string]int{}
	rejected := 0
	for _, r := range results {
		byFunction[r.Function]++
		if r.Error != "" {
			rejected++
		}
	}

	names := make([]string, 0, len(byFunction))
	for name := range byFunction {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("\n%-20s %s\n", "FUNCTION", "CALLS")
	for _, name := range names {
		fmt.Printf("%-20s %d\n", name, byFunction[name])
	}
	fmt.Printf("\nrejected: %d of %d\n", rejected, len(results))
}
