// Command mockapi serves a synthetic metrics API and writes matching call
// exports, for running the dashboard without the real backend.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"ccdash/cmd/mockapi/engine"
)

func main() {
	addr := flag.String("addr", ":3000", "Listen address")
	seed := flag.Int64("seed", 1, "Random seed; the same seed yields the same data")
	days := flag.Int("days", 30, "Days of history to generate")
	agents := flag.Int("agents", 3, "Agents per team")
	noShortcuts := flag.Bool("no-shortcuts", false, "Answer 404 on the /ultimas-24h style endpoints")
	envelope := flag.Bool("envelope", false, "Wrap list answers in {status, message, data}")
	csvDir := flag.String("csv", "", "Write the call CSV exports to this directory")
	flag.Parse()

	ds := engine.Generate(engine.GeneratorConfig{
		Seed:          *seed,
		AgentsPerTeam: *agents,
		Days:          *days,
		Now:           time.Now(),
	})

	if *csvDir != "" {
		if err := engine.WriteCSV(*csvDir, ds, *seed); err != nil {
			fmt.Printf("Failed to write CSV exports: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote call exports to %s\n", *csvDir)
	}

	srv := engine.NewServer(ds, engine.Options{NoShortcuts: *noShortcuts, Envelope: *envelope})
	fmt.Printf("Serving %d agents over %d days on %s...\n", len(ds.Agents), *days, *addr)
	if err := http.ListenAndServe(*addr, srv.Handler()); err != nil {
		fmt.Printf("Server stopped: %v\n", err)
		os.Exit(1)
	}
}
