package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"flarepie/internal/sim"
)

func main() {
	input := flag.String("input", "", "Path to burn sample log file")
	speed := flag.Float64("speed", 1.0, "Playback speed multiplier")
	printOnly := flag.Bool("print-only", false, "Print samples to STDOUT instead of writing to DB")
	runID := flag.String("run", "", "Replay only this run id")
	flag.Parse()

	if *input == "" {
		log.Fatal("input file required")
	}

	var writer sim.SampleWriter
	if *printOnly || os.Getenv("GREPTIMEDB_ENDPOINT") == "" {
		writer = sim.NewJSONStdoutWriter()
	} else {
		w, err := sim.NewGreptimeDBWriter(os.Getenv("GREPTIMEDB_ENDPOINT"), "public", os.Getenv("GREPTIMEDB_TABLE"), os.Getenv("GREPTIMEDB_SUMMARY_TABLE"))
		if err != nil {
			log.Fatalf("Failed to init GreptimeDB writer: %v", err)
		}
		writer = w
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	stats, err := sim.ReplayLogFile(ctx, *input, writer, sim.ReplayOptions{Speed: *speed, RunID: *runID})
	if err != nil {
		log.Fatalf("Replay failed: %v", err)
	}
	log.Printf("replayed %d samples and %d summaries from %d runs", stats.Samples, stats.Summaries, stats.Runs)
}
