package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"flarepie/internal/config"
	"flarepie/internal/sim"
)

// Output formats accepted by --output.
const (
	formatAuto  = "auto"
	formatJSON  = "json"
	formatColor = "color"
	formatCSV   = "csv"
	formatTUI   = "tui"
)

// resolveFormat picks color for terminals and JSON otherwise when format is auto.
func resolveFormat(format string, isTTY bool) (string, error) {
	switch format {
	case "", formatAuto:
		if isTTY {
			return formatColor, nil
		}
		return formatJSON, nil
	case formatJSON, formatColor, formatCSV, formatTUI:
		return format, nil
	}
	return "", fmt.Errorf("unknown output format %q (want auto, json, color, csv or tui)", format)
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// newWriters sets up the sample writer based on flags and env vars.
// It returns the writer and a cleanup function to close any resources.
func newWriters(cfg *config.Engine, format string, printOnly bool, logFile, database string) (sim.SampleWriter, func(), error) {
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	writer, closer, err := baseWriter(cfg, format, printOnly, database)
	if err != nil {
		return nil, nil, err
	}
	if closer != nil {
		closers = append(closers, closer)
	}
	if logFile == "" {
		return writer, cleanup, nil
	}

	fw, err := sim.NewFileWriter(logFile, logFile+".summary")
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	closers = append(closers, fw.Close)
	return sim.NewMultiWriter(writer, fw), cleanup, nil
}

// baseWriter chooses GreptimeDB when GREPTIMEDB_ENDPOINT is set, otherwise a
// STDOUT writer in the requested format.
func baseWriter(cfg *config.Engine, format string, printOnly bool, database string) (sim.SampleWriter, func() error, error) {
	if endpoint := os.Getenv("GREPTIMEDB_ENDPOINT"); !printOnly && endpoint != "" {
		w, err := sim.NewGreptimeDBWriter(endpoint, database, os.Getenv("GREPTIMEDB_TABLE"), os.Getenv("GREPTIMEDB_SUMMARY_TABLE"))
		if err != nil {
			return nil, nil, err
		}
		return w, nil, nil
	}

	f, err := resolveFormat(format, stdoutIsTerminal())
	if err != nil {
		return nil, nil, err
	}
	switch f {
	case formatColor:
		return sim.NewColorStdoutWriter(cfg), nil, nil
	case formatCSV:
		return sim.NewCSVWriter(os.Stdout), nil, nil
	case formatTUI:
		w := sim.NewTUIWriter(cfg)
		return w, w.Close, nil
	}
	return sim.NewJSONStdoutWriter(), nil, nil
}
