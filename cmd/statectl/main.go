package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
)

type command struct {
	usage string
	run   func(ctx context.Context, args []string, stdout io.Writer) error
}

var commands = map[string]command{
	"validate": {"validate [-codec name] <file>", runValidate},
	"convert":  {"convert -to <codec> [-codec name] <file>", runConvert},
	"query":    {"query -expr <jmespath> [-codec name] <file>", runQuery},
	"put":      {"put [-server url] [-run-id id] [-codec name] <file>", runPut},
	"get":      {"get [-server url] [-to codec] <run-id>", runGet},
	"delete":   {"delete [-server url] <run-id>", runDelete},
	"list":     {"list [-server url] [-filter expr]", runList},
	"version":  {"version", runVersion},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "statectl: %v\n", err)
		if errors.Is(err, errUsage) {
			usage(os.Stderr)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q", args[0])
	}
	return cmd.run(ctx, args[1:], stdout)
}

func usage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)

	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = "  statectl " + commands[name].usage
	}
	fmt.Fprintf(w, "Usage:\n%s\n", strings.Join(lines, "\n"))
}
