package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailored-agentic-units/statewire/api"
	"github.com/tailored-agentic-units/statewire/codec"
	"github.com/tailored-agentic-units/statewire/query"
	"github.com/tailored-agentic-units/statewire/serialization"
	"github.com/tailored-agentic-units/statewire/version"
)

const defaultServer = "http://localhost:8080"

var errUsage = errors.New("missing arguments")

// serverURL defaults from STATEWIRE_SERVER_URL so scripts can skip -server.
func serverURL() string {
	if u := os.Getenv("STATEWIRE_SERVER_URL"); u != "" {
		return u
	}
	return defaultServer
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parse parses args and requires exactly n positional arguments.
func parse(fs *flag.FlagSet, args []string, n int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != n {
		return nil, errUsage
	}
	return fs.Args(), nil
}

// readDocument decodes a file with the named codec, or with the codec its
// extension names when name is empty. Unknown extensions read as JSON.
func readDocument(path, name string) (serialization.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = strings.TrimPrefix(filepath.Ext(path), ".")
		if _, err := codec.Lookup(name); err != nil {
			name = codec.NameJSON
		}
	}
	c, err := codec.Lookup(name)
	if err != nil {
		return nil, err
	}
	return c.Unmarshal(data)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runValidate(_ context.Context, args []string, stdout io.Writer) error {
	fs := newFlags("validate")
	codecName := fs.String("codec", "", "codec of the input file")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}

	doc, err := readDocument(rest[0], *codecName)
	if err != nil {
		return err
	}
	st, err := serialization.Load(doc)
	if err != nil {
		return err
	}

	lineage := []string{}
	for k := st.Kind(); k.Valid(); k = k.Parent() {
		lineage = append(lineage, string(k))
	}
	_, err = fmt.Fprintf(stdout, "ok %s (%s)\n", st.Kind(), strings.Join(lineage, " < "))
	return err
}

func runConvert(_ context.Context, args []string, stdout io.Writer) error {
	fs := newFlags("convert")
	to := fs.String("to", codec.NameJSON, "output codec")
	codecName := fs.String("codec", "", "codec of the input file")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}

	doc, err := readDocument(rest[0], *codecName)
	if err != nil {
		return err
	}
	st, err := serialization.Load(doc)
	if err != nil {
		return err
	}
	canonical, err := serialization.Dump(st)
	if err != nil {
		return err
	}

	out, err := codec.Lookup(*to)
	if err != nil {
		return err
	}
	data, err := out.Marshal(canonical)
	if err != nil {
		return err
	}
	_, err = stdout.Write(data)
	return err
}

func runQuery(_ context.Context, args []string, stdout io.Writer) error {
	fs := newFlags("query")
	expr := fs.String("expr", "", "JMESPath expression")
	codecName := fs.String("codec", "", "codec of the input file")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	if *expr == "" {
		return errUsage
	}

	doc, err := readDocument(rest[0], *codecName)
	if err != nil {
		return err
	}
	if _, err := serialization.Load(doc); err != nil {
		return err
	}
	result, err := query.Select(doc, *expr)
	if err != nil {
		return err
	}
	return writeJSON(stdout, result)
}

func newClient(server string) *api.Client {
	return api.NewClient(http.DefaultClient, server, nil)
}

func runPut(ctx context.Context, args []string, stdout io.Writer) error {
	fs := newFlags("put")
	server := fs.String("server", serverURL(), "server base URL")
	runID := fs.String("run-id", "", "run ID; generated by the server when empty")
	codecName := fs.String("codec", "", "codec of the input file")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}

	doc, err := readDocument(rest[0], *codecName)
	if err != nil {
		return err
	}
	id, err := newClient(*server).Put(ctx, *runID, doc)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, id)
	return err
}

func runGet(ctx context.Context, args []string, stdout io.Writer) error {
	fs := newFlags("get")
	server := fs.String("server", serverURL(), "server base URL")
	to := fs.String("to", "", "encode with this codec instead of printing JSON")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}

	doc, err := newClient(*server).Get(ctx, rest[0])
	if err != nil {
		return err
	}
	if *to == "" {
		return writeJSON(stdout, doc.Map())
	}

	c, err := codec.Lookup(*to)
	if err != nil {
		return err
	}
	data, err := c.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = stdout.Write(data)
	return err
}

func runDelete(ctx context.Context, args []string, _ io.Writer) error {
	fs := newFlags("delete")
	server := fs.String("server", serverURL(), "server base URL")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	return newClient(*server).Delete(ctx, rest[0])
}

func runList(ctx context.Context, args []string, stdout io.Writer) error {
	fs := newFlags("list")
	server := fs.String("server", serverURL(), "server base URL")
	filterExpr := fs.String("filter", "", "expr-lang predicate over each stored state")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	var filter *query.Filter
	if *filterExpr != "" {
		f, err := query.NewFilter(*filterExpr)
		if err != nil {
			return err
		}
		filter = f
	}

	client := newClient(*server)
	ids, err := client.List(ctx)
	if err != nil {
		return err
	}

	for _, id := range ids {
		if filter != nil {
			doc, err := client.Get(ctx, id)
			if err != nil {
				return fmt.Errorf("%s: %w", id, err)
			}
			ok, err := filter.Match(doc)
			if err != nil {
				return fmt.Errorf("%s: %w", id, err)
			}
			if !ok {
				continue
			}
		}
		if _, err := fmt.Fprintln(stdout, id); err != nil {
			return err
		}
	}
	return nil
}

func runVersion(_ context.Context, _ []string, stdout io.Writer) error {
	_, err := fmt.Fprintf(stdout, "statectl %s\n", version.Version())
	return err
}
