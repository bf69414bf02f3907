package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	j "github.com/goccy/go-json"
	"github.com/mattn/go-isatty"
	"github.com/sergi/go-diff/diffmatchpatch"
	"gopkg.in/yaml.v3"

	"github.com/reoring/hasprops"
	"github.com/reoring/hasprops/codec"
	_ "github.com/reoring/hasprops/node"
	_ "github.com/reoring/hasprops/plotdoc"
)

func main() {
	color.NoColor = os.Getenv("NO_COLOR") != "" || !isatty.IsTerminal(os.Stderr.Fd())
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

var (
	codeColor   = color.New(color.FgRed, color.Bold).SprintFunc()
	pathColor   = color.New(color.FgCyan).SprintFunc()
	addedColor  = color.New(color.FgGreen).SprintFunc()
	removeColor = color.New(color.FgRed).SprintFunc()
)

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}
	cmds := map[string]func([]string, io.Writer, io.Writer) int{
		"list":     listCmd,
		"describe": describeCmd,
		"check":    checkCmd,
		"fmt":      fmtCmd,
		"set":      setCmd,
		"patch":    patchCmd,
		"db":       dbCmd,
	}
	cmd, ok := cmds[args[0]]
	if !ok {
		usage(stderr)
		return 2
	}
	return cmd(args[1:], stdout, stderr)
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "hasprops CLI\n\nUsage:\n  hasprops list\n  hasprops describe [-json] SCHEMA\n  hasprops check [-v] SCHEMA FILE\n  hasprops fmt [-v] [-preserve] [-o yaml|json] SCHEMA FILE\n  hasprops set [-v] [-preserve] [-o yaml|json] SCHEMA FILE NAME=VALUE...\n  hasprops patch [-v] [-merge] [-preserve] [-o yaml|json] SCHEMA FILE PATCH\n  hasprops db -db PATH ls|put|get|rm ...\n\nNotes:\n  - FILE is read as JSON when it ends in .json, as YAML otherwise.\n  - VALUE is parsed as a YAML scalar or flow collection; null resets to nil.\n  - PATCH is an RFC 6902 JSON Patch, or an RFC 7386 merge patch with -merge.\n  - fmt -d prints a line diff against FILE instead of the formatted document.")
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func listCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	for _, name := range hasprops.Registered() {
		fmt.Fprintln(stdout, name)
	}
	return 0
}

func describeCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("describe", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var asJSON bool
	fs.BoolVar(&asJSON, "json", false, "print the JSON Schema projection")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	s, ok := lookup(fs.Arg(0), stderr)
	if !ok {
		return 1
	}
	if asJSON {
		js, err := s.JSONSchema()
		if err != nil {
			fmt.Fprintf(stderr, "describe: %v\n", err)
			return 1
		}
		out, err := j.MarshalIndent(js, "", "  ")
		if err != nil {
			fmt.Fprintf(stderr, "describe: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "%s\n", out)
		return 0
	}
	if p := s.Parent(); p != nil {
		fmt.Fprintf(stdout, "%s (extends %s)\n", s.Name(), p.Name())
	} else {
		fmt.Fprintln(stdout, s.Name())
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tDEFAULT\tDOC")
	for _, p := range s.Props() {
		info := p.Describe()
		def, _ := j.Marshal(info.Default)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", info.Name, info.Kind, def, info.Short)
	}
	_ = tw.Flush()
	return 0
}

func checkCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var verbose bool
	fs.BoolVar(&verbose, "v", false, "enable debug logs")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}
	log := newLogger(stderr, verbose)
	s, ok := lookup(fs.Arg(0), stderr)
	if !ok {
		return 1
	}
	if _, ok := load(s, fs.Arg(1), log, stderr); !ok {
		return 1
	}
	fmt.Fprintf(stdout, "%s: ok\n", fs.Arg(1))
	return 0
}

func fmtCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var verbose, preserve, diff bool
	var out string
	fs.BoolVar(&verbose, "v", false, "enable debug logs")
	fs.BoolVar(&preserve, "preserve", false, "omit properties that only hold their default")
	fs.BoolVar(&diff, "d", false, "print a diff against FILE instead of the result")
	fs.StringVar(&out, "o", "", "output format: yaml or json (default: the input format)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}
	log := newLogger(stderr, verbose)
	s, ok := lookup(fs.Arg(0), stderr)
	if !ok {
		return 1
	}
	inst, ok := load(s, fs.Arg(1), log, stderr)
	if !ok {
		return 1
	}
	if !diff {
		return write(inst, fs.Arg(1), out, preserve, stdout, stderr)
	}
	var formatted bytes.Buffer
	if code := write(inst, fs.Arg(1), out, preserve, &formatted, stderr); code != 0 {
		return code
	}
	orig, err := os.ReadFile(fs.Arg(1))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	printDiff(stdout, string(orig), formatted.String())
	return 0
}

func patchCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("patch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var verbose, preserve, merge bool
	var out string
	fs.BoolVar(&verbose, "v", false, "log every change")
	fs.BoolVar(&merge, "merge", false, "PATCH is a JSON merge patch")
	fs.BoolVar(&preserve, "preserve", false, "omit properties that only hold their default")
	fs.StringVar(&out, "o", "", "output format: yaml or json (default: the input format)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 3 {
		fs.Usage()
		return 2
	}
	log := newLogger(stderr, verbose)
	s, ok := lookup(fs.Arg(0), stderr)
	if !ok {
		return 1
	}
	patch, err := os.ReadFile(fs.Arg(2))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	inst, ok := load(s, fs.Arg(1), log, stderr)
	if !ok {
		return 1
	}
	inst.Observe(hasprops.LogObserver(log))
	apply := codec.ApplyPatch
	if merge {
		apply = codec.ApplyMergePatch
	}
	if err := apply(inst, patch); err != nil {
		report(stderr, fs.Arg(1), err)
		return 1
	}
	return write(inst, fs.Arg(1), out, preserve, stdout, stderr)
}

// printDiff writes a line diff of a against b, one prefixed line per change.
func printDiff(w io.Writer, a, b string) {
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)
	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			line = strings.TrimSuffix(line, "\n")
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				fmt.Fprintln(w, removeColor("-"+line))
			case diffmatchpatch.DiffInsert:
				fmt.Fprintln(w, addedColor("+"+line))
			default:
				fmt.Fprintln(w, " "+line)
			}
		}
	}
}

func setCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("set", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var verbose, preserve bool
	var out string
	fs.BoolVar(&verbose, "v", false, "log every change")
	fs.BoolVar(&preserve, "preserve", false, "omit properties that only hold their default")
	fs.StringVar(&out, "o", "", "output format: yaml or json (default: the input format)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 3 {
		fs.Usage()
		return 2
	}
	log := newLogger(stderr, verbose)
	s, ok := lookup(fs.Arg(0), stderr)
	if !ok {
		return 1
	}
	vals, err := parseAssignments(fs.Args()[2:])
	if err != nil {
		fmt.Fprintf(stderr, "set: %v\n", err)
		return 2
	}
	inst, ok := load(s, fs.Arg(1), log, stderr)
	if !ok {
		return 1
	}
	inst.Observe(hasprops.LogObserver(log))
	if err := inst.Update(vals); err != nil {
		report(stderr, fs.Arg(1), err)
		return 1
	}
	return write(inst, fs.Arg(1), out, preserve, stdout, stderr)
}

func lookup(name string, stderr io.Writer) (*hasprops.Schema, bool) {
	s, ok := hasprops.Lookup(name)
	if !ok {
		fmt.Fprintf(stderr, "unknown schema %q (known: %s)\n", name, strings.Join(hasprops.Registered(), ", "))
	}
	return s, ok
}

// load decodes path into a new instance of s; issues are reported to w.
func load(s *hasprops.Schema, path string, log *slog.Logger, w io.Writer) (*hasprops.Instance, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(w, "%v\n", err)
		return nil, false
	}
	f := codec.FormatFromPath(path)
	log.LogAttrs(context.Background(), slog.LevelDebug, "decoding", slog.String("file", path), slog.String("schema", s.Name()), slog.String("format", f.String()))
	inst, err := codec.Unmarshal(f, s, data)
	if err != nil {
		report(w, path, err)
		return nil, false
	}
	return inst, true
}

func write(inst *hasprops.Instance, path, format string, preserve bool, stdout, stderr io.Writer) int {
	f := codec.FormatFromPath(path)
	if format != "" {
		var err error
		if f, err = codec.ParseFormat(format); err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
	}
	opts := []codec.Option{codec.Indent("  ")}
	if preserve {
		opts = append(opts, codec.Preserve())
	}
	data, err := codec.Marshal(f, inst, opts...)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	_, _ = stdout.Write(data)
	return 0
}

func report(w io.Writer, path string, err error) {
	iss, ok := hasprops.AsIssues(err)
	if !ok {
		fmt.Fprintf(w, "%s: %v\n", path, err)
		return
	}
	for _, is := range iss {
		line := fmt.Sprintf("%s:%s: %s: %s", path, pathColor(is.Path), codeColor(is.Code), is.Message)
		if is.Hint != "" {
			line += " (" + is.Hint + ")"
		}
		fmt.Fprintln(w, line)
		for _, c := range is.Causes {
			fmt.Fprintf(w, "    %s: %s\n", c.Code, c.Hint)
		}
	}
}

// parseAssignments turns NAME=VALUE arguments into Values. VALUE is read as
// YAML so that numbers, booleans, null and flow mappings keep their type.
func parseAssignments(args []string) (hasprops.Values, error) {
	vals := hasprops.Values{}
	for _, a := range args {
		name, raw, ok := strings.Cut(a, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("expected NAME=VALUE, got %q", a)
		}
		var v any = raw
		if raw != "" {
			var parsed any
			if err := yaml.Unmarshal([]byte(raw), &parsed); err == nil {
				v = parsed
			}
		}
		vals[name] = v
	}
	return vals, nil
}
