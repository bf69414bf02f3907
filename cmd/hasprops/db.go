package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/reoring/hasprops/store"
)

// dbCmd manages documents in a SQLite store:
//
//	db -db PATH ls
//	db -db PATH put ID SCHEMA FILE
//	db -db PATH get [-preserve] [-o yaml|json] ID
//	db -db PATH rm ID
func dbCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("db", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var path string
	var verbose bool
	fs.StringVar(&path, "db", "hasprops.db", "database file")
	fs.BoolVar(&verbose, "v", false, "enable debug logs")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return 2
	}
	log := newLogger(stderr, verbose)
	st, err := store.Open(path)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer st.Close()
	ctx := context.Background()
	rest := fs.Args()[1:]

	switch fs.Arg(0) {
	case "ls":
		entries, err := st.List(ctx)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		for _, e := range entries {
			fmt.Fprintf(stdout, "%s\t%s\n", e.ID, e.Schema)
		}
		return 0

	case "put":
		if len(rest) != 3 {
			fmt.Fprintln(stderr, "usage: db put ID SCHEMA FILE")
			return 2
		}
		s, ok := lookup(rest[1], stderr)
		if !ok {
			return 1
		}
		inst, ok := load(s, rest[2], log, stderr)
		if !ok {
			return 1
		}
		if err := st.Save(ctx, rest[0], inst); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		log.Debug("saved", "id", rest[0], "schema", s.Name())
		return 0

	case "get":
		gfs := flag.NewFlagSet("db get", flag.ContinueOnError)
		gfs.SetOutput(stderr)
		var preserve bool
		var out string
		gfs.BoolVar(&preserve, "preserve", false, "omit properties that only hold their default")
		gfs.StringVar(&out, "o", "yaml", "output format: yaml or json")
		if err := gfs.Parse(rest); err != nil {
			return 2
		}
		if gfs.NArg() != 1 {
			gfs.Usage()
			return 2
		}
		inst, err := st.Load(ctx, gfs.Arg(0))
		if err != nil {
			report(stderr, gfs.Arg(0), err)
			return 1
		}
		return write(inst, "", out, preserve, stdout, stderr)

	case "rm":
		if len(rest) != 1 {
			fmt.Fprintln(stderr, "usage: db rm ID")
			return 2
		}
		if err := st.Delete(ctx, rest[0]); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				fmt.Fprintf(stderr, "%s: not found\n", rest[0])
				return 1
			}
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}
	fs.Usage()
	return 2
}
