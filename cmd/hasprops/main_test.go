package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestList(t *testing.T) {
	code, out, _ := runCLI(t, "list")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	for _, name := range []string{"Axis", "Dataset", "LineStyle", "NodeInfo"} {
		if !strings.Contains(out, name+"\n") {
			t.Fatalf("list output %q missing %s", out, name)
		}
	}
}

func TestDescribe(t *testing.T) {
	code, out, _ := runCLI(t, "describe", "Dataset")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	if !strings.HasPrefix(out, "Dataset (extends NodeInfo)\n") || !strings.Contains(out, "columns") || !strings.Contains(out, "collection") {
		t.Fatalf("unexpected describe output:\n%s", out)
	}
	code, out, _ = runCLI(t, "describe", "-json", "Axis")
	if code != 0 || !strings.Contains(out, `"propertyOrder"`) || !strings.Contains(out, `"anyOf"`) {
		t.Fatalf("unexpected json output (%d):\n%s", code, out)
	}
	if code, _, errOut := runCLI(t, "describe", "Nope"); code != 1 || !strings.Contains(errOut, "unknown schema") {
		t.Fatalf("expected unknown schema error, got %d %q", code, errOut)
	}
}

func TestCheck(t *testing.T) {
	good := writeFile(t, "axis.yaml", "label: Wavelength\nmin: 400\nscale: linear\n")
	if code, out, _ := runCLI(t, "check", "Axis", good); code != 0 || !strings.HasSuffix(out, ": ok\n") {
		t.Fatalf("check good: %d %q", code, out)
	}
	bad := writeFile(t, "axis.json", `{"ticks": 1, "scale": "cubic", "color": "red"}`)
	code, out, errOut := runCLI(t, "check", "Axis", bad)
	if code != 1 || out != "" {
		t.Fatalf("expected exit 1 and empty stdout, got %d %q", code, out)
	}
	for _, want := range []string{":/color: unknown_prop", ":/scale: constraint_violation", ":/ticks: constraint_violation"} {
		if !strings.Contains(errOut, want) {
			t.Fatalf("report %q missing %q", errOut, want)
		}
	}
}

func TestFmt(t *testing.T) {
	in := writeFile(t, "style.yaml", "width: \"3\"\nvisible: no\n")
	code, out, errOut := runCLI(t, "fmt", "-preserve", "-o", "json", "LineStyle", in)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	want := "{\n  \"width\": 3,\n  \"visible\": false\n}\n"
	if out != want {
		t.Fatalf("got %q want %q", out, want)
	}
	code, out, _ = runCLI(t, "fmt", "LineStyle", in)
	if code != 0 || !strings.HasPrefix(out, "color: ") || !strings.Contains(out, "#1f77b4") || !strings.Contains(out, "dash: solid\n") {
		t.Fatalf("full yaml output (%d):\n%s", code, out)
	}
	if code, _, _ := runCLI(t, "fmt", "-o", "toml", "LineStyle", in); code != 2 {
		t.Fatalf("expected exit 2 for unknown format, got %d", code)
	}
}

func TestSet(t *testing.T) {
	in := writeFile(t, "ds.yaml", "label: raw\n")
	code, out, errOut := runCLI(t, "set", "-v", "-preserve", "Dataset", in, "source=data.csv", "columns={x: 0, y: 1}", "skip=2")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	want := "label: raw\nsource: data.csv\ncolumns:\n    x: 0\n    \"y\": 1\nskip: 2\n"
	if out != want {
		t.Fatalf("got:\n%s\nwant:\n%s", out, want)
	}
	if !strings.Contains(errOut, "prop changed") || !strings.Contains(errOut, "prop=skip") {
		t.Fatalf("expected change logs, got %q", errOut)
	}

	code, out, errOut = runCLI(t, "set", "Dataset", in, "source=x", "skip=-1")
	if code != 1 || out != "" || !strings.Contains(errOut, "/skip: out_of_range") {
		t.Fatalf("expected all-or-nothing failure, got %d %q %q", code, out, errOut)
	}
	if code, _, _ := runCLI(t, "set", "Dataset", in, "novalue"); code != 2 {
		t.Fatalf("expected usage error, got %d", code)
	}
}

func TestUsage(t *testing.T) {
	if code, _, errOut := runCLI(t); code != 2 || !strings.Contains(errOut, "Usage") {
		t.Fatalf("expected usage, got %d", code)
	}
	if code, _, _ := runCLI(t, "bogus"); code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
}

func TestFmtDiff(t *testing.T) {
	in := writeFile(t, "style.yaml", "width: \"3\"\nvisible: no\n")
	code, out, errOut := runCLI(t, "fmt", "-d", "-preserve", "LineStyle", in)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	want := "-width: \"3\"\n-visible: no\n+width: 3\n+visible: false\n"
	if out != want {
		t.Fatalf("got:\n%s\nwant:\n%s", out, want)
	}
}

func TestPatch(t *testing.T) {
	in := writeFile(t, "axis.json", `{"label": "x", "ticks": 4}`)
	patch := writeFile(t, "p.json", `[{"op": "replace", "path": "/ticks", "value": 10}, {"op": "add", "path": "/grid", "value": true}]`)
	code, out, errOut := runCLI(t, "patch", "-preserve", "Axis", in, patch)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	want := "{\n  \"label\": \"x\",\n  \"ticks\": 10,\n  \"grid\": true\n}\n"
	if out != want {
		t.Fatalf("got %q want %q", out, want)
	}

	merge := writeFile(t, "m.json", `{"ticks": 1}`)
	code, out, errOut = runCLI(t, "patch", "-merge", "Axis", in, merge)
	if code != 1 || out != "" || !strings.Contains(errOut, "/ticks: constraint_violation") {
		t.Fatalf("expected rejected merge patch, got %d %q %q", code, out, errOut)
	}
}

func TestDB(t *testing.T) {
	db := filepath.Join(t.TempDir(), "docs.db")
	in := writeFile(t, "style.yaml", "color: \"#ff0000\"\n")
	if code, _, errOut := runCLI(t, "db", "-db", db, "put", "red", "LineStyle", in); code != 0 {
		t.Fatalf("put: %d %s", code, errOut)
	}
	code, out, _ := runCLI(t, "db", "-db", db, "ls")
	if code != 0 || out != "red\tLineStyle\n" {
		t.Fatalf("ls: %d %q", code, out)
	}
	code, out, _ = runCLI(t, "db", "-db", db, "get", "-preserve", "-o", "json", "red")
	if code != 0 || out != "{\n  \"color\": \"#ff0000\"\n}\n" {
		t.Fatalf("get: %d %q", code, out)
	}
	if code, _, _ := runCLI(t, "db", "-db", db, "rm", "red"); code != 0 {
		t.Fatalf("rm: %d", code)
	}
	if code, _, errOut := runCLI(t, "db", "-db", db, "rm", "red"); code != 1 || !strings.Contains(errOut, "not found") {
		t.Fatalf("second rm: %d %q", code, errOut)
	}
	if code, _, _ := runCLI(t, "db", "-db", db, "frob"); code != 2 {
		t.Fatalf("unknown db action: %d", code)
	}
}
