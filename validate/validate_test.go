package validate_test

import (
	"encoding/json"
	"math"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/hasprops"
	"github.com/reoring/hasprops/validate"
)

func expectCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil error", code)
	}
	iss, ok := hasprops.AsIssues(err)
	if !ok {
		t.Fatalf("expected Issues error, got %v", err)
	}
	if len(iss) == 0 || iss[0].Code != code {
		t.Fatalf("expected %s, got %v", code, iss)
	}
}

func TestRange_Int_CoercesAndBounds(t *testing.T) {
	r := validate.Range(0, 10)

	cases := []struct {
		in   any
		want int
	}{
		{7, 7},
		{int8(3), 3},
		{uint16(10), 10},
		{float64(4), 4},
		{"  5 ", 5},
		{json.Number("9"), 9},
		{[]byte("0"), 0},
	}
	for _, c := range cases {
		v, err := r.Validate(c.in)
		if err != nil {
			t.Fatalf("Validate(%#v): %v", c.in, err)
		}
		if v != c.want {
			t.Fatalf("Validate(%#v) = %#v, want %d", c.in, v, c.want)
		}
	}

	_, err := r.Validate(15)
	expectCode(t, err, hasprops.CodeOutOfRange)
	iss, _ := hasprops.AsIssues(err)
	if iss[0].Params["min"] != 0 || iss[0].Params["max"] != 10 || iss[0].Params["got"] != 15 {
		t.Fatalf("unexpected params: %#v", iss[0].Params)
	}

	_, err = r.Validate(-1)
	expectCode(t, err, hasprops.CodeOutOfRange)

	_, err = r.Validate(2.5)
	expectCode(t, err, hasprops.CodeCoercionFailed)

	_, err = r.Validate("abc")
	expectCode(t, err, hasprops.CodeCoercionFailed)

	_, err = r.Validate(true)
	expectCode(t, err, hasprops.CodeTypeMismatch)

	_, err = r.Validate(nil)
	expectCode(t, err, hasprops.CodeTypeMismatch)
}

func TestRange_Float(t *testing.T) {
	r := validate.Range(-1.5, 1.5)
	v, err := r.Validate("0.25")
	if err != nil || v != 0.25 {
		t.Fatalf("got v=%v err=%v", v, err)
	}
	v, err = r.Validate(1)
	if err != nil || v != 1.0 {
		t.Fatalf("int input must become float64, got %#v err=%v", v, err)
	}
	_, err = r.Validate(math.NaN())
	expectCode(t, err, hasprops.CodeCoercionFailed)
	_, err = r.Validate(math.Inf(1))
	expectCode(t, err, hasprops.CodeOutOfRange)

	min, max := r.Bounds()
	if min != -1.5 || max != 1.5 {
		t.Fatalf("bounds = %v %v", min, max)
	}
}

func TestRange_LargeUnsignedIsOutOfRange(t *testing.T) {
	r := validate.Range[int64](0, math.MaxInt64)
	_, err := r.Validate(uint64(math.MaxUint64))
	expectCode(t, err, hasprops.CodeOutOfRange)
}

func TestRange_InvalidBoundsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for min > max")
		}
	}()
	validate.Range(5, 1)
}

func TestEnum(t *testing.T) {
	e := validate.Enum("linear", "log", "linear")
	if diff := cmp.Diff([]string{"linear", "log"}, e.Choices()); diff != "" {
		t.Fatalf("choices mismatch (-want +got):\n%s", diff)
	}
	v, err := e.Validate([]byte("log"))
	if err != nil || v != "log" {
		t.Fatalf("got v=%v err=%v", v, err)
	}
	_, err = e.Validate("sqrt")
	expectCode(t, err, hasprops.CodeConstraint)
	_, err = e.Validate(false)
	expectCode(t, err, hasprops.CodeTypeMismatch)
}

type colour struct{ name string }

func (c colour) String() string { return c.name }

func TestText(t *testing.T) {
	tx := validate.Text()
	cases := []struct {
		in   any
		want string
	}{
		{"plain", "plain"},
		{[]byte("bytes"), "bytes"},
		{colour{"red"}, "red"},
		{&url.URL{Scheme: "https", Host: "example.org"}, "https://example.org"},
		{42, "42"},
		{1.5, "1.5"},
		{json.Number("3.25"), "3.25"},
		// NFD e + combining acute becomes NFC
		{"e\u0301", "\u00e9"},
	}
	for _, c := range cases {
		v, err := tx.Validate(c.in)
		if err != nil {
			t.Fatalf("Validate(%#v): %v", c.in, err)
		}
		if v != c.want {
			t.Fatalf("Validate(%#v) = %q, want %q", c.in, v, c.want)
		}
	}
	_, err := tx.Validate(nil)
	expectCode(t, err, hasprops.CodeTypeMismatch)
	_, err = tx.Validate(true)
	expectCode(t, err, hasprops.CodeTypeMismatch)
	_, err = tx.Validate((*url.URL)(nil))
	expectCode(t, err, hasprops.CodeTypeMismatch)
	_, err = tx.Validate(map[string]any{})
	expectCode(t, err, hasprops.CodeTypeMismatch)
	_, err = tx.Validate(string([]byte{0xff, 0xfe}))
	expectCode(t, err, hasprops.CodeCoercionFailed)
}

func TestText_LengthBoundsAreCopies(t *testing.T) {
	base := validate.Text()
	short := base.MaxLen(3)
	if _, err := base.Validate("longer"); err != nil {
		t.Fatalf("MaxLen must not mutate the receiver: %v", err)
	}
	_, err := short.Validate("longer")
	expectCode(t, err, hasprops.CodeConstraint)
	if v, err := short.Validate("\u00e4\u00f6\u00fc"); err != nil || v != "\u00e4\u00f6\u00fc" {
		t.Fatalf("rune count, not bytes: v=%v err=%v", v, err)
	}
	_, err = base.MinLen(1).Validate("")
	expectCode(t, err, hasprops.CodeConstraint)
}

func TestBool(t *testing.T) {
	b := validate.Bool()
	truthy := []any{true, "true", " YES ", "on", "1", 1, uint8(1), []byte("True")}
	for _, in := range truthy {
		v, err := b.Validate(in)
		if err != nil || v != true {
			t.Fatalf("Validate(%#v) = %v, %v", in, v, err)
		}
	}
	falsy := []any{false, "false", "no", "Off", "0", 0}
	for _, in := range falsy {
		v, err := b.Validate(in)
		if err != nil || v != false {
			t.Fatalf("Validate(%#v) = %v, %v", in, v, err)
		}
	}
	_, err := b.Validate("maybe")
	expectCode(t, err, hasprops.CodeCoercionFailed)
	_, err = b.Validate(2)
	expectCode(t, err, hasprops.CodeCoercionFailed)
	_, err = b.Validate(1.0)
	expectCode(t, err, hasprops.CodeTypeMismatch)
	_, err = b.Validate(nil)
	expectCode(t, err, hasprops.CodeTypeMismatch)
}

func TestMap_TextKeysAndValues(t *testing.T) {
	m := validate.Map(validate.Text(), validate.Text())
	v, err := m.Validate(map[string]string{"unit": "mm", "source": "scan"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := map[string]any{"unit": "mm", "source": "scan"}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	// integer keys coerce to text keys; values are coerced too
	v, err = m.Validate(map[int]any{1: 2})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"1": "2"}, v); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	_, err = m.Validate([]string{"x"})
	expectCode(t, err, hasprops.CodeTypeMismatch)
}

func TestMap_ChildIssuesAreRebasedAndSorted(t *testing.T) {
	m := validate.Map(nil, validate.Range(0, 1))
	_, err := m.Validate(map[string]any{"b": 5, "a": "x", "ok": 1})
	iss, ok := hasprops.AsIssues(err)
	if !ok || len(iss) != 2 {
		t.Fatalf("expected two issues, got %v", err)
	}
	got := []string{iss[0].Path + " " + iss[0].Code, iss[1].Path + " " + iss[1].Code}
	want := []string{"/a coercion_failed", "/b out_of_range"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestMap_DuplicateKeyAfterCoercion(t *testing.T) {
	m := validate.Map(validate.Text(), nil)
	_, err := m.Validate(map[any]any{1: "a", "1": "b"})
	expectCode(t, err, hasprops.CodeConstraint)
}

func TestMap_NonTextKeyValidator(t *testing.T) {
	m := validate.Map(validate.Range(0, 9), nil)
	_, err := m.Validate(map[string]any{"3": true})
	expectCode(t, err, hasprops.CodeTypeMismatch)
}

func TestMap_OutputDoesNotAlias(t *testing.T) {
	m := validate.Map(nil, nil)
	in := map[string]any{"k": "v"}
	out, err := m.Validate(in)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	out.(map[string]any)["k"] = "changed"
	if in["k"] != "v" {
		t.Fatalf("output aliases input")
	}
}

func TestMap_UntypedValuesAreCopied(t *testing.T) {
	s := hasprops.Define("Bag").Prop("m", validate.Map(nil, nil)).Default(map[string]any{}).MustBuild()
	inst := hasprops.MustNew(s, nil)
	nums := []int{1, 2}
	if err := inst.Set("m", map[string]any{"k": nums, "tags": map[string]string{"a": "x"}}); err != nil {
		t.Fatalf("set: %v", err)
	}
	nums[0] = 99
	got := inst.MustGet("m").(map[string]any)
	got["k"].([]any)[1] = 42
	got["tags"].(map[string]any)["a"] = "changed"

	want := map[string]any{"k": []any{1, 2}, "tags": map[string]any{"a": "x"}}
	if diff := cmp.Diff(want, inst.MustGet("m")); diff != "" {
		t.Fatalf("stored value mutated outside Set (-want +got):\n%s", diff)
	}
}

func TestNull(t *testing.T) {
	n := validate.Null()
	if v, err := n.Validate(nil); err != nil || v != nil {
		t.Fatalf("got v=%v err=%v", v, err)
	}
	_, err := n.Validate(0)
	expectCode(t, err, hasprops.CodeTypeMismatch)
}

func TestAnyOf_RangeOrNull(t *testing.T) {
	c := validate.AnyOf(validate.Range(0, 10), validate.Null())

	if v, err := c.Validate(5); err != nil || v != 5 {
		t.Fatalf("5: v=%v err=%v", v, err)
	}
	if v, err := c.Validate(nil); err != nil || v != nil {
		t.Fatalf("null: v=%v err=%v", v, err)
	}

	for _, in := range []any{15, "abc"} {
		_, err := c.Validate(in)
		expectCode(t, err, hasprops.CodeCompositeFailed)
		iss, _ := hasprops.AsIssues(err)
		if len(iss[0].Causes) != 2 {
			t.Fatalf("expected one cause per alternative, got %v", iss[0].Causes)
		}
	}

	_, err := c.Validate(15)
	iss, _ := hasprops.AsIssues(err)
	codes := []string{iss[0].Causes[0].Code, iss[0].Causes[1].Code}
	if diff := cmp.Diff([]string{hasprops.CodeOutOfRange, hasprops.CodeTypeMismatch}, codes); diff != "" {
		t.Fatalf("cause codes (-want +got):\n%s", diff)
	}
}

func TestAnyOf_FirstAcceptingChildWins(t *testing.T) {
	numFirst := validate.AnyOf(validate.Range(0, 10), validate.Text())
	textFirst := validate.AnyOf(validate.Text(), validate.Range(0, 10))

	if v, _ := numFirst.Validate("5"); v != 5 {
		t.Fatalf("expected number 5, got %#v", v)
	}
	if v, _ := textFirst.Validate(5); v != "5" {
		t.Fatalf("expected text \"5\", got %#v", v)
	}
}

func TestAnyOf_Empty(t *testing.T) {
	_, err := validate.AnyOf().Validate(1)
	expectCode(t, err, hasprops.CodeCompositeFailed)
}

func TestExpr(t *testing.T) {
	even := validate.MustExpr(validate.Range(0, 100), "value % 2 == 0")
	if v, err := even.Validate("4"); err != nil || v != 4 {
		t.Fatalf("v=%v err=%v", v, err)
	}
	_, err := even.Validate(3)
	expectCode(t, err, hasprops.CodeConstraint)
	// the inner stage still reports its own code
	_, err = even.Validate(200)
	expectCode(t, err, hasprops.CodeOutOfRange)

	notBool := validate.MustExpr(validate.Text(), "value + \"!\"")
	_, err = notBool.Validate("x")
	expectCode(t, err, hasprops.CodeConstraint)

	if _, err := validate.Expr(validate.Text(), "(value"); err == nil {
		t.Fatalf("expected compile error")
	}
	if _, err := validate.Expr(validate.Text(), "valeu != \"\""); err == nil {
		t.Fatalf("expected unknown identifier to fail at compile time")
	}
}

func TestIdempotence(t *testing.T) {
	cases := []struct {
		name string
		v    hasprops.Validator
		in   any
	}{
		{"range", validate.Range(0, 10), "7"},
		{"float", validate.Range(0.0, 1.0), json.Number("0.5")},
		{"enum", validate.Enum("a", "b"), []byte("a")},
		{"text", validate.Text(), "e\u0301"},
		{"bool", validate.Bool(), "yes"},
		{"map", validate.Map(nil, validate.Range(0, 5)), map[string]any{"x": "3"}},
		{"null", validate.Null(), nil},
		{"anyof", validate.AnyOf(validate.Range(0, 10), validate.Text()), "12"},
		{"expr", validate.MustExpr(validate.Text(), "len(value) > 0"), 12},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			once, err := c.v.Validate(c.in)
			if err != nil {
				t.Fatalf("first pass: %v", err)
			}
			twice, err := c.v.Validate(once)
			if err != nil {
				t.Fatalf("second pass: %v", err)
			}
			if diff := cmp.Diff(once, twice); diff != "" {
				t.Fatalf("not idempotent (-once +twice):\n%s", diff)
			}
		})
	}
}

func TestJSONSchemaProjection(t *testing.T) {
	s, err := validate.AnyOf(validate.Range(0, 10), validate.Null()).JSONSchema()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(s.AnyOf) != 2 || s.AnyOf[0].Type != "integer" || *s.AnyOf[0].Maximum != 10 || s.AnyOf[1].Type != "null" {
		t.Fatalf("unexpected projection: %#v", s)
	}
	es, _ := validate.MustExpr(validate.Text().MaxLen(4), "value != \"none\"").JSONSchema()
	if es.Constraint == "" || *es.MaxLength != 4 {
		t.Fatalf("unexpected projection: %#v", es)
	}
}

func TestKinds(t *testing.T) {
	got := []string{
		validate.Range(0, 1).Kind().String(),
		validate.Enum("a").Kind().String(),
		validate.Map(nil, nil).Kind().String(),
		validate.Text().Kind().String(),
		validate.Bool().Kind().String(),
		validate.Null().Kind().String(),
		validate.AnyOf().Kind().String(),
		validate.MustExpr(validate.Text(), "true").Kind().String(),
	}
	want := []string{"range", "enum", "collection", "text", "bool", "null", "composite", "expr"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("kinds (-want +got):\n%s", diff)
	}
}
