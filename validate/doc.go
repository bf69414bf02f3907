// Package validate provides the concrete hasprops.Validator variants.
//
// Overview
//   - Range[T](min, max): inclusive numeric bounds; numeric text and json.Number are coerced.
//   - Enum(choices...): text coerced and matched against a fixed list.
//   - Text(): canonical (NFC) text with optional rune-length bounds.
//   - Bool(): booleans plus yes/no/on/off/1/0 text and 0/1 integers.
//   - Map(keys, values): text-keyed mappings with validated keys and values.
//   - Null(): the null marker.
//   - AnyOf(children...): ordered alternatives; the first accepting child wins.
//   - Expr(inner, expression): inner validator plus an expr-lang boolean constraint.
//
// Every validator runs the same staged pipeline (type check, coercion, value
// check) and reports the stage that failed through the issue code
// (type_mismatch, coercion_failed, out_of_range / constraint_violation).
// Validators are immutable; option methods such as MaxLen return a copy.
//
// Example
//
//	axis := hasprops.Define("Axis").
//	    Prop("min", validate.AnyOf(validate.Range(-1e300, 1e300), validate.Null())).Default(nil).
//	    Prop("scale", validate.Enum("linear", "log")).Default("linear").
//	    Prop("label", validate.Text().MaxLen(200)).Default("").
//	    MustBuild()
package validate
