// Package plotdoc declares the schemas of a small plotting document: axes,
// line styles and datasets. The schemas register themselves in the default
// hasprops registry on import.
package plotdoc

import (
	"github.com/reoring/hasprops"
	"github.com/reoring/hasprops/node"
	"github.com/reoring/hasprops/validate"
)

// Scales supported by an Axis.
const (
	ScaleLinear = "linear"
	ScaleLog    = "log"
)

// autoBound accepts a finite bound or nil, meaning "fit to data".
func autoBound() hasprops.Validator {
	return validate.AnyOf(validate.Range(-1e300, 1e300), validate.Null())
}

var (
	// Axis describes one plot axis.
	Axis = hasprops.MustRegister(hasprops.Define("Axis").
		Prop("label", validate.Text().MaxLen(80)).Default("").
		Doc("Label", "Axis caption").
		Prop("min", autoBound()).Default(nil).
		Doc("Minimum", "Lower bound; null fits the data").
		Prop("max", autoBound()).Default(nil).
		Doc("Maximum", "Upper bound; null fits the data").
		Prop("scale", validate.Enum(ScaleLinear, ScaleLog)).Default(ScaleLinear).
		Doc("Scale", "Axis scale").
		Prop("ticks", validate.MustExpr(validate.Range(0, 50), "value != 1")).Default(5).
		Doc("Ticks", "Number of major ticks; 0 hides them, 1 is rejected").
		Prop("grid", validate.Bool()).Default(false).
		Doc("Grid", "Draw grid lines at major ticks").
		MustBuild())

	// LineStyle describes how a series is drawn.
	LineStyle = hasprops.MustRegister(hasprops.Define("LineStyle").
		Prop("color", validate.MustExpr(validate.Text(), `value matches "^#[0-9a-fA-F]{6}$"`)).Default("#1f77b4").
		Doc("Color", "RGB hex color, #rrggbb").
		Prop("width", validate.Range(0.0, 20.0)).Default(1.5).
		Doc("Width", "Stroke width in points").
		Prop("dash", validate.Enum("solid", "dashed", "dotted")).Default("solid").
		Doc("Dash", "Stroke pattern").
		Prop("visible", validate.Bool()).Default(true).
		Doc("Visible", "Draw this series").
		MustBuild())

	// Dataset is a NodeInfo with data source properties, so datasets carry a
	// label, metadata and the edit mark like every other node.
	Dataset = hasprops.MustRegister(hasprops.Define("Dataset").
		Extends(node.InfoSchema).
		Prop("source", validate.Text()).Default("").
		Doc("Source", "File or URL the samples were read from").
		Prop("columns", validate.Map(validate.Text().MinLen(1), validate.Range(0, 1023))).Default(map[string]any{}).
		Doc("Columns", "Column name to zero-based column index").
		Prop("skip", validate.Range(0, 1<<20)).Default(0).
		Doc("Skip", "Header rows to skip").
		MustBuild())
)
