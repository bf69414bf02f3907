package hasprops

// Package hasprops provides:
//
// - Validated, self-describing properties: each Prop carries a Validator, a default and docs
// - Schemas declared once per document type and shared by every Instance
// - Instances whose storage is only reachable through the validation pipeline
// - Change notification and an edit mark for dirty tracking
// - A stable error model via Issues (path, code, message)
//
// Design policy:
// - Keep the core types in the root package; concrete validators live under validate/.
// - Persistence belongs to codec/, node composition to node/, the CLI to cmd/hasprops.
// - Validation has no I/O and no locking; an Instance belongs to one goroutine.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  s := hasprops.Define("Container").
//      Prop("height", validate.Range(0, 10)).Default(0).
//      MustBuild()
//  c, err := hasprops.New(s, hasprops.Values{"height": "3"})
//  cancel := c.Observe(hasprops.ObserverFunc(func(_ *hasprops.Instance, ch hasprops.Change) { ... }))
//  err = c.Set("height", 20) // out_of_range, nothing changes
//
//  data, err := codec.MarshalJSON(c, codec.Preserve())
//
