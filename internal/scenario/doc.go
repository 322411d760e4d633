// Package scenario runs named tool checks against a discovered catalog.
//
// A Definition names a tool, the arguments to call it with and an optional
// Expectation over the decoded payload. The Runner executes definitions in
// order, one at a time, and produces exactly one InvocationResult for each,
// whatever the outcome of the individual call. Aggregating pass and fail
// counts is left to the caller.
//
// Definitions come from the built-in suites (DiagnosticSuite and
// PublicToolsSuite) or from YAML files loaded with LoadSuite.
package scenario
