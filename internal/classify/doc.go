// Package classify decides whether a single tool response succeeded.
//
// Responses arrive weakly typed: JSON text, plain text, error messages
// rendered as text, or values of an unexpected type. Classify maps each of
// them to a Classification without ever panicking:
//
//  1. a non-string value is a failure describing its type and a preview;
//  2. a string holding one complete JSON document is a success carrying the
//     decoded value;
//  3. any other string is inspected by an ErrorMarker. A match is a failure
//     whose error is the string itself, otherwise the string is the data.
//
// The marker step is a heuristic. The default KeywordMarker flags any text
// containing "error" or "failed" regardless of case, so a successful plain
// text response such as "0 failed orders" is reported as a failure. Callers
// that know better can install their own marker on a Classifier.
//
// JSON is decoded strictly, so the bare literals NaN and Infinity are not
// numbers here; they fall through to the marker step as plain text.
package classify
