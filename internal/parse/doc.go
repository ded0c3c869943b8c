// Package parse turns the loosely formatted strings of a netkeiba result page into
// typed values.
//
// Every function is total over its input: a value that cannot be recognised comes
// back absent (a nil pointer, or the Unknown member of an enumeration), never as a
// zero that could be mistaken for data. Only the two primitive coercers, Int and
// Float, report an error, and only when non-empty text is not a number; callers
// record that as a MalformedValue and keep going with the value absent.
//
// Categorical fields (sex, weather, track wetness) are decoded through explicit
// lookup tables over a closed enumeration, so at most one flag of a group is ever set.
//
// Track wetness has two encodings. Wetness.Flags gives the four one-hot columns of
// the flat table; Wetness.Ordinal gives the single 1-4 column of older exports, for
// callers that build their own tables from ParseRace.
package parse
