// Package convert flattens raw races into table rows.
//
// ParseRace derives the attributes shared by every horse of a race from its title and
// diary line; ParseHorse derives one horse's attributes from its result row. Both are
// pure functions of their input. The row assembler concatenates the two, in the
// column order of Schema, and emits one row per horse.
//
// Schema is built from a single binding table that pairs each column with the field
// it reads, so the header and the cell order cannot drift apart.
package convert
