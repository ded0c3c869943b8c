// Package race provides the raw race records produced by the netkeiba crawler.
//
// A RawRace holds the page title, the free-text "diary" line describing the course and
// track conditions, and one RawHorse mapping per row of the result table. Every value is
// kept as text exactly as scraped; JSON null and the empty string both mean "absent".
// Decode reads a JSON array of races and skips, with a diagnostic, any race whose horse
// rows do not carry the full key set.
package race
