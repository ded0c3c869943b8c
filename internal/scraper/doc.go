// Package scraper crawls the netkeiba race database and collects raw race records.
//
// A crawl starts at the monthly race calendar, visits every race day listed on it and
// every race listed on each day, and then moves one month back until the calendar's
// date reaches the configured cutoff. Each race page with a result table yields one
// race.RawRace holding the page title, the course line, the footnote and one cell map
// per result row. Cells are keyed positionally by race.Keys; the page text is kept
// as-is and interpreted later by the convert package.
//
// Requests are rate limited and honour context cancellation. Pages are decoded from
// the charset the server declares, since netkeiba serves EUC-JP.
package scraper
