// Package cli implements the keiba command-line interface.
//
// The root command loads configuration (defaults, YAML file, KEIBA_ environment,
// then flags), configures logging and wires the subcommands: scrape collects raw
// races from netkeiba into a JSON file, convert flattens a race file into a CSV,
// JSON or Parquet table and can also load the rows into Postgres and upload the
// table to S3, header prints the table layout, and describe summarizes a produced
// CSV table.
package cli
