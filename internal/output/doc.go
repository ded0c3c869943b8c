// Package output writes flattened rows as CSV, JSON or Parquet.
//
// Every format writes the schema header first (or its equivalent) and then one record
// per row, in the order rows are given. Absent cells are empty in CSV, null in JSON
// and null in Parquet.
package output
