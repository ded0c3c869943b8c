// Package storage persists scraped races and converted tables.
//
// Storage keeps race files as JSON arrays under a data directory; "~/" in the
// directory or a file name is expanded to the home directory. PostgresLoader
// bulk-loads converted rows into a table whose columns follow the schema, and
// S3Uploader puts finished output files into a bucket under a unique key.
package storage
