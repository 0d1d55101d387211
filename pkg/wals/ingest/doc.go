// Package ingest decodes the four WALS CSV exports (parameters, languages,
// values and domain elements) into a dataset.Dataset.
//
// Decoding is lenient: a cell that fails to parse as a number becomes zero,
// a short row is padded with empty cells and a row repeating an existing
// primary key is dropped. Each of these is reported through the Loader's
// WarnFunc and never aborts the load. A missing or unreadable file does.
package ingest
