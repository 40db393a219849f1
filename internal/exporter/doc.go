// Package exporter renders the in-memory tables as download artifacts: CSV
// with a UTF-8 byte-order mark so spreadsheet tools detect the encoding of
// the Korean school names, and single-sheet XLSX with the same column set as
// the growth input. Every export produces a fresh, independently-owned byte
// buffer; nothing is shared across calls and nothing writes back to the
// source files.
package exporter
