//go:build !cgo

package database

// mattn/go-sqlite3 needs cgo; only the pure Go driver is exercised here.
var testDrivers = []string{"sqlite"}
