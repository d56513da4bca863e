//go:build cgo

package database

var testDrivers = []string{"sqlite", "sqlite3"}
