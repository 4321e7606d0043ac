// Package cliout provides styled terminal output for the rotate CLI.
//
// All human-facing messages go through this package so that symbols,
// colors, and indentation stay consistent across commands:
//
//	cliout.Success("Rotated %s (right)", path)
//	cliout.Item("Original backed up to: %s", backupPath)
//	cliout.Error("File not found: %s", path)
//
// Color is disabled automatically when stdout is not a terminal or the
// NO_COLOR environment variable is set. Unicode symbols degrade to ASCII
// on terminals that cannot display them (notably the legacy Windows
// console).
package cliout
