// Package exportsqlite writes guideline tables into a SQLite database file.
//
// Register the renderer for the sqlite format:
//
//	_ = registry.Register(export.FormatSQLite, exportsqlite.Renderer{})
//
// The database holds one table named after the sanitized table title (or
// Renderer.TableName), with one TEXT column per header label, including
// "Expanded Details" when rows are expanded.
package exportsqlite
