// Package exporter writes dashboard data to files and HTTP responses.
//
// CSVWriter is the low-level writer. Output carries a UTF-8 BOM so Excel
// detects the encoding. Missing cells are written as empty fields, never as
// zero.
//
// Exporter builds on it:
//
//	exp := exporter.NewExporter(paths.ExportDir, logger)
//
//	// Filtered, merged table with the derived full_name column
//	path, err := exp.SaveFilteredCSV(dataset)
//
//	// One athlete's profile, physical condition, recent games, monthly means
//	// and insights as an .xlsx workbook
//	path, err = exp.SaveAthleteReport(view, report)
//
// The Write* methods stream the same content to any io.Writer.
package exporter
