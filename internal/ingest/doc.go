// Package ingest loads the athlete spreadsheets from workbooks or Google Sheets.
package ingest
