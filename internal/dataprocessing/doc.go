// Package dataprocessing turns the three athlete spreadsheets into per-athlete
// analytics. It owns the whole pipeline from raw tables to dashboard views.
//
// # Architecture
//
// The package is organized into four stages:
//
// 1. Normalizer: trims and lower-cases the name key columns
// 2. Merger: outer-joins Global, Physical and After Game data on the name key
// 3. Filter: drops merged rows carrying none of the tracked columns
// 4. Aggregator: lifetime means, recent-game satisfaction and monthly means
//
// The insight engine sits on top of the aggregator and turns satisfaction
// scores and injury annotations into findings.
//
// # Usage
//
//	ds := dataprocessing.Build(global, physical, afterGame)
//	for _, name := range ds.Athletes() {
//	    view := dataprocessing.AthleteView(ds.Project(name), dataprocessing.DefaultViewOptions())
//	    ...
//	}
//
// # Data Flow
//
//	Tables → NormalizeNames → MergeAll → FilterAvailable → full_name → Dataset
//	Dataset → Project → AthleteView / InsightReport
//
// # Missing Values
//
// Cells are domain.Value. Missing values stay missing through every stage;
// they are never filled with zero, and means are computed over present values
// only.
package dataprocessing
