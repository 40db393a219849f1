// Package dataprocessing implements the dataset pipeline for the four-school
// EC cultivation experiment: parsing the per-school environmental CSV files
// and the multi-sheet growth workbook, concatenating them into unified
// in-memory tables, and aggregating per-school summaries.
//
// # Architecture
//
// The package is organized into three main components:
//
// 1. Parsers: read one environmental CSV or the growth workbook into records
// 2. Loader: reconciles filenames, runs the parsers, assembles a Dataset
// 3. Summarizer: computes per-school means joined with the EC-target roster
//
// # Usage
//
//	loader := dataprocessing.NewLoader(dataDir, growthFile, logger)
//	ds, err := loader.Load(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	summaries := dataprocessing.Summarize(ds.Growth)
//
// A Dataset is immutable after Load returns; consumers filter and aggregate
// but never mutate records.
package dataprocessing
