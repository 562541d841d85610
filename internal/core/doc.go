// Package core provides the rule-based column transformation pipeline.
//
// This package is the heart of the CSV layout tool, containing all domain logic
// independent of any UI, file format or storage layer. It can be used by web
// handlers, CLI tools, or tests without modification.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Table: ordered, unique column names plus rows of text cells.
//   - Rules: one parsed instruction per operation kind ([ReorderRule],
//     [MergeRule], [ExtractRule], ...), produced by [ParseRules].
//   - Plan: a compiled [RuleSet]; [Plan.Apply] runs the eight executors in a
//     fixed order and returns a [Result].
//   - Warnings: every recoverable problem (bad rule line, missing column,
//     column conflict) becomes a [Warning]; the pipeline never aborts on them.
//
// # Execution Order
//
// Later stages observe columns created by earlier ones:
//
//  1. GetPrefectureCode
//  2. RemovePrefecture
//  3. Extract
//  4. RemoveChars
//  5. AddChars
//  6. Replace
//  7. Merge
//  8. Reorder
//
// # Rule Language
//
// Each operation kind has its own text block, one rule per line:
//
//	Merge:       氏名:姓,名,
//	Extract:     郵便番号下4桁:郵便番号:5:4
//	RemoveChars: 電話番号:-,(,)
//	AddChars:    価格:後:円
//	Replace:     状態:中:済
//	Reorder:     氏名,,住所
//
// Reorder is a single comma-separated list; an empty entry inserts a blank
// placeholder column whose header is suppressed on export (see [EmptyColumns]).
package core
