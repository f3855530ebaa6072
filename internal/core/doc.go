// Package core provides the business logic for the strings/classifications
// dataset manager.
//
// This package has no transport dependencies. It is used by the HTTP server,
// the csvcheck CLI and tests without modification.
//
// # Datasets
//
// A strings dataset holds prompt rows tagged with a Topic, Subtopic and
// Industry. A classifications dataset is the catalog of allowed
// (Topic, SubTopic, Industry) combinations. Column names are resolved through
// the alias tables in [StringsFieldSpecs] and [ClassificationsFieldSpecs], so
// "sub_topic", "SUBTOPIC" and "Sub-Topic" all land in the same field.
//
// # Flow
//
//  1. [Decode] turns CSV bytes into a [RawTable], stripping a BOM and
//     repairing invalid UTF-8 on the way
//  2. [ParseStringsTable] and [ParseClassificationsTable] bind columns and
//     build typed rows, failing with a [SchemaError] when a column is missing
//  3. [Validate] checks every strings row against the catalog
//  4. [Service.Export] refuses invalid strings data, then encodes with
//     canonical headers and stores the files
//
// Validation problems are data, not errors: they come back in a
// [ValidationResult]. Only the export gate turns them into a
// [ValidationFailedError].
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each category has a code for support reference:
//
//   - SCH001, CSV001, FILE001: unreadable or incomplete files
//   - VAL001: export refused because rows are invalid
//   - REQ001-REQ005: malformed requests, unsupported options, timeouts
//   - STO001: object store failures
//   - RATE001-RATE002: rate limited or all work slots busy
package core
