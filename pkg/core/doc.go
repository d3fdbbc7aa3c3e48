// Package core defines the shared language of the leapdoi system.
//
// This package contains:
//   - Domain entities (OwnershipRecord, TractAllocation, Dataset, Schedule)
//   - The in-memory report model (Report, Sheet, Block, Row, Value)
//   - The error taxonomy (ValidationError, ReconciliationError)
//   - Warning severities shared by loaders, builders and the CLI
//
// The Golden Rule: pkg/core imports ONLY shopspring/decimal and stdlib.
// All other packages depend on core, not the reverse.
package core
