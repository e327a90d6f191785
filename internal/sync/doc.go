// Package sync decides when the decoration database must be rebuilt and
// performs the individual build stages.
//
// # Core Interfaces
//
//   - Manager: fetches catalog snapshots, decides whether a rebuild is needed,
//     builds the merged database and persists it
//   - ChangeDetector: compares a stored database with freshly fetched
//     identifier sets
//
// # Coordinator Package
//
// The sync/coordinator subpackage owns the end-to-end build: it holds the
// build lease, runs the Manager stages in order, records metrics and spans,
// and turns every failure into a BuildResult. See internal/sync/coordinator.
//
// # Rebuild Reasons
//
// ChangeDetector.Evaluate returns a Reason. Reasons are checked in this order,
// and the first that applies wins:
//
//   - ReasonNoDatabase: nothing usable is stored yet
//   - ReasonFormatChanged: the stored database has another format version
//   - ReasonGuildCatalogChanged: the guild identifier set differs
//   - ReasonHomesteadCatalogChanged: the homestead identifier set differs
//   - ReasonUpToDate: the stored database can be reused
//
// Use Reason.NeedsRebuild to branch on the verdict.
//
// # Errors
//
// Manager methods return *Error, which records the Stage that failed and
// wraps the underlying typed error from the catalog or store packages.
package sync
