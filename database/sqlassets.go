package sqlassets

import _ "embed"

// SnapshotDocumentsSQL creates the table backing the postgres snapshot store.
//
//go:embed schema/snapshot_documents.sql
var SnapshotDocumentsSQL string
