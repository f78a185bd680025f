// Package filemap is a directory-backed key-value store: one file per
// entry, map semantics on top.
//
// It is intentionally designed to keep the entry files as the source of
// truth and treat the in-memory key index as a derived, throwaway view:
// every store construction rebuilds the index by scanning the directory,
// so there is nothing to close, flush, or repair. Durability ends where
// the filesystem's single-file write guarantees end; there are no
// transactions and no write-ahead log.
//
// Reads never fail: a missing or undecodable entry is simply absent.
// Writes report their errors. Deletes are best effort.
//
// A store handle assumes it is the only writer of its directory. Multiple
// handles over one directory each hold an independent index and do not
// see each other's changes until reconstructed.
package filemap
