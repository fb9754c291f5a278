// Package storage persists the canvas list.
//
// KeyedAdapter stores the whole list as one JSON array under a single key
// of a KeyValueStore, mirroring browser local storage. Two stores are
// provided: FileStore (a JSON object file) and SQLiteStore (a kv table
// through the pure-Go modernc.org/sqlite driver). MemoryAdapter keeps the
// list for the lifetime of the process only.
//
// Adapters never fail loudly. An unavailable store loads as empty and
// ignores saves; corrupt data is discarded with a warning.
package storage
