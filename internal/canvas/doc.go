// Package canvas manages the library of named canvas records.
//
// A Repository turns names into records and hands lists to a
// StorageAdapter; it never persists on its own. A Library sits on top and
// owns the authoritative in-memory list: every mutation is applied to one
// snapshot, saved in full, and exposed to callers as a copy.
//
//	repo := canvas.NewRepository(adapter)
//	lib := canvas.NewLibrary(repo)
//	rec := lib.Create("Weekly planner")
//	lib.Rename(rec.ID, "Daily planner")
package canvas
