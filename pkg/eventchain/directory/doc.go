// Package directory provides the immutable lookup from event name to handler
// capability used by eventchain.
//
// A Directory is assembled once with a Builder and never changes afterwards,
// so lookups need no locking and many chain steps may read it concurrently.
//
// # Building
//
//	b := directory.NewBuilder()
//	b.Register("login", loginProcessor)
//	b.Register("browse", browseProcessor)
//	b.RegisterTransformer("checkout", checkoutProcessor, buildCart)
//
//	dir, err := b.Build()
//	if err != nil {
//	    // duplicate or invalid names
//	}
//
// # Capability detection
//
// Register inspects the processor exactly once: a processor that also
// implements eventchain.Transformer is recorded as a transforming handler.
// Lookups then read the stored flag instead of inspecting types again.
//
// # Isolation
//
// Directories are plain values passed to each Chainer. Tests can build as
// many independent directories as they need.
package directory
