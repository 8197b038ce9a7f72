// Package asyncio is a small asynchronous I/O runtime for POSIX file
// descriptors: a reactor that polls descriptors for readiness, a bounded
// worker pool that runs user handlers off the reactor thread, and a
// one-shot future/promise pair that ties a handler's result back to the
// caller. A Driver composes all three behind the Read and Write functions.
//
// The package is a library, not a process: it owns no files, reads no
// environment variables, and parses no command-line arguments. Byte-level
// reads and writes are the caller's responsibility; asyncio only schedules
// when a caller-supplied handler runs.
package asyncio
