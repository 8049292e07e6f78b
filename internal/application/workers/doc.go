// Package workers provides the worker pool that runs agent handlers off
// the caller's goroutine. The execution engine submits one handler at a
// time and awaits its completion, so batch execution stays strictly
// sequential while hosting goroutines remain unblocked.
package workers
