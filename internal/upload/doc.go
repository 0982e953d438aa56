// Package upload submits a document to the backend and follows its
// asynchronous processing until a terminal state.
//
// A Task moves through uploading, processing and then completed or failed.
// Cancelling a task aborts the request in flight, stops the poll loop and
// guarantees that no further ProgressEvent is delivered. Events are delivered
// on a channel that is closed once the task is over; only state changes are
// reported, so a task produces at most three events.
package upload
