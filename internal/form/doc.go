// Package form holds the front-end independent parts of the prediction form:
// building a [View] from the current state and submitting a completed state
// with a [Submitter]. The web and terminal front ends both sit on top of it.
package form
