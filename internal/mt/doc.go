// Package mt is the boundary to the sequence-to-sequence machine
// translation model used by the web form. The model handle is created
// once at process start by Load and is safe for concurrent use; it is
// never re-initialized per request.
package mt
