// Package memory provides in-memory implementations of the driven storage
// ports. The document index is volatile; durable copies of the
// audit trail go through the sqlite archive instead.
package memory
