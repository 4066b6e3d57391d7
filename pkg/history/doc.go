// Package history provides the bounded in-memory buffer of recent real
// notifications used to backfill newly joined subscribers.
package history
