// Package bridge is an optional Redis pub/sub backplane that fans accepted
// notifications out across relay instances. Each instance skips its own
// publications, and the hub's history dedup suppresses delivery loops.
package bridge
