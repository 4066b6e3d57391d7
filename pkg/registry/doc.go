// Package registry tracks live subscriber connections and implements fan-out
// with per-connection failure isolation, a periodic liveness sweep, and a
// keepalive probe.
package registry
