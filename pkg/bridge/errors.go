package bridge

import "errors"

var (
	// ErrInvalidConnectionURL indicates the Redis connection URL could not be parsed.
	ErrInvalidConnectionURL = errors.New("bridge: invalid redis connection URL")
	// ErrNotReady indicates all connection attempts to Redis failed.
	ErrNotReady = errors.New("bridge: redis connection not ready")
)
