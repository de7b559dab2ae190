package database

import "errors"

// ErrNotReady indicates the PostgreSQL server could not be reached. Ping
// wraps the driver error with it.
var ErrNotReady = errors.New("database not ready")
