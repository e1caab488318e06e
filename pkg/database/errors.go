package database

import "errors"

// ErrNotConfigured is returned when DATABASE_URL is empty.
var ErrNotConfigured = errors.New("database: DATABASE_URL not configured")
