package db

import "errors"

// Sentinel errors for record store operations.
var (
	ErrRowNotFound  = errors.New("db: row not found")
	ErrNoEnrichment = errors.New("db: enrichment text absent")
)

// Op constants name store operations for error context.
const (
	OpPing          = "PING"
	OpRetrieve      = "RETRIEVE"
	OpFetchByID     = "FETCH"
	OpFetchEnrich   = "FETCH_ENRICHMENT"
	OpListPending   = "LIST_PENDING"
	OpSetEnrichment = "SET_ENRICHMENT"
	OpUpsert        = "UPSERT"
	OpMigrate       = "MIGRATE"
	OpHGetAll       = "HGETALL"
	OpHGet          = "HGET"
	OpHSet          = "HSET"
	OpZRange        = "ZRANGE"
	OpZAdd          = "ZADD"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
