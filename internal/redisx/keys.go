package redisx

import "time"

const (
	// Reference data: ref:{resource}:{variant} -> JSON list, e.g. ref:colors:all, ref:options:{trim_id}
	KeyReference = "ref:%s:%s"

	// Ledger dedup: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLReference = 5 * time.Minute
	TTLDedup     = 48 * time.Hour
)
