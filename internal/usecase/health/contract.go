package health

import "context"

// DBPinger checks record store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// ProviderChecker checks biography provider availability.
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}
