package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockProviderChecker struct {
	err error
}

func (m *mockProviderChecker) HealthCheck(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck(t *testing.T) {
	down := errors.New("down")
	tests := []struct {
		name       string
		db         error
		provider   ProviderChecker
		wantStatus Status
		wantDB     CheckResult
		wantEnrich CheckResult // "" means absent
	}{
		{"all healthy", nil, &mockProviderChecker{}, Healthy, CheckOK, CheckOK},
		{"db down", down, &mockProviderChecker{}, Unhealthy, CheckError, CheckOK},
		{"provider down", nil, &mockProviderChecker{err: down}, Degraded, CheckOK, CheckError},
		{"both down", down, &mockProviderChecker{err: down}, Unhealthy, CheckError, CheckError},
		{"no provider", nil, nil, Healthy, CheckOK, ""},
		{"no provider, db down", down, nil, Unhealthy, CheckError, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := New(&mockDBPinger{err: tc.db}, tc.provider).Check(context.Background())

			if r.Status != tc.wantStatus {
				t.Errorf("status = %q, want %q", r.Status, tc.wantStatus)
			}
			if r.Checks[CheckDatabase] != tc.wantDB {
				t.Errorf("database = %q, want %q", r.Checks[CheckDatabase], tc.wantDB)
			}
			got, ok := r.Checks[CheckEnrichment]
			if tc.wantEnrich == "" {
				if ok {
					t.Error("enrichment check should be absent without a provider")
				}
			} else if got != tc.wantEnrich {
				t.Errorf("enrichment = %q, want %q", got, tc.wantEnrich)
			}
		})
	}
}
