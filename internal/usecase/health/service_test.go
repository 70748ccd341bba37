package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockCachePinger struct {
	err error
}

func (m *mockCachePinger) Ping(_ context.Context) error { return m.err }

type mockGeodataChecker struct {
	err error
}

func (m *mockGeodataChecker) HealthCheck(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck(t *testing.T) {
	down := errors.New("down")

	tests := []struct {
		name        string
		cacheErr    error
		geodata     GeodataChecker
		wantStatus  Status
		wantCache   CheckResult
		wantGeodata CheckResult // empty: check absent
	}{
		{"all healthy", nil, &mockGeodataChecker{}, Healthy, CheckOK, CheckOK},
		{"cache down", down, &mockGeodataChecker{}, Degraded, CheckError, CheckOK},
		{"geodata down", nil, &mockGeodataChecker{err: down}, Degraded, CheckOK, CheckError},
		{"both down", down, &mockGeodataChecker{err: down}, Unhealthy, CheckError, CheckError},
		{"no geodata", nil, nil, Healthy, CheckOK, ""},
		{"no geodata, cache down", down, nil, Unhealthy, CheckError, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := New(&mockCachePinger{err: tc.cacheErr}, tc.geodata)
			r := svc.Check(context.Background())

			if r.Status != tc.wantStatus {
				t.Errorf("expected status %q, got %q", tc.wantStatus, r.Status)
			}
			if r.Checks[ComponentCache] != tc.wantCache {
				t.Errorf("expected cache %q, got %q", tc.wantCache, r.Checks[ComponentCache])
			}
			got, ok := r.Checks[ComponentGeodata]
			if tc.wantGeodata == "" {
				if ok {
					t.Error("geodata check should be absent when checker is nil")
				}
				return
			}
			if got != tc.wantGeodata {
				t.Errorf("expected geodata %q, got %q", tc.wantGeodata, got)
			}
		})
	}
}
