package scheduler

import (
	"testing"

	applogger "FxPulse/pkg/logger"
)

func schedulerTestLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func TestNewRejectsUnknownTimezone(t *testing.T) {
	if _, err := New(nil, "Mars/Olympus_Mons", schedulerTestLogger(t)); err == nil {
		t.Error("expected error for unknown timezone")
	}
	if _, err := New(nil, "Asia/Seoul", schedulerTestLogger(t)); err != nil {
		t.Errorf("valid timezone rejected: %v", err)
	}
}

func TestRegisterCronSpec(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		wantErr bool
	}{
		{"six field daily spec", "0 30 11 * * *", false},
		{"five field spec", "30 11 * * *", true},
		{"garbage", "not a cron spec", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(nil, "Asia/Seoul", schedulerTestLogger(t))
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			err = s.Register(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Errorf("Register(%q) err = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
		})
	}
}

func TestRefreshRecoversPanic(t *testing.T) {
	// A nil usecase makes the job panic on its first dereference; the run
	// must swallow it so the cron loop survives to the next cycle.
	s, err := New(nil, "Asia/Seoul", schedulerTestLogger(t))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("panic escaped refresh: %v", r)
		}
	}()
	s.refresh()
}
