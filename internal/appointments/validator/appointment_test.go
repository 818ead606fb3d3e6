package validator

import (
	"io"
	"testing"
	"time"

	"slotline/pkg/logger"
)

func newValidator() *AppointmentValidator {
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Output:  io.Discard,
		Service: "test",
	})
	return NewAppointmentValidator(log)
}

func TestValidateBook(t *testing.T) {
	v := newValidator()
	future := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)

	tests := []struct {
		name      string
		req       BookRequest
		wantError bool
	}{
		{
			name: "valid RFC 3339",
			req: BookRequest{
				ServiceID: "656e0000000000000000a001",
				StartTime: future.Format(time.RFC3339),
			},
			wantError: false,
		},
		{
			name: "valid without zone",
			req: BookRequest{
				ServiceID: "656e0000000000000000a001",
				StartTime: future.Format("2006-01-02T15:04:05"),
			},
			wantError: false,
		},
		{
			name: "missing service id",
			req: BookRequest{
				StartTime: future.Format(time.RFC3339),
			},
			wantError: true,
		},
		{
			name: "malformed service id",
			req: BookRequest{
				ServiceID: "not-an-object-id",
				StartTime: future.Format(time.RFC3339),
			},
			wantError: true,
		},
		{
			name: "garbage timestamp",
			req: BookRequest{
				ServiceID: "656e0000000000000000a001",
				StartTime: "next tuesday",
			},
			wantError: true,
		},
		{
			name: "start in the past",
			req: BookRequest{
				ServiceID: "656e0000000000000000a001",
				StartTime: time.Now().UTC().Add(-time.Hour).Format(time.RFC3339),
			},
			wantError: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, err := v.ValidateBook(&tt.req)
			if tt.wantError {
				if err == nil {
					t.Errorf("expected validation error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !start.Equal(future) {
				t.Errorf("parsed start = %s, want %s", start, future)
			}
		})
	}
}

func TestValidateCancel(t *testing.T) {
	v := newValidator()

	if err := v.ValidateCancel(&CancelRequest{CancellationToken: "0123456789abcdef0123456789abcdef"}); err != nil {
		t.Errorf("valid token rejected: %v", err)
	}
	if err := v.ValidateCancel(&CancelRequest{}); err == nil {
		t.Errorf("missing token accepted")
	}
	if err := v.ValidateCancel(&CancelRequest{CancellationToken: "short"}); err == nil {
		t.Errorf("short token accepted")
	}
}
