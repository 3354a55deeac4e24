//go:build !integration

package model

import (
	"errors"
	"testing"

	"surgical-viz-client/internal/domain"
)

func TestJobStatusTerminal(t *testing.T) {
	cases := []struct {
		status JobStatus
		want   bool
	}{
		{JobStatusPending, false},
		{JobStatusProcessing, false},
		{JobStatusCompleted, true},
		{JobStatusFailed, true},
	}
	for _, c := range cases {
		if got := c.status.Terminal(); got != c.want {
			t.Errorf("%s.Terminal() = %v, want %v", c.status, got, c.want)
		}
	}
}

func TestJobRequestValidate(t *testing.T) {
	ok := JobRequest{ImageID: "img1", ProcedureID: "proc1", PatientID: "pat1"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	bad := []JobRequest{
		{ProcedureID: "proc1", PatientID: "pat1"},
		{ImageID: "img1", PatientID: "pat1"},
		{ImageID: "img1", ProcedureID: "proc1"},
		{ImageID: "  ", ProcedureID: "proc1", PatientID: "pat1"},
	}
	for i, r := range bad {
		err := r.Validate()
		if err == nil {
			t.Errorf("case %d: expected error for %+v", i, r)
			continue
		}
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("case %d: expected ErrInvalidArgument, got %v", i, err)
		}
	}
}
