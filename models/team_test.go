package models

import "testing"

func TestRecalcProgress(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string // ideation, prototype, development, final
		want     int
	}{
		{"nothing approved", []string{PhaseStatusPending, PhaseStatusPending, PhaseStatusPending, PhaseStatusPending}, 0},
		{"one approved", []string{PhaseStatusApproved, PhaseStatusPending, PhaseStatusPending, PhaseStatusPending}, 25},
		{"half approved", []string{PhaseStatusApproved, PhaseStatusApproved, PhaseStatusPending, PhaseStatusPending}, 50},
		{"changes required does not count", []string{PhaseStatusApproved, PhaseStatusChangesRequired, PhaseStatusChangesRequired, PhaseStatusPending}, 25},
		{"all approved", []string{PhaseStatusApproved, PhaseStatusApproved, PhaseStatusApproved, PhaseStatusApproved}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			team := Team{
				PhaseIdeationStatus:    tt.statuses[0],
				PhasePrototypeStatus:   tt.statuses[1],
				PhaseDevelopmentStatus: tt.statuses[2],
				PhaseFinalStatus:       tt.statuses[3],
			}
			team.RecalcProgress()
			if team.Progress != tt.want {
				t.Fatalf("Progress = %d, want %d", team.Progress, tt.want)
			}
		})
	}
}

func TestSetPhaseStatus(t *testing.T) {
	team := Team{
		PhaseIdeationStatus:    PhaseStatusPending,
		PhasePrototypeStatus:   PhaseStatusPending,
		PhaseDevelopmentStatus: PhaseStatusPending,
		PhaseFinalStatus:       PhaseStatusPending,
	}

	if err := team.SetPhaseStatus(PhasePrototype, PhaseStatusApproved); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if team.PhasePrototypeStatus != PhaseStatusApproved {
		t.Fatalf("prototype status = %q", team.PhasePrototypeStatus)
	}
	if team.Progress != 25 {
		t.Fatalf("progress not recomputed, got %d", team.Progress)
	}

	if err := team.SetPhaseStatus("shipping", PhaseStatusApproved); err == nil {
		t.Fatal("expected error for unknown phase")
	}
	if err := team.SetPhaseStatus(PhaseFinal, "done"); err == nil {
		t.Fatal("expected error for invalid status")
	}
}
