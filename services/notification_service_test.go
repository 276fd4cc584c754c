package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"hackathon-management-api/models"
)

func TestIsVisibleTo(t *testing.T) {
	tests := []struct {
		name          string
		notification  models.Notification
		userID        uint
		role          string
		instituteCode string
		want          bool
	}{
		{
			name:         "broadcast reaches everyone",
			notification: models.Notification{Audience: models.AudienceAll, IsActive: true},
			userID:       1, role: models.RoleStudent,
			want: true,
		},
		{
			name:         "role class match",
			notification: models.Notification{Audience: models.AudienceSpocs, IsActive: true},
			userID:       2, role: models.RoleSpoc,
			want: true,
		},
		{
			name:         "role class mismatch",
			notification: models.Notification{Audience: models.AudienceSpocs, IsActive: true},
			userID:       2, role: models.RoleMentor,
			want: false,
		},
		{
			name: "explicit recipient",
			notification: models.Notification{
				Audience: models.AudienceCustom, IsActive: true,
				RecipientIDs: models.UintList{4, 5},
			},
			userID: 5, role: models.RoleStudent,
			want: true,
		},
		{
			name: "not listed as recipient",
			notification: models.Notification{
				Audience: models.AudienceCustom, IsActive: true,
				RecipientIDs: models.UintList{4, 5},
			},
			userID: 6, role: models.RoleStudent,
			want: false,
		},
		{
			name: "institute scoped custom",
			notification: models.Notification{
				Audience: models.AudienceCustom, IsActive: true,
				InstituteCode: "INST-001",
			},
			userID: 9, role: models.RoleStudent, instituteCode: "INST-001",
			want: true,
		},
		{
			name: "institute scoped custom wrong institute",
			notification: models.Notification{
				Audience: models.AudienceCustom, IsActive: true,
				InstituteCode: "INST-001",
			},
			userID: 9, role: models.RoleStudent, instituteCode: "INST-002",
			want: false,
		},
		{
			name: "empty institute tag never matches empty caller institute",
			notification: models.Notification{
				Audience: models.AudienceCustom, IsActive: true,
			},
			userID: 9, role: models.RoleAdmin, instituteCode: "",
			want: false,
		},
		{
			name:         "deactivated is invisible even to broadcast",
			notification: models.Notification{Audience: models.AudienceAll, IsActive: false},
			userID:       1, role: models.RoleAdmin,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsVisibleTo(&tt.notification, tt.userID, tt.role, tt.instituteCode)
			if got != tt.want {
				t.Fatalf("IsVisibleTo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestListVisibleSkipsUntaggedCustomForEmptyInstitute(t *testing.T) {
	// An admin has no institute code. The custom-audience clause must require a
	// non-empty tag, otherwise every team-private notification with an empty
	// institute_code would leak to institute-less callers.
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("audience = \\? AND institute_code <> '' AND institute_code = \\?"),
			args:    []driver.Value{true, "all", "admins", "custom", "", "9", int64(20)},
			columns: []string{"notification_id", "audience", "is_active"},
			rows:    [][]driver.Value{},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	service := NewNotificationService(gormDB)

	items, err := service.ListVisible(9, models.RoleAdmin, "", false, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no visible notifications, got %d", len(items))
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestMarkReadInvisibleNotification(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `notifications` WHERE notification_id = \\?"),
			columns: []string{"notification_id", "audience", "is_active"},
			rows:    [][]driver.Value{{int64(11), "admins", true}},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	service := NewNotificationService(gormDB)

	err := service.MarkRead(42, 11, models.RoleStudent, "")
	if !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("invisible notification must look missing, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestMarkReadInsertsReadRecord(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `notifications` WHERE notification_id = \\?"),
			columns: []string{"notification_id", "audience", "is_active"},
			rows:    [][]driver.Value{{int64(11), "all", true}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `notification_reads`"),
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	service := NewNotificationService(gormDB)

	if err := service.MarkRead(42, 11, models.RoleStudent, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}
