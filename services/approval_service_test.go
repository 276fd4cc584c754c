package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
)

type sentWelcome struct {
	to       string
	name     string
	teamName string
}

type sentCredential struct {
	to         string
	name       string
	roleLabel  string
	password   string
	isExisting bool
}

type sentRejection struct {
	to       string
	name     string
	teamName string
	reason   string
}

// fakeMailer records outbound mail instead of sending it.
type fakeMailer struct {
	welcomes    []sentWelcome
	credentials []sentCredential
	rejections  []sentRejection
	failWith    error
}

func (m *fakeMailer) SendWelcomeEmail(to, name, teamName string) error {
	m.welcomes = append(m.welcomes, sentWelcome{to: to, name: name, teamName: teamName})
	return m.failWith
}

func (m *fakeMailer) SendCredentialEmail(to, name, roleLabel, password string, isExisting bool) error {
	m.credentials = append(m.credentials, sentCredential{
		to: to, name: name, roleLabel: roleLabel, password: password, isExisting: isExisting,
	})
	return m.failWith
}

func (m *fakeMailer) SendRejectionEmail(to, name, teamName, reason string) error {
	m.rejections = append(m.rejections, sentRejection{to: to, name: name, teamName: teamName, reason: reason})
	return m.failWith
}

func pendingRegistrationRow() ([]string, []driver.Value) {
	columns := []string{"registration_id", "team_name", "institute_code", "leader_name", "leader_email"}
	row := []driver.Value{int64(7), "Quantum Coders", "INST-042", "Asha Rao", "asha@example.com"}
	return columns, row
}

func TestRejectDeletesStagingAndEmailsLeader(t *testing.T) {
	columns, row := pendingRegistrationRow()
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `pending_registrations` WHERE registration_id = \\?"),
			columns: columns,
			rows:    [][]driver.Value{row},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("DELETE FROM `pending_registrations` WHERE registration_id = \\?"),
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	mailer := &fakeMailer{}
	service := NewApprovalService(gormDB, mailer)

	warnings, err := service.Reject(7, "Duplicate registration")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}

	if len(mailer.rejections) != 1 {
		t.Fatalf("expected one rejection email, got %d", len(mailer.rejections))
	}
	sent := mailer.rejections[0]
	if sent.to != "asha@example.com" || sent.teamName != "Quantum Coders" || sent.reason != "Duplicate registration" {
		t.Fatalf("unexpected rejection email: %+v", sent)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestRejectEmailFailureBecomesWarning(t *testing.T) {
	columns, row := pendingRegistrationRow()
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `pending_registrations` WHERE registration_id = \\?"),
			columns: columns,
			rows:    [][]driver.Value{row},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("DELETE FROM `pending_registrations` WHERE registration_id = \\?"),
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	mailer := &fakeMailer{failWith: errors.New("smtp down")}
	service := NewApprovalService(gormDB, mailer)

	warnings, err := service.Reject(7, "Incomplete roster")
	if err != nil {
		t.Fatalf("rejection must not fail on email errors, got %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestRejectMissingRegistration(t *testing.T) {
	columns, _ := pendingRegistrationRow()
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `pending_registrations` WHERE registration_id = \\?"),
			columns: columns,
			rows:    [][]driver.Value{},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	mailer := &fakeMailer{}
	service := NewApprovalService(gormDB, mailer)

	_, err := service.Reject(99, "whatever")
	if !errors.Is(err, ErrRegistrationNotFound) {
		t.Fatalf("expected ErrRegistrationNotFound, got %v", err)
	}
	if len(mailer.rejections) != 0 {
		t.Fatalf("no email should be sent for a missing registration")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func governedUserColumns() []string {
	return []string{"user_id", "name", "email", "role", "institute_code"}
}

// approveReuseSteps scripts an approval where the institute already has a SPOC
// and a mentor and the registration carries no extra members.
func approveReuseSteps() []*queryStep {
	return []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `pending_registrations` WHERE registration_id = \\?"),
			columns: []string{
				"registration_id", "team_name", "institute_code", "institute_name",
				"leader_name", "leader_email", "leader_password", "status",
			},
			rows: [][]driver.Value{{
				int64(7), "Quantum Coders", "INST-042", "Institute of Things",
				"Asha Rao", "asha@example.com", "$2a$10$registrationtimehash1234567890ab", "pending",
			}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `users` WHERE role = \\? AND institute_code = \\? AND delete_at IS NULL"),
			columns: governedUserColumns(),
			rows:    [][]driver.Value{{int64(31), "Dr. Meena Iyer", "meena@example.com", "spoc", "INST-042"}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `users` WHERE role = \\? AND institute_code = \\? AND delete_at IS NULL"),
			columns: governedUserColumns(),
			rows:    [][]driver.Value{{int64(32), "Prof. Arjun Nair", "arjun@example.com", "mentor", "INST-042"}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT count\\(\\*\\) FROM `users` WHERE email = \\?"),
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(0)}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `users`"),
			result:  scriptedResult{lastInsertID: 101, rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `institutes`"),
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `teams`"),
			result:  scriptedResult{lastInsertID: 501, rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `users` SET `team_id`"),
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `teams` SET `member_ids`"),
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `notifications`"),
			result:  scriptedResult{lastInsertID: 901, rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("DELETE FROM `pending_registrations` WHERE registration_id = \\?"),
		},
	}
}

func TestApproveReusesInstituteOfficials(t *testing.T) {
	gormDB, state, cleanup := newScriptedGormDB(t, approveReuseSteps())
	defer cleanup()

	mailer := &fakeMailer{}
	service := NewApprovalService(gormDB, mailer)

	result, err := service.Approve(7, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Existing SPOC/mentor accounts are reused, so no credentials are minted.
	if result.Credentials.Spoc != "" || result.Credentials.Mentor != "" {
		t.Fatalf("reuse must not generate credentials, got %+v", result.Credentials)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", result.Warnings)
	}

	team := result.Team
	if team == nil || team.TeamID != 501 {
		t.Fatalf("unexpected team: %+v", team)
	}
	if team.Status != "approved" {
		t.Fatalf("team status = %q", team.Status)
	}
	if team.SpocID == nil || *team.SpocID != 31 || team.MentorID == nil || *team.MentorID != 32 {
		t.Fatalf("existing officials not linked: spoc=%v mentor=%v", team.SpocID, team.MentorID)
	}
	if team.LeaderID != 101 || len(team.MemberIDs) != 1 || team.MemberIDs[0] != 101 {
		t.Fatalf("leader not on roster: leader=%d members=%v", team.LeaderID, team.MemberIDs)
	}
	if team.ApprovedBy == nil || *team.ApprovedBy != 1 {
		t.Fatalf("approver not stamped: %v", team.ApprovedBy)
	}

	if len(mailer.welcomes) != 1 || mailer.welcomes[0].to != "asha@example.com" {
		t.Fatalf("unexpected welcome emails: %+v", mailer.welcomes)
	}
	if len(mailer.credentials) != 2 {
		t.Fatalf("expected two credential emails, got %d", len(mailer.credentials))
	}
	for _, cred := range mailer.credentials {
		if !cred.isExisting || cred.password != "" {
			t.Fatalf("reused official must get the existing-account email: %+v", cred)
		}
	}

	// The staging delete is the last scripted statement, so a fully consumed
	// script means the record is gone.
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestApproveEmailFailuresBecomeWarnings(t *testing.T) {
	gormDB, state, cleanup := newScriptedGormDB(t, approveReuseSteps())
	defer cleanup()

	mailer := &fakeMailer{failWith: errors.New("smtp down")}
	service := NewApprovalService(gormDB, mailer)

	result, err := service.Approve(7, 1)
	if err != nil {
		t.Fatalf("approval must not fail on email errors, got %v", err)
	}
	if len(result.Warnings) != 3 {
		t.Fatalf("expected warnings for leader, SPOC and mentor emails, got %v", result.Warnings)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestApproveMemberEmailCollisionFailsApproval(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `pending_registrations` WHERE registration_id = \\?"),
			columns: []string{
				"registration_id", "team_name", "institute_code", "institute_name",
				"leader_name", "leader_email", "leader_password", "members", "status",
			},
			rows: [][]driver.Value{{
				int64(7), "Quantum Coders", "INST-042", "Institute of Things",
				"Asha Rao", "asha@example.com", "$2a$10$registrationtimehash1234567890ab",
				[]byte(`[{"name":"Bela","email":"bela@example.com"}]`), "pending",
			}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `users` WHERE role = \\? AND institute_code = \\? AND delete_at IS NULL"),
			columns: governedUserColumns(),
			rows:    [][]driver.Value{{int64(31), "Dr. Meena Iyer", "meena@example.com", "spoc", "INST-042"}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `users` WHERE role = \\? AND institute_code = \\? AND delete_at IS NULL"),
			columns: governedUserColumns(),
			rows:    [][]driver.Value{{int64(32), "Prof. Arjun Nair", "arjun@example.com", "mentor", "INST-042"}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT count\\(\\*\\) FROM `users` WHERE email = \\?"),
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(0)}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `users`"),
			result:  scriptedResult{lastInsertID: 101, rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `institutes`"),
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `teams`"),
			result:  scriptedResult{lastInsertID: 501, rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `users` SET `team_id`"),
		},
		// The member's email is already taken; the whole approval rolls back.
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT count\\(\\*\\) FROM `users` WHERE email = \\?"),
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(1)}},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	mailer := &fakeMailer{}
	service := NewApprovalService(gormDB, mailer)

	_, err := service.Approve(7, 1)
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if len(mailer.welcomes) != 0 || len(mailer.credentials) != 0 {
		t.Fatalf("no emails may be sent for a failed approval")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestListPendingReshapesLeader(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `pending_registrations` WHERE status = \\?"),
			args:    []driver.Value{"pending"},
			columns: []string{"registration_id", "team_name", "institute_code", "leader_name", "leader_email", "members"},
			rows: [][]driver.Value{
				{
					int64(3), "Night Owls", "INST-001", "Ravi Kumar", "ravi@example.com",
					[]byte(`[{"name":"Bela","email":"bela@example.com"}]`),
				},
			},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	service := NewApprovalService(gormDB, &fakeMailer{})

	views, err := service.ListPending()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected one view, got %d", len(views))
	}

	view := views[0]
	if view.Leader.Name != "Ravi Kumar" || view.Leader.Email != "ravi@example.com" {
		t.Fatalf("leader not reshaped: %+v", view.Leader)
	}
	if len(view.Members) != 1 || view.Members[0].Email != "bela@example.com" {
		t.Fatalf("members not decoded: %+v", view.Members)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}
