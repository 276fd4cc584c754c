package models

import "gorm.io/gorm"

// Migrate creates/updates the schema for every model. Called once from main
// after the database connection is established.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Institute{},
		&PendingRegistration{},
		&Team{},
		&Submission{},
		&SubmissionSettings{},
		&Notification{},
		&NotificationRead{},
		&ProblemStatement{},
		&Announcement{},
		&Certificate{},
	)
}
