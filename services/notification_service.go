package services

import (
	"errors"
	"fmt"
	"time"

	"hackathon-management-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationWithRead is a notification annotated with the caller's read
// state. Unread state is always derived from the read-tracking set.
type NotificationWithRead struct {
	models.Notification
	IsRead bool `json:"is_read"`
}

// NotificationService resolves notification visibility at query time; there
// is no precomputed fan-out table.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// Create persists a notification document.
func (s *NotificationService) Create(n *models.Notification) error {
	n.IsActive = true
	if n.CreateAt.IsZero() {
		n.CreateAt = time.Now()
	}
	return s.db.Create(n).Error
}

// IsVisibleTo is the visibility predicate: a notification is visible to a
// user when it is broadcast, matches the user's role class, lists the user
// explicitly, or is institute-scoped custom and the institutes match.
func IsVisibleTo(n *models.Notification, userID uint, role, instituteCode string) bool {
	if !n.IsActive {
		return false
	}
	if n.Audience == models.AudienceAll {
		return true
	}
	if n.Audience == models.AudienceForRole(role) {
		return true
	}
	for _, id := range n.RecipientIDs {
		if id == userID {
			return true
		}
	}
	if n.Audience == models.AudienceCustom && n.InstituteCode != "" && n.InstituteCode == instituteCode {
		return true
	}
	return false
}

// visibleScope is the SQL form of IsVisibleTo. An untagged custom
// notification reaches its explicit recipients only, so the institute clause
// never matches an empty tag.
func (s *NotificationService) visibleScope(userID uint, role, instituteCode string) *gorm.DB {
	return s.db.Model(&models.Notification{}).
		Where("is_active = ?", true).
		Where("audience = ? OR audience = ? OR (audience = ? AND institute_code <> '' AND institute_code = ?) OR JSON_CONTAINS(recipient_ids, ?)",
			models.AudienceAll,
			models.AudienceForRole(role),
			models.AudienceCustom,
			instituteCode,
			fmt.Sprintf("%d", userID),
		)
}

// ListVisible returns the notifications visible to the user, newest first,
// each annotated with the caller's read state.
func (s *NotificationService) ListVisible(userID uint, role, instituteCode string, unreadOnly bool, limit, offset int) ([]NotificationWithRead, error) {
	query := s.visibleScope(userID, role, instituteCode)
	if unreadOnly {
		query = query.Where(
			"notification_id NOT IN (SELECT notification_id FROM notification_reads WHERE user_id = ?)",
			userID,
		)
	}

	var items []models.Notification
	if err := query.Order("create_at DESC").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}

	readSet, err := s.readSet(userID, items)
	if err != nil {
		return nil, err
	}

	out := make([]NotificationWithRead, 0, len(items))
	for _, n := range items {
		out = append(out, NotificationWithRead{Notification: n, IsRead: readSet[n.NotificationID]})
	}
	return out, nil
}

// UnreadCount derives the unread counter from the visibility predicate and
// the read-tracking set.
func (s *NotificationService) UnreadCount(userID uint, role, instituteCode string) (int64, error) {
	var count int64
	err := s.visibleScope(userID, role, instituteCode).
		Where("notification_id NOT IN (SELECT notification_id FROM notification_reads WHERE user_id = ?)", userID).
		Count(&count).Error
	return count, err
}

// MarkRead records the user in the notification's read set. Idempotent: the
// unique index on (notification_id, user_id) gives set semantics.
func (s *NotificationService) MarkRead(userID uint, notificationID uint, role, instituteCode string) error {
	var n models.Notification
	if err := s.db.First(&n, "notification_id = ?", notificationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	if !IsVisibleTo(&n, userID, role, instituteCode) {
		return ErrNotificationNotFound
	}

	read := models.NotificationRead{
		NotificationID: notificationID,
		UserID:         userID,
		ReadAt:         time.Now(),
	}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&read).Error
}

// MarkAllRead adds the user to the read set of every visible unread
// notification in one pass. Returns how many were marked.
func (s *NotificationService) MarkAllRead(userID uint, role, instituteCode string) (int64, error) {
	var ids []uint
	err := s.visibleScope(userID, role, instituteCode).
		Where("notification_id NOT IN (SELECT notification_id FROM notification_reads WHERE user_id = ?)", userID).
		Pluck("notification_id", &ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	now := time.Now()
	reads := make([]models.NotificationRead, 0, len(ids))
	for _, id := range ids {
		reads = append(reads, models.NotificationRead{NotificationID: id, UserID: userID, ReadAt: now})
	}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&reads).Error; err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}

// Deactivate soft-disables a notification; documents are never hard-deleted.
func (s *NotificationService) Deactivate(notificationID uint) error {
	result := s.db.Model(&models.Notification{}).
		Where("notification_id = ?", notificationID).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *NotificationService) readSet(userID uint, items []models.Notification) (map[uint]bool, error) {
	set := map[uint]bool{}
	if len(items) == 0 {
		return set, nil
	}
	ids := make([]uint, 0, len(items))
	for _, n := range items {
		ids = append(ids, n.NotificationID)
	}
	var reads []models.NotificationRead
	if err := s.db.Where("user_id = ? AND notification_id IN ?", userID, ids).Find(&reads).Error; err != nil {
		return nil, err
	}
	for _, r := range reads {
		set[r.NotificationID] = true
	}
	return set, nil
}
