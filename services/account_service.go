package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"hackathon-management-api/models"
	"hackathon-management-api/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEmailTaken   = errors.New("an account with this email already exists")
	ErrUserNotFound = errors.New("user not found")
)

// GovernedRoleConflictError reports a second SPOC/mentor for one institute.
// The message text is shown to admins as-is.
type GovernedRoleConflictError struct {
	Role          string
	HolderName    string
	InstituteCode string
}

func (e *GovernedRoleConflictError) Error() string {
	label := GovernedRoleLabel(e.Role)
	return fmt.Sprintf("A %s (%s) is already registered for institute code %s. Only one %s per institute is allowed.",
		label, e.HolderName, e.InstituteCode, label)
}

// GovernedRoleLabel returns the display label used in conflict messages and
// credential emails.
func GovernedRoleLabel(role string) string {
	switch role {
	case models.RoleSpoc:
		return "SPOC"
	case models.RoleMentor:
		return "Mentor"
	case models.RoleJudge:
		return "Judge"
	}
	if role == "" {
		return ""
	}
	return strings.ToUpper(role[:1]) + role[1:]
}

// CreateAccountInput describes an account to provision.
type CreateAccountInput struct {
	Name          string
	Email         string
	Password      string // plaintext; empty means generate one
	Role          string
	InstituteCode string
	InstituteName string
	District      *string
	State         *string
	Expertise     models.StringList
	Phone         *string
}

type AccountService struct {
	db *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// Create provisions an account. It pre-checks the email and the
// one-SPOC/one-mentor-per-institute invariant so callers get a readable
// conflict message; the unique indexes still back both checks under
// concurrent writes. Returns the generated password when one was issued.
func (s *AccountService) Create(input CreateAccountInput) (*models.User, string, error) {
	var user *models.User
	var generated string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		created, password, err := CreateAccount(tx, input)
		if err != nil {
			return err
		}
		user = created
		generated = password
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return user, generated, nil
}

// CreateAccount is the transaction-scoped provisioning primitive shared by
// admin account creation, student signup and the approval workflow.
func CreateAccount(tx *gorm.DB, input CreateAccountInput) (*models.User, string, error) {
	code := utils.NormalizeInstituteCode(input.InstituteCode)

	if err := checkEmailFree(tx, input.Email); err != nil {
		return nil, "", err
	}
	if err := checkGovernedRoleFree(tx, input.Role, code); err != nil {
		return nil, "", err
	}

	generated := ""
	password := input.Password
	if password == "" {
		var err error
		password, err = utils.GenerateRandomPassword(12)
		if err != nil {
			return nil, "", err
		}
		generated = password
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Name:          strings.TrimSpace(input.Name),
		Email:         strings.ToLower(strings.TrimSpace(input.Email)),
		Role:          input.Role,
		InstituteCode: code,
		InstituteName: strings.TrimSpace(input.InstituteName),
		District:      input.District,
		State:         input.State,
		Expertise:     input.Expertise,
		Phone:         input.Phone,
	}
	if err := CreateUserWithPrehashedPassword(tx, user, hash); err != nil {
		return nil, "", err
	}

	if code != "" {
		if _, err := UpsertInstitute(tx, code, input.InstituteName); err != nil {
			return nil, "", err
		}
	}

	return user, generated, nil
}

// CreateUserWithPrehashedPassword stores an account whose password was already
// hashed upstream (registration hashes the leader password once). The hash is
// written as-is; nothing in this path re-hashes it.
func CreateUserWithPrehashedPassword(tx *gorm.DB, user *models.User, passwordHash string) error {
	user.Password = passwordHash
	user.GovernedRoleKey = models.GovernedKey(user.Role, user.InstituteCode)
	user.CreateAt = time.Now()
	return tx.Create(user).Error
}

// FindGovernedUser returns the institute's SPOC or mentor account, or nil if
// none exists yet.
func FindGovernedUser(tx *gorm.DB, role, instituteCode string) (*models.User, error) {
	var user models.User
	err := tx.Where("role = ? AND institute_code = ? AND delete_at IS NULL", role, instituteCode).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpsertInstitute creates or refreshes the institute directory entry for a
// code. Idempotent by code; the display name follows the latest caller.
func UpsertInstitute(tx *gorm.DB, code, name string) (*models.Institute, error) {
	now := time.Now()
	institute := models.Institute{
		Code:     utils.NormalizeInstituteCode(code),
		Name:     strings.TrimSpace(name),
		IsActive: true,
		CreateAt: now,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "code"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"name":      institute.Name,
			"is_active": true,
			"update_at": now,
		}),
	}).Create(&institute).Error
	if err != nil {
		return nil, err
	}
	return &institute, nil
}

func checkEmailFree(tx *gorm.DB, email string) error {
	var count int64
	if err := tx.Model(&models.User{}).
		Where("email = ? AND delete_at IS NULL", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}
	return nil
}

func checkGovernedRoleFree(tx *gorm.DB, role, instituteCode string) error {
	if models.GovernedKey(role, instituteCode) == nil {
		return nil
	}
	holder, err := FindGovernedUser(tx, role, instituteCode)
	if err != nil {
		return err
	}
	if holder != nil {
		return &GovernedRoleConflictError{Role: role, HolderName: holder.Name, InstituteCode: instituteCode}
	}
	return nil
}
