package farm

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"github.com/agrisense/agrisense-server/pkg/common"
	"github.com/agrisense/agrisense-server/pkg/models"
)

const (
	apiKeyPrefix       = "agri_"
	apiKeySecretLength = 32
	bcryptCost         = bcrypt.DefaultCost
)

func (f *Farm) userLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameFarmCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryUser),
	)
}

func (f *Farm) registerUser(name, email, password string, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	var existing int64
	if err := f.Db.Conn.Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := f.Db.Conn.Create(&user).Error; err != nil {
		return nil, err
	}

	f.userLogger().Info("User registered",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)))
	return &user, nil
}

func (f *Farm) authenticateUser(email, password string) (*models.User, error) {
	var user models.User
	err := f.Db.Conn.First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBadCredential
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrBadCredential
	}
	return &user, nil
}

func (f *Farm) changePassword(userID, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}

	result := f.Db.Conn.Model(&models.User{}).Where("id = ?", userID).Update("password_hash", string(hash))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	f.userLogger().Info("Password changed", zap.String("user_id", userID))
	return nil
}

func (f *Farm) listUsers() ([]models.User, error) {
	var users []models.User
	err := f.Db.Conn.Order("created_at asc").Find(&users).Error
	return users, err
}

// deleteUser removes the user and cascades to their pump history entries.
// An admin cannot delete their own account.
func (f *Farm) deleteUser(userID, callerID string) error {
	if userID == callerID {
		return ErrSelfDelete
	}

	result := f.Db.Conn.Delete(&models.User{}, "id = ?", userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	if err := f.Db.Conn.Delete(&models.PumpHistoryEntry{}, "user_id = ?", userID).Error; err != nil {
		return err
	}
	if err := f.Db.Conn.Delete(&models.Message{}, "user_id = ?", userID).Error; err != nil {
		return err
	}

	f.userLogger().Info("User deleted",
		zap.String("user_id", userID),
		zap.String("deleted_by", callerID))
	return nil
}

// createAPIKey mints a bearer key for device access. The plaintext is
// returned exactly once; only its bcrypt hash is stored.
func (f *Farm) createAPIKey(name string) (*models.APIKey, string, error) {
	secret := make([]byte, apiKeySecretLength)
	if _, err := rand.Read(secret); err != nil {
		return nil, "", err
	}
	raw := apiKeyPrefix + base64.RawURLEncoding.EncodeToString(secret)

	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcryptCost)
	if err != nil {
		return nil, "", err
	}

	key := models.APIKey{
		ID:      uuid.NewString(),
		Name:    name,
		KeyHash: string(hash),
	}
	if err := f.Db.Conn.Create(&key).Error; err != nil {
		return nil, "", err
	}

	f.userLogger().Info("API key created",
		zap.String("key_id", key.ID),
		zap.String("name", key.Name))
	return &key, raw, nil
}

func (f *Farm) verifyAPIKey(raw string) (*models.APIKey, error) {
	if !strings.HasPrefix(raw, apiKeyPrefix) {
		return nil, ErrBadCredential
	}

	var keys []models.APIKey
	if err := f.Db.Conn.Find(&keys).Error; err != nil {
		return nil, err
	}

	for i := range keys {
		if bcrypt.CompareHashAndPassword([]byte(keys[i].KeyHash), []byte(raw)) == nil {
			now := time.Now()
			f.Db.Conn.Model(&keys[i]).Update("last_used_at", &now)
			return &keys[i], nil
		}
	}
	return nil, ErrBadCredential
}

func (f *Farm) sendMessage(sentBy, body string, userID *string) (*models.Message, error) {
	if body == "" {
		return nil, fmt.Errorf("empty message body")
	}
	if userID != nil {
		var count int64
		if err := f.Db.Conn.Model(&models.User{}).Where("id = ?", *userID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrNotFound
		}
	}

	message := models.Message{
		UserID: userID,
		SentBy: sentBy,
		Body:   body,
	}
	if err := f.Db.Conn.Create(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// listMessages returns the user's direct messages plus broadcasts.
func (f *Farm) listMessages(userID string) ([]models.Message, error) {
	var messages []models.Message
	err := f.Db.Conn.
		Where("user_id = ? OR user_id IS NULL", userID).
		Order("created_at desc").
		Find(&messages).Error
	return messages, err
}

type IUserImpl struct {
	farm *Farm
}

func (iu *IUserImpl) Register(name, email, password string, role models.Role) (*models.User, error) {
	return iu.farm.registerUser(name, email, password, role)
}

func (iu *IUserImpl) Authenticate(email, password string) (*models.User, error) {
	return iu.farm.authenticateUser(email, password)
}

func (iu *IUserImpl) ChangePassword(userID, newPassword string) error {
	return iu.farm.changePassword(userID, newPassword)
}

func (iu *IUserImpl) ListUsers() ([]models.User, error) {
	return iu.farm.listUsers()
}

func (iu *IUserImpl) DeleteUser(userID, callerID string) error {
	return iu.farm.deleteUser(userID, callerID)
}

func (iu *IUserImpl) CreateAPIKey(name string) (*models.APIKey, string, error) {
	return iu.farm.createAPIKey(name)
}

func (iu *IUserImpl) VerifyAPIKey(raw string) (*models.APIKey, error) {
	return iu.farm.verifyAPIKey(raw)
}

func (iu *IUserImpl) SendMessage(sentBy, body string, userID *string) (*models.Message, error) {
	return iu.farm.sendMessage(sentBy, body, userID)
}

func (iu *IUserImpl) ListMessages(userID string) ([]models.Message, error) {
	return iu.farm.listMessages(userID)
}

func (f *Farm) GetIUser() IUser {
	return &IUserImpl{farm: f}
}
