package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sdxshuai/Epicourier-Web-sub001/internal/models"
	"gorm.io/gorm"
)

// ErrShareNotFound is returned when a share token is unknown or expired.
// Both collapse into the same 404.
var ErrShareNotFound = errors.New("share link not found")

// ShareInfo is the response payload for a created share link.
type ShareInfo struct {
	ShareLink  string    `json:"shareLink"`
	ExpiryDate time.Time `json:"expiryDate"`
	Token      string    `json:"token"`
}

// SharedListView is the resolved content behind a share token.
type SharedListView struct {
	List     *models.ShoppingList `json:"list"`
	SharedBy string               `json:"sharedBy"`
}

// ShareList creates an expiring share token for an owned list. expiryDays
// zero or negative gets the 7 day default.
func ShareList(db *gorm.DB, userID string, listID uint64, expiryDays int) (*ShareInfo, error) {
	var list models.ShoppingList
	err := db.Where("id = ? AND user_id = ?", listID, userID).First(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if expiryDays <= 0 {
		expiryDays = 7
	}

	shared := models.SharedList{
		Token:     uuid.New().String(),
		ListID:    list.ID,
		UserID:    userID,
		ExpiresAt: time.Now().UTC().AddDate(0, 0, expiryDays),
	}
	if err := db.Create(&shared).Error; err != nil {
		return nil, err
	}

	return &ShareInfo{
		ShareLink:  fmt.Sprintf("/shopping-lists/share?token=%s", shared.Token),
		ExpiryDate: shared.ExpiresAt,
		Token:      shared.Token,
	}, nil
}

// ResolveShare returns the shared list (items sorted by position) for a valid
// token. Unknown and expired tokens are indistinguishable.
func ResolveShare(db *gorm.DB, token string) (*SharedListView, error) {
	var shared models.SharedList
	err := db.Where("token = ? AND expires_at > ?", token, time.Now().UTC()).
		First(&shared).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShareNotFound
		}
		return nil, err
	}

	list, err := GetList(db, shared.UserID, shared.ListID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// List deleted since sharing
			return nil, ErrShareNotFound
		}
		return nil, err
	}

	return &SharedListView{List: list, SharedBy: shared.UserID}, nil
}
