package models

import (
	"gorm.io/gorm"
)

// UserDAO 封装 User 相关的数据库操作
type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{db: db}
}

func (dao *UserDAO) Create(user *User) error {
	return dao.db.Create(user).Error
}

func (dao *UserDAO) FindByID(id uint64) (*User, error) {
	var u User
	if err := dao.db.Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (dao *UserDAO) FindByUID(uid string) (*User, error) {
	var u User
	if err := dao.db.Where("uid = ?", uid).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (dao *UserDAO) FindByUsername(username string) (*User, error) {
	var u User
	if err := dao.db.Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (dao *UserDAO) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := dao.db.Model(&User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// PrimaryAvatarURL 取用户当前主头像地址，没有则返回空串。
func (dao *UserDAO) PrimaryAvatarURL(userID uint64) (string, error) {
	var a Avatar
	err := dao.db.Where("user_id = ? AND is_primary = ?", userID, true).
		Order("updated_at DESC").Limit(1).Find(&a).Error
	if err != nil {
		return "", err
	}
	return a.URL, nil
}

// PrimaryAvatarURLs 批量取主头像：map[userID]url，没有主头像的用户不在 map 里。
func (dao *UserDAO) PrimaryAvatarURLs(userIDs []uint64) (map[uint64]string, error) {
	out := make(map[uint64]string, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var avatars []Avatar
	err := dao.db.Where("user_id IN ? AND is_primary = ?", userIDs, true).Find(&avatars).Error
	if err != nil {
		return nil, err
	}
	for _, a := range avatars {
		out[a.UserID] = a.URL
	}
	return out, nil
}
