package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cydxin/social-sdk/cons"
	"github.com/cydxin/social-sdk/models"
	"gorm.io/gorm"
)

// ModerationService 举报 / 认证 / 申诉三条队列，外加管理员处置
// 所有裁决都是终态：pending 行过了这一关就不会再被改写。
type ModerationService struct {
	*Service
}

func NewModerationService(s *Service) *ModerationService {
	return &ModerationService{Service: s}
}

// ---------------------------------------------------------------- 普通用户入口

// CreateReport 举报用户 / 帖子 / 评论。
func (s *ModerationService) CreateReport(reporterID uint64, targetType string, targetID uint64, reason string) (uint64, error) {
	if strings.TrimSpace(reason) == "" {
		return 0, fmt.Errorf("%w: reason required", ErrInvalid)
	}
	var err error
	switch targetType {
	case "user":
		err = s.DB.Where("id = ?", targetID).First(&models.User{}).Error
	case "post":
		err = s.DB.Where("id = ?", targetID).First(&models.Post{}).Error
	case "comment":
		err = s.DB.Where("id = ?", targetID).First(&models.Comment{}).Error
	default:
		return 0, fmt.Errorf("%w: unknown target type %q", ErrInvalid, targetType)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: %s %d", ErrNotFound, targetType, targetID)
		}
		return 0, err
	}
	r := models.Report{
		ReporterID: reporterID,
		TargetType: targetType,
		TargetID:   targetID,
		Reason:     reason,
		Status:     models.ReviewPending,
	}
	if err := s.DB.Create(&r).Error; err != nil {
		return 0, err
	}
	return r.ID, nil
}

// RequestVerification 申请认证。已有 pending 申请时拒绝重复提交。
func (s *ModerationService) RequestVerification(userID uint64, kind string) (uint64, error) {
	switch kind {
	case models.VerifyStandard, models.VerifyArtist:
	default:
		return 0, fmt.Errorf("%w: unknown verification type %q", ErrInvalid, kind)
	}
	var cnt int64
	err := s.DB.Model(&models.VerificationRequest{}).
		Where("user_id = ? AND status = ?", userID, models.ReviewPending).
		Count(&cnt).Error
	if err != nil {
		return 0, err
	}
	if cnt > 0 {
		return 0, fmt.Errorf("%w: verification already pending", ErrConflict)
	}
	v := models.VerificationRequest{
		UserID: userID,
		Type:   kind,
		Status: models.ReviewPending,
	}
	if err := s.DB.Create(&v).Error; err != nil {
		return 0, err
	}
	return v.ID, nil
}

// CreateAppeal 被封禁用户提交申诉。
func (s *ModerationService) CreateAppeal(userID uint64, reason string) (uint64, error) {
	if strings.TrimSpace(reason) == "" {
		return 0, fmt.Errorf("%w: reason required", ErrInvalid)
	}
	var cnt int64
	err := s.DB.Model(&models.AppealRequest{}).
		Where("user_id = ? AND status = ?", userID, models.ReviewPending).
		Count(&cnt).Error
	if err != nil {
		return 0, err
	}
	if cnt > 0 {
		return 0, fmt.Errorf("%w: appeal already pending", ErrConflict)
	}
	a := models.AppealRequest{
		UserID: userID,
		Reason: reason,
		Status: models.ReviewPending,
	}
	if err := s.DB.Create(&a).Error; err != nil {
		return 0, err
	}
	return a.ID, nil
}

// ---------------------------------------------------------------- 管理员队列

func (s *ModerationService) PendingReports() ([]models.Report, error) {
	var rows []models.Report
	err := s.DB.Where("status = ?", models.ReviewPending).
		Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (s *ModerationService) PendingVerifications() ([]models.VerificationRequest, error) {
	var rows []models.VerificationRequest
	err := s.DB.Where("status = ?", models.ReviewPending).
		Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (s *ModerationService) PendingAppeals() ([]models.AppealRequest, error) {
	var rows []models.AppealRequest
	err := s.DB.Where("status = ?", models.ReviewPending).
		Order("created_at ASC").Find(&rows).Error
	return rows, err
}

// ---------------------------------------------------------------- 管理员裁决

// ApproveVerification 通过认证：artist 申请同时点亮 is_verified 和 is_artist。
// 非 pending 的申请返回冲突。
func (s *ModerationService) ApproveVerification(requestID uint64) error {
	var req models.VerificationRequest
	if err := s.DB.Where("id = ?", requestID).First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: verification %d", ErrNotFound, requestID)
		}
		return err
	}

	var notif *models.Notification
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.VerificationRequest{}).
			Where("id = ? AND status = ?", requestID, models.ReviewPending).
			Update("status", models.ReviewApproved)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: verification already resolved", ErrConflict)
		}
		updates := map[string]interface{}{"is_verified": true}
		if req.Type == models.VerifyArtist {
			updates["is_artist"] = true
		}
		if err := tx.Model(&models.User{}).Where("id = ?", req.UserID).Updates(updates).Error; err != nil {
			return err
		}
		n, err := s.Notify.PublishTx(tx, req.UserID, nil, cons.NotifyVerification, nil, "您的认证申请已通过")
		if err != nil {
			return err
		}
		notif = n
		return nil
	})
	if err != nil {
		return err
	}
	s.Notify.Push(notif)
	return nil
}

// RejectVerification 驳回认证，不改用户标记。
func (s *ModerationService) RejectVerification(requestID uint64) error {
	var req models.VerificationRequest
	if err := s.DB.Where("id = ?", requestID).First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: verification %d", ErrNotFound, requestID)
		}
		return err
	}
	var notif *models.Notification
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.VerificationRequest{}).
			Where("id = ? AND status = ?", requestID, models.ReviewPending).
			Update("status", models.ReviewRejected)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: verification already resolved", ErrConflict)
		}
		n, err := s.Notify.PublishTx(tx, req.UserID, nil, cons.NotifyVerification, nil, "您的认证申请未通过")
		if err != nil {
			return err
		}
		notif = n
		return nil
	})
	if err != nil {
		return err
	}
	s.Notify.Push(notif)
	return nil
}

// ResolveReport 处理举报：dismiss 直接归档，action 同时隐藏被举报的帖子。
func (s *ModerationService) ResolveReport(reportID uint64, outcome string) error {
	switch outcome {
	case models.ReportDismissed, models.ReportActioned:
	default:
		return fmt.Errorf("%w: unknown outcome %q", ErrInvalid, outcome)
	}
	var rep models.Report
	if err := s.DB.Where("id = ?", reportID).First(&rep).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: report %d", ErrNotFound, reportID)
		}
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Report{}).
			Where("id = ? AND status = ?", reportID, models.ReviewPending).
			Update("status", outcome)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: report already resolved", ErrConflict)
		}
		if outcome == models.ReportActioned {
			// action 裁决对内容类目标做下架
			switch rep.TargetType {
			case "post":
				return tx.Model(&models.Post{}).Where("id = ?", rep.TargetID).
					Update("is_hidden", true).Error
			case "comment":
				return tx.Model(&models.Comment{}).Where("id = ?", rep.TargetID).
					Update("is_hidden", true).Error
			}
		}
		return nil
	})
}

// ResolveAppeal 处理申诉：通过则解除封禁，驳回不动用户状态。
func (s *ModerationService) ResolveAppeal(appealID uint64, approve bool) error {
	var app models.AppealRequest
	if err := s.DB.Where("id = ?", appealID).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: appeal %d", ErrNotFound, appealID)
		}
		return err
	}
	status := models.ReviewRejected
	if approve {
		status = models.ReviewApproved
	}

	var notif *models.Notification
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.AppealRequest{}).
			Where("id = ? AND status = ?", appealID, models.ReviewPending).
			Update("status", status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: appeal already resolved", ErrConflict)
		}
		content := "您的申诉未通过"
		if approve {
			content = "您的申诉已通过，账号已解封"
			if err := tx.Model(&models.User{}).Where("id = ?", app.UserID).
				Update("is_blocked", false).Error; err != nil {
				return err
			}
		}
		n, err := s.Notify.PublishTx(tx, app.UserID, nil, cons.NotifyAppeal, nil, content)
		if err != nil {
			return err
		}
		notif = n
		return nil
	})
	if err != nil {
		return err
	}
	s.Notify.Push(notif)
	return nil
}

// ---------------------------------------------------------------- 管理员直接处置

// BlockUser 封禁用户并累计封禁次数。
func (s *ModerationService) BlockUser(userID uint64) error {
	res := s.DB.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"is_blocked":  true,
			"block_count": gorm.Expr("block_count + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	return nil
}

// UnblockUser 解封。
func (s *ModerationService) UnblockUser(userID uint64) error {
	res := s.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("is_blocked", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	return nil
}

// HidePost 管理员下架帖子（不走作者归属检查）。
func (s *ModerationService) HidePost(postID uint64) error {
	res := s.DB.Model(&models.Post{}).Where("id = ?", postID).
		Update("is_hidden", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: post %d", ErrNotFound, postID)
	}
	return nil
}

// AddRelease 给音乐人账号追加作品条目。
func (s *ModerationService) AddRelease(artistID uint64, title, artistName, coverURL, audioURL string) (uint64, error) {
	if strings.TrimSpace(title) == "" {
		return 0, fmt.Errorf("%w: title required", ErrInvalid)
	}
	var u models.User
	if err := s.DB.Where("id = ?", artistID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: user %d", ErrNotFound, artistID)
		}
		return 0, err
	}
	if !u.IsArtist {
		return 0, fmt.Errorf("%w: not an artist account", ErrForbidden)
	}
	r := models.Release{
		ArtistID:   artistID,
		Title:      title,
		ArtistName: artistName,
		CoverURL:   coverURL,
		AudioURL:   audioURL,
	}
	if err := s.DB.Create(&r).Error; err != nil {
		return 0, err
	}
	return r.ID, nil
}
