package analytics

import (
	"context"
	"math"
	"time"

	"propertyhub-backend/internal/domain"
	"propertyhub-backend/internal/pkg/apperrors"
	"propertyhub-backend/internal/platform/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound        = apperrors.NotFound("Not found")
	ErrSessionRequired = apperrors.Unauthenticated("Unauthorized")
)

type Service struct {
	DB      *gorm.DB
	Metrics *metrics.Manager
	Now     func() time.Time // defaults to time.Now
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// RecordView bumps the listing's view counter and logs a PropertyView in one
// transaction. Every call counts; there is no per-visitor dedupe.
func (s *Service) RecordView(ctx context.Context, listingID uuid.UUID) error {
	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	res := tx.Model(&domain.Listing{}).Where("id = ?", listingID).UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		tx.Rollback()
		return res.Error
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return ErrNotFound
	}
	if err := tx.Create(&domain.PropertyView{ListingID: listingID, CreatedAt: s.now()}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}
	s.Metrics.View()
	return nil
}

type Activity struct {
	Date      string `json:"date"`
	Views     int64  `json:"views"`
	Favorites int64  `json:"favorites"`
	Reviews   int64  `json:"reviews"`
}

type Dashboard struct {
	TotalListings  int64      `json:"totalListings"`
	TotalViews     int64      `json:"totalViews"`
	TotalFavorites int64      `json:"totalFavorites"`
	TotalReviews   int64      `json:"totalReviews"`
	AveragePrice   int64      `json:"averagePrice"`
	RecentActivity []Activity `json:"recentActivity"`
}

// Dashboard aggregates platform-wide figures. With mine set, every figure is limited
// to listings the session user owns or agents.
func (s *Service) Dashboard(ctx context.Context, session *domain.Session, mine bool) (*Dashboard, error) {
	if mine && session == nil {
		return nil, ErrSessionRequired
	}
	db := s.DB.WithContext(ctx)

	scopeListings := func(q *gorm.DB) *gorm.DB {
		if mine {
			return q.Where("owner_id = ? OR agent_id = ?", session.UserID, session.UserID)
		}
		return q
	}
	scopeChildren := func(q *gorm.DB) *gorm.DB {
		if mine {
			sub := db.Model(&domain.Listing{}).Select("id").Where("owner_id = ? OR agent_id = ?", session.UserID, session.UserID)
			return q.Where("listing_id IN (?)", sub)
		}
		return q
	}

	var agg struct {
		Count int64
		Views int64
		Price float64
	}
	if err := scopeListings(db.Model(&domain.Listing{})).
		Select("COUNT(*) AS count, COALESCE(SUM(views), 0) AS views, COALESCE(SUM(price), 0) AS price").
		Scan(&agg).Error; err != nil {
		return nil, err
	}

	out := &Dashboard{TotalListings: agg.Count, TotalViews: agg.Views}
	if agg.Count > 0 {
		out.AveragePrice = roundHalfUp(agg.Price / float64(agg.Count))
	}
	if err := scopeChildren(db.Model(&domain.Favorite{})).Count(&out.TotalFavorites).Error; err != nil {
		return nil, err
	}
	if err := scopeChildren(db.Model(&domain.Review{})).Count(&out.TotalReviews).Error; err != nil {
		return nil, err
	}

	midnight := startOfDay(s.now())
	today := Activity{Date: "Today"}
	if err := scopeChildren(db.Model(&domain.PropertyView{})).Where("created_at >= ?", midnight).Count(&today.Views).Error; err != nil {
		return nil, err
	}
	if err := scopeChildren(db.Model(&domain.Favorite{})).Where("created_at >= ?", midnight).Count(&today.Favorites).Error; err != nil {
		return nil, err
	}
	if err := scopeChildren(db.Model(&domain.Review{})).Where("created_at >= ?", midnight).Count(&today.Reviews).Error; err != nil {
		return nil, err
	}
	out.RecentActivity = []Activity{today}
	return out, nil
}

// roundHalfUp matches Math.round: halves go toward +Inf.
func roundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
