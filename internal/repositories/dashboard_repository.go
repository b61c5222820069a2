package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	dbm "fullgorilla/internal/models/db_models"
)

// DashboardRepository backs the admin report.
type DashboardRepository interface {
	CountTotalAccounts(ctx context.Context) (int64, error)
	CountNewAccounts(ctx context.Context, start, end time.Time) (int64, error)
	CountQuestionnaireCompleted(ctx context.Context) (int64, error)
	CountSubscriptionsByStatus(ctx context.Context, status dbm.SubscriptionStatus) (int64, error)

	NewUsersSeries(ctx context.Context, start, end time.Time, interval, tz string) ([]BucketSum, error)
	CompletionsSeries(ctx context.Context, start, end time.Time, interval, tz string) ([]BucketSum, error)

	PlanMix(ctx context.Context) ([]PlanMixRow, error)
	TopCookbooks(ctx context.Context, limit int) ([]CookbookCountRow, error)
	AverageRating(ctx context.Context) (float64, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

type BucketSum struct {
	Bucket time.Time `gorm:"column:bucket"`
	Sum    int64     `gorm:"column:sum"`
}

type PlanMixRow struct {
	Plan  string `gorm:"column:plan"`
	Count int64  `gorm:"column:count"`
}

type CookbookCountRow struct {
	Slug  string `gorm:"column:slug"`
	Name  string `gorm:"column:name"`
	Count int64  `gorm:"column:count"`
}

// dateTrunc buckets a column holding UNIX seconds, optionally in a named zone.
func dateTrunc(tz string, unixColumn string) string {
	if tz == "" {
		return "date_trunc(?, to_timestamp(" + unixColumn + "))"
	}
	return "date_trunc(?, timezone(?, to_timestamp(" + unixColumn + ")))"
}

func truncArgs(interval, tz string) []any {
	if tz == "" {
		return []any{interval}
	}
	return []any{interval, tz}
}

func (r *dashboardRepository) CountTotalAccounts(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbm.Account{}).Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountNewAccounts(ctx context.Context, start, end time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.Account{}).
		Where("created_at BETWEEN ? AND ?", start.Unix(), end.Unix()).
		Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountQuestionnaireCompleted(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.Account{}).
		Where("questionnaire_completed = ?", true).
		Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountSubscriptionsByStatus(ctx context.Context, status dbm.SubscriptionStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.Subscription{}).
		Where("status = ?", status).
		Count(&n).Error
	return n, err
}

func (r *dashboardRepository) series(ctx context.Context, table, column string, start, end time.Time, interval, tz string) ([]BucketSum, error) {
	var rows []BucketSum
	err := r.db.WithContext(ctx).
		Table(table).
		Select(dateTrunc(tz, column)+" AS bucket, COUNT(*) AS sum", truncArgs(interval, tz)...).
		Where(column+" BETWEEN ? AND ?", start.Unix(), end.Unix()).
		Group("bucket").
		Order("bucket ASC").
		Find(&rows).Error
	return rows, err
}

func (r *dashboardRepository) NewUsersSeries(ctx context.Context, start, end time.Time, interval, tz string) ([]BucketSum, error) {
	return r.series(ctx, "accounts", "created_at", start, end, interval, tz)
}

// CompletionsSeries counts stored questionnaires by the time they were last saved.
func (r *dashboardRepository) CompletionsSeries(ctx context.Context, start, end time.Time, interval, tz string) ([]BucketSum, error) {
	return r.series(ctx, "questionnaire_responses", "updated_at", start, end, interval, tz)
}

func (r *dashboardRepository) PlanMix(ctx context.Context) ([]PlanMixRow, error) {
	var rows []PlanMixRow
	err := r.db.WithContext(ctx).
		Table("subscriptions").
		Select("plan, COUNT(*) AS count").
		Where("status IN ?", []dbm.SubscriptionStatus{dbm.SubStatusActive, dbm.SubStatusPastDue}).
		Where("deleted_at IS NULL").
		Group("plan").
		Order("count DESC").
		Find(&rows).Error
	return rows, err
}

// TopCookbooks ranks cookbooks by how many accounts were granted them.
func (r *dashboardRepository) TopCookbooks(ctx context.Context, limit int) ([]CookbookCountRow, error) {
	var rows []CookbookCountRow
	err := r.db.WithContext(ctx).
		Table("user_cookbook_accesses uca").
		Select("c.slug, c.name, COUNT(*) AS count").
		Joins("JOIN cookbooks c ON c.id = uca.cookbook_id").
		Where("uca.deleted_at IS NULL").
		Group("c.slug, c.name").
		Order("count DESC, c.slug ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *dashboardRepository) AverageRating(ctx context.Context) (float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).
		Model(&dbm.MealRating{}).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}
