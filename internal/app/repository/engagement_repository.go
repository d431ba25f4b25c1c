package repository

import (
	"context"
	"fmt"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/model"
	"github.com/deliciousroute/deliciousroute-backend/pkg/logger"
	"gorm.io/gorm"
)

// EngagementRepository stores like/save edges. Uniqueness of (target, user)
// is enforced by the schema, not by this code.
type EngagementRepository interface {
	WithTx(tx *gorm.DB) EngagementRepository
	// Insert adds the edge and reports whether a row was written. A false
	// result means the edge already existed.
	Insert(ctx context.Context, kind model.EngagementKind, target model.TargetType, targetID, userID uint) (bool, error)
	Delete(ctx context.Context, kind model.EngagementKind, target model.TargetType, targetID, userID uint) error
	Count(ctx context.Context, kind model.EngagementKind, target model.TargetType, targetID uint) (int64, error)
	CountByTargets(ctx context.Context, kind model.EngagementKind, target model.TargetType, targetIDs []uint) (map[uint]int64, error)
	ListVendorsByUser(ctx context.Context, kind model.EngagementKind, userID uint) ([]model.Vendor, error)
}

type engagementRepository struct {
	db *gorm.DB
}

func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func (r *engagementRepository) WithTx(tx *gorm.DB) EngagementRepository {
	return &engagementRepository{db: tx}
}

func edgeTable(kind model.EngagementKind, target model.TargetType) (string, string, error) {
	table, column, ok := model.EdgeTable(kind, target)
	if !ok {
		return "", "", fmt.Errorf("unknown engagement %s on %s", kind, target)
	}
	return table, column, nil
}

func (r *engagementRepository) Insert(ctx context.Context, kind model.EngagementKind, target model.TargetType, targetID, userID uint) (bool, error) {
	table, column, err := edgeTable(kind, target)
	if err != nil {
		return false, err
	}

	// ON CONFLICT DO NOTHING is understood by both postgres and sqlite
	query := fmt.Sprintf(
		"INSERT INTO %s (%s, user_id, created_at) VALUES (?, ?, ?) ON CONFLICT (%s, user_id) DO NOTHING",
		table, column, column,
	)
	result := r.db.WithContext(ctx).Exec(query, targetID, userID, r.db.NowFunc())
	if result.Error != nil {
		logger.Error("Failed to insert engagement edge", result.Error, map[string]interface{}{
			"table":     table,
			"target_id": targetID,
			"user_id":   userID,
		})
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

func (r *engagementRepository) Delete(ctx context.Context, kind model.EngagementKind, target model.TargetType, targetID, userID uint) error {
	table, column, err := edgeTable(kind, target)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ? AND user_id = ?", table, column)
	if err := r.db.WithContext(ctx).Exec(query, targetID, userID).Error; err != nil {
		logger.Error("Failed to delete engagement edge", err, map[string]interface{}{
			"table":     table,
			"target_id": targetID,
			"user_id":   userID,
		})
		return err
	}
	return nil
}

func (r *engagementRepository) Count(ctx context.Context, kind model.EngagementKind, target model.TargetType, targetID uint) (int64, error) {
	table, column, err := edgeTable(kind, target)
	if err != nil {
		return 0, err
	}

	var count int64
	err = r.db.WithContext(ctx).Table(table).Where(column+" = ?", targetID).Count(&count).Error
	return count, err
}

type targetCount struct {
	TargetID uint
	Total    int64
}

func (r *engagementRepository) CountByTargets(ctx context.Context, kind model.EngagementKind, target model.TargetType, targetIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(targetIDs))
	if len(targetIDs) == 0 {
		return counts, nil
	}

	table, column, err := edgeTable(kind, target)
	if err != nil {
		return nil, err
	}

	var rows []targetCount
	err = r.db.WithContext(ctx).
		Table(table).
		Select(column+" AS target_id, COUNT(*) AS total").
		Where(column+" IN ?", targetIDs).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.TargetID] = row.Total
	}
	return counts, nil
}

// ListVendorsByUser returns the vendors userID holds an edge on, newest edge first.
func (r *engagementRepository) ListVendorsByUser(ctx context.Context, kind model.EngagementKind, userID uint) ([]model.Vendor, error) {
	table, column, err := edgeTable(kind, model.TargetVendor)
	if err != nil {
		return nil, err
	}

	var vendors []model.Vendor
	err = r.db.WithContext(ctx).
		Model(&model.Vendor{}).
		Select("vendors.*").
		Joins(fmt.Sprintf("JOIN %s e ON e.%s = vendors.id", table, column)).
		Where("e.user_id = ?", userID).
		Order("e.created_at DESC, e.id DESC").
		Find(&vendors).Error
	if err != nil {
		logger.Error("Failed to list vendors by user engagement", err, map[string]interface{}{
			"kind":    string(kind),
			"user_id": userID,
		})
		return nil, err
	}
	return vendors, nil
}
