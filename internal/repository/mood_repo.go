package repository

import (
	"MoodCheckin/internal/model"
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MoodFilter 按用户与闭区间日期过滤
type MoodFilter struct {
	UserID string
	From   *time.Time
	To     *time.Time
}

type MoodRepo interface {
	UpsertEntry(ctx context.Context, entry *model.MoodEntry) error
	ListEntries(ctx context.Context, filter MoodFilter, limit, offset int, desc bool) ([]*model.MoodEntry, int64, error)
	ListScores(ctx context.Context, filter MoodFilter) ([]*model.MoodScore, error)
}

type moodRepoImpl struct {
	db *gorm.DB
}

func NewMoodRepo(db *gorm.DB) MoodRepo {
	return &moodRepoImpl{db: db}
}

// UpsertEntry 惰性创建用户标记，再按 user_id + date 插入或覆盖
func (s *moodRepoImpl) UpsertEntry(ctx context.Context, entry *model.MoodEntry) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.User{ID: entry.UserID}).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"mood_score", "mood_label", "notes", "updated_at"}),
		}).Create(entry).Error
	})
	return errors.Wrap(err, "upsert mood entry")
}

func (s *moodRepoImpl) scope(filter MoodFilter) *gorm.DB {
	q := s.db.Model(&model.MoodEntry{}).Where("user_id = ?", filter.UserID)
	if filter.From != nil {
		q = q.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("date <= ?", *filter.To)
	}
	return q
}

// ListEntries 分页查询，total 为忽略分页的总数
func (s *moodRepoImpl) ListEntries(ctx context.Context, filter MoodFilter, limit, offset int, desc bool) ([]*model.MoodEntry, int64, error) {
	entries := make([]*model.MoodEntry, 0)
	var total int64

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.scope(filter).WithContext(gCtx).
			Order(clause.OrderBy{Columns: []clause.OrderByColumn{
				{Column: clause.Column{Name: "date"}, Desc: desc},
				{Column: clause.Column{Name: "id"}, Desc: desc},
			}}).
			Limit(limit).
			Offset(offset).
			Find(&entries).Error
	})
	g.Go(func() error {
		return s.scope(filter).WithContext(gCtx).Count(&total).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, errors.Wrap(err, "list mood entries")
	}
	return entries, total, nil
}

// ListScores 按日期升序返回聚合所需的数据
func (s *moodRepoImpl) ListScores(ctx context.Context, filter MoodFilter) ([]*model.MoodScore, error) {
	scores := make([]*model.MoodScore, 0)
	err := s.scope(filter).WithContext(ctx).
		Select("date", "mood_score").
		Order("date ASC").
		Find(&scores).Error
	if err != nil {
		return nil, errors.Wrap(err, "list mood scores")
	}
	return scores, nil
}
