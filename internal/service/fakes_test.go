package service

import (
	"MoodCheckin/internal/api/dto"
	"MoodCheckin/internal/model"
	"MoodCheckin/internal/repository"
	"context"
	"fmt"
	"sync"
)

type fakeMoodRepo struct {
	mu sync.Mutex

	upserted   []*model.MoodEntry
	upsertErr  error
	entries    []*model.MoodEntry
	total      int64
	scores     []*model.MoodScore
	listErr    error
	scoreCalls int

	lastFilter repository.MoodFilter
	lastLimit  int
	lastOffset int
	lastDesc   bool

	// gate 非空时，下一次 ListScores 取完快照后通知 entered 并等待 gate 关闭
	gate    chan struct{}
	entered chan struct{}

	// ctxErr 记录 ListScores 返回时所收到 ctx 的状态
	ctxErr error
}

func (f *fakeMoodRepo) UpsertEntry(_ context.Context, entry *model.MoodEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, entry)
	for _, sc := range f.scores {
		if sc.Date.Equal(entry.Date) {
			sc.MoodScore = entry.MoodScore
			return nil
		}
	}
	f.scores = append(f.scores, &model.MoodScore{Date: entry.Date, MoodScore: entry.MoodScore})
	return nil
}

func (f *fakeMoodRepo) ListEntries(_ context.Context, filter repository.MoodFilter, limit, offset int, desc bool) ([]*model.MoodEntry, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter, f.lastLimit, f.lastOffset, f.lastDesc = filter, limit, offset, desc
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	return f.entries, f.total, nil
}

func (f *fakeMoodRepo) ListScores(ctx context.Context, filter repository.MoodFilter) ([]*model.MoodScore, error) {
	f.mu.Lock()
	f.lastFilter = filter
	f.scoreCalls++
	if f.listErr != nil {
		f.mu.Unlock()
		return nil, f.listErr
	}
	snapshot := make([]*model.MoodScore, 0, len(f.scores))
	for _, sc := range f.scores {
		cp := *sc
		snapshot = append(snapshot, &cp)
	}
	gate, entered := f.gate, f.entered
	f.gate = nil
	f.mu.Unlock()

	if gate != nil {
		entered <- struct{}{}
		<-gate
	}

	f.mu.Lock()
	f.ctxErr = ctx.Err()
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return snapshot, nil
}

type fakeSummaryCache struct {
	mu          sync.Mutex
	gens        map[string]int64
	data        map[string][]*dto.SummaryRowDTO
	invalidated []string
	putCalls    int
}

func newFakeSummaryCache() *fakeSummaryCache {
	return &fakeSummaryCache{
		gens: make(map[string]int64),
		data: make(map[string][]*dto.SummaryRowDTO),
	}
}

func cacheKey(userID string, gen int64, field string) string {
	return fmt.Sprintf("%s|%d|%s", userID, gen, field)
}

func (f *fakeSummaryCache) Generation(_ context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gens[userID], nil
}

func (f *fakeSummaryCache) Get(_ context.Context, userID string, gen int64, field string) ([]*dto.SummaryRowDTO, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows, ok := f.data[cacheKey(userID, gen, field)]
	return rows, ok, nil
}

func (f *fakeSummaryCache) Put(_ context.Context, userID string, gen int64, field string, rows []*dto.SummaryRowDTO) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[cacheKey(userID, gen, field)] = rows
	f.putCalls++
	return nil
}

func (f *fakeSummaryCache) Invalidate(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gens[userID]++
	f.invalidated = append(f.invalidated, userID)
	return nil
}
