package service

import (
	"MoodCheckin/internal/api/dto"
	"MoodCheckin/internal/model"
	"context"
	"errors"
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func scoresOf(pairs ...any) []*model.MoodScore {
	out := make([]*model.MoodScore, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, &model.MoodScore{Date: day(pairs[i].(string)), MoodScore: pairs[i+1].(int)})
	}
	return out
}

func TestAggregateByMonth(t *testing.T) {
	rows, err := Aggregate(scoresOf("2024-01-05", 3, "2024-01-20", 4, "2024-02-01", 5), PeriodMonth)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(rows))
	}

	feb, jan := rows[0], rows[1]
	if feb.Period != "2024-02" || feb.Entries != 1 || feb.AvgMood != 5 {
		t.Errorf("unexpected february bucket: %+v", feb)
	}
	if jan.Period != "2024-01" || jan.Entries != 2 || jan.AvgMood != 3.5 {
		t.Errorf("unexpected january bucket: %+v", jan)
	}
	if jan.StartDate != "2024-01-01" || jan.EndDate != "2024-01-31" {
		t.Errorf("january bounds = %s..%s", jan.StartDate, jan.EndDate)
	}
	if feb.EndDate != "2024-02-29" {
		t.Errorf("leap february should end on 29th, got %s", feb.EndDate)
	}
	if jan.MinMood != 3 || jan.MaxMood != 4 {
		t.Errorf("january min/max = %d/%d", jan.MinMood, jan.MaxMood)
	}
}

func TestAggregateRoundsAverage(t *testing.T) {
	rows, err := Aggregate(scoresOf("2024-03-01", 2, "2024-03-02", 4, "2024-03-03", 5), PeriodMonth)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(rows) != 1 || rows[0].AvgMood != 3.67 {
		t.Fatalf("expected avg 3.67, got %+v", rows)
	}
}

func TestAggregateISOWeeks(t *testing.T) {
	tests := []struct {
		date  string
		key   string
		start string
		end   string
	}{
		{"2024-12-30", "2025-W01", "2024-12-30", "2025-01-05"},
		{"2025-01-05", "2025-W01", "2024-12-30", "2025-01-05"},
		{"2021-01-01", "2020-W53", "2020-12-28", "2021-01-03"},
		{"2024-01-01", "2024-W01", "2024-01-01", "2024-01-07"},
		{"2024-06-15", "2024-W24", "2024-06-10", "2024-06-16"},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			rows, err := Aggregate(scoresOf(tt.date, 3), PeriodWeek)
			if err != nil {
				t.Fatalf("Aggregate: %v", err)
			}
			if len(rows) != 1 {
				t.Fatalf("expected 1 bucket, got %d", len(rows))
			}
			got := rows[0]
			if got.Period != tt.key || got.StartDate != tt.start || got.EndDate != tt.end {
				t.Errorf("got %s %s..%s, want %s %s..%s", got.Period, got.StartDate, got.EndDate, tt.key, tt.start, tt.end)
			}
		})
	}
}

func TestAggregateWeekSpanningYearEnd(t *testing.T) {
	rows, err := Aggregate(scoresOf("2024-12-30", 2, "2025-01-02", 4, "2024-12-29", 5), PeriodWeek)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(rows))
	}
	if rows[0].Period != "2025-W01" || rows[0].Entries != 2 || rows[0].AvgMood != 3 {
		t.Errorf("unexpected first bucket: %+v", rows[0])
	}
	if rows[1].Period != "2024-W52" || rows[1].Entries != 1 {
		t.Errorf("unexpected second bucket: %+v", rows[1])
	}
}

func TestAggregateEmpty(t *testing.T) {
	rows, err := Aggregate(nil, PeriodWeek)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Fatalf("expected empty non-nil rows, got %#v", rows)
	}
}

func TestAggregateRejectsUnknownPeriod(t *testing.T) {
	if _, err := Aggregate(scoresOf("2024-01-01", 3), "year"); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestSummarizeDefaultsToMonthAndPassesRange(t *testing.T) {
	repo := &fakeMoodRepo{scores: scoresOf("2024-01-05", 3)}
	svc := NewSummaryService(repo, nil)

	req := &dto.MoodSummaryDTO{DateRangeDTO: dto.DateRangeDTO{StartDate: "2024-01-01", To: "2024-01-31"}}
	result, err := svc.Summarize(context.Background(), "u1", req)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if result.Period != PeriodMonth {
		t.Errorf("period = %q, want month", result.Period)
	}
	if repo.lastFilter.UserID != "u1" {
		t.Errorf("filter user = %q", repo.lastFilter.UserID)
	}
	if repo.lastFilter.From == nil || !repo.lastFilter.From.Equal(day("2024-01-01")) {
		t.Errorf("filter from = %v", repo.lastFilter.From)
	}
	if repo.lastFilter.To == nil || !repo.lastFilter.To.Equal(day("2024-01-31")) {
		t.Errorf("filter to = %v", repo.lastFilter.To)
	}
}

func TestSummarizeRejectsUnknownPeriod(t *testing.T) {
	repo := &fakeMoodRepo{}
	svc := NewSummaryService(repo, nil)

	_, err := svc.Summarize(context.Background(), "u1", &dto.MoodSummaryDTO{Period: "year"})
	var ve *ValidationError
	if !errors.As(err, &ve) || !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected validation error for period, got %v", err)
	}
	if repo.scoreCalls != 0 {
		t.Errorf("repository should not be queried, got %d calls", repo.scoreCalls)
	}
}

func TestSummarizeServesFromCacheUntilInvalidated(t *testing.T) {
	repo := &fakeMoodRepo{scores: scoresOf("2024-01-05", 3)}
	cache := newFakeSummaryCache()
	summarySvc := NewSummaryService(repo, cache)
	moodSvc := NewMoodService(repo, cache, PageConfig{DefaultSize: 20, MaxSize: 100})
	ctx := context.Background()
	req := &dto.MoodSummaryDTO{Period: PeriodWeek}

	for i := 0; i < 2; i++ {
		if _, err := summarySvc.Summarize(ctx, "u1", req); err != nil {
			t.Fatalf("Summarize: %v", err)
		}
	}
	if repo.scoreCalls != 1 {
		t.Fatalf("expected one repository call, got %d", repo.scoreCalls)
	}

	err := moodSvc.Upsert(ctx, &dto.MoodCreateDTO{UserID: "u1", Date: "2024-01-06", MoodScore: 4})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, err = summarySvc.Summarize(ctx, "u1", req); err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if repo.scoreCalls != 2 {
		t.Fatalf("expected cache miss after upsert, got %d repository calls", repo.scoreCalls)
	}
}

func TestSummarizeDoesNotCacheReadsOverlappingUpsert(t *testing.T) {
	repo := &fakeMoodRepo{
		scores:  scoresOf("2024-01-05", 2),
		gate:    make(chan struct{}),
		entered: make(chan struct{}),
	}
	cache := newFakeSummaryCache()
	summarySvc := NewSummaryService(repo, cache)
	moodSvc := NewMoodService(repo, cache, testPage)
	ctx := context.Background()
	req := &dto.MoodSummaryDTO{Period: PeriodMonth}

	done := make(chan error, 1)
	go func() {
		_, err := summarySvc.Summarize(ctx, "u1", req)
		done <- err
	}()

	<-repo.entered
	if err := moodSvc.Upsert(ctx, &dto.MoodCreateDTO{UserID: "u1", Date: "2024-01-05", MoodScore: 5}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	close(repo.gate)
	if err := <-done; err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	result, err := summarySvc.Summarize(ctx, "u1", req)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if len(result.Rows) != 1 || result.Rows[0].AvgMood != 5 {
		t.Fatalf("summary after committed upsert = %+v, want avg 5", result.Rows)
	}
}

func TestSummarizeSharedReadSurvivesCallerCancel(t *testing.T) {
	repo := &fakeMoodRepo{
		scores:  scoresOf("2024-01-05", 3),
		gate:    make(chan struct{}),
		entered: make(chan struct{}),
	}
	svc := NewSummaryService(repo, newFakeSummaryCache())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := svc.Summarize(ctx, "u1", &dto.MoodSummaryDTO{})
		done <- err
	}()

	<-repo.entered
	cancel()
	close(repo.gate)
	if err := <-done; err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if repo.ctxErr != nil {
		t.Fatalf("store read saw a cancelled context: %v", repo.ctxErr)
	}
}
