package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ProductScanner/internal/classify"
	"ProductScanner/internal/domain"
	"ProductScanner/internal/source"
)

type fakeSource struct {
	posts []source.Post
	err   error
}

func (f *fakeSource) FetchPage(ctx context.Context) ([]source.Post, error) {
	return f.posts, f.err
}

type fakeBatchStore struct {
	records []domain.ProductRecord
	err     error
	calls   int
}

func (f *fakeBatchStore) WriteBatch(ctx context.Context, records []domain.ProductRecord, runTime time.Time) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	f.records = records
	return "data/products_batch_test.json", nil
}

type fakeSummaryStore struct {
	stored  *domain.RunSummary
	loadErr error
	saveErr error
	saves   int
}

func (f *fakeSummaryStore) LoadSummary(ctx context.Context) (*domain.RunSummary, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.stored, nil
}

func (f *fakeSummaryStore) SaveSummary(ctx context.Context, summary domain.RunSummary) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.stored = &summary
	return nil
}

type fakeArchive struct {
	records []domain.ProductRecord
	runID   string
}

func (f *fakeArchive) ArchiveAccepted(ctx context.Context, records []domain.ProductRecord, runID string) error {
	f.records = records
	f.runID = runID
	return nil
}

type fakeNotifier struct {
	digest string
	err    error
}

func (f *fakeNotifier) PublishDigest(ctx context.Context, digest string) error {
	if f.err != nil {
		return f.err
	}
	f.digest = digest
	return nil
}

func testPosts() []source.Post {
	return []source.Post{
		post("a", "Trail Buddy", "Hiking routes near you", 12, "Outdoors"),
		post("b", "InvoiceBot", "Billing for agencies", 30, "SaaS"),
		post("c", "Plant Pal", "Water reminders for plants", 7, "Home"),
	}
}

func TestPipelineProcessRun(t *testing.T) {
	t.Parallel()

	src := &fakeSource{posts: testPosts()}
	batches := &fakeBatchStore{}
	summaries := &fakeSummaryStore{stored: &domain.RunSummary{
		TotalProducts:    10,
		ConsumerProducts: 4,
		UniqueTopics:     []string{"Travel"},
	}}
	archive := &fakeArchive{}
	notifier := &fakeNotifier{}

	pipeline := NewPipeline(PipelineDeps{
		Source:   src,
		Batches:  batches,
		Summary:  summaries,
		Archive:  archive,
		Notifier: notifier,
		Rules:    classify.NewRuleset([]string{"SaaS"}, nil),
	})

	runTime := time.Date(2025, time.March, 9, 8, 0, 0, 0, time.UTC)
	if err := pipeline.ProcessRun(context.Background(), runTime); err != nil {
		t.Fatalf("ProcessRun error: %v", err)
	}

	if len(batches.records) != 2 {
		t.Fatalf("expected 2 accepted records in batch, got %d", len(batches.records))
	}
	if batches.records[0].ID != "a" || batches.records[1].ID != "c" {
		t.Fatalf("unexpected batch order: %+v", batches.records)
	}

	if summaries.stored.TotalProducts != 13 {
		t.Fatalf("expected total 13, got %d", summaries.stored.TotalProducts)
	}
	if summaries.stored.ConsumerProducts != 6 {
		t.Fatalf("expected consumer count 6, got %d", summaries.stored.ConsumerProducts)
	}
	wantTopics := []string{"Home", "Outdoors", "SaaS", "Travel"}
	if len(summaries.stored.UniqueTopics) != len(wantTopics) {
		t.Fatalf("expected topics %v, got %v", wantTopics, summaries.stored.UniqueTopics)
	}
	for i, topic := range wantTopics {
		if summaries.stored.UniqueTopics[i] != topic {
			t.Fatalf("expected topics %v, got %v", wantTopics, summaries.stored.UniqueTopics)
		}
	}

	if len(archive.records) != 2 || archive.runID == "" {
		t.Fatalf("archive did not receive the run: %d records, run %q", len(archive.records), archive.runID)
	}

	if !strings.Contains(notifier.digest, "Accepted 2 of 3 products") {
		t.Fatalf("digest missing counts: %q", notifier.digest)
	}
	if !strings.Contains(notifier.digest, "Trail Buddy") {
		t.Fatalf("digest missing product name: %q", notifier.digest)
	}
}

func TestPipelineRestartsWhenSummaryUnreadable(t *testing.T) {
	t.Parallel()

	summaries := &fakeSummaryStore{loadErr: errors.New("unexpected end of JSON input")}
	pipeline := NewPipeline(PipelineDeps{
		Source:  &fakeSource{posts: testPosts()},
		Batches: &fakeBatchStore{},
		Summary: summaries,
		Rules:   classify.NewRuleset([]string{"SaaS"}, nil),
	})

	if err := pipeline.ProcessRun(context.Background(), time.Now()); err != nil {
		t.Fatalf("unreadable summary must not abort the run: %v", err)
	}

	if summaries.stored == nil {
		t.Fatalf("expected a fresh summary to be written")
	}
	if summaries.stored.TotalProducts != 3 || summaries.stored.ConsumerProducts != 2 {
		t.Fatalf("expected counters rebuilt from this run only, got %+v", summaries.stored)
	}
}

func TestPipelineFailsWhenBatchWriteFails(t *testing.T) {
	t.Parallel()

	summaries := &fakeSummaryStore{}
	pipeline := NewPipeline(PipelineDeps{
		Source:  &fakeSource{posts: testPosts()},
		Batches: &fakeBatchStore{err: errors.New("disk full")},
		Summary: summaries,
		Rules:   classify.NewRuleset(nil, nil),
	})

	err := pipeline.ProcessRun(context.Background(), time.Now())
	if err == nil {
		t.Fatalf("expected batch write failure to abort the run")
	}
	if !strings.Contains(err.Error(), "write batch") {
		t.Fatalf("unexpected error: %v", err)
	}
	if summaries.saves != 0 {
		t.Fatalf("summary must stay untouched after a failed batch write")
	}
}

func TestPipelineFailsWhenSummarySaveFails(t *testing.T) {
	t.Parallel()

	pipeline := NewPipeline(PipelineDeps{
		Source:  &fakeSource{posts: testPosts()},
		Batches: &fakeBatchStore{},
		Summary: &fakeSummaryStore{saveErr: errors.New("read-only filesystem")},
		Rules:   classify.NewRuleset(nil, nil),
	})

	err := pipeline.ProcessRun(context.Background(), time.Now())
	if err == nil || !strings.Contains(err.Error(), "save summary") {
		t.Fatalf("expected summary save failure, got %v", err)
	}
}

func TestPipelineFetchErrorAborts(t *testing.T) {
	t.Parallel()

	batches := &fakeBatchStore{}
	pipeline := NewPipeline(PipelineDeps{
		Source:  &fakeSource{err: errors.New("rate limited")},
		Batches: batches,
		Summary: &fakeSummaryStore{},
		Rules:   classify.NewRuleset(nil, nil),
	})

	err := pipeline.ProcessRun(context.Background(), time.Now())
	if err == nil || !strings.Contains(err.Error(), "fetch page") {
		t.Fatalf("expected fetch failure, got %v", err)
	}
	if batches.calls != 0 {
		t.Fatalf("nothing should be written after a failed fetch")
	}
}

func TestPipelineRequiresCoreDependencies(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		deps PipelineDeps
	}{
		{"no source", PipelineDeps{Batches: &fakeBatchStore{}, Summary: &fakeSummaryStore{}}},
		{"no batch store", PipelineDeps{Source: &fakeSource{}, Summary: &fakeSummaryStore{}}},
		{"no summary store", PipelineDeps{Source: &fakeSource{}, Batches: &fakeBatchStore{}}},
	}

	for _, tc := range cases {
		if err := NewPipeline(tc.deps).ProcessRun(context.Background(), time.Now()); err == nil {
			t.Fatalf("%s: expected configuration error", tc.name)
		}
	}
}

func TestPipelineRunsWithoutOptionalDependencies(t *testing.T) {
	t.Parallel()

	pipeline := NewPipeline(PipelineDeps{
		Source:  &fakeSource{posts: testPosts()},
		Batches: &fakeBatchStore{},
		Summary: &fakeSummaryStore{},
		Rules:   classify.NewRuleset([]string{"SaaS"}, nil),
	})

	if err := pipeline.ProcessRun(context.Background(), time.Now()); err != nil {
		t.Fatalf("run without archive and notifier failed: %v", err)
	}
}

func TestPipelineNotifierFailureSurfaces(t *testing.T) {
	t.Parallel()

	pipeline := NewPipeline(PipelineDeps{
		Source:   &fakeSource{posts: testPosts()},
		Batches:  &fakeBatchStore{},
		Summary:  &fakeSummaryStore{},
		Notifier: &fakeNotifier{err: errors.New("chat not found")},
		Rules:    classify.NewRuleset(nil, nil),
	})

	err := pipeline.ProcessRun(context.Background(), time.Now())
	if err == nil || !strings.Contains(err.Error(), "publish digest") {
		t.Fatalf("expected notifier failure, got %v", err)
	}
}
