package inmemory

import (
	"context"
	"testing"
	"time"

	"github.com/dvloznov/finsight/internal/jobs"
)

func TestStoreSaveAndGet(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	job := &jobs.ImportStatementJob{JobID: "j1", UserID: "u1", GCSURI: "gs://b/o", Status: jobs.JobStatusPending}
	if err := store.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}

	got, err := store.GetJob(ctx, "j1")
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if got.UserID != "u1" || got.Status != jobs.JobStatusPending {
		t.Errorf("GetJob = %+v", got)
	}

	// Mutating the returned copy must not touch the stored job.
	got.Status = jobs.JobStatusFailed
	again, _ := store.GetJob(ctx, "j1")
	if again.Status != jobs.JobStatusPending {
		t.Error("store returned a shared pointer, not a copy")
	}

	if err := store.SaveJob(ctx, &jobs.ImportStatementJob{}); err == nil {
		t.Error("SaveJob must reject a missing job ID")
	}
	if _, err := store.GetJob(ctx, "nope"); err == nil {
		t.Error("GetJob must fail for unknown ID")
	}
}

func TestStoreListJobsFilter(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	seed := []*jobs.ImportStatementJob{
		{JobID: "a", UserID: "u1", Status: jobs.JobStatusCompleted},
		{JobID: "b", UserID: "u1", Status: jobs.JobStatusFailed},
		{JobID: "c", UserID: "u2", Status: jobs.JobStatusCompleted},
	}
	for _, j := range seed {
		if err := store.SaveJob(ctx, j); err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}
	}

	byUser, err := store.ListJobs(ctx, jobs.JobFilter{UserID: "u1"})
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if len(byUser) != 2 {
		t.Errorf("got %d jobs for u1, want 2", len(byUser))
	}

	byStatus, err := store.ListJobs(ctx, jobs.JobFilter{Status: jobs.JobStatusCompleted})
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if len(byStatus) != 2 {
		t.Errorf("got %d completed jobs, want 2", len(byStatus))
	}

	limited, err := store.ListJobs(ctx, jobs.JobFilter{Limit: 1})
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("got %d jobs with limit 1, want 1", len(limited))
	}
}

func TestStoreListJobsPaginatesNewestFirst(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c", "d"} {
		job := &jobs.ImportStatementJob{
			JobID:     id,
			UserID:    "u1",
			Status:    jobs.JobStatusCompleted,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.SaveJob(ctx, job); err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}
	}

	// Page through twice; map iteration order must not leak into the pages.
	for run := 0; run < 2; run++ {
		page1, err := store.ListJobs(ctx, jobs.JobFilter{Limit: 2})
		if err != nil {
			t.Fatalf("ListJobs failed: %v", err)
		}
		page2, err := store.ListJobs(ctx, jobs.JobFilter{Limit: 2, Offset: 2})
		if err != nil {
			t.Fatalf("ListJobs failed: %v", err)
		}

		if page1[0].JobID != "d" || page1[1].JobID != "c" {
			t.Errorf("page 1 = [%s %s], want [d c]", page1[0].JobID, page1[1].JobID)
		}
		if page2[0].JobID != "b" || page2[1].JobID != "a" {
			t.Errorf("page 2 = [%s %s], want [b a]", page2[0].JobID, page2[1].JobID)
		}
	}
}

func TestQueueProcessesJob(t *testing.T) {
	store := NewStore()
	queue := NewQueue(4, 2, store)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan string, 1)
	handler := func(ctx context.Context, job jobs.Job) error {
		done <- job.GetID()
		return nil
	}

	if err := queue.Start(ctx, handler); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	job := &jobs.ImportStatementJob{UserID: "u1", GCSURI: "gs://b/o"}
	if err := queue.PublishImportStatement(ctx, job); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if job.JobID == "" {
		t.Fatal("publish must assign a job ID")
	}

	select {
	case id := <-done:
		if id != job.JobID {
			t.Errorf("handler got job %s, want %s", id, job.JobID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler was never invoked")
	}

	// Completion status lands in the store shortly after the handler returns.
	deadline := time.Now().Add(2 * time.Second)
	for {
		got, err := store.GetJob(ctx, job.JobID)
		if err == nil && got.Status == jobs.JobStatusCompleted {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job never marked completed: %+v (err %v)", got, err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := queue.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := queue.PublishImportStatement(ctx, &jobs.ImportStatementJob{}); err == nil {
		t.Error("publish after Stop must fail")
	}
}
