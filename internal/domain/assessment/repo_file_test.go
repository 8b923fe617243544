package assessment

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/healthd/healthd/internal/domain/engine"
)

func newFileRepo(t *testing.T) (HistoryRepository, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := NewHistoryRepoFile(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return repo, dir
}

func testRecord(userID uuid.UUID, weight float64, seq int) *Record {
	return &Record{
		ID:        uuid.New(),
		UserID:    userID,
		Datetime:  "2024-06-15 10:30",
		Gender:    engine.Male,
		Age:       30,
		Height:    170,
		Weight:    weight,
		BMI:       weight / (1.7 * 1.7),
		Status:    engine.CategoryNormalWeight,
		Color:     "🟢",
		BGColor:   "#e8f5e9",
		Advice:    "keep it up",
		CreatedAt: time.Date(2024, 6, 15, 10, 30, seq, 0, time.UTC),
	}
}

func TestFileRepo_AppendLoadRoundTrip(t *testing.T) {
	repo, _ := newFileRepo(t)
	userID := uuid.New()
	rec := testRecord(userID, 60, 0)

	if err := repo.Append(context.Background(), rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	records, err := repo.Load(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	got := records[0]
	if got.ID != rec.ID || got.Datetime != rec.Datetime || got.BMI != rec.BMI ||
		got.Status != rec.Status || got.Advice != rec.Advice {
		t.Errorf("round trip mismatch: %+v vs %+v", got, rec)
	}
}

func TestFileRepo_LoadMissingCreatesEmptyStore(t *testing.T) {
	repo, dir := newFileRepo(t)
	userID := uuid.New()

	records, err := repo.Load(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty history, got %d records", len(records))
	}
	raw, err := os.ReadFile(filepath.Join(dir, userID.String()+".json"))
	if err != nil {
		t.Fatalf("expected store file to be created: %v", err)
	}
	if string(raw) != "[]" {
		t.Errorf("expected empty JSON array, got %q", raw)
	}
}

func TestFileRepo_CorruptFileTreatedAsEmpty(t *testing.T) {
	repo, dir := newFileRepo(t)
	userID := uuid.New()
	path := filepath.Join(dir, userID.String()+".json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := repo.Load(context.Background(), userID)
	if err != nil {
		t.Fatalf("corrupt history must be recoverable: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty history, got %d records", len(records))
	}

	// Appending to a corrupt store starts a fresh history.
	if err := repo.Append(context.Background(), testRecord(userID, 60, 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	records, _ = repo.Load(context.Background(), userID)
	if len(records) != 1 {
		t.Errorf("expected 1 record after recovery, got %d", len(records))
	}
}

func TestFileRepo_InitIsIdempotent(t *testing.T) {
	repo, _ := newFileRepo(t)
	userID := uuid.New()

	if err := repo.Init(context.Background(), userID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Append(context.Background(), testRecord(userID, 60, 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// A second Init must not wipe the existing history.
	if err := repo.Init(context.Background(), userID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	records, _ := repo.Load(context.Background(), userID)
	if len(records) != 1 {
		t.Errorf("Init overwrote existing history: %d records", len(records))
	}
}

func TestFileRepo_ListNewestFirstWithPaging(t *testing.T) {
	repo, _ := newFileRepo(t)
	userID := uuid.New()
	for i, w := range []float64{60, 62, 64, 66} {
		if err := repo.Append(context.Background(), testRecord(userID, w, i)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	records, total, err := repo.List(context.Background(), userID, 2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 4 || len(records) != 2 {
		t.Fatalf("expected page of 2 from 4, got %d of %d", len(records), total)
	}
	if records[0].Weight != 66 || records[1].Weight != 64 {
		t.Errorf("expected newest first, got %.0f, %.0f", records[0].Weight, records[1].Weight)
	}

	records, _, _ = repo.List(context.Background(), userID, 2, 2)
	if records[0].Weight != 62 || records[1].Weight != 60 {
		t.Errorf("unexpected second page: %.0f, %.0f", records[0].Weight, records[1].Weight)
	}

	records, total, _ = repo.List(context.Background(), userID, 2, 10)
	if total != 4 || len(records) != 0 {
		t.Errorf("expected empty page past the end, got %d records", len(records))
	}
}

func TestFileRepo_UsersAreIsolated(t *testing.T) {
	repo, _ := newFileRepo(t)
	alice := uuid.New()
	bob := uuid.New()
	if err := repo.Append(context.Background(), testRecord(alice, 60, 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, _ := repo.Load(context.Background(), bob)
	if len(records) != 0 {
		t.Errorf("bob should not see alice's records")
	}
	aliceRecords, _ := repo.Load(context.Background(), alice)
	if _, err := repo.GetByID(context.Background(), bob, aliceRecords[0].ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound across users, got %v", err)
	}
}

func TestFileRepo_ConcurrentAppends(t *testing.T) {
	repo, _ := newFileRepo(t)
	userID := uuid.New()

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := repo.Append(context.Background(), testRecord(userID, 60, i)); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	records, err := repo.Load(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != n {
		t.Errorf("expected %d records, got %d", n, len(records))
	}
}
