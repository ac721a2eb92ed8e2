package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/hoshinonyaruko/linkedlist-snake/structs"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInsertAndTopRounds(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	rounds := []structs.Round{
		{ID: "a", Score: 20, Length: 5, Level: 5, Cause: "wall", StartedAt: base, EndedAt: base.Add(time.Minute)},
		{ID: "b", Score: 50, Length: 8, Level: 11, Cause: "self", StartedAt: base, EndedAt: base.Add(2 * time.Minute)},
		{ID: "c", Score: 20, Length: 5, Level: 5, Cause: "self", StartedAt: base, EndedAt: base.Add(3 * time.Minute)},
	}
	for _, r := range rounds {
		if err := InsertRound(db, r); err != nil {
			t.Fatalf("InsertRound(%s) failed: %v", r.ID, err)
		}
	}

	got, err := TopRounds(db, 10)
	if err != nil {
		t.Fatalf("TopRounds failed: %v", err)
	}
	wantOrder := []string{"b", "c", "a"}
	if len(got) != len(wantOrder) {
		t.Fatalf("Expected %d rounds, got %d", len(wantOrder), len(got))
	}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("Expected round %d to be %s, got %s", i, id, got[i].ID)
		}
	}
	if got[0].Cause != "self" || got[0].Length != 8 || got[0].Level != 11 {
		t.Errorf("Expected round b fields to round-trip, got %+v", got[0])
	}
	if !got[0].EndedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("Expected EndedAt %v, got %v", base.Add(2*time.Minute), got[0].EndedAt)
	}
}

func TestTopRoundsLimit(t *testing.T) {
	db := openTestDB(t)
	now := time.Now()
	for i := 0; i < 5; i++ {
		r := structs.Round{ID: fmt.Sprintf("r%d", i), Score: i * 10, StartedAt: now, EndedAt: now}
		if err := InsertRound(db, r); err != nil {
			t.Fatalf("InsertRound failed: %v", err)
		}
	}

	got, err := TopRounds(db, 2)
	if err != nil {
		t.Fatalf("TopRounds failed: %v", err)
	}
	if len(got) != 2 || got[0].Score != 40 || got[1].Score != 30 {
		t.Errorf("Expected the two best rounds, got %+v", got)
	}
}

func TestTopRoundsEmpty(t *testing.T) {
	db := openTestDB(t)
	got, err := TopRounds(db, 10)
	if err != nil {
		t.Fatalf("TopRounds failed: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Expected an empty non-nil slice, got %#v", got)
	}
}

func TestRoundRecorder(t *testing.T) {
	db := openTestDB(t)
	record := RoundRecorder(db)
	record(structs.Round{ID: "hook", Score: 30, StartedAt: time.Now(), EndedAt: time.Now()})

	got, err := TopRounds(db, 1)
	if err != nil {
		t.Fatalf("TopRounds failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "hook" {
		t.Errorf("Expected the hooked round to be stored, got %+v", got)
	}
}
