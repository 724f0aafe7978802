package storage

import (
	"testing"
)

func testRepo(t *testing.T) Repository {
	t.Helper()
	db, err := OpenAndMigrate(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	return NewSQLiteRepository(db)
}

func TestGetProfile_DefaultsWhenAbsent(t *testing.T) {
	repo := testRepo(t)

	p, err := repo.GetProfile("u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ParticipantID != "u1" || p.Wins != 0 || p.Losses != 0 || p.Draws != 0 {
		t.Fatalf("expected zeroed profile, got %+v", p)
	}
}

func TestUpsertProfile_CreatesAndUpdates(t *testing.T) {
	repo := testRepo(t)

	if err := repo.UpsertProfile("u1", "Alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.UpsertProfile("u1", "Alicia"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := repo.GetProfile("u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.DisplayName != "Alicia" {
		t.Fatalf("expected updated display name, got %q", p.DisplayName)
	}
	if p.ID == 0 {
		t.Fatalf("expected persisted profile")
	}
}

func TestUnits_CreateListGet(t *testing.T) {
	repo := testRepo(t)

	u := &UnitInstance{InstanceUUID: "i1", OwnerID: "u1", TemplateName: "Dalek", Health: 120, Attack: 40}
	if err := repo.CreateUnit(u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	units, err := repo.ListUnits("u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(units) != 1 || units[0].TemplateName != "Dalek" {
		t.Fatalf("unexpected units: %+v", units)
	}
	got, err := repo.GetUnit("u1", "i1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Health != 120 || got.Attack != 40 {
		t.Fatalf("unexpected unit: %+v", got)
	}
	if _, err := repo.GetUnit("u2", "i1"); err == nil {
		t.Fatalf("expected lookup scoped to owner to fail")
	}
}

func TestUpdateStatsOnMatchEnd(t *testing.T) {
	repo := testRepo(t)

	if err := repo.UpdateStatsOnMatchEnd("u1", "u2", "u1", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.UpdateStatsOnMatchEnd("u1", "u2", "", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Abandoned match counts for neither side.
	if err := repo.UpdateStatsOnMatchEnd("u1", "u2", "", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p1, _ := repo.GetProfile("u1")
	if p1.Wins != 1 || p1.Losses != 0 || p1.Draws != 1 {
		t.Fatalf("unexpected u1 stats: %+v", p1)
	}
	p2, _ := repo.GetProfile("u2")
	if p2.Wins != 0 || p2.Losses != 1 || p2.Draws != 1 {
		t.Fatalf("unexpected u2 stats: %+v", p2)
	}
}
