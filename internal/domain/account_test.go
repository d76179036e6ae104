package domain

import (
	"testing"
	"time"
)

func TestAccountRecord_AddIsIdempotent(t *testing.T) {
	rec := AccountRecord{}
	first := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	e, created := rec.Add(ClaimEntry{Title: "Game A", Time: first, Store: StoreInternal})
	if !created {
		t.Fatal("expected first add to create the entry")
	}
	if e.Store != StoreInternal {
		t.Errorf("expected store %q, got %q", StoreInternal, e.Store)
	}

	e2, created := rec.Add(ClaimEntry{Title: "Game A", Time: first.Add(time.Hour), Store: "gog.com", Code: "XYZ"})
	if created {
		t.Fatal("expected second add to keep the existing entry")
	}
	if e2 != e {
		t.Error("expected the stored entry to be returned")
	}
	if !e2.Time.Equal(first) || e2.Store != StoreInternal || e2.Code != "" {
		t.Errorf("existing entry was mutated: %+v", e2)
	}
	if len(rec) != 1 {
		t.Errorf("expected 1 entry, got %d", len(rec))
	}
}

func TestAccountRecord_AddSetsTime(t *testing.T) {
	rec := AccountRecord{}
	e, _ := rec.Add(ClaimEntry{Title: "Game B", Store: "gog.com"})
	if e.Time.IsZero() {
		t.Error("expected time to be set")
	}
}

func TestAccountRecord_Entries(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := AccountRecord{}
	rec.Add(ClaimEntry{Title: "C", Time: base.Add(2 * time.Hour)})
	rec.Add(ClaimEntry{Title: "B", Time: base})
	rec.Add(ClaimEntry{Title: "A", Time: base})

	got := rec.Entries()
	want := []string{"A", "B", "C"}
	for i, e := range got {
		if e.Title != want[i] {
			t.Errorf("entry %d: expected %s, got %s", i, want[i], e.Title)
		}
	}
}

func TestLibrary_MergeOnlyGrows(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	lib := Library{}
	lib.Account("alice").Add(ClaimEntry{Title: "Game A", Time: base, Store: StoreInternal})

	other := Library{}
	other.Account("alice").Add(ClaimEntry{Title: "Game A", Time: base.Add(time.Hour), Store: "gog.com"})
	other.Account("alice").Add(ClaimEntry{Title: "Game B", Time: base, Store: "gog.com"})
	other.Account("bob").Add(ClaimEntry{Title: "Game C", Time: base, Store: StoreInternal})

	lib.Merge(other)

	if got := lib["alice"]["Game A"].Store; got != StoreInternal {
		t.Errorf("expected existing entry kept, got store %q", got)
	}
	if !lib["alice"].Has("Game B") {
		t.Error("expected Game B to be merged")
	}
	users := lib.Users()
	if len(users) != 2 || users[0] != "alice" || users[1] != "bob" {
		t.Errorf("unexpected users: %v", users)
	}
}

func TestStatusHelpers(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{StatusFailedLink("epic games"), "failed - link epic games"},
		{StatusClaimedOn("gog.com"), "claimed on gog.com"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
