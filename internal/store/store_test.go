package store

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/huepham/openhouse/internal/db"
	"github.com/huepham/openhouse/internal/settings"
	"github.com/huepham/openhouse/internal/visitor"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if err := database.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})

	return New(database)
}

func TestVisitorsEmpty(t *testing.T) {
	s := testStore(t)

	if got := s.Visitors(); len(got) != 0 {
		t.Errorf("got %d visitors, want 0", len(got))
	}
}

func TestVisitorsRoundTrip(t *testing.T) {
	s := testStore(t)

	signed := time.Date(2025, 8, 10, 14, 30, 0, 0, time.UTC)
	list := []visitor.Record{
		{
			ID:                 "a1b2c3d4-0000-0000-0000-000000000001",
			FullName:           "Taylor Brooks",
			Email:              "taylor@example.com",
			Phone:              "(555) 123-4567",
			HasAgent:           true,
			AgentName:          "Jordan Lee",
			AgentEmail:         "jordan@broker.com",
			AgentPhone:         "(555) 987-6543",
			AgreedToDisclosure: true,
			SignedAt:           &signed,
			SignaturePNG:       []byte{0x89, 'P', 'N', 'G'},
		},
		{
			ID:                 "a1b2c3d4-0000-0000-0000-000000000002",
			FullName:           "Sam Rivera",
			Email:              "sam@example.com",
			AgreedToDisclosure: true,
		},
	}

	if err := s.SaveVisitors(list); err != nil {
		t.Fatalf("save: %v", err)
	}

	got := s.Visitors()
	if !reflect.DeepEqual(got, list) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, list)
	}
}

func TestVisitorsPreserveOrder(t *testing.T) {
	s := testStore(t)

	var list []visitor.Record
	for _, name := range []string{"First Visitor", "Second Visitor", "Third Visitor"} {
		r := visitor.New()
		r.FullName = name
		r.Email = "v@example.com"
		r.AgreedToDisclosure = true
		list = append(list, r)
	}

	if err := s.SaveVisitors(list); err != nil {
		t.Fatalf("save: %v", err)
	}

	got := s.Visitors()
	if len(got) != 3 {
		t.Fatalf("got %d visitors, want 3", len(got))
	}
	for i := range list {
		if got[i].FullName != list[i].FullName {
			t.Errorf("visitor %d = %q, want %q", i, got[i].FullName, list[i].FullName)
		}
	}
}

func TestClearVisitors(t *testing.T) {
	s := testStore(t)

	r := visitor.New()
	r.FullName = "Taylor Brooks"
	r.Email = "taylor@example.com"
	if err := s.SaveVisitors([]visitor.Record{r}); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := s.ClearVisitors(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := s.Visitors(); len(got) != 0 {
		t.Errorf("got %d visitors after clear, want 0", len(got))
	}
}

func TestSettingsDefault(t *testing.T) {
	s := testStore(t)

	cfg := s.Settings()
	if cfg.PropertyAddress != settings.DefaultPropertyAddress {
		t.Errorf("address = %q, want default", cfg.PropertyAddress)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	s := testStore(t)

	cfg := settings.Settings{
		PropertyAddress: "742 Evergreen Terrace, Springfield",
		BrokerageTeam:   "Compass HB Team",
		AgentOfRecord:   "Alex Agent",
	}
	if err := s.SaveSettings(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	got := s.Settings()
	if got != cfg {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestSettingsBlankAddressRestored(t *testing.T) {
	s := testStore(t)

	if err := s.SaveSettings(settings.Settings{PropertyAddress: "  "}); err != nil {
		t.Fatalf("save: %v", err)
	}

	got := s.Settings()
	if got.PropertyAddress != settings.DefaultPropertyAddress {
		t.Errorf("address = %q, want default restored", got.PropertyAddress)
	}
}

func TestCorruptValueYieldsDefaults(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	}()

	for _, key := range []string{"openhouse.visitors", "openhouse.settings"} {
		if _, err := database.Exec(
			"INSERT INTO kv (key, value) VALUES (?, ?)", key, []byte("{not json"),
		); err != nil {
			t.Fatalf("seed %s: %v", key, err)
		}
	}

	s := New(database)
	if got := s.Visitors(); len(got) != 0 {
		t.Errorf("got %d visitors from corrupt value, want 0", len(got))
	}
	if got := s.Settings(); got.PropertyAddress != settings.DefaultPropertyAddress {
		t.Errorf("address = %q, want default", got.PropertyAddress)
	}
}
