package storage

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "apolo-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStoreCRUD(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if _, err := store.Get(ctx, "tasks"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for missing key, got: %v", err)
	}

	if err := store.Put(ctx, "tasks", "[]"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(ctx, "tasks", `[{"id":"a"}]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := store.Get(ctx, "tasks")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != `[{"id":"a"}]` {
		t.Fatalf("expected overwritten value, got %q", got)
	}

	if err := store.Delete(ctx, "tasks"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, "tasks"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on second delete, got: %v", err)
	}
}

func TestSQLiteStoreKeysByPrefix(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for _, key := range []string{"pref.theme", "tasks", "pref.language", "pref.font"} {
		if err := store.Put(ctx, key, `"x"`); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}

	keys, err := store.Keys(ctx, "pref.")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	want := []string{"pref.font", "pref.language", "pref.theme"}
	if len(keys) != len(want) {
		t.Fatalf("unexpected keys: %v", keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}

	all, err := store.Keys(ctx, "")
	if err != nil {
		t.Fatalf("all keys: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 keys, got %v", all)
	}
}

func TestSQLiteStoreKeysTreatPrefixLiterally(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for _, key := range []string{"draft_1", "draftX1", "draft%2", "DRAFT_3"} {
		if err := store.Put(ctx, key, `"x"`); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}

	cases := map[string][]string{
		"draft_": {"draft_1"},
		"draft%": {"draft%2"},
		"dräft":  {},
	}
	for prefix, want := range cases {
		keys, err := store.Keys(ctx, prefix)
		if err != nil {
			t.Fatalf("keys %q: %v", prefix, err)
		}
		if len(keys) != len(want) {
			t.Fatalf("keys %q = %v, want %v", prefix, keys, want)
		}
		for i := range want {
			if keys[i] != want[i] {
				t.Fatalf("keys %q [%d] = %q, want %q", prefix, i, keys[i], want[i])
			}
		}
	}
}

func TestSQLiteStorePutSurfacesDriverError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	store, err := NewSQLiteStore(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	boom := errors.New("disk I/O error")
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv (key,value,updated_at) VALUES (?,?,?)")).
		WithArgs("tasks", "[]", sqlmock.AnyArg()).
		WillReturnError(boom)

	err = store.Put(context.Background(), "tasks", "[]")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped driver error, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSQLiteStoreGetMapsNoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	store, err := NewSQLiteStore(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv WHERE key = ?")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	if _, err := store.Get(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestNewSQLiteStoreRejectsNilDB(t *testing.T) {
	if _, err := NewSQLiteStore(nil); err == nil {
		t.Fatal("expected error for nil db")
	}
}
