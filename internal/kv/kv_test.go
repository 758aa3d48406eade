package kv

import (
	"path/filepath"
	"testing"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.store"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(store.Close)
	return store
}

func TestPutGetDelete(t *testing.T) {
	store := openTestStore(t)

	if err := store.Put(BucketConfig, "alpha", sample{Name: "a", Count: 2}); err != nil {
		t.Fatalf("put: %v", err)
	}

	var got sample
	found, err := store.Get(BucketConfig, "alpha", &got)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found {
		t.Fatalf("expected key to exist")
	}
	if got.Name != "a" || got.Count != 2 {
		t.Fatalf("unexpected value: %+v", got)
	}

	if err := store.Delete(BucketConfig, "alpha"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	found, err = store.Get(BucketConfig, "alpha", &got)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if found {
		t.Fatalf("expected key to be gone")
	}
}

func TestGetMissingKey(t *testing.T) {
	store := openTestStore(t)

	var got sample
	found, err := store.Get(BucketRequests, "nope", &got)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatalf("expected missing key")
	}
}

func TestListPrefix(t *testing.T) {
	store := openTestStore(t)

	keys := []string{"req_a_1", "req_a_2", "req_b_1", "other"}
	for i, key := range keys {
		if err := store.Put(BucketRequests, key, sample{Count: i}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}

	entries, err := store.List(BucketRequests, "req_a_")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Key != "req_a_1" || entries[1].Key != "req_a_2" {
		t.Fatalf("unexpected keys: %v, %v", entries[0].Key, entries[1].Key)
	}

	all, err := store.List(BucketRequests, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(all))
	}
}
