package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_BasicStore_Insert_Assigns_Unique_IDs(t *testing.T) {
	store := NewBasicStore()

	first, err := store.Insert("items", Record{"name": "a"})
	require.NoError(t, err)
	second, err := store.Insert("items", Record{"name": "b"})
	require.NoError(t, err)

	require.NotEmpty(t, first["id"])
	require.NotEmpty(t, second["id"])
	require.NotEqual(t, first["id"], second["id"])

	// the caller's record must not gain the id
	rec := Record{"name": "c"}
	_, err = store.Insert("items", rec)
	require.NoError(t, err)
	_, ok := rec["id"]
	require.False(t, ok)
}

func Test_BasicStore_Select(t *testing.T) {
	store := NewBasicStore()

	for _, name := range []string{"a", "b", "c"} {
		_, err := store.Insert("items", Record{"name": name})
		require.NoError(t, err)
	}

	all, err := store.SelectAll("items", func(Record) bool { return true })
	require.NoError(t, err)
	require.Len(t, all, 3)

	// insertion order is preserved
	require.Equal(t, "a", all[0]["name"])
	require.Equal(t, "c", all[2]["name"])

	one, found, err := store.SelectOne("items", func(r Record) bool {
		return r["name"] == "b"
	})
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "b", one["name"])

	_, found, err = store.SelectOne("items", func(r Record) bool {
		return r["name"] == "z"
	})
	require.NoError(t, err)
	require.False(t, found)

	none, err := store.SelectAll("missing", func(Record) bool { return true })
	require.NoError(t, err)
	require.Len(t, none, 0)
}

func Test_BasicStore_Update(t *testing.T) {
	store := NewBasicStore()

	stored, err := store.Insert("items", Record{"name": "a", "status": "new"})
	require.NoError(t, err)
	id := stored["id"].(string)

	err = store.Update("items", id, Record{"status": "done"})
	require.NoError(t, err)

	one, found, err := store.SelectOne("items", func(r Record) bool {
		return r["id"] == id
	})
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "done", one["status"])
	require.Equal(t, "a", one["name"])

	err = store.Update("items", "nope", Record{"status": "done"})
	require.Error(t, err)
}

func Test_BasicStore_UpdateWhere_Is_Conditional(t *testing.T) {
	store := NewBasicStore()

	stored, err := store.Insert("items", Record{"status": "new"})
	require.NoError(t, err)
	id := stored["id"].(string)

	isNew := func(r Record) bool { return r["status"] == "new" }

	ok, err := store.UpdateWhere("items", id, isNew, Record{"status": "done"})
	require.NoError(t, err)
	require.True(t, ok)

	// second claim must lose
	ok, err = store.UpdateWhere("items", id, isNew, Record{"status": "done-again"})
	require.NoError(t, err)
	require.False(t, ok)

	one, _, err := store.SelectOne("items", func(r Record) bool { return r["id"] == id })
	require.NoError(t, err)
	require.Equal(t, "done", one["status"])
}

func Test_BasicStore_Upsert_Replaces_By_Key(t *testing.T) {
	store := NewBasicStore()

	err := store.Upsert("keys", Record{"user_id": "u1", "public_key": "k1"}, "user_id")
	require.NoError(t, err)
	err = store.Upsert("keys", Record{"user_id": "u1", "public_key": "k2"}, "user_id")
	require.NoError(t, err)
	err = store.Upsert("keys", Record{"user_id": "u2", "public_key": "k3"}, "user_id")
	require.NoError(t, err)

	all, err := store.SelectAll("keys", func(Record) bool { return true })
	require.NoError(t, err)
	require.Len(t, all, 2)

	one, found, err := store.SelectOne("keys", func(r Record) bool {
		return r["user_id"] == "u1"
	})
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "k2", one["public_key"])

	err = store.Upsert("keys", Record{"user_id": "u3"})
	require.Error(t, err)
}

func Test_Record_Codec(t *testing.T) {
	type item struct {
		Name  string  `json:"name"`
		Count float64 `json:"count"`
	}

	rec, err := Encode(item{Name: "a", Count: 2})
	require.NoError(t, err)
	require.Equal(t, "a", rec["name"])

	out := item{}
	err = Decode(rec, &out)
	require.NoError(t, err)
	require.Equal(t, item{Name: "a", Count: 2}, out)
}
