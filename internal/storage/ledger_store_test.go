package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/models"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/storage/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStores = []models.Store{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestLoad_Empty(t *testing.T) {
	repo := NewBlobRepository(memory.NewMemoryKVStore())

	txs, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, txs)
	assert.Empty(t, txs)
}

func TestAppend_PrependsNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewBlobRepository(memory.NewMemoryKVStore())

	for _, id := range []string{"t1", "t2", "t3"} {
		require.NoError(t, repo.Append(ctx, models.Transaction{
			ID: id, StoreID: "a", Type: models.TransactionAdd, Amount: decimal.NewFromInt(1),
		}))
	}

	txs, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, []string{"t3", "t2", "t1"}, []string{txs[0].ID, txs[1].ID, txs[2].ID})
}

func TestAppend_RoundTripsFields(t *testing.T) {
	ctx := context.Background()
	repo := NewBlobRepository(memory.NewMemoryKVStore())
	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	in := models.Transaction{
		ID:           "t1",
		StoreID:      "a",
		Type:         models.TransactionWithdraw,
		Amount:       decimal.RequireFromString("12.34"),
		Comment:      "payout",
		EmployeeName: "Ava Patel",
		CreatedBy:    "staff@a.example",
		CreatedAt:    created,
	}
	require.NoError(t, repo.Append(ctx, in))

	txs, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	out := txs[0]
	assert.True(t, in.Amount.Equal(out.Amount))
	assert.True(t, created.Equal(out.CreatedAt))
	out.Amount, out.CreatedAt = in.Amount, in.CreatedAt
	assert.Equal(t, in, out)
}

func TestLoad_CorruptBlobIsAnError(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewMemoryKVStore()
	require.NoError(t, kv.Put(ctx, KeyTransactions, []byte("{not json")))

	_, err := NewBlobRepository(kv).Load(ctx)
	assert.Error(t, err)
}

func TestLoad_AcceptsNumericAmounts(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewMemoryKVStore()
	raw := `[{"id":"x","storeId":"a","type":"ADD","amount":100,"comment":"c","employeeName":"System","createdBy":"seed","createdAt":"2026-01-01T00:00:00Z"}]`
	require.NoError(t, kv.Put(ctx, KeyTransactions, []byte(raw)))

	txs, err := NewBlobRepository(kv).Load(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.True(t, decimal.NewFromInt(100).Equal(txs[0].Amount))
}

func TestSeedOnce(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewMemoryKVStore()
	repo := NewBlobRepository(kv)
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	ids := sequentialIDs()

	seeded, err := repo.SeedOnce(ctx, testStores, decimal.NewFromInt(100), now, ids)
	require.NoError(t, err)
	assert.True(t, seeded)

	txs, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	for i, tx := range txs {
		assert.Equal(t, testStores[i].ID, tx.StoreID)
		assert.Equal(t, models.TransactionAdd, tx.Type)
		assert.Equal(t, "100.00", tx.Amount.StringFixed(2))
		assert.Equal(t, models.SeedSubmitter, tx.CreatedBy)
		assert.Equal(t, models.SeedEmployee, tx.EmployeeName)
	}

	seeded, err = repo.SeedOnce(ctx, testStores, decimal.NewFromInt(100), now, ids)
	require.NoError(t, err)
	assert.False(t, seeded)

	txs, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, txs, 2, "second seed must not add transactions")
}

func TestSeedOnce_MarkerNotRecheckedAgainstData(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewMemoryKVStore()
	repo := NewBlobRepository(kv)

	_, err := repo.SeedOnce(ctx, testStores, decimal.NewFromInt(100), time.Now(), sequentialIDs())
	require.NoError(t, err)

	require.NoError(t, WriteJSON(ctx, kv, KeyTransactions, []models.Transaction{}))

	seeded, err := repo.SeedOnce(ctx, testStores, decimal.NewFromInt(100), time.Now(), sequentialIDs())
	require.NoError(t, err)
	assert.False(t, seeded)

	txs, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

type failingPutKV struct {
	*memory.MemoryKVStore
	failKey string
}

func (f *failingPutKV) Put(ctx context.Context, key string, value []byte) error {
	if key == f.failKey {
		return errors.New("write failed")
	}
	return f.MemoryKVStore.Put(ctx, key, value)
}

func TestSeedOnce_MarkerWriteFailureDoesNotDoubleSeed(t *testing.T) {
	ctx := context.Background()
	kv := &failingPutKV{MemoryKVStore: memory.NewMemoryKVStore(), failKey: KeySeeded}
	repo := NewBlobRepository(kv)

	_, err := repo.SeedOnce(ctx, testStores, decimal.NewFromInt(100), time.Now(), sequentialIDs())
	require.Error(t, err)

	kv.failKey = ""
	seeded, err := repo.SeedOnce(ctx, testStores, decimal.NewFromInt(100), time.Now(), sequentialIDs())
	require.NoError(t, err)
	assert.False(t, seeded)

	txs, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, txs, len(testStores))

	var marker bool
	found, err := ReadJSON(ctx, kv, KeySeeded, &marker)
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, marker)
}

func TestReadJSON_Missing(t *testing.T) {
	var v string
	found, err := ReadJSON(context.Background(), memory.NewMemoryKVStore(), KeyLastStore, &v)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, v)
}
