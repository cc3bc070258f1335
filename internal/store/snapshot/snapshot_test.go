package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/product/dto"
	"github.com/fekuna/omnipos-retail-service/internal/store"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tee() *model.Product {
	return &model.Product{
		BaseModel: model.BaseModel{ID: "p-tee", CreatedAt: time.Now()},
		Name:      "Tee",
		CostPrice: decimal.NewFromInt(300),
		SalePrice: decimal.NewFromInt(1000),
		Variants: []model.Variant{
			{ID: "v-tee-m", ProductID: "p-tee", Size: "M", UniqueCode: "TEE-M", Stock: model.StockLevels{model.LocationHub: 10}},
		},
	}
}

func TestPersistRoundTrip_PreservesForeignKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"theme":"dark"}`), 0o600))

	s, err := New(&Config{Path: path}, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Products().Create(context.Background(), tee()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.JSONEq(t, `"dark"`, string(doc["theme"]))
	assert.Contains(t, doc, DefaultKey)

	reopened, err := New(&Config{Path: path}, logger.NewNop())
	require.NoError(t, err)
	p, err := reopened.Products().FindByVariantCode(context.Background(), "tee-m")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 10, p.Variants[0].Stock[model.LocationHub])
	assert.True(t, decimal.NewFromInt(1000).Equal(p.SalePrice))
}

func TestNew_OtherKeyStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	s, err := New(&Config{Path: path, Key: "retail_data_v5"}, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Products().Create(context.Background(), tee()))

	next, err := New(&Config{Path: path, Key: "retail_data_v6"}, logger.NewNop())
	require.NoError(t, err)
	items, total, err := next.Products().FindAll(context.Background(), &dto.ProductFilters{})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s, err := New(&Config{}, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Products().Create(ctx, tee()))

	boom := errors.New("boom")
	err = s.WithinTx(ctx, func(r store.Repos) error {
		ok, err := r.Inventory().DecrementIfEnough(ctx, "v-tee-m", model.LocationHub, 4)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, r.Inventory().Increment(ctx, "v-tee-m", model.LocationStoreA, 4))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	qty, err := s.Inventory().GetStock(ctx, "v-tee-m", model.LocationHub)
	require.NoError(t, err)
	assert.Equal(t, 10, qty)
}

func TestReadsReturnCopies(t *testing.T) {
	ctx := context.Background()
	s, err := New(&Config{}, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Products().Create(ctx, tee()))

	p, err := s.Products().FindByID(ctx, "p-tee")
	require.NoError(t, err)
	p.Variants[0].Stock[model.LocationHub] = 0

	qty, err := s.Inventory().GetStock(ctx, "v-tee-m", model.LocationHub)
	require.NoError(t, err)
	assert.Equal(t, 10, qty)
}

func TestInventory_FloorAndConditional(t *testing.T) {
	ctx := context.Background()
	s, err := New(&Config{}, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Products().Create(ctx, tee()))

	ok, err := s.Inventory().DecrementIfEnough(ctx, "v-tee-m", model.LocationHub, 20)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Inventory().DeductFloor(ctx, "v-tee-m", model.LocationHub, 25))
	qty, err := s.Inventory().GetStock(ctx, "v-tee-m", model.LocationHub)
	require.NoError(t, err)
	assert.Zero(t, qty)

	_, err = s.Inventory().GetStock(ctx, "missing", model.LocationHub)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{3, 4}, paginate(items, 2, 2))
	assert.Equal(t, []int{}, paginate(items, 4, 2))
	assert.Equal(t, items, paginate(items, 0, 0))
}
