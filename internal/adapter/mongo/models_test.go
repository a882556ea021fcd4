package mongo

import (
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/memory"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestOrderDocument_KeepsExactAmounts(t *testing.T) {
	order := memory.SeedDataset().Orders[1]

	doc, err := toOrderDocument(&order)
	require.NoError(t, err)

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	var decoded orderDocument
	require.NoError(t, bson.Unmarshal(raw, &decoded))

	back, err := toDomainOrder(&decoded)
	require.NoError(t, err)
	assert.True(t, back.TotalPrice.Equal(decimal.RequireFromString("809.95")))
	assert.True(t, back.BuyerProtectionFee.Equal(order.BuyerProtectionFee))
	assert.Equal(t, order.Status, back.Status)
	assert.Equal(t, order.Product.Condition, back.Product.Condition)
	assert.Equal(t, order.Version, back.Version)
	assert.True(t, back.CreatedAt.Equal(order.CreatedAt))
}

func TestToDomainProduct_RejectsUnknownCondition(t *testing.T) {
	product := memory.SeedDataset().Products[0]
	doc, err := toProductDocument(&product, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Used - Good", doc.Condition)

	doc.Condition = "Vintage"
	_, err = toDomainProduct(doc)
	assert.ErrorIs(t, err, entity.ErrInvalidCondition)
}

func TestToggleFavoritePipeline_Shape(t *testing.T) {
	pipeline := toggleFavoritePipeline("prod1")
	require.Len(t, pipeline, 1)

	raw, err := bson.MarshalExtJSON(pipeline[0], false, false)
	require.NoError(t, err)
	for _, op := range []string{`"$cond"`, `"$in"`, `"$filter"`, `"$concatArrays"`, `"prod1"`} {
		assert.Contains(t, string(raw), op)
	}
}
