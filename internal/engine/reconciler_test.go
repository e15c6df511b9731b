package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestReconcileNoChangesProducesNoMutations(t *testing.T) {
	local := []LocalItem{
		{SKU: "A", Stock: 3, Price: dec(100)},
		{SKU: "B", Stock: 0, Price: dec(200)},
	}
	remote := []RemoteItem{
		{SKU: "A", Stock: 3, Price: dec(100)},
		{SKU: "B", Stock: 0, Price: dec(200)},
	}

	mutations, skips := Reconcile(local, remote)

	assert.Empty(t, mutations)
	assert.Empty(t, skips)
}

func TestReconcileZeroStockEmitsNoticeNotUpdate(t *testing.T) {
	local := []LocalItem{{SKU: "A", Stock: 0, Price: dec(100)}}
	remote := []RemoteItem{{SKU: "A", Stock: 5, Price: dec(100)}}

	mutations, skips := Reconcile(local, remote)

	require.Len(t, mutations, 1)
	assert.Empty(t, skips)
	assert.Equal(t, "A", mutations[0].SKU)
	assert.Equal(t, OutOfStockNotice, mutations[0].Kind)
	assert.Equal(t, 0, mutations[0].NewStock)
	assert.Equal(t, 5, mutations[0].PrevStock)
}

func TestReconcilePriceOnly(t *testing.T) {
	local := []LocalItem{{SKU: "B", Stock: 3, Price: dec(150)}}
	remote := []RemoteItem{{SKU: "B", Stock: 3, Price: dec(140)}}

	mutations, _ := Reconcile(local, remote)

	require.Len(t, mutations, 1)
	assert.Equal(t, PriceUpdate, mutations[0].Kind)
	assert.True(t, mutations[0].NewPrice.Equal(dec(150)))
	assert.True(t, mutations[0].PrevPrice.Equal(dec(140)))
}

func TestReconcileExactPriceComparison(t *testing.T) {
	// Сравнение точное: 100 и 100.00 равны как значения decimal,
	// а 100 и 100.01 различны без всякого эпсилона.
	price, _ := decimal.NewFromString("100.00")
	local := []LocalItem{{SKU: "A", Stock: 1, Price: dec(100)}}
	remote := []RemoteItem{{SKU: "A", Stock: 1, Price: price}}

	mutations, _ := Reconcile(local, remote)
	assert.Empty(t, mutations)

	almost, _ := decimal.NewFromString("100.01")
	remote[0].Price = almost
	mutations, _ = Reconcile(local, remote)
	require.Len(t, mutations, 1)
	assert.Equal(t, PriceUpdate, mutations[0].Kind)
}

func TestReconcileStockMutationsPrecedePriceMutations(t *testing.T) {
	local := []LocalItem{
		{SKU: "A", Stock: 0, Price: dec(90)},
		{SKU: "B", Stock: 7, Price: dec(200)},
		{SKU: "C", Stock: 1, Price: dec(300)},
	}
	remote := []RemoteItem{
		{SKU: "A", Stock: 4, Price: dec(100)},
		{SKU: "B", Stock: 2, Price: dec(210)},
		{SKU: "C", Stock: 1, Price: dec(330)},
	}

	mutations, _ := Reconcile(local, remote)

	lastStock := -1
	firstPrice := len(mutations)
	for i, m := range mutations {
		if m.Kind.Batch() == BatchStocks {
			lastStock = i
		} else if i < firstPrice {
			firstPrice = i
		}
	}
	require.GreaterOrEqual(t, lastStock, 0)
	require.Less(t, firstPrice, len(mutations))
	assert.Less(t, lastStock, firstPrice)

	// A: обнуление + цена, B: остаток + цена, C: только цена.
	assert.Len(t, mutations, 5)
}

func TestReconcileSkusMissingOnEitherSide(t *testing.T) {
	local := []LocalItem{
		{SKU: "A", Stock: 1, Price: dec(100)},
		{SKU: "C", Stock: 2, Price: dec(200)},
	}
	remote := []RemoteItem{
		{SKU: "A", Stock: 1, Price: dec(100)},
		{SKU: "D", Stock: 9, Price: dec(900)},
	}

	mutations, skips := Reconcile(local, remote)

	assert.Empty(t, mutations)
	require.Len(t, skips, 2)
	assert.Equal(t, Skip{SKU: "C", Reason: ReasonNotFoundRemotely}, skips[0])
	assert.Equal(t, Skip{SKU: "D", Reason: ReasonNotFoundLocally}, skips[1])
}

func TestReconcileIsDeterministic(t *testing.T) {
	local := []LocalItem{
		{SKU: "B", Stock: 1, Price: dec(1)},
		{SKU: "A", Stock: 2, Price: dec(2)},
		{SKU: "C", Stock: 3, Price: dec(3)},
	}
	remote := []RemoteItem{
		{SKU: "C", Stock: 0, Price: dec(3)},
		{SKU: "A", Stock: 0, Price: dec(2)},
		{SKU: "B", Stock: 0, Price: dec(1)},
	}

	first, _ := Reconcile(local, remote)
	second, _ := Reconcile(local, remote)

	assert.Equal(t, first, second)
	require.Len(t, first, 3)
	assert.Equal(t, "A", first[0].SKU)
	assert.Equal(t, "B", first[1].SKU)
	assert.Equal(t, "C", first[2].SKU)
}

func TestZeroFillMissing(t *testing.T) {
	local := []LocalItem{{SKU: "A", Stock: 5, Price: dec(100)}}
	remote := []RemoteItem{
		{SKU: "A", Stock: 5, Price: dec(100)},
		{SKU: "B", Stock: 3, Price: dec(250)},
	}

	filled := ZeroFillMissing(local, remote)

	require.Len(t, filled, 2)
	assert.Equal(t, LocalItem{SKU: "B", Stock: 0, Price: dec(250)}, filled[1])

	// Пропавший товар обнуляется, ценовая мутация не возникает.
	mutations, skips := Reconcile(filled, remote)
	require.Len(t, mutations, 1)
	assert.Equal(t, OutOfStockNotice, mutations[0].Kind)
	assert.Equal(t, "B", mutations[0].SKU)
	assert.Empty(t, skips)
}

func TestValidateLocal(t *testing.T) {
	local := []LocalItem{
		{SKU: "A", Stock: 1, Price: dec(100)},
		{SKU: "A", Stock: 2, Price: dec(100)},
		{SKU: "B", Stock: -1, Price: dec(100)},
		{SKU: "C", Stock: 1, Price: dec(0)},
		{SKU: "D", Stock: 0, Price: dec(10)},
	}

	valid, skips := ValidateLocal(local)

	require.Len(t, valid, 2)
	assert.Equal(t, "A", valid[0].SKU)
	assert.Equal(t, "D", valid[1].SKU)

	require.Len(t, skips, 3)
	for _, s := range skips {
		assert.Equal(t, ReasonInvalidInput, s.Reason)
	}
}
