package engine

import (
	"fmt"
	"sort"
)

// Reconcile сравнивает локальный каталог с состоянием маркетплейса и
// возвращает упорядоченный список мутаций: сначала все стоковые
// (обнуления и обновления остатков), затем все ценовые. Остатки важнее
// цен -- товар с неверной ценой, но верным остатком, лучше товара,
// который продаётся при нулевом фактическом остатке.
//
// Чистая функция: не делает сетевых вызовов и не меняет аргументы.
// SKU, присутствующие только с одной стороны, мутаций не порождают и
// возвращаются как Skip.
func Reconcile(local []LocalItem, remote []RemoteItem) ([]Mutation, []Skip) {
	localIdx := make(map[string]LocalItem, len(local))
	for _, l := range local {
		localIdx[l.SKU] = l
	}
	remoteIdx := IndexRemote(remote)

	sortedLocal := make([]LocalItem, len(local))
	copy(sortedLocal, local)
	sort.Slice(sortedLocal, func(i, j int) bool { return sortedLocal[i].SKU < sortedLocal[j].SKU })

	var stockMuts, priceMuts []Mutation
	var skips []Skip

	for _, l := range sortedLocal {
		r, ok := remoteIdx[l.SKU]
		if !ok {
			skips = append(skips, Skip{SKU: l.SKU, Reason: ReasonNotFoundRemotely})
			continue
		}

		if l.Stock == 0 && r.Stock != 0 {
			stockMuts = append(stockMuts, Mutation{
				SKU:       l.SKU,
				Kind:      OutOfStockNotice,
				NewStock:  0,
				PrevStock: r.Stock,
			})
		} else if l.Stock != r.Stock {
			stockMuts = append(stockMuts, Mutation{
				SKU:       l.SKU,
				Kind:      StockUpdate,
				NewStock:  l.Stock,
				PrevStock: r.Stock,
			})
		}

		// Сравнение цен точное, без эпсилона.
		if !l.Price.Equal(r.Price) {
			priceMuts = append(priceMuts, Mutation{
				SKU:       l.SKU,
				Kind:      PriceUpdate,
				NewPrice:  l.Price,
				PrevPrice: r.Price,
			})
		}
	}

	sortedRemote := make([]RemoteItem, len(remote))
	copy(sortedRemote, remote)
	sort.Slice(sortedRemote, func(i, j int) bool { return sortedRemote[i].SKU < sortedRemote[j].SKU })
	for _, r := range sortedRemote {
		if _, ok := localIdx[r.SKU]; !ok {
			skips = append(skips, Skip{SKU: r.SKU, Reason: ReasonNotFoundLocally})
		}
	}

	return append(stockMuts, priceMuts...), skips
}

// ZeroFillMissing дополняет локальный каталог нулевыми остатками для
// SKU, которые числятся на маркетплейсе, но отсутствуют в выгрузке:
// пропавший из выгрузки товар считается закончившимся. Цена берётся из
// снапшота, чтобы не породить ценовую мутацию.
func ZeroFillMissing(local []LocalItem, remote []RemoteItem) []LocalItem {
	known := make(map[string]struct{}, len(local))
	for _, l := range local {
		known[l.SKU] = struct{}{}
	}

	filled := make([]LocalItem, len(local), len(local)+len(remote))
	copy(filled, local)
	for _, r := range remote {
		if _, ok := known[r.SKU]; ok {
			continue
		}
		filled = append(filled, LocalItem{SKU: r.SKU, Stock: 0, Price: r.Price})
	}
	return filled
}

// ValidateLocal отсеивает строки каталога, нарушающие контракт входа:
// отрицательный остаток, неположительная цена, дубликат SKU. Ошибка
// фатальна только для затронутого SKU, прогон продолжается.
func ValidateLocal(local []LocalItem) ([]LocalItem, []Skip) {
	seen := make(map[string]struct{}, len(local))
	valid := make([]LocalItem, 0, len(local))
	var skips []Skip

	for _, l := range local {
		if _, dup := seen[l.SKU]; dup {
			skips = append(skips, Skip{SKU: l.SKU, Reason: ReasonInvalidInput, Detail: "duplicate sku"})
			continue
		}
		seen[l.SKU] = struct{}{}

		if l.Stock < 0 {
			skips = append(skips, Skip{SKU: l.SKU, Reason: ReasonInvalidInput, Detail: fmt.Sprintf("negative stock %d", l.Stock)})
			continue
		}
		if !l.Price.IsPositive() {
			skips = append(skips, Skip{SKU: l.SKU, Reason: ReasonInvalidInput, Detail: fmt.Sprintf("non-positive price %s", l.Price)})
			continue
		}
		valid = append(valid, l)
	}
	return valid, skips
}
