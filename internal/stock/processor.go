package stock

import (
	"encoding/csv"
	"fmt"
	"io"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"marketsync_api/internal/engine"
)

// Названия колонок в выгрузке поставщика.
const (
	columnSKU      = "Код"
	columnQuantity = "Количество"
	columnPrice    = "Цена"
)

// Processor отвечает за чтение и нормализацию табличной выгрузки.
type Processor struct {
	headerOffset int
}

// NewProcessor создаёт Processor. headerOffset -- число строк шапки
// документа до строки с заголовками колонок.
func NewProcessor(headerOffset int) *Processor {
	if headerOffset < 0 {
		headerOffset = 0
	}
	return &Processor{headerOffset: headerOffset}
}

// Process читает CSV из reader, декодируя из Windows-1251, и возвращает
// валидные позиции каталога. Битые строки (нет SKU, нечитаемое
// количество или цена, дубликат) не валят прогон, а возвращаются как
// пропуски с причиной.
func (p *Processor) Process(reader io.Reader) ([]engine.LocalItem, []engine.Skip, error) {
	decoder := transform.NewReader(reader, charmap.Windows1251.NewDecoder())
	csvReader := csv.NewReader(decoder)
	csvReader.Comma = ';'
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("csv read error: %w", err)
	}
	if len(allRows) <= p.headerOffset {
		return nil, nil, fmt.Errorf("csv data is empty after %d header rows", p.headerOffset)
	}

	header := allRows[p.headerOffset]
	data := allRows[p.headerOffset+1:]

	skuIdx := indexOf(header, columnSKU)
	qtyIdx := indexOf(header, columnQuantity)
	priceIdx := indexOf(header, columnPrice)
	if skuIdx < 0 || qtyIdx < 0 || priceIdx < 0 {
		return nil, nil, fmt.Errorf("header is missing required columns %q, %q, %q", columnSKU, columnQuantity, columnPrice)
	}

	items := make([]engine.LocalItem, 0, len(data))
	var skips []engine.Skip
	seen := make(map[string]struct{}, len(data))

	for _, row := range data {
		sku := cell(row, skuIdx)
		if sku == "" {
			continue
		}
		if _, dup := seen[sku]; dup {
			skips = append(skips, engine.Skip{SKU: sku, Reason: engine.ReasonInvalidInput, Detail: "duplicate sku"})
			continue
		}
		seen[sku] = struct{}{}

		qty, err := ParseQuantity(cell(row, qtyIdx))
		if err != nil {
			skips = append(skips, engine.Skip{SKU: sku, Reason: engine.ReasonInvalidInput, Detail: err.Error()})
			continue
		}
		if qty < 0 {
			skips = append(skips, engine.Skip{SKU: sku, Reason: engine.ReasonInvalidInput, Detail: fmt.Sprintf("negative stock %d", qty)})
			continue
		}

		price, err := ParsePrice(cell(row, priceIdx))
		if err != nil {
			skips = append(skips, engine.Skip{SKU: sku, Reason: engine.ReasonInvalidInput, Detail: err.Error()})
			continue
		}
		if !price.IsPositive() {
			skips = append(skips, engine.Skip{SKU: sku, Reason: engine.ReasonInvalidInput, Detail: fmt.Sprintf("non-positive price %s", price)})
			continue
		}

		items = append(items, engine.LocalItem{SKU: sku, Stock: qty, Price: price})
	}

	return items, skips, nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func indexOf(slice []string, str string) int {
	for i, s := range slice {
		if s == str {
			return i
		}
	}
	return -1
}
