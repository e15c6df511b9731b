package stock

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"marketsync_api/internal/engine"
)

// encodeSheet готовит байты выгрузки так, как их отдаёт поставщик:
// CSV с ';' в кодировке Windows-1251.
func encodeSheet(t *testing.T, utf8csv string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := transform.NewWriter(&buf, charmap.Windows1251.NewEncoder())
	_, err := w.Write([]byte(utf8csv))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

const sampleSheet = "Выгрузка остатков от 2026-08-01;;\n" +
	"Код;Наименование;Количество;Цена\n" +
	"SKU-1;Насос циркуляционный;>10;5'990.00 руб.\n" +
	"SKU-2;Фильтр сетчатый;3;450\n" +
	"SKU-3;Кран шаровой;1;120\n" +
	"SKU-2;Фильтр сетчатый (дубль);7;450\n" +
	"SKU-4;Манометр;двадцать;300\n" +
	"SKU-5;Тройник;2;нет цены\n" +
	";пустая строка без кода;1;1\n"

func TestProcessSheet(t *testing.T) {
	p := NewProcessor(1)

	items, skips, err := p.Process(bytes.NewReader(encodeSheet(t, sampleSheet)))
	require.NoError(t, err)

	require.Len(t, items, 3)
	assert.Equal(t, engine.LocalItem{SKU: "SKU-1", Stock: 100, Price: dec(5990)}, items[0])
	assert.Equal(t, engine.LocalItem{SKU: "SKU-2", Stock: 3, Price: dec(450)}, items[1])
	// "1" -- витринный экземпляр, остаток превращается в ноль.
	assert.Equal(t, engine.LocalItem{SKU: "SKU-3", Stock: 0, Price: dec(120)}, items[2])

	require.Len(t, skips, 3)
	assert.Equal(t, "SKU-2", skips[0].SKU)
	assert.Equal(t, engine.ReasonInvalidInput, skips[0].Reason)
	assert.Equal(t, "duplicate sku", skips[0].Detail)
	assert.Equal(t, "SKU-4", skips[1].SKU)
	assert.Equal(t, "SKU-5", skips[2].SKU)
}

func TestProcessMissingColumns(t *testing.T) {
	p := NewProcessor(0)
	sheet := encodeSheet(t, "Код;Наименование\nSKU-1;Насос\n")

	_, _, err := p.Process(bytes.NewReader(sheet))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
}

func TestProcessEmptyAfterHeaderOffset(t *testing.T) {
	p := NewProcessor(5)
	sheet := encodeSheet(t, "Код;Количество;Цена\n")

	_, _, err := p.Process(bytes.NewReader(sheet))
	assert.Error(t, err)
}
