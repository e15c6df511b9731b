package stock

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"marketsync_api/internal/engine"
	"marketsync_api/pkg/logger"
)

// Reader скачивает архив выгрузки поставщика и превращает таблицу
// остатков в локальный каталог.
type Reader struct {
	archiveURL string
	fetcher    Fetcher
	processor  *Processor
	log        logger.Logger
}

func NewReader(archiveURL string, fetcher Fetcher, processor *Processor, writer io.Writer) *Reader {
	return &Reader{
		archiveURL: archiveURL,
		fetcher:    fetcher,
		processor:  processor,
		log:        logger.NewLogger(writer, "[CatalogReader]"),
	}
}

func (r *Reader) SetNewProcessor(proc *Processor) *Reader {
	if proc != nil {
		r.processor = proc
	}
	return r
}

// Load выполняет полный цикл: скачать архив, найти в нём таблицу,
// распарсить и провалидировать позиции.
func (r *Reader) Load(ctx context.Context) ([]engine.LocalItem, []engine.Skip, error) {
	body, err := r.fetcher.Fetch(ctx, r.archiveURL)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching %s: %w", r.archiveURL, err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, nil, fmt.Errorf("reading archive body: %w", err)
	}

	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, fmt.Errorf("opening archive: %w", err)
	}

	sheet, err := findSheet(archive)
	if err != nil {
		return nil, nil, err
	}
	defer sheet.Close()

	items, skips, err := r.processor.Process(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("processing remnants sheet: %w", err)
	}

	r.log.Log("loaded %d items from %s (%d rows rejected)", len(items), r.archiveURL, len(skips))
	return items, skips, nil
}

// findSheet возвращает первый csv-файл архива.
func findSheet(archive *zip.Reader) (io.ReadCloser, error) {
	for _, f := range archive.File {
		if strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
			return f.Open()
		}
	}
	return nil, fmt.Errorf("archive contains no remnants sheet")
}
