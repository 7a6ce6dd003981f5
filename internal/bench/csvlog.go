package bench

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/klauspost/compress/gzip"
)

var csvHeader = []string{"n", "max_len", "length", "elapsed_ms", "explored", "states_per_sec"}

// WriteCSVGz writes rows as gzip-compressed CSV to path, wrapping the file
// writer the way the corpus wraps an os.File with a streaming compressor
// (hupe1980-vecgo's WAL wraps its file with a *zstd.Encoder before handing
// it to a bufio.Writer; here the compressor sits directly under the CSV
// writer since there is no buffering/fsync policy to layer in between).
func WriteCSVGz(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	defer gz.Close()

	w := csv.NewWriter(gz)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.N),
			strconv.Itoa(row.MaxLen),
			strconv.Itoa(row.Length),
			strconv.FormatInt(row.ElapsedMillis, 10),
			strconv.FormatInt(row.Explored, 10),
			strconv.FormatFloat(row.StatesPerSec, 'f', 2, 64),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write csv row for n=%d: %w", row.N, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return nil
}
