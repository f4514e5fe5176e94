package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// MoveRow is the columnar form of a MoveRecord.
type MoveRow struct {
	Game         string `parquet:"game,dict"`
	Step         int32  `parquet:"step"`
	Player       int32  `parquet:"player"`
	Atomic       string `parquet:"atomic,dict"`
	DurationNs   int64  `parquet:"duration_ns"`
	Rollouts     int32  `parquet:"rollouts"`
	Cutoff       int32  `parquet:"cutoff"`
	FullPlayouts int32  `parquet:"full_playouts"`
	Cutoffs      int32  `parquet:"cutoffs"`
	Nodes        int32  `parquet:"nodes"`
	IsTreeReset  bool   `parquet:"is_tree_reset"`
}

func toMoveRow(record MoveRecord) MoveRow {
	return MoveRow{
		Game:         record.Game,
		Step:         int32(record.Step),
		Player:       int32(record.Player),
		Atomic:       record.Atomic,
		DurationNs:   record.Duration.Nanoseconds(),
		Rollouts:     int32(record.Rollouts),
		Cutoff:       int32(record.Cutoff),
		FullPlayouts: int32(record.FullPlayouts),
		Cutoffs:      int32(record.Cutoffs),
		Nodes:        int32(record.Nodes),
		IsTreeReset:  record.IsTreeReset,
	}
}

// WriteMoveParquet writes move_records.parquet next to the CSV files.
func (w *Writer) WriteMoveParquet(records []MoveRecord) error {
	rows := make([]MoveRow, len(records))
	for i, record := range records {
		rows[i] = toMoveRow(record)
	}
	return writeParquet(filepath.Join(w.baseDir, "move_records.parquet"), rows)
}

func writeParquet(outPath string, rows []MoveRow) error {
	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "move_records_v1"),
	); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write parquet: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}

func ReadMoveParquet(path string) ([]MoveRow, error) {
	rows, err := parquet.ReadFile[MoveRow](path)
	if err != nil {
		return nil, fmt.Errorf("read parquet: %w", err)
	}
	return rows, nil
}
