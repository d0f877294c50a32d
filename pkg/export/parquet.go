package export

import (
	"context"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/cockroachdb/errors"

	"github.com/pipetab/pipetab/pkg/logging"
	"github.com/pipetab/pipetab/pkg/table"
)

// Parquet writes a table as a Parquet file through the Arrow bridge.
// Compression defaults to snappy.
type Parquet struct {
	Path        string
	Compression string
}

func (p *Parquet) Export(ctx context.Context, t *table.Table) error {
	if err := prepDest(p.Path); err != nil {
		return err
	}
	f, err := os.Create(p.Path)
	if err != nil {
		return errors.Wrapf(err, "create %s", p.Path)
	}
	defer f.Close()

	rec := t.Record()
	at := array.NewTableFromRecords(rec.Schema(), []arrow.Record{rec})
	defer at.Release()

	props := parquet.NewWriterProperties(parquet.WithCompression(codec(p.Compression)))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithAllocator(memory.DefaultAllocator))
	w, err := pqarrow.NewFileWriter(rec.Schema(), f, props, arrowProps)
	if err != nil {
		return errors.Wrapf(err, "parquet writer %s", p.Path)
	}
	if err := w.WriteTable(at, at.NumRows()); err != nil {
		w.Close()
		return errors.Wrapf(err, "write %s", p.Path)
	}
	if err := w.Close(); err != nil {
		return errors.Wrapf(err, "close %s", p.Path)
	}
	logging.L.Infow("exported parquet", "path", p.Path, "rows", t.NumRows(), "cols", t.NumCols())
	return nil
}

func codec(name string) compress.Compression {
	switch name {
	case "gzip":
		return compress.Codecs.Gzip
	case "zstd":
		return compress.Codecs.Zstd
	case "lz4":
		return compress.Codecs.Lz4Raw
	case "uncompressed":
		return compress.Codecs.Uncompressed
	default:
		return compress.Codecs.Snappy
	}
}
