package ingest

import (
	"context"
	"os"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/cockroachdb/errors"

	"github.com/pipetab/pipetab/pkg/logging"
	"github.com/pipetab/pipetab/pkg/table"
)

// Parquet reads a Parquet file through the Arrow bridge. Chunked columns
// are concatenated into a single record batch.
type Parquet struct {
	Path string
}

func (p *Parquet) Ingest(ctx context.Context) (*table.Table, error) {
	if err := statSource(p.Path); err != nil {
		return nil, err
	}
	f, err := os.Open(p.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", p.Path)
	}
	defer f.Close()

	mem := memory.DefaultAllocator
	pqReader, err := file.NewParquetReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parquet reader %s", p.Path)
	}
	defer pqReader.Close()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, errors.Wrapf(err, "arrow reader %s", p.Path)
	}
	at, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", p.Path)
	}
	defer at.Release()

	schema := at.Schema()
	cols := make([]table.Col, at.NumCols())
	for i := 0; i < int(at.NumCols()); i++ {
		chunks := at.Column(i).Data().Chunks()
		switch len(chunks) {
		case 0:
			empty, err := table.NewCol(schema.Field(i).Name, []string{}, nil, mem)
			if err != nil {
				return nil, err
			}
			cols[i] = empty
			continue
		case 1:
			chunks[0].Retain()
			cols[i] = table.Col{Field: schema.Field(i), Array: chunks[0]}
			continue
		}
		merged, err := array.Concatenate(chunks, mem)
		if err != nil {
			return nil, errors.Wrapf(err, "column %s", schema.Field(i).Name)
		}
		cols[i] = table.Col{Field: schema.Field(i), Array: merged}
	}
	t, err := table.New(cols...)
	if err != nil {
		return nil, err
	}
	logging.L.Infow("ingested parquet", "path", p.Path, "rows", t.NumRows(), "cols", t.NumCols())
	return t, nil
}
