package store

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/gophreach/internal/common"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// WorkbookStore keeps every table as a sheet of an xlsx workbook. Row 1 of
// each sheet holds the headers, so data row addr lives on sheet row addr+2.
// The file is saved after every write; an empty path keeps the workbook in
// memory only.
type WorkbookStore struct {
	mu   sync.Mutex
	f    *excelize.File
	path string
}

// OpenWorkbook opens the workbook at path, creating it and any missing
// sheets when needed.
func OpenWorkbook(path string) (*WorkbookStore, error) {
	var f *excelize.File
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			f, err = excelize.OpenFile(path)
			if err != nil {
				return nil, common.StoreError("open workbook", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, common.StoreError("open workbook", err)
		}
	}
	if f == nil {
		f = excelize.NewFile()
	}

	w := &WorkbookStore{f: f, path: path}
	if err := w.ensureSheets(); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := w.save(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return w, nil
}

func (w *WorkbookStore) ensureSheets() error {
	for _, t := range Tables {
		idx, err := w.f.GetSheetIndex(string(t))
		if err != nil {
			return common.StoreError("open workbook", err)
		}
		if idx != -1 {
			continue
		}
		if _, err := w.f.NewSheet(string(t)); err != nil {
			return common.StoreError("open workbook", err)
		}
		headers := Headers[t]
		if err := w.f.SetSheetRow(string(t), "A1", &headers); err != nil {
			return common.StoreError("open workbook", err)
		}
	}

	if idx, _ := w.f.GetSheetIndex(defaultSheet); idx != -1 {
		if err := w.f.DeleteSheet(defaultSheet); err != nil {
			return common.StoreError("open workbook", err)
		}
	}
	return nil
}

func (w *WorkbookStore) save() error {
	if w.path == "" {
		return nil
	}
	if err := w.f.SaveAs(w.path); err != nil {
		return common.StoreError("save workbook", err)
	}
	return nil
}

// WriteTo streams the current workbook.
func (w *WorkbookStore) WriteTo(out io.Writer) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.WriteTo(out)
}

func (w *WorkbookStore) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.Close()
}

// dataRows returns every sheet row below the header.
func (w *WorkbookStore) dataRows(t Table) ([][]string, error) {
	rows, err := w.f.GetRows(string(t))
	if err != nil {
		return nil, common.StoreError("read "+string(t), err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil
}

func (w *WorkbookStore) Scan(ctx context.Context, t Table) ([]Row, error) {
	if _, err := width(t); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	data, err := w.dataRows(t)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, len(data))
	for i, cells := range data {
		rows[i] = Row{Address: RowAddress(i), Cells: cells}
	}
	return rows, nil
}

func (w *WorkbookStore) AppendRow(ctx context.Context, t Table, row []string) error {
	cells, err := normalize(t, row)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	data, err := w.dataRows(t)
	if err != nil {
		return err
	}
	if err := w.setRow(t, RowAddress(len(data)), 0, cells); err != nil {
		return err
	}
	return w.save()
}

func (w *WorkbookStore) UpdateRow(ctx context.Context, t Table, addr RowAddress, row []string) error {
	cells, err := normalize(t, row)
	if err != nil {
		return err
	}
	return w.update(ctx, t, addr, 0, cells)
}

func (w *WorkbookStore) UpdateCellRange(ctx context.Context, t Table, addr RowAddress, cols ColumnRange, values []string) error {
	if err := checkRange(t, cols, values); err != nil {
		return err
	}
	return w.update(ctx, t, addr, cols.Start, values)
}

func (w *WorkbookStore) update(ctx context.Context, t Table, addr RowAddress, col int, values []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	data, err := w.dataRows(t)
	if err != nil {
		return err
	}
	if addr < 0 || int(addr) >= len(data) {
		return errNoRow(t, addr)
	}
	if err := w.setRow(t, addr, col, values); err != nil {
		return err
	}
	return w.save()
}

func (w *WorkbookStore) setRow(t Table, addr RowAddress, col int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(col+1, int(addr)+2)
	if err != nil {
		return common.StoreError("write "+string(t), err)
	}
	if err := w.f.SetSheetRow(string(t), cell, &values); err != nil {
		return common.StoreError("write "+string(t), err)
	}
	return nil
}

// Load writes rows at their addresses in one pass and saves once. It is
// meant for filling a fresh workbook from another store.
func (w *WorkbookStore) Load(ctx context.Context, t Table, rows []Row) error {
	if _, err := width(t); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for _, r := range rows {
		cells, err := normalize(t, r.Cells)
		if err != nil {
			return err
		}
		if err := w.setRow(t, r.Address, 0, cells); err != nil {
			return err
		}
	}
	return w.save()
}
