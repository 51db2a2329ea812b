// Package machine читает данные, которые станок пишет в общий каталог:
// <hole_id>/batch-<to>/depth.txt, где первая строка depth.txt это from.
package machine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"path"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Totarae/BatchConsole/internal/model"
)

const (
	batchPrefix = "batch-"
	depthFile   = "depth.txt"
	// PreviewFile миниатюра первого образца внутри каталога batch.
	PreviewFile = "sample-1/rec-low-res-thumb-x.jpg"
)

// Record один batch, найденный на share.
type Record struct {
	HoleID  string
	From    float64
	To      float64
	Machine string
}

// Values переводит запись в machine_values ответа API.
func (r Record) Values() *model.MachineValues {
	return &model.MachineValues{
		HoleID:  r.HoleID,
		From:    model.NewNumber(r.From),
		To:      model.NewNumber(r.To),
		Machine: r.Machine,
	}
}

// Share каталог станка.
type Share struct {
	fsys   fs.FS
	logger *zap.Logger
}

// NewShare создаёт читатель поверх fsys (обычно os.DirFS смонтированного каталога).
func NewShare(fsys fs.FS, logger *zap.Logger) *Share {
	return &Share{fsys: fsys, logger: logger}
}

// FS файловая система share, из неё же отдаются изображения.
func (s *Share) FS() fs.FS {
	return s.fsys
}

// Scan обходит share. Нечитаемые каталоги и файлы пропускаются с предупреждением;
// ошибкой считается только недоступный корень.
func (s *Share) Scan(ctx context.Context) ([]Record, error) {
	holes, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read share root: %w", err)
	}

	var out []Record
	for _, hole := range holes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := hole.Name()
		if !hole.IsDir() || strings.Contains(name, ".") {
			continue
		}
		records, err := s.scanHole(name)
		if err != nil {
			s.logger.Warn("Не удалось прочитать каталог скважины", zap.String("hole_id", name), zap.Error(err))
			continue
		}
		out = append(out, records...)
	}
	return out, nil
}

func (s *Share) scanHole(hole string) ([]Record, error) {
	entries, err := fs.ReadDir(s.fsys, hole)
	if err != nil {
		return nil, err
	}

	var out []Record
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), batchPrefix) {
			continue
		}
		to, err := strconv.ParseFloat(strings.TrimPrefix(e.Name(), batchPrefix), 64)
		if err != nil {
			continue
		}
		from, err := s.readFrom(path.Join(hole, e.Name(), depthFile))
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				s.logger.Warn("Некорректный depth.txt", zap.String("hole_id", hole), zap.String("batch", e.Name()), zap.Error(err))
			}
			continue
		}
		out = append(out, Record{
			HoleID:  hole,
			From:    round2(from),
			To:      round2(to),
			Machine: model.DefaultMachine,
		})
	}
	return out, nil
}

// readFrom первая непустая строка depth.txt.
func (s *Share) readFrom(name string) (float64, error) {
	f, err := s.fsys.Open(name)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		return strconv.ParseFloat(line, 64)
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	return 0, errors.New("empty depth file")
}

// PreviewPath путь миниатюры batch относительно корня share.
func PreviewPath(holeID string, to model.Number) string {
	return path.Join(holeID, batchPrefix+to.String(), PreviewFile)
}

// HasFile сообщает, есть ли файл на share.
func (s *Share) HasFile(name string) bool {
	st, err := fs.Stat(s.fsys, name)
	return err == nil && !st.IsDir()
}

// Find первая запись с данным hole_id.
func Find(records []Record, holeID string) (Record, bool) {
	holeID = strings.TrimSpace(holeID)
	for _, r := range records {
		if r.HoleID == holeID {
			return r, true
		}
	}
	return Record{}, false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
