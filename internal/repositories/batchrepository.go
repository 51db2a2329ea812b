package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Totarae/BatchConsole/internal/database"
	"github.com/Totarae/BatchConsole/internal/model"
	"github.com/Totarae/BatchConsole/internal/storage"
)

const batchColumns = `batch_number, hole_id, from_m, to_m, machine, status, comentarios, created_at`

// BatchRepository реализует storage.Storage поверх PostgreSQL.
type BatchRepository struct {
	DB *database.DB
}

var _ storage.Storage = (*BatchRepository)(nil)

// NewBatchRepository создаёт новый экземпляр BatchRepository.
func NewBatchRepository(db *database.DB) *BatchRepository {
	return &BatchRepository{DB: db}
}

// List возвращает страницу batch от новых к старым.
func (r *BatchRepository) List(ctx context.Context, offset, limit int) ([]model.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches ORDER BY batch_number DESC LIMIT $1 OFFSET $2`
	rows, err := r.DB.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query batches: %w", err)
	}
	return collect(rows)
}

// All возвращает все batch по возрастанию номера.
func (r *BatchRepository) All(ctx context.Context) ([]model.Batch, error) {
	rows, err := r.DB.Pool.Query(ctx, `SELECT `+batchColumns+` FROM batches ORDER BY batch_number`)
	if err != nil {
		return nil, fmt.Errorf("failed to query batches: %w", err)
	}
	return collect(rows)
}

// Get извлекает batch по номеру.
func (r *BatchRepository) Get(ctx context.Context, batchNumber int) (*model.Batch, error) {
	row := r.DB.Pool.QueryRow(ctx, `SELECT `+batchColumns+` FROM batches WHERE batch_number = $1`, batchNumber)
	b, err := scanBatch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return b, nil
}

// Create добавляет batch с номером count+1. Таблица блокируется на запись,
// чтобы два одновременных добавления не получили один номер.
func (r *BatchRepository) Create(ctx context.Context, b model.Batch) (*model.Batch, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `LOCK TABLE batches IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return nil, fmt.Errorf("failed to lock batches: %w", err)
	}

	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM batches`).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to count batches: %w", err)
	}

	query := `INSERT INTO batches (batch_number, hole_id, from_m, to_m, machine, status, comentarios)
              VALUES ($1, $2, $3, $4, $5, $6, $7)
              RETURNING ` + batchColumns
	created, err := scanBatch(tx.QueryRow(ctx, query,
		count+1, b.HoleID, b.From.Ptr(), b.To.Ptr(), b.Machine, string(b.Status), b.Comentarios))
	if err != nil {
		return nil, fmt.Errorf("database insert error: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return created, nil
}

// Update читает batch с блокировкой строки, применяет apply и сохраняет.
func (r *BatchRepository) Update(ctx context.Context, batchNumber int, apply func(*model.Batch)) (*model.Batch, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	b, err := scanBatch(tx.QueryRow(ctx,
		`SELECT `+batchColumns+` FROM batches WHERE batch_number = $1 FOR UPDATE`, batchNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	apply(b)

	query := `UPDATE batches
              SET hole_id = $2, from_m = $3, to_m = $4, machine = $5, status = $6, comentarios = $7
              WHERE batch_number = $1
              RETURNING ` + batchColumns
	updated, err := scanBatch(tx.QueryRow(ctx, query,
		batchNumber, b.HoleID, b.From.Ptr(), b.To.Ptr(), b.Machine, string(b.Status), b.Comentarios))
	if err != nil {
		return nil, fmt.Errorf("database update error: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return updated, nil
}

// Delete удаляет batch и сдвигает номера следующих за ним.
func (r *BatchRepository) Delete(ctx context.Context, batchNumber int) error {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM batches WHERE batch_number = $1`, batchNumber)
	if err != nil {
		return fmt.Errorf("failed to delete batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	if _, err := tx.Exec(ctx,
		`UPDATE batches SET batch_number = batch_number - 1 WHERE batch_number > $1`, batchNumber); err != nil {
		return fmt.Errorf("failed to renumber batches: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Count количество batch.
func (r *BatchRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM batches`).Scan(&count)
	return count, err
}

// Ping проверяет доступность базы данных.
func (r *BatchRepository) Ping(ctx context.Context) error {
	return r.DB.Ping(ctx)
}

func scanBatch(row pgx.Row) (*model.Batch, error) {
	var (
		b        model.Batch
		from, to *float64
		status   string
		created  time.Time
	)
	if err := row.Scan(&b.BatchNumber, &b.HoleID, &from, &to, &b.Machine, &status, &b.Comentarios, &created); err != nil {
		return nil, err
	}
	b.From = model.NumberFromPtr(from)
	b.To = model.NumberFromPtr(to)
	b.Status = model.Status(status)
	b.CreatedAt = created.Format(time.RFC3339)
	return &b, nil
}

func collect(rows pgx.Rows) ([]model.Batch, error) {
	defer rows.Close()

	var out []model.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return out, nil
}
