package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"studycompanion/internal/models"
)

var ErrDocumentNotFound = errors.New("document not found")

type DocumentRepo struct {
	db *DB
}

func NewDocumentRepo(db *DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// SaveDocument writes the document and its chunks in one transaction.
func (r *DocumentRepo) SaveDocument(ctx context.Context, doc models.Document) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx save document: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx, `
INSERT INTO documents (session_id, filename, owner, created_at)
VALUES ($1, $2, $3, $4)`,
		doc.SessionID, doc.Filename, string(doc.Owner), doc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document %s: %w", doc.SessionID, err)
	}
	for i, text := range doc.Chunks {
		if _, err := tx.Exec(ctx, `
INSERT INTO document_chunks (session_id, chunk_index, text) VALUES ($1, $2, $3)`,
			doc.SessionID, i, text,
		); err != nil {
			return fmt.Errorf("insert chunk %d of %s: %w", i, doc.SessionID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit document tx: %w", err)
	}
	return nil
}

func (r *DocumentRepo) GetDocument(ctx context.Context, sessionID string) (models.Document, error) {
	var doc models.Document
	var owner string
	err := r.db.Pool.QueryRow(ctx, `
SELECT session_id, filename, owner, created_at FROM documents WHERE session_id=$1`, sessionID,
	).Scan(&doc.SessionID, &doc.Filename, &owner, &doc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Document{}, ErrDocumentNotFound
	}
	if err != nil {
		return models.Document{}, fmt.Errorf("select document: %w", err)
	}
	doc.Owner = models.ParseUserType(owner)

	rows, err := r.db.Pool.Query(ctx, `
SELECT text FROM document_chunks WHERE session_id=$1 ORDER BY chunk_index ASC`, sessionID)
	if err != nil {
		return models.Document{}, fmt.Errorf("list chunks: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return models.Document{}, fmt.Errorf("scan chunk: %w", err)
		}
		doc.Chunks = append(doc.Chunks, text)
	}
	if err := rows.Err(); err != nil {
		return models.Document{}, fmt.Errorf("iterate chunks: %w", err)
	}
	return doc, nil
}

func (r *DocumentRepo) CountDocuments(ctx context.Context) (int, error) {
	var n int
	if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}
