package api

import (
	"context"
	"sync"

	"studycompanion/internal/models"
	"studycompanion/internal/storage"
)

// DocumentStore keeps uploaded documents by session id. *storage.DocumentRepo
// satisfies it for Postgres.
type DocumentStore interface {
	SaveDocument(ctx context.Context, doc models.Document) error
	GetDocument(ctx context.Context, sessionID string) (models.Document, error)
	CountDocuments(ctx context.Context) (int, error)
}

// MemoryDocuments is the default store. It lives only as long as the process.
type MemoryDocuments struct {
	mu   sync.RWMutex
	docs map[string]models.Document
}

func NewMemoryDocuments() *MemoryDocuments {
	return &MemoryDocuments{docs: make(map[string]models.Document)}
}

func (m *MemoryDocuments) SaveDocument(_ context.Context, doc models.Document) error {
	m.mu.Lock()
	m.docs[doc.SessionID] = doc
	m.mu.Unlock()
	return nil
}

func (m *MemoryDocuments) GetDocument(_ context.Context, sessionID string) (models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[sessionID]
	if !ok {
		return models.Document{}, storage.ErrDocumentNotFound
	}
	return doc, nil
}

func (m *MemoryDocuments) CountDocuments(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs), nil
}
