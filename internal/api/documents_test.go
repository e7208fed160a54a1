package api

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"studycompanion/internal/models"
	"studycompanion/internal/storage"
)

func TestMemoryDocuments(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryDocuments()

	_, err := m.GetDocument(ctx, "nope")
	require.ErrorIs(t, err, storage.ErrDocumentNotFound)

	require.NoError(t, m.SaveDocument(ctx, models.Document{SessionID: "s1", Filename: "a.pdf", Chunks: []string{"x"}}))
	doc, err := m.GetDocument(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "a.pdf", doc.Filename)

	n, err := m.CountDocuments(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
