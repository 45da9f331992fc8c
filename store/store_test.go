package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ColbyCabrera/harmonia/model"
)

func samplePiece() *model.Piece {
	return &model.Piece{
		ID:        "11111111-2222-3333-4444-555555555555",
		Title:     "Stored",
		Key:       "C",
		Meter:     "4/4",
		Style:     model.SATB,
		Seed:      9,
		CreatedAt: time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC),
	}
}

func TestNewFromEnvDisabledWithoutTable(t *testing.T) {
	assert := assert.New(t)

	t.Setenv("HARMONIA_STORE_TABLE", "")
	s, err := NewFromEnv()
	assert.NoError(err)
	assert.Nil(s)
}

func TestNewFromEnvConfigured(t *testing.T) {
	assert := assert.New(t)

	t.Setenv("HARMONIA_STORE_TABLE", "harmonia-pieces")
	t.Setenv("HARMONIA_STORE_ENDPOINT", "http://localhost:8000")
	t.Setenv("AWS_REGION", "localhost")

	s, err := NewFromEnv()
	assert.NoError(err)
	if assert.NotNil(s) {
		assert.Equal("harmonia-pieces", s.table)
		assert.NotNil(s.client)
	}
}

func TestPieceItemShape(t *testing.T) {
	assert := assert.New(t)

	piece := samplePiece()
	diags := []model.Diagnostic{{
		Kind:     model.DiagBassFallback,
		Severity: model.SeverityWarning,
		Measure:  2,
		Beat:     1,
	}}
	item, err := pieceItem(PieceRecord{Piece: piece, Diagnostics: diags})
	assert.NoError(err)

	assert.Equal(piece.ID, *item["PK"].S)
	assert.Equal("C", *item["Key"].S)
	assert.Equal("Stored", *item["Title"].S)
	assert.Equal("2024-05-01T08:30:00Z", *item["CreatedAt"].S)

	rec, err := decodeItem(piece.ID, item)
	assert.NoError(err)
	assert.Equal(piece.ID, rec.Piece.ID)
	assert.Equal(piece.Seed, rec.Piece.Seed)
	assert.Len(rec.Diagnostics, 1)
	assert.Equal(model.DiagBassFallback, rec.Diagnostics[0].Kind)
}

func TestPieceItemOmitsEmptyTitle(t *testing.T) {
	assert := assert.New(t)

	piece := samplePiece()
	piece.Title = ""
	item, err := pieceItem(PieceRecord{Piece: piece})
	assert.NoError(err)
	_, ok := item["Title"]
	assert.False(ok)
}

func TestPieceItemRequiresID(t *testing.T) {
	assert := assert.New(t)

	_, err := pieceItem(PieceRecord{Piece: &model.Piece{}})
	assert.Error(err)
	_, err = pieceItem(PieceRecord{})
	assert.Error(err)
}

func TestDecodeItemRejectsMalformed(t *testing.T) {
	assert := assert.New(t)

	_, err := decodeItem("x", nil)
	assert.Error(err)
}
