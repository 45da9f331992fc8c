// Package store persists generated pieces to DynamoDB so they can be
// fetched again by id. Configuration comes from the environment; with no
// table configured the store is simply off.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"

	"github.com/ColbyCabrera/harmonia/constants"
	"github.com/ColbyCabrera/harmonia/model"
)

// ErrNotFound is returned by GetPiece when no item has the given id.
var ErrNotFound = errors.New("piece not found")

// PieceRecord is the stored shape of a generation result.
type PieceRecord struct {
	Piece       *model.Piece       `json:"piece"`
	Diagnostics []model.Diagnostic `json:"diagnostics,omitempty"`
}

type Store struct {
	client *dynamodb.DynamoDB
	table  string
}

// NewFromEnv builds a store from HARMONIA_STORE_TABLE, AWS_REGION and
// HARMONIA_STORE_ENDPOINT. An empty table name means persistence is off and
// both return values are nil.
func NewFromEnv() (*Store, error) {
	table := constants.GetStoreTable()
	if table == "" {
		return nil, nil
	}
	return New(table, constants.GetStoreRegion(), constants.GetStoreEndpoint())
}

// New connects to DynamoDB. A non-empty endpoint points the client at a
// local instance.
func New(table, region, endpoint string) (*Store, error) {
	cfg := &aws.Config{Region: aws.String(region)}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("create dynamodb session: %w", err)
	}
	return &Store{client: dynamodb.New(sess), table: table}, nil
}

// PutPiece stores the piece and its diagnostics under the piece id.
func (s *Store) PutPiece(p *model.Piece, diags []model.Diagnostic) error {
	item, err := pieceItem(PieceRecord{Piece: p, Diagnostics: diags})
	if err != nil {
		return err
	}
	_, err = s.client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put piece %s: %w", p.ID, err)
	}
	return nil
}

// GetPiece fetches a stored piece by id.
func (s *Store) GetPiece(id string) (*PieceRecord, error) {
	out, err := s.client.GetItem(&dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(id)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get piece %s: %w", id, err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}
	return decodeItem(id, out.Item)
}

// pieceItem lays the record out as one item: the lookup key and a couple of
// scannable fields beside the full JSON document.
func pieceItem(rec PieceRecord) (map[string]*dynamodb.AttributeValue, error) {
	if rec.Piece == nil || rec.Piece.ID == "" {
		return nil, errors.New("piece has no id")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode piece %s: %w", rec.Piece.ID, err)
	}
	item := map[string]*dynamodb.AttributeValue{
		"PK":        {S: aws.String(rec.Piece.ID)},
		"Key":       {S: aws.String(rec.Piece.Key)},
		"CreatedAt": {S: aws.String(rec.Piece.CreatedAt.Format(time.RFC3339))},
		"Data":      {S: aws.String(string(data))},
	}
	if rec.Piece.Title != "" {
		item["Title"] = &dynamodb.AttributeValue{S: aws.String(rec.Piece.Title)}
	}
	return item, nil
}

func decodeItem(id string, item map[string]*dynamodb.AttributeValue) (*PieceRecord, error) {
	data := item["Data"]
	if data == nil || data.S == nil {
		return nil, fmt.Errorf("piece %s: item has no data attribute", id)
	}
	var rec PieceRecord
	if err := json.Unmarshal([]byte(*data.S), &rec); err != nil {
		return nil, fmt.Errorf("decode piece %s: %w", id, err)
	}
	return &rec, nil
}
