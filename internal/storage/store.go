// Package storage persists the list of saved evaluations. Every backend
// stores the whole list under one key and overwrites it on save.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"lms-evaluation/internal/schemas"
)

// DefaultKey names the stored list: file name stem, object key stem.
const DefaultKey = "lms-evaluations"

// ErrCorrupt marks stored data that exists but cannot be decoded.
var ErrCorrupt = errors.New("stored evaluations are corrupt")

// Store loads and overwrites the evaluation list. A missing list loads as
// empty with a nil error.
type Store interface {
	Load(ctx context.Context) ([]schemas.EvaluationData, error)
	Save(ctx context.Context, evaluations []schemas.EvaluationData) error
}

func decodeList(data []byte) ([]schemas.EvaluationData, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var list []schemas.EvaluationData
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return list, nil
}

func encodeList(list []schemas.EvaluationData) ([]byte, error) {
	if list == nil {
		list = []schemas.EvaluationData{}
	}
	return json.Marshal(list)
}
