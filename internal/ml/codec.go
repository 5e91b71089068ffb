package ml

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// ArtifactFormatVersion tags every persisted model payload. Bump it when a
// model struct changes incompatibly; loaders compare the stored tag before
// decoding, so a stale artifact degrades to the documented fallback instead
// of failing mid-decode.
const ArtifactFormatVersion = 1

func EncodeForest(forest *RandomForest) ([]byte, error) {
	return encode(forest)
}

func DecodeForest(payload []byte) (*RandomForest, error) {
	var forest RandomForest
	if err := decode(payload, &forest); err != nil {
		return nil, fmt.Errorf("decode forest: %w", err)
	}
	if len(forest.Trees) == 0 {
		return nil, fmt.Errorf("decode forest: empty ensemble")
	}
	return &forest, nil
}

func EncodeNeighbors(index *NearestNeighbors) ([]byte, error) {
	return encode(index)
}

func DecodeNeighbors(payload []byte) (*NearestNeighbors, error) {
	var index NearestNeighbors
	if err := decode(payload, &index); err != nil {
		return nil, fmt.Errorf("decode neighbors: %w", err)
	}
	if index.NumSamples() == 0 {
		return nil, fmt.Errorf("decode neighbors: empty index")
	}
	return &index, nil
}

func encode(model any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(model); err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}
	return buf.Bytes(), nil
}

func decode(payload []byte, out any) error {
	return gob.NewDecoder(bytes.NewReader(payload)).Decode(out)
}
