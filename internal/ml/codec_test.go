package ml

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestNeighborsCodecRoundTrip(t *testing.T) {
	x := mat.NewDense(3, 2, []float64{
		1, 5,
		2, 3,
		4, 1,
	})
	index := NewNearestNeighbors(2)
	if err := index.Fit(x); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	payload, err := EncodeNeighbors(index)
	if err != nil {
		t.Fatalf("EncodeNeighbors: %v", err)
	}
	decoded, err := DecodeNeighbors(payload)
	if err != nil {
		t.Fatalf("DecodeNeighbors: %v", err)
	}
	if decoded.K != 2 || decoded.NumSamples() != 3 || decoded.NumFeatures() != 2 {
		t.Fatalf("decoded index shape changed: k=%d samples=%d features=%d",
			decoded.K, decoded.NumSamples(), decoded.NumFeatures())
	}

	query := []float64{1, 5}
	wantIdx, wantDist, err := index.Kneighbors(query, 2)
	if err != nil {
		t.Fatalf("Kneighbors: %v", err)
	}
	gotIdx, gotDist, err := decoded.Kneighbors(query, 2)
	if err != nil {
		t.Fatalf("decoded Kneighbors: %v", err)
	}
	for i := range wantIdx {
		if gotIdx[i] != wantIdx[i] || gotDist[i] != wantDist[i] {
			t.Fatalf("decoded neighbors diverged: %v/%v vs %v/%v", gotIdx, gotDist, wantIdx, wantDist)
		}
	}
}

func TestDecodeNeighborsRejectsEmptyIndex(t *testing.T) {
	payload, err := EncodeNeighbors(NewNearestNeighbors(5))
	if err != nil {
		t.Fatalf("EncodeNeighbors: %v", err)
	}
	if _, err := DecodeNeighbors(payload); err == nil {
		t.Fatalf("expected error decoding an unfitted index")
	}
}
