package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.scriptor.dev/stash/internal/core/domain"
)

func TestEstimateSize_Positive(t *testing.T) {
	values := []any{
		nil,
		"",
		"x",
		42,
		[]string{},
		&domain.Structure{},
		&domain.Graph{Nodes: []domain.GraphNode{{ID: "Start"}}},
		map[string]int{"a": 1},
	}
	for _, v := range values {
		if got := domain.EstimateSize(v); got <= 0 {
			t.Errorf("EstimateSize(%#v) = %d, want > 0", v, got)
		}
	}
}

func TestEstimateSize_Deterministic(t *testing.T) {
	st := &domain.Structure{
		Blocks: []domain.Block{{Name: "Start", Kind: domain.BlockSection, Line: 1, EndLine: 3}},
		Lines:  3,
	}
	require.Equal(t, domain.EstimateSize(st), domain.EstimateSize(st))
}

func TestEstimateSize_DoublesSerializedLength(t *testing.T) {
	// "x" serializes to `"x"`, three bytes.
	require.Equal(t, int64(6), domain.EstimateSize("x"))
}

func TestEstimateSize_FallbackForUnserializable(t *testing.T) {
	ch := make(chan int)
	got := domain.EstimateSize(ch)
	require.Positive(t, got)
	// A second unserializable value is charged the same fixed amount.
	require.Equal(t, got, domain.EstimateSize(func() {}))
}

func TestEstimateSize_GrowsWithContent(t *testing.T) {
	small := &domain.Structure{Blocks: []domain.Block{{Name: "A"}}}
	large := &domain.Structure{Blocks: []domain.Block{
		{Name: "A", Steps: []domain.Step{{Kind: domain.StepText, Text: "a long line of script prose", Line: 2}}},
		{Name: "B", Steps: []domain.Step{{Kind: domain.StepDivert, Target: "A", Line: 5}}},
	}}
	if domain.EstimateSize(large) <= domain.EstimateSize(small) {
		t.Fatal("expected a larger structure to have a larger size estimate")
	}
}
