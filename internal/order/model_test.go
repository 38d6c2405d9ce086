package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	for _, s := range Statuses() {
		require.True(t, s.Valid(), s)
	}
	require.False(t, Status("delivered").Valid())

	s, ok := ParseStatus("  Ready ")
	require.True(t, ok)
	require.Equal(t, StatusReady, s)

	require.True(t, StatusCancelled.Terminal())
	require.False(t, StatusPreparing.Terminal())
}

func TestEstimateReady(t *testing.T) {
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	require.Equal(t, now.Add(7*time.Minute), EstimateReady(now, 1))
	require.Equal(t, now.Add(25*time.Minute), EstimateReady(now, 10))
}

func TestPlaceRequestLines(t *testing.T) {
	id, qty := int64(3), 2

	tests := map[string]struct {
		req     PlaceRequest
		want    []LineRequest
		wantErr string
	}{
		"items form": {
			req:  PlaceRequest{Items: []LineRequest{{ItemID: 1, Quantity: 1}}},
			want: []LineRequest{{ItemID: 1, Quantity: 1}},
		},
		"legacy single item form": {
			req:  PlaceRequest{ItemID: &id, Quantity: &qty},
			want: []LineRequest{{ItemID: 3, Quantity: 2}},
		},
		"neither": {
			req:     PlaceRequest{},
			wantErr: "Provide either items[] or item_id + quantity",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := tc.req.Lines()
			if tc.wantErr != "" {
				require.EqualError(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestMergeLines(t *testing.T) {
	got := mergeLines([]LineRequest{
		{ItemID: 2, Quantity: 1},
		{ItemID: 1, Quantity: 2},
		{ItemID: 2, Quantity: 3},
		{ItemID: 4, Quantity: 1},
		{ItemID: 4, Quantity: 0},
		{ItemID: 4, Quantity: 5},
	})
	require.Equal(t, []LineRequest{
		{ItemID: 2, Quantity: 4},
		{ItemID: 1, Quantity: 2},
		{ItemID: 4, Quantity: 0},
	}, got)
}

func TestOrderUnits(t *testing.T) {
	o := Order{Items: []Line{{Quantity: 2}, {Quantity: 3}}}
	require.Equal(t, 5, o.Units())
}
