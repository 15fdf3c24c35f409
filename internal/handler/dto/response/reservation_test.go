//go:build unit

package response_test

import (
	"encoding/json"
	"testing"

	"tablebook/internal/handler/dto/response"
	"tablebook/internal/usecase/queries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromReservationViewDerivesActionFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status    string
		wantEdits bool
	}{
		{status: "Requested", wantEdits: true},
		{status: "Approved", wantEdits: true},
		{status: "Cancelled", wantEdits: false},
		{status: "Completed", wantEdits: false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			t.Parallel()

			res := response.FromReservationView(&queries.ReservationView{Status: tt.status})
			assert.Equal(t, tt.wantEdits, res.CanEdit)
			assert.Equal(t, tt.wantEdits, res.CanCancel)

			raw, err := json.Marshal(res)
			require.NoError(t, err)

			var body map[string]any
			require.NoError(t, json.Unmarshal(raw, &body))
			require.Contains(t, body, "canEdit")
			require.Contains(t, body, "canCancel")
			assert.Equal(t, tt.wantEdits, body["canEdit"])
			assert.Equal(t, tt.wantEdits, body["canCancel"])
		})
	}
}
