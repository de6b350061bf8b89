package quantity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kovalyshyn/workvol/internal/common"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		policy  Policy
		want    float64
		wantErr bool
	}{
		{name: "comma separator", input: "39,3", policy: ForAdd, want: 39.3},
		{name: "dot separator", input: "12.5", policy: ForAdd, want: 12.5},
		{name: "integer", input: "7", policy: ForAdd, want: 7},
		{name: "surrounding whitespace", input: " 2,25 ", policy: ForAdd, want: 2.25},
		{name: "not a number", input: "abc", policy: ForAdd, wantErr: true},
		{name: "empty", input: "", policy: ForAdd, wantErr: true},
		{name: "two commas", input: "1,2,3", policy: ForAdd, wantErr: true},
		{name: "negative rejected for add", input: "-1", policy: ForAdd, wantErr: true},
		{name: "negative rejected for edit", input: "-1", policy: ForEdit, wantErr: true},
		{name: "zero rejected for add", input: "0", policy: ForAdd, wantErr: true},
		{name: "zero accepted for edit", input: "0", policy: ForEdit, want: 0},
		{name: "comma decimal for edit", input: "0,0", policy: ForEdit, want: 0},
		{name: "nan rejected", input: "NaN", policy: ForEdit, wantErr: true},
		{name: "inf rejected", input: "Inf", policy: ForAdd, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input, tt.policy)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, common.ErrInvalidQuantity))
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
