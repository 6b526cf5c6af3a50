package animals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckTransition(t *testing.T) {
	cases := []struct {
		from, to    Status
		wantChanged bool
		wantErr     bool
	}{
		{StatusNotAdopted, StatusInProcess, true, false},
		{StatusInProcess, StatusAdopted, true, false},
		{StatusNotAdopted, StatusNotAdopted, false, false},
		{StatusAdopted, StatusAdopted, false, false},

		// saltos y retrocesos
		{StatusNotAdopted, StatusAdopted, false, true},
		{StatusInProcess, StatusNotAdopted, false, true},
		{StatusAdopted, StatusInProcess, false, true},
		{Status("LOST"), StatusInProcess, false, true},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			changed, err := CheckTransition(tc.from, tc.to)
			assert.Equal(t, tc.wantChanged, changed)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
