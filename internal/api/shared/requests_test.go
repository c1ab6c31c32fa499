package shared

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name  string `json:"name"  validate:"required"`
	Count int    `json:"count" validate:"gte=0"`
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"name":"a","count":1}`, false},
		{"malformed", `{"name":`, true},
		{"unknown field", `{"name":"a","extra":true}`, true},
		{"trailing data", `{"name":"a"} {"name":"b"}`, true},
		{"too large", `{"name":"` + strings.Repeat("x", MaxRequestBytes) + `"}`, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest("POST", "/", strings.NewReader(tc.body))
			w := httptest.NewRecorder()

			var req sampleRequest
			err := DecodeJSON(w, r, &req)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidBody)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "a", req.Name)
		})
	}
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateRequest(&sampleRequest{Name: "a"}))
	assert.Error(t, ValidateRequest(&sampleRequest{Count: -1}))
}
