package schema

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Name   *string `json:"name" required:"true"`
	Amount *int    `json:"amount" min:"1" max:"10"`
	Nested struct {
		Count uint `json:"count" max:"3"`
	} `json:"nested"`
}

func unmarshal(t *testing.T, body string) (*testPayload, []*Error) {
	t.Helper()
	request := httptest.NewRequest("POST", "/", strings.NewReader(body))
	payload, errs, err := UnmarshalBody[testPayload](request)
	require.NoError(t, err)
	return payload, errs
}

func errorTypes(errs []*Error) []string {
	types := make([]string, 0, len(errs))
	for _, err := range errs {
		types = append(types, err.Type)
	}
	return types
}

func TestUnmarshalBody(t *testing.T) {
	payload, errs := unmarshal(t, `{"name": "x", "amount": 5, "nested": {"count": 2}}`)
	assert.Empty(t, errs)
	require.NotNil(t, payload)
	assert.Equal(t, "x", *payload.Name)
	assert.Equal(t, 5, *payload.Amount)
	assert.Equal(t, uint(2), payload.Nested.Count)
}

func TestUnmarshalBodyValidation(t *testing.T) {
	cases := map[string]struct {
		body  string
		types []string
	}{
		"missing required": {`{}`, []string{"validation.requestBody.parameter.missing"}},
		"empty body":       {``, []string{"validation.requestBody.parameter.missing"}},
		"out of range": {`{"name": "x", "amount": 11}`,
			[]string{"validation.requestBody.parameter.number.outOfRange"}},
		"nested out of range": {`{"name": "x", "nested": {"count": 4}}`,
			[]string{"validation.requestBody.parameter.number.outOfRange"}},
		"invalid type": {`{"name": 3}`, []string{"validation.requestBody.parameter.invalidType"}},
		"invalid json": {`{"name": `, []string{"validation.requestBody.invalidJSON"}},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, errs := unmarshal(t, c.body)
			assert.Equal(t, c.types, errorTypes(errs))
		})
	}
}

func TestUnmarshalBodyTooLarge(t *testing.T) {
	_, errs := unmarshal(t, `{"name": "`+strings.Repeat("x", MaxBodySize)+`"}`)
	assert.Equal(t, []string{"validation.requestBody.tooLarge"}, errorTypes(errs))
}

func TestPaginate(t *testing.T) {
	all := []int{0, 1, 2, 3, 4}
	assert.Equal(t, []int{0, 1}, Paginate(all, 0, 2))
	assert.Equal(t, []int{3, 4}, Paginate(all, 3, 10))
	assert.Equal(t, []int{}, Paginate(all, 5, 10))

	response := BuildPaginatedResponse[int](0, 10, 0, nil)
	assert.Equal(t, []int{}, response.Data)
	assert.Equal(t, 0, response.Pagination.IncludedCount)
}
