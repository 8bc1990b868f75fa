package response

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOKNeverNullData(t *testing.T) {
	b, err := json.Marshal(OK(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":0,"msg":"OK","data":{}}`, string(b))
}

func TestFailCarriesFieldErrors(t *testing.T) {
	b, err := json.Marshal(Fail(CodeBadRequest, "validation_error", map[string][]string{"rate": {"bad"}}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":400,"msg":"validation_error","data":{},"errors":{"rate":["bad"]}}`, string(b))

	b, err = json.Marshal(Fail(CodeNotFound, "", nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":404,"msg":"Not Found","data":{}}`, string(b))
}
