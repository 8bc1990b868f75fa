package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	var v struct {
		Start Date  `json:"start"`
		End   *Date `json:"end"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2024-02-29","end":null}`), &v))
	assert.Equal(t, NewDate(2024, time.February, 29), v.Start)
	assert.Nil(t, v.End)

	b, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"2024-02-29","end":null}`, string(b))

	err = json.Unmarshal([]byte(`{"start":"29.02.2024"}`), &v)
	var fe *DateFormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.", fe.Error())
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2021, 7, 30, 13, 0, 0, 0, time.Local)))
	assert.Equal(t, "2021-07-30", d.String())

	require.NoError(t, d.Scan([]byte("2020-01-02T00:00:00Z")))
	assert.Equal(t, "2020-01-02", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())
	v, err := d.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	assert.Error(t, d.Scan(42))
}

func TestEducationJSONGraduated(t *testing.T) {
	e := Education{
		Owned:       Owned{ID: 3, UserID: 1},
		Institution: "MIT",
		Degree:      "BSc",
		StartDate:   NewDate(2016, time.September, 1),
	}
	b, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":3,"user":1,"institution":"MIT","degree":"BSc",
		"start_date":"2016-09-01","end_date":null,"graduated":false}`, string(b))

	e.EndDate = DatePtr(NewDate(2020, time.June, 30))
	b, err = json.Marshal(&e)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, true, out["graduated"])
	assert.Equal(t, "2020-06-30", out["end_date"])

	var back Education
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, "MIT", back.Institution)
	assert.True(t, back.Graduated())
}
