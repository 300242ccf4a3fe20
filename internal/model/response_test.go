package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawResponses_UnmarshalArray(t *testing.T) {
	var r RawResponses
	err := json.Unmarshal([]byte(`["s1", 21, true, null, "", 4.50]`), &r)
	require.NoError(t, err)
	require.Len(t, r, 6)

	assert.Equal(t, KindString, r[0].Kind())
	assert.Equal(t, "s1", r[0].Text())

	f, ok := r[1].Float()
	assert.True(t, ok)
	assert.Equal(t, 21.0, f)

	assert.Equal(t, KindBool, r[2].Kind())
	assert.Equal(t, "True", r[2].Text())
	_, ok = r[2].Float()
	assert.False(t, ok)

	assert.True(t, r[3].IsMissing())
	assert.Equal(t, KindString, r[4].Kind())
	assert.Equal(t, "4.50", r[5].Text(), "number literal is preserved")
}

func TestRawResponses_UnmarshalObject(t *testing.T) {
	var r RawResponses
	err := json.Unmarshal([]byte(`{"id":"u1","SleepDuration":3,"SuicidalThoughts":"No","Unknown":"x"}`), &r)
	require.NoError(t, err)
	require.Len(t, r, QuestionCount)

	assert.Equal(t, "u1", r[PosID].Text())
	sleep, ok := r[PosSleepDuration].Float()
	require.True(t, ok)
	assert.Equal(t, 3.0, sleep)
	assert.Equal(t, "No", r[PosSuicidalThoughts].Text())
	assert.True(t, r[PosGender].IsMissing())
}

func TestRawResponses_UnmarshalInvalid(t *testing.T) {
	var r RawResponses
	assert.Error(t, json.Unmarshal([]byte(`"not a list"`), &r))
}

func TestRawResponses_AtOutOfRange(t *testing.T) {
	r := RawResponses{String("a")}
	assert.True(t, r.At(-1).IsMissing())
	assert.True(t, r.At(16).IsMissing())
	assert.Equal(t, "a", r.At(0).Text())
}

func TestRawValue_MarshalJSON(t *testing.T) {
	r := RawResponses{String("x"), Number(3), Bool(false), Missing()}
	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `["x", 3, false, null]`, string(data))
}

func TestRawResponses_Values(t *testing.T) {
	r := RawResponses{String("x"), Number(2.5), Bool(true), Missing()}
	assert.Equal(t, []interface{}{"x", 2.5, true, nil}, r.Values())
}

func TestRawValue_Number(t *testing.T) {
	tests := []struct {
		name string
		v    RawValue
		want float64
		ok   bool
	}{
		{"number", Number(4.5), 4.5, true},
		{"true", Bool(true), 1, true},
		{"false", Bool(false), 0, true},
		{"numeric string", String("3"), 0, false},
		{"missing", Missing(), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.v.Number()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
