package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelayEnvelopePopOrder(t *testing.T) {
	env := NewDelayEnvelope[int64](42, 10*time.Second, 15*time.Second, 30*time.Second)

	assert.True(t, env.HasNextDelay())
	assert.Equal(t, 10*time.Second, env.RemoveNextDelay())
	assert.Equal(t, 15*time.Second, env.RemoveNextDelay())
	assert.Equal(t, 30*time.Second, env.RemoveNextDelay())
	assert.False(t, env.HasNextDelay())
	assert.Equal(t, time.Duration(0), env.RemoveNextDelay())
}

func TestDelayEnvelopeWireFormat(t *testing.T) {
	env := NewDelayEnvelope[int64](20240501123, 10*time.Second, time.Minute)

	raw, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":20240501123,"delayMillis":[10000,60000]}`, string(raw))

	var decoded DelayEnvelope[int64]
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, int64(20240501123), decoded.Data)
	assert.Equal(t, []int64{10000, 60000}, decoded.DelayMillis)
}

func TestDelayEnvelopeEmpty(t *testing.T) {
	env := NewDelayEnvelope[int64](1)
	assert.False(t, env.HasNextDelay())
	assert.Equal(t, time.Duration(0), env.RemoveNextDelay())
}
