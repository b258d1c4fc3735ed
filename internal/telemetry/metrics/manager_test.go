package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_LoginAttempt(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()

	m.LoginAttempt(true)
	m.LoginAttempt(false)
	m.LoginAttempt(false)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.CounterLoginAttempts.WithLabelValues(LoginResultSuccess)))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.CounterLoginAttempts.WithLabelValues(LoginResultFailure)))

	families, err := reg.Gather()
	require.NoError(t, err)

	var loginFamily *dto.MetricFamily
	for _, f := range families {
		if f.GetName() == "backend_test_server_admin_login_attempts" {
			loginFamily = f
		}
	}
	require.NotNil(t, loginFamily)
	assert.Equal(t, dto.MetricType_COUNTER, loginFamily.GetType())
	assert.Len(t, loginFamily.GetMetric(), 2)
}

func TestManager_NilSafe(t *testing.T) {
	var m *Manager
	assert.NotPanics(t, func() {
		m.LoginAttempt(true)
		m.ContentWrite("project", "create")
	})
}

func TestManager_ContentWrite(t *testing.T) {
	m := NewTestManager()
	m.ContentWrite("blog", "update")
	m.ContentWrite("blog", "update")
	m.ContentWrite("project", "delete")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.CounterContentWrites.WithLabelValues("blog", "update")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CounterContentWrites.WithLabelValues("project", "delete")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.CounterContentWrites))
}

func TestSetupPrometheus(t *testing.T) {
	m := NewTestManager()
	reg := SetupPrometheus(m.CounterSessionsCleaned)
	m.CounterSessionsCleaned.Add(3)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
