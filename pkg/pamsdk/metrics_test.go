package pamsdk

import (
	"context"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilIsNoop(t *testing.T) {
	t.Parallel()

	var m *Metrics
	require.NotPanics(t, func() {
		m.observeRequest("login", nil, 0)
		m.observeRefresh(nil, 0)
		m.observeState(Initial())
	})
}

func TestMetrics_RecordsRequestsAndState(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	auth := NewAuthenticator(WithAuthenticatorMetrics(metrics))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.state.WithLabelValues("initial")))

	conn, _ := newTestConnector(t, statusHandler(http.StatusInternalServerError), WithMetrics(metrics))
	conn.auth = auth
	auth.UpdateToken(&testToken)

	require.Equal(t, 0.0, testutil.ToFloat64(metrics.state.WithLabelValues("initial")))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.state.WithLabelValues("authenticated")))

	_ = conn.Execute(context.Background(), authSpec, nil)
	_ = conn.Execute(context.Background(), authSpec, nil)

	require.Equal(t, 2.0, testutil.ToFloat64(metrics.requests.WithLabelValues("echo", "unknown")))
	require.Equal(t, 0.0, testutil.ToFloat64(metrics.requests.WithLabelValues("echo", "success")))
}

func TestMetrics_RecordsRefreshes(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	auth := NewAuthenticator(WithAuthenticatorMetrics(metrics))

	_, err := auth.Authenticate(context.Background(), func(context.Context) (SessionToken, error) {
		return testToken, nil
	})
	require.NoError(t, err)
	_, err = auth.Authenticate(context.Background(), func(context.Context) (SessionToken, error) {
		return SessionToken{}, ErrInvalidToken
	})
	require.Error(t, err)

	require.Equal(t, 1.0, testutil.ToFloat64(metrics.refreshes.WithLabelValues("success")))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.refreshes.WithLabelValues("failure")))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.state.WithLabelValues("unauthenticated")))
}

func TestOutcomeOf(t *testing.T) {
	t.Parallel()

	require.Equal(t, "success", outcomeOf(nil))
	require.Equal(t, "login_required", outcomeOf(ErrLoginRequired))
	require.Equal(t, "transport", outcomeOf(TransportError(context.DeadlineExceeded)))
	require.Equal(t, "canceled", outcomeOf(context.Canceled))
}
