package ikea_test

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/donaldgifford/ikea-api-client/pkg/ikea"
	"github.com/donaldgifford/ikea-api-client/pkg/ikea/mocks"
)

func jsonResponse(status int, body string) *ikea.ResponseInfo {
	return &ikea.ResponseInfo{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       []byte(body),
		URL:        "https://example.test/api",
	}
}

func TestRun_Single(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name      string
		resp      *ikea.ResponseInfo
		execErr   error
		handlers  []ikea.ErrorHandler
		want      string
		wantErrAs any
		wantIs    error
	}{
		{
			name: "decodes result",
			resp: jsonResponse(http.StatusOK, `{"name":"BILLY"}`),
			handlers: []ikea.ErrorHandler{
				ikea.Handle401, ikea.HandleJSONDecodeError, ikea.HandleNotSuccess,
			},
			want: "BILLY",
		},
		{
			name:     "401 becomes auth error",
			resp:     jsonResponse(http.StatusUnauthorized, `{}`),
			handlers: []ikea.ErrorHandler{ikea.Handle401, ikea.HandleNotSuccess},
			wantIs:   ikea.ErrUnauthorized,
		},
		{
			name:      "handlers run in order",
			resp:      jsonResponse(http.StatusInternalServerError, `<html>`),
			handlers:  []ikea.ErrorHandler{ikea.HandleJSONDecodeError, ikea.HandleNotSuccess},
			wantErrAs: new(*ikea.JSONError),
		},
		{
			name:      "non-2xx becomes API error",
			resp:      jsonResponse(http.StatusBadGateway, `{"message":"down"}`),
			handlers:  []ikea.ErrorHandler{ikea.HandleNotSuccess},
			wantErrAs: new(*ikea.APIError),
		},
		{
			name:    "transport error propagates",
			execErr: errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ex := mocks.NewMockExecutor(t)
			ex.EXPECT().
				Execute(mock.Anything, mock.MatchedBy(func(r *ikea.RequestInfo) bool {
					return r.Method == http.MethodGet && r.URL == "/items"
				})).
				Return(tt.resp, tt.execErr).
				Once()

			ep := ikea.Single("test",
				&ikea.RequestInfo{Method: http.MethodGet, URL: "/items"},
				ikea.DecodeInto[payload],
				tt.handlers...,
			)

			got, err := ikea.Run(context.Background(), ex, ep)

			switch {
			case tt.wantIs != nil:
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantIs)
			case tt.wantErrAs != nil:
				require.Error(t, err)
				assert.ErrorAs(t, err, tt.wantErrAs)
			case tt.execErr != nil:
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.execErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got.Name)
			}
		})
	}
}

func TestRun_MultiRound(t *testing.T) {
	t.Parallel()

	ex := mocks.NewMockExecutor(t)
	ex.EXPECT().
		Execute(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, r *ikea.RequestInfo) (*ikea.ResponseInfo, error) {
			return jsonResponse(http.StatusOK, `{"path":"`+r.URL+`"}`), nil
		}).
		Times(3)

	var seen []string
	round := 0
	ep := ikea.NewEndpoint("rounds", func(resp *ikea.ResponseInfo) (*ikea.RequestInfo, int, error) {
		if resp != nil {
			var body struct {
				Path string `json:"path"`
			}
			require.NoError(t, resp.DecodeJSON(&body))
			seen = append(seen, body.Path)
		}
		if round == 3 {
			return nil, round, nil
		}
		round++
		return &ikea.RequestInfo{Method: http.MethodGet, URL: "/r" + strconv.Itoa(round)}, 0, nil
	})

	got, err := ikea.Run(context.Background(), ex, ep)
	require.NoError(t, err)
	assert.Equal(t, 3, got)
	assert.Equal(t, []string{"/r1", "/r2", "/r3"}, seen)
}

func TestRun_TooManyRounds(t *testing.T) {
	t.Parallel()

	ex := mocks.NewMockExecutor(t)
	ex.EXPECT().
		Execute(mock.Anything, mock.Anything).
		Return(jsonResponse(http.StatusOK, `{}`), nil).
		Times(ikea.MaxRounds)

	ep := ikea.NewEndpoint("forever", func(*ikea.ResponseInfo) (*ikea.RequestInfo, struct{}, error) {
		return &ikea.RequestInfo{Method: http.MethodGet, URL: "/again"}, struct{}{}, nil
	})

	_, err := ikea.Run(context.Background(), ex, ep)
	require.Error(t, err)
	assert.ErrorIs(t, err, ikea.ErrTooManyRounds)
}

func TestRun_CanceledContext(t *testing.T) {
	t.Parallel()

	ex := mocks.NewMockExecutor(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ep := ikea.Single("canceled",
		&ikea.RequestInfo{Method: http.MethodGet, URL: "/"},
		ikea.DecodeInto[map[string]any],
	)

	_, err := ikea.Run(ctx, ex, ep)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	ex.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestRun_RecordsSpan(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ex := mocks.NewMockExecutor(t)
	ex.EXPECT().
		Execute(mock.Anything, mock.Anything).
		Return(jsonResponse(http.StatusBadRequest, `{}`), nil).
		Once()

	ep := ikea.Single("traced",
		&ikea.RequestInfo{Method: http.MethodGet, URL: "/"},
		ikea.DecodeInto[map[string]any],
		ikea.HandleNotSuccess,
	)

	_, err := ikea.Run(context.Background(), ex, ep, ikea.WithTracer(tp.Tracer("test")))
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "ikea.traced", spans[0].Name())
	assert.Equal(t, "Error", spans[0].Status().Code.String())

	var rounds int64
	for _, attr := range spans[0].Attributes() {
		if attr.Key == "ikea.rounds" {
			rounds = attr.Value.AsInt64()
		}
	}
	assert.Equal(t, int64(1), rounds)
}
