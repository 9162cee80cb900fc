package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/raywall/dynadapter/pkg/transport"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, runtime string) string {
	t.Helper()

	dir := t.TempDir()
	body := "backend: leveldb\n" +
		"table: {name: server}\n" +
		"leveldb: {path: " + filepath.Join(dir, "db") + "}\n" +
		"logging: {enabled: false}\n" +
		"server: {runtime: " + runtime + ", addr: '127.0.0.1:0'}\n"

	path := filepath.Join(dir, "dynadapter.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRun_HTTPRuntime(t *testing.T) {
	called := false
	original := serverStarter
	serverStarter = func(_ context.Context, addr string, h http.Handler, _ zerolog.Logger) error {
		called = true
		assert.Equal(t, "127.0.0.1:0", addr)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		return nil
	}
	defer func() { serverStarter = original }()

	require.NoError(t, run(context.Background(), writeConfig(t, "http")))
	assert.True(t, called, "o servidor HTTP não foi iniciado")
}

func TestRun_LambdaRuntime(t *testing.T) {
	var handler any
	original := lambdaStarter
	lambdaStarter = func(h interface{}) { handler = h }
	defer func() { lambdaStarter = original }()

	require.NoError(t, run(context.Background(), writeConfig(t, "lambda")))

	handle, ok := handler.(func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error))
	require.True(t, ok, "handler inesperado: %T", handler)

	// o serviço já foi fechado ao fim de run; basta a rota sem backend
	resp, err := handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, Path: "/health"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Headers[transport.HeaderCorrelationID])
}

type mockSQS struct {
	mock.Mock
}

func (m *mockSQS) ReceiveMessage(ctx context.Context, in *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*sqs.ReceiveMessageOutput)
	return out, args.Error(1)
}

func (m *mockSQS) DeleteMessage(ctx context.Context, in *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	args := m.Called(ctx, in)
	return &sqs.DeleteMessageOutput{}, args.Error(0)
}

func TestRun_StartsReloader(t *testing.T) {
	path := writeConfig(t, "http")
	t.Setenv("DYNADAPTER_RELOAD_QUEUE", "https://sqs.local/reload")

	client := new(mockSQS)
	received := make(chan struct{}, 1)
	client.On("ReceiveMessage", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			select {
			case received <- struct{}{}:
			default:
			}
		}).
		Return(nil, context.Canceled)

	originalSQS, originalServer := sqsClient, serverStarter
	sqsClient = func(context.Context) (transport.SQSClient, error) { return client, nil }
	serverStarter = func(_ context.Context, _ string, _ http.Handler, _ zerolog.Logger) error {
		select {
		case <-received:
		case <-time.After(time.Second):
			t.Error("reload queue was not polled")
		}
		return nil
	}
	defer func() { sqsClient, serverStarter = originalSQS, originalServer }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, run(ctx, path))
}

func TestRun_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: redis\n"), 0o600))

	assert.Error(t, run(context.Background(), path))
}
