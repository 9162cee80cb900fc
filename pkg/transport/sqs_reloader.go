package transport

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/rs/zerolog"
)

// SQSClient é o subconjunto do cliente SQS usado pelo reloader.
type SQSClient interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// Reloader recarrega a configuração do serviço.
type Reloader interface {
	Reload(ctx context.Context) error
}

// SQSReloader consome a fila de avisos de alteração e chama Reload a cada
// mensagem recebida.
type SQSReloader struct {
	client   SQSClient
	queueURL string
	reloader Reloader
	log      zerolog.Logger

	// RetryDelay é a espera após uma falha do SQS.
	RetryDelay time.Duration
	// WaitSeconds é o long polling de cada ReceiveMessage.
	WaitSeconds int32
}

func NewSQSReloader(client SQSClient, queueURL string, reloader Reloader, log zerolog.Logger) *SQSReloader {
	return &SQSReloader{
		client:      client,
		queueURL:    queueURL,
		reloader:    reloader,
		log:         log.With().Str("component", "sqs_reloader").Logger(),
		RetryDelay:  5 * time.Second,
		WaitSeconds: 20,
	}
}

// Start bloqueia até ctx ser cancelado. Sem fila configurada, retorna logo.
func (s *SQSReloader) Start(ctx context.Context) {
	if s.queueURL == "" {
		s.log.Warn().Msg("reload queue not configured")
		return
	}
	s.log.Info().Str("queue", s.queueURL).Msg("watching reload queue")

	for ctx.Err() == nil {
		out, err := s.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(s.queueURL),
			MaxNumberOfMessages: 1,
			WaitTimeSeconds:     s.WaitSeconds,
		})
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			s.log.Error().Err(err).Dur("retry_in", s.RetryDelay).Msg("receive from reload queue failed")
			select {
			case <-ctx.Done():
			case <-time.After(s.RetryDelay):
			}
			continue
		}

		for _, msg := range out.Messages {
			if err := s.reloader.Reload(ctx); err != nil {
				s.log.Error().Err(err).Msg("reload failed")
			}
			// a mensagem é removida mesmo com falha, para não repetir o mesmo erro
			if _, err := s.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
				QueueUrl:      aws.String(s.queueURL),
				ReceiptHandle: msg.ReceiptHandle,
			}); err != nil {
				s.log.Warn().Err(err).Msg("delete reload message failed")
			}
		}
	}
	s.log.Info().Msg("reload queue watcher stopped")
}
