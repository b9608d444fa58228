// Package mail provides the outbound email capability. It is injected into
// the handlers that need it; send failures are logged by callers and never
// roll back the operation that triggered the email.
package mail

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"
)

// Sender sends one email. Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

const sendTimeout = 10 * time.Second

// SESSender sends email through AWS SES.
type SESSender struct {
	client *ses.Client
	from   string
	log    *zap.Logger
}

// NewSESSender creates an SES-backed sender using the default AWS credential
// chain.
func NewSESSender(ctx context.Context, region, from string, log *zap.Logger) (*SESSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &SESSender{
		client: ses.NewFromConfig(cfg),
		from:   from,
		log:    log,
	}, nil
}

// Send delivers one HTML email through SES.
func (s *SESSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(s.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(htmlBody)},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	s.log.Debug("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// Message is one recorded email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Recorder captures sent messages in memory. It backs local development when
// SES is not configured and lets tests assert on outbound mail.
type Recorder struct {
	mu       sync.Mutex
	messages []Message

	// Err, when set, makes every Send fail with it.
	Err error
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Send records the message.
func (r *Recorder) Send(_ context.Context, to, subject, htmlBody string) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{To: to, Subject: subject, Body: htmlBody})
	return nil
}

// Messages returns the messages recorded so far, in order.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}
