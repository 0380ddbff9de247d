package kafka

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/IBM/sarama"
	"github.com/lovoo/goka"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var (
	ErrTooFewOpts       = errors.New("too few options")
	ErrInvalidValueType = errors.New("invalid value type")
)

type ProducerOpt func(*producerOpts) error

type producerOpts struct {
	cl      ProducerClient
	encoder Encoder
}

func (po *producerOpts) apply(opts ...ProducerOpt) error {
	for _, opt := range opts {
		if err := opt(po); err != nil {
			return err
		}
	}
	if po.cl == nil || po.encoder == nil {
		return ErrTooFewOpts
	}
	return nil
}

// ProducerClientOpt creates the client and pings the cluster.
// Extra options are appended, e.g. [kgo.DialTLSConfig].
func ProducerClientOpt(
	ctx context.Context, seedBrokers []string, topic string, extra ...kgo.Opt,
) ProducerOpt {
	return func(opts *producerOpts) error {
		kopts := []kgo.Opt{
			kgo.SeedBrokers(seedBrokers...),
			kgo.DefaultProduceTopicAlways(),
			kgo.DefaultProduceTopic(topic),
			kgo.RequiredAcks(kgo.AllISRAcks()),
			kgo.AllowAutoTopicCreation(),
		}
		cl, err := kgo.NewClient(append(kopts, extra...)...)
		if err != nil {
			return err
		}

		if err := cl.Ping(ctx); err != nil {
			cl.Close()
			return err
		}
		opts.cl = cl
		return nil
	}
}

// ProducerWithClientOpt sets already created client.
func ProducerWithClientOpt(cl ProducerClient) ProducerOpt {
	return func(opts *producerOpts) error {
		if cl == nil {
			return errors.New("producer client is nil")
		}
		opts.cl = cl
		return nil
	}
}

func ProducerEncoderOpt(encoder Encoder) ProducerOpt {
	return func(opts *producerOpts) error {
		if encoder == nil {
			return errors.New("encoder is nil")
		}
		opts.encoder = encoder
		return nil
	}
}

type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

type Decoder interface {
	Decode(b []byte, v any) error
}

type Serde interface {
	Encoder
	Decoder
}

func withNoLogProcOpt() goka.ProcessorOption {
	return goka.WithLogger(log.New(io.Discard, "", 0))
}

func withNoLogViewOpt() goka.ViewOption {
	return goka.WithViewLogger(log.New(io.Discard, "", 0))
}

// saramaConfig returns goka defaults, dialing TLS when tlsCfg is set.
// Builders mutate the config, so each one gets its own.
func saramaConfig(tlsCfg *tls.Config) *sarama.Config {
	cfg := goka.DefaultConfig()
	if tlsCfg != nil {
		cfg.Net.TLS.Enable = true
		cfg.Net.TLS.Config = tlsCfg
	}
	return cfg
}

func topicManagerBuilder(tlsCfg *tls.Config) goka.TopicManagerBuilder {
	cfg := saramaConfig(tlsCfg)
	cfg.ClientID = "goka-topic-manager"
	return goka.TopicManagerBuilderWithConfig(cfg, goka.NewTopicManagerConfig())
}

func withTLSProcOpts(tlsCfg *tls.Config) []goka.ProcessorOption {
	if tlsCfg == nil {
		return nil
	}
	return []goka.ProcessorOption{
		goka.WithTopicManagerBuilder(topicManagerBuilder(tlsCfg)),
		goka.WithConsumerGroupBuilder(
			goka.ConsumerGroupBuilderWithConfig(saramaConfig(tlsCfg)),
		),
		goka.WithConsumerSaramaBuilder(
			goka.SaramaConsumerBuilderWithConfig(saramaConfig(tlsCfg)),
		),
		goka.WithProducerBuilder(
			goka.ProducerBuilderWithConfig(saramaConfig(tlsCfg)),
		),
	}
}

func withTLSViewOpts(tlsCfg *tls.Config) []goka.ViewOption {
	if tlsCfg == nil {
		return nil
	}
	return []goka.ViewOption{
		goka.WithViewTopicManagerBuilder(topicManagerBuilder(tlsCfg)),
		goka.WithViewConsumerSaramaBuilder(
			goka.SaramaConsumerBuilderWithConfig(saramaConfig(tlsCfg)),
		),
	}
}

func makeOp(s ...string) string {
	return strings.Join(s, ".")
}

func opErr(err error, op ...string) error {
	return fmt.Errorf("%s: %w", makeOp(op...), err)
}

func orderLineToSchemaV1(v domain.OrderLine) (s schema.OrderLineV1) {
	s.OrderNumber = v.OrderNumber
	s.ProductID = v.ProductID
	s.ProductName = v.ProductName
	s.Quantity = v.Quantity
	s.UnitPrice = v.UnitPrice.String()
	s.UserID = v.UserID
	s.CreatedAt = v.CreatedAt.UnixMilli()
	return
}
