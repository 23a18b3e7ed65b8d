package kafka

import (
	"context"
	"log/slog"

	"github.com/niksmo/petshop-storefront/internal/core/domain"
	"github.com/niksmo/petshop-storefront/internal/core/port"
	"github.com/twmb/franz-go/pkg/kgo"
)

var _ port.CartEventsProducer = (*CartProducer)(nil)

// A CartProducer produces [domain.CartSnapshot] keyed by session id. The
// topic is compacted, so the latest record per key is the persisted cart.
type CartProducer struct {
	cl       ProducerClient
	encoder  Encoder
	opPrefix string
}

func NewCartProducer(opts ...ProducerOpt) (CartProducer, error) {
	const op = "NewCartProducer"

	if len(opts) != 2 {
		panic(opErr(ErrTooFewOpts, op)) // develop mistake
	}

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return CartProducer{}, opErr(err, op)
		}
	}

	return CartProducer{
		cl:       options.cl,
		encoder:  options.encoder,
		opPrefix: "CartProducer",
	}, nil
}

func (p CartProducer) Close() {
	const op = "Close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p CartProducer) ProduceCart(
	ctx context.Context, v domain.CartSnapshot,
) error {
	const op = "ProduceCart"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	r, err := p.createRecord(v)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	res := p.cl.ProduceSync(ctx, r)
	if err := res.FirstErr(); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

func (p CartProducer) createRecord(v domain.CartSnapshot) (*kgo.Record, error) {
	b, err := p.encoder.Encode(cartToSchemaV1(v))
	if err != nil {
		return nil, err
	}
	return &kgo.Record{Key: []byte(v.SessionID), Value: b}, nil
}
