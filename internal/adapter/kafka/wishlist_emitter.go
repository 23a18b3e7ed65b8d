package kafka

import (
	"context"
	"log/slog"

	"github.com/lovoo/goka"
	"github.com/niksmo/petshop-storefront/internal/core/domain"
	"github.com/niksmo/petshop-storefront/internal/core/port"
	"github.com/niksmo/petshop-storefront/pkg/schema"
)

var _ port.WishlistEventsEmitter = (*WishlistEmitter)(nil)

// A wishlistEventCodec adapts a registry [Serde] to [goka.Codec].
type wishlistEventCodec struct {
	serde Serde
}

func (c wishlistEventCodec) Encode(v any) ([]byte, error) {
	const op = "wishlistEventCodec.Encode"
	if _, ok := v.(schema.WishlistEventV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c wishlistEventCodec) Decode(data []byte) (any, error) {
	const op = "wishlistEventCodec.Decode"
	var s schema.WishlistEventV1
	if err := c.serde.Decode(data, &s); err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

type gokaEmitter interface {
	EmitSync(key string, msg any) error
	Finish() error
}

type WishlistEmitter struct {
	ge gokaEmitter
}

// NewWishlistEmitter creates a goka emitter for the wishlist stream.
func NewWishlistEmitter(
	seedBrokers []string, stream string, serde Serde,
) (WishlistEmitter, error) {
	const op = "NewWishlistEmitter"

	ge, err := goka.NewEmitter(
		seedBrokers, goka.Stream(stream), wishlistEventCodec{serde},
	)
	if err != nil {
		return WishlistEmitter{}, opErr(err, op)
	}
	return WishlistEmitter{ge}, nil
}

func (e WishlistEmitter) EmitWishlist(
	ctx context.Context, evt domain.WishlistEvent,
) error {
	const op = "WishlistEmitter.EmitWishlist"

	if err := ctx.Err(); err != nil {
		return opErr(err, op)
	}

	if err := e.ge.EmitSync(evt.SessionID, wishlistToSchemaV1(evt)); err != nil {
		return opErr(err, op)
	}
	return nil
}

func (e WishlistEmitter) Close() {
	const op = "WishlistEmitter.Close"
	log := slog.With("op", op)

	log.Info("closing emitter...")
	if err := e.ge.Finish(); err != nil {
		log.Error("failed to finish gracefully", "err", err)
		return
	}
	log.Info("emitter is closed")
}
