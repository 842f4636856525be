package loaders

import (
	"context"
	"strings"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/zatekoja/localdeals/internal/domain/entities"
	"github.com/zatekoja/localdeals/internal/domain/providers"
	"github.com/zatekoja/localdeals/internal/infrastructure/observability"
	"golang.org/x/sync/errgroup"
)

type ctxKey string

const loadersKey ctxKey = "dataloaders"

// DefaultFanOut bounds the concurrent storage lookups of one batch
const DefaultFanOut = 4

// Loaders contains the request-scoped dataloaders
type Loaders struct {
	DealImages *dataloader.Loader[string, []string]
}

// NewLoaders creates a new instance of Loaders. fanOut limits the storage
// calls a batch runs at once.
func NewLoaders(storage providers.ImageStorage, fanOut int) *Loaders {
	if fanOut <= 0 {
		fanOut = DefaultFanOut
	}
	return &Loaders{
		DealImages: dataloader.NewBatchedLoader(dealImagesBatch(storage, fanOut)),
	}
}

// DealImageKey identifies the image folder of a deal
func DealImageKey(dealerID, dealID string) string {
	return dealerID + "/" + dealID
}

func dealImagesBatch(storage providers.ImageStorage, fanOut int) dataloader.BatchFunc[string, []string] {
	return func(ctx context.Context, keys []string) []*dataloader.Result[[]string] {
		results := make([]*dataloader.Result[[]string], len(keys))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(fanOut)
		for i, key := range keys {
			g.Go(func() error {
				dealerID, dealID, _ := strings.Cut(key, "/")
				urls, err := storage.DealImageURLs(gctx, dealerID, dealID)
				if urls == nil {
					urls = []string{}
				}
				results[i] = &dataloader.Result[[]string]{Data: urls, Error: err}
				return nil
			})
		}
		_ = g.Wait()

		return results
	}
}

// For returns the loaders attached to ctx, or nil
func For(ctx context.Context) *Loaders {
	l, _ := ctx.Value(loadersKey).(*Loaders)
	return l
}

// WithLoaders returns a new context with the loaders attached
func WithLoaders(ctx context.Context, loaders *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, loaders)
}

// Enricher fills ImageURLs of deals through the loaders of the request
type Enricher struct {
	storage providers.ImageStorage
	fanOut  int
}

// NewEnricher creates an Enricher. Requests without loaders in their
// context get a fresh set.
func NewEnricher(storage providers.ImageStorage, fanOut int) *Enricher {
	return &Enricher{storage: storage, fanOut: fanOut}
}

// EnrichDeals sets ImageURLs on every deal. A failed lookup leaves the deal
// with no images.
func (e *Enricher) EnrichDeals(ctx context.Context, deals []*entities.ActiveDeal) {
	if len(deals) == 0 {
		return
	}

	l := For(ctx)
	if l == nil {
		l = NewLoaders(e.storage, e.fanOut)
	}

	thunks := make([]dataloader.Thunk[[]string], len(deals))
	for i, d := range deals {
		thunks[i] = l.DealImages.Load(ctx, DealImageKey(d.DealerID, d.ID))
	}

	logger := observability.LoggerFromContext(ctx)
	for i, thunk := range thunks {
		urls, err := thunk()
		if err != nil {
			logger.Warn().Err(err).Str("deal_id", deals[i].ID).Msg("Failed to load deal images")
			urls = []string{}
		}
		deals[i].ImageURLs = urls
	}
}
