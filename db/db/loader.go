package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/vikstrous/dataloadgen"
)

type dataLoaderKey string

const (
	DataLoaderKeyBookingData dataLoaderKey = "booking_data_loader"
)

// BookingDataLoader batches booking lookups made while serving one request.
// Create a new one per request; loaders cache what they fetched.
type BookingDataLoader struct {
	GetDestinations *dataloadgen.Loader[uuid.UUID, []Destination]
}

func NewBookingDataLoader(dbWrapper BookingDBWrapper) *BookingDataLoader {
	return &BookingDataLoader{
		GetDestinations: dataloadgen.NewMappedLoader(dbWrapper.DataLoaderGetDestinations),
	}
}

func WithDataLoader(ctx context.Context, loader *BookingDataLoader) context.Context {
	return context.WithValue(ctx, DataLoaderKeyBookingData, loader)
}

// DataLoaderFromContext returns the request scoped loader, if one was injected.
func DataLoaderFromContext(ctx context.Context) (*BookingDataLoader, bool) {
	loader, ok := ctx.Value(DataLoaderKeyBookingData).(*BookingDataLoader)
	return loader, ok && loader != nil
}
