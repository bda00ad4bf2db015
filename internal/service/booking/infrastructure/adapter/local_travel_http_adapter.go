package adapter

import (
	"context"

	"travelbooking/internal/pkg/httpclient"
	"travelbooking/internal/service/booking/domain"
	"travelbooking/internal/service/booking/domain/port"
)

type localTravelDailyStatusResponse struct {
	Status string `json:"status"`
	Data   *struct {
		Date           string `json:"date"`
		AvailableUnits int    `json:"available_units"`
		Price          number `json:"price"`
		Currency       string `json:"currency"`
	} `json:"data"`
}

// LocalTravelHTTPAdapter implements port.Inventory against the local travel service.
type LocalTravelHTTPAdapter struct {
	endpoint inventoryEndpoint
}

func NewLocalTravelHTTPAdapter(client *httpclient.Client, baseURL string) *LocalTravelHTTPAdapter {
	return &LocalTravelHTTPAdapter{endpoint: newInventoryEndpoint(client, baseURL, "local-travel")}
}

func (a *LocalTravelHTTPAdapter) DailyStatus(ctx context.Context, line domain.InventoryLine) (*port.DailyStatus, error) {
	var resp localTravelDailyStatusResponse
	if err := a.endpoint.fetchDailyStatus(ctx, line.RefID, line.TravelDate, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, port.ErrNoDailyStatus
	}
	return toDailyStatus(resp.Data.Price, resp.Data.AvailableUnits, resp.Data.Currency), nil
}

func (a *LocalTravelHTTPAdapter) Reserve(ctx context.Context, line domain.InventoryLine) error {
	return a.endpoint.adjust(ctx, line.RefID, directionDecrease, adjustBody{Date: line.TravelDate, Quantity: line.Quantity})
}

func (a *LocalTravelHTTPAdapter) Release(ctx context.Context, line domain.InventoryLine) error {
	return a.endpoint.adjust(ctx, line.RefID, directionIncrease, adjustBody{Date: line.TravelDate, Quantity: line.Quantity})
}
