package adapter

import (
	"context"

	"travelbooking/internal/pkg/httpclient"
	"travelbooking/internal/service/booking/domain"
	"travelbooking/internal/service/booking/domain/port"
)

type trainDailyStatusResponse struct {
	Status string `json:"status"`
	Data   *struct {
		TrainID        any    `json:"train_id"`
		Date           string `json:"date"`
		AvailableSeats int    `json:"available_seats"`
		Price          number `json:"price"`
		Currency       string `json:"currency"`
	} `json:"data"`
}

// TrainHTTPAdapter implements port.Inventory against the train service.
type TrainHTTPAdapter struct {
	endpoint inventoryEndpoint
}

func NewTrainHTTPAdapter(client *httpclient.Client, baseURL string) *TrainHTTPAdapter {
	return &TrainHTTPAdapter{endpoint: newInventoryEndpoint(client, baseURL, "trains")}
}

func (a *TrainHTTPAdapter) DailyStatus(ctx context.Context, line domain.InventoryLine) (*port.DailyStatus, error) {
	var resp trainDailyStatusResponse
	if err := a.endpoint.fetchDailyStatus(ctx, line.RefID, line.TravelDate, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, port.ErrNoDailyStatus
	}
	return toDailyStatus(resp.Data.Price, resp.Data.AvailableSeats, resp.Data.Currency), nil
}

func (a *TrainHTTPAdapter) Reserve(ctx context.Context, line domain.InventoryLine) error {
	return a.endpoint.adjust(ctx, line.RefID, directionDecrease, adjustBody{Date: line.TravelDate, Quantity: line.Quantity})
}

func (a *TrainHTTPAdapter) Release(ctx context.Context, line domain.InventoryLine) error {
	return a.endpoint.adjust(ctx, line.RefID, directionIncrease, adjustBody{Date: line.TravelDate, Quantity: line.Quantity})
}
