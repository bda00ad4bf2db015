package adapter

import (
	"context"

	"travelbooking/internal/pkg/httpclient"
	"travelbooking/internal/service/booking/domain"
	"travelbooking/internal/service/booking/domain/port"
)

type flightDailyStatusResponse struct {
	Status string `json:"status"`
	Data   *struct {
		FlightID       any    `json:"flight_id"`
		Date           string `json:"date"`
		AvailableSeats int    `json:"available_seats"`
		Price          number `json:"price"`
		Currency       string `json:"currency"`
	} `json:"data"`
}

// FlightHTTPAdapter implements port.Inventory against the flight service.
type FlightHTTPAdapter struct {
	endpoint inventoryEndpoint
}

func NewFlightHTTPAdapter(client *httpclient.Client, baseURL string) *FlightHTTPAdapter {
	return &FlightHTTPAdapter{endpoint: newInventoryEndpoint(client, baseURL, "flights")}
}

func (a *FlightHTTPAdapter) DailyStatus(ctx context.Context, line domain.InventoryLine) (*port.DailyStatus, error) {
	var resp flightDailyStatusResponse
	if err := a.endpoint.fetchDailyStatus(ctx, line.RefID, line.TravelDate, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, port.ErrNoDailyStatus
	}
	return toDailyStatus(resp.Data.Price, resp.Data.AvailableSeats, resp.Data.Currency), nil
}

func (a *FlightHTTPAdapter) Reserve(ctx context.Context, line domain.InventoryLine) error {
	return a.endpoint.adjust(ctx, line.RefID, directionDecrease, adjustBody{Date: line.TravelDate, Quantity: line.Quantity})
}

func (a *FlightHTTPAdapter) Release(ctx context.Context, line domain.InventoryLine) error {
	return a.endpoint.adjust(ctx, line.RefID, directionIncrease, adjustBody{Date: line.TravelDate, Quantity: line.Quantity})
}
