package adapter

import (
	"context"

	"github.com/pkg/errors"

	"travelbooking/internal/pkg/httpclient"
	"travelbooking/internal/service/booking/domain"
	"travelbooking/internal/service/booking/domain/port"
)

type hotelRoomStatus struct {
	RoomTypeName   string `json:"roomTypeName"`
	Date           string `json:"date"`
	AvailableRooms int    `json:"availableRooms"`
	Price          number `json:"price"`
	Currency       string `json:"currency"`
}

type hotelDailyStatusResponse struct {
	Status string            `json:"status"`
	Data   []hotelRoomStatus `json:"data"`
}

type hotelAdjustBody struct {
	RoomTypeName string `json:"room_type_name"`
	Date         string `json:"date"`
	Quantity     int    `json:"quantity"`
}

// HotelHTTPAdapter implements port.Inventory against the hotel service.
// DailyStatus picks the room type named by the line (or details.room_type_name),
// else the first one the hotel reports, and returns it on the status. Reserve
// and Release only ever use the room type carried on the line.
type HotelHTTPAdapter struct {
	endpoint inventoryEndpoint
}

var errRoomTypeUnresolved = errors.New("hotel room type was not resolved at check time")

func NewHotelHTTPAdapter(client *httpclient.Client, baseURL string) *HotelHTTPAdapter {
	return &HotelHTTPAdapter{endpoint: newInventoryEndpoint(client, baseURL, "hotels")}
}

func (a *HotelHTTPAdapter) selectRoom(ctx context.Context, line domain.InventoryLine) (*hotelRoomStatus, error) {
	var resp hotelDailyStatusResponse
	if err := a.endpoint.fetchDailyStatus(ctx, line.RefID, line.TravelDate, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, port.ErrNoDailyStatus
	}
	wanted := roomTypeOf(line)
	if wanted == "" {
		return &resp.Data[0], nil
	}
	for i := range resp.Data {
		if resp.Data[i].RoomTypeName == wanted {
			return &resp.Data[i], nil
		}
	}
	return nil, port.ErrNoDailyStatus
}

func (a *HotelHTTPAdapter) DailyStatus(ctx context.Context, line domain.InventoryLine) (*port.DailyStatus, error) {
	room, err := a.selectRoom(ctx, line)
	if err != nil {
		return nil, err
	}
	status := toDailyStatus(room.Price, room.AvailableRooms, room.Currency)
	status.RoomType = room.RoomTypeName
	return status, nil
}

func (a *HotelHTTPAdapter) Reserve(ctx context.Context, line domain.InventoryLine) error {
	return a.adjust(ctx, line, directionDecrease)
}

func (a *HotelHTTPAdapter) Release(ctx context.Context, line domain.InventoryLine) error {
	return a.adjust(ctx, line, directionIncrease)
}

func (a *HotelHTTPAdapter) adjust(ctx context.Context, line domain.InventoryLine, direction string) error {
	roomType := roomTypeOf(line)
	if roomType == "" {
		return errors.Wrapf(errRoomTypeUnresolved, "hotel %s on %s", line.RefID, line.TravelDate)
	}
	return a.endpoint.adjust(ctx, line.RefID, direction, hotelAdjustBody{RoomTypeName: roomType, Date: line.TravelDate, Quantity: line.Quantity})
}

func roomTypeOf(line domain.InventoryLine) string {
	if line.RoomType != "" {
		return line.RoomType
	}
	return domain.ParseItemAttributes(line.Details).RoomTypeName
}
