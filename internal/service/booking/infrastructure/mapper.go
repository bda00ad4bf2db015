package infrastructure

import (
	"encoding/json"

	"travelbooking/internal/service/booking/domain"
)

// toDomainBooking converts a row (and its preloaded item) to the aggregate.
func toDomainBooking(model *BookingModel) *domain.Booking {
	if model == nil {
		return nil
	}
	b := &domain.Booking{
		ID:              model.ID,
		BookingCode:     model.BookingCode,
		UserID:          model.UserID,
		Kind:            domain.Kind(model.ItemType),
		RefID:           model.RefID,
		TravelDate:      model.TravelDate,
		Quantity:        model.Quantity,
		UnitPrice:       model.UnitPrice,
		TotalAmount:     model.TotalAmount,
		Currency:        model.Currency,
		PaymentStatus:   domain.PaymentStatus(model.PaymentStatus),
		Status:          domain.Status(model.Status),
		SpecialRequests: model.SpecialRequests,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
	if len(model.Details) > 0 {
		b.Details = json.RawMessage(model.Details)
	}
	if model.Item != nil {
		b.Item = &domain.BookingItem{
			Kind:       domain.Kind(model.Item.ItemType),
			RefID:      model.Item.RefID,
			TravelDate: model.Item.TravelDate,
			ItemAttributes: domain.ItemAttributes{
				OriginCity:          model.Item.OriginCity,
				DestinationCity:     model.Item.DestinationCity,
				OriginProvince:      model.Item.OriginProvince,
				DestinationProvince: model.Item.DestinationProvince,
				ServiceClass:        model.Item.ServiceClass,
				Provider:            model.Item.Provider,
				RoomTypeName:        model.Item.RoomTypeName,
			},
		}
	}
	return b
}

func toDomainBookings(models []*BookingModel) []*domain.Booking {
	bookings := make([]*domain.Booking, len(models))
	for i, m := range models {
		bookings[i] = toDomainBooking(m)
	}
	return bookings
}

// fromDomainBooking builds the rows to insert. The item is derived from the
// booking when the aggregate carries none.
func fromDomainBooking(b *domain.Booking) (*BookingModel, *BookingItemModel) {
	model := &BookingModel{
		ID:              b.ID,
		BookingCode:     b.BookingCode,
		UserID:          b.UserID,
		ItemType:        string(b.Kind),
		RefID:           b.RefID,
		TravelDate:      b.TravelDate,
		Quantity:        b.Quantity,
		UnitPrice:       b.UnitPrice,
		TotalAmount:     b.TotalAmount,
		Currency:        b.Currency,
		PaymentStatus:   string(b.PaymentStatus),
		Status:          string(b.Status),
		SpecialRequests: b.SpecialRequests,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
	if len(b.Details) > 0 {
		model.Details = []byte(b.Details)
	}

	item := b.Item
	if item == nil {
		item = &domain.BookingItem{
			Kind:           b.Kind,
			RefID:          b.RefID,
			TravelDate:     b.TravelDate,
			ItemAttributes: domain.ParseItemAttributes(b.Details),
		}
	}
	return model, &BookingItemModel{
		ItemType:            string(item.Kind),
		RefID:               item.RefID,
		TravelDate:          item.TravelDate,
		OriginCity:          item.OriginCity,
		DestinationCity:     item.DestinationCity,
		OriginProvince:      item.OriginProvince,
		DestinationProvince: item.DestinationProvince,
		ServiceClass:        item.ServiceClass,
		Provider:            item.Provider,
		RoomTypeName:        item.RoomTypeName,
	}
}
