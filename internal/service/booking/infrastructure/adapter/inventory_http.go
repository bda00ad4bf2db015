package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"travelbooking/internal/pkg/httpclient"
	"travelbooking/internal/service/booking/domain/port"
)

const (
	directionDecrease = "decrease"
	directionIncrease = "increase"
)

// inventoryEndpoint holds what the four inventory adapters share: the base
// URL, the resource segment and the wire calls.
type inventoryEndpoint struct {
	client   *httpclient.Client
	baseURL  string
	resource string // flights, hotels, trains, local-travel
}

func newInventoryEndpoint(client *httpclient.Client, baseURL, resource string) inventoryEndpoint {
	return inventoryEndpoint{client: client, baseURL: strings.TrimRight(baseURL, "/"), resource: resource}
}

func (e inventoryEndpoint) itemURL(refID, suffix string) string {
	return fmt.Sprintf("%s/api/%s/%s/%s", e.baseURL, e.resource, url.PathEscape(refID), suffix)
}

// fetchDailyStatus decodes GET .../{id}/daily-status?date= into out. A 404
// means there is no row for that date.
func (e inventoryEndpoint) fetchDailyStatus(ctx context.Context, refID, date string, out any) error {
	params := url.Values{}
	params.Set("date", date)
	err := e.client.GetJSON(ctx, e.itemURL(refID, "daily-status"), params, out)
	if httpclient.IsNotFound(err) {
		return errors.Wrapf(port.ErrNoDailyStatus, "%s %s on %s", e.resource, refID, date)
	}
	return err
}

// adjustResponse is the reply of availability/decrease and availability/increase.
type adjustResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	AffectedRows *int   `json:"affectedRows"`
}

// adjust posts to .../{id}/availability/{direction}. Zero affected rows on a
// decrease means the conditional update lost.
func (e inventoryEndpoint) adjust(ctx context.Context, refID, direction string, body any) error {
	var resp adjustResponse
	if err := e.client.PostJSON(ctx, e.itemURL(refID, "availability/"+direction), body, &resp); err != nil {
		return err
	}
	if resp.Status != "" && resp.Status != "success" {
		return errors.Errorf("%s %s availability %s rejected: %s", e.resource, refID, direction, resp.Message)
	}
	if resp.AffectedRows != nil && *resp.AffectedRows == 0 {
		if direction == directionDecrease {
			return errors.Wrapf(port.ErrNotReserved, "%s %s", e.resource, refID)
		}
		return errors.Errorf("%s %s availability increase affected no rows", e.resource, refID)
	}
	return nil
}

// adjustBody is the request body shared by flights, trains and local travel.
type adjustBody struct {
	Date     string `json:"date"`
	Quantity int    `json:"quantity"`
}

// number accepts JSON numbers and numeric strings. MySQL DECIMAL columns
// arrive as strings from some inventory services.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return errors.Wrapf(err, "parse number %q", s)
	}
	*n = number(f)
	return nil
}

func toDailyStatus(price number, available int, currency string) *port.DailyStatus {
	return &port.DailyStatus{Price: float64(price), AvailableQuantity: available, Currency: currency}
}
