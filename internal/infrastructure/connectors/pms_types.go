package connectors

import (
	"time"

	"github.com/shopspring/decimal"
)

// Default PMS endpoint paths, overridable per integration through the
// "endpoints" config map.
const (
	pmsDefaultPingPath         = "/v1/ping"
	pmsDefaultReservationsPath = "/v1/reservations"
	pmsDefaultRoomsPath        = "/v1/rooms"
	pmsDefaultRequestsPath     = "/v1/requests"
)

// pmsPingResponse answers the lightweight connectivity probe
type pmsPingResponse struct {
	Status string `json:"status"`
}

// pmsReservationListResponse is the bulk reservation feed
type pmsReservationListResponse struct {
	Reservations []pmsReservation `json:"reservations"`
}

// pmsReservation is one reservation on the provider's feed. Guest identity
// arrives denormalized on the reservation, which is the shape most PMS feeds
// expose.
type pmsReservation struct {
	ID           string `json:"id"`
	GuestFirst   string `json:"guest_first_name"`
	GuestLast    string `json:"guest_last_name"`
	GuestEmail   string `json:"guest_email"`
	GuestPhone   string `json:"guest_phone"`
	RoomNumber   string `json:"room_number"`
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
	Status       string `json:"status"`
}

// pmsRoomListResponse is the bulk room inventory feed
type pmsRoomListResponse struct {
	Rooms []pmsRoom `json:"rooms"`
}

// pmsRoom is one room on the provider's feed
type pmsRoom struct {
	ID       string `json:"id"`
	Number   string `json:"number"`
	RoomType string `json:"room_type"`
	Floor    int    `json:"floor"`
	Status   string `json:"status"`
}

// pmsCheckInRequest marks a reservation as arrived
type pmsCheckInRequest struct {
	RoomNumber string `json:"room_number"`
	ArrivedAt  string `json:"arrived_at"`
}

// pmsCheckOutRequest marks a reservation as departed
type pmsCheckOutRequest struct {
	DepartedAt string `json:"departed_at"`
	FolioTotal string `json:"folio_total,omitempty"`
}

// pmsStayResponse is the provider's answer to stay transitions
type pmsStayResponse struct {
	ReservationID string `json:"reservation_id"`
	Status        string `json:"status"`
	RoomNumber    string `json:"room_number"`
}

// pmsGuestRequest forwards a concierge request to the work-order queue
type pmsGuestRequest struct {
	RoomNumber string `json:"room_number"`
	Category   string `json:"category"`
	Message    string `json:"message"`
	Priority   string `json:"priority,omitempty"`
}

// pmsGuestRequestResponse acknowledges a forwarded request
type pmsGuestRequestResponse struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
}

// pmsRoomStatusResponse is the provider's live view of one room
type pmsRoomStatusResponse struct {
	RoomNumber   string `json:"room_number"`
	Occupancy    string `json:"occupancy"`
	Housekeeping string `json:"housekeeping"`
	OutOfOrder   bool   `json:"out_of_order"`
}

// pmsDateLayout is the calendar-date format PMS feeds use for stay dates
const pmsDateLayout = "2006-01-02"

// parsePMSDate parses an optional calendar date from the feed
func parsePMSDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(pmsDateLayout, raw)
	if err != nil {
		// Some vendors send full timestamps on the same field
		t, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, err
		}
	}
	return &t, nil
}

// formatFolioTotal renders an optional folio amount for the wire
func formatFolioTotal(total decimal.Decimal) string {
	if total.IsZero() {
		return ""
	}
	return total.String()
}
