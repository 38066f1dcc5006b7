package connectors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/hotelier/backend/internal/domain/hotel"
	"github.com/hotelier/backend/internal/domain/integration"
)

// PMSAdapter talks to property management system APIs: bulk reservation and
// room reconciliation plus stay and concierge actions. One adapter instance
// serves every PMS integration.
type PMSAdapter struct {
	exec   *RequestExecutor
	guests hotel.GuestRepository
	rooms  hotel.RoomRepository
	log    *zap.Logger
}

// NewPMSAdapter creates a new PMSAdapter
func NewPMSAdapter(exec *RequestExecutor, guests hotel.GuestRepository, rooms hotel.RoomRepository, log *zap.Logger) *PMSAdapter {
	return &PMSAdapter{
		exec:   exec,
		guests: guests,
		rooms:  rooms,
		log:    log.Named("pms-adapter"),
	}
}

// Type returns the integration family this adapter serves
func (a *PMSAdapter) Type() integration.Type {
	return integration.TypePMS
}

// Collections lists the remote collections the adapter can sync
func (a *PMSAdapter) Collections() []string {
	return []string{"reservations", "rooms"}
}

// SyncPlan returns the function set for one collection
func (a *PMSAdapter) SyncPlan(collection string) (*integration.CollectionSync, error) {
	switch collection {
	case "reservations":
		return &integration.CollectionSync{
			Operation: "sync_reservations",
			Fetch:     a.fetchReservations,
			Apply:     a.applyReservation,
		}, nil
	case "rooms":
		return &integration.CollectionSync{
			Operation: "sync_rooms",
			Fetch:     a.fetchRooms,
			Apply:     a.applyRoom,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", integration.ErrUnknownCollection, collection)
	}
}

// ---------------------------------------------------------------------------
// Reservation reconciliation
// ---------------------------------------------------------------------------

// fetchReservations retrieves the provider's reservation feed
func (a *PMSAdapter) fetchReservations(ctx context.Context, profile *integration.ConnectionProfile) ([]integration.RemoteRecord, error) {
	path := profile.EndpointFor("reservations", pmsDefaultReservationsPath)
	if profile.Cursor != "" {
		path += "?modified_since=" + url.QueryEscape(profile.Cursor)
	}

	body, err := a.exec.Execute(ctx, profile, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var resp pmsReservationListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: reservation feed: %v", integration.ErrInvalidProviderResponse, err)
	}
	if resp.Reservations == nil {
		return nil, fmt.Errorf("%w: reservation feed has no reservations list", integration.ErrInvalidProviderResponse)
	}

	records := make([]integration.RemoteRecord, 0, len(resp.Reservations))
	for _, r := range resp.Reservations {
		records = append(records, integration.RemoteRecord{
			ExternalID: r.ID,
			Payload:    r,
		})
	}
	return records, nil
}

// applyReservation validates one reservation and upserts the guest it carries
func (a *PMSAdapter) applyReservation(ctx context.Context, profile *integration.ConnectionProfile, record integration.RemoteRecord) error {
	res, ok := record.Payload.(pmsReservation)
	if !ok {
		return integration.ErrRecordMalformed
	}
	if res.ID == "" || (res.GuestFirst == "" && res.GuestLast == "") {
		return fmt.Errorf("%w: reservation requires id and guest name", integration.ErrRecordMalformed)
	}

	checkIn, err := parsePMSDate(res.CheckInDate)
	if err != nil {
		return fmt.Errorf("%w: reservation %q check_in_date: %v", integration.ErrRecordMalformed, res.ID, err)
	}
	checkOut, err := parsePMSDate(res.CheckOutDate)
	if err != nil {
		return fmt.Errorf("%w: reservation %q check_out_date: %v", integration.ErrRecordMalformed, res.ID, err)
	}

	return a.guests.Upsert(ctx, &hotel.Guest{
		ExternalRef: hotel.ExternalRef{
			ExternalID:     res.ID,
			ExternalSource: profile.Provider,
		},
		HotelID:      profile.HotelID,
		FirstName:    res.GuestFirst,
		LastName:     res.GuestLast,
		Email:        res.GuestEmail,
		Phone:        res.GuestPhone,
		RoomNumber:   res.RoomNumber,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		Status:       res.Status,
	})
}

// ---------------------------------------------------------------------------
// Room reconciliation
// ---------------------------------------------------------------------------

// fetchRooms retrieves the provider's room inventory feed
func (a *PMSAdapter) fetchRooms(ctx context.Context, profile *integration.ConnectionProfile) ([]integration.RemoteRecord, error) {
	body, err := a.exec.Execute(ctx, profile, http.MethodGet, profile.EndpointFor("rooms", pmsDefaultRoomsPath), nil)
	if err != nil {
		return nil, err
	}

	var resp pmsRoomListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: room feed: %v", integration.ErrInvalidProviderResponse, err)
	}
	if resp.Rooms == nil {
		return nil, fmt.Errorf("%w: room feed has no rooms list", integration.ErrInvalidProviderResponse)
	}

	records := make([]integration.RemoteRecord, 0, len(resp.Rooms))
	for _, r := range resp.Rooms {
		records = append(records, integration.RemoteRecord{
			ExternalID: r.ID,
			Payload:    r,
		})
	}
	return records, nil
}

// applyRoom validates and upserts one room
func (a *PMSAdapter) applyRoom(ctx context.Context, profile *integration.ConnectionProfile, record integration.RemoteRecord) error {
	room, ok := record.Payload.(pmsRoom)
	if !ok {
		return integration.ErrRecordMalformed
	}
	if room.ID == "" || room.Number == "" {
		return fmt.Errorf("%w: room requires id and number", integration.ErrRecordMalformed)
	}

	return a.rooms.Upsert(ctx, &hotel.Room{
		ExternalRef: hotel.ExternalRef{
			ExternalID:     room.ID,
			ExternalSource: profile.Provider,
		},
		HotelID:  profile.HotelID,
		Number:   room.Number,
		RoomType: room.RoomType,
		Floor:    room.Floor,
		Status:   room.Status,
	})
}

// ---------------------------------------------------------------------------
// Stay actions
// ---------------------------------------------------------------------------

// PostCheckIn marks a reservation as arrived on the PMS
func (a *PMSAdapter) PostCheckIn(ctx context.Context, profile *integration.ConnectionProfile, req *integration.CheckInRequest) (*integration.StayResult, error) {
	arrivedAt := req.ArrivedAt
	if arrivedAt.IsZero() {
		arrivedAt = time.Now()
	}
	path := profile.EndpointFor("reservations", pmsDefaultReservationsPath) +
		"/" + url.PathEscape(req.ReservationExternalID) + "/check-in"
	body, err := a.exec.Execute(ctx, profile, http.MethodPost, path, pmsCheckInRequest{
		RoomNumber: req.RoomNumber,
		ArrivedAt:  arrivedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}
	return parseStayResponse(body)
}

// PostCheckOut marks a reservation as departed on the PMS
func (a *PMSAdapter) PostCheckOut(ctx context.Context, profile *integration.ConnectionProfile, req *integration.CheckOutRequest) (*integration.StayResult, error) {
	departedAt := req.DepartedAt
	if departedAt.IsZero() {
		departedAt = time.Now()
	}
	path := profile.EndpointFor("reservations", pmsDefaultReservationsPath) +
		"/" + url.PathEscape(req.ReservationExternalID) + "/check-out"
	body, err := a.exec.Execute(ctx, profile, http.MethodPost, path, pmsCheckOutRequest{
		DepartedAt: departedAt.UTC().Format(time.RFC3339),
		FolioTotal: formatFolioTotal(req.FolioTotal),
	})
	if err != nil {
		return nil, err
	}
	return parseStayResponse(body)
}

// SendGuestRequest forwards a concierge request to the PMS work-order queue
func (a *PMSAdapter) SendGuestRequest(ctx context.Context, profile *integration.ConnectionProfile, req *integration.GuestRequest) (*integration.GuestRequestResult, error) {
	body, err := a.exec.Execute(ctx, profile, http.MethodPost, profile.EndpointFor("requests", pmsDefaultRequestsPath), pmsGuestRequest{
		RoomNumber: req.RoomNumber,
		Category:   req.Category,
		Message:    req.Message,
		Priority:   req.Priority,
	})
	if err != nil {
		return nil, err
	}

	var resp pmsGuestRequestResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: request payload: %v", integration.ErrInvalidProviderResponse, err)
	}
	if resp.RequestID == "" {
		return nil, fmt.Errorf("%w: request payload missing request_id", integration.ErrInvalidProviderResponse)
	}
	return &integration.GuestRequestResult{
		ExternalRequestID: resp.RequestID,
		Status:            resp.Status,
	}, nil
}

// GetRoomStatus retrieves the provider's live state of one room
func (a *PMSAdapter) GetRoomStatus(ctx context.Context, profile *integration.ConnectionProfile, roomNumber string) (*integration.RoomStatusResult, error) {
	path := profile.EndpointFor("rooms", pmsDefaultRoomsPath) + "/" + url.PathEscape(roomNumber) + "/status"
	body, err := a.exec.Execute(ctx, profile, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var resp pmsRoomStatusResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: room status payload: %v", integration.ErrInvalidProviderResponse, err)
	}
	return &integration.RoomStatusResult{
		RoomNumber:   resp.RoomNumber,
		Occupancy:    resp.Occupancy,
		Housekeeping: resp.Housekeeping,
		OutOfOrder:   resp.OutOfOrder,
	}, nil
}

// ---------------------------------------------------------------------------
// Connectivity test
// ---------------------------------------------------------------------------

// Test pings the provider and probes both feeds read-only
func (a *PMSAdapter) Test(ctx context.Context, profile *integration.ConnectionProfile) (*integration.TestReport, error) {
	report := &integration.TestReport{}

	body, err := a.exec.Execute(ctx, profile, http.MethodGet, profile.EndpointFor("ping", pmsDefaultPingPath), nil)
	if err != nil {
		report.Error = err.Error()
		return report, nil
	}
	var ping pmsPingResponse
	if err := json.Unmarshal(body, &ping); err != nil {
		report.Error = fmt.Sprintf("ping: %v", err)
		return report, nil
	}
	report.Connection = true

	probes := []struct {
		capability string
		fetch      func(context.Context, *integration.ConnectionProfile) ([]integration.RemoteRecord, error)
	}{
		{"reservations", a.fetchReservations},
		{"rooms", a.fetchRooms},
	}
	for _, p := range probes {
		result := integration.CapabilityResult{Capability: p.capability, OK: true}
		if records, err := p.fetch(ctx, profile); err != nil {
			result.OK = false
			result.Error = err.Error()
		} else {
			result.Records = len(records)
		}
		report.Capabilities = append(report.Capabilities, result)
	}

	return report, nil
}

// parseStayResponse decodes the provider's stay transition payload
func parseStayResponse(body []byte) (*integration.StayResult, error) {
	var resp pmsStayResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: stay payload: %v", integration.ErrInvalidProviderResponse, err)
	}
	if resp.ReservationID == "" {
		return nil, fmt.Errorf("%w: stay payload missing reservation_id", integration.ErrInvalidProviderResponse)
	}
	return &integration.StayResult{
		ReservationExternalID: resp.ReservationID,
		Status:                resp.Status,
		RoomNumber:            resp.RoomNumber,
	}, nil
}

var (
	_ integration.SyncSource = (*PMSAdapter)(nil)
	_ integration.PMSPort    = (*PMSAdapter)(nil)
)
