package tracking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	pkgerrors "github.com/gasana-dev/isoko-backend/pkg/errors"
)

// Service resolves public tracking codes.
type Service interface {
	Track(ctx context.Context, trackingID string) (*View, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tracking repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Track(ctx context.Context, trackingID string) (*View, error) {
	trackingID = strings.TrimSpace(trackingID)
	if trackingID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking id required")
	}

	contract, err := s.repo.FindContractByTrackingID(ctx, trackingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no shipment for tracking id")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load contract")
	}

	order, err := s.repo.FindOrder(ctx, contract.BuyerOrderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}

	legs, err := s.repo.ListTransportByContract(ctx, contract.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load transport legs")
	}
	bookings, err := s.repo.ListBookingsByContract(ctx, contract.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load storage bookings")
	}

	view := &View{
		TrackingID:          contract.TrackingID,
		Status:              contract.Status,
		Crop:                order.Crop,
		QuantityKg:          order.QuantityKg,
		DeliveryLocation:    order.DeliveryLocation,
		DeliveryWindowStart: order.DeliveryWindowStart,
		DeliveryWindowEnd:   order.DeliveryWindowEnd,
		TransportLegs:       make([]TransportLeg, 0, len(legs)),
		StorageLegs:         make([]StorageLeg, 0, len(bookings)),
	}
	for _, leg := range legs {
		view.TransportLegs = append(view.TransportLegs, TransportLeg{
			Status:      leg.Status,
			Origin:      leg.Origin,
			Destination: leg.Destination,
			PickupStart: leg.PickupStart,
			PickupEnd:   leg.PickupEnd,
			PickedUpAt:  leg.PickedUpAt,
			DeliveredAt: leg.DeliveredAt,
		})
	}
	for _, booking := range bookings {
		view.StorageLegs = append(view.StorageLegs, StorageLeg{
			Status:     booking.Status,
			QuantityKg: booking.QuantityKg,
			StartDate:  booking.StartDate,
			EndDate:    booking.EndDate,
		})
	}
	return view, nil
}
