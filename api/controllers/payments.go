package controllers

import (
	"net/http"

	"github.com/gasana-dev/isoko-backend/api/responses"
	"github.com/gasana-dev/isoko-backend/api/validators"
	internalpayments "github.com/gasana-dev/isoko-backend/internal/payments"
	"github.com/gasana-dev/isoko-backend/pkg/logger"
)

// InitiatePayment captures the buyer's funds into escrow for an accepted order.
func InitiatePayment(svc internalpayments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ledger, err := svc.InitiatePayment(r.Context(), internalpayments.InitiatePaymentInput{
			ActorUserID: actorID,
			OrderID:     orderID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, ledger)
	}
}

// ConfirmDelivery lets the buyer acknowledge receipt, releasing the escrow and
// completing the contract chain.
func ConfirmDelivery(svc internalpayments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ledger, err := svc.ConfirmDelivery(r.Context(), actorID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ledger)
	}
}

// SettleFarmerPayments splits a released escrow across the contract's farmers.
func SettleFarmerPayments(svc internalpayments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		contractID, err := validators.ParseUUIDParam(r, "contractId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.SettleFarmerPayments(r.Context(), internalpayments.SettleInput{
			ActorUserID: actorID,
			ContractID:  contractID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

// FarmerBalances lists the authenticated farmer's settlement history.
func FarmerBalances(svc internalpayments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		balances, err := svc.FarmerBalances(r.Context(), actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, balances)
	}
}
