package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gasana-dev/isoko-backend/api/controllers"
	"github.com/gasana-dev/isoko-backend/api/middleware"
	"github.com/gasana-dev/isoko-backend/internal/cart"
	"github.com/gasana-dev/isoko-backend/internal/inventory"
	"github.com/gasana-dev/isoko-backend/internal/listings"
	"github.com/gasana-dev/isoko-backend/internal/orders"
	"github.com/gasana-dev/isoko-backend/internal/payments"
	"github.com/gasana-dev/isoko-backend/internal/storage"
	"github.com/gasana-dev/isoko-backend/internal/tracking"
	"github.com/gasana-dev/isoko-backend/internal/transport"
	"github.com/gasana-dev/isoko-backend/pkg/config"
	"github.com/gasana-dev/isoko-backend/pkg/enums"
	"github.com/gasana-dev/isoko-backend/pkg/logger"
	"github.com/gasana-dev/isoko-backend/pkg/redis"
)

// Services bundles everything the router mounts.
type Services struct {
	Inventory inventory.Service
	Listings  listings.Service
	Orders    orders.Service
	Cart      cart.Service
	Transport transport.Service
	Storage   storage.Service
	Payments  payments.Service
	Tracking  tracking.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	health map[string]controllers.Pinger,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, health))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/tracking/{trackingId}", controllers.Track(svcs.Tracking, logg))
		r.Get("/listings", controllers.PublicListings(svcs.Listings, logg))
		r.Get("/storage/facilities", controllers.StorageFacilities(svcs.Storage, logg))
	})

	var idempotencyStore redis.IdempotencyStore
	if redisClient != nil {
		idempotencyStore = redisClient
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.ActorRoleBuyer))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.BuyerOrders(svcs.Orders, logg))
				r.Post("/", controllers.PlaceOrder(svcs.Orders, logg))
				r.Post("/{orderId}/payment", controllers.InitiatePayment(svcs.Payments, logg))
				r.Post("/{orderId}/confirm-delivery", controllers.ConfirmDelivery(svcs.Payments, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartItems(svcs.Cart, logg))
				r.Post("/", controllers.AddCartItem(svcs.Cart, logg))
				r.Patch("/items/{itemId}", controllers.UpdateCartItem(svcs.Cart, logg))
				r.Delete("/items/{itemId}", controllers.RemoveCartItem(svcs.Cart, logg))
				r.Post("/checkout", controllers.Checkout(svcs.Cart, logg))
			})
		})

		r.Route("/cooperative", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.ActorRoleCooperative))

			r.Route("/lots", func(r chi.Router) {
				r.Get("/", controllers.CooperativeInventory(svcs.Inventory, logg))
				r.Post("/", controllers.AddLot(svcs.Inventory, logg))
			})
			r.Route("/listings", func(r chi.Router) {
				r.Get("/", controllers.CooperativeListings(svcs.Listings, logg))
				r.Post("/", controllers.CreateListing(svcs.Listings, logg))
				r.Post("/{listingId}/close", controllers.CloseListing(svcs.Listings, logg))
			})
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.CooperativeOrders(svcs.Orders, logg))
				r.Post("/{orderId}/respond", controllers.RespondToOrder(svcs.Orders, logg))
			})
			r.Post("/transport/{transportId}/assign", controllers.AssignTransport(svcs.Transport, logg))
		})

		r.Route("/storage", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.ActorRoleCooperative))
			r.Post("/book", controllers.BookStorage(svcs.Storage, logg))
			r.Get("/bookings", controllers.CooperativeStorageBookings(svcs.Storage, logg))
			r.Post("/bookings/{bookingId}/release", controllers.ReleaseStorageBooking(svcs.Storage, logg))
		})

		r.Route("/transporter/jobs", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.ActorRoleTransporter))
			r.Get("/", controllers.MyTransportJobs(svcs.Transport, logg))
			r.Get("/available", controllers.AvailableTransportJobs(svcs.Transport, logg))
			r.Post("/{transportId}/accept", controllers.AcceptTransport(svcs.Transport, logg))
			r.Post("/{transportId}/pickup", controllers.PickupTransport(svcs.Transport, logg))
			r.Post("/{transportId}/deliver", controllers.DeliverTransport(svcs.Transport, logg))
		})

		r.With(middleware.RequireRole(logg, enums.ActorRoleCooperative, enums.ActorRoleTransporter)).
			Post("/transport/{transportId}/cancel", controllers.CancelTransport(svcs.Transport, logg))

		r.With(middleware.RequireRole(logg, enums.ActorRoleFarmer)).
			Get("/farmer/balances", controllers.FarmerBalances(svcs.Payments, logg))

		r.With(middleware.RequireRole(logg, enums.ActorRoleCooperative)).
			Post("/payments/contracts/{contractId}/settle", controllers.SettleFarmerPayments(svcs.Payments, logg))
	})

	return r
}
