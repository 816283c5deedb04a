package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pawmart/PetShopGo/internal/service"
	"github.com/pawmart/PetShopGo/pkg/health"
	"github.com/pawmart/PetShopGo/pkg/middleware"
)

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	catalogService *service.CatalogService,
	reviewService *service.ReviewService,
	cartService *service.CartService,
	orderService *service.OrderService,
	healthHandler *health.Handler,
	corsCfg middleware.CORSConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("petshop"))

	// Ops endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	productHandler := NewProductHandler(catalogService, logger)
	reviewHandler := NewReviewHandler(reviewService, logger)
	cartHandler := NewCartHandler(cartService, logger)
	orderHandler := NewOrderHandler(orderService, logger)

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", productHandler.ListProducts)
		r.Post("/", productHandler.UploadProduct)
		r.Get("/{id}", productHandler.GetProduct)
		r.Put("/{id}", productHandler.UpdateProduct)
		r.Delete("/{id}", productHandler.DeleteProduct)

		r.Get("/{id}/ratings", reviewHandler.ListRatings)
		r.Post("/{id}/ratings", reviewHandler.SubmitRating)
		r.Get("/{id}/rating-stats", reviewHandler.GetRatingStats)
		r.Get("/{id}/comments", reviewHandler.ListComments)
		r.Post("/{id}/comments", reviewHandler.AddComment)
	})

	r.Route("/api/v1/comments", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Put("/{id}", reviewHandler.UpdateComment)
		r.Delete("/{id}", reviewHandler.DeleteComment)
		r.Post("/{id}/vote", reviewHandler.VoteComment)
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/", cartHandler.AddToCart)
		r.Get("/{sessionId}", cartHandler.GetCart)
		r.Put("/{itemId}", cartHandler.UpdateCartItem)
		r.Delete("/{itemId}", cartHandler.RemoveCartItem)
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/", orderHandler.PlaceOrder)
		r.Get("/{sessionId}", orderHandler.ListOrders)
	})

	r.Get("/api/v1/order/{id}", orderHandler.GetOrder)
	r.Group(func(r chi.Router) {
		r.Use(middleware.CacheControl(60))

		r.Get("/api/v1/categories", productHandler.ListCategories)
		r.Get("/api/v1/filter-options", productHandler.ListFilterOptions)
	})
	r.Get("/api/v1/dashboard", productHandler.Dashboard)

	return r
}
