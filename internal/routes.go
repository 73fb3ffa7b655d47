package internal

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/karloscodes/cartridge"
	cartridgemiddleware "github.com/karloscodes/cartridge/middleware"

	"adlens/internal/config"
	"adlens/internal/http"
)

// apiCORSConfig is the CORS setup shared by all API endpoints.
var apiCORSConfig = &cors.Config{
	AllowOrigins: "*",
	AllowMethods: "POST,GET,DELETE,OPTIONS",
	AllowHeaders: "Origin, Content-Type, Accept, Authorization",
}

// MountAppRoutes mounts all application routes using cartridge's route API
func MountAppRoutes(srv *cartridge.Server) {
	cfg := config.GetConfig()

	// Rate limiting only bites in production; in development and test it
	// would get in the way.
	conditionalRateLimiter := func(limiter fiber.Handler) fiber.Handler {
		return func(c *fiber.Ctx) error {
			if cfg.IsProduction() {
				return limiter(c)
			}
			return c.Next()
		}
	}

	apiRateLimiter := conditionalRateLimiter(cartridgemiddleware.RateLimiter(
		cartridgemiddleware.WithMax(120),
		cartridgemiddleware.WithDuration(time.Minute),
	))

	apiConfig := &cartridge.RouteConfig{
		EnableCORS:       true,
		CustomMiddleware: []fiber.Handler{apiRateLimiter},
		CORSConfig:       apiCORSConfig,
	}

	// The dashboard fan-out is the expensive endpoint; keep it on a tighter
	// budget than plain CRUD.
	dashboardRateLimiter := conditionalRateLimiter(cartridgemiddleware.RateLimiter(
		cartridgemiddleware.WithMax(30),
		cartridgemiddleware.WithDuration(time.Minute),
	))
	dashboardConfig := &cartridge.RouteConfig{
		EnableCORS:       true,
		CustomMiddleware: []fiber.Handler{dashboardRateLimiter},
		CORSConfig:       apiCORSConfig,
	}

	// Health check endpoint
	srv.Get("/_health", http.HealthIndexAction)
	srv.Head("/_health", http.HealthIndexAction)

	// === DASHBOARD ===
	srv.Get("/api/v1/dashboard", http.DashboardIndexAction, dashboardConfig)
	srv.Options("/api/v1/dashboard", func(ctx *cartridge.Context) error {
		return ctx.SendStatus(fiber.StatusNoContent)
	}, dashboardConfig)

	// === GEOGRAPHY ===
	srv.Get("/api/v1/countries", http.CountriesIndexAction, apiConfig)
	srv.Post("/api/v1/countries", http.CountryCreateAction, apiConfig)
	srv.Get("/api/v1/countries/:id", http.CountryShowAction, apiConfig)
	srv.Post("/api/v1/countries/:id", http.CountryUpdateAction, apiConfig)
	srv.Delete("/api/v1/countries/:id", http.CountryDeleteAction, apiConfig)

	srv.Get("/api/v1/states", http.StatesIndexAction, apiConfig)
	srv.Post("/api/v1/states", http.StateCreateAction, apiConfig)
	srv.Get("/api/v1/states/:id", http.StateShowAction, apiConfig)
	srv.Post("/api/v1/states/:id", http.StateUpdateAction, apiConfig)
	srv.Delete("/api/v1/states/:id", http.StateDeleteAction, apiConfig)

	srv.Get("/api/v1/cities", http.CitiesIndexAction, apiConfig)
	srv.Post("/api/v1/cities", http.CityCreateAction, apiConfig)
	srv.Get("/api/v1/cities/:id", http.CityShowAction, apiConfig)
	srv.Post("/api/v1/cities/:id", http.CityUpdateAction, apiConfig)
	srv.Delete("/api/v1/cities/:id", http.CityDeleteAction, apiConfig)

	// === TARGETING ===
	srv.Get("/api/v1/audiences", http.AudiencesIndexAction, apiConfig)
	srv.Post("/api/v1/audiences", http.AudienceCreateAction, apiConfig)
	srv.Get("/api/v1/audiences/:id", http.AudienceShowAction, apiConfig)
	srv.Post("/api/v1/audiences/:id", http.AudienceUpdateAction, apiConfig)
	srv.Delete("/api/v1/audiences/:id", http.AudienceDeleteAction, apiConfig)

	srv.Get("/api/v1/campaigns", http.CampaignsIndexAction, apiConfig)
	srv.Post("/api/v1/campaigns", http.CampaignCreateAction, apiConfig)
	srv.Get("/api/v1/campaigns/:id", http.CampaignShowAction, apiConfig)
	srv.Post("/api/v1/campaigns/:id", http.CampaignUpdateAction, apiConfig)
	srv.Delete("/api/v1/campaigns/:id", http.CampaignDeleteAction, apiConfig)

	// === CATALOG ===
	srv.Get("/api/v1/products", http.ProductsIndexAction, apiConfig)
	srv.Post("/api/v1/products", http.ProductCreateAction, apiConfig)
	srv.Get("/api/v1/products/:id", http.ProductShowAction, apiConfig)
	srv.Post("/api/v1/products/:id", http.ProductUpdateAction, apiConfig)
	srv.Delete("/api/v1/products/:id", http.ProductDeleteAction, apiConfig)

	srv.Get("/api/v1/clients", http.ClientsIndexAction, apiConfig)
	srv.Post("/api/v1/clients", http.ClientCreateAction, apiConfig)
	srv.Get("/api/v1/clients/:id", http.ClientShowAction, apiConfig)
	srv.Post("/api/v1/clients/:id", http.ClientUpdateAction, apiConfig)
	srv.Delete("/api/v1/clients/:id", http.ClientDeleteAction, apiConfig)

	// === PAGES & METADATA ===
	srv.Get("/api/v1/pages", http.PagesIndexAction, apiConfig)
	srv.Post("/api/v1/pages", http.PageCreateAction, apiConfig)
	srv.Get("/api/v1/pages/:id", http.PageShowAction, apiConfig)
	srv.Post("/api/v1/pages/:id", http.PageUpdateAction, apiConfig)
	srv.Delete("/api/v1/pages/:id", http.PageDeleteAction, apiConfig)

	// Metadata is extractor-owned: read-only.
	srv.Get("/api/v1/metadata", http.MetadataIndexAction, apiConfig)
	srv.Get("/api/v1/metadata/:id", http.MetadataShowAction, apiConfig)

	// === TRACKING ===
	srv.Get("/api/v1/metrics", http.MetricsIndexAction, apiConfig)
	srv.Post("/api/v1/metrics", http.MetricCreateAction, apiConfig)
	srv.Get("/api/v1/metrics/:id", http.MetricShowAction, apiConfig)
	srv.Post("/api/v1/metrics/:id", http.MetricUpdateAction, apiConfig)
	srv.Delete("/api/v1/metrics/:id", http.MetricDeleteAction, apiConfig)

	srv.Get("/api/v1/events", http.EventsIndexAction, apiConfig)
	srv.Post("/api/v1/events", http.EventCreateAction, apiConfig)
	srv.Get("/api/v1/events/:id", http.EventShowAction, apiConfig)
	srv.Post("/api/v1/events/:id", http.EventUpdateAction, apiConfig)
	srv.Delete("/api/v1/events/:id", http.EventDeleteAction, apiConfig)

	srv.Get("/api/v1/subscriptions", http.SubscriptionsIndexAction, apiConfig)
	srv.Post("/api/v1/subscriptions", http.SubscriptionCreateAction, apiConfig)
	srv.Get("/api/v1/subscriptions/:id", http.SubscriptionShowAction, apiConfig)
	srv.Post("/api/v1/subscriptions/:id", http.SubscriptionUpdateAction, apiConfig)
	srv.Delete("/api/v1/subscriptions/:id", http.SubscriptionDeleteAction, apiConfig)
}
