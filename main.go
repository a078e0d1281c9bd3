package main

import (
	"homestays-server/routes"
	"homestays-server/storage"
	"homestays-server/utils"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}

		return tokenInput.RefreshToken
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
		user.Get("/{id}", accessTokenVerifierMiddleware, routes.GetUserByID)
		user.Patch("/{id}", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.UpdateUser)
		user.Delete("/{id}", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.DeleteUser)
		user.Get("/{id}/bookings", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.GetUserBookings)
		user.Get("/{id}/properties", routes.GetPropertiesByHostID)
	}

	property := app.Party("/api/property")
	{
		property.Get("/search", routes.SearchProperties)
		property.Get("/{id}", routes.GetPropertyByID)
		property.Get("/{id}/reviews", routes.ListPropertyReviews)
		property.Post("/", accessTokenVerifierMiddleware, utils.HostOnlyMiddleware, routes.CreateProperty)
		property.Patch("/{id}", accessTokenVerifierMiddleware, utils.HostOnlyMiddleware, routes.UpdateProperty)
		property.Delete("/{id}", accessTokenVerifierMiddleware, utils.HostOnlyMiddleware, routes.DeleteProperty)
		property.Post("/{id}/bookings", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateBooking)
		property.Post("/{id}/reviews", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateReview)
		property.Delete("/{id}/reviews/{reviewId}", accessTokenVerifierMiddleware, routes.DeleteReview)
	}

	booking := app.Party("/api/booking", accessTokenVerifierMiddleware)
	{
		booking.Get("/host", routes.GetHostBookings)
		booking.Get("/{id}", routes.GetBookingByID)
		booking.Patch("/{id}/status", routes.UpdateBookingStatus)
		booking.Delete("/{id}", routes.DeleteBooking)
		booking.Post("/{id}/payment", routes.CreateBookingPayment)
		booking.Get("/{id}/payment", routes.GetBookingPayment)
	}

	message := app.Party("/api/message", accessTokenVerifierMiddleware)
	{
		message.Post("/", routes.CreateMessage)
		message.Get("/with/{userId}", routes.GetConversation)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", routes.AdminListUsers)
		admin.Get("/stats", routes.AdminStats)
		admin.Get("/top-properties", routes.AdminTopProperties)
		admin.Get("/bookings-per-guest", routes.AdminBookingsPerGuest)
		admin.Get("/host-revenue", routes.AdminHostRevenue)
		admin.Get("/plans", routes.AdminListPlans)
		admin.Get("/plans/{name}", routes.AdminQueryPlan)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	app.Listen(":" + port)
}
