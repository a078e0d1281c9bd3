package routes

import (
	"homestays-server/models"
	"homestays-server/storage"
	"homestays-server/utils"
	"time"

	"github.com/kataras/iris/v12"
)

// GET /admin/stats
func AdminStats(ctx iris.Context) {
	var pendingBookings int64
	storage.DB.Model(&models.Booking{}).Where("status = ?", "pending").Count(&pendingBookings)
	var confirmedBookings int64
	storage.DB.Model(&models.Booking{}).Where("status = ?", "confirmed").Count(&confirmedBookings)
	var totalProperties int64
	storage.DB.Model(&models.Property{}).Count(&totalProperties)
	var totalUsers int64
	storage.DB.Model(&models.User{}).Count(&totalUsers)

	since7 := time.Now().AddDate(0, 0, -7)
	since30 := time.Now().AddDate(0, 0, -30)
	var newBookings7, newBookings30 int64
	storage.DB.Model(&models.Booking{}).Where("created_at >= ?", since7).Count(&newBookings7)
	storage.DB.Model(&models.Booking{}).Where("created_at >= ?", since30).Count(&newBookings30)

	ctx.JSON(iris.Map{
		"data": iris.Map{
			"pending_bookings":   pendingBookings,
			"confirmed_bookings": confirmedBookings,
			"total_properties":   totalProperties,
			"total_users":        totalUsers,
			"new_bookings_7d":    newBookings7,
			"new_bookings_30d":   newBookings30,
		},
		"meta":  iris.Map{},
		"links": iris.Map{},
	})
}

type propertyRatingRow struct {
	PropertyID    uint    `json:"propertyID"`
	Name          string  `json:"name"`
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int64   `json:"reviewCount"`
}

// GET /admin/top-properties — average rating per property, best first.
func AdminTopProperties(ctx iris.Context) {
	limit := ctx.URLParamIntDefault("limit", 10)
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	var rows []propertyRatingRow
	err := storage.DB.Raw(`
		SELECT p.id AS property_id, p.name,
		       AVG(r.rating) AS average_rating,
		       COUNT(r.id) AS review_count
		FROM properties p
		JOIN reviews r ON r.property_id = p.id
		GROUP BY p.id, p.name
		ORDER BY average_rating DESC, review_count DESC
		LIMIT ?`, limit).Scan(&rows).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"data": rows, "meta": iris.Map{}, "links": iris.Map{}})
}

type guestBookingRow struct {
	GuestID      uint   `json:"guestID"`
	Email        string `json:"email"`
	BookingCount int64  `json:"bookingCount"`
}

// GET /admin/bookings-per-guest — booking count grouped by guest.
func AdminBookingsPerGuest(ctx iris.Context) {
	limit := ctx.URLParamIntDefault("limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var rows []guestBookingRow
	err := storage.DB.Model(&models.Booking{}).
		Select("bookings.guest_id, u.email, COUNT(*) AS booking_count").
		Joins("JOIN users u ON u.id = bookings.guest_id").
		Group("bookings.guest_id, u.email").
		Order("booking_count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"data": rows, "meta": iris.Map{}, "links": iris.Map{}})
}

type hostRevenueRow struct {
	HostID      uint    `json:"hostID"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Revenue     float64 `json:"revenue"`
	RevenueRank int     `json:"revenueRank"`
}

// GET /admin/host-revenue — confirmed-booking revenue per host, ranked with
// a window function so ties share a rank.
func AdminHostRevenue(ctx iris.Context) {
	var rows []hostRevenueRow
	err := storage.DB.Raw(`
		SELECT u.id AS host_id, u.first_name, u.last_name,
		       COALESCE(SUM(b.total_price), 0) AS revenue,
		       RANK() OVER (ORDER BY COALESCE(SUM(b.total_price), 0) DESC) AS revenue_rank
		FROM users u
		JOIN properties p ON p.host_id = u.id
		LEFT JOIN bookings b ON b.property_id = p.id AND b.status = 'confirmed'
		GROUP BY u.id, u.first_name, u.last_name
		ORDER BY revenue DESC`).Scan(&rows).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"data": rows, "meta": iris.Map{}, "links": iris.Map{}})
}

// GET /admin/plans — available plan names.
func AdminListPlans(ctx iris.Context) {
	ctx.JSON(iris.Map{"data": storage.PlanNames(), "meta": iris.Map{}, "links": iris.Map{}})
}

// GET /admin/plans/{name} — the engine's execution plan for a catalog query,
// used to verify the secondary indexes are actually picked up.
func AdminQueryPlan(ctx iris.Context) {
	name := ctx.Params().Get("name")

	plan, err := storage.ExplainQuery(storage.DB, name)
	if err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", err.Error(), ctx)
		return
	}

	ctx.JSON(iris.Map{
		"data":  iris.Map{"name": name, "plan": plan},
		"meta":  iris.Map{},
		"links": iris.Map{},
	})
}
