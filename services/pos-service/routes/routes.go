package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/controllers"
)

// RegisterPOSRoutes sets up the terminal API under /pos.
func RegisterPOSRoutes(r *gin.Engine, pc *controllers.POSController) {
	pos := r.Group("/pos")

	pos.GET("/session", pc.GetSession)
	pos.POST("/scan", pc.Scan)
	pos.POST("/items", pc.AddItem)
	pos.PUT("/items/:line_id", pc.UpdateItem)
	pos.DELETE("/items/:line_id", pc.RemoveItem)
	pos.DELETE("/cart", pc.ClearCart)
	pos.PUT("/discount", pc.SetDiscount)
	pos.PUT("/customer", pc.SetCustomer)
	pos.PUT("/payment", pc.SelectPayment)
	pos.POST("/checkout", pc.Checkout)

	pos.GET("/orders/recent", pc.RecentOrders)
	pos.GET("/orders/last", pc.LastOrder)
	pos.POST("/orders/last/reprint", pc.ReprintLast)
	pos.GET("/activity", pc.Activity)
}
