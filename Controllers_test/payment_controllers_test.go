package Controllers_test

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dineflow/dineflow/controllers"
	"github.com/dineflow/dineflow/models"
	"github.com/dineflow/dineflow/utils"
)

func setupTestDBForPayments() *gorm.DB {
	dsn := fmt.Sprintf("file:ctrl_payments_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(
		&models.Tenant{},
		&models.Order{},
		&models.OrderItem{},
		&models.PaymentProvider{},
		&models.EmailConfig{},
	)
	if err != nil {
		panic(err)
	}
	return db
}

func setupPaymentRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	paymentCtrl := controllers.NewPaymentController(db)
	router.POST("/public/payment/create-order", paymentCtrl.CreateGatewayOrder)
	router.POST("/public/payment/verify", paymentCtrl.VerifyPayment)
	router.POST("/public/payment/webhook", paymentCtrl.HandleWebhook)
	return router
}

func seedPaymentFixtures(db *gorm.DB, keySecret string) (*models.Tenant, *models.Order) {
	tenant := models.Tenant{Name: "Curry Leaf", Slug: "curry-leaf", IsActive: true}
	db.Create(&tenant)

	db.Create(&models.PaymentProvider{
		TenantID:  tenant.ID,
		Provider:  "razorpay",
		KeyID:     "rzp_test_key",
		KeySecret: keySecret,
		IsEnabled: true,
	})

	order := models.Order{
		TenantID:      tenant.ID,
		Status:        "pending",
		PaymentStatus: "pending",
		TotalAmount:   430,
	}
	db.Create(&order)
	return &tenant, &order
}

func razorpaySignature(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreateGatewayOrderWithoutProviderConfig(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForPayments()
	router := setupPaymentRouter(db)

	tenant := models.Tenant{Name: "No Gateway", Slug: "no-gateway", IsActive: true}
	db.Create(&tenant)
	order := models.Order{TenantID: tenant.ID, Status: "pending", PaymentStatus: "pending", TotalAmount: 100}
	db.Create(&order)

	body, _ := json.Marshal(map[string]string{"order_id": order.ID})
	req, _ := http.NewRequest("POST", "/public/payment/create-order", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateGatewayOrderUnknownOrder(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForPayments()
	router := setupPaymentRouter(db)

	body, _ := json.Marshal(map[string]string{"order_id": "no-such-order"})
	req, _ := http.NewRequest("POST", "/public/payment/create-order", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVerifyPaymentEndpoint(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForPayments()
	router := setupPaymentRouter(db)
	_, order := seedPaymentFixtures(db, "s3cr3t")
	db.Model(order).Update("payment_order_id", "order_gw_1")

	// Bad signature first.
	body, _ := json.Marshal(map[string]string{
		"razorpay_order_id":   "order_gw_1",
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  "deadbeef",
	})
	req, _ := http.NewRequest("POST", "/public/payment/verify", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Then the real one.
	body, _ = json.Marshal(map[string]string{
		"razorpay_order_id":   "order_gw_1",
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  razorpaySignature("order_gw_1", "pay_1", "s3cr3t"),
	})
	req, _ = http.NewRequest("POST", "/public/payment/verify", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var stored models.Order
	db.First(&stored, "id = ?", order.ID)
	assert.Equal(t, "completed", stored.PaymentStatus)
	assert.Equal(t, "pay_1", stored.PaymentID)
}

func TestWebhookMarksOrderCompleted(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForPayments()
	router := setupPaymentRouter(db)
	_, order := seedPaymentFixtures(db, "secret")
	db.Model(order).Update("payment_order_id", "order_gw_2")

	body, _ := json.Marshal(map[string]interface{}{
		"event": "payment.captured",
		"payload": map[string]interface{}{
			"payment": map[string]interface{}{
				"entity": map[string]interface{}{
					"razorpay_payment_id": "pay_2",
					"razorpay_order_id":   "order_gw_2",
				},
			},
		},
	})

	req, _ := http.NewRequest("POST", "/public/payment/webhook", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var stored models.Order
	db.First(&stored, "id = ?", order.ID)
	assert.Equal(t, "completed", stored.PaymentStatus)

	// Redelivery of the same event is still a 200.
	req, _ = http.NewRequest("POST", "/public/payment/webhook", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookUnknownOrderStillAcknowledged(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForPayments()
	router := setupPaymentRouter(db)

	body, _ := json.Marshal(map[string]interface{}{
		"event": "payment.captured",
		"payload": map[string]interface{}{
			"payment": map[string]interface{}{
				"entity": map[string]interface{}{
					"razorpay_payment_id": "pay_x",
					"razorpay_order_id":   "order_ghost",
				},
			},
		},
	})

	req, _ := http.NewRequest("POST", "/public/payment/webhook", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookBadSignatureRejected(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForPayments()
	router := setupPaymentRouter(db)
	tenant, order := seedPaymentFixtures(db, "secret")
	db.Model(&models.PaymentProvider{}).
		Where("tenant_id = ?", tenant.ID).
		Update("webhook_secret", "whsecret")
	db.Model(order).Update("payment_order_id", "order_gw_3")

	body, _ := json.Marshal(map[string]interface{}{
		"event": "payment.captured",
		"payload": map[string]interface{}{
			"payment": map[string]interface{}{
				"entity": map[string]interface{}{
					"razorpay_payment_id": "pay_3",
					"razorpay_order_id":   "order_gw_3",
				},
			},
		},
	})

	req, _ := http.NewRequest("POST", "/public/payment/webhook", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Razorpay-Signature", "bogus")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var stored models.Order
	db.First(&stored, "id = ?", order.ID)
	assert.Equal(t, "pending", stored.PaymentStatus)

	mac := hmac.New(sha256.New, []byte("whsecret"))
	mac.Write(body)
	req, _ = http.NewRequest("POST", "/public/payment/webhook", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Razorpay-Signature", hex.EncodeToString(mac.Sum(nil)))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	db.First(&stored, "id = ?", order.ID)
	assert.Equal(t, "completed", stored.PaymentStatus)
}
