package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rahatul-dev/subbazar/internal/config"
	"github.com/rahatul-dev/subbazar/internal/server"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorefrontGoldenPath(t *testing.T) {
	// 1. Setup Infrastructure
	db, cleanupDB := SetupTestDB(t)
	defer cleanupDB()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	mockAuth := NewMockAuthClient()

	cfg := &config.Config{}
	cfg.Server.MaxUploadSizeMB = 10
	cfg.JWT.Secret = "test-secret-key-123"
	cfg.JWT.TokenExpiry = time.Hour

	// 2. Initialize App
	app := server.NewApp(server.AppDependencies{
		Config:      cfg,
		MongoDB:     db,
		RedisClient: redisClient,
		AuthClient:  mockAuth,
	})

	request := func(method, path, token string, body interface{}, headers ...map[string]string) *http.Response {
		var bodyReader io.Reader
		if body != nil {
			jsonBytes, _ := json.Marshal(body)
			bodyReader = bytes.NewReader(jsonBytes)
		}
		req, _ := http.NewRequest(method, path, bodyReader)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		for _, h := range headers {
			for k, v := range h {
				req.Header.Set(k, v)
			}
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	decode := func(resp *http.Response) map[string]interface{} {
		var out map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return out
	}

	// Extracts the "data" envelope of a success response.
	data := func(resp *http.Response) map[string]interface{} {
		body := decode(resp)
		require.Equal(t, true, body["success"], "expected success response, got %v", body)
		return body["data"].(map[string]interface{})
	}

	// ==========================================
	// STEP 1: Seed Admin & Login
	// ==========================================
	// Registration always yields a customer; the admin is provisioned
	// directly in the database.
	_, err = db.Collection("users").InsertOne(context.Background(), map[string]interface{}{
		"_id":          "01SEEDADMIN0000000000000000",
		"email":        "admin@subbazar.com",
		"firebase_uid": "uid_admin",
		"roles":        []string{"admin"},
		"name":         "Store Admin",
	})
	require.NoError(t, err)

	mockAuth.AddMockUser("token_admin", "uid_admin", "admin@subbazar.com")

	resp := request("POST", "/v1/auth/login", "token_admin", nil)
	require.Equal(t, 200, resp.StatusCode)

	loginData := decode(resp)
	adminToken := loginData["token"].(string)
	require.NotEmpty(t, adminToken)

	fmt.Println("✓ Admin Logged In")

	// ==========================================
	// STEP 2: Admin Builds the Catalog
	// ==========================================
	resp = request("POST", "/v1/admin/products", adminToken, map[string]interface{}{
		"name":      "Netflix Premium",
		"name_bn":   "নেটফ্লিক্স প্রিমিয়াম",
		"category":  "web",
		"features":  []string{"4K UHD", "4 Screens"},
		"is_active": true,
	})
	require.Equal(t, 201, resp.StatusCode)
	productID := data(resp)["id"].(string)

	resp = request("POST", "/v1/admin/packages", adminToken, map[string]interface{}{
		"product_id":     productID,
		"duration":       "one_month",
		"price":          350,
		"original_price": 450,
	})
	require.Equal(t, 201, resp.StatusCode)
	packageID := data(resp)["id"].(string)

	// Price above original must be rejected.
	resp = request("POST", "/v1/admin/packages", adminToken, map[string]interface{}{
		"product_id":     productID,
		"duration":       "six_month",
		"price":          3000,
		"original_price": 2700,
	})
	assert.Equal(t, 400, resp.StatusCode)

	resp = request("POST", "/v1/admin/promos", adminToken, map[string]interface{}{
		"code":      "SAVE10",
		"type":      "percentage",
		"value":     10,
		"is_active": true,
	})
	require.Equal(t, 201, resp.StatusCode)

	fmt.Println("✓ Catalog Seeded:", productID, packageID)

	// ==========================================
	// STEP 3: Public Catalog Listing
	// ==========================================
	resp = request("GET", "/v1/catalog", "", nil)
	require.Equal(t, 200, resp.StatusCode)
	catalogBody := decode(resp)
	listing := catalogBody["data"].([]interface{})
	require.Len(t, listing, 1)

	fmt.Println("✓ Storefront Catalog Visible")

	// ==========================================
	// STEP 4: Customer Registers via Login
	// ==========================================
	mockAuth.AddMockUser("token_customer", "uid_customer", "rahim@example.com")

	resp = request("POST", "/v1/auth/login", "token_customer", nil)
	require.Equal(t, 200, resp.StatusCode)

	loginData = decode(resp)
	customerToken := loginData["token"].(string)
	require.NotEmpty(t, customerToken)
	assert.Equal(t, true, loginData["is_new_user"])

	// Customers cannot reach the admin surface.
	resp = request("GET", "/v1/admin/orders", customerToken, nil)
	assert.Equal(t, 403, resp.StatusCode)

	fmt.Println("✓ Customer Registered")

	// ==========================================
	// STEP 5: Cart Flow
	// ==========================================
	addLine := map[string]string{"product_id": productID, "package_id": packageID}

	resp = request("POST", "/v1/me/cart/items", customerToken, addLine)
	require.Equal(t, 200, resp.StatusCode)
	resp = request("POST", "/v1/me/cart/items", customerToken, addLine)
	require.Equal(t, 200, resp.StatusCode)

	resp = request("GET", "/v1/me/cart", customerToken, nil)
	require.Equal(t, 200, resp.StatusCode)
	cart := data(resp)
	assert.EqualValues(t, 700, cart["total"])
	assert.EqualValues(t, 2, cart["items_count"])
	require.Len(t, cart["lines"].([]interface{}), 1)

	fmt.Println("✓ Cart Holds 2 × 350 BDT")

	// ==========================================
	// STEP 6: Promo Validation
	// ==========================================
	resp = request("POST", "/v1/me/promos/validate", customerToken, map[string]string{
		"code": "save10",
	})
	require.Equal(t, 200, resp.StatusCode)
	promoData := data(resp)
	assert.Equal(t, "SAVE10", promoData["code"])
	assert.EqualValues(t, 70, promoData["discount_amount"])
	assert.EqualValues(t, 630, promoData["final_total"])

	// Unknown code rejected.
	resp = request("POST", "/v1/me/promos/validate", customerToken, map[string]string{
		"code": "NOPE",
	})
	assert.Equal(t, 404, resp.StatusCode)

	fmt.Println("✓ Promo Validated: 700 → 630")

	// ==========================================
	// STEP 7: Checkout
	// ==========================================
	checkoutBody := map[string]string{
		"customer_name":   "Rahim Uddin",
		"customer_phone":  "01712345678",
		"payment_method":  "bKash",
		"transaction_ref": "TRX998877",
		"promo_code":      "SAVE10",
	}

	resp = request("POST", "/v1/me/checkout", customerToken, checkoutBody,
		map[string]string{"X-Correlation-ID": "checkout-1"})
	require.Equal(t, 201, resp.StatusCode)
	order := data(resp)
	orderID := order["id"].(string)
	assert.EqualValues(t, 700, order["subtotal"])
	assert.EqualValues(t, 70, order["discount_amount"])
	assert.EqualValues(t, 630, order["total_amount"])
	assert.Equal(t, "pending", order["status"])

	fmt.Println("✓ Order Placed:", orderID)

	// Cart is cleared by the submission.
	resp = request("GET", "/v1/me/cart", customerToken, nil)
	require.Equal(t, 200, resp.StatusCode)
	cart = data(resp)
	assert.EqualValues(t, 0, cart["items_count"])

	// A retried submission with the same correlation ID replays the same
	// order instead of creating a second one.
	time.Sleep(200 * time.Millisecond) // response caching is async
	resp = request("POST", "/v1/me/checkout", customerToken, checkoutBody,
		map[string]string{"X-Correlation-ID": "checkout-1"})
	replayed := data(resp)
	assert.Equal(t, orderID, replayed["id"])

	fmt.Println("✓ Duplicate Submission Replayed")

	// ==========================================
	// STEP 8: Customer Sees Order & Subscription
	// ==========================================
	resp = request("GET", "/v1/me/orders", customerToken, nil)
	require.Equal(t, 200, resp.StatusCode)
	ordersBody := decode(resp)
	require.Len(t, ordersBody["data"].([]interface{}), 1)

	resp = request("GET", "/v1/me/orders/"+orderID, customerToken, nil)
	require.Equal(t, 200, resp.StatusCode)
	detail := data(resp)
	items := detail["items"].([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, "Netflix Premium", item["product_name"])
	assert.Equal(t, "1 Month", item["duration_label"])
	assert.EqualValues(t, 350, item["unit_price"])
	assert.EqualValues(t, 2, item["quantity"])

	resp = request("GET", "/v1/me/subscriptions", customerToken, nil)
	require.Equal(t, 200, resp.StatusCode)
	subsBody := decode(resp)
	subs := subsBody["data"].([]interface{})
	require.Len(t, subs, 1)
	sub := subs[0].(map[string]interface{})
	assert.Equal(t, orderID, sub["order_id"])
	assert.NotNil(t, sub["end_date"])

	fmt.Println("✓ Order History & Subscription Verified")

	// ==========================================
	// STEP 9: Admin Order Workflow
	// ==========================================
	// Skipping ahead in the status machine is rejected.
	resp = request("PATCH", "/v1/admin/orders/"+orderID+"/status", adminToken, map[string]string{
		"status": "shipped",
	})
	assert.Equal(t, 422, resp.StatusCode)

	resp = request("PATCH", "/v1/admin/orders/"+orderID+"/status", adminToken, map[string]string{
		"status": "confirmed",
	})
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "confirmed", data(resp)["status"])

	resp = request("GET", "/v1/admin/orders/"+orderID, adminToken, nil)
	require.Equal(t, 200, resp.StatusCode)
	adminDetail := data(resp)
	adminOrder := adminDetail["order"].(map[string]interface{})
	assert.Equal(t, "confirmed", adminOrder["status"])
	assert.Equal(t, "TRX998877", adminOrder["transaction_ref"])

	fmt.Println("✓ Admin Order Workflow Verified")
}

func TestCheckoutRejectsBadSubmissions(t *testing.T) {
	db, cleanupDB := SetupTestDB(t)
	defer cleanupDB()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mockAuth := NewMockAuthClient()

	cfg := &config.Config{}
	cfg.Server.MaxUploadSizeMB = 10
	cfg.JWT.Secret = "test-secret-key-123"
	cfg.JWT.TokenExpiry = time.Hour

	app := server.NewApp(server.AppDependencies{
		Config:      cfg,
		MongoDB:     db,
		RedisClient: redisClient,
		AuthClient:  mockAuth,
	})

	mockAuth.AddMockUser("token_customer", "uid_customer", "karim@example.com")

	loginReq, _ := http.NewRequest("POST", "/v1/auth/login", nil)
	loginReq.Header.Set("Authorization", "Bearer token_customer")
	loginResp, err := app.Test(loginReq, -1)
	require.NoError(t, err)
	require.Equal(t, 200, loginResp.StatusCode)

	var loginData map[string]interface{}
	require.NoError(t, json.NewDecoder(loginResp.Body).Decode(&loginData))
	token := loginData["token"].(string)

	post := func(body map[string]string) *http.Response {
		jsonBytes, _ := json.Marshal(body)
		req, _ := http.NewRequest("POST", "/v1/me/checkout", bytes.NewReader(jsonBytes))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	// Unknown payment channel.
	resp := post(map[string]string{
		"customer_name":   "Karim",
		"customer_phone":  "01811111111",
		"payment_method":  "PayPal",
		"transaction_ref": "TRX1",
	})
	assert.Equal(t, 400, resp.StatusCode)

	// Missing transaction reference.
	resp = post(map[string]string{
		"customer_name":  "Karim",
		"customer_phone": "01811111111",
		"payment_method": "Nagad",
	})
	assert.Equal(t, 400, resp.StatusCode)

	// Valid submission against an empty cart.
	resp = post(map[string]string{
		"customer_name":   "Karim",
		"customer_phone":  "01811111111",
		"payment_method":  "Nagad",
		"transaction_ref": "TRX1",
	})
	assert.Equal(t, 422, resp.StatusCode)
}
