package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/MohamadAmiin/diet-app-just-project/internal/config"
	"github.com/MohamadAmiin/diet-app-just-project/internal/db"
	"github.com/MohamadAmiin/diet-app-just-project/internal/handler"
	"github.com/MohamadAmiin/diet-app-just-project/internal/router"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type e2eSuite struct {
	handler    http.Handler
	userToken  string
	adminToken string
	foodID     uint
}

func newE2ESuite(t *testing.T) *e2eSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if err := gdb.AutoMigrate(
		&db.User{},
		&db.Profile{},
		&db.Food{},
		&db.MealLog{},
		&db.DailyTotal{},
		&db.DietPlan{},
		&db.PlanItem{},
		&db.WeightEntry{},
	); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	db.DB = gdb

	if err := db.EnsureAdmin("admin@diet.com", "admin123"); err != nil {
		t.Fatalf("failed to create admin: %v", err)
	}

	uploadDir := t.TempDir()
	cfg := config.AppConfig{UploadDir: uploadDir, UploadURLPath: "/static/uploads"}
	api := handler.NewAPI(gdb, "e2e-secret", time.Hour, cfg.UploadDir, cfg.UploadURLPath)

	return &e2eSuite{handler: router.Setup(api, &cfg)}
}

// doJSON 发送 JSON 请求并解析统一信封
func (s *e2eSuite) doJSON(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)

	var envelope map[string]interface{}
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
		}
	}
	return w.Code, envelope
}

func dataField(t *testing.T, envelope map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := envelope["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected data object, got %v", envelope)
	}
	return data
}

func TestE2E_DietAPI(t *testing.T) {
	suite := newE2ESuite(t)

	t.Run("ping", suite.testPing)
	t.Run("auth flow", suite.testAuthFlow)
	t.Run("food catalog", suite.testFoodCatalog)
	t.Run("profile and calories", suite.testProfileAndCalories)
	t.Run("meal logs and totals", suite.testMealLogsAndTotals)
	t.Run("diet plans", suite.testDietPlans)
	t.Run("weight and progress", suite.testWeightAndProgress)
	t.Run("image upload", suite.testImageUpload)
}

func (s *e2eSuite) testPing(t *testing.T) {
	status, envelope := s.doJSON(t, http.MethodGet, "/ping", "", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if envelope["message"] != "pong" {
		t.Fatalf("unexpected ping response: %v", envelope)
	}
}

func (s *e2eSuite) testAuthFlow(t *testing.T) {
	// 未认证访问被拒
	status, _ := s.doJSON(t, http.MethodGet, "/api/auth/me", "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}

	// 注册新用户
	status, envelope := s.doJSON(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "user@diet.com",
		"password": "user123",
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %v", status, envelope)
	}
	data := dataField(t, envelope)
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatal("expected token in register response")
	}
	s.userToken = token

	// 重复注册被拒
	status, _ = s.doJSON(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "user@diet.com",
		"password": "user123",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d", status)
	}

	// 管理员登录
	status, envelope = s.doJSON(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "admin@diet.com",
		"password": "admin123",
	})
	if status != http.StatusOK {
		t.Fatalf("expected 200 for admin login, got %d: %v", status, envelope)
	}
	s.adminToken, _ = dataField(t, envelope)["token"].(string)
	if s.adminToken == "" {
		t.Fatal("expected admin token")
	}

	// 当前用户
	status, envelope = s.doJSON(t, http.MethodGet, "/api/auth/me", s.userToken, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if dataField(t, envelope)["email"] != "user@diet.com" {
		t.Fatalf("unexpected me response: %v", envelope)
	}

	// 用户列表仅管理员可见
	status, _ = s.doJSON(t, http.MethodGet, "/api/auth/users", s.userToken, nil)
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", status)
	}
	status, _ = s.doJSON(t, http.MethodGet, "/api/auth/users", s.adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", status)
	}
}

func (s *e2eSuite) testFoodCatalog(t *testing.T) {
	// 普通用户不能建食物
	status, _ := s.doJSON(t, http.MethodPost, "/api/foods", s.userToken, gin.H{
		"name": "违规", "calories": 1, "protein": 1, "carbs": 1, "fats": 1,
	})
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin food create, got %d", status)
	}

	// 管理员建食物
	status, envelope := s.doJSON(t, http.MethodPost, "/api/foods", s.adminToken, gin.H{
		"name":     "测试食物",
		"calories": 100, "protein": 10, "carbs": 10, "fats": 5,
		"category": "protein",
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %v", status, envelope)
	}
	s.foodID = uint(dataField(t, envelope)["ID"].(float64))

	// 用户可以查
	status, envelope = s.doJSON(t, http.MethodGet, "/api/foods?category=protein", s.userToken, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if envelope["count"].(float64) != 1 {
		t.Fatalf("expected 1 food, got %v", envelope["count"])
	}
}

func (s *e2eSuite) testProfileAndCalories(t *testing.T) {
	// 档案不完整时估算被拒
	status, _ := s.doJSON(t, http.MethodGet, "/api/plans/calculate-calories", s.userToken, nil)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for incomplete profile, got %d", status)
	}

	status, envelope := s.doJSON(t, http.MethodPut, "/api/auth/profile", s.userToken, gin.H{
		"age": 30, "height": 175, "weight": 70, "goal": "maintain_weight",
	})
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", status, envelope)
	}

	status, envelope = s.doJSON(t, http.MethodGet, "/api/plans/calculate-calories?gender=male", s.userToken, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", status, envelope)
	}
	data := dataField(t, envelope)
	if data["dailyCalories"].(float64) != 2628 {
		t.Fatalf("expected 2628 kcal, got %v", data["dailyCalories"])
	}
}

func (s *e2eSuite) testMealLogsAndTotals(t *testing.T) {
	// 记录两餐
	status, envelope := s.doJSON(t, http.MethodPost, "/api/logs", s.userToken, gin.H{
		"foodId": s.foodID, "quantity": 1, "mealType": "breakfast",
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %v", status, envelope)
	}
	status, envelope = s.doJSON(t, http.MethodPost, "/api/logs", s.userToken, gin.H{
		"foodId": s.foodID, "quantity": 2, "mealType": "lunch",
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %v", status, envelope)
	}

	// 非法餐次被拒
	status, _ = s.doJSON(t, http.MethodPost, "/api/logs", s.userToken, gin.H{
		"foodId": s.foodID, "mealType": "brunch",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid meal type, got %d", status)
	}

	// 今日记录
	status, envelope = s.doJSON(t, http.MethodGet, "/api/logs/today", s.userToken, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if envelope["count"].(float64) != 2 {
		t.Fatalf("expected 2 logs today, got %v", envelope["count"])
	}

	// 今日总量 100 + 200
	status, envelope = s.doJSON(t, http.MethodGet, "/api/logs/totals/today", s.userToken, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	data := dataField(t, envelope)
	if data["totalCalories"].(float64) != 300 {
		t.Fatalf("expected 300 total calories, got %v", data["totalCalories"])
	}
	if data["mealsCount"].(float64) != 2 {
		t.Fatalf("expected 2 meals, got %v", data["mealsCount"])
	}

	// 周汇总
	status, envelope = s.doJSON(t, http.MethodGet, "/api/logs/totals/weekly", s.userToken, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	data = dataField(t, envelope)
	if data["daysLogged"].(float64) != 1 {
		t.Fatalf("expected 1 logged day, got %v", data["daysLogged"])
	}
}

func (s *e2eSuite) testDietPlans(t *testing.T) {
	status, envelope := s.doJSON(t, http.MethodPost, "/api/plans", s.userToken, gin.H{
		"name":        "减脂周计划",
		"description": "每天 **高蛋白** 饮食",
		"items": []gin.H{
			{"foodId": s.foodID, "quantity": 1, "mealType": "breakfast"},
			{"foodId": s.foodID, "quantity": 2, "mealType": "lunch"},
		},
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %v", status, envelope)
	}
	data := dataField(t, envelope)
	planID := uint(data["ID"].(float64))
	if data["totalCalories"].(float64) != 300 {
		t.Fatalf("expected plan total 300, got %v", data["totalCalories"])
	}
	if html, _ := data["descriptionHtml"].(string); html == "" {
		t.Fatal("expected rendered description html")
	}

	// 启用计划
	status, _ = s.doJSON(t, http.MethodPut, fmt.Sprintf("/api/plans/%d/activate", planID), s.userToken, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 for activate, got %d", status)
	}

	status, envelope = s.doJSON(t, http.MethodGet, "/api/plans/active", s.userToken, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if uint(dataField(t, envelope)["ID"].(float64)) != planID {
		t.Fatalf("unexpected active plan: %v", envelope)
	}

	// 其他用户看不到这个计划
	status, _ = s.doJSON(t, http.MethodGet, fmt.Sprintf("/api/plans/%d", planID), s.adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 for admin read, got %d", status)
	}
}

func (s *e2eSuite) testWeightAndProgress(t *testing.T) {
	status, envelope := s.doJSON(t, http.MethodPost, "/api/progress/weight", s.userToken, gin.H{
		"value": 70.5, "note": "晨起空腹",
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %v", status, envelope)
	}

	// 体重记录同步档案
	status, envelope = s.doJSON(t, http.MethodGet, "/api/auth/profile", s.userToken, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if dataField(t, envelope)["weight"].(float64) != 70.5 {
		t.Fatalf("expected profile weight 70.5, got %v", envelope)
	}

	status, envelope = s.doJSON(t, http.MethodGet, "/api/progress/weight-progress", s.userToken, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	data := dataField(t, envelope)
	if data["entriesCount"].(float64) != 1 {
		t.Fatalf("expected 1 entry, got %v", data["entriesCount"])
	}
	if data["trend"] != "stable" {
		t.Fatalf("expected stable trend, got %v", data["trend"])
	}

	status, envelope = s.doJSON(t, http.MethodGet, "/api/progress/summary", s.userToken, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	data = dataField(t, envelope)
	if data["weight"] == nil || data["nutrition"] == nil || data["goal"] == nil {
		t.Fatalf("expected full summary, got %v", data)
	}
}

func (s *e2eSuite) testImageUpload(t *testing.T) {
	// 构造一张小图
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var imgBuf bytes.Buffer
	if err := png.Encode(&imgBuf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="meal.png"`)
	header.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to create part: %v", err)
	}
	if _, err := part.Write(imgBuf.Bytes()); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/uploads/image", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.userToken)

	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var envelope map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode upload response: %v", err)
	}
	data := dataField(t, envelope)
	url, _ := data["url"].(string)
	if url == "" {
		t.Fatalf("expected upload url, got %v", data)
	}
}
