package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"equipment-rental/internal/dto"
	"equipment-rental/internal/entities"
	"equipment-rental/internal/services"
	apperrors "equipment-rental/pkg/errors"
	"equipment-rental/pkg/service"
	"equipment-rental/pkg/types"
	"equipment-rental/pkg/validation"
)

type stubEquipmentService struct {
	services.EquipmentServiceInterface
	items map[uuid.UUID]entities.Equipment
}

func (s *stubEquipmentService) GetEquipments(_ context.Context, _ types.Filter) ([]entities.Equipment, uint64, error) {
	list := make([]entities.Equipment, 0, len(s.items))
	for _, eq := range s.items {
		list = append(list, eq)
	}
	return list, uint64(len(list)), nil
}

func (s *stubEquipmentService) FindEquipment(_ context.Context, id uuid.UUID) (*entities.Equipment, error) {
	eq, ok := s.items[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("equipment", id)
	}
	return &eq, nil
}

func (s *stubEquipmentService) CreateEquipment(_ context.Context, payload dto.CreateEquipmentDTO) (*entities.Equipment, error) {
	eq := entities.Equipment{
		ID:                uuid.New(),
		Name:              payload.Name,
		Reference:         "EQ-SON-001",
		Category:          payload.Category,
		QuantityTotal:     payload.QuantityTotal,
		QuantityAvailable: payload.QuantityTotal,
	}
	s.items[eq.ID] = eq
	return &eq, nil
}

type stubReservationService struct {
	services.ReservationServiceInterface
	err error
}

func (s *stubReservationService) Reserve(_ context.Context, eventID uuid.UUID, payload dto.CreateReservationDTO) (*entities.EventEquipment, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &entities.EventEquipment{
		ID:               uuid.New(),
		EventID:          eventID,
		EquipmentID:      payload.EquipmentID,
		QuantityReserved: payload.Quantity,
		Status:           entities.ReservationReserve,
	}, nil
}

type envelope struct {
	Status  bool                `json:"status"`
	Message string              `json:"message"`
	Body    jsoniter.RawMessage `json:"body"`
}

type RouterTestSuite struct {
	suite.Suite
	echo         *echo.Echo
	jwt          service.JWTService
	equipment    *stubEquipmentService
	reservations *stubReservationService
}

func (s *RouterTestSuite) SetupTest() {
	logger := zap.NewNop()
	s.jwt = service.NewJWTService("test-secret", time.Hour, logger)
	s.equipment = &stubEquipmentService{items: map[uuid.UUID]entities.Equipment{}}
	s.reservations = &stubReservationService{}

	s.echo = echo.New()
	s.echo.Validator = validation.New()
	InitRouter(s.echo, Services{
		Equipment:    s.equipment,
		Reservations: s.reservations,
	}, s.jwt, nil, logger)
}

func (s *RouterTestSuite) token(role string) string {
	token, err := s.jwt.GenerateAccessToken(uuid.New(), role)
	s.Require().NoError(err)
	return token
}

func (s *RouterTestSuite) do(method, path, role, body string) (*httptest.ResponseRecorder, envelope) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if role != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.token(role))
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	var env envelope
	s.Require().NoError(jsoniter.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func (s *RouterTestSuite) TestRequiresToken() {
	rec, env := s.do(http.MethodGet, "/api/equipment", "", "")
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.False(env.Status)
}

func (s *RouterTestSuite) TestCreateEquipmentNeedsPermission() {
	body := `{"name":"Mixer","category":"SON","quantity_total":4,"daily_rental_price":30}`

	rec, _ := s.do(http.MethodPost, "/api/equipment", entities.RoleCommercial, body)
	s.Equal(http.StatusForbidden, rec.Code)
	s.Empty(s.equipment.items)

	rec, env := s.do(http.MethodPost, "/api/equipment", entities.RoleMaintenance, body)
	s.Equal(http.StatusCreated, rec.Code)
	s.True(env.Status)

	var eq entities.Equipment
	s.Require().NoError(jsoniter.Unmarshal(env.Body, &eq))
	s.Equal("EQ-SON-001", eq.Reference)
	s.Equal(4, eq.QuantityAvailable)
}

func (s *RouterTestSuite) TestCreateEquipmentValidation() {
	rec, env := s.do(http.MethodPost, "/api/equipment", entities.RoleAdmin, `{"category":"SON","quantity_total":-1}`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(env.Message, "field 'name' failed on 'required'")
	s.Contains(env.Message, "field 'quantity_total' failed on 'gte'")
	s.NotContains(env.Message, "QuantityTotal")
}

func (s *RouterTestSuite) TestListEquipmentIsPaginated() {
	s.equipment.items[uuid.New()] = entities.Equipment{Name: "Mixer"}

	rec, env := s.do(http.MethodGet, "/api/equipment?limit=10", entities.RoleCommercial, "")
	s.Equal(http.StatusOK, rec.Code)

	var body struct {
		List       []entities.Equipment `json:"list"`
		Pagination types.Pagination     `json:"pagination"`
	}
	s.Require().NoError(jsoniter.Unmarshal(env.Body, &body))
	s.Len(body.List, 1)
	s.Equal(uint64(1), body.Pagination.TotalCount)
	s.Equal(10, body.Pagination.Limit)
}

func (s *RouterTestSuite) TestFindEquipmentErrors() {
	rec, _ := s.do(http.MethodGet, "/api/equipment/not-a-uuid", entities.RoleAdmin, "")
	s.Equal(http.StatusBadRequest, rec.Code)

	rec, env := s.do(http.MethodGet, "/api/equipment/"+uuid.NewString(), entities.RoleAdmin, "")
	s.Equal(http.StatusNotFound, rec.Code)
	s.Contains(env.Message, "not found")
}

func (s *RouterTestSuite) TestReserveMapsLedgerErrors() {
	path := "/api/events/" + uuid.NewString() + "/equipment"
	body := `{"equipment_id":"` + uuid.NewString() + `","quantity":5}`

	rec, env := s.do(http.MethodPost, path, entities.RoleCommercial, body)
	s.Equal(http.StatusCreated, rec.Code)
	s.True(env.Status)

	s.reservations.err = apperrors.NewValidationError("insufficient stock for EQ-SON-001: requested 5, available 3")
	rec, env = s.do(http.MethodPost, path, entities.RoleCommercial, body)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("insufficient stock for EQ-SON-001: requested 5, available 3", env.Message)

	s.reservations.err = apperrors.NewConflictError("equipment is already reserved for this event")
	rec, _ = s.do(http.MethodPost, path, entities.RoleCommercial, body)
	s.Equal(http.StatusConflict, rec.Code)

	rec, _ = s.do(http.MethodPost, path, entities.RoleCommercial, `{"equipment_id":"`+uuid.NewString()+`","quantity":0}`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}
