package http_room

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	http_auth_middleware "github.com/cinematch/core/internal/delivery/http/middleware/auth"
	ws_room "github.com/cinematch/core/internal/delivery/ws/room"
	"github.com/cinematch/core/internal/model"
	usecase_room "github.com/cinematch/core/internal/usecase/room"
	repo_mocks "github.com/cinematch/core/internal/usecase/room/mocks/repository"
)

type HTTPRoomUnitSuite struct {
	suite.Suite
}

const (
	testCode   = "AB12CD"
	testUserID = "user-1"
)

type stubIdentity struct{}

func (stubIdentity) Resolve(_ string) (string, error) {
	return testUserID, nil
}

func newTestRouter(t provider.T) (*gin.Engine, *repo_mocks.RoomRepository) {
	gin.SetMode(gin.TestMode)

	roomRepo := repo_mocks.NewRoomRepository(t)
	usecase := usecase_room.New(roomRepo, nil, nil, 0)
	auth := http_auth_middleware.New(stubIdentity{})
	controller := New(usecase, ws_room.NewHub(), auth)

	router := gin.New()
	controller.RegisterRoutes(router.Group("/api/v1"))
	return router, roomRepo
}

func (suite *HTTPRoomUnitSuite) TestMatches(t provider.T) {
	t.Parallel()

	t.Run("Should return the matched ids", func(t provider.T) {
		router, roomRepo := newTestRouter(t)
		roomRepo.On("ByCode", mock.Anything, testCode).
			Return(model.Room{
				Code:            testCode,
				CreatorID:       testUserID,
				Status:          model.StatusActive,
				MatchedMovieIDs: []int64{42, 99},
			}, nil).Once()

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/api/v1/rooms/"+testCode+"/matches", nil)
		request.Header.Set("X-user-token", "token-1")
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"movie_ids": [42, 99]}`, recorder.Body.String())
	})

	t.Run("Should return an empty array, not null, when nothing matched", func(t provider.T) {
		router, roomRepo := newTestRouter(t)
		roomRepo.On("ByCode", mock.Anything, testCode).
			Return(model.Room{
				Code:      testCode,
				CreatorID: testUserID,
				Status:    model.StatusActive,
			}, nil).Once()

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/api/v1/rooms/"+testCode+"/matches", nil)
		request.Header.Set("X-user-token", "token-1")
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"movie_ids": []}`, recorder.Body.String())
	})

	t.Run("Should report a missing room", func(t provider.T) {
		router, roomRepo := newTestRouter(t)
		roomRepo.On("ByCode", mock.Anything, testCode).
			Return(model.Room{}, usecase_room.ErrResourceNotFound).Once()

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/api/v1/rooms/"+testCode+"/matches", nil)
		request.Header.Set("X-user-token", "token-1")
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestHTTPRoomUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(HTTPRoomUnitSuite))
}
