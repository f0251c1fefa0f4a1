package http_movie

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	http_common "github.com/cinematch/core/internal/delivery/http/common"
	http_auth_middleware "github.com/cinematch/core/internal/delivery/http/middleware/auth"
	"github.com/cinematch/core/internal/model"
	usecase_movie "github.com/cinematch/core/internal/usecase/movie"
)

type MovieResponseDTO struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	PosterPath string `json:"poster_path"`
	Overview   string `json:"overview"`
}

type MoviesPageResponseDTO struct {
	Page   int                `json:"page"`
	Movies []MovieResponseDTO `json:"movies"`
}

func convertFromMovies(page int, movies []model.Movie) MoviesPageResponseDTO {
	dtos := make([]MovieResponseDTO, len(movies))
	for i, m := range movies {
		dtos[i] = MovieResponseDTO{
			ID:         m.ID,
			Title:      m.Title,
			PosterPath: m.PosterPath,
			Overview:   m.Overview,
		}
	}
	return MoviesPageResponseDTO{
		Page:   page,
		Movies: dtos,
	}
}

type Controller struct {
	uc   *usecase_movie.Usecase
	auth *http_auth_middleware.Middleware

	logger *slog.Logger
}

func New(
	uc *usecase_movie.Usecase,
	auth *http_auth_middleware.Middleware,
) *Controller {
	return &Controller{
		uc:     uc,
		auth:   auth,
		logger: slog.Default(),
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	movies := router.Group("/movies", c.auth.AuthRequired())
	movies.GET("/popular", c.popular)
}

// Popular возвращает страницу популярных фильмов
// @Summary Популярные фильмы
// @Description Страницы каталога нумеруются с единицы, клиент накапливает их сам
// @Tags Movies
// @Produce json
// @Param page query int false "Номер страницы" default(1)
// @Success 200 {object} MoviesPageResponseDTO
// @Failure 400 {object} http_common.ErrorResponse "Неверный номер страницы"
// @Failure 502 {object} http_common.ErrorResponse "Каталог недоступен"
// @Security UserToken
// @Router /movies/popular [get]
func (c *Controller) popular(ctx *gin.Context) {
	page := 1
	if raw := ctx.Query("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
				Message: "invalid page",
			})
			return
		}
		page = parsed
	}

	movies, err := c.uc.Popular(ctx, page)
	if err != nil {
		switch {
		case errors.Is(err, usecase_movie.ErrInvalidInput):
			ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
				Message: "invalid page",
			})
		case errors.Is(err, usecase_movie.ErrCatalogFailed):
			c.logger.Error("catalog unavailable", slog.String("error", err.Error()))
			ctx.JSON(http.StatusBadGateway, http_common.ErrorResponse{
				Message: "catalog unavailable",
			})
		default:
			c.logger.Error("failed to load movies", slog.String("error", err.Error()))
			ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
				Message: "internal error",
			})
		}
		return
	}

	ctx.JSON(http.StatusOK, convertFromMovies(page, movies))
}
