package app

import (
	"github.com/cinematch/core/internal/config"
	http_init "github.com/cinematch/core/internal/delivery/http/init"
	http_like "github.com/cinematch/core/internal/delivery/http/like"
	http_auth_middleware "github.com/cinematch/core/internal/delivery/http/middleware/auth"
	http_movie "github.com/cinematch/core/internal/delivery/http/movie"
	http_room "github.com/cinematch/core/internal/delivery/http/room"
	http_session "github.com/cinematch/core/internal/delivery/http/session"
	http_swagger "github.com/cinematch/core/internal/delivery/http/swagger"
	ws_room "github.com/cinematch/core/internal/delivery/ws/room"
	infra_pg_init "github.com/cinematch/core/internal/infra/postgres/init"
	infra_postgres_like "github.com/cinematch/core/internal/infra/postgres/like"
	infra_postgres_match "github.com/cinematch/core/internal/infra/postgres/match"
	infra_postgres_movie "github.com/cinematch/core/internal/infra/postgres/movie"
	infra_postgres_room "github.com/cinematch/core/internal/infra/postgres/room"
	infra_redis_init "github.com/cinematch/core/internal/infra/redis/init"
	infra_session_cache "github.com/cinematch/core/internal/infra/redis/session"
	infra_redis_watch "github.com/cinematch/core/internal/infra/redis/watch"
	infra_tmdb "github.com/cinematch/core/internal/infra/tmdb"
	service_identity "github.com/cinematch/core/internal/service/identity"
	usecase_like "github.com/cinematch/core/internal/usecase/like"
	usecase_match "github.com/cinematch/core/internal/usecase/match"
	usecase_movie "github.com/cinematch/core/internal/usecase/movie"
	usecase_room "github.com/cinematch/core/internal/usecase/room"
)

func Go(cfg *config.Config) {
	redisConn := infra_redis_init.MustEstablishConn(cfg.Redis)
	pgConn := infra_pg_init.MustEstablishConn(cfg.Postgres)

	roomRepo := infra_postgres_room.New(pgConn)
	likeRepo := infra_postgres_like.New(pgConn)
	matchRepo := infra_postgres_match.New(pgConn)
	movieCache := infra_postgres_movie.New(pgConn)

	// One driver serves both directions of the change stream: mutations
	// publish snapshots, watchers subscribe to them.
	watch := infra_redis_watch.New(redisConn, roomRepo)

	roomUC := usecase_room.New(roomRepo, watch, watch, 20 /* stale-room cleanup on every _ create */)
	likeUC := usecase_like.New(likeRepo, watch)

	sessionCache := infra_session_cache.New(redisConn, "session_cache")
	identity := service_identity.New(sessionCache, nil)
	authMiddleware := http_auth_middleware.New(identity)

	var detectors *usecase_match.Manager
	hub := ws_room.NewHub(ws_room.WithDetach(func(code string) {
		detectors.Stop(code)
	}))
	detector := usecase_match.New(matchRepo, watch, hub)
	detectors = usecase_match.NewManager(detector)
	go hub.Run()

	tmdbClient := infra_tmdb.New(cfg.Catalog.BaseURL, cfg.Catalog.APIKey)
	movieUC := usecase_movie.New(tmdbClient, movieCache)

	controllerPool := http_init.NewControllerPool()
	controllerPool.Add(http_swagger.New())
	controllerPool.Add(http_session.New(identity))
	controllerPool.Add(http_room.New(roomUC, hub, authMiddleware))
	controllerPool.Add(http_like.New(likeUC, authMiddleware))
	controllerPool.Add(http_movie.New(movieUC, authMiddleware))
	controllerPool.Add(ws_room.NewController(hub, roomUC, detectors, identity))

	controllerPool.Register()
	controllerPool.RunAll(cfg.HTTP.Port)
}
