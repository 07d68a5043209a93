package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sportshub/sports-community/handlers"
	"github.com/sportshub/sports-community/middleware"
)

func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	teamHandler *handlers.TeamHandler,
	inviteHandler *handlers.InviteHandler,
	newsHandler *handlers.NewsHandler,
	mediaHandler *handlers.MediaHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate([]byte(jwtSecret))

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)
	router.Post("/auth/wechat", authHandler.WechatSignIn)

	router.Route("/teams", func(r chi.Router) {
		// Публичные маршруты просмотра команд
		r.Get("/", teamHandler.ListTeams)
		r.Get("/{teamID}", teamHandler.GetTeamByID)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/", teamHandler.CreateTeam)
			r.Post("/{teamID}/invitations", inviteHandler.CreateInvitation)
			r.Get("/{teamID}/invitations", inviteHandler.ListTeamInvitations)
			r.Post("/{teamID}/invitations/respond", inviteHandler.RespondToInvitation)
		})
	})

	router.Route("/news", func(r chi.Router) {
		r.Get("/", newsHandler.ListNews)
		r.Get("/{newsID}", newsHandler.GetNewsByID)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/", newsHandler.CreateNews)
			r.Post("/{newsID}/like", newsHandler.ToggleLike)
			r.Post("/{newsID}/comments", newsHandler.AddComment)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(authenticate)

		r.Get("/invitations", inviteHandler.ListMyInvitations)
		r.Post("/invitations/{invitationID}/respond", inviteHandler.RespondToInvitationByID)
		r.Post("/media", mediaHandler.Upload)
		r.Get("/media", mediaHandler.ListMine)
	})
}
