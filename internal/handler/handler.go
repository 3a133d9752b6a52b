package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/worklog/backend/internal/analytics"
	"github.com/sysu-ecnc-dev/worklog/backend/internal/config"
	"github.com/sysu-ecnc-dev/worklog/backend/internal/observability"
	"github.com/sysu-ecnc-dev/worklog/backend/internal/repository"
	"github.com/sysu-ecnc-dev/worklog/backend/internal/utils"
)

// Publisher 由 *amqp.Channel 实现
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	analytics   *analytics.Service
	translator  ut.Translator
	mailChannel Publisher
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, svc *analytics.Service, mailCh Publisher, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	if err := validate.RegisterValidation("slug", utils.ValidateSlug); err != nil {
		return nil, err
	}
	if err := validate.RegisterTranslation("slug", trans, func(ut ut.Translator) error {
		return ut.Add("slug", "{0}只能包含字母、数字、下划线和连字符", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("slug", fe.Field())
		return t
	}); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		analytics:   svc,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Handle("/metrics", observability.Handler())

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/workers", func(r chi.Router) {
			r.Get("/", h.GetAllWorkers)
			r.Post("/", h.CreateWorker)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.worker)
				r.Get("/", h.GetWorker)
				r.Patch("/", h.UpdateWorker)
				r.Delete("/", h.DeleteWorker)
			})
		})

		r.Route("/work-types", func(r chi.Router) {
			r.Get("/", h.GetAllWorkTypes)
			r.Post("/", h.CreateWorkType)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.workType)
				r.Get("/", h.GetWorkType)
				r.Patch("/", h.UpdateWorkType)
				r.Delete("/", h.DeleteWorkType)
			})
		})

		r.Route("/work-entries", func(r chi.Router) {
			r.Get("/", h.GetAllWorkEntries)
			r.Post("/", h.CreateWorkEntry)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.workEntry)
				r.Get("/", h.GetWorkEntry)
				r.Patch("/", h.UpdateWorkEntry)
				r.Delete("/", h.DeleteWorkEntry)
			})
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/", h.GetAnalytics)
			r.Post("/email", h.EmailAnalytics)
		})
	})
}
