package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	router "github.com/goliatone/go-router"

	leads "github.com/goliatone/go-leads/components/leads"
	"github.com/goliatone/go-leads/components/leads/commands"
	"github.com/goliatone/go-leads/components/leads/httpapi"
)

// ViewerResolver converts a router.Context into a leads.ViewerContext.
type ViewerResolver func(router.Context) leads.ViewerContext

// Config wires go-router with the leads controller, API, and refresh hook.
type Config[T any] struct {
	Router         router.Router[T]
	Controller     *leads.Controller
	Service        *leads.Service
	API            httpapi.Executor
	Broadcast      *leads.BroadcastHook
	ViewerResolver ViewerResolver
	BasePath       string
	Routes         RouteConfig
}

// RouteConfig customizes the relative paths used for dashboard endpoints.
type RouteConfig struct {
	HTML      string
	Payload   string
	View      string
	Export    string
	Status    string
	Tags      string
	Filters   string
	Presets   string
	PresetID  string
	Refresh   string
	Login     string
	Logout    string
	WebSocket string
}

// Register mounts dashboard routes (HTML, JSON, REST, WebSocket) on a
// go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/leads"
	}
	viewerResolver := cfg.ViewerResolver
	if viewerResolver == nil {
		viewerResolver = defaultViewerResolver
	}

	group := cfg.Router.Group(base)

	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		viewer := viewerResolver(ctx)
		var buf bytes.Buffer
		if err := cfg.Controller.RenderTemplate(ctx.Context(), viewer, &buf); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	group.Get(routes.Payload, router.WrapHandler(func(ctx router.Context) error {
		viewer := viewerResolver(ctx)
		payload, err := cfg.Controller.Payload(ctx.Context(), viewer)
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, payload)
	}))

	if cfg.Service != nil {
		registerService(group, cfg.Service, routes)
	}

	if cfg.API != nil {
		registerAPI(group, cfg.API, viewerResolver, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

func registerService[T any](r router.Router[T], service *leads.Service, routes RouteConfig) {
	r.Get(routes.View, router.WrapHandler(func(ctx router.Context) error {
		view, err := service.View(ctx.Context())
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, view)
	}))

	r.Get(routes.Export, router.WrapHandler(func(ctx router.Context) error {
		result, err := service.Export(ctx.Context(), ctx.Query("from"), ctx.Query("to"))
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, leads.ErrExportRangeRequired) || errors.Is(err, leads.ErrExportRangeInvalid) {
				status = http.StatusBadRequest
			}
			return respondError(ctx, status, err)
		}
		ctx.SetHeader("Content-Type", "text/csv; charset=utf-8")
		ctx.SetHeader("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
		return ctx.Send(result.Content)
	}))

	r.Get(routes.Presets, router.WrapHandler(func(ctx router.Context) error {
		return ctx.JSON(http.StatusOK, map[string]any{
			"presets": service.Filters().Presets(),
		})
	}))

	r.Post(routes.Login, router.WrapHandler(func(ctx router.Context) error {
		var payload struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		session, err := service.Login(ctx.Context(), payload.Email, payload.Password)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, leads.ErrPasswordTooShort) || errors.Is(err, leads.ErrInvalidCredentials) {
				status = http.StatusUnauthorized
			}
			return respondError(ctx, status, err)
		}
		return ctx.JSON(http.StatusOK, session)
	}))

	r.Post(routes.Logout, router.WrapHandler(func(ctx router.Context) error {
		if err := service.Logout(ctx.Context()); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "signed_out"})
	}))
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, resolver ViewerResolver, routes RouteConfig) {
	r.Post(routes.Status, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.UpdateStatusInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.UpdateStatus(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "updated"})
	}))

	r.Post(routes.Tags, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.UpdateTagsInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.UpdateTags(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "updated"})
	}))

	r.Post(routes.Filters, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.ApplyFiltersInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.Viewer = resolver(ctx)
		if err := api.ApplyFilters(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "applied"})
	}))

	r.Post(routes.Presets, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SavePresetInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.Viewer = resolver(ctx)
		if err := api.SavePreset(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusCreated, map[string]string{"status": "saved"})
	}))

	r.Post(routes.PresetID, router.WrapHandler(func(ctx router.Context) error {
		name := ctx.Param("name")
		if name == "" {
			return respondError(ctx, http.StatusBadRequest, errors.New("preset name is required"))
		}
		payload := commands.LoadPresetInput{Name: name, Viewer: resolver(ctx)}
		if err := api.LoadPreset(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "loaded"})
	}))

	r.Post(routes.Refresh, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.RefreshDatasetInput
		if body := ctx.Body(); len(body) > 0 {
			if err := json.Unmarshal(body, &payload); err != nil {
				return respondError(ctx, http.StatusBadRequest, err)
			}
		}
		if err := api.Refresh(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *leads.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func defaultViewerResolver(ctx router.Context) leads.ViewerContext {
	var viewer leads.ViewerContext
	if v, ok := ctx.Locals("user_id").(string); ok {
		viewer.UserID = v
	}
	if roles, ok := ctx.Locals("roles").([]string); ok {
		viewer.Roles = roles
	}
	viewer.Locale = inferLocale(ctx)
	return viewer
}

func inferLocale(ctx router.Context) string {
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
		return strings.ToLower(locale)
	}
	if header := ctx.Header("Accept-Language"); header != "" {
		if lang := parseAcceptLanguage(header); lang != "" {
			return lang
		}
	}
	return ""
}

func parseAcceptLanguage(header string) string {
	for _, token := range strings.Split(header, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if idx := strings.Index(token, ";"); idx >= 0 {
			token = token[:idx]
		}
		if token != "" {
			return strings.ToLower(token)
		}
	}
	return ""
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/dashboard"
	}
	if routes.Payload == "" {
		routes.Payload = "/dashboard/_payload"
	}
	if routes.View == "" {
		routes.View = "/dashboard/view"
	}
	if routes.Export == "" {
		routes.Export = "/dashboard/export"
	}
	if routes.Status == "" {
		routes.Status = "/dashboard/leads/status"
	}
	if routes.Tags == "" {
		routes.Tags = "/dashboard/leads/tags"
	}
	if routes.Filters == "" {
		routes.Filters = "/dashboard/filters"
	}
	if routes.Presets == "" {
		routes.Presets = "/dashboard/presets"
	}
	if routes.PresetID == "" {
		routes.PresetID = "/dashboard/presets/:name"
	}
	if routes.Refresh == "" {
		routes.Refresh = "/dashboard/refresh"
	}
	if routes.Login == "" {
		routes.Login = "/login"
	}
	if routes.Logout == "" {
		routes.Logout = "/logout"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/dashboard/ws"
	}
	return routes
}
