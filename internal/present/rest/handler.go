package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/fanlane/backstage"
	"github.com/fanlane/backstage/internal/domain"
	"github.com/fanlane/backstage/internal/present/rest/middleware"
	"github.com/fanlane/backstage/internal/present/rest/presenter"
	"github.com/fanlane/backstage/internal/service"
	"github.com/fanlane/backstage/internal/usecase"
)

type Handler struct {
	config      domain.Config
	resolver    *usecase.ContextResolver
	entitlement *usecase.EntitlementEvaluator
	engagement  *usecase.EngagementScorer
	ledger      *usecase.LedgerUsecase
	signal      *service.SignalService
}

func NewHandler(
	config domain.Config,
	resolver *usecase.ContextResolver,
	entitlement *usecase.EntitlementEvaluator,
	engagement *usecase.EngagementScorer,
	ledger *usecase.LedgerUsecase,
	signal *service.SignalService,
) *Handler {
	return &Handler{
		config:      config,
		resolver:    resolver,
		entitlement: entitlement,
		engagement:  engagement,
		ledger:      ledger,
		signal:      signal,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/context/resolve", h.handleContextResolve)
	e.POST("/api/v1/context/reinitialize", h.handleContextReinitialize)
	e.GET("/api/v1/context", h.handleContextCurrent)
	e.POST("/api/v1/context/section", h.handleSectionChange)
	e.POST("/api/v1/entitlement/evaluate", h.handleEvaluate)
	e.POST("/api/v1/entitlement/purchase", h.handlePurchase)
	e.GET("/api/v1/engagement/tier", h.handleTier)
	e.POST("/api/v1/tips", h.handleTip)
	e.GET("/api/v1/ledger/stats", h.handleLedgerStats)
	e.GET("/realtime", h.handleRealtime)
}

func (h *Handler) resolveInput(c echo.Context, handoff *backstage.HandoffPayload) usecase.ResolveInput {
	return usecase.ResolveInput{
		SessionID: middleware.SessionID(c),
		Handoff:   handoff,
		Query:     c.QueryParams(),
		Referrer:  c.Request().Referer(),
		Path:      c.Request().URL.Path,
	}
}

func (h *Handler) handleContextResolve(c echo.Context) error {
	ctx := c.Request().Context()

	var handoff backstage.HandoffPayload
	if err := c.Bind(&handoff); err != nil {
		return presenter.BadRequest(c, err)
	}

	resolved := h.resolver.Resolve(ctx, h.resolveInput(c, &handoff))
	return presenter.OK(c, resolved)
}

func (h *Handler) handleContextReinitialize(c echo.Context) error {
	ctx := c.Request().Context()

	var handoff backstage.HandoffPayload
	if err := c.Bind(&handoff); err != nil {
		return presenter.BadRequest(c, err)
	}

	resolved := h.resolver.Reinitialize(ctx, h.resolveInput(c, &handoff))
	return presenter.OK(c, resolved)
}

func (h *Handler) handleContextCurrent(c echo.Context) error {
	ctx := c.Request().Context()

	sessionID := middleware.SessionID(c)
	if sessionID == "" {
		return presenter.BadRequestMessage(c, "session id required")
	}

	current, err := h.resolver.Current(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return presenter.NotFound(c, "no context resolved for this session")
		}
		return presenter.Unavailable(c, err)
	}
	return presenter.OK(c, current)
}

type sectionChangeRequest struct {
	Section string `json:"section"`
}

func (h *Handler) handleSectionChange(c echo.Context) error {
	ctx := c.Request().Context()

	sessionID := middleware.SessionID(c)
	if sessionID == "" {
		return presenter.BadRequestMessage(c, "session id required")
	}

	var request sectionChangeRequest
	if err := c.Bind(&request); err != nil {
		return presenter.BadRequest(c, err)
	}
	if request.Section == "" {
		return presenter.BadRequestMessage(c, "section required")
	}

	updated, err := h.resolver.ChangeView(ctx, sessionID, request.Section)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return presenter.NotFound(c, "no context resolved for this session")
		}
		return presenter.Unavailable(c, err)
	}
	return presenter.OK(c, updated)
}

type evaluateRequest struct {
	ActorID   string `json:"actorId"`
	ContentID string `json:"contentId"`
	ArtistID  string `json:"artistId"`
}

// actorID prefers the explicit request field and falls back to the
// authenticated actor injected by the identity middleware.
func actorID(c echo.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if v, ok := c.Request().Context().Value(domain.ActorIDCtxKey).(string); ok {
		return v
	}
	return ""
}

func (h *Handler) handleEvaluate(c echo.Context) error {
	ctx := c.Request().Context()

	var request evaluateRequest
	if err := c.Bind(&request); err != nil {
		return presenter.BadRequest(c, err)
	}

	actor := actorID(c, request.ActorID)
	if actor == "" || request.ContentID == "" {
		return presenter.BadRequestMessage(c, "actorId and contentId required")
	}

	decision, err := h.entitlement.Evaluate(ctx, actor, request.ContentID, request.ArtistID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return presenter.NotFound(c, "content not found")
		}
		return presenter.Unavailable(c, err)
	}
	return presenter.OK(c, decision)
}

type purchaseRequest struct {
	ActorID   string `json:"actorId"`
	ContentID string `json:"contentId"`
	ArtistID  string `json:"artistId"`
	Method    string `json:"paymentMethod"`
	Nonce     string `json:"nonce"`
}

func (h *Handler) handlePurchase(c echo.Context) error {
	ctx := c.Request().Context()

	var request purchaseRequest
	if err := c.Bind(&request); err != nil {
		return presenter.BadRequest(c, err)
	}

	actor := actorID(c, request.ActorID)
	if actor == "" || request.ContentID == "" || request.Method == "" {
		return presenter.BadRequestMessage(c, "actorId, contentId and paymentMethod required")
	}

	grant, err := h.entitlement.Purchase(ctx, usecase.PurchaseInput{
		ActorID:   actor,
		ContentID: request.ContentID,
		ArtistID:  request.ArtistID,
		Method:    request.Method,
		Nonce:     request.Nonce,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPayment):
			return presenter.PaymentRequired(c, err)
		case errors.Is(err, domain.ErrNotFound):
			return presenter.NotFound(c, "content not found")
		case errors.Is(err, domain.ErrUnavailable):
			return presenter.Unavailable(c, err)
		default:
			return presenter.BadRequest(c, err)
		}
	}
	return presenter.OK(c, grant)
}

func (h *Handler) handleTier(c echo.Context) error {
	ctx := c.Request().Context()

	actor := actorID(c, c.QueryParam("actorId"))
	artist := c.QueryParam("artistId")
	if actor == "" || artist == "" {
		return presenter.BadRequestMessage(c, "actorId and artistId required")
	}

	result, err := h.engagement.Tier(ctx, actor, artist)
	if err != nil {
		return presenter.Unavailable(c, err)
	}
	return presenter.OK(c, result)
}

type tipRequest struct {
	FanID    string  `json:"fanId"`
	ArtistID string  `json:"artistId"`
	Amount   float64 `json:"amount"`
}

func (h *Handler) handleTip(c echo.Context) error {
	ctx := c.Request().Context()

	var request tipRequest
	if err := c.Bind(&request); err != nil {
		return presenter.BadRequest(c, err)
	}

	fan := actorID(c, request.FanID)
	if fan == "" || request.ArtistID == "" {
		return presenter.BadRequestMessage(c, "fanId and artistId required")
	}

	err := h.engagement.RecordTip(ctx, domain.Tip{
		FanID:    fan,
		ArtistID: request.ArtistID,
		Amount:   request.Amount,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUnavailable) {
			return presenter.Unavailable(c, err)
		}
		return presenter.BadRequest(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleLedgerStats(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.ledger.Stats(ctx, domain.LedgerScope{
		ContentID: c.QueryParam("contentId"),
		ArtistID:  c.QueryParam("artistId"),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUnavailable) {
			return presenter.Unavailable(c, err)
		}
		return presenter.BadRequest(c, err)
	}
	return presenter.OK(c, stats)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type realtimeRequest struct {
	Type     string   `json:"type"`
	Channels []string `json:"channels"`
}

func (h *Handler) handleRealtime(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer func() {
		ws.Close()
	}()

	ctx := c.Request().Context()

	input := make(chan []string)
	defer close(input)
	output := make(chan backstage.Event)

	go h.signal.Realtime(ctx, input, output)

	quit := make(chan struct{})

	go func() {
		for {
			var req realtimeRequest
			err := ws.ReadJSON(&req)
			if err != nil {
				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						slog.DebugContext(
							ctx, "WebSocket closed",
							slog.String("error", wsErr.Error()),
							slog.String("module", "socket"),
						)
					}
				} else {
					slog.ErrorContext(
						ctx, "Error reading message",
						slog.String("error", err.Error()),
						slog.String("module", "socket"),
					)
				}

				quit <- struct{}{}
				break
			}

			switch req.Type {
			case "listen":
				input <- req.Channels
			case "h": // heartbeat
				// do nothing
			default:
				slog.InfoContext(
					ctx, "Unknown request type",
					slog.String("type", req.Type),
					slog.String("module", "socket"),
				)
			}
		}
	}()

	for {
		select {
		case <-quit:
			return nil
		case event := <-output:
			if err := ws.WriteJSON(event); err != nil {
				slog.ErrorContext(
					ctx, "Error writing message",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				return nil
			}
		}
	}
}
