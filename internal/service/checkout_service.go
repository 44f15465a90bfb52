package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/calculator"
	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/metrics"
	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/models"
	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/replication"
	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/storage"
)

const (
	formDateLayout = "2006-01-02"
	formTimeLayout = "15:04"

	msgSynced    = "Solicitação enviada com sucesso para a planilha!"
	msgLocalOnly = "Solicitação salva localmente. Verifique a conexão com a planilha."
)

// Replicator mirrors committed movements to the remote spreadsheet.
type Replicator interface {
	Enabled() bool
	Send(ctx context.Context, payload replication.Payload) (*replication.Result, error)
}

// CheckoutService implements the CheckoutService RPC interface used by the
// public form and the dashboard.
type CheckoutService struct {
	store      storage.Store
	replicator Replicator
	metrics    metrics.Recorder
	logger     *slog.Logger

	// loc interprets the form's wall-clock dates and times.
	loc *time.Location
	now func() time.Time
}

// NewCheckoutService creates a new checkout service. A nil replicator keeps
// every movement local.
func NewCheckoutService(store storage.Store, replicator Replicator, recorder metrics.Recorder, logger *slog.Logger) *CheckoutService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CheckoutService{
		store:      store,
		replicator: replicator,
		metrics:    recorder,
		logger:     logger,
		loc:        time.Local,
		now:        time.Now,
	}
}

// SubmitCheckout validates the form, records the movement and its asset tag
// removal locally, then mirrors it to the spreadsheet.
func (s *CheckoutService) SubmitCheckout(ctx context.Context, req *connect.Request[SubmitCheckoutRequest]) (*connect.Response[MovementResponse], error) {
	movement, err := s.checkoutFromForm(req.Msg)
	if err != nil {
		return nil, err
	}

	if err := s.store.RecordMovement(ctx, movement); err != nil {
		s.logger.Error("Failed to record checkout", "tool", movement.Tool, "asset_tag", movement.AssetTag, "error", err)
		return nil, storeError(err)
	}
	s.logger.Info("Checkout recorded", "movement_id", movement.ID, "tool", movement.Tool, "requester", movement.Requester)

	return connect.NewResponse(s.replicate(ctx, movement)), nil
}

func (s *CheckoutService) checkoutFromForm(msg *SubmitCheckoutRequest) (*models.Movement, error) {
	requester := strings.TrimSpace(msg.Requester)
	tool := strings.TrimSpace(msg.Tool)
	if requester == "" || tool == "" || msg.CheckoutDate == "" || msg.CheckoutTime == "" {
		return nil, invalidArgument("preencha todos os campos obrigatórios")
	}

	checkedOut, err := time.ParseInLocation(formDateLayout+" "+formTimeLayout, msg.CheckoutDate+" "+msg.CheckoutTime, s.loc)
	if err != nil {
		return nil, invalidArgument("data ou hora de saída inválida")
	}

	var expected time.Time
	sameDay := false
	switch msg.ReturnMode {
	case "", ReturnModeHours:
		if msg.ReturnTime == "" {
			return nil, invalidArgument("informe a hora de devolução")
		}
		expected, err = time.ParseInLocation(formDateLayout+" "+formTimeLayout, msg.CheckoutDate+" "+msg.ReturnTime, s.loc)
		if err != nil {
			return nil, invalidArgument("hora de devolução inválida")
		}
		sameDay = true
	case ReturnModeDays:
		if msg.ReturnDate == "" {
			return nil, invalidArgument("informe a data de devolução")
		}
		expected, err = time.ParseInLocation(formDateLayout, msg.ReturnDate, s.loc)
		if err != nil {
			return nil, invalidArgument("data de devolução inválida")
		}
	default:
		return nil, invalidArgument(fmt.Sprintf("modo de devolução desconhecido: %q", msg.ReturnMode))
	}

	return &models.Movement{
		Requester:         requester,
		Tool:              tool,
		AssetTag:          strings.TrimSpace(msg.AssetTag),
		Kind:              models.MovementCheckout,
		Project:           strings.TrimSpace(msg.Project),
		CheckedOutAt:      checkedOut,
		ExpectedReturnAt:  expected,
		SameDayReturn:     sameDay,
		HasExpectedReturn: true,
		Notes:             strings.TrimSpace(msg.Notes),
	}, nil
}

// ReportBroken records a damaged tool. A named asset tag leaves stock.
func (s *CheckoutService) ReportBroken(ctx context.Context, req *connect.Request[ReportBrokenRequest]) (*connect.Response[MovementResponse], error) {
	requester := strings.TrimSpace(req.Msg.Requester)
	tool := strings.TrimSpace(req.Msg.Tool)
	if requester == "" || tool == "" {
		return nil, invalidArgument("preencha todos os campos obrigatórios")
	}

	movement := &models.Movement{
		Requester:    requester,
		Tool:         tool,
		AssetTag:     strings.TrimSpace(req.Msg.AssetTag),
		Kind:         models.MovementBroken,
		CheckedOutAt: s.now().In(s.loc),
		Notes:        strings.TrimSpace(req.Msg.Notes),
	}
	if err := s.store.RecordMovement(ctx, movement); err != nil {
		s.logger.Error("Failed to record breakage", "tool", tool, "error", err)
		return nil, storeError(err)
	}
	s.logger.Info("Breakage recorded", "movement_id", movement.ID, "tool", tool)

	return connect.NewResponse(s.replicate(ctx, movement)), nil
}

// replicate sends a committed movement and turns the result into the
// outcome reported to the user. It never fails the request.
func (s *CheckoutService) replicate(ctx context.Context, m *models.Movement) *MovementResponse {
	resp := &MovementResponse{
		Movement: toMovementView(m, s.loc),
		Outcome:  OutcomeLocalOnly,
		Message:  msgLocalOnly,
	}

	if s.replicator != nil && s.replicator.Enabled() {
		if _, err := s.replicator.Send(ctx, replication.MovementPayload(m)); err != nil {
			s.logger.Warn("Movement kept local only", "movement_id", m.ID, "error", err)
		} else {
			resp.Outcome = OutcomeSynced
			resp.Message = msgSynced
		}
	}

	s.metrics.RecordMovement(string(m.Kind), resp.Outcome)
	return resp
}

// RecordReturn closes an open checkout and puts its asset tag back in stock.
func (s *CheckoutService) RecordReturn(ctx context.Context, req *connect.Request[RecordReturnRequest]) (*connect.Response[RecordReturnResponse], error) {
	if req.Msg.MovementID == "" {
		return nil, invalidArgument("movement id is required")
	}

	returnedAt := s.now()
	if req.Msg.ReturnedAt != "" {
		t, err := time.Parse(time.RFC3339, req.Msg.ReturnedAt)
		if err != nil {
			return nil, invalidArgument("returnedAt must be RFC 3339")
		}
		returnedAt = t
	}

	movement, err := s.store.RecordReturn(ctx, req.Msg.MovementID, returnedAt)
	if err != nil {
		s.logger.Warn("Failed to record return", "movement_id", req.Msg.MovementID, "error", err)
		return nil, storeError(err)
	}
	s.logger.Info("Return recorded", "movement_id", movement.ID, "tool", movement.Tool)

	return connect.NewResponse(&RecordReturnResponse{Movement: toMovementView(movement, s.loc)}), nil
}

// GetDashboard aggregates the full snapshot of tools and movements.
func (s *CheckoutService) GetDashboard(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[DashboardResponse], error) {
	tools, err := s.store.ListTools(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	movements, err := s.store.ListMovements(ctx)
	if err != nil {
		return nil, storeError(err)
	}

	r := calculator.Aggregate(tools, movements)
	resp := &DashboardResponse{
		TotalMovements:   r.TotalMovements,
		StockTotal:       r.StockTotal,
		InUse:            r.InUse,
		Broken:           r.Broken,
		Available:        r.Available,
		InUsePercent:     calculator.Percentage(r.InUse, r.StockTotal),
		BrokenPercent:    calculator.Percentage(r.Broken, r.StockTotal),
		AvailablePercent: calculator.Percentage(r.Available, r.StockTotal),
		ByTool:           countViews(r.ByTool, r.TotalMovements),
		ByRequester:      countViews(r.ByRequester, r.TotalMovements),
		ByMonth:          make([]MonthView, 0, len(r.ByMonth)),
	}
	for _, m := range r.ByMonth {
		resp.ByMonth = append(resp.ByMonth, MonthView{
			Month: int(m.Month),
			Year:  m.Year,
			Label: m.Label(),
			Count: m.Count,
		})
	}

	return connect.NewResponse(resp), nil
}

func countViews(counts []calculator.Count, total int) []CountView {
	views := make([]CountView, 0, len(counts))
	for _, c := range counts {
		views = append(views, CountView{Key: c.Key, Count: c.Count, Percent: calculator.Percentage(c.Count, total)})
	}
	return views
}

// ListToolOptions groups stock by tool name for the form's picker.
func (s *CheckoutService) ListToolOptions(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[ListToolOptionsResponse], error) {
	tools, err := s.store.ListTools(ctx)
	if err != nil {
		return nil, storeError(err)
	}

	groups := calculator.GroupAvailability(tools)
	options := make([]ToolOption, 0, len(groups))
	for _, g := range groups {
		options = append(options, ToolOption{
			Name:      g.Name,
			Available: g.Available,
			Label:     fmt.Sprintf("%s (%d disponíveis)", g.Name, g.Available),
			AssetTags: calculator.UnitsFor(tools, g.Name),
		})
	}

	return connect.NewResponse(&ListToolOptionsResponse{Options: options}), nil
}

// ListRequesters returns the requester names for the form.
func (s *CheckoutService) ListRequesters(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[ListRequestersResponse], error) {
	requesters, err := s.store.ListRequesters(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return connect.NewResponse(&ListRequestersResponse{Requesters: toRequesterViews(requesters)}), nil
}

// ListProjects returns the project names for the form.
func (s *CheckoutService) ListProjects(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[ListProjectsResponse], error) {
	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return connect.NewResponse(&ListProjectsResponse{Projects: toProjectViews(projects)}), nil
}
