package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/middleware"
	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/models"
	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/storage"
)

// InventoryService implements the admin panel RPC interface. Its handler is
// mounted behind the auth interceptor.
type InventoryService struct {
	store  storage.Store
	logger *slog.Logger
	loc    *time.Location
}

// NewInventoryService creates a new inventory service.
func NewInventoryService(store storage.Store, logger *slog.Logger) *InventoryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &InventoryService{
		store:  store,
		logger: logger,
		loc:    time.Local,
	}
}

// ListTools returns every tool row with its asset tags.
func (s *InventoryService) ListTools(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[ListToolsResponse], error) {
	tools, err := s.store.ListTools(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return connect.NewResponse(&ListToolsResponse{Tools: toToolViews(tools)}), nil
}

func toToolViews(tools []*models.Tool) []ToolView {
	views := make([]ToolView, 0, len(tools))
	for _, t := range tools {
		views = append(views, toToolView(t))
	}
	return views
}

// AddTools parses the bulk text and creates every tool in one transaction.
func (s *InventoryService) AddTools(ctx context.Context, req *connect.Request[AddToolsRequest]) (*connect.Response[ListToolsResponse], error) {
	tools, err := ParseToolLines(req.Msg.Text)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	if err := s.store.AddTools(ctx, tools); err != nil {
		s.logger.Warn("Failed to add tools", "count", len(tools), "admin", middleware.GetUsername(ctx), "error", err)
		return nil, storeError(err)
	}
	s.logger.Info("Tools added", "count", len(tools), "admin", middleware.GetUsername(ctx))

	return connect.NewResponse(&ListToolsResponse{Tools: toToolViews(tools)}), nil
}

// UpdateTool edits a tool row. Tags are trimmed and blanks dropped; a tool
// needs at least one tag.
func (s *InventoryService) UpdateTool(ctx context.Context, req *connect.Request[UpdateToolRequest]) (*connect.Response[UpdateToolResponse], error) {
	name := strings.TrimSpace(req.Msg.Name)
	if req.Msg.ToolID == "" || name == "" {
		return nil, invalidArgument("tool id and name are required")
	}

	var tags []string
	for _, tag := range req.Msg.AssetTags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return nil, invalidArgument("at least one asset tag is required")
	}

	tool := &models.Tool{
		ID:          req.Msg.ToolID,
		Name:        name,
		Description: strings.TrimSpace(req.Msg.Description),
		AssetTags:   tags,
	}
	if err := s.store.UpdateTool(ctx, tool); err != nil {
		return nil, storeError(err)
	}
	s.logger.Info("Tool updated", "tool_id", tool.ID, "admin", middleware.GetUsername(ctx))

	return connect.NewResponse(&UpdateToolResponse{Tool: toToolView(tool)}), nil
}

// RemoveTool deletes a tool row and its asset tags.
func (s *InventoryService) RemoveTool(ctx context.Context, req *connect.Request[RemoveToolRequest]) (*connect.Response[Empty], error) {
	if req.Msg.ToolID == "" {
		return nil, invalidArgument("tool id is required")
	}
	if err := s.store.RemoveTool(ctx, req.Msg.ToolID); err != nil {
		return nil, storeError(err)
	}
	s.logger.Info("Tool removed", "tool_id", req.Msg.ToolID, "admin", middleware.GetUsername(ctx))
	return connect.NewResponse(&Empty{}), nil
}

// RemoveAssetTag removes one unit from a tool row.
func (s *InventoryService) RemoveAssetTag(ctx context.Context, req *connect.Request[RemoveAssetTagRequest]) (*connect.Response[Empty], error) {
	if req.Msg.ToolID == "" || req.Msg.AssetTag == "" {
		return nil, invalidArgument("tool id and asset tag are required")
	}
	if err := s.store.RemoveAssetTag(ctx, req.Msg.ToolID, req.Msg.AssetTag); err != nil {
		return nil, storeError(err)
	}
	s.logger.Info("Asset tag removed", "tool_id", req.Msg.ToolID, "asset_tag", req.Msg.AssetTag)
	return connect.NewResponse(&Empty{}), nil
}

// AddRequesters adds one requester per line. Any name already registered,
// ignoring case, rejects the batch before anything is written.
func (s *InventoryService) AddRequesters(ctx context.Context, req *connect.Request[AddNamesRequest]) (*connect.Response[ListRequestersResponse], error) {
	names, err := ParseNameLines(req.Msg.Text)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	existing, err := s.store.ListRequesters(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	seen := make(map[string]bool, len(existing)+len(names))
	for _, r := range existing {
		seen[models.FoldName(r.Name)] = true
	}
	for _, name := range names {
		key := models.FoldName(name)
		if seen[key] {
			return nil, connect.NewError(connect.CodeAlreadyExists, fmt.Errorf("%w: %s", storage.ErrDuplicate, name))
		}
		seen[key] = true
	}

	added := make([]*models.Requester, 0, len(names))
	for _, name := range names {
		r := &models.Requester{Name: name}
		if err := s.store.AddRequester(ctx, r); err != nil {
			return nil, storeError(err)
		}
		added = append(added, r)
	}
	s.logger.Info("Requesters added", "count", len(added))

	return connect.NewResponse(&ListRequestersResponse{Requesters: toRequesterViews(added)}), nil
}

// ListProjects returns every project.
func (s *InventoryService) ListProjects(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[ListProjectsResponse], error) {
	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return connect.NewResponse(&ListProjectsResponse{Projects: toProjectViews(projects)}), nil
}

// AddProjects adds one project per line in one transaction.
func (s *InventoryService) AddProjects(ctx context.Context, req *connect.Request[AddNamesRequest]) (*connect.Response[ListProjectsResponse], error) {
	names, err := ParseNameLines(req.Msg.Text)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	projects := make([]*models.Project, 0, len(names))
	for _, name := range names {
		projects = append(projects, &models.Project{Name: name})
	}
	if err := s.store.AddProjects(ctx, projects); err != nil {
		return nil, storeError(err)
	}
	s.logger.Info("Projects added", "count", len(projects))

	return connect.NewResponse(&ListProjectsResponse{Projects: toProjectViews(projects)}), nil
}

// RemoveProject deletes a project.
func (s *InventoryService) RemoveProject(ctx context.Context, req *connect.Request[RemoveProjectRequest]) (*connect.Response[Empty], error) {
	if req.Msg.ProjectID == "" {
		return nil, invalidArgument("project id is required")
	}
	if err := s.store.RemoveProject(ctx, req.Msg.ProjectID); err != nil {
		return nil, storeError(err)
	}
	return connect.NewResponse(&Empty{}), nil
}

// ListMovements returns the full movement history.
func (s *InventoryService) ListMovements(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[ListMovementsResponse], error) {
	movements, err := s.store.ListMovements(ctx)
	if err != nil {
		return nil, storeError(err)
	}

	views := make([]MovementView, 0, len(movements))
	for _, m := range movements {
		views = append(views, toMovementView(m, s.loc))
	}
	return connect.NewResponse(&ListMovementsResponse{Movements: views}), nil
}
