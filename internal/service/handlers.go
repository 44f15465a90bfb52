package service

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// Fully-qualified service names.
const (
	CheckoutServiceName  = "ferramentas.v1.CheckoutService"
	InventoryServiceName = "ferramentas.v1.InventoryService"
	AuthServiceName      = "ferramentas.v1.AuthService"
)

// Procedure paths, as clients address them.
const (
	CheckoutServiceSubmitCheckoutProcedure  = "/" + CheckoutServiceName + "/SubmitCheckout"
	CheckoutServiceReportBrokenProcedure    = "/" + CheckoutServiceName + "/ReportBroken"
	CheckoutServiceRecordReturnProcedure    = "/" + CheckoutServiceName + "/RecordReturn"
	CheckoutServiceGetDashboardProcedure    = "/" + CheckoutServiceName + "/GetDashboard"
	CheckoutServiceListToolOptionsProcedure = "/" + CheckoutServiceName + "/ListToolOptions"
	CheckoutServiceListRequestersProcedure  = "/" + CheckoutServiceName + "/ListRequesters"
	CheckoutServiceListProjectsProcedure    = "/" + CheckoutServiceName + "/ListProjects"

	InventoryServiceListToolsProcedure      = "/" + InventoryServiceName + "/ListTools"
	InventoryServiceAddToolsProcedure       = "/" + InventoryServiceName + "/AddTools"
	InventoryServiceUpdateToolProcedure     = "/" + InventoryServiceName + "/UpdateTool"
	InventoryServiceRemoveToolProcedure     = "/" + InventoryServiceName + "/RemoveTool"
	InventoryServiceRemoveAssetTagProcedure = "/" + InventoryServiceName + "/RemoveAssetTag"
	InventoryServiceAddRequestersProcedure  = "/" + InventoryServiceName + "/AddRequesters"
	InventoryServiceListProjectsProcedure   = "/" + InventoryServiceName + "/ListProjects"
	InventoryServiceAddProjectsProcedure    = "/" + InventoryServiceName + "/AddProjects"
	InventoryServiceRemoveProjectProcedure  = "/" + InventoryServiceName + "/RemoveProject"
	InventoryServiceListMovementsProcedure  = "/" + InventoryServiceName + "/ListMovements"

	AuthServiceLoginProcedure = "/" + AuthServiceName + "/Login"
)

func unary[Req, Res any](mux *http.ServeMux, procedure string, fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error), opts []connect.HandlerOption) {
	mux.Handle(procedure, connect.NewUnaryHandler(procedure, fn, opts...))
}

func withCodec(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec())}, opts...)
}

// NewCheckoutServiceHandler builds an HTTP handler for the checkout service.
// It returns the path on which to mount the handler and the handler itself.
func NewCheckoutServiceHandler(svc *CheckoutService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts)
	mux := http.NewServeMux()
	unary(mux, CheckoutServiceSubmitCheckoutProcedure, svc.SubmitCheckout, opts)
	unary(mux, CheckoutServiceReportBrokenProcedure, svc.ReportBroken, opts)
	unary(mux, CheckoutServiceRecordReturnProcedure, svc.RecordReturn, opts)
	unary(mux, CheckoutServiceGetDashboardProcedure, svc.GetDashboard, opts)
	unary(mux, CheckoutServiceListToolOptionsProcedure, svc.ListToolOptions, opts)
	unary(mux, CheckoutServiceListRequestersProcedure, svc.ListRequesters, opts)
	unary(mux, CheckoutServiceListProjectsProcedure, svc.ListProjects, opts)
	return "/" + CheckoutServiceName + "/", mux
}

// NewInventoryServiceHandler builds an HTTP handler for the inventory service.
func NewInventoryServiceHandler(svc *InventoryService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts)
	mux := http.NewServeMux()
	unary(mux, InventoryServiceListToolsProcedure, svc.ListTools, opts)
	unary(mux, InventoryServiceAddToolsProcedure, svc.AddTools, opts)
	unary(mux, InventoryServiceUpdateToolProcedure, svc.UpdateTool, opts)
	unary(mux, InventoryServiceRemoveToolProcedure, svc.RemoveTool, opts)
	unary(mux, InventoryServiceRemoveAssetTagProcedure, svc.RemoveAssetTag, opts)
	unary(mux, InventoryServiceAddRequestersProcedure, svc.AddRequesters, opts)
	unary(mux, InventoryServiceListProjectsProcedure, svc.ListProjects, opts)
	unary(mux, InventoryServiceAddProjectsProcedure, svc.AddProjects, opts)
	unary(mux, InventoryServiceRemoveProjectProcedure, svc.RemoveProject, opts)
	unary(mux, InventoryServiceListMovementsProcedure, svc.ListMovements, opts)
	return "/" + InventoryServiceName + "/", mux
}

// NewAuthServiceHandler builds an HTTP handler for the auth service.
func NewAuthServiceHandler(svc *AuthService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts)
	mux := http.NewServeMux()
	unary(mux, AuthServiceLoginProcedure, svc.Login, opts)
	return "/" + AuthServiceName + "/", mux
}
