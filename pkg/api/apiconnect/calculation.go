package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/nbang/pkg/api"
)

// CalculationServiceName is the fully-qualified name of the CalculationService.
const CalculationServiceName = "nbang.v1.CalculationService"

// Procedure paths, relative to the server base URL.
const (
	CalculationServiceCalculateProcedure           = "/nbang.v1.CalculationService/Calculate"
	CalculationServiceCreateShareLinkProcedure     = "/nbang.v1.CalculationService/CreateShareLink"
	CalculationServiceGetSharedSettlementProcedure = "/nbang.v1.CalculationService/GetSharedSettlement"
)

// CalculationServiceHandler is implemented by the server side of the CalculationService,
// which settles gatherings and shares the result.
type CalculationServiceHandler interface {
	Calculate(context.Context, *connect.Request[api.CalculateRequest]) (*connect.Response[api.CalculateResponse], error)
	CreateShareLink(context.Context, *connect.Request[api.CreateShareLinkRequest]) (*connect.Response[api.CreateShareLinkResponse], error)
	GetSharedSettlement(context.Context, *connect.Request[api.GetSharedSettlementRequest]) (*connect.Response[api.GetSharedSettlementResponse], error)
}

// NewCalculationServiceHandler builds an HTTP handler for the service and returns the
// path prefix to mount it on.
func NewCalculationServiceHandler(svc CalculationServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	handlers := map[string]http.Handler{
		CalculationServiceCalculateProcedure:           connect.NewUnaryHandler(CalculationServiceCalculateProcedure, svc.Calculate, opts...),
		CalculationServiceCreateShareLinkProcedure:     connect.NewUnaryHandler(CalculationServiceCreateShareLinkProcedure, svc.CreateShareLink, opts...),
		CalculationServiceGetSharedSettlementProcedure: connect.NewUnaryHandler(CalculationServiceGetSharedSettlementProcedure, svc.GetSharedSettlement, opts...),
	}
	return "/" + CalculationServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// CalculationServiceClient is a client for the CalculationService.
type CalculationServiceClient interface {
	Calculate(context.Context, *connect.Request[api.CalculateRequest]) (*connect.Response[api.CalculateResponse], error)
	CreateShareLink(context.Context, *connect.Request[api.CreateShareLinkRequest]) (*connect.Response[api.CreateShareLinkResponse], error)
	GetSharedSettlement(context.Context, *connect.Request[api.GetSharedSettlementRequest]) (*connect.Response[api.GetSharedSettlementResponse], error)
}

// NewCalculationServiceClient constructs a client for the CalculationService at baseURL
// (e.g. http://localhost:8080).
func NewCalculationServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) CalculationServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &calculationServiceClient{
		calculate:           connect.NewClient[api.CalculateRequest, api.CalculateResponse](httpClient, baseURL+CalculationServiceCalculateProcedure, opts...),
		createShareLink:     connect.NewClient[api.CreateShareLinkRequest, api.CreateShareLinkResponse](httpClient, baseURL+CalculationServiceCreateShareLinkProcedure, opts...),
		getSharedSettlement: connect.NewClient[api.GetSharedSettlementRequest, api.GetSharedSettlementResponse](httpClient, baseURL+CalculationServiceGetSharedSettlementProcedure, opts...),
	}
}

type calculationServiceClient struct {
	calculate           *connect.Client[api.CalculateRequest, api.CalculateResponse]
	createShareLink     *connect.Client[api.CreateShareLinkRequest, api.CreateShareLinkResponse]
	getSharedSettlement *connect.Client[api.GetSharedSettlementRequest, api.GetSharedSettlementResponse]
}

func (c *calculationServiceClient) Calculate(ctx context.Context, req *connect.Request[api.CalculateRequest]) (*connect.Response[api.CalculateResponse], error) {
	return c.calculate.CallUnary(ctx, req)
}

func (c *calculationServiceClient) CreateShareLink(ctx context.Context, req *connect.Request[api.CreateShareLinkRequest]) (*connect.Response[api.CreateShareLinkResponse], error) {
	return c.createShareLink.CallUnary(ctx, req)
}

func (c *calculationServiceClient) GetSharedSettlement(ctx context.Context, req *connect.Request[api.GetSharedSettlementRequest]) (*connect.Response[api.GetSharedSettlementResponse], error) {
	return c.getSharedSettlement.CallUnary(ctx, req)
}
