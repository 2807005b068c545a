package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/nbang/pkg/api"
)

// GatheringServiceName is the fully-qualified name of the GatheringService.
const GatheringServiceName = "nbang.v1.GatheringService"

// Procedure paths, relative to the server base URL.
const (
	GatheringServiceCreateGatheringProcedure   = "/nbang.v1.GatheringService/CreateGathering"
	GatheringServiceGetGatheringProcedure      = "/nbang.v1.GatheringService/GetGathering"
	GatheringServiceListGatheringsProcedure    = "/nbang.v1.GatheringService/ListGatherings"
	GatheringServiceUpdateGatheringProcedure   = "/nbang.v1.GatheringService/UpdateGathering"
	GatheringServiceDeleteGatheringProcedure   = "/nbang.v1.GatheringService/DeleteGathering"
	GatheringServiceAddParticipantProcedure    = "/nbang.v1.GatheringService/AddParticipant"
	GatheringServiceRemoveParticipantProcedure = "/nbang.v1.GatheringService/RemoveParticipant"
	GatheringServiceCreateRoundProcedure       = "/nbang.v1.GatheringService/CreateRound"
	GatheringServiceUpdateRoundProcedure       = "/nbang.v1.GatheringService/UpdateRound"
	GatheringServiceDeleteRoundProcedure       = "/nbang.v1.GatheringService/DeleteRound"
)

// GatheringServiceHandler is implemented by the server side of the GatheringService,
// which manages gatherings, their participants and their rounds.
type GatheringServiceHandler interface {
	CreateGathering(context.Context, *connect.Request[api.CreateGatheringRequest]) (*connect.Response[api.CreateGatheringResponse], error)
	GetGathering(context.Context, *connect.Request[api.GetGatheringRequest]) (*connect.Response[api.GetGatheringResponse], error)
	ListGatherings(context.Context, *connect.Request[api.ListGatheringsRequest]) (*connect.Response[api.ListGatheringsResponse], error)
	UpdateGathering(context.Context, *connect.Request[api.UpdateGatheringRequest]) (*connect.Response[api.UpdateGatheringResponse], error)
	DeleteGathering(context.Context, *connect.Request[api.DeleteGatheringRequest]) (*connect.Response[api.DeleteGatheringResponse], error)
	AddParticipant(context.Context, *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error)
	RemoveParticipant(context.Context, *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error)
	CreateRound(context.Context, *connect.Request[api.CreateRoundRequest]) (*connect.Response[api.CreateRoundResponse], error)
	UpdateRound(context.Context, *connect.Request[api.UpdateRoundRequest]) (*connect.Response[api.UpdateRoundResponse], error)
	DeleteRound(context.Context, *connect.Request[api.DeleteRoundRequest]) (*connect.Response[api.DeleteRoundResponse], error)
}

// NewGatheringServiceHandler builds an HTTP handler for the service and returns the
// path prefix to mount it on.
func NewGatheringServiceHandler(svc GatheringServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	handlers := map[string]http.Handler{
		GatheringServiceCreateGatheringProcedure:   connect.NewUnaryHandler(GatheringServiceCreateGatheringProcedure, svc.CreateGathering, opts...),
		GatheringServiceGetGatheringProcedure:      connect.NewUnaryHandler(GatheringServiceGetGatheringProcedure, svc.GetGathering, opts...),
		GatheringServiceListGatheringsProcedure:    connect.NewUnaryHandler(GatheringServiceListGatheringsProcedure, svc.ListGatherings, opts...),
		GatheringServiceUpdateGatheringProcedure:   connect.NewUnaryHandler(GatheringServiceUpdateGatheringProcedure, svc.UpdateGathering, opts...),
		GatheringServiceDeleteGatheringProcedure:   connect.NewUnaryHandler(GatheringServiceDeleteGatheringProcedure, svc.DeleteGathering, opts...),
		GatheringServiceAddParticipantProcedure:    connect.NewUnaryHandler(GatheringServiceAddParticipantProcedure, svc.AddParticipant, opts...),
		GatheringServiceRemoveParticipantProcedure: connect.NewUnaryHandler(GatheringServiceRemoveParticipantProcedure, svc.RemoveParticipant, opts...),
		GatheringServiceCreateRoundProcedure:       connect.NewUnaryHandler(GatheringServiceCreateRoundProcedure, svc.CreateRound, opts...),
		GatheringServiceUpdateRoundProcedure:       connect.NewUnaryHandler(GatheringServiceUpdateRoundProcedure, svc.UpdateRound, opts...),
		GatheringServiceDeleteRoundProcedure:       connect.NewUnaryHandler(GatheringServiceDeleteRoundProcedure, svc.DeleteRound, opts...),
	}
	return "/" + GatheringServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// GatheringServiceClient is a client for the GatheringService.
type GatheringServiceClient interface {
	CreateGathering(context.Context, *connect.Request[api.CreateGatheringRequest]) (*connect.Response[api.CreateGatheringResponse], error)
	GetGathering(context.Context, *connect.Request[api.GetGatheringRequest]) (*connect.Response[api.GetGatheringResponse], error)
	ListGatherings(context.Context, *connect.Request[api.ListGatheringsRequest]) (*connect.Response[api.ListGatheringsResponse], error)
	UpdateGathering(context.Context, *connect.Request[api.UpdateGatheringRequest]) (*connect.Response[api.UpdateGatheringResponse], error)
	DeleteGathering(context.Context, *connect.Request[api.DeleteGatheringRequest]) (*connect.Response[api.DeleteGatheringResponse], error)
	AddParticipant(context.Context, *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error)
	RemoveParticipant(context.Context, *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error)
	CreateRound(context.Context, *connect.Request[api.CreateRoundRequest]) (*connect.Response[api.CreateRoundResponse], error)
	UpdateRound(context.Context, *connect.Request[api.UpdateRoundRequest]) (*connect.Response[api.UpdateRoundResponse], error)
	DeleteRound(context.Context, *connect.Request[api.DeleteRoundRequest]) (*connect.Response[api.DeleteRoundResponse], error)
}

// NewGatheringServiceClient constructs a client for the GatheringService at baseURL
// (e.g. http://localhost:8080).
func NewGatheringServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GatheringServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &gatheringServiceClient{
		createGathering:   connect.NewClient[api.CreateGatheringRequest, api.CreateGatheringResponse](httpClient, baseURL+GatheringServiceCreateGatheringProcedure, opts...),
		getGathering:      connect.NewClient[api.GetGatheringRequest, api.GetGatheringResponse](httpClient, baseURL+GatheringServiceGetGatheringProcedure, opts...),
		listGatherings:    connect.NewClient[api.ListGatheringsRequest, api.ListGatheringsResponse](httpClient, baseURL+GatheringServiceListGatheringsProcedure, opts...),
		updateGathering:   connect.NewClient[api.UpdateGatheringRequest, api.UpdateGatheringResponse](httpClient, baseURL+GatheringServiceUpdateGatheringProcedure, opts...),
		deleteGathering:   connect.NewClient[api.DeleteGatheringRequest, api.DeleteGatheringResponse](httpClient, baseURL+GatheringServiceDeleteGatheringProcedure, opts...),
		addParticipant:    connect.NewClient[api.AddParticipantRequest, api.AddParticipantResponse](httpClient, baseURL+GatheringServiceAddParticipantProcedure, opts...),
		removeParticipant: connect.NewClient[api.RemoveParticipantRequest, api.RemoveParticipantResponse](httpClient, baseURL+GatheringServiceRemoveParticipantProcedure, opts...),
		createRound:       connect.NewClient[api.CreateRoundRequest, api.CreateRoundResponse](httpClient, baseURL+GatheringServiceCreateRoundProcedure, opts...),
		updateRound:       connect.NewClient[api.UpdateRoundRequest, api.UpdateRoundResponse](httpClient, baseURL+GatheringServiceUpdateRoundProcedure, opts...),
		deleteRound:       connect.NewClient[api.DeleteRoundRequest, api.DeleteRoundResponse](httpClient, baseURL+GatheringServiceDeleteRoundProcedure, opts...),
	}
}

type gatheringServiceClient struct {
	createGathering   *connect.Client[api.CreateGatheringRequest, api.CreateGatheringResponse]
	getGathering      *connect.Client[api.GetGatheringRequest, api.GetGatheringResponse]
	listGatherings    *connect.Client[api.ListGatheringsRequest, api.ListGatheringsResponse]
	updateGathering   *connect.Client[api.UpdateGatheringRequest, api.UpdateGatheringResponse]
	deleteGathering   *connect.Client[api.DeleteGatheringRequest, api.DeleteGatheringResponse]
	addParticipant    *connect.Client[api.AddParticipantRequest, api.AddParticipantResponse]
	removeParticipant *connect.Client[api.RemoveParticipantRequest, api.RemoveParticipantResponse]
	createRound       *connect.Client[api.CreateRoundRequest, api.CreateRoundResponse]
	updateRound       *connect.Client[api.UpdateRoundRequest, api.UpdateRoundResponse]
	deleteRound       *connect.Client[api.DeleteRoundRequest, api.DeleteRoundResponse]
}

func (c *gatheringServiceClient) CreateGathering(ctx context.Context, req *connect.Request[api.CreateGatheringRequest]) (*connect.Response[api.CreateGatheringResponse], error) {
	return c.createGathering.CallUnary(ctx, req)
}

func (c *gatheringServiceClient) GetGathering(ctx context.Context, req *connect.Request[api.GetGatheringRequest]) (*connect.Response[api.GetGatheringResponse], error) {
	return c.getGathering.CallUnary(ctx, req)
}

func (c *gatheringServiceClient) ListGatherings(ctx context.Context, req *connect.Request[api.ListGatheringsRequest]) (*connect.Response[api.ListGatheringsResponse], error) {
	return c.listGatherings.CallUnary(ctx, req)
}

func (c *gatheringServiceClient) UpdateGathering(ctx context.Context, req *connect.Request[api.UpdateGatheringRequest]) (*connect.Response[api.UpdateGatheringResponse], error) {
	return c.updateGathering.CallUnary(ctx, req)
}

func (c *gatheringServiceClient) DeleteGathering(ctx context.Context, req *connect.Request[api.DeleteGatheringRequest]) (*connect.Response[api.DeleteGatheringResponse], error) {
	return c.deleteGathering.CallUnary(ctx, req)
}

func (c *gatheringServiceClient) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	return c.addParticipant.CallUnary(ctx, req)
}

func (c *gatheringServiceClient) RemoveParticipant(ctx context.Context, req *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error) {
	return c.removeParticipant.CallUnary(ctx, req)
}

func (c *gatheringServiceClient) CreateRound(ctx context.Context, req *connect.Request[api.CreateRoundRequest]) (*connect.Response[api.CreateRoundResponse], error) {
	return c.createRound.CallUnary(ctx, req)
}

func (c *gatheringServiceClient) UpdateRound(ctx context.Context, req *connect.Request[api.UpdateRoundRequest]) (*connect.Response[api.UpdateRoundResponse], error) {
	return c.updateRound.CallUnary(ctx, req)
}

func (c *gatheringServiceClient) DeleteRound(ctx context.Context, req *connect.Request[api.DeleteRoundRequest]) (*connect.Response[api.DeleteRoundResponse], error) {
	return c.deleteRound.CallUnary(ctx, req)
}
