package alias

import (
	"context"

	"go.uber.org/zap"

	"trashmail/internal/api"
	"trashmail/internal/domain"
)

const (
	cmdReadDEA = "read_dea"
	cmdSaveDEA = "save_dea"
)

// Service issues authenticated DEA commands.
type Service struct {
	client domain.APIClient
	state  domain.SessionState
	log    *zap.Logger
}

// New returns an alias service. state gates every call on a prior login.
func New(client domain.APIClient, state domain.SessionState, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{client: client, state: state, log: log}
}

var _ domain.AliasService = (*Service)(nil)

// Call makes an authenticated API call with params as the JSON body.
//
// A reply without a success flag counts as success; some endpoints do not
// send one.
func (s *Service) Call(ctx context.Context, cmd string, params map[string]any) (*domain.APIResult, error) {
	if !s.state.IsAuthenticated() {
		return nil, api.NotAuthenticated(cmd)
	}
	if params == nil {
		params = map[string]any{}
	}

	res, err := s.client.Post(ctx, cmd, params)
	if err != nil {
		return nil, api.TransportError(cmd, "api call", err)
	}
	if res.Empty() {
		return nil, api.InvalidResponse(cmd)
	}
	if !res.Succeeded(true) {
		s.log.Debug("api call rejected",
			zap.String("cmd", cmd),
			zap.String("msg", res.Message("")))
		return nil, api.ResultError(cmd, res, "API call failed")
	}
	return res, nil
}

// List returns the account's disposable addresses.
func (s *Service) List(ctx context.Context) ([]domain.DEA, error) {
	res, err := s.Call(ctx, cmdReadDEA, nil)
	if err != nil {
		return nil, err
	}
	deas, err := domain.DecodeDEAList(res.Data())
	if err != nil {
		return nil, &api.Error{Cmd: cmdReadDEA, Message: err.Error(), Status: res.Status, Err: err}
	}
	return deas, nil
}

// Create registers a new disposable address forwarding to realEmail.
func (s *Service) Create(ctx context.Context, realEmail string, opts domain.CreateOptions) (domain.DEA, error) {
	res, err := s.Call(ctx, cmdSaveDEA, opts.Params(realEmail))
	if err != nil {
		return nil, err
	}
	dea := domain.DEA{}
	if err := res.DecodeData(&dea); err != nil {
		return nil, &api.Error{Cmd: cmdSaveDEA, Message: err.Error(), Status: res.Status, Err: err}
	}
	s.log.Info("created disposable address",
		zap.String("dea", dea.Address()),
		zap.String("realemail", realEmail))
	return dea, nil
}
