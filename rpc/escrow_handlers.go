package rpc

import (
	"net/http"

	"paywow/native/escrow"
)

type escrowIDParams struct {
	ID string `json:"id"`
}

type escrowReleaseParams struct {
	ID    string `json:"id"`
	Payee string `json:"payee"`
}

type escrowRefundParams struct {
	ID     string `json:"id"`
	Caller string `json:"caller"`
}

type escrowJSON struct {
	ID          string `json:"id"`
	Owner       string `json:"owner"`
	Asset       string `json:"asset"`
	Balance     string `json:"balance"`
	LockedUntil uint64 `json:"lockedUntil"`
	CreatedAt   uint64 `json:"createdAt"`
}

func escrowToJSON(acct *escrow.Account) *escrowJSON {
	if acct == nil {
		return nil
	}
	return &escrowJSON{
		ID:          acct.ID,
		Owner:       formatAddress(acct.Owner),
		Asset:       acct.Asset,
		Balance:     acct.Balance.String(),
		LockedUntil: acct.LockedUntil,
		CreatedAt:   acct.CreatedAt,
	}
}

func (s *Server) handleEscrowRelease(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params escrowReleaseParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	payee, err := parseBech32Address(params.Payee)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	if err := s.node.ReleaseEscrow(params.ID, payee); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]string{"id": params.ID, "status": "released"})
}

func (s *Server) handleEscrowRefund(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params escrowRefundParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	caller, err := parseBech32Address(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	if err := s.node.RefundEscrow(caller, params.ID); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]string{"id": params.ID, "status": "refunded"})
}

func (s *Server) handleEscrowGet(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params escrowIDParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	acct, err := s.node.GetEscrow(params.ID)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, escrowToJSON(acct))
}

func (s *Server) handleEscrowIsLocked(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params escrowIDParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	writeResult(w, req.ID, map[string]bool{"locked": s.node.EscrowIsLocked(params.ID)})
}
