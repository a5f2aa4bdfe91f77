package rpc

import (
	"net/http"

	"paywow/native/dispute"
)

type disputeFileParams struct {
	Caller     string `json:"caller"`
	ID         string `json:"id"`
	Claimant   string `json:"claimant"`
	Respondent string `json:"respondent"`
	Reason     string `json:"reason"`
	Evidence   string `json:"evidence,omitempty"`
}

type disputeIDParams struct {
	ID string `json:"id"`
}

type disputeCallerParams struct {
	ID     string `json:"id"`
	Caller string `json:"caller"`
}

type disputeResolveParams struct {
	ID             string `json:"id"`
	Caller         string `json:"caller"`
	RefundClaimant bool   `json:"refundClaimant"`
}

type disputeJSON struct {
	ID                 string `json:"id"`
	Claimant           string `json:"claimant"`
	Respondent         string `json:"respondent"`
	Amount             string `json:"amount"`
	Reason             string `json:"reason"`
	Evidence           string `json:"evidence,omitempty"`
	FiledAt            uint64 `json:"filedAt"`
	ResolutionDeadline uint64 `json:"resolutionDeadline"`
	Status             string `json:"status"`
	Recipient          string `json:"recipient,omitempty"`
}

func disputeToJSON(d *dispute.Dispute) *disputeJSON {
	if d == nil {
		return nil
	}
	out := &disputeJSON{
		ID:                 d.ID,
		Claimant:           formatAddress(d.Claimant),
		Respondent:         formatAddress(d.Respondent),
		Amount:             d.Amount.String(),
		Reason:             d.Reason,
		Evidence:           d.Evidence,
		FiledAt:            d.FiledAt,
		ResolutionDeadline: d.ResolutionDeadline,
		Status:             d.Status.String(),
	}
	if d.Recipient != ([20]byte{}) {
		out.Recipient = formatAddress(d.Recipient)
	}
	return out
}

func (s *Server) handleDisputeFile(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params disputeFileParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	caller, err := parseBech32Address(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	claimant, err := parseBech32Address(params.Claimant)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	respondent, err := parseBech32Address(params.Respondent)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	record, err := s.node.FileDispute(caller, params.ID, claimant, respondent, params.Reason, params.Evidence)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, disputeToJSON(record))
}

func (s *Server) handleDisputeMarkUnderReview(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params disputeCallerParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	caller, err := parseBech32Address(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	if err := s.node.MarkDisputeUnderReview(caller, params.ID); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]string{"id": params.ID, "status": "under_review"})
}

func (s *Server) handleDisputeResolve(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params disputeResolveParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	caller, err := parseBech32Address(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	record, err := s.node.ResolveDispute(caller, params.ID, params.RefundClaimant)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, disputeToJSON(record))
}

func (s *Server) handleDisputeRefundOnTimeout(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params disputeIDParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	record, err := s.node.RefundDisputeOnTimeout(params.ID)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, disputeToJSON(record))
}

func (s *Server) handleDisputeGet(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params disputeIDParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	record, err := s.node.GetDispute(params.ID)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, disputeToJSON(record))
}

func (s *Server) handleDisputeIsResolvable(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params disputeIDParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	writeResult(w, req.ID, map[string]bool{"resolvable": s.node.DisputeIsResolvable(params.ID)})
}
