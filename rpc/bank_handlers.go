package rpc

import (
	"net/http"
)

type bankBalanceParams struct {
	Address string `json:"address"`
}

type eventsListParams struct {
	AfterSequence uint64 `json:"afterSequence,omitempty"`
	Limit         int    `json:"limit,omitempty"`
}

type balanceJSON struct {
	Address string `json:"address"`
	Asset   string `json:"asset"`
	Balance string `json:"balance"`
}

func (s *Server) handleBankGetBalance(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params bankBalanceParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	addr, err := parseBech32Address(params.Address)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	balance, err := s.node.Balance(addr)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, balanceJSON{
		Address: formatAddress(addr),
		Asset:   s.node.PaymentsConfig().Asset,
		Balance: balance.String(),
	})
}

func (s *Server) handleEventsList(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	params := eventsListParams{}
	if len(req.Params) > 1 {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", "at most one parameter object expected")
		return
	}
	if len(req.Params) == 1 {
		if err := decodeSingleParam(req, &params); err != nil {
			writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
			return
		}
	}
	records := s.node.Events()
	filtered := records[:0:0]
	for _, record := range records {
		if record.Sequence <= params.AfterSequence {
			continue
		}
		filtered = append(filtered, record)
		if params.Limit > 0 && len(filtered) >= params.Limit {
			break
		}
	}
	writeResult(w, req.ID, filtered)
}
