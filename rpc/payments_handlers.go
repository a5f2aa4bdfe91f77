package rpc

import (
	"net/http"

	"paywow/native/payments"
)

type paymentsSimpleParams struct {
	Caller         string `json:"caller"`
	ID             string `json:"id"`
	Payer          string `json:"payer"`
	Payee          string `json:"payee"`
	Amount         string `json:"amount"`
	Merchant       string `json:"merchant,omitempty"`
	MerchantFeeBps uint32 `json:"merchantFeeBps,omitempty"`
}

type paymentsEscrowParams struct {
	Caller      string `json:"caller"`
	ID          string `json:"id"`
	Payer       string `json:"payer"`
	Payee       string `json:"payee"`
	Amount      string `json:"amount"`
	LockedUntil uint64 `json:"lockedUntil"`
}

type paymentsIDParams struct {
	ID string `json:"id"`
}

type paymentsWithdrawParams struct {
	Caller string `json:"caller"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type transactionJSON struct {
	ID        string `json:"id"`
	Payer     string `json:"payer"`
	Payee     string `json:"payee"`
	Amount    string `json:"amount"`
	Status    string `json:"status"`
	Kind      string `json:"kind"`
	CreatedAt uint64 `json:"createdAt"`
}

func transactionToJSON(tx *payments.Transaction) *transactionJSON {
	if tx == nil {
		return nil
	}
	return &transactionJSON{
		ID:        tx.ID,
		Payer:     formatAddress(tx.Payer),
		Payee:     formatAddress(tx.Payee),
		Amount:    tx.Amount.String(),
		Status:    tx.Status.String(),
		Kind:      tx.Kind.String(),
		CreatedAt: tx.CreatedAt,
	}
}

func (s *Server) handlePaymentsProcessSimple(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params paymentsSimpleParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	caller, err := parseBech32Address(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	payer, err := parseBech32Address(params.Payer)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	payee, err := parseBech32Address(params.Payee)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	amount, err := parsePositiveBigInt(params.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	merchant := payee
	if params.Merchant != "" {
		merchant, err = parseBech32Address(params.Merchant)
		if err != nil {
			writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
			return
		}
	}
	tx, err := s.node.ProcessSimple(caller, params.ID, payer, payee, amount, merchant, params.MerchantFeeBps)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, transactionToJSON(tx))
}

func (s *Server) handlePaymentsProcessEscrow(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params paymentsEscrowParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	caller, err := parseBech32Address(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	payer, err := parseBech32Address(params.Payer)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	payee, err := parseBech32Address(params.Payee)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	amount, err := parsePositiveBigInt(params.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	tx, err := s.node.ProcessEscrow(caller, params.ID, payer, payee, amount, params.LockedUntil)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, transactionToJSON(tx))
}

func (s *Server) handlePaymentsGet(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params paymentsIDParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	tx, err := s.node.GetTransaction(params.ID)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, transactionToJSON(tx))
}

func (s *Server) handlePaymentsCollectedFees(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	fees, err := s.node.CollectedFees()
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]string{"collectedFees": fees.String()})
}

func (s *Server) handlePaymentsWithdrawFees(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params paymentsWithdrawParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	caller, err := parseBech32Address(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	to, err := parseBech32Address(params.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	amount, err := parsePositiveBigInt(params.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	if err := s.node.WithdrawFees(caller, to, amount); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]string{"status": "withdrawn", "amount": amount.String()})
}
