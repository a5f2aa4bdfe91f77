package rpc

import (
	"net/http"

	"paywow/native/loyalty"
)

type loyaltyCustomerParams struct {
	Customer string `json:"customer"`
}

type loyaltyRewardParams struct {
	ReceiptID uint64 `json:"receiptId"`
}

type loyaltyRedeemParams struct {
	Caller   string `json:"caller"`
	Customer string `json:"customer"`
	Points   uint64 `json:"points"`
}

type rewardJSON struct {
	ReceiptID     uint64 `json:"receiptId"`
	Owner         string `json:"owner"`
	PointsEarned  uint64 `json:"pointsEarned"`
	TotalPoints   uint64 `json:"totalPoints"`
	Tier          string `json:"tier"`
	TransactionID string `json:"transactionId"`
	IssuedAt      uint64 `json:"issuedAt"`
}

func rewardToJSON(r *loyalty.Reward) *rewardJSON {
	if r == nil {
		return nil
	}
	return &rewardJSON{
		ReceiptID:     r.ReceiptID,
		Owner:         formatAddress(r.Owner),
		PointsEarned:  r.PointsEarned,
		TotalPoints:   r.TotalPoints,
		Tier:          r.Tier.String(),
		TransactionID: r.TransactionID,
		IssuedAt:      r.IssuedAt,
	}
}

func (s *Server) handleLoyaltyPoints(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params loyaltyCustomerParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	customer, err := parseBech32Address(params.Customer)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	points, err := s.node.LoyaltyPoints(customer)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]uint64{"points": points})
}

func (s *Server) handleLoyaltyTier(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params loyaltyCustomerParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	customer, err := parseBech32Address(params.Customer)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	tier, err := s.node.LoyaltyTier(customer)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]string{"tier": tier.String()})
}

func (s *Server) handleLoyaltyReward(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params loyaltyRewardParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	reward, err := s.node.LoyaltyReward(params.ReceiptID)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, rewardToJSON(reward))
}

func (s *Server) handleLoyaltyTotalRewards(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	total, err := s.node.LoyaltyTotalRewards()
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]uint64{"totalRewards": total})
}

func (s *Server) handleLoyaltyRedeem(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params loyaltyRedeemParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	caller, err := parseBech32Address(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	customer, err := parseBech32Address(params.Customer)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	if params.Points == 0 {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", "points must be positive")
		return
	}
	if err := s.node.RedeemLoyaltyPoints(caller, customer, params.Points); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]string{"status": "redeemed"})
}
