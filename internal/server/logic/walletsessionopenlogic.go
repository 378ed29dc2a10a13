package logic

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/pitbossdev/pitboss/internal/apperr"
	"github.com/pitbossdev/pitboss/internal/wallet"
	"github.com/pitbossdev/pitboss/internal/server/svc"
	"github.com/pitbossdev/pitboss/internal/server/types"
)

type WalletSessionOpenLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewWalletSessionOpenLogic(ctx context.Context, svcCtx *svc.ServiceContext) *WalletSessionOpenLogic {
	return &WalletSessionOpenLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *WalletSessionOpenLogic) WalletSessionOpen(req *types.WalletOpenRequest) (*types.WalletSessionInfo, error) {
	p, err := principalFrom(l.ctx)
	if err != nil {
		return nil, err
	}
	if err := walletAuth(p); err != nil {
		return nil, err
	}
	if req.PlayerID == "" {
		return nil, apperr.Validationf("player_id required")
	}
	balance := decimal.Zero
	if req.Balance != "" {
		balance, err = decimal.NewFromString(req.Balance)
		if err != nil {
			return nil, apperr.Validationf("balance: %v", err)
		}
		if balance.IsNegative() {
			return nil, apperr.Validationf("balance must not be negative")
		}
	}
	sess := &wallet.Session{
		ID:       uuid.NewString(),
		TenantID: p.TenantID,
		PlayerID: req.PlayerID,
		Currency: req.Currency,
		Balance:  balance,
	}
	if err := l.svcCtx.Wallet.OpenSession(l.ctx, sess); err != nil {
		return nil, err
	}
	l.Infof("wallet session opened: id=%s tenant=%s player=%s", sess.ID, sess.TenantID, sess.PlayerID)
	info := sessionToInfo(sess)
	return &info, nil
}
