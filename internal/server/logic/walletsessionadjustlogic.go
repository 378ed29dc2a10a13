package logic

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/pitbossdev/pitboss/internal/apperr"
	"github.com/pitbossdev/pitboss/internal/server/svc"
	"github.com/pitbossdev/pitboss/internal/server/types"
)

type WalletSessionAdjustLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewWalletSessionAdjustLogic(ctx context.Context, svcCtx *svc.ServiceContext) *WalletSessionAdjustLogic {
	return &WalletSessionAdjustLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *WalletSessionAdjustLogic) WalletSessionAdjust(req *types.WalletAdjustRequest) (*types.WalletSessionInfo, error) {
	p, err := principalFrom(l.ctx)
	if err != nil {
		return nil, err
	}
	if err := walletAuth(p); err != nil {
		return nil, err
	}
	delta, err := decimal.NewFromString(req.Delta)
	if err != nil {
		return nil, apperr.Validationf("delta: %v", err)
	}
	sess, err := l.svcCtx.Wallet.Adjust(l.ctx, p.TenantID, req.ID, delta)
	if err != nil {
		return nil, mapWalletErr(err)
	}
	info := sessionToInfo(sess)
	return &info, nil
}
