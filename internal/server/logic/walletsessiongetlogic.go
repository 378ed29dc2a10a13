package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/pitbossdev/pitboss/internal/server/svc"
	"github.com/pitbossdev/pitboss/internal/server/types"
)

type WalletSessionGetLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewWalletSessionGetLogic(ctx context.Context, svcCtx *svc.ServiceContext) *WalletSessionGetLogic {
	return &WalletSessionGetLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *WalletSessionGetLogic) WalletSessionGet(req *types.WalletSessionRequest) (*types.WalletSessionInfo, error) {
	p, err := principalFrom(l.ctx)
	if err != nil {
		return nil, err
	}
	if err := walletAuth(p); err != nil {
		return nil, err
	}
	sess, err := l.svcCtx.Wallet.GetSession(l.ctx, p.TenantID, req.ID)
	if err != nil {
		return nil, mapWalletErr(err)
	}
	info := sessionToInfo(sess)
	return &info, nil
}
