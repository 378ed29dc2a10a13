package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/pitbossdev/pitboss/internal/server/svc"
	"github.com/pitbossdev/pitboss/internal/server/types"
)

type WalletSessionCloseLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewWalletSessionCloseLogic(ctx context.Context, svcCtx *svc.ServiceContext) *WalletSessionCloseLogic {
	return &WalletSessionCloseLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *WalletSessionCloseLogic) WalletSessionClose(req *types.WalletSessionRequest) (*types.WalletSessionInfo, error) {
	p, err := principalFrom(l.ctx)
	if err != nil {
		return nil, err
	}
	if err := walletAuth(p); err != nil {
		return nil, err
	}
	sess, err := l.svcCtx.Wallet.CloseSession(l.ctx, p.TenantID, req.ID)
	if err != nil {
		return nil, mapWalletErr(err)
	}
	l.Infof("wallet session closed: id=%s tenant=%s balance=%s", sess.ID, sess.TenantID, sess.Balance)
	info := sessionToInfo(sess)
	return &info, nil
}
