package logic

import (
	"errors"
	"time"

	"github.com/pitbossdev/pitboss/internal/apperr"
	"github.com/pitbossdev/pitboss/internal/auth"
	"github.com/pitbossdev/pitboss/internal/wallet"
	"github.com/pitbossdev/pitboss/internal/server/types"
)

// walletAuth gates wallet session operations. Sessions always belong to the
// caller's own tenant, so a self grant is enough.
func walletAuth(p auth.Principal) error {
	if !p.Perms.Authorize("wallets", "sessions", true).Allowed() {
		return apperr.PermissionDenied("missing wallets.sessions")
	}
	return nil
}

func sessionToInfo(s *wallet.Session) types.WalletSessionInfo {
	info := types.WalletSessionInfo{
		ID:       s.ID,
		TenantID: s.TenantID,
		PlayerID: s.PlayerID,
		Currency: s.Currency,
		Balance:  s.Balance.String(),
		OpenedAt: s.OpenedAt.UTC().Format(time.RFC3339),
	}
	if s.ClosedAt != nil {
		info.ClosedAt = s.ClosedAt.UTC().Format(time.RFC3339)
	}
	return info
}

func mapWalletErr(err error) error {
	switch {
	case errors.Is(err, wallet.ErrNotFound):
		return apperr.NotFound("wallet session not found")
	case errors.Is(err, wallet.ErrClosed):
		return apperr.Validationf("wallet session closed")
	case errors.Is(err, wallet.ErrInsufficientFunds):
		return apperr.Validationf("insufficient funds")
	default:
		return err
	}
}
