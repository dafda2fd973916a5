// Package jobs runs the periodic housekeeping that is independent of request
// traffic: expired cart cleanup and flagging of stale pending orders.
package jobs

import (
	"context"
	"log"
	"time"

	"github.com/henuka/imitations-api/services"
)

type Sweeper struct {
	carts  *services.CartService
	orders *services.OrderService

	interval            time.Duration
	cartExpiry          time.Duration
	pendingOrderTimeout time.Duration
}

func NewSweeper(carts *services.CartService, orders *services.OrderService, interval, cartExpiry, pendingOrderTimeout time.Duration) *Sweeper {
	return &Sweeper{
		carts:               carts,
		orders:              orders,
		interval:            interval,
		cartExpiry:          cartExpiry,
		pendingOrderTimeout: pendingOrderTimeout,
	}
}

// Start launches the sweep loop. It returns immediately; the loop stops when
// ctx is cancelled. Sweep errors are logged and never interrupt the loop.
func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("Sweeper stopped.")
				return
			case <-ticker.C:
				s.runOnce()
			}
		}
	}()
}

func (s *Sweeper) runOnce() {
	if removed, err := s.carts.CleanupExpiredCarts(s.cartExpiry); err != nil {
		log.Println("Cart expiry sweep failed:", err)
	} else if removed > 0 {
		log.Printf("Cart expiry sweep removed %d item(s)", removed)
	}

	if flagged, err := s.orders.FlagStalePendingOrders(s.pendingOrderTimeout); err != nil {
		log.Println("Stale order sweep failed:", err)
	} else if flagged > 0 {
		log.Printf("Flagged %d stale pending order(s) for review", flagged)
	}
}
